package telnet

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// charsetCache holds resolved CHARSET aliases (§4.E "CHARSET"): the
// option's wire values are free-form IANA MIB names ("UTF-8",
// "ISO-8859-1", "US-ASCII", ...), and resolving one means walking two
// x/text registries, so a bounded cache avoids redoing that for every
// subnegotiation in a long-lived session.
var charsetCache, _ = lru.New[string, string](128)

// CanonicalCharset resolves a CHARSET subnegotiation name to the
// canonical name golang.org/x/text recognises. ok is false if no known
// encoding matches.
func CanonicalCharset(name string) (canon string, ok bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	if v, hit := charsetCache.Get(key); hit {
		return v, v != ""
	}
	canon = resolveCharset(name)
	charsetCache.Add(key, canon)
	return canon, canon != ""
}

func resolveCharset(name string) string {
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		if canon, err := ianaindex.IANA.Name(enc); err == nil {
			return canon
		}
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		if canon, err := htmlindex.Name(enc); err == nil {
			return canon
		}
	}
	return ""
}
