package telnet

import "fmt"

// opt_charset.go implements CHARSET (RFC 2066): the side that enables it
// locally asks the peer to agree on an encoding via REQUEST; the peer
// picks the first candidate it recognises (resolved through
// charset_table.go) and ACCEPTs, or REJECTs if none match.

const (
	charsetRequest  byte = 1
	charsetAccepted byte = 2
	charsetRejected byte = 3
)

func init() {
	registerOption(OptCharset, "CHARSET", initiatorEither, &optionHandler{
		postEnableLocal: func(s *Session) { s.sendCharsetRequest() },
		subnegotiate:    (*Session).handleCharsetSubneg,
	})
}

func (s *Session) sendCharsetRequest() {
	name := s.cfg.Encoding
	if name == "" {
		name = "UTF-8"
	}
	payload := append([]byte{charsetRequest}, []byte(";"+name)...)
	s.SendSB(OptCharset, payload)
}

func (s *Session) handleCharsetSubneg(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty CHARSET subnegotiation")
	}
	switch payload[0] {
	case charsetRequest:
		return s.handleCharsetRequestFromPeer(payload[1:])
	case charsetAccepted:
		s.charset = string(payload[1:])
		s.logf(logInfo, "peer accepted charset %q", s.charset)
		return nil
	case charsetRejected:
		s.logf(logWarn, "peer rejected our CHARSET request")
		return nil
	default:
		s.logf(logDebug, "ignoring CHARSET subcommand %d", payload[0])
		return nil
	}
}

func (s *Session) handleCharsetRequestFromPeer(rest []byte) error {
	if len(rest) == 0 {
		return fmt.Errorf("malformed CHARSET REQUEST: missing separator")
	}
	sep := rest[0]
	for _, candidate := range splitCharsetList(rest[1:], sep) {
		if canon, ok := CanonicalCharset(candidate); ok {
			s.charset = canon
			s.SendSB(OptCharset, append([]byte{charsetAccepted}, []byte(canon)...))
			return nil
		}
	}
	s.SendSB(OptCharset, []byte{charsetRejected})
	return nil
}

func splitCharsetList(data []byte, sep byte) []string {
	var out []string
	start := 0
	for i, b := range data {
		if b == sep {
			out = append(out, string(data[start:i]))
			start = i + 1
		}
	}
	return append(out, string(data[start:]))
}
