package telnet

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/drake/telnet/config"
)

// Config is the recognised configuration surface (§6). Zero value is not
// meaningful; use DefaultConfig.
type Config struct {
	// Encoding is the character-set name this side offers in its CHARSET
	// REQUEST (opt_charset.go). It is sent as given, not resolved through
	// charset_table.go, and no value of it (including "binary bytes")
	// changes how data bytes are handled.
	Encoding string
	// ForceBinary treats both directions as BINARY regardless of
	// negotiation outcome — needed for BSD/netcat peers that never
	// negotiate but still send 8-bit data.
	ForceBinary bool

	ConnectMinwait time.Duration
	ConnectMaxwait time.Duration
	ConnectTimeout time.Duration

	Term  string
	Speed string

	// SendEnviron is the allowlist of variable names offered via
	// NEW_ENVIRON IS (§4.E "NEW_ENVIRON").
	SendEnviron []string

	NeverSendGA bool

	// DefaultSLCTable overrides the seed SLC defaults (slc.go's
	// DefaultSLCTable) when non-nil.
	DefaultSLCTable SLCTable
}

// DefaultConfig returns the engine's out-of-the-box configuration,
// falling back to LANG for Encoding the way a real terminal client would
// (§6: "default is UTF-8 with fallback via LANG/CHARSET/TTYPE").
func DefaultConfig() Config {
	c := Config{
		Encoding:       encodingFromEnv(),
		ConnectMinwait: 100 * time.Millisecond,
		ConnectMaxwait: 5 * time.Second,
		ConnectTimeout: 10 * time.Second,
		Term:           termFromEnv(),
		Speed:          speedFromEnv(),
		SendEnviron:    []string{"LANG", "TERM"},
	}
	applyFileOverrides(&c, config.File())
	return c
}

// fileOverrides mirrors the subset of Config worth persisting on disk
// (§6 "Persisted state: none at the protocol layer" — this is operator
// convenience living outside the engine, not protocol state).
type fileOverrides struct {
	ConnectMinwaitMS *int64   `json:"connect_minwait_ms"`
	ConnectMaxwaitMS *int64   `json:"connect_maxwait_ms"`
	ConnectTimeoutMS *int64   `json:"connect_timeout_ms"`
	Term             *string  `json:"term"`
	Speed            *string  `json:"speed"`
	SendEnviron      []string `json:"send_environ"`
	NeverSendGA      *bool    `json:"never_send_ga"`
}

// applyFileOverrides merges an optional JSON file at path into c. A
// missing or unreadable file is not an error — it just means defaults
// stand, same as a fresh install with no config/telnet/config.json yet.
func applyFileOverrides(c *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var o fileOverrides
	if err := json.Unmarshal(data, &o); err != nil {
		return
	}
	if o.ConnectMinwaitMS != nil {
		c.ConnectMinwait = time.Duration(*o.ConnectMinwaitMS) * time.Millisecond
	}
	if o.ConnectMaxwaitMS != nil {
		c.ConnectMaxwait = time.Duration(*o.ConnectMaxwaitMS) * time.Millisecond
	}
	if o.ConnectTimeoutMS != nil {
		c.ConnectTimeout = time.Duration(*o.ConnectTimeoutMS) * time.Millisecond
	}
	if o.Term != nil {
		c.Term = *o.Term
	}
	if o.Speed != nil {
		c.Speed = *o.Speed
	}
	if o.SendEnviron != nil {
		c.SendEnviron = o.SendEnviron
	}
	if o.NeverSendGA != nil {
		c.NeverSendGA = *o.NeverSendGA
	}
}

func encodingFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return "UTF-8"
}

func termFromEnv() string {
	if v := os.Getenv("TERM"); v != "" {
		return v
	}
	return "xterm-256color"
}

// speedFromEnv is a best-effort stand-in for a real tty query — there is
// no portable way to read the controlling terminal's baud rate purely
// from the environment, so this reports the conventional "fast/local"
// wire value TSPEED clients use when no serial line is involved.
func speedFromEnv() string {
	return strconv.Itoa(38400) + "," + strconv.Itoa(38400)
}
