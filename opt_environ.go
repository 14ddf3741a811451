package telnet

import (
	"fmt"
	"os"
)

// opt_environ.go implements NEW-ENVIRON (RFC 1572): SEND/IS exchange of
// VAR/USERVAR name-value pairs, byte-stuffed with ESC so a literal
// VAR/VALUE/ESC/USERVAR byte inside a name or value can't be mistaken for
// a token boundary.

const (
	environVar     byte = 0
	environValue   byte = 1
	environEsc     byte = 2
	environUserVar byte = 3
)

func init() {
	registerOption(OptNewEnviron, "NEW-ENVIRON", initiatorEither, &optionHandler{
		subnegotiate: (*Session).handleEnvironSubneg,
	})
}

func (s *Session) handleEnvironSubneg(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty NEW-ENVIRON subnegotiation")
	}
	switch Operation(payload[0]) {
	case OpSEND:
		s.sendEnvironIS()
		return nil
	case OpIS:
		s.parseEnvironIS(payload[1:])
		return nil
	default:
		return fmt.Errorf("unknown NEW-ENVIRON operation %d", payload[0])
	}
}

func (s *Session) sendEnvironIS() {
	buf := []byte{byte(OpIS)}
	for _, name := range s.cfg.SendEnviron {
		val, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		buf = append(buf, environVar)
		buf = append(buf, escapeEnviron([]byte(name))...)
		buf = append(buf, environValue)
		buf = append(buf, escapeEnviron([]byte(val))...)
	}
	s.SendSB(OptNewEnviron, buf)
}

func escapeEnviron(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for _, c := range raw {
		switch c {
		case environVar, environValue, environEsc, environUserVar:
			out = append(out, environEsc)
		}
		out = append(out, c)
	}
	return out
}

// parseEnvironIS decodes a sequence of VAR/USERVAR name, VALUE value
// tokens into s.environVars. A name with no following VALUE token (the
// peer declares but doesn't set it) is recorded with an empty value.
func (s *Session) parseEnvironIS(data []byte) {
	i := 0
	readToken := func() []byte {
		var out []byte
		for i < len(data) {
			b := data[i]
			if b == environEsc && i+1 < len(data) {
				out = append(out, data[i+1])
				i += 2
				continue
			}
			if b == environVar || b == environValue || b == environUserVar {
				break
			}
			out = append(out, b)
			i++
		}
		return out
	}

	var name []byte
	haveName := false
	for i < len(data) {
		tok := data[i]
		i++
		switch tok {
		case environVar, environUserVar:
			if haveName {
				s.environVars[string(name)] = ""
			}
			name = readToken()
			haveName = true
		case environValue:
			val := readToken()
			if haveName {
				s.environVars[string(name)] = string(val)
				haveName = false
			}
		}
	}
	if haveName {
		s.environVars[string(name)] = ""
	}
}
