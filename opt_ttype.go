package telnet

import (
	"fmt"
	"strings"
)

// opt_ttype.go implements TERMINAL-TYPE (RFC 1091) on both sides of the
// exchange:
//
//   - advertiser (postEnableLocal / OpSEND branch): the peer SENDs, we
//     reply IS with the next name in our own advertise cycle, repeating
//     the last entry forever once the cycle is exhausted (the
//     conventional way a client signals "that's everything I've got").
//   - collector (postEnableRemote / OpIS branch): we SEND, the peer
//     replies IS; we keep asking and appending to ttypeChain until the
//     peer repeats its previous value (case-insensitive) or the chain
//     hits ttypeChainCap (§4.E), whichever comes first.

// ttypeChainCap bounds how many distinct terminal types a collector will
// record for one peer before giving up (§4.E "hard cap (20)").
const ttypeChainCap = 20

func init() {
	registerOption(OptTTYPE, "TERMINAL-TYPE", initiatorEither, &optionHandler{
		postEnableLocal:  func(s *Session) { s.initTTYPECycle() },
		postEnableRemote: func(s *Session) { s.sendTTYPESend() },
		subnegotiate:     (*Session).handleTTYPESubneg,
	})
}

func (s *Session) initTTYPECycle() {
	if len(s.ttypeCycle) == 0 {
		s.ttypeCycle = []string{s.cfg.Term}
	}
	s.ttypeIndex = 0
}

func (s *Session) sendTTYPESend() {
	s.SendSB(OptTTYPE, []byte{byte(OpSEND)})
}

func (s *Session) handleTTYPESubneg(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty TERMINAL-TYPE subnegotiation")
	}
	switch Operation(payload[0]) {
	case OpSEND:
		if len(s.ttypeCycle) == 0 {
			s.initTTYPECycle()
		}
		name := s.ttypeCycle[s.ttypeIndex]
		if s.ttypeIndex < len(s.ttypeCycle)-1 {
			s.ttypeIndex++
		}
		s.SendSB(OptTTYPE, append([]byte{byte(OpIS)}, []byte(name)...))
		return nil
	case OpIS:
		s.recordTTYPE(string(payload[1:]))
		return nil
	default:
		return fmt.Errorf("unknown TERMINAL-TYPE operation %d", payload[0])
	}
}

// recordTTYPE appends name to the collected chain and, unless the peer
// just repeated its previous value or the cap was hit, asks for another.
// A repeat of the last recorded entry is the peer's "that's everything"
// signal, not a new chain entry, so it is not itself appended.
func (s *Session) recordTTYPE(name string) {
	s.logf(logInfo, "peer terminal type %q", name)
	s.cfg.Term = name

	if len(s.ttypeChain) > 0 && strings.EqualFold(s.ttypeChain[len(s.ttypeChain)-1], name) {
		return
	}
	if len(s.ttypeChain) >= ttypeChainCap {
		return
	}

	s.ttypeChain = append(s.ttypeChain, name)
	if len(s.ttypeChain) >= ttypeChainCap {
		return
	}
	s.sendTTYPESend()
}
