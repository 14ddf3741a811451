package telnet

import "fmt"

// opt_linemode.go implements LINEMODE (RFC 1184): MODE negotiation with an
// explicit ACK handshake, FORWARDMASK (accepted and recorded, never
// enforced — filtering which characters force a line early is a local
// editing-policy decision this engine leaves to the caller), and the SLC
// table exchange, which defers to slc.go's table type but owns the wire
// protocol for agreeing on it.

const (
	lmCmdMode        byte = 1
	lmCmdForwardmask byte = 2
	lmCmdSLC         byte = 3
)

// MODE flags (RFC 1184 §2.1).
const (
	LMEdit    byte = 0x01
	LMTrapsig byte = 0x02
	LMAck     byte = 0x04
	LMSoftTab byte = 0x08
	LMLitEcho byte = 0x10
)

func init() {
	registerOption(OptLinemode, "LINEMODE", initiatorEither, &optionHandler{
		postEnableRemote: func(s *Session) {
			// Only the server side proposes a MODE; the client (the side
			// that just offered WILL LINEMODE) waits to be told.
			if s.role == RoleServer {
				s.linemode.mode = LMEdit | LMTrapsig
				s.linemode.ackPending = true
				s.SendSB(OptLinemode, []byte{lmCmdMode, s.linemode.mode})
			}
		},
		subnegotiate: (*Session).handleLinemodeSubneg,
	})
}

func (s *Session) handleLinemodeSubneg(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty LINEMODE subnegotiation")
	}
	switch payload[0] {
	case lmCmdMode:
		return s.handleLinemodeMode(payload[1:])
	case lmCmdForwardmask:
		s.linemode.forwardmask = append([]byte(nil), payload[1:]...)
		s.logf(logInfo, "LINEMODE FORWARDMASK received (%d bytes), accepted but not enforced", len(s.linemode.forwardmask))
		return nil
	case lmCmdSLC:
		return s.handleLinemodeSLC(payload[1:])
	default:
		return fmt.Errorf("unknown LINEMODE subcommand %d", payload[0])
	}
}

func (s *Session) handleLinemodeMode(rest []byte) error {
	if len(rest) < 1 {
		return fmt.Errorf("short LINEMODE MODE subnegotiation")
	}
	flags := rest[0]

	if flags&LMAck != 0 {
		// Ack of our own earlier proposal.
		s.linemode.mode = flags &^ LMAck
		s.linemode.ackPending = false
		s.logf(logDebug, "LINEMODE MODE acked: %#02x", s.linemode.mode)
		return nil
	}

	// Peer proposing a MODE. A re-send of the mode we already hold with
	// nothing pending is a redundant offer — no-op, don't loop.
	if s.linemode.mode == flags && !s.linemode.ackPending {
		return nil
	}
	s.linemode.mode = flags
	s.linemode.ackPending = false
	s.SendSB(OptLinemode, []byte{lmCmdMode, flags | LMAck})
	return nil
}

func (s *Session) handleLinemodeSLC(triples []byte) error {
	if len(triples)%3 != 0 {
		return fmt.Errorf("LINEMODE SLC subnegotiation length %d not a multiple of 3", len(triples))
	}
	var reply []byte
	for i := 0; i+3 <= len(triples); i += 3 {
		fn := SLCFunction(triples[i])
		peer := SLCEntry{Flags: triples[i+1], Value: triples[i+2]}
		result, send := s.negotiateSLCEntry(fn, peer)
		if send {
			reply = append(reply, byte(fn), result.Flags, result.Value)
		}
	}
	if len(reply) > 0 {
		s.SendSB(OptLinemode, append([]byte{lmCmdSLC}, reply...))
	}
	return nil
}

// negotiateSLCEntry applies the SLC triple-exchange rule (§3 SLC):
// an ACK'd peer value is accepted verbatim; a NOSUPPORT from the peer
// clears our entry; otherwise the higher level wins and is echoed back
// with ACK set, with a tie broken to the compiled-in default.
func (s *Session) negotiateSLCEntry(fn SLCFunction, peer SLCEntry) (SLCEntry, bool) {
	local := s.slcTable[fn]

	if peer.Flags&SLCAck != 0 {
		accepted := SLCEntry{Value: peer.Value, Flags: peer.Flags}
		s.slcTable[fn] = accepted
		return accepted, false
	}

	if peer.Level() == SLCNoSupport {
		cleared := SLCEntry{Value: 0, Flags: byte(SLCNoSupport)}
		s.slcTable[fn] = cleared
		return cleared, true
	}

	switch {
	case local.Level() > peer.Level():
		reply := SLCEntry{Value: local.Value, Flags: local.Flags | SLCAck}
		return reply, true
	case local.Level() < peer.Level():
		accepted := SLCEntry{Value: peer.Value, Flags: peer.Flags | SLCAck}
		s.slcTable[fn] = accepted
		return accepted, true
	default:
		def := DefaultSLCTable()[fn]
		s.slcTable[fn] = def
		return SLCEntry{Value: def.Value, Flags: def.Flags | SLCAck}, true
	}
}
