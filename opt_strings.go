package telnet

import "fmt"

// opt_strings.go implements the three options that share plain SEND/IS
// string framing: TSPEED (RFC 1079, "rx,tx" decimal), XDISPLOC (RFC 1096,
// an X11 display string), and SNDLOC (RFC 779, a free-form location
// string).

func init() {
	registerOption(OptTSPEED, "TERMINAL-SPEED", initiatorEither, &optionHandler{
		subnegotiate: (*Session).handleTSPEEDSubneg,
	})
	registerOption(OptXDISPLOC, "X-DISPLAY-LOCATION", initiatorEither, &optionHandler{
		subnegotiate: (*Session).handleXDISPLOCSubneg,
	})
	registerOption(OptSNDLOC, "SEND-LOCATION", initiatorEither, &optionHandler{
		subnegotiate: (*Session).handleSNDLOCSubneg,
	})
}

func (s *Session) handleTSPEEDSubneg(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty TERMINAL-SPEED subnegotiation")
	}
	switch Operation(payload[0]) {
	case OpSEND:
		s.SendSB(OptTSPEED, append([]byte{byte(OpIS)}, []byte(s.cfg.Speed)...))
		return nil
	case OpIS:
		s.logf(logInfo, "peer terminal speed %q", string(payload[1:]))
		return nil
	default:
		return fmt.Errorf("unknown TERMINAL-SPEED operation %d", payload[0])
	}
}

func (s *Session) handleXDISPLOCSubneg(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty X-DISPLAY-LOCATION subnegotiation")
	}
	switch Operation(payload[0]) {
	case OpSEND:
		s.SendSB(OptXDISPLOC, append([]byte{byte(OpIS)}, []byte(s.xdisploc)...))
		return nil
	case OpIS:
		s.xdisploc = string(payload[1:])
		s.logf(logInfo, "peer X display %q", s.xdisploc)
		return nil
	default:
		return fmt.Errorf("unknown X-DISPLAY-LOCATION operation %d", payload[0])
	}
}

func (s *Session) handleSNDLOCSubneg(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty SEND-LOCATION subnegotiation")
	}
	switch Operation(payload[0]) {
	case OpSEND:
		s.SendSB(OptSNDLOC, append([]byte{byte(OpIS)}, []byte(s.sndloc)...))
		return nil
	case OpIS:
		s.sndloc = string(payload[1:])
		s.logf(logInfo, "peer location %q", s.sndloc)
		return nil
	default:
		return fmt.Errorf("unknown SEND-LOCATION operation %d", payload[0])
	}
}

// SetLocation sets the value this side reports via SNDLOC.
func (s *Session) SetLocation(loc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sndloc = loc
}

// SetXDisplay sets the value this side reports via XDISPLOC.
func (s *Session) SetXDisplay(display string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xdisploc = display
}
