package telnet

import "fmt"

// opt_status.go implements STATUS (RFC 859): on SEND, report our view of
// every negotiated option as a flat WILL/WONT/DO/DONT-opt byte sequence;
// on IS, compare the peer's reported view of us against our own and
// surface any disagreement (SUPPLEMENTED FEATURES: STATUS reconciliation
// hook) without ever auto-correcting our own state from it.

func init() {
	registerOption(OptStatus, "STATUS", initiatorEither, &optionHandler{
		subnegotiate: (*Session).handleStatusSubneg,
	})
}

func (s *Session) handleStatusSubneg(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty STATUS subnegotiation")
	}
	switch Operation(payload[0]) {
	case OpSEND:
		s.sendStatusIS()
		return nil
	case OpIS:
		s.reconcileStatus(payload[1:])
		return nil
	default:
		return fmt.Errorf("unknown STATUS operation %d", payload[0])
	}
}

func (s *Session) sendStatusIS() {
	buf := []byte{byte(OpIS)}
	for opt := 0; opt < 256; opt++ {
		if entryFor(Option(opt)).name == "" {
			continue
		}
		switch s.localOption[opt] {
		case Enabled:
			buf = append(buf, byte(CmdWILL), byte(opt))
		case Disabled:
			buf = append(buf, byte(CmdWONT), byte(opt))
		}
		switch s.remoteOption[opt] {
		case Enabled:
			buf = append(buf, byte(CmdDO), byte(opt))
		case Disabled:
			buf = append(buf, byte(CmdDONT), byte(opt))
		}
	}
	s.SendSB(OptStatus, buf)
}

func (s *Session) reconcileStatus(data []byte) {
	mismatch := false
	for i := 0; i+1 < len(data); i += 2 {
		verb := Command(data[i])
		opt := Option(data[i+1])
		switch verb {
		case CmdWILL:
			if s.remoteOption[opt] != Enabled {
				mismatch = true
				s.logf(logWarn, "STATUS mismatch: peer believes WILL %s, we have %s", opt, s.remoteOption[opt])
			}
		case CmdDO:
			if s.localOption[opt] != Enabled {
				mismatch = true
				s.logf(logWarn, "STATUS mismatch: peer believes we WILL %s, we have %s", opt, s.localOption[opt])
			}
		case CmdWONT:
			if s.remoteOption[opt] == Enabled {
				mismatch = true
				s.logf(logWarn, "STATUS mismatch: peer believes WONT %s, we have %s", opt, s.remoteOption[opt])
			}
		case CmdDONT:
			if s.localOption[opt] == Enabled {
				mismatch = true
				s.logf(logWarn, "STATUS mismatch: peer believes we WONT %s, we have %s", opt, s.localOption[opt])
			}
		}
	}
	if mismatch && s.onStatusMismatch != nil {
		s.onStatusMismatch(s.localOption, s.remoteOption)
	}
}
