package telnet

import "fmt"

// opt_lflow.go implements TOGGLE-FLOW-CONTROL (RFC 1372): a single-byte
// subnegotiation selecting whether the client performs XON/XOFF flow
// control locally, and whether restart is triggered by any key or only
// XON specifically.

const (
	lflowOff        byte = 0
	lflowOn         byte = 1
	lflowRestartAny byte = 2
	lflowRestartXon byte = 3
)

func init() {
	registerOption(OptLFLOW, "TOGGLE-FLOW-CONTROL", initiatorEither, &optionHandler{
		subnegotiate: (*Session).handleLFLOWSubneg,
	})
}

func (s *Session) handleLFLOWSubneg(payload []byte) error {
	if len(payload) != 1 {
		return fmt.Errorf("LFLOW subnegotiation must be 1 byte, got %d", len(payload))
	}
	switch payload[0] {
	case lflowOff:
		s.lflowOn = false
	case lflowOn:
		s.lflowOn = true
	case lflowRestartAny:
		s.xonAny = true
	case lflowRestartXon:
		s.xonAny = false
	default:
		return fmt.Errorf("unknown LFLOW subcommand %d", payload[0])
	}
	return nil
}
