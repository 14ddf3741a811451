package telnet

import "fmt"

// opt_naws.go implements NAWS (RFC 1073): a client-only option carrying a
// 4-byte (cols-hi, cols-lo, rows-hi, rows-lo) subnegotiation, sent once on
// enable and again whenever the client's terminal is resized.

func init() {
	registerOption(OptNAWS, "NAWS", initiatorClientOnly, &optionHandler{
		postEnableLocal: func(s *Session) { s.sendNAWSLocked() },
		subnegotiate:    (*Session).handleNAWSSubneg,
	})
}

// SendNAWS reports a new terminal size to the peer. Safe to call any time
// after NAWS is enabled locally (e.g. on a SIGWINCH-driven resize).
func (s *Session) SendNAWS(cols, rows uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.naws.Cols, s.naws.Rows = cols, rows
	s.sendNAWSLocked()
}

func (s *Session) sendNAWSLocked() {
	c, r := s.naws.Cols, s.naws.Rows
	s.SendSB(OptNAWS, []byte{byte(c >> 8), byte(c), byte(r >> 8), byte(r)})
}

func (s *Session) handleNAWSSubneg(payload []byte) error {
	if len(payload) != 4 {
		return fmt.Errorf("NAWS subnegotiation must be 4 bytes, got %d", len(payload))
	}
	s.naws.Cols = uint16(payload[0])<<8 | uint16(payload[1])
	s.naws.Rows = uint16(payload[2])<<8 | uint16(payload[3])
	return nil
}
