package telnet

// writer.go implements component H, the encoder: frame outbound IAC
// commands, double IAC in data regions, and apply the inverse of the
// line-terminator policy from §4.G based on the local BINARY/SGA state.

// eolPolicy describes how an outbound '\n' is rewritten.
type eolPolicy int

const (
	eolPassThrough eolPolicy = iota // BINARY: no rewriting
	eolCRLF                          // NVT default
	eolCRNUL                         // SGA set, BINARY not set: legacy BSD behavior
)

func (s *Session) outboundEOLPolicy() eolPolicy {
	if s.localOption[OptBinary] == Enabled || s.cfg.ForceBinary {
		return eolPassThrough
	}
	if s.localOption[OptSGA] == Enabled {
		return eolCRNUL
	}
	return eolCRLF
}

// appendOut appends raw bytes (already framed/escaped) to the outbound
// queue, blocking the producer if the soft cap is reached (§5 backpressure).
func (s *Session) appendOut(b []byte) {
	s.out.push(b)
}

// sendIAC emits a 3-byte negotiation command: IAC verb opt.
func (s *Session) sendIAC(verb Command, opt Option) {
	s.appendOut([]byte{byte(CmdIAC), byte(verb), byte(opt)})
}

// sendCommand emits a 2-byte simple command: IAC cmd.
func (s *Session) sendCommand(cmd Command) {
	s.appendOut([]byte{byte(CmdIAC), byte(cmd)})
}

// escapeIAC doubles every 0xFF byte, per RFC 854.
func escapeIAC(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		out = append(out, b)
		if b == byte(CmdIAC) {
			out = append(out, b)
		}
	}
	return out
}

// SendSB frames a subnegotiation: IAC SB opt <payload, IAC-doubled> IAC SE.
func (s *Session) SendSB(opt Option, payload []byte) {
	escaped := escapeIAC(payload)
	buf := make([]byte, 0, 3+len(escaped)+2)
	buf = append(buf, byte(CmdIAC), byte(CmdSB), byte(opt))
	buf = append(buf, escaped...)
	buf = append(buf, byte(CmdIAC), byte(CmdSE))
	s.appendOut(buf)
}

// Write encodes application data for the wire: IAC-doubling plus the
// line-ending policy inverse of §4.G. It is the write-half counterpart to
// Step; Step never calls it.
func (s *Session) Write(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(data)
}

// write is Write's body, for callers that already hold s.mu (Echo, which
// Step reaches through maybeEcho).
func (s *Session) write(data []byte) {
	policy := s.outboundEOLPolicy()
	out := make([]byte, 0, len(data)+8)
	for _, b := range data {
		switch {
		case b == byte(CmdIAC):
			out = append(out, b, b)
		case b == '\n' && policy == eolCRLF:
			out = append(out, '\r', '\n')
		case b == '\n' && policy == eolCRNUL:
			out = append(out, '\r', 0)
		default:
			out = append(out, b)
		}
	}
	s.appendOut(out)
}

// SendGA emits IAC GA after prompt-like output, unless SGA is enabled
// locally or the caller has opted out via Config.NeverSendGA.
func (s *Session) SendGA() {
	if s.cfg.NeverSendGA {
		return
	}
	if s.localOption[OptSGA] == Enabled {
		return
	}
	s.sendCommand(CmdGA)
}

// Echo writes bytes back to the peer, but only when ECHO is enabled
// locally (we are echoing on the peer's behalf).
func (s *Session) Echo(data []byte) {
	if s.localOption[OptEcho] != Enabled {
		return
	}
	s.write(data)
}
