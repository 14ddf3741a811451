package telnet

// subneg.go implements component D, the subnegotiation dispatcher: route a
// fully-framed SB payload to its option handler, or drop it with a single
// logged warning. Handlers never panic the engine — any error they return
// is logged and swallowed (§4.D, §7.3).

func (s *Session) handleSubnegotiation(opt Option, payload []byte) {
	e := entryFor(opt)
	if e.handler == nil || e.handler.subnegotiate == nil {
		s.logf(logWarn, "dropping SB %s: no handler registered", opt)
		return
	}
	if s.localOption[opt] != Enabled && s.remoteOption[opt] != Enabled {
		s.logf(logWarn, "dropping SB %s: option not enabled on either side", opt)
		return
	}
	if err := e.handler.subnegotiate(s, payload); err != nil {
		s.logf(logWarn, "SB %s: %v", opt, err)
	}
}

func (s *Session) handleMalformedSubnegotiation(opt Option, warning string) {
	s.logf(logWarn, "malformed SB %s: %s", opt, warning)
}
