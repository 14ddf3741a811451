package telnet

// negotiate.go implements component C, the negotiation core: tracking
// local/remote tri-state per option, enforcing "no loops, no redundant
// asks", and running post-enable hooks exactly once per transition.

func optionKnown(opt Option) bool {
	return entryFor(opt).name != ""
}

// handleNegotiate dispatches one already-decoded WILL/WONT/DO/DONT.
func (s *Session) handleNegotiate(verb Command, opt Option) {
	switch verb {
	case CmdWILL:
		s.handleWill(opt)
	case CmdWONT:
		s.handleWont(opt)
	case CmdDO:
		s.handleDo(opt)
	case CmdDONT:
		s.handleDont(opt)
	}
}

// handleWill processes an inbound WILL(opt) — the peer offering to enable
// opt on its (remote, from our view) side.
func (s *Session) handleWill(opt Option) {
	cur := s.remoteOption[opt]

	if cur == Enabled {
		// RFC "don't re-ack": a reply that matches current state with no
		// pending flag produces zero outbound bytes (§8 property #3).
		s.logf(logDebug, "WILL %s already enabled remotely, dropping redundant ack", opt)
		return
	}

	if cur == PendingOn {
		s.remoteOption[opt] = Enabled
		s.logf(logDebug, "WILL %s accepted (was pending)", opt)
		s.firePostEnableRemote(opt)
		s.notifyWaiters()
		return
	}

	if !optionKnown(opt) || !directionOK(opt, CmdWILL, s.role) {
		s.remoteOption[opt] = Disabled
		s.sendIAC(CmdDONT, opt)
		s.logf(logInfo, "refusing WILL %s (unsupported or wrong direction)", opt)
		return
	}

	// Unsolicited offer we accept.
	s.remoteOption[opt] = Enabled
	s.sendIAC(CmdDO, opt)
	s.firePostEnableRemote(opt)
	s.notifyWaiters()
}

// handleWont processes an inbound WONT(opt).
func (s *Session) handleWont(opt Option) {
	cur := s.remoteOption[opt]

	if cur == Disabled {
		s.logf(logDebug, "WONT %s already disabled remotely, dropping redundant ack", opt)
		return
	}

	if cur.Pending() {
		s.remoteOption[opt] = Disabled
		s.notifyWaiters()
		return
	}

	s.remoteOption[opt] = Disabled
	s.sendIAC(CmdDONT, opt)
	s.notifyWaiters()
}

// handleDo processes an inbound DO(opt) — the peer asking us to enable opt locally.
func (s *Session) handleDo(opt Option) {
	// §4.C: DO LINEMODE is asymmetric. On the client side it is always
	// refused, regardless of pending state or prior offers (§8 property #4).
	if opt == OptLinemode && s.role == RoleClient {
		s.localOption[opt] = Disabled
		s.sendIAC(CmdWONT, opt)
		s.logf(logInfo, "refusing DO LINEMODE on client side (RFC 1184 asymmetry)")
		return
	}

	cur := s.localOption[opt]

	if cur == Enabled {
		s.logf(logDebug, "DO %s already enabled locally, dropping redundant ack", opt)
		return
	}

	if cur == PendingOn {
		s.localOption[opt] = Enabled
		s.firePostEnableLocal(opt)
		s.notifyWaiters()
		return
	}

	if !optionKnown(opt) || !directionOK(opt, CmdDO, s.role) {
		s.localOption[opt] = Disabled
		s.sendIAC(CmdWONT, opt)
		s.logf(logInfo, "refusing DO %s (unsupported or wrong direction)", opt)
		return
	}

	s.localOption[opt] = Enabled
	s.sendIAC(CmdWILL, opt)
	s.firePostEnableLocal(opt)
	s.notifyWaiters()
}

// handleDont processes an inbound DONT(opt).
func (s *Session) handleDont(opt Option) {
	cur := s.localOption[opt]

	if cur == Disabled {
		s.logf(logDebug, "DONT %s already disabled locally, dropping redundant ack", opt)
		return
	}

	if cur.Pending() {
		s.localOption[opt] = Disabled
		s.notifyWaiters()
		return
	}

	s.localOption[opt] = Disabled
	s.sendIAC(CmdWONT, opt)
	s.notifyWaiters()
}

func (s *Session) firePostEnableLocal(opt Option) {
	if h := entryFor(opt).handler; h != nil && h.postEnableLocal != nil {
		h.postEnableLocal(s)
	}
}

func (s *Session) firePostEnableRemote(opt Option) {
	if h := entryFor(opt).handler; h != nil && h.postEnableRemote != nil {
		h.postEnableRemote(s)
	}
}

// requestWill and the three request* functions below are the bodies of
// the Request* methods, callable by code that already holds s.mu
// (opt_tm.go's SendTimingMark uses requestDo, its ack hook requestDont).
func (s *Session) requestWill(opt Option) error {
	if s.localOption[opt].Pending() {
		return ErrAlreadyPending
	}
	if s.localOption[opt] == Enabled {
		return ErrAlreadyEnabled
	}
	s.localOption[opt] = PendingOn
	s.sendIAC(CmdWILL, opt)
	return nil
}

func (s *Session) requestWont(opt Option) error {
	if s.localOption[opt].Pending() {
		return ErrAlreadyPending
	}
	if s.localOption[opt] == Disabled {
		return ErrAlreadyDisabled
	}
	s.localOption[opt] = PendingOff
	s.sendIAC(CmdWONT, opt)
	return nil
}

func (s *Session) requestDo(opt Option) error {
	if s.remoteOption[opt].Pending() {
		return ErrAlreadyPending
	}
	if s.remoteOption[opt] == Enabled {
		return ErrAlreadyEnabled
	}
	s.remoteOption[opt] = PendingOn
	s.sendIAC(CmdDO, opt)
	return nil
}

func (s *Session) requestDont(opt Option) error {
	if s.remoteOption[opt].Pending() {
		return ErrAlreadyPending
	}
	if s.remoteOption[opt] == Disabled {
		return ErrAlreadyDisabled
	}
	s.remoteOption[opt] = PendingOff
	s.sendIAC(CmdDONT, opt)
	return nil
}

// RequestWill asks the peer to let us enable opt locally (outbound WILL).
// It fails fast (§7.5, caller misuse) instead of sending anything on the
// wire if a request is already pending or the option is already enabled.
func (s *Session) RequestWill(opt Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.requestWill(opt)
	s.notifyWaiters()
	return err
}

// RequestWont asks to disable opt locally (outbound WONT).
func (s *Session) RequestWont(opt Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.requestWont(opt)
	s.notifyWaiters()
	return err
}

// RequestDo asks the peer to enable opt on its side (outbound DO).
func (s *Session) RequestDo(opt Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.requestDo(opt)
	s.notifyWaiters()
	return err
}

// RequestDont asks the peer to disable opt on its side (outbound DONT).
func (s *Session) RequestDont(opt Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.requestDont(opt)
	s.notifyWaiters()
	return err
}
