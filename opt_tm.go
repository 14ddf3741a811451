package telnet

import "time"

// opt_tm.go implements TIMING-MARK (RFC 860): a synchronization probe, not
// a sticky mode. DO TM asks the peer to echo WILL TM once it has
// processed everything queued ahead of the probe in the stream.

func init() {
	registerOption(OptTM, "TIMING-MARK", initiatorEither, &optionHandler{
		postEnableRemote: func(s *Session) {
			s.tm.disarm()
			s.logf(logDebug, "timing mark acknowledged")
			_ = s.requestDont(OptTM) // reset: TM is probe-only, never left enabled
		},
		// TM is a probe, not a sticky mode: leaving localOption[OptTM] at
		// Enabled after replying WILL would make negotiate.go's redundant-ack
		// rule silently swallow the peer's next DO TM. Reset immediately so
		// each probe gets its own WILL TM.
		postEnableLocal: func(s *Session) {
			s.localOption[OptTM] = Disabled
		},
	})
}

// SendTimingMark issues one TM round trip. onTimeout fires if no WILL TM
// reply arrives within d; only one round trip is tracked at a time, so a
// call made while an earlier TM request is still pending returns
// ErrAlreadyPending and leaves the earlier timeout armed.
func (s *Session) SendTimingMark(d time.Duration, onTimeout func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requestDo(OptTM); err != nil {
		return err
	}
	s.tm.arm(s, d, onTimeout)
	return nil
}
