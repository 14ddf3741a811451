package telnet

import "context"

// wait.go is the subscription half of the engine: callers block until a
// predicate over option/negotiation state becomes true. It replaces
// event/event.go's dispatched Type/Payload union with a condition
// variable a caller re-checks directly — there is no separate notify-only
// channel to keep draining, just a broadcast every time Step mutates state.

// notifyWaiters wakes every blocked WaitFor* call so it can re-check its
// predicate. Callers of notifyWaiters already hold s.mu (Step locks it for
// its entire duration), so this is just a Broadcast.
func (s *Session) notifyWaiters() {
	s.cond.Broadcast()
}

// waitUntil blocks until cond() is true or ctx is cancelled. It must be
// called with s.mu held; it releases the lock while waiting and
// re-acquires it before returning, matching sync.Cond.Wait's contract.
func (s *Session) waitUntil(ctx context.Context, cond func() bool) error {
	if cond() {
		return nil
	}
	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer stop()
	for !cond() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.cond.Wait()
	}
	return nil
}

// WaitForLocal blocks until local_option[opt] equals want, or ctx ends.
func (s *Session) WaitForLocal(ctx context.Context, opt Option, want OptionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waitUntil(ctx, func() bool { return s.localOption[opt] == want })
}

// WaitForRemote blocks until remote_option[opt] equals want, or ctx ends.
func (s *Session) WaitForRemote(ctx context.Context, opt Option, want OptionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waitUntil(ctx, func() bool { return s.remoteOption[opt] == want })
}

// Settled reports whether every option on both sides has left its pending
// state (the negotiation-settle signal, §6 connect_maxwait).
func (s *Session) Settled() bool {
	for i := 0; i < 256; i++ {
		if s.localOption[i].Pending() || s.remoteOption[i].Pending() {
			return false
		}
	}
	return true
}

// WaitForSettled blocks until Settled() is true, or ctx ends.
func (s *Session) WaitForSettled(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waitUntil(ctx, s.Settled)
}
