package telnet

import (
	"time"

	"github.com/drake/telnet/internal/timer"
)

// timeout.go schedules the one-shot deadlines the engine needs outside of
// Step's synchronous byte-at-a-time path: a TM (RFC 860) round trip, and
// the negotiation-settle deadline a driver enforces around connect (§6
// connect_maxwait).  Jobs run on whatever goroutine drains TimerJobs();
// driver.go runs them on its timer loop, a goroutine separate from the read
// loop that calls Step.

// TimerJobs returns the channel scheduled callbacks are delivered on. A
// driver must continuously drain it (see driver.go) for scheduled
// timeouts to ever fire.
func (s *Session) TimerJobs() <-chan func() {
	return s.timerJobs
}

// scheduleOnce arms a one-shot callback d from now, returning a cancel
// function. Used for TM round trips and the connect-settle deadline.
func (s *Session) scheduleOnce(d time.Duration, job func()) (cancel func()) {
	return s.timerSched.Schedule(d, job)
}

// ArmSettleDeadline schedules onTimeout to run after d unless the
// negotiation has already settled (§6 connect_maxwait: "give up waiting,
// proceed with whatever state was reached"). Safe to call once per
// session; the returned cancel should be invoked once Settled() is
// observed true.
func (s *Session) ArmSettleDeadline(d time.Duration, onTimeout func()) (cancel func()) {
	return s.scheduleOnce(d, func() {
		s.mu.Lock()
		settled := s.Settled()
		s.mu.Unlock()
		if !settled {
			onTimeout()
		}
	})
}

// tmState tracks one outstanding Timing-Mark round trip (opt_tm.go).
type tmState struct {
	cancel  func()
	pending bool
}

func (t *tmState) arm(s *Session, d time.Duration, onTimeout func()) {
	if t.cancel != nil {
		t.cancel()
	}
	t.pending = true
	t.cancel = s.scheduleOnce(d, func() {
		t.pending = false
		onTimeout()
	})
}

func (t *tmState) disarm() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.pending = false
}

func newTimerPlumbing() (*timer.Scheduler, chan func()) {
	jobs := make(chan func(), 16)
	return timer.New(jobs), jobs
}
