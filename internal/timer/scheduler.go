package timer

import (
	"sync"
	"time"
)

// Scheduler manages delayed tasks by translating time into channel events.
// The receiver is responsible for executing the callback safely.
type Scheduler struct {
	out chan<- func()
}

// New creates a Scheduler that sends callbacks to the given channel.
func New(out chan<- func()) *Scheduler {
	return &Scheduler{out: out}
}

// Schedule asks to run 'job' after duration 'd'. Returns a cancel function.
func (s *Scheduler) Schedule(d time.Duration, job func()) (cancel func()) {
	t := time.AfterFunc(d, func() {
		s.out <- job
	})
	return func() { t.Stop() }
}

// ScheduleRepeating runs job every d until the returned cancel is called.
// Like Schedule, each firing is delivered by sending job to out rather than
// invoking it directly, so the caller stays in control of which goroutine
// runs it.
func (s *Scheduler) ScheduleRepeating(d time.Duration, job func()) (cancel func()) {
	var mu sync.Mutex
	stopped := false
	var t *time.Timer

	var tick func()
	tick = func() {
		mu.Lock()
		if stopped {
			mu.Unlock()
			return
		}
		mu.Unlock()

		s.out <- job

		mu.Lock()
		if !stopped {
			t = time.AfterFunc(d, tick)
		}
		mu.Unlock()
	}

	mu.Lock()
	t = time.AfterFunc(d, tick)
	mu.Unlock()

	return func() {
		mu.Lock()
		stopped = true
		if t != nil {
			t.Stop()
		}
		mu.Unlock()
	}
}
