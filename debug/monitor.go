// Package debug provides runtime monitoring and diagnostics for a telnet
// engine session.
package debug

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/drake/telnet"
	"github.com/drake/telnet/internal/timer"
)

// Enabled returns true if debug mode is active (TELNET_DEBUG=1).
func Enabled() bool {
	return os.Getenv("TELNET_DEBUG") == "1"
}

// Monitor periodically logs session statistics when debug mode is
// enabled. It schedules itself through internal/timer.Scheduler's
// repeating variant — the same scheduling package Session uses for TM
// and settle deadlines — rather than keeping a second, parallel timer
// package around just for this one repeating job.
type Monitor struct {
	session *telnet.Session
	logger  *log.Logger
	jobs    chan func()
	sched   *timer.Scheduler
	cancel  func()
}

// NewMonitor creates a monitor for s. Returns nil if debug mode is off.
func NewMonitor(s *telnet.Session) *Monitor {
	if !Enabled() {
		return nil
	}
	jobs := make(chan func(), 1)
	return &Monitor{
		session: s,
		logger:  log.New(os.Stderr, "", log.LstdFlags),
		jobs:    jobs,
		sched:   timer.New(jobs),
	}
}

// Start begins the monitoring loop in a goroutine, stopping when ctx ends.
func (m *Monitor) Start(ctx context.Context) {
	if m == nil {
		return
	}
	m.cancel = m.sched.ScheduleRepeating(5*time.Second, m.logStats)
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	m.logger.Println("[DEBUG] monitor started")
	defer m.logger.Println("[DEBUG] monitor stopped")
	for {
		select {
		case <-ctx.Done():
			if m.cancel != nil {
				m.cancel()
			}
			return
		case job := <-m.jobs:
			job()
		}
	}
}

func (m *Monitor) logStats() {
	snap := m.session.Snapshot()
	m.logger.Printf("[DEBUG] role=%v mode=%v charset=%q term=%q cols=%d rows=%d loggedOut=%v outQ=%d",
		snap.Role, snap.Mode, snap.Charset, snap.Term, snap.Cols, snap.Rows, snap.LoggedOut,
		m.session.OutQueueLen())
}
