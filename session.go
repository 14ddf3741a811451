package telnet

import (
	"log"
	"os"
	"sync"

	"github.com/drake/telnet/internal/timer"
	"github.com/google/uuid"
)

// logLevel gates Session's stderr logging (stdlib log.Logger, no external
// logging library appears anywhere in the reference corpus).
type logLevel int

const (
	logDebug logLevel = iota
	logInfo
	logWarn
)

func (l logLevel) String() string {
	switch l {
	case logDebug:
		return "DEBUG"
	case logInfo:
		return "INFO"
	default:
		return "WARN"
	}
}

// Session is the engine: one per connection, not safe for concurrent
// Step calls (§5 "Scheduling model: single-threaded cooperative per
// connection"). Its exported methods beyond Step (RequestWill, Write,
// WaitFor*) take s.mu internally, so a second goroutine may drive writes
// or waiters while a dedicated reader goroutine owns Step.
type Session struct {
	ID   uuid.UUID
	role Role
	cfg  Config

	mu   sync.Mutex
	cond *sync.Cond

	decoder *Decoder

	localOption  [256]OptionState
	remoteOption [256]OptionState

	lineNorm lineNormalizer
	editLine []byte
	slcTable SLCTable

	out outQueue

	logger   *log.Logger
	logLevel logLevel

	timerSched *timer.Scheduler
	timerJobs  chan func()
	tm         tmState
	closeOnce  sync.Once

	// Per-option negotiated state (opt_*.go).
	ttypeCycle  []string
	ttypeIndex  int
	ttypeChain  []string // peer types collected while we are the TTYPE collector
	environVars map[string]string
	charset     string
	naws        struct{ Cols, Rows uint16 }
	tspeed      struct{ Tx, Rx uint32 }
	xdisploc    string
	sndloc      string
	lflowOn     bool
	xonAny      bool
	linemode    linemodeState
	onStatusMismatch func(local, remote [256]OptionState)
	loggedOut   bool
}

// linemodeState is LINEMODE's (§4.E "LINEMODE") negotiated MODE byte plus
// the forwardmask, separate from the SLC table which slc.go owns.
type linemodeState struct {
	mode       byte
	ackPending bool
	forwardmask []byte
}

// NewSession constructs an engine instance for one connection. role
// decides the direction-sensitive rules in negotiate.go/registry.go
// (LINEMODE asymmetry, client/server-only options).
func NewSession(role Role, cfg Config) *Session {
	sched, jobs := newTimerPlumbing()
	s := &Session{
		ID:          uuid.New(),
		role:        role,
		cfg:         cfg,
		decoder:     NewDecoder(),
		out:         newOutQueue(),
		logger:      log.New(os.Stderr, "", log.LstdFlags),
		logLevel:    logInfo,
		timerSched:  sched,
		timerJobs:   jobs,
		slcTable:    cloneSLCTable(cfg.DefaultSLCTable),
		environVars: map[string]string{},
	}
	s.cond = sync.NewCond(&s.mu)
	if os.Getenv("TELNET_DEBUG") == "1" {
		s.logLevel = logDebug
	}
	if cfg.ForceBinary {
		s.localOption[OptBinary] = Enabled
		s.remoteOption[OptBinary] = Enabled
	}
	return s
}

func cloneSLCTable(override SLCTable) SLCTable {
	if override != nil {
		t := make(SLCTable, len(override))
		for k, v := range override {
			t[k] = v
		}
		return t
	}
	return DefaultSLCTable()
}

func (s *Session) logf(level logLevel, format string, args ...any) {
	if level < s.logLevel {
		return
	}
	prefix := "[" + level.String() + "] telnet[" + s.ID.String()[:8] + "] "
	s.logger.Printf(prefix+format, args...)
}

// Step feeds one transport byte into the engine and returns the events it
// produced. It performs no I/O and never returns an error (§7.1); malformed
// or unexpected input becomes a diagnostic event or a log line instead. It
// blocks only when it queues a reply while the outbound queue is full
// (buffer.go's backpressure).
func (s *Session) Step(b byte) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event
	for _, ev := range s.decoder.Step(b) {
		out = append(out, s.dispatch(ev)...)
	}
	return out
}

func (s *Session) dispatch(ev Event) []Event {
	switch ev.Kind {
	case EventData:
		return s.dispatchData(ev.Byte)
	case EventCommand:
		if ev.Command == CmdEOR {
			return []Event{{Kind: EventRecordEnd}}
		}
		return []Event{ev}
	case EventCommandUnknown:
		s.logf(logInfo, "unrecognized IAC command %d", ev.Command)
		return []Event{ev}
	case EventNegotiate:
		s.handleNegotiate(ev.Verb, ev.Option)
		return []Event{ev}
	case EventSubnegotiation:
		s.handleSubnegotiation(ev.Option, ev.Data)
		return []Event{ev}
	case EventSubnegotiationMalformed:
		s.handleMalformedSubnegotiation(ev.Option, ev.Warning)
		return []Event{ev}
	default:
		return []Event{ev}
	}
}

// dispatchData runs one application byte through the BINARY bypass, then
// either the SLC editor (LOCAL/KLUDGE) or the plain line normaliser
// (REMOTE/CHARACTER), per §4.F.
func (s *Session) dispatchData(b byte) []Event {
	if s.remoteOption[OptBinary] == Enabled || s.cfg.ForceBinary {
		s.maybeEcho(b)
		return []Event{{Kind: EventData, Byte: b}}
	}

	var evs []Event
	switch s.Mode() {
	case ModeLocal, ModeKludge:
		evs = s.feedEditor(b)
	default:
		evs = s.lineNorm.feed(b)
	}
	for _, e := range evs {
		if e.Kind == EventData {
			s.maybeEcho(e.Byte)
		}
	}
	return evs
}

func (s *Session) maybeEcho(b byte) {
	if s.localOption[OptEcho] == Enabled {
		s.Echo([]byte{b})
	}
}

// Snapshot is an immutable, copy-out view of negotiated state, safe to
// read without holding s.mu after it is returned.
type Snapshot struct {
	Role     Role
	Local    [256]OptionState
	Remote   [256]OptionState
	Mode     EngineMode
	Charset  string
	Term     string
	Cols     uint16
	Rows     uint16
	LoggedOut bool
}

// Snapshot captures the session's current negotiated state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Role:      s.role,
		Local:     s.localOption,
		Remote:    s.remoteOption,
		Mode:      s.Mode(),
		Charset:   s.charset,
		Term:      s.cfg.Term,
		Cols:      s.naws.Cols,
		Rows:      s.naws.Rows,
		LoggedOut: s.loggedOut,
	}
}

// OutQueueLen reports the number of bytes currently queued for the
// transport, for diagnostics (debug.Monitor).
func (s *Session) OutQueueLen() int {
	return s.out.b.Len()
}

// Close cancels any pending timers and releases the outbound queue.
// Idempotent: a driver may call it both on teardown and from a
// context-cancellation path without risking a double-close panic.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.tm.disarm()
		s.mu.Unlock()
		close(s.timerJobs)
		s.out.b.Close()
	})
}

// OnStatusMismatch registers a callback invoked when a STATUS reply from
// the peer disagrees with our own local/remote option view (SUPPLEMENTED
// FEATURES: STATUS reconciliation hook). The default is nil: mismatches
// are only logged (opt_status.go).
func (s *Session) OnStatusMismatch(f func(local, remote [256]OptionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatusMismatch = f
}
