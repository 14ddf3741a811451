package telnet

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"
)

// driver.go is the blocking façade (§9 design note: "two orthogonal
// façades sharing one engine core"). It owns nothing Session doesn't
// already expose: a read loop feeding transport bytes to Step, a write
// loop draining the outbound queue to the transport, and a timer loop
// running scheduled callbacks — all three supervised together so one
// failing stops the others.

// Driver pumps bytes between a transport and a Session.
type Driver struct {
	sess      *Session
	transport io.ReadWriteCloser
	onEvent   func(Event)
}

// NewDriver builds a Driver. onEvent receives every Event Step produces,
// in order, from the read loop's goroutine, after Step has returned (so
// s.mu is not held); while it runs, no further transport bytes are read.
func NewDriver(sess *Session, transport io.ReadWriteCloser, onEvent func(Event)) *Driver {
	return &Driver{sess: sess, transport: transport, onEvent: onEvent}
}

// Run drives the session until ctx is cancelled or any of the three
// loops returns an error (including a clean EOF from the transport).
// It always closes the transport and the session before returning.
func (d *Driver) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return d.readLoop(gctx) })
	g.Go(func() error { return d.writeLoop() })
	g.Go(func() error { return d.timerLoop(gctx) })

	go func() {
		<-gctx.Done()
		d.transport.Close()
		d.sess.Close()
	}()

	err := g.Wait()
	d.transport.Close()
	d.sess.Close()
	return err
}

func (d *Driver) readLoop(ctx context.Context) error {
	buf := make([]byte, 4096)
	for {
		n, err := d.transport.Read(buf)
		for i := 0; i < n; i++ {
			for _, ev := range d.sess.Step(buf[i]) {
				if d.onEvent != nil {
					d.onEvent(ev)
				}
			}
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (d *Driver) writeLoop() error {
	for {
		chunk, ok := d.sess.out.b.Pop()
		if !ok {
			return nil
		}
		if _, err := d.transport.Write(chunk); err != nil {
			return err
		}
	}
}

func (d *Driver) timerLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job, ok := <-d.sess.TimerJobs():
			if !ok {
				return nil
			}
			job()
		}
	}
}

// AsyncDriver is the non-blocking façade: Run executes in a background
// goroutine and events are delivered over a channel instead of a
// callback, for callers built around a select loop rather than a
// dedicated reader goroutine.
type AsyncDriver struct {
	driver *Driver
	events chan Event
	done   chan error
}

// NewAsyncDriver wraps transport/sess the same way NewDriver does, but
// Start returns immediately and Events/Done expose progress as channels.
func NewAsyncDriver(sess *Session, transport io.ReadWriteCloser) *AsyncDriver {
	a := &AsyncDriver{
		events: make(chan Event, 64),
		done:   make(chan error, 1),
	}
	a.driver = NewDriver(sess, transport, func(ev Event) {
		a.events <- ev
	})
	return a
}

// Events returns the channel Step's output events are relayed on.
func (a *AsyncDriver) Events() <-chan Event { return a.events }

// Done returns a channel that receives Run's error exactly once, then closes.
func (a *AsyncDriver) Done() <-chan error { return a.done }

// Start launches the driver in a new goroutine.
func (a *AsyncDriver) Start(ctx context.Context) {
	go func() {
		err := a.driver.Run(ctx)
		close(a.events)
		a.done <- err
		close(a.done)
	}()
}
