package telnet

import "github.com/drake/telnet/internal/buffer"

// defaultOutCap bounds the outbound byte queue (§5 backpressure): a slow
// or wedged peer blocks the caller's Write/Step instead of growing memory
// without limit.
const defaultOutCap = 1 << 20 // 1 MiB

func newOutQueue() outQueue {
	return outQueue{b: buffer.NewBounded(defaultOutCap)}
}

// push queues framed bytes for the network writer.
func (q outQueue) push(b []byte) {
	q.b.Push(b)
}

// discardPending drops everything queued but not yet handed to the
// socket (SLC FLUSHOUT).
func (q outQueue) discardPending() {
	q.b.Discard()
}

// TakeOutbound drains and returns every byte Step/Write has queued so
// far, without blocking. Exported for callers (and tests) that don't run
// a Driver and just want to inspect the wire bytes an operation produced.
func (s *Session) TakeOutbound() []byte {
	return s.out.b.DrainAll()
}

// outQueue is the thin handle session.go and writer.go hold onto; it
// exists so those files don't import internal/buffer directly.
type outQueue struct {
	b *buffer.Bounded
}
