package telnet

import "errors"

// Caller-misuse errors (§7.5): returned synchronously, never sent on the
// wire. Everything else the engine encounters — malformed SB framing,
// unknown IAC verbs, policy refusals — is logged and recovered from
// locally per §7.1-§7.3, never surfaced as an error value.
var (
	// ErrAlreadyPending is returned when a request is issued for an
	// option+side that already has a request in flight.
	ErrAlreadyPending = errors.New("telnet: option request already pending")
	// ErrAlreadyEnabled is returned when requesting to enable an option
	// that is already enabled.
	ErrAlreadyEnabled = errors.New("telnet: option already enabled")
	// ErrAlreadyDisabled is returned when requesting to disable an option
	// that is already disabled.
	ErrAlreadyDisabled = errors.New("telnet: option already disabled")
	// ErrClosed is returned by Session/Driver operations after Close.
	ErrClosed = errors.New("telnet: session closed")
)
