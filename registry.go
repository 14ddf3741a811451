package telnet

// Role describes which side of the connection this Session plays. A few
// options are directionally locked (§4.B, §4.C "Directional options") and
// the LINEMODE DO asymmetry (§4.C) depends on it.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

// initiator records which side of a connection is expected to offer an
// option. Options not listed default to initiatorEither.
type initiator int

const (
	initiatorEither initiator = iota
	initiatorClientOnly
	initiatorServerOnly
)

// optionHandler is the per-option vtable (§9 design note: "tagged dispatch
// instead of dynamic attribute lookup"). Any field may be nil; a nil
// subnegotiate means the option accepts no SB traffic (dropped, logged).
type optionHandler struct {
	// postEnableLocal fires exactly once when local_option[opt] transitions
	// to Enabled, e.g. CHARSET sending its REQUEST immediately.
	postEnableLocal func(s *Session)
	// postEnableRemote fires exactly once when remote_option[opt] transitions
	// to Enabled, e.g. TTYPE's collector side kicking off the SEND cycle.
	postEnableRemote func(s *Session)
	// subnegotiate handles a fully framed SB payload for this option.
	subnegotiate func(s *Session, payload []byte) error
}

type registryEntry struct {
	name      string
	initiator initiator
	handler   *optionHandler
}

// registry is the static 256-entry option table (component B). It is
// populated by each option file's init().
var registry [256]registryEntry

func registerOption(opt Option, name string, init initiator, h *optionHandler) {
	registry[opt] = registryEntry{name: name, initiator: init, handler: h}
}

func entryFor(opt Option) registryEntry {
	return registry[opt]
}

// directionOK reports whether an inbound verb for opt is consistent with
// this option's initiator policy and our role. A false return means the
// request must be refused gracefully, never raised as an error (§4.C).
func directionOK(opt Option, verb Command, role Role) bool {
	switch entryFor(opt).initiator {
	case initiatorClientOnly:
		switch verb {
		case CmdWILL:
			return role == RoleServer // only a client peer legitimately offers it
		case CmdDO:
			return role == RoleClient // only a server peer legitimately requests it
		}
	case initiatorServerOnly:
		switch verb {
		case CmdWILL:
			return role == RoleClient
		case CmdDO:
			return role == RoleServer
		}
	}
	return true
}
