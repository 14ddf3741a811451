package telnet

// EventKind identifies the kind of payload carried by an Event. Events are
// the only thing the decoder and negotiation core produce — never a panic,
// per the result/error-enum design note.
type EventKind int

const (
	// EventData carries one application byte from the stream.
	EventData EventKind = iota
	// EventCommand carries a simple IAC command (NOP, DM, BRK, IP, AO, AYT, EC, EL, GA, EOR).
	EventCommand
	// EventCommandUnknown carries an IAC command this engine does not recognize.
	// Never raised to the application layer as an error — see §7.1.
	EventCommandUnknown
	// EventNegotiate carries a WILL/WONT/DO/DONT request or reply that has
	// already been processed by the negotiation core.
	EventNegotiate
	// EventSubnegotiation carries a fully framed, dispatched SB payload.
	EventSubnegotiation
	// EventSubnegotiationMalformed carries a truncated or invalid SB payload
	// that was logged and discarded.
	EventSubnegotiationMalformed
	// EventLineEnd marks a normalized end-of-line (§4.G).
	EventLineEnd
	// EventRecordEnd marks an IAC EOR boundary, distinct from EventLineEnd.
	EventRecordEnd
	// EventFunction carries an SLC editing function (EC, EL, IP, ...).
	EventFunction
	// EventLine carries a complete, assembled input line from the editor (§4.F).
	EventLine
)

func (k EventKind) String() string {
	switch k {
	case EventData:
		return "Data"
	case EventCommand:
		return "Command"
	case EventCommandUnknown:
		return "CommandUnknown"
	case EventNegotiate:
		return "Negotiate"
	case EventSubnegotiation:
		return "Subnegotiation"
	case EventSubnegotiationMalformed:
		return "SubnegotiationMalformed"
	case EventLineEnd:
		return "LineEnd"
	case EventRecordEnd:
		return "RecordEnd"
	case EventFunction:
		return "Function"
	case EventLine:
		return "Line"
	default:
		return "Event?"
	}
}

// Event is the typed unit produced by Session.Step. Exactly one of the
// fields below is meaningful, depending on Kind.
type Event struct {
	Kind    EventKind
	Byte    byte        // EventData
	Command Command     // EventCommand, EventCommandUnknown
	Verb    Command     // EventNegotiate: CmdWILL/CmdWONT/CmdDO/CmdDONT
	Option  Option      // EventNegotiate, EventSubnegotiation*
	Data    []byte      // EventSubnegotiation payload, EventLine text
	Func    SLCFunction // EventFunction
	Warning string      // EventSubnegotiationMalformed, diagnostic text
}
