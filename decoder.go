package telnet

// defaultSBCap bounds a single subnegotiation payload (§3 sb_buffer).
const defaultSBCap = 65535

type iacPhase int

const (
	phaseStream  iacPhase = iota // STREAM
	phaseSawIAC                  // SAW_IAC
	phaseNeg                     // SAW_WILL/SAW_WONT/SAW_DO/SAW_DONT, collapsed: verb already known, awaiting option byte
	phaseSawSB                   // SAW_SB, awaiting option byte
	phaseInSB                    // IN_SB
	phaseInSBIAC                 // IN_SB_IAC
)

// Decoder is the byte classifier / IAC decoder (component A). It is a pure
// function over its own small bit of state: Step never performs I/O and
// never blocks, so it can run at transport speed with no allocation beyond
// the returned event slice and the bounded subnegotiation buffer.
type Decoder struct {
	phase    iacPhase
	negVerb  Command
	sbOption Option
	sbBuf    []byte
	sbCap    int
	sbTrunc  bool
}

// NewDecoder returns a Decoder with the default subnegotiation buffer cap.
func NewDecoder() *Decoder {
	return &Decoder{sbCap: defaultSBCap}
}

// Step consumes one byte and returns zero or more events. The decoder never
// returns an error: malformed input becomes an EventSubnegotiationMalformed
// or EventCommandUnknown event instead (§7.1).
func (d *Decoder) Step(b byte) []Event {
	switch d.phase {
	case phaseStream:
		if b == byte(CmdIAC) {
			d.phase = phaseSawIAC
			return nil
		}
		return []Event{{Kind: EventData, Byte: b}}

	case phaseSawIAC:
		switch {
		case b == byte(CmdIAC):
			d.phase = phaseStream
			return []Event{{Kind: EventData, Byte: b}}
		case isSimpleCommand(b):
			d.phase = phaseStream
			return []Event{{Kind: EventCommand, Command: Command(b)}}
		case isNegotiationVerb(b):
			d.negVerb = Command(b)
			d.phase = phaseNeg
			return nil
		case b == byte(CmdSB):
			d.phase = phaseSawSB
			return nil
		default:
			// Stray SE, or any other byte not in the known command set.
			d.phase = phaseStream
			return []Event{{Kind: EventCommandUnknown, Command: Command(b)}}
		}

	case phaseNeg:
		verb := d.negVerb
		d.phase = phaseStream
		return []Event{{Kind: EventNegotiate, Verb: verb, Option: Option(b)}}

	case phaseSawSB:
		d.sbOption = Option(b)
		d.sbBuf = d.sbBuf[:0]
		d.sbTrunc = false
		d.phase = phaseInSB
		return nil

	case phaseInSB:
		if b == byte(CmdIAC) {
			d.phase = phaseInSBIAC
			return nil
		}
		d.appendSB(b)
		return nil

	case phaseInSBIAC:
		switch b {
		case byte(CmdIAC):
			d.appendSB(b)
			d.phase = phaseInSB
			return nil
		case byte(CmdSE):
			opt, buf, trunc := d.sbOption, d.sbBuf, d.sbTrunc
			d.sbBuf = nil
			d.phase = phaseStream
			if trunc {
				return []Event{{Kind: EventSubnegotiationMalformed, Option: opt, Data: buf, Warning: "subnegotiation exceeded buffer cap"}}
			}
			return []Event{{Kind: EventSubnegotiation, Option: opt, Data: buf}}
		default:
			opt, buf := d.sbOption, d.sbBuf
			d.sbBuf = nil
			d.phase = phaseStream
			return []Event{{Kind: EventSubnegotiationMalformed, Option: opt, Data: buf, Warning: "IAC followed by neither SE nor doubled IAC inside subnegotiation"}}
		}
	}
	return nil
}

func (d *Decoder) appendSB(b byte) {
	if len(d.sbBuf) >= d.sbCap {
		d.sbTrunc = true
		return
	}
	d.sbBuf = append(d.sbBuf, b)
}
