package telnet

// opt_basic.go registers the options that carry no subnegotiation and
// need no post-enable hook: their entire behavior is the WILL/WONT/DO/DONT
// bookkeeping negotiate.go already does, plus (for BINARY/SGA/ECHO) being
// read directly by dispatchData/Mode/outboundEOLPolicy.

func init() {
	registerOption(OptBinary, "BINARY", initiatorEither, nil)
	registerOption(OptSGA, "SUPPRESS-GO-AHEAD", initiatorEither, nil)
	// ECHO is conventionally offered by the server and requested by the
	// client (RFC 857 doesn't mandate this, but no interoperating peer in
	// §6's compatibility list expects a client to echo the server).
	registerOption(OptEcho, "ECHO", initiatorServerOnly, nil)
	// EOR carries no subnegotiation; IAC EOR commands are translated to
	// EventRecordEnd directly in session.go's dispatch.
	registerOption(OptEOR, "END-OF-RECORD", initiatorEither, nil)
}
