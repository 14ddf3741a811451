package telnet

// opt_logout.go implements LOGOUT (RFC 727): no subnegotiation. Agreeing
// to WILL LOGOUT (having been asked via DO LOGOUT) means "I am logging
// out now" — the caller is expected to close the transport shortly after
// Snapshot().LoggedOut turns true.

func init() {
	registerOption(OptLogout, "LOGOUT", initiatorEither, &optionHandler{
		postEnableLocal: func(s *Session) {
			s.loggedOut = true
			s.logf(logInfo, "LOGOUT agreed, session ending")
		},
	})
}
