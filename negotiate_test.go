package telnet

import "testing"

func newTestSession(role Role) *Session {
	cfg := DefaultConfig()
	cfg.ConnectMaxwait = 0
	return NewSession(role, cfg)
}

func stepAll(s *Session, bs []byte) []Event {
	var out []Event
	for _, b := range bs {
		out = append(out, s.Step(b)...)
	}
	return out
}

func TestWillAcceptedTransitionsRemoteEnabled(t *testing.T) {
	s := newTestSession(RoleServer)
	stepAll(s, []byte{byte(CmdIAC), byte(CmdWILL), byte(OptSGA)})
	if s.remoteOption[OptSGA] != Enabled {
		t.Fatalf("want Enabled, got %v", s.remoteOption[OptSGA])
	}
	out := s.TakeOutbound()
	want := []byte{byte(CmdIAC), byte(CmdDO), byte(OptSGA)}
	if string(out) != string(want) {
		t.Fatalf("want %v got %v", want, out)
	}
}

func TestRedundantWillProducesNoOutput(t *testing.T) {
	s := newTestSession(RoleServer)
	stepAll(s, []byte{byte(CmdIAC), byte(CmdWILL), byte(OptSGA)})
	s.TakeOutbound()

	stepAll(s, []byte{byte(CmdIAC), byte(CmdWILL), byte(OptSGA)})
	if out := s.TakeOutbound(); len(out) != 0 {
		t.Fatalf("redundant WILL should produce no bytes, got %v", out)
	}
}

func TestUnsupportedOptionRefused(t *testing.T) {
	s := newTestSession(RoleServer)
	stepAll(s, []byte{byte(CmdIAC), byte(CmdWILL), 99})
	if s.remoteOption[99] != Disabled {
		t.Fatalf("want Disabled, got %v", s.remoteOption[99])
	}
	out := s.TakeOutbound()
	want := []byte{byte(CmdIAC), byte(CmdDONT), 99}
	if string(out) != string(want) {
		t.Fatalf("want %v got %v", want, out)
	}
}

func TestLinemodeDOAlwaysRefusedOnClient(t *testing.T) {
	s := newTestSession(RoleClient)
	stepAll(s, []byte{byte(CmdIAC), byte(CmdDO), byte(OptLinemode)})
	if s.localOption[OptLinemode] != Disabled {
		t.Fatalf("want Disabled, got %v", s.localOption[OptLinemode])
	}
	out := s.TakeOutbound()
	want := []byte{byte(CmdIAC), byte(CmdWONT), byte(OptLinemode)}
	if string(out) != string(want) {
		t.Fatalf("want %v got %v", want, out)
	}
}

func TestRequestWillAlreadyPending(t *testing.T) {
	s := newTestSession(RoleClient)
	if err := s.RequestWill(OptBinary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.RequestWill(OptBinary); err != ErrAlreadyPending {
		t.Fatalf("want ErrAlreadyPending, got %v", err)
	}
}

func TestRequestWillAlreadyEnabled(t *testing.T) {
	s := newTestSession(RoleClient)
	s.localOption[OptBinary] = Enabled
	if err := s.RequestWill(OptBinary); err != ErrAlreadyEnabled {
		t.Fatalf("want ErrAlreadyEnabled, got %v", err)
	}
}

func TestPendingOnAcceptedByPeerAck(t *testing.T) {
	s := newTestSession(RoleClient)
	if err := s.RequestWill(OptEcho); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.TakeOutbound()
	stepAll(s, []byte{byte(CmdIAC), byte(CmdDO), byte(OptEcho)})
	if s.localOption[OptEcho] != Enabled {
		t.Fatalf("want Enabled, got %v", s.localOption[OptEcho])
	}
	// Accepting a pending request must not itself re-ack on the wire.
	if out := s.TakeOutbound(); len(out) != 0 {
		t.Fatalf("want no output, got %v", out)
	}
}

func TestNAWSDirectionality(t *testing.T) {
	// A client receiving DO NAWS (a server asking us, the client, to
	// report our window size) is the legitimate direction.
	client := newTestSession(RoleClient)
	stepAll(client, []byte{byte(CmdIAC), byte(CmdDO), byte(OptNAWS)})
	if client.localOption[OptNAWS] != Enabled {
		t.Fatalf("client should accept DO NAWS, got %v", client.localOption[OptNAWS])
	}

	// A server receiving DO NAWS makes no sense (NAWS is client-only - a
	// server is never the side asked to report a window size);
	// directionOK should refuse it.
	server := newTestSession(RoleServer)
	stepAll(server, []byte{byte(CmdIAC), byte(CmdDO), byte(OptNAWS)})
	if server.localOption[OptNAWS] != Disabled {
		t.Fatalf("server should refuse DO NAWS, got %v", server.localOption[OptNAWS])
	}
}
