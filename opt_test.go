package telnet

import (
	"fmt"
	"testing"
	"time"
)

// sbFrame builds a raw IAC SB opt <payload, IAC-doubled> IAC SE sequence
// for feeding through Step byte-by-byte in tests.
func sbFrame(opt Option, payload []byte) []byte {
	out := []byte{byte(CmdIAC), byte(CmdSB), byte(opt)}
	out = append(out, escapeIAC(payload)...)
	out = append(out, byte(CmdIAC), byte(CmdSE))
	return out
}

func TestTTYPESendCyclesThenRepeatsLast(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptTTYPE] = Enabled
	s.ttypeCycle = []string{"xterm", "xterm-256color", "vt100"}

	for _, want := range []string{"xterm", "xterm-256color", "vt100", "vt100"} {
		stepAll(s, sbFrame(OptTTYPE, []byte{byte(OpSEND)}))
		got := s.TakeOutbound()
		wantFrame := sbFrame(OptTTYPE, append([]byte{byte(OpIS)}, []byte(want)...))
		if string(got) != string(wantFrame) {
			t.Fatalf("want %q got %v", want, got)
		}
	}
}

func TestTTYPEISRecordsPeerTerm(t *testing.T) {
	s := newTestSession(RoleClient)
	s.localOption[OptTTYPE] = Enabled
	stepAll(s, sbFrame(OptTTYPE, append([]byte{byte(OpIS)}, []byte("ansi")...)))
	if s.cfg.Term != "ansi" {
		t.Fatalf("Term = %q, want ansi", s.cfg.Term)
	}
}

func TestTTYPECollectorSendsOnEnable(t *testing.T) {
	s := newTestSession(RoleServer)
	stepAll(s, []byte{byte(CmdIAC), byte(CmdWILL), byte(OptTTYPE)})
	got := s.TakeOutbound()
	want := append([]byte{byte(CmdIAC), byte(CmdDO), byte(OptTTYPE)},
		sbFrame(OptTTYPE, []byte{byte(OpSEND)})...)
	if string(got) != string(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTTYPECollectorChainTerminatesOnRepeat(t *testing.T) {
	// Mirrors the §8 TTYPE scenario: SEND -> "xterm" -> SEND ->
	// "xterm-256color" -> SEND -> "xterm-256color" (repeat, stop).
	s := newTestSession(RoleServer)
	s.remoteOption[OptTTYPE] = Enabled

	stepAll(s, sbFrame(OptTTYPE, append([]byte{byte(OpIS)}, []byte("xterm")...)))
	if out := s.TakeOutbound(); string(out) != string(sbFrame(OptTTYPE, []byte{byte(OpSEND)})) {
		t.Fatalf("expected another SEND after a fresh type, got %v", out)
	}

	stepAll(s, sbFrame(OptTTYPE, append([]byte{byte(OpIS)}, []byte("xterm-256color")...)))
	if out := s.TakeOutbound(); string(out) != string(sbFrame(OptTTYPE, []byte{byte(OpSEND)})) {
		t.Fatalf("expected another SEND after a second fresh type, got %v", out)
	}

	stepAll(s, sbFrame(OptTTYPE, append([]byte{byte(OpIS)}, []byte("xterm-256color")...)))
	if out := s.TakeOutbound(); len(out) != 0 {
		t.Fatalf("a repeated value should terminate the cycle, got %v", out)
	}

	want := []string{"xterm", "xterm-256color"}
	if len(s.ttypeChain) != len(want) {
		t.Fatalf("ttypeChain = %v, want %v", s.ttypeChain, want)
	}
	for i := range want {
		if s.ttypeChain[i] != want[i] {
			t.Fatalf("ttypeChain = %v, want %v", s.ttypeChain, want)
		}
	}
}

func TestTTYPECollectorRepeatIsCaseInsensitive(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptTTYPE] = Enabled

	stepAll(s, sbFrame(OptTTYPE, append([]byte{byte(OpIS)}, []byte("xterm")...)))
	s.TakeOutbound()
	stepAll(s, sbFrame(OptTTYPE, append([]byte{byte(OpIS)}, []byte("XTERM")...)))
	if out := s.TakeOutbound(); len(out) != 0 {
		t.Fatalf("a case-insensitive repeat should terminate the cycle, got %v", out)
	}
	if len(s.ttypeChain) != 1 {
		t.Fatalf("ttypeChain = %v, want a single entry", s.ttypeChain)
	}
}

func TestTTYPECollectorStopsAtHardCap(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptTTYPE] = Enabled

	for i := 0; i < ttypeChainCap; i++ {
		name := fmt.Sprintf("term-%d", i)
		stepAll(s, sbFrame(OptTTYPE, append([]byte{byte(OpIS)}, []byte(name)...)))
		s.TakeOutbound()
	}
	if len(s.ttypeChain) != ttypeChainCap {
		t.Fatalf("ttypeChain length = %d, want cap %d", len(s.ttypeChain), ttypeChainCap)
	}

	// The cap-th reply must not trigger yet another SEND.
	stepAll(s, sbFrame(OptTTYPE, append([]byte{byte(OpIS)}, []byte("one-too-many")...)))
	if out := s.TakeOutbound(); len(out) != 0 {
		t.Fatalf("expected no further SEND once the cap is reached, got %v", out)
	}
}

func TestNAWSParsesFourBytes(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptNAWS] = Enabled
	stepAll(s, sbFrame(OptNAWS, []byte{0x00, 80, 0x00, 24}))
	if s.naws.Cols != 80 || s.naws.Rows != 24 {
		t.Fatalf("naws = %+v", s.naws)
	}
}

func TestNAWSRejectsWrongLength(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptNAWS] = Enabled
	stepAll(s, sbFrame(OptNAWS, []byte{0x00, 80}))
	if s.naws.Cols != 0 || s.naws.Rows != 0 {
		t.Fatalf("malformed NAWS should not update state, got %+v", s.naws)
	}
}

func TestSendNAWSEmitsBigEndianFrame(t *testing.T) {
	s := newTestSession(RoleClient)
	s.localOption[OptNAWS] = Enabled
	s.SendNAWS(132, 43)
	got := s.TakeOutbound()
	want := sbFrame(OptNAWS, []byte{0x00, 132, 0x00, 43})
	if string(got) != string(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEnvironSendISEncodesAllowlistedVar(t *testing.T) {
	t.Setenv("TESTVAR", "va=lue")
	s := newTestSession(RoleClient)
	s.localOption[OptNewEnviron] = Enabled
	s.cfg.SendEnviron = []string{"TESTVAR"}
	stepAll(s, sbFrame(OptNewEnviron, []byte{byte(OpSEND)}))
	got := s.TakeOutbound()

	expectedPayload := append([]byte{byte(OpIS)}, environVar)
	expectedPayload = append(expectedPayload, []byte("TESTVAR")...)
	expectedPayload = append(expectedPayload, environValue)
	expectedPayload = append(expectedPayload, []byte("va=lue")...)
	want := sbFrame(OptNewEnviron, expectedPayload)
	if string(got) != string(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEnvironParseISStoresVarsAndUservars(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptNewEnviron] = Enabled
	payload := []byte{byte(OpIS)}
	payload = append(payload, environVar)
	payload = append(payload, []byte("LANG")...)
	payload = append(payload, environValue)
	payload = append(payload, []byte("C.UTF-8")...)
	payload = append(payload, environUserVar)
	payload = append(payload, []byte("FOO")...)
	payload = append(payload, environValue)
	payload = append(payload, []byte("bar")...)
	stepAll(s, sbFrame(OptNewEnviron, payload))

	if s.environVars["LANG"] != "C.UTF-8" {
		t.Fatalf("LANG = %q", s.environVars["LANG"])
	}
	if s.environVars["FOO"] != "bar" {
		t.Fatalf("FOO = %q", s.environVars["FOO"])
	}
}

func TestEnvironEscapeHandlesSpecialBytes(t *testing.T) {
	raw := []byte{environVar, 'x', environEsc}
	got := escapeEnviron(raw)
	want := []byte{environEsc, environVar, 'x', environEsc, environEsc}
	if string(got) != string(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestLinemodeServerProposesModeOnEnable(t *testing.T) {
	s := newTestSession(RoleServer)
	stepAll(s, []byte{byte(CmdIAC), byte(CmdWILL), byte(OptLinemode)})
	got := s.TakeOutbound()
	want := append([]byte{byte(CmdIAC), byte(CmdDO), byte(OptLinemode)},
		sbFrame(OptLinemode, []byte{lmCmdMode, LMEdit | LMTrapsig})...)
	if string(got) != string(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if !s.linemode.ackPending {
		t.Fatalf("ackPending should be true after proposing MODE")
	}
}

func TestLinemodeModeAckClearsPending(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptLinemode] = Enabled
	s.localOption[OptLinemode] = Enabled
	s.linemode.mode = LMEdit | LMTrapsig
	s.linemode.ackPending = true

	stepAll(s, sbFrame(OptLinemode, []byte{lmCmdMode, (LMEdit | LMTrapsig) | LMAck}))
	if s.linemode.ackPending {
		t.Fatalf("ackPending should be cleared")
	}
	if s.linemode.mode != LMEdit|LMTrapsig {
		t.Fatalf("mode = %#02x", s.linemode.mode)
	}
}

func TestLinemodeForwardmaskAcceptedNotEnforced(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptLinemode] = Enabled
	mask := []byte{0x01, 0x02, 0x03}
	stepAll(s, sbFrame(OptLinemode, append([]byte{lmCmdForwardmask}, mask...)))
	if string(s.linemode.forwardmask) != string(mask) {
		t.Fatalf("forwardmask = %v want %v", s.linemode.forwardmask, mask)
	}
}

func TestNegotiateSLCEntryHigherLevelWins(t *testing.T) {
	s := newTestSession(RoleServer)
	s.slcTable[SLCFuncEC] = SLCEntry{Value: 0x7F, Flags: byte(SLCVariable)}
	peer := SLCEntry{Value: 0x08, Flags: byte(SLCCantChange)}
	result, send := s.negotiateSLCEntry(SLCFuncEC, peer)
	if !send {
		t.Fatalf("higher local level should produce a reply")
	}
	if result.Value != 0x7F || result.Flags&SLCAck == 0 {
		t.Fatalf("got %+v, want our value echoed with ACK", result)
	}
}

func TestNegotiateSLCEntryPeerWins(t *testing.T) {
	s := newTestSession(RoleServer)
	s.slcTable[SLCFuncEC] = SLCEntry{Value: 0x7F, Flags: byte(SLCCantChange)}
	peer := SLCEntry{Value: 0x08, Flags: byte(SLCDefault)}
	result, send := s.negotiateSLCEntry(SLCFuncEC, peer)
	if !send || result.Value != 0x08 {
		t.Fatalf("got %+v send=%v, want peer's value accepted", result, send)
	}
	if s.slcTable[SLCFuncEC].Value != 0x08 {
		t.Fatalf("local table not updated: %+v", s.slcTable[SLCFuncEC])
	}
}

func TestNegotiateSLCEntryTieBreaksToDefault(t *testing.T) {
	s := newTestSession(RoleServer)
	s.slcTable[SLCFuncEC] = SLCEntry{Value: 0x09, Flags: byte(SLCVariable)}
	peer := SLCEntry{Value: 0x08, Flags: byte(SLCVariable)}
	result, send := s.negotiateSLCEntry(SLCFuncEC, peer)
	def := DefaultSLCTable()[SLCFuncEC]
	if !send || result.Value != def.Value {
		t.Fatalf("got %+v, want tie-break to default %+v", result, def)
	}
}

func TestNegotiateSLCEntryAckedPeerAcceptedVerbatim(t *testing.T) {
	s := newTestSession(RoleServer)
	peer := SLCEntry{Value: 0x05, Flags: byte(SLCVariable) | SLCAck}
	result, send := s.negotiateSLCEntry(SLCFuncEC, peer)
	if send {
		t.Fatalf("an ACK'd peer value should not itself trigger a reply")
	}
	if result.Value != 0x05 || s.slcTable[SLCFuncEC].Value != 0x05 {
		t.Fatalf("got %+v, want verbatim acceptance", result)
	}
}

func TestNegotiateSLCEntryPeerNoSupportClearsLocal(t *testing.T) {
	s := newTestSession(RoleServer)
	s.slcTable[SLCFuncEC] = SLCEntry{Value: 0x7F, Flags: byte(SLCVariable)}
	peer := SLCEntry{Value: 0, Flags: byte(SLCNoSupport)}
	result, send := s.negotiateSLCEntry(SLCFuncEC, peer)
	if !send || result.Level() != SLCNoSupport {
		t.Fatalf("got %+v send=%v, want cleared NOSUPPORT entry", result, send)
	}
	if s.slcTable[SLCFuncEC].Level() != SLCNoSupport {
		t.Fatalf("local table should be cleared: %+v", s.slcTable[SLCFuncEC])
	}
}

func TestLFLOWDispatch(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptLFLOW] = Enabled

	stepAll(s, sbFrame(OptLFLOW, []byte{lflowOn}))
	if !s.lflowOn {
		t.Fatalf("lflowOn should be true")
	}
	stepAll(s, sbFrame(OptLFLOW, []byte{lflowRestartAny}))
	if !s.xonAny {
		t.Fatalf("xonAny should be true")
	}
	stepAll(s, sbFrame(OptLFLOW, []byte{lflowOff}))
	if s.lflowOn {
		t.Fatalf("lflowOn should be false")
	}
}

func TestStatusSendReportsOptionState(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptStatus] = Enabled
	s.localOption[OptEcho] = Enabled
	s.remoteOption[OptSGA] = Enabled

	stepAll(s, sbFrame(OptStatus, []byte{byte(OpSEND)}))
	got := s.TakeOutbound()

	found := false
	for i := 0; i+2 <= len(got); i++ {
		if got[i] == byte(CmdWILL) && got[i+1] == byte(OptEcho) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a WILL ECHO byte pair in STATUS reply, got %v", got)
	}
}

func TestStatusReconcileInvokesMismatchHook(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptStatus] = Enabled

	var gotMismatch bool
	s.OnStatusMismatch(func(local, remote [256]OptionState) {
		gotMismatch = true
	})

	// Peer reports believing we WILL ECHO; we don't.
	payload := []byte{byte(OpIS), byte(CmdDO), byte(OptEcho)}
	stepAll(s, sbFrame(OptStatus, payload))
	if !gotMismatch {
		t.Fatalf("expected mismatch hook to fire")
	}
	if s.localOption[OptEcho] == Enabled {
		t.Fatalf("reconciliation must never auto-correct local state")
	}
}

func TestCharsetAcceptsFirstKnownCandidate(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptCharset] = Enabled
	payload := append([]byte{charsetRequest}, ';')
	payload = append(payload, []byte("BOGUS-1;UTF-8;ASCII")...)
	stepAll(s, sbFrame(OptCharset, payload))
	got := s.TakeOutbound()
	if len(got) == 0 {
		t.Fatalf("expected an ACCEPTED or REJECTED reply")
	}
	canon, ok := CanonicalCharset("UTF-8")
	if !ok {
		t.Fatalf("UTF-8 should resolve to a known charset")
	}
	want := sbFrame(OptCharset, append([]byte{charsetAccepted}, []byte(canon)...))
	if string(got) != string(want) || s.charset != canon {
		t.Fatalf("got %v charset=%q, want ACCEPTED %q", got, s.charset, canon)
	}
}

func TestTSPEEDRespondsWithConfiguredSpeed(t *testing.T) {
	s := newTestSession(RoleServer)
	s.remoteOption[OptTSPEED] = Enabled
	s.cfg.Speed = "9600,9600"
	stepAll(s, sbFrame(OptTSPEED, []byte{byte(OpSEND)}))
	got := s.TakeOutbound()
	want := sbFrame(OptTSPEED, append([]byte{byte(OpIS)}, []byte("9600,9600")...))
	if string(got) != string(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestXDISPLOCSetAndSend(t *testing.T) {
	s := newTestSession(RoleClient)
	s.localOption[OptXDISPLOC] = Enabled
	s.SetXDisplay("host:0")
	stepAll(s, sbFrame(OptXDISPLOC, []byte{byte(OpSEND)}))
	got := s.TakeOutbound()
	want := sbFrame(OptXDISPLOC, append([]byte{byte(OpIS)}, []byte("host:0")...))
	if string(got) != string(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSNDLOCSetAndSend(t *testing.T) {
	s := newTestSession(RoleClient)
	s.localOption[OptSNDLOC] = Enabled
	s.SetLocation("room 237")
	stepAll(s, sbFrame(OptSNDLOC, []byte{byte(OpSEND)}))
	got := s.TakeOutbound()
	want := sbFrame(OptSNDLOC, append([]byte{byte(OpIS)}, []byte("room 237")...))
	if string(got) != string(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestLogoutSetsLoggedOut(t *testing.T) {
	s := newTestSession(RoleServer)
	stepAll(s, []byte{byte(CmdIAC), byte(CmdDO), byte(OptLogout)})
	if !s.Snapshot().LoggedOut {
		t.Fatalf("LoggedOut should be true after agreeing to LOGOUT")
	}
}

func TestTimingMarkArmsAndDisarmsOnAck(t *testing.T) {
	s := newTestSession(RoleClient)
	fired := false
	if err := s.SendTimingMark(time.Hour, func() { fired = true }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.TakeOutbound()
	stepAll(s, []byte{byte(CmdIAC), byte(CmdWILL), byte(OptTM)})
	if s.tm.pending {
		t.Fatalf("tm should be disarmed after WILL TM ack")
	}
	if fired {
		t.Fatalf("onTimeout must not fire on a successful ack")
	}
}
