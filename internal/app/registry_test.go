package app

import (
	"testing"

	"github.com/dkeye/CodeRoom/internal/core"
)

type nopSignal struct{}

func (nopSignal) TrySend(core.Frame) error { return nil }
func (nopSignal) Close()                   {}

func TestRegistryStateMachine(t *testing.T) {
	r := NewRegistry()
	sid := core.NewSessionID()

	if r.Join(sid, "room", "alice") {
		t.Fatal("join of an unbound connection should fail")
	}

	canceled := false
	r.BindSignal(sid, core.NewMemberSession(sid, nopSignal{}), func() { canceled = true })
	if r.State(sid) != Unjoined {
		t.Fatal("bound connection should start unjoined")
	}
	if _, _, ok := r.Leave(sid); ok {
		t.Fatal("leave from unjoined should report false")
	}

	if !r.Join(sid, "room", "alice") {
		t.Fatal("join failed")
	}
	if r.State(sid) != Joined {
		t.Fatal("expected joined")
	}
	roomID, name, ok := r.RoomOf(sid)
	if !ok || roomID != "room" || name != "alice" {
		t.Fatalf("RoomOf = %q %q %v", roomID, name, ok)
	}

	roomID, name, ok = r.Leave(sid)
	if !ok || roomID != "room" || name != "alice" {
		t.Fatalf("Leave = %q %q %v", roomID, name, ok)
	}
	if r.State(sid) != Unjoined {
		t.Fatal("expected unjoined after leave")
	}
	if _, ok := r.GetSession(sid); !ok {
		t.Fatal("leave must keep the connection bound")
	}

	if !r.Cancel(sid) || !canceled {
		t.Fatal("cancel should call the bound cancel func")
	}

	r.Unbind(sid)
	if r.Count() != 0 {
		t.Fatalf("Count = %d after unbind", r.Count())
	}
	if _, ok := r.GetSession(sid); ok {
		t.Fatal("session should be gone")
	}
	if r.Cancel(sid) {
		t.Fatal("cancel of an unbound connection should report false")
	}
}
