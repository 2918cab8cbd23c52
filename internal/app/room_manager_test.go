package app

import (
	"testing"
	"time"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
)

func TestCreateAllocatesDistinctRooms(t *testing.T) {
	m := NewRoomManager(domain.PresenceByName)
	a := m.Create()
	b := m.Create()
	if a.Room().ID == b.Room().ID {
		t.Fatal("ids should differ")
	}
	if got, ok := m.Get(a.Room().ID); !ok || got != a {
		t.Fatal("created room not registered")
	}
	if m.Count() != 2 {
		t.Fatalf("Count = %d", m.Count())
	}
}

func TestGetOrCreateReturnsExisting(t *testing.T) {
	m := NewRoomManager(domain.PresenceByName)
	first := m.GetOrCreate("any-client-id")
	if again := m.GetOrCreate("any-client-id"); again != first {
		t.Fatal("GetOrCreate should return the existing room")
	}
	if m.Count() != 1 {
		t.Fatalf("Count = %d", m.Count())
	}
}

func TestRemoveIfEmpty(t *testing.T) {
	m := NewRoomManager(domain.PresenceByName)
	room := m.GetOrCreate("r")
	sid := core.NewSessionID()
	room.AddMember(sid, "alice", core.NewMemberSession(sid, nopSignal{}))

	if m.RemoveIfEmpty("r") {
		t.Fatal("occupied room must not be removed")
	}
	room.RemoveMember(sid)
	if !m.RemoveIfEmpty("r") {
		t.Fatal("empty room should be removed")
	}
	if _, ok := m.Get("r"); ok {
		t.Fatal("room still registered")
	}
	if m.RemoveIfEmpty("r") {
		t.Fatal("missing room should report false")
	}
}

func TestSweepEmpty(t *testing.T) {
	m := NewRoomManager(domain.PresenceByConnection)
	m.Create()
	occupied := m.GetOrCreate("busy")
	sid := core.NewSessionID()
	occupied.AddMember(sid, "alice", core.NewMemberSession(sid, nopSignal{}))

	if n := m.SweepEmpty(time.Hour); n != 0 {
		t.Fatalf("young rooms swept: %d", n)
	}
	if n := m.SweepEmpty(0); n != 1 {
		t.Fatalf("SweepEmpty(0) = %d, want 1", n)
	}
	if _, ok := m.Get("busy"); !ok {
		t.Fatal("occupied room was swept")
	}
}

func TestListReportsMembers(t *testing.T) {
	m := NewRoomManager(domain.PresenceByName)
	room := m.GetOrCreate("r")
	sid := core.NewSessionID()
	room.AddMember(sid, "alice", core.NewMemberSession(sid, nopSignal{}))
	room.TryAcquireExecution()

	list := m.List()
	if len(list) != 1 {
		t.Fatalf("List len = %d", len(list))
	}
	info := list[0]
	if info.ID != "r" || info.MemberCount != 1 || info.Members[0] != "alice" || !info.Executing {
		t.Fatalf("info = %+v", info)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    BackpressureAction
		wantErr bool
	}{
		{name: "", want: KickMember},
		{name: "kick", want: KickMember},
		{name: "drop", want: DropFrame},
		{name: "block", wantErr: true},
	}
	for _, tt := range tests {
		p, err := ParsePolicy(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParsePolicy(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", tt.name, err)
		}
		if got := p.OnBackPressure(nil, nil); got != tt.want {
			t.Fatalf("ParsePolicy(%q) action = %v, want %v", tt.name, got, tt.want)
		}
	}
}
