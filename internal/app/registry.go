package app

import (
	"context"
	"sync"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/metrics"
	"github.com/rs/zerolog/log"
)

// ConnState is the per-connection state machine.
// Transitions happen only via Join, Leave and Unbind.
type ConnState int

const (
	Unjoined ConnState = iota
	Joined
)

type sessionEntry struct {
	RoomID  domain.RoomID
	Name    string
	Session core.MemberSession
	Cancel  context.CancelFunc
}

func (e *sessionEntry) state() ConnState {
	if e.RoomID == "" {
		return Unjoined
	}
	return Joined
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

func (r *Registry) BindSignal(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; !ok {
		metrics.ConnectionsActive.Inc()
	}
	r.sessions[sid] = &sessionEntry{Session: sess, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

func (r *Registry) State(sid core.SessionID) ConnState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.state()
	}
	return Unjoined
}

func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; !ok {
		return
	}
	delete(r.sessions, sid)
	metrics.ConnectionsActive.Dec()
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

// RoomOf reports the room and display name of a joined connection.
func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomID, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[sid]
	if !ok || entry.state() != Joined {
		return "", "", false
	}
	return entry.RoomID, entry.Name, true
}

// Join moves a bound connection to Joined(roomID, name).
func (r *Registry) Join(sid core.SessionID, roomID domain.RoomID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return false
	}
	entry.RoomID = roomID
	entry.Name = name
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomID)).Str("name", name).Msg("joined room")
	return true
}

// Leave moves the connection back to Unjoined and returns what it left.
func (r *Registry) Leave(sid core.SessionID) (domain.RoomID, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok || entry.state() != Joined {
		return "", "", false
	}
	roomID, name := entry.RoomID, entry.Name
	entry.RoomID, entry.Name = "", ""
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomID)).Msg("removed room association")
	return roomID, name, true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}
