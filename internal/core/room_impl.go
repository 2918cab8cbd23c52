package core

import (
	"slices"
	"sync"
	"time"

	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

type roomEntry struct {
	session MemberSession
	name    string
}

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room      *domain.Room
	mode      domain.PresenceMode
	createdAt time.Time

	mu    sync.RWMutex
	bySID map[SessionID]*roomEntry
	order []SessionID
	// names is the presence set in PresenceByName mode, insertion-ordered.
	names     []string
	doc       domain.Document
	executing bool
}

func NewRoomService(room *domain.Room, mode domain.PresenceMode) RoomService {
	return &roomImpl{
		room:      room,
		mode:      mode,
		createdAt: time.Now(),
		bySID:     make(map[SessionID]*roomEntry),
		doc:       domain.NewDocument(),
	}
}

func (r *roomImpl) Room() *domain.Room   { return r.room }
func (r *roomImpl) CreatedAt() time.Time { return r.createdAt }

func (r *roomImpl) AddMember(sid SessionID, name string, ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[sid]; !ok {
		r.order = append(r.order, sid)
	}
	r.bySID[sid] = &roomEntry{session: ms, name: name}
	if r.mode == domain.PresenceByName && !slices.Contains(r.names, name) {
		r.names = append(r.names, name)
	}
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Str("name", name).Msg("member added")
}

// RemoveMember drops the connection. In PresenceByName mode it also drops the
// display name even if another connection still uses it.
func (r *roomImpl) RemoveMember(sid SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.bySID[sid]
	if !ok {
		return false
	}
	delete(r.bySID, sid)
	r.order = slices.DeleteFunc(r.order, func(s SessionID) bool { return s == sid })
	if r.mode == domain.PresenceByName {
		r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == e.name })
	}
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("member removed")
	return true
}

func (r *roomImpl) Members() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.membersLocked()
}

func (r *roomImpl) membersLocked() []string {
	if r.mode == domain.PresenceByName {
		return slices.Clone(r.names)
	}
	out := make([]string, 0, len(r.order))
	for _, sid := range r.order {
		name := r.bySID[sid].name
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func (r *roomImpl) MemberCount() int {
	return len(r.Members())
}

func (r *roomImpl) HasMember(name string) bool {
	return slices.Contains(r.Members(), name)
}

func (r *roomImpl) HasSession(sid SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bySID[sid]
	return ok
}

func (r *roomImpl) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.mode == domain.PresenceByName {
		return len(r.names) == 0
	}
	return len(r.bySID) == 0
}

// Broadcast fans data out to every connection except the given one, in join
// order. An empty except reaches everyone.
func (r *roomImpl) Broadcast(except SessionID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for _, sid := range r.order {
		if sid == except {
			continue
		}
		m := r.bySID[sid].session
		if err := m.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("except", string(except)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) Snapshot() domain.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc
}

func (r *roomImpl) SetCode(code string) {
	r.mu.Lock()
	r.doc.Code = code
	r.mu.Unlock()
}

func (r *roomImpl) SetLanguage(lang domain.Language) {
	r.mu.Lock()
	r.doc.Language = lang
	r.mu.Unlock()
}

func (r *roomImpl) SetInput(stdin string) {
	r.mu.Lock()
	r.doc.Stdin = stdin
	r.mu.Unlock()
}

func (r *roomImpl) SetOutput(output string) {
	r.mu.Lock()
	r.doc.Output = output
	r.mu.Unlock()
}

// TryAcquireExecution takes the execution lock. It never waits.
func (r *roomImpl) TryAcquireExecution() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.executing {
		return false
	}
	r.executing = true
	return true
}

func (r *roomImpl) ReleaseExecution() {
	r.mu.Lock()
	r.executing = false
	r.mu.Unlock()
}

func (r *roomImpl) Executing() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.executing
}
