package app

import (
	"sync"
	"time"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/metrics"
	"github.com/rs/zerolog/log"
)

type RoomManagerImpl struct {
	mode  domain.PresenceMode
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomManager(mode domain.PresenceMode) core.RoomManager {
	return &RoomManagerImpl{
		mode:  mode,
		rooms: make(map[domain.RoomID]core.RoomService),
	}
}

func (f *RoomManagerImpl) Create() core.RoomService {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := domain.NewRoomID()
	for {
		if _, taken := f.rooms[id]; !taken {
			break
		}
		id = domain.NewRoomID()
	}
	room := f.insertLocked(id)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	return room
}

func (f *RoomManagerImpl) GetOrCreate(id domain.RoomID) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[id]; ok {
		return room
	}
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created on join")
	return f.insertLocked(id)
}

func (f *RoomManagerImpl) insertLocked(id domain.RoomID) core.RoomService {
	room := core.NewRoomService(&domain.Room{ID: id}, f.mode)
	f.rooms[id] = room
	metrics.RoomsActive.Set(float64(len(f.rooms)))
	return room
}

func (f *RoomManagerImpl) Get(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManagerImpl) RemoveIfEmpty(id domain.RoomID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok || !room.IsEmpty() {
		return false
	}
	f.deleteLocked(id)
	return true
}

func (f *RoomManagerImpl) SweepEmpty(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, room := range f.rooms {
		if room.IsEmpty() && !room.CreatedAt().After(cutoff) {
			f.deleteLocked(id)
			n++
		}
	}
	return n
}

func (f *RoomManagerImpl) deleteLocked(id domain.RoomID) {
	delete(f.rooms, id)
	metrics.RoomsActive.Set(float64(len(f.rooms)))
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room deleted")
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		members := r.Members()
		out = append(out, core.RoomInfo{
			ID:          id,
			Members:     members,
			MemberCount: len(members),
			Executing:   r.Executing(),
		})
	}
	return out
}

func (f *RoomManagerImpl) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms)
}
