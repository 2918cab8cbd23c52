package orch

import (
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

// CreateRoom allocates a fresh room and tells only the requester its id.
// The requester is not joined.
func (o *Orchestrator) CreateRoom(sid core.SessionID) domain.RoomID {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.Rooms.Create().Room().ID
	o.send(sid, core.TypeRoomCreated, id)
	return id
}

// NewRoom allocates a room for callers outside the signal channel.
func (o *Orchestrator) NewRoom() domain.RoomID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.Create().Room().ID
}

func (o *Orchestrator) Join(sid core.SessionID, roomID domain.RoomID, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	session, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	if prev, _, ok := o.Registry.RoomOf(sid); ok {
		o.leaveLocked(sid, prev == roomID)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(prev)).Msg("left previous room")
	}

	room := o.Rooms.GetOrCreate(roomID)
	room.AddMember(sid, name, session)
	o.Registry.Join(sid, roomID, name)

	doc := room.Snapshot()
	o.send(sid, core.TypeCodeUpdate, doc.Code)
	o.send(sid, core.TypeLanguageUpdate, doc.Language.Name)
	o.send(sid, core.TypeInputUpdate, doc.Stdin)
	o.send(sid, core.TypeCodeOutput, doc.Output)
	if room.Executing() {
		o.send(sid, core.TypeExecutionStarted, nil)
	}

	o.broadcast(room, "", core.TypeUserJoined, room.Members())
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Str("name", name).Msg("added to room")
}

// Leave is the explicit leaveRoom intent. The connection stays open.
func (o *Orchestrator) Leave(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.leaveLocked(sid, false) {
		o.send(sid, core.TypeLeft, nil)
	}
}

func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leaveLocked(sid, false)
	o.Registry.Unbind(sid)
}

// leaveLocked removes the connection from its room. The room is deleted in
// the same step when nobody is left, unless rejoin says the same connection
// is about to come straight back.
func (o *Orchestrator) leaveLocked(sid core.SessionID, rejoin bool) bool {
	roomID, _, ok := o.Registry.Leave(sid)
	if !ok {
		return false
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok || !room.RemoveMember(sid) {
		return true
	}
	if rejoin {
		return true
	}
	if o.Rooms.RemoveIfEmpty(roomID) {
		return true
	}
	o.broadcast(room, "", core.TypeUserLeft, room.Members())
	return true
}

// ChangeDocument overwrites the shared code. The originator is not echoed.
func (o *Orchestrator) ChangeDocument(sid core.SessionID, roomID domain.RoomID, code string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	room, ok := o.joinedRoomLocked(sid, roomID)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("code change for unknown room dropped")
		return
	}
	room.SetCode(code)
	o.broadcast(room, sid, core.TypeCodeUpdate, code)
}

// ChangeLanguage overwrites the language and resyncs every member, the
// originator included.
func (o *Orchestrator) ChangeLanguage(sid core.SessionID, roomID domain.RoomID, lang domain.Language) {
	if lang.Name == "" {
		return
	}
	if lang.Version == "" {
		lang.Version = domain.AnyVersion
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	room, ok := o.joinedRoomLocked(sid, roomID)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("language change for unknown room dropped")
		return
	}
	room.SetLanguage(lang)
	o.broadcast(room, "", core.TypeLanguageUpdate, lang.Name)
}

func (o *Orchestrator) ChangeInput(sid core.SessionID, roomID domain.RoomID, stdin string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	room, ok := o.joinedRoomLocked(sid, roomID)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("input change for unknown room dropped")
		return
	}
	room.SetInput(stdin)
	o.broadcast(room, "", core.TypeInputUpdate, stdin)
}

// NotifyTyping relays a typing indicator to the other members. Nothing is
// stored; clients expire the indicator themselves.
func (o *Orchestrator) NotifyTyping(sid core.SessionID, roomID domain.RoomID, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	room, ok := o.joinedRoomLocked(sid, roomID)
	if !ok {
		return
	}
	if name == "" {
		_, name, _ = o.Registry.RoomOf(sid)
	}
	o.broadcast(room, sid, core.TypeUserTyping, name)
}

// IsMember reports whether name is currently present in the room.
func (o *Orchestrator) IsMember(roomID domain.RoomID, name string) bool {
	room, ok := o.Rooms.Get(roomID)
	return ok && room.HasMember(name)
}

func (o *Orchestrator) ListRooms() []core.RoomInfo {
	return o.Rooms.List()
}
