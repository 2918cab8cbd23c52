package orch

import (
	"sync"
	"time"

	"github.com/dkeye/CodeRoom/internal/app"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Orchestrator is the room registry core. Every intent that mutates room or
// connection state runs under mu, so per-room broadcast order equals
// mutation order. Only the call to the execution service runs outside it.
type Orchestrator struct {
	Registry    *app.Registry
	Rooms       core.RoomManager
	Policy      app.Policy
	Executor    core.Executor
	ExecTimeout time.Duration

	mu       sync.Mutex
	inflight sync.WaitGroup
}

// joinedRoomLocked resolves the room an intent targets. The connection must be
// joined to it; an empty roomID means the current room.
func (o *Orchestrator) joinedRoomLocked(sid core.SessionID, roomID domain.RoomID) (core.RoomService, bool) {
	cur, _, ok := o.Registry.RoomOf(sid)
	if !ok || (roomID != "" && roomID != cur) {
		return nil, false
	}
	room, ok := o.Rooms.Get(cur)
	if !ok || !room.HasSession(sid) {
		return nil, false
	}
	return room, true
}

func (o *Orchestrator) send(sid core.SessionID, typ string, payload any) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	if err := sess.Signal().TrySend(core.Encode(typ, payload)); err != nil {
		metrics.FramesDropped.Inc()
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("type", typ).Msg("direct send failed")
	}
}

func (o *Orchestrator) broadcast(room core.RoomService, except core.SessionID, typ string, payload any) {
	res := room.Broadcast(except, core.Encode(typ, payload))
	if len(res.Dropped) == 0 {
		return
	}
	metrics.FramesDropped.Add(float64(len(res.Dropped)))
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			o.kick(slow)
		case app.DropFrame, app.NoAction:
			log.Debug().Str("module", "orch").Str("sid", string(slow.ID())).Str("type", typ).Msg("frame dropped")
		}
	}
}

// kick closes a lagging connection. Its read pump then reports the
// disconnect, which performs the leave.
func (o *Orchestrator) kick(ms core.MemberSession) {
	log.Warn().Str("module", "orch").Str("sid", string(ms.ID())).Msg("kicking slow member")
	o.Registry.Cancel(ms.ID())
	ms.Signal().Close()
}
