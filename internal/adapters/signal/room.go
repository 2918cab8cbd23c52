package signal

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleCreateRoom(sid core.SessionID) {
	id := ctl.Orch.CreateRoom(sid)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(id)).Msg("create room")
}

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *WsSignalConn,
	raw json.RawMessage,
) {
	type joinPayload struct {
		RoomID      string `json:"roomId"`
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
	}
	var p joinPayload
	if !decodePayload(sid, core.TypeJoin, raw, &p) {
		return
	}
	roomID := strings.TrimSpace(p.RoomID)
	if roomID == "" {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("join without room")
		return
	}
	if p.DisplayName == "" {
		p.DisplayName = p.Username
	}
	name, err := domain.NormalizeDisplayName(p.DisplayName)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join with bad name")
		if errors.Is(err, domain.ErrNameTooLong) {
			ctl.sendJSON(conn, core.TypeError, core.ErrorPayload{Error: err.Error()})
		}
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", roomID).Str("name", name).Msg("join")
	ctl.Orch.Join(sid, domain.RoomID(roomID), name)
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(sid core.SessionID) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	ctl.Orch.Leave(sid)
}
