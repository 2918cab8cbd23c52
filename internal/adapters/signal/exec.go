package signal

import (
	"context"
	"encoding/json"

	"github.com/dkeye/CodeRoom/internal/app/orch"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleCompile(ctx context.Context, sid core.SessionID, raw json.RawMessage) {
	var p struct {
		RoomID   string `json:"roomId"`
		Code     string `json:"code"`
		Language string `json:"language"`
		Version  string `json:"version"`
		Input    string `json:"input"`
		Stdin    string `json:"stdin"`
	}
	if !decodePayload(sid, core.TypeCompileCode, raw, &p) {
		return
	}
	if p.Stdin == "" {
		p.Stdin = p.Input
	}
	// The run outlives the requester's connection; ExecTimeout bounds it.
	err := ctl.Orch.Run(context.WithoutCancel(ctx), sid, orch.RunRequest{
		RoomID:   domain.RoomID(p.RoomID),
		Source:   p.Code,
		Language: p.Language,
		Version:  p.Version,
		Stdin:    p.Stdin,
	})
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Msg("run rejected")
	}
}
