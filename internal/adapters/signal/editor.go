package signal

import (
	"encoding/json"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
)

func (ctl *SignalWSController) handleCodeChange(sid core.SessionID, raw json.RawMessage) {
	var p struct {
		RoomID string `json:"roomId"`
		Code   string `json:"code"`
	}
	if !decodePayload(sid, core.TypeCodeChange, raw, &p) {
		return
	}
	ctl.Orch.ChangeDocument(sid, domain.RoomID(p.RoomID), p.Code)
}

func (ctl *SignalWSController) handleLanguageChange(sid core.SessionID, raw json.RawMessage) {
	var p struct {
		RoomID   string `json:"roomId"`
		Language string `json:"language"`
		Version  string `json:"version"`
	}
	if !decodePayload(sid, core.TypeLanguageChange, raw, &p) {
		return
	}
	ctl.Orch.ChangeLanguage(sid, domain.RoomID(p.RoomID), domain.Language{Name: p.Language, Version: p.Version})
}

func (ctl *SignalWSController) handleInputChange(sid core.SessionID, raw json.RawMessage) {
	var p struct {
		RoomID string `json:"roomId"`
		Input  string `json:"input"`
	}
	if !decodePayload(sid, core.TypeInputChange, raw, &p) {
		return
	}
	ctl.Orch.ChangeInput(sid, domain.RoomID(p.RoomID), p.Input)
}

func (ctl *SignalWSController) handleTyping(sid core.SessionID, raw json.RawMessage) {
	var p struct {
		RoomID   string `json:"roomId"`
		Username string `json:"username"`
	}
	if len(raw) > 0 && !decodePayload(sid, core.TypeUserTyping, raw, &p) {
		return
	}
	ctl.Orch.NotifyTyping(sid, domain.RoomID(p.RoomID), p.Username)
}
