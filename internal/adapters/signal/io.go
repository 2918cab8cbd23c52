package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) writePump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid)
		cancel()
		c.Close()
	}()

	pongWait := 2 * ctl.opts.PingPeriod
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(ctx, sid, c, data)
		}
	}
}

// handleSignal dispatches one inbound intent. Malformed intents are logged
// and ignored; they never close the connection.
func (ctl *SignalWSController) handleSignal(ctx context.Context, sid core.SessionID, c *WsSignalConn, data []byte) {
	var msg core.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
		return
	}

	switch msg.Type {
	case core.TypeCreateRoom:
		ctl.handleCreateRoom(sid)
	case core.TypeJoin:
		ctl.handleJoin(sid, c, msg.Payload)
	case core.TypeLeaveRoom:
		ctl.handleLeave(sid)
	case core.TypeCodeChange:
		ctl.handleCodeChange(sid, msg.Payload)
	case core.TypeLanguageChange:
		ctl.handleLanguageChange(sid, msg.Payload)
	case core.TypeInputChange:
		ctl.handleInputChange(sid, msg.Payload)
	case core.TypeUserTyping:
		ctl.handleTyping(sid, msg.Payload)
	case core.TypeCompileCode:
		ctl.handleCompile(ctx, sid, msg.Payload)
	case core.TypePing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", msg.Type).Msg("unknown signal")
	}
}

// decodePayload reports whether raw held a usable payload for typ.
func decodePayload(sid core.SessionID, typ string, raw json.RawMessage, dst any) bool {
	if len(raw) == 0 {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", typ).Msg("missing payload")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("type", typ).Msg("bad payload")
		return false
	}
	return true
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, typ string, payload any) {
	if err := c.TrySend(core.Encode(typ, payload)); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("type", typ).Msg("sendJSON")
	}
}
