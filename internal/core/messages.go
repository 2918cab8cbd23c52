package core

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Client -> server intents.
const (
	TypeCreateRoom     = "createRoom"
	TypeJoin           = "join"
	TypeLeaveRoom      = "leaveRoom"
	TypeCodeChange     = "codeChange"
	TypeLanguageChange = "languageChange"
	TypeInputChange    = "inputChange"
	TypeCompileCode    = "compileCode"
	TypePing           = "ping"
)

// Server -> client notifications.
const (
	TypeRoomCreated      = "roomCreated"
	TypeUserJoined       = "userJoined"
	TypeUserLeft         = "userLeft"
	TypeLeft             = "left"
	TypeCodeUpdate       = "codeUpdate"
	TypeLanguageUpdate   = "languageUpdate"
	TypeInputUpdate      = "inputUpdate"
	TypeCodeOutput       = "codeOutput"
	TypeExecutionStarted = "codeExecutionStarted"
	TypeExecutionEnded   = "codeExecutionEnded"
	TypeExecutionBusy    = "codeExecutionBusy"
	TypeCodeResponse     = "codeResponse"
	TypePong             = "pong"
	TypeError            = "error"
)

// TypeUserTyping travels both ways.
const TypeUserTyping = "userTyping"

// Message is the wire envelope in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type BusyPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// Encode builds a frame for the given type and payload. A nil payload omits
// the field.
func Encode(typ string, payload any) Frame {
	b, err := json.Marshal(outMessage{Type: typ, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "core.messages").Str("type", typ).Msg("encode frame")
		b, _ = json.Marshal(outMessage{Type: TypeError, Payload: ErrorPayload{Error: "encode"}})
	}
	return b
}
