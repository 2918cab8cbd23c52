package core

import "github.com/google/uuid"

// SessionID identifies one live transport connection.
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// MemberSession binds a connection id and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	ID() SessionID
	Signal() SignalConnection
}
