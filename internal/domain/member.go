package domain

import "fmt"

// PresenceMode selects what a room member is keyed by.
type PresenceMode string

const (
	// PresenceByName keys members by display name. Two connections sharing a
	// name collapse into one member, and either leaving removes it.
	PresenceByName PresenceMode = "name"
	// PresenceByConnection keys members by connection; the visible list is the
	// distinct display names in join order.
	PresenceByConnection PresenceMode = "connection"
)

func ParsePresenceMode(s string) (PresenceMode, error) {
	switch PresenceMode(s) {
	case "", PresenceByName:
		return PresenceByName, nil
	case PresenceByConnection:
		return PresenceByConnection, nil
	}
	return "", fmt.Errorf("unknown presence mode %q", s)
}
