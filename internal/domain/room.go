package domain

import "github.com/google/uuid"

type RoomID string

const (
	DefaultLanguage = "javascript"
	// AnyVersion asks the execution service for the latest available version.
	AnyVersion = "*"
)

type Room struct {
	ID RoomID
}

// NewRoomID allocates an unpredictable room identifier.
func NewRoomID() RoomID {
	return RoomID(uuid.NewString())
}

type Language struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func DefaultLang() Language {
	return Language{Name: DefaultLanguage, Version: AnyVersion}
}

// Document is the room-scoped shared state every member observes.
type Document struct {
	Code     string
	Language Language
	Stdin    string
	Output   string
}

func NewDocument() Document {
	return Document{Language: DefaultLang()}
}
