package core

import (
	"time"

	"github.com/dkeye/CodeRoom/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// RoomService is the core-facing API of a room.
// It owns the membership set and the shared document but never touches
// transport resources.
type RoomService interface {
	Room() *domain.Room
	CreatedAt() time.Time

	Members() []string
	MemberCount() int
	HasMember(name string) bool
	HasSession(sid SessionID) bool
	IsEmpty() bool
	AddMember(sid SessionID, name string, ms MemberSession)
	RemoveMember(sid SessionID) bool
	Broadcast(except SessionID, data Frame) PublishResult

	Snapshot() domain.Document
	SetCode(code string)
	SetLanguage(lang domain.Language)
	SetInput(stdin string)
	SetOutput(output string)

	TryAcquireExecution() bool
	ReleaseExecution()
	Executing() bool
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	Members     []string      `json:"members"`
	MemberCount int           `json:"member_count"`
	Executing   bool          `json:"executing"`
}

type RoomManager interface {
	// Create allocates a room under a fresh unused id. Nobody is joined yet.
	Create() RoomService
	GetOrCreate(id domain.RoomID) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	// RemoveIfEmpty deletes the room when it has no members left.
	RemoveIfEmpty(id domain.RoomID) bool
	// SweepEmpty deletes rooms that stayed empty for longer than ttl.
	SweepEmpty(ttl time.Duration) int
	List() []RoomInfo
	Count() int
}
