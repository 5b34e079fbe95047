package game

import "context"

type EventType string

const (
	// EventSnapshot carries the current state to a new subscriber
	EventSnapshot     EventType = "snapshot"
	EventGameCreated  EventType = "game_created"
	EventGameUpdated  EventType = "game_updated"
	EventTurnAdvanced EventType = "turn_advanced"
	EventGameDeleted  EventType = "game_deleted"
)

// Event announces a committed change. Game is nil for deletions.
type Event struct {
	Type   EventType   `json:"type"`
	GameID string      `json:"game_id"`
	Year   int         `json:"year"`
	Game   *Game       `json:"game,omitempty"`
	Report *TurnReport `json:"report,omitempty"`
}

// Broadcaster delivers events to observers. Publish must not block on slow
// observers.
type Broadcaster interface {
	Publish(ctx context.Context, event Event)
}

// SnapshotStore persists committed games
type SnapshotStore interface {
	Save(ctx context.Context, g *Game) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	LoadAll(ctx context.Context) ([]*Game, error)
}
