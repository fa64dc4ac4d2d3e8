// Package storage persists the game's event journal to SQLite.
//
// The journal is strictly write-only from the game's point of view: the
// engine never reads state back out of it, so score and SoC always start
// fresh after a process restart. It exists so operators can analyze how the
// exhibit is being played.
package storage

import (
	"context"
	"time"
)

// JournalEvent is the persisted form of a game event.
type JournalEvent struct {
	ID        string
	SessionID string
	Timestamp time.Time
	EventType string
	Round     int
	Payload   map[string]interface{}
}

// JournalRepository defines the journal's storage operations. Reads exist
// for offline analysis tools, not for the engine.
type JournalRepository interface {
	StartSession(ctx context.Context, sessionID string, startedAt time.Time) error
	Append(ctx context.Context, event JournalEvent) error
	GetBySession(ctx context.Context, sessionID string) ([]JournalEvent, error)
	GetByEventType(ctx context.Context, sessionID, eventType string) ([]JournalEvent, error)
}
