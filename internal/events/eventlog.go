// Package events provides the append-only event log for the energy game.
// Every round, scored action and reset passes through here; the journal
// persister writes them through to SQLite for later analysis.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeRoundStart   EventType = "ROUND_START"
	EventTypeActionScored EventType = "ACTION_SCORED"
	EventTypeRoundEnd     EventType = "ROUND_END"
	EventTypeFullReset    EventType = "FULL_RESET"
	EventTypeShutdown     EventType = "SHUTDOWN"
)

// RoundStartPayload is attached to ROUND_START events.
type RoundStartPayload struct {
	SoC       int    `json:"soc"`
	LEDValues [4]int `json:"led_values"`
}

// ActionPayload is attached to ACTION_SCORED events.
type ActionPayload struct {
	Sensor        int    `json:"sensor"`
	Button        string `json:"button"`
	LEDValue      int    `json:"led_value"`
	ScoreDelta    int    `json:"score_delta"`
	SoCDelta      int    `json:"soc_delta"`
	SwitchPenalty bool   `json:"switch_penalty"`
	Score         int    `json:"score"`
	SoC           int    `json:"soc"`
	Actions       int    `json:"actions"`
}

// RoundEndPayload is attached to ROUND_END and FULL_RESET events.
type RoundEndPayload struct {
	Score   int `json:"score"`
	SoC     int `json:"soc"`
	Actions int `json:"actions"`
}

// GameEvent represents an immutable record of something that happened on the
// exhibit floor.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	Round     int         `json:"round"`
	Payload   interface{} `json:"payload"`
}

// Persister defines how an event is durably stored.
type Persister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister Persister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister Persister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
// The persister write happens off the caller's goroutine so the engine tick
// never waits on the database.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByType returns all events of a given type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GetByRound returns all events recorded during a specific round.
func (el *EventLog) GetByRound(round int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Round == round {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history of events.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// Len returns the number of recorded events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
