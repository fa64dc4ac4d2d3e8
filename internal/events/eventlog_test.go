package events

import (
	"sync"
	"testing"
	"time"
)

type recordingPersister struct {
	mu     sync.Mutex
	events []GameEvent
}

func (p *recordingPersister) Append(event GameEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func mkEvent(t EventType, round int) GameEvent {
	return GameEvent{
		ID:        GenerateEventID(),
		Timestamp: time.Now(),
		Type:      t,
		Round:     round,
	}
}

func TestAppendAndReplayOrder(t *testing.T) {
	el := NewEventLog(nil)
	el.Append(mkEvent(EventTypeRoundStart, 1))
	el.Append(mkEvent(EventTypeActionScored, 1))
	el.Append(mkEvent(EventTypeRoundEnd, 1))

	replay := el.Replay()
	if len(replay) != 3 {
		t.Fatalf("replay length = %d, want 3", len(replay))
	}
	want := []EventType{EventTypeRoundStart, EventTypeActionScored, EventTypeRoundEnd}
	for i, e := range replay {
		if e.Type != want[i] {
			t.Errorf("replay[%d].Type = %s, want %s", i, e.Type, want[i])
		}
	}
}

func TestGetByTypeAndRound(t *testing.T) {
	el := NewEventLog(nil)
	el.Append(mkEvent(EventTypeRoundStart, 1))
	el.Append(mkEvent(EventTypeActionScored, 1))
	el.Append(mkEvent(EventTypeActionScored, 1))
	el.Append(mkEvent(EventTypeRoundEnd, 1))
	el.Append(mkEvent(EventTypeRoundStart, 2))

	if got := len(el.GetByType(EventTypeActionScored)); got != 2 {
		t.Errorf("ACTION_SCORED events = %d, want 2", got)
	}
	if got := len(el.GetByRound(1)); got != 4 {
		t.Errorf("round 1 events = %d, want 4", got)
	}
	if got := len(el.GetByRound(2)); got != 1 {
		t.Errorf("round 2 events = %d, want 1", got)
	}
}

func TestPersisterReceivesEvents(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)

	el.Append(mkEvent(EventTypeRoundStart, 1))
	el.Append(mkEvent(EventTypeFullReset, 1))

	// Persister writes happen off the appending goroutine.
	deadline := time.Now().Add(time.Second)
	for p.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if p.count() != 2 {
		t.Errorf("persisted events = %d, want 2", p.count())
	}
}

func TestEventIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateEventID()
		if seen[id] {
			t.Fatalf("duplicate event ID: %s", id)
		}
		seen[id] = true
	}
}
