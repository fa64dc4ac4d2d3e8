package storage

import (
	"context"
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *SQLiteJournalRepository {
	t.Helper()
	db, err := InitSQLite(":memory:")
	if err != nil {
		t.Fatalf("InitSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteJournalRepository(db)
}

func TestAppendAndGetBySession(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.StartSession(ctx, "session-1", time.Now()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	events := []JournalEvent{
		{ID: "e1", SessionID: "session-1", Timestamp: time.Now(), EventType: "ROUND_START", Round: 1, Payload: map[string]interface{}{"soc": 5.0}},
		{ID: "e2", SessionID: "session-1", Timestamp: time.Now().Add(time.Second), EventType: "ACTION_SCORED", Round: 1, Payload: map[string]interface{}{"score": 100.0}},
		{ID: "e3", SessionID: "session-1", Timestamp: time.Now().Add(2 * time.Second), EventType: "ROUND_END", Round: 1, Payload: nil},
	}
	for _, e := range events {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append %s: %v", e.ID, err)
		}
	}

	got, err := repo.GetBySession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("session events = %d, want 3", len(got))
	}
	if got[0].EventType != "ROUND_START" || got[2].EventType != "ROUND_END" {
		t.Errorf("events out of order: %s ... %s", got[0].EventType, got[2].EventType)
	}
	if got[1].Payload["score"] != 100.0 {
		t.Errorf("payload score = %v, want 100", got[1].Payload["score"])
	}
}

func TestGetByEventTypeFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.StartSession(ctx, "session-1", time.Now()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	for i, et := range []string{"ROUND_START", "ACTION_SCORED", "ACTION_SCORED", "FULL_RESET"} {
		e := JournalEvent{
			ID:        string(rune('a' + i)),
			SessionID: "session-1",
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
			EventType: et,
			Round:     1,
		}
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	actions, err := repo.GetByEventType(ctx, "session-1", "ACTION_SCORED")
	if err != nil {
		t.Fatalf("GetByEventType: %v", err)
	}
	if len(actions) != 2 {
		t.Errorf("ACTION_SCORED events = %d, want 2", len(actions))
	}

	other, err := repo.GetByEventType(ctx, "session-2", "ACTION_SCORED")
	if err != nil {
		t.Fatalf("GetByEventType: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("foreign session events = %d, want 0", len(other))
	}
}
