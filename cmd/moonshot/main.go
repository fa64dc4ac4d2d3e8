// Package main is the entry point for the exhibit controller. It only
// handles dependency injection and process lifecycle; no game logic belongs
// here.
package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/energiepark/moonshot/internal/events"
	"github.com/energiepark/moonshot/internal/game"
	"github.com/energiepark/moonshot/internal/hal"
	"github.com/energiepark/moonshot/internal/infra/display"
	"github.com/energiepark/moonshot/internal/infra/gpio"
	"github.com/energiepark/moonshot/internal/infra/segment"
	"github.com/energiepark/moonshot/internal/infra/storage"
	"github.com/energiepark/moonshot/internal/platform/config"
	"github.com/energiepark/moonshot/internal/platform/logger"
	"github.com/energiepark/moonshot/internal/platform/metrics"
)

// journalPersisterAdapter translates game events into journal rows.
type journalPersisterAdapter struct {
	repo      *storage.SQLiteJournalRepository
	sessionID string
}

func (a *journalPersisterAdapter) Append(event events.GameEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payloadMap map[string]interface{}
	json.Unmarshal(payloadBytes, &payloadMap)

	start := time.Now()
	err := a.repo.Append(context.Background(), storage.JournalEvent{
		ID:        event.ID,
		SessionID: a.sessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		Round:     event.Round,
		Payload:   payloadMap,
	})
	metrics.Get().RecordJournalWrite(time.Since(start), err)
	return err
}

// openJournal sets up the SQLite journal and registers this run as a
// session. A broken journal is not fatal for the exhibit; we play on
// without it.
func openJournal(path string, log *logger.Logger) (events.Persister, func()) {
	if path == "" {
		log.Warn("Journal disabled (MOONSHOT_JOURNAL_PATH empty)")
		return nil, func() {}
	}

	db, err := storage.InitSQLite(path)
	if err != nil {
		log.Error("Failed to open journal, continuing without it: " + err.Error())
		return nil, func() {}
	}

	repo := storage.NewSQLiteJournalRepository(db)
	sessionID := uuid.NewString()
	if err := repo.StartSession(context.Background(), sessionID, time.Now()); err != nil {
		log.Error("Failed to record session: " + err.Error())
	}
	log.Info("Journal session " + sessionID + " at " + path)

	return &journalPersisterAdapter{repo: repo, sessionID: sessionID}, func() { db.Close() }
}

func main() {
	appLogger := logger.NewLogger()
	appLogger.Info("Initializing moonshot exhibit controller...")

	cfg := config.Load(appLogger)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	persister, closeJournal := openJournal(cfg.JournalPath, appLogger)
	defer closeJournal()
	eventLog := events.NewEventLog(persister)

	hw, err := gpio.New(gpio.DefaultConfig(), appLogger)
	if err != nil {
		appLogger.Error("Failed to initialise GPIO: " + err.Error())
		os.Exit(1)
	}

	hub := display.NewHub(appLogger, nil)
	panel := display.NewPanelDisplay(hub)

	sinks := []hal.Outputs{hw, panel}
	if cfg.SerialDevice != "" {
		seg, err := segment.Open(cfg.SerialDevice, cfg.SerialBaud, appLogger)
		if err != nil {
			appLogger.Error("Failed to open segment display, continuing without it: " + err.Error())
		} else {
			defer seg.Close()
			sinks = append(sinks, seg)
		}
	}
	outputs := hal.NewMultiOutput(sinks...)

	engine := game.NewEngine(hw, outputs, hal.SystemClock{}, rng, eventLog, appLogger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go hub.Run(ctx)

	server := display.NewServer(cfg.ListenAddr, hub, panel, eventLog, appLogger)
	go func() {
		if err := server.Start(ctx); err != nil {
			appLogger.Error("Panel server failed: " + err.Error())
		}
	}()

	// The engine owns the main goroutine until a signal arrives; it runs
	// its dark/off sequence before returning.
	engine.Run(ctx)
	appLogger.Info("Controller stopped.")
}
