// Package main runs the exhibit controller against simulated hardware: the
// panel page doubles as the input surface (open it with ?sim). Useful for
// exhibitions and rule-tuning sessions away from the table.
package main

import (
	"context"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/energiepark/moonshot/internal/events"
	"github.com/energiepark/moonshot/internal/game"
	"github.com/energiepark/moonshot/internal/hal"
	"github.com/energiepark/moonshot/internal/infra/display"
	"github.com/energiepark/moonshot/internal/infra/siminput"
	"github.com/energiepark/moonshot/internal/platform/config"
	"github.com/energiepark/moonshot/internal/platform/logger"
)

func main() {
	appLogger := logger.NewLogger()
	appLogger.Info("Initializing moonshot simulator...")

	cfg := config.Load(appLogger)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sim := siminput.NewSimulator()
	hub := display.NewHub(appLogger, sim)
	panel := display.NewPanelDisplay(hub)

	// No journal in simulator runs; the event log stays in memory.
	eventLog := events.NewEventLog(nil)

	engine := game.NewEngine(sim, hal.NewMultiOutput(panel), hal.SystemClock{}, rng, eventLog, appLogger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go hub.Run(ctx)

	server := display.NewServer(cfg.ListenAddr, hub, panel, eventLog, appLogger)
	go func() {
		if err := server.Start(ctx); err != nil {
			appLogger.Error("Panel server failed: " + err.Error())
		}
	}()

	appLogger.Info("Open http://localhost" + cfg.ListenAddr + "/?sim to play.")
	engine.Run(ctx)
	appLogger.Info("Simulator stopped.")
}
