// Package metrics provides observability for the exhibit controller.
// Exposed over the panel HTTP server so a maintenance laptop can check the
// machine without touching it.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and gameplay counters.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Gameplay metrics
	ActionsScored  int64
	ActionsIgnored int64 // same-sensor cooldown hits
	RoundsStarted  int64
	RoundsFinished int64
	FullResets     int64

	// Journal metrics
	JournalWrites      int64
	JournalWriteLatSum int64
	JournalWriteErrors int64

	// Panel (WebSocket) metrics
	WSConnectionsActive int64
	WSMessagesOut       int64
	WSMessagesDropped   int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a completed engine tick.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordAction records one accepted scoring action.
func (c *Collector) RecordAction() {
	atomic.AddInt64(&c.ActionsScored, 1)
}

// RecordIgnoredAction records an action rejected by the cooldown.
func (c *Collector) RecordIgnoredAction() {
	atomic.AddInt64(&c.ActionsIgnored, 1)
}

// RecordRoundStart records the start of a round.
func (c *Collector) RecordRoundStart() {
	atomic.AddInt64(&c.RoundsStarted, 1)
}

// RecordRoundEnd records a round completed with the full action count.
func (c *Collector) RecordRoundEnd() {
	atomic.AddInt64(&c.RoundsFinished, 1)
}

// RecordFullReset records a both-buttons combo reset.
func (c *Collector) RecordFullReset() {
	atomic.AddInt64(&c.FullResets, 1)
}

// RecordJournalWrite records an event write to the journal database.
func (c *Collector) RecordJournalWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.JournalWrites, 1)
	atomic.AddInt64(&c.JournalWriteLatSum, int64(latency))
	if err != nil {
		atomic.AddInt64(&c.JournalWriteErrors, 1)
	}
}

// RecordWSConnection records panel connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records a broadcast message sent to the panel.
func (c *Collector) RecordWSMessage() {
	atomic.AddInt64(&c.WSMessagesOut, 1)
}

// RecordWSDropped records a broadcast dropped because a client was slow.
func (c *Collector) RecordWSDropped() {
	atomic.AddInt64(&c.WSMessagesDropped, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	journalWrites := atomic.LoadInt64(&c.JournalWrites)

	var tickAvg, journalAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if journalWrites > 0 {
		journalAvg = float64(atomic.LoadInt64(&c.JournalWriteLatSum)) / float64(journalWrites) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"game": map[string]interface{}{
			"actions_scored":  atomic.LoadInt64(&c.ActionsScored),
			"actions_ignored": atomic.LoadInt64(&c.ActionsIgnored),
			"rounds_started":  atomic.LoadInt64(&c.RoundsStarted),
			"rounds_finished": atomic.LoadInt64(&c.RoundsFinished),
			"full_resets":     atomic.LoadInt64(&c.FullResets),
		},

		"journal": map[string]interface{}{
			"writes":           journalWrites,
			"avg_write_lat_ms": journalAvg,
			"errors":           atomic.LoadInt64(&c.JournalWriteErrors),
		},

		"panel": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"messages_dropped":   atomic.LoadInt64(&c.WSMessagesDropped),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP moonshot_tick_count Total engine ticks\n")
		fmt.Fprintf(w, "# TYPE moonshot_tick_count counter\n")
		fmt.Fprintf(w, "moonshot_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP moonshot_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE moonshot_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "moonshot_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP moonshot_actions_scored Total accepted scoring actions\n")
		fmt.Fprintf(w, "# TYPE moonshot_actions_scored counter\n")
		fmt.Fprintf(w, "moonshot_actions_scored %d\n\n", atomic.LoadInt64(&c.ActionsScored))

		fmt.Fprintf(w, "# HELP moonshot_actions_ignored Actions rejected by the cooldown\n")
		fmt.Fprintf(w, "# TYPE moonshot_actions_ignored counter\n")
		fmt.Fprintf(w, "moonshot_actions_ignored %d\n\n", atomic.LoadInt64(&c.ActionsIgnored))

		fmt.Fprintf(w, "# HELP moonshot_rounds_total Rounds started and finished\n")
		fmt.Fprintf(w, "# TYPE moonshot_rounds_total counter\n")
		fmt.Fprintf(w, "moonshot_rounds_total{phase=\"started\"} %d\n", atomic.LoadInt64(&c.RoundsStarted))
		fmt.Fprintf(w, "moonshot_rounds_total{phase=\"finished\"} %d\n\n", atomic.LoadInt64(&c.RoundsFinished))

		fmt.Fprintf(w, "# HELP moonshot_full_resets Combo resets performed\n")
		fmt.Fprintf(w, "# TYPE moonshot_full_resets counter\n")
		fmt.Fprintf(w, "moonshot_full_resets %d\n\n", atomic.LoadInt64(&c.FullResets))

		fmt.Fprintf(w, "# HELP moonshot_journal_writes Total journal writes\n")
		fmt.Fprintf(w, "# TYPE moonshot_journal_writes counter\n")
		fmt.Fprintf(w, "moonshot_journal_writes %d\n\n", atomic.LoadInt64(&c.JournalWrites))

		fmt.Fprintf(w, "# HELP moonshot_journal_write_errors Total journal write errors\n")
		fmt.Fprintf(w, "# TYPE moonshot_journal_write_errors counter\n")
		fmt.Fprintf(w, "moonshot_journal_write_errors %d\n\n", atomic.LoadInt64(&c.JournalWriteErrors))

		fmt.Fprintf(w, "# HELP moonshot_ws_connections Active panel connections\n")
		fmt.Fprintf(w, "# TYPE moonshot_ws_connections gauge\n")
		fmt.Fprintf(w, "moonshot_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP moonshot_ws_messages_out Total panel broadcasts\n")
		fmt.Fprintf(w, "# TYPE moonshot_ws_messages_out counter\n")
		fmt.Fprintf(w, "moonshot_ws_messages_out %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
