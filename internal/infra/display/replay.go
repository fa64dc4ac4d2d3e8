package display

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/energiepark/moonshot/internal/events"
	"github.com/energiepark/moonshot/internal/platform/logger"
)

// ReplayHandler lets an operator replay the session's event history from a
// maintenance laptop. It reads only from the in-memory log.
type ReplayHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewReplayHandler creates the replay API handler.
func NewReplayHandler(el *events.EventLog, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		eventLog: el,
		logger:   log,
	}
}

// ReplayResponse is the API response for a replay query.
type ReplayResponse struct {
	TotalEvents int                `json:"total_events"`
	FilteredBy  string             `json:"filtered_by,omitempty"`
	GeneratedAt string             `json:"generated_at"`
	Events      []events.GameEvent `json:"events"`
}

// HandleReplay returns the session's event history.
// GET /api/replay?round=N&type=ACTION_SCORED
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	roundStr := r.URL.Query().Get("round")
	eventType := r.URL.Query().Get("type")

	all := rh.eventLog.Replay()

	var filtered []events.GameEvent
	filterDesc := ""

	for _, e := range all {
		if roundStr != "" {
			round, err := strconv.Atoi(roundStr)
			if err != nil {
				rh.jsonError(w, "Invalid round", http.StatusBadRequest)
				return
			}
			if e.Round != round {
				continue
			}
			filterDesc = "round " + roundStr
		}
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		filtered = append(filtered, e)
	}

	response := ReplayResponse{
		TotalEvents: len(filtered),
		FilteredBy:  filterDesc,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      filtered,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// StatsResponse summarizes the session for the operator.
type StatsResponse struct {
	TotalEvents    int            `json:"total_events"`
	EventsByType   map[string]int `json:"events_by_type"`
	RoundsStarted  int            `json:"rounds_started"`
	RoundsFinished int            `json:"rounds_finished"`
	FullResets     int            `json:"full_resets"`
	GeneratedAt    string         `json:"generated_at"`
}

// HandleStats returns aggregate counts over the event history.
// GET /api/stats
func (rh *ReplayHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	all := rh.eventLog.Replay()

	byType := make(map[string]int)
	for _, e := range all {
		byType[string(e.Type)]++
	}

	response := StatsResponse{
		TotalEvents:    len(all),
		EventsByType:   byType,
		RoundsStarted:  byType[string(events.EventTypeRoundStart)],
		RoundsFinished: byType[string(events.EventTypeRoundEnd)],
		FullResets:     byType[string(events.EventTypeFullReset)],
		GeneratedAt:    time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (rh *ReplayHandler) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
