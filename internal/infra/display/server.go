package display

import (
	"context"
	"embed"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/energiepark/moonshot/internal/events"
	"github.com/energiepark/moonshot/internal/platform/logger"
	"github.com/energiepark/moonshot/internal/platform/metrics"
)

//go:embed page.html
var pageFS embed.FS

// The panel is served on the exhibit's own machine only.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server hosts the panel page, the websocket endpoint and the metrics
// endpoints on the local HTTP listener.
type Server struct {
	httpServer *http.Server
	hub        *Hub
	panel      *PanelDisplay
	logger     *logger.Logger
}

// NewServer wires the HTTP routes for the panel and the operator API.
func NewServer(addr string, hub *Hub, panel *PanelDisplay, eventLog *events.EventLog, log *logger.Logger) *Server {
	s := &Server{
		hub:    hub,
		panel:  panel,
		logger: log,
	}

	replay := NewReplayHandler(eventLog, log)

	r := mux.NewRouter()
	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	r.HandleFunc("/api/replay", replay.HandleReplay).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", replay.HandleStats).Methods(http.MethodGet)
	r.HandleFunc("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/metrics/prom", metrics.PrometheusHandler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
	}
	return s
}

// Start serves until ctx is cancelled, then shuts the listener down.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Panel server listening on " + s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := pageFS.ReadFile("page.html")
	if err != nil {
		http.Error(w, "panel page missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Panel websocket upgrade failed: " + err.Error())
		return
	}

	client := NewClient(s.hub, conn)
	client.Register()

	// Greet the new page with the current state so it doesn't sit dark
	// until the next change.
	client.send <- s.panel.Snapshot()

	go client.WritePump()
	go client.ReadPump()
}
