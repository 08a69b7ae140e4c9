package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/h1v3-io/screenshotter/internal/capture"
	"github.com/h1v3-io/screenshotter/internal/journal"
	"github.com/h1v3-io/screenshotter/internal/logbuf"
	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

const (
	defaultCaptureLimit = 50
	defaultLogLimit     = 200
)

// LogQuerier abstracts log entry querying. *logbuf.Buffer implements it.
type LogQuerier interface {
	Query(f logbuf.Filter) []logbuf.Entry
}

// Taker runs a single capture. *capture.Service implements it.
type Taker interface {
	Take(ctx context.Context, trigger protocol.CaptureTrigger) capture.Outcome
}

// History is the read side of the capture journal.
type History interface {
	Get(id string) (*protocol.CaptureRecord, error)
	List(filter journal.Filter) ([]*protocol.CaptureRecord, error)
	Count(filter journal.Filter) (int, error)
}

// Config holds API server configuration.
type Config struct {
	Host string
	Port int
	// Tool is reported by the health endpoint.
	Tool string
}

// Server is the local admin REST API.
type Server struct {
	taker   Taker
	history History
	cfg     Config
	logger  *slog.Logger
	logs    LogQuerier
	srv     *http.Server
}

// NewServer creates a new API server. history and logs may be nil.
func NewServer(cfg Config, taker Taker, history History, logger *slog.Logger, logs LogQuerier) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		taker:   taker,
		history: history,
		cfg:     cfg,
		logger:  logger,
		logs:    logs,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/captures", s.handleListCaptures)
	mux.HandleFunc("GET /api/captures/{id}", s.handleGetCapture)
	mux.HandleFunc("POST /api/captures", s.handleTakeCapture)
	mux.HandleFunc("GET /api/logs", s.handleGetLogs)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins listening. Blocks until context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutCtx)
	}()

	s.logger.Info("api server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// --- Middleware ---

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

type healthResponse struct {
	Status  string `json:"status"`
	Tool    string `json:"tool,omitempty"`
	Journal bool   `json:"journal"`
	// Captures is the journal size, present only when the journal is enabled.
	Captures *int `json:"captures,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", Tool: s.cfg.Tool, Journal: s.history != nil}
	if s.history != nil {
		if n, err := s.history.Count(journal.Filter{}); err == nil {
			resp.Captures = &n
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "capture journal is disabled"})
		return
	}

	q := r.URL.Query()
	filter := journal.Filter{
		Status:  q.Get("status"),
		Trigger: q.Get("trigger"),
		Limit:   defaultCaptureLimit,
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if since := q.Get("since"); since != "" {
		if ms, err := strconv.ParseInt(since, 10, 64); err == nil {
			filter.Since = time.UnixMilli(ms)
		}
	}

	recs, err := s.history.List(filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []*protocol.CaptureRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetCapture(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "capture journal is disabled"})
		return
	}

	rec, err := s.history.Get(r.PathValue("id"))
	if errors.Is(err, journal.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "capture not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleTakeCapture runs one capture. The response is the capture record
// whether or not the capture succeeded; its status field tells them apart.
func (s *Server) handleTakeCapture(w http.ResponseWriter, r *http.Request) {
	out := s.taker.Take(r.Context(), protocol.TriggerAPI)
	writeJSON(w, http.StatusOK, out.Record())
}

func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	if s.logs == nil {
		writeJSON(w, http.StatusOK, []logbuf.Entry{})
		return
	}

	q := r.URL.Query()
	filter := logbuf.Filter{
		MinLevel:  logbuf.ParseLevel(q.Get("level"), slog.LevelDebug),
		Component: q.Get("component"),
		Limit:     defaultLogLimit,
	}
	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if since := q.Get("since"); since != "" {
		if ms, err := strconv.ParseInt(since, 10, 64); err == nil {
			filter.Since = time.UnixMilli(ms)
		}
	}

	entries := s.logs.Query(filter)
	if entries == nil {
		entries = []logbuf.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
