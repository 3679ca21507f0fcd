// Package daemon provides the long-running scheduled report service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/theirongolddev/adburn/internal/store"
)

// ErrBusy is returned when a run is requested while another is executing.
var ErrBusy = errors.New("daemon: a run is already in progress")

// RunFunc executes one full pipeline pass and returns its ledger entry.
type RunFunc func(ctx context.Context, trigger string) (store.Run, error)

// Config controls the daemon runtime behavior.
type Config struct {
	OutputDir    string
	Schedule     Daily
	Addr         string
	EventsBuffer int
	RunAtStart   bool
}

// Event is emitted when a run starts or finishes.
type Event struct {
	ID        int64      `json:"id"`
	Type      string     `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	Trigger   string     `json:"trigger"`
	Run       *store.Run `json:"run,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Event types.
const (
	EventRunStarted  = "run_started"
	EventRunFinished = "run_finished"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time  `json:"started_at"`
	Schedule        string     `json:"schedule"`
	NextRunAt       time.Time  `json:"next_run_at"`
	Running         bool       `json:"running"`
	RunCount        int64      `json:"run_count"`
	OutputDir       string     `json:"output_dir"`
	LastRun         *store.Run `json:"last_run,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	EventCount      int        `json:"event_count"`
	SubscriberCount int        `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	run     RunFunc
	history *store.History
	metrics *Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu          sync.RWMutex
	baseCtx     context.Context
	startedAt   time.Time
	nextRunAt   time.Time
	running     bool
	runCount    int64
	lastRun     *store.Run
	lastError   string
	nextEventID int64
	events      []Event
	wg          sync.WaitGroup

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service. history may be nil, in which case runs
// are not recorded and /v1/runs serves the in-memory events only.
func New(cfg Config, run RunFunc, history *store.History, logger *zap.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		run:       run,
		history:   history,
		metrics:   NewMetrics("adburn"),
		logger:    logger,
		now:       time.Now,
		baseCtx:   context.Background(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.metrics.Handler().ServeHTTP)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/runs", s.handleRuns)
		r.Post("/run", s.handleRun)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})
	return r
}

// Run starts HTTP endpoints and the daily schedule until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("daemon started",
		zap.String("addr", s.cfg.Addr),
		zap.String("schedule", s.cfg.Schedule.String()),
		zap.String("output_dir", s.cfg.OutputDir),
	)

	if s.cfg.RunAtStart {
		_ = s.RunOnce(ctx, store.TriggerSchedule)
	}

	for {
		next := s.cfg.Schedule.Next(s.now())
		s.mu.Lock()
		s.nextRunAt = next
		s.mu.Unlock()
		s.logger.Info("next run scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := server.Shutdown(shutdownCtx)
			s.wg.Wait()
			return err
		case <-timer.C:
			if err := s.RunOnce(ctx, store.TriggerSchedule); errors.Is(err, ErrBusy) {
				s.logger.Warn("scheduled run skipped: run in progress")
			}
		case err := <-errCh:
			timer.Stop()
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// RunOnce executes a run synchronously. It returns ErrBusy if a run is
// already executing.
func (s *Service) RunOnce(ctx context.Context, trigger string) error {
	if !s.begin() {
		return ErrBusy
	}
	defer s.end()
	return s.execute(ctx, trigger)
}

func (s *Service) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.metrics.InProgress.Set(1)
	return true
}

func (s *Service) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.metrics.InProgress.Set(0)
}

func (s *Service) execute(ctx context.Context, trigger string) error {
	s.publishEvent(Event{Type: EventRunStarted, Timestamp: s.now(), Trigger: trigger})

	r, err := s.run(ctx, trigger)
	finished := s.now()

	ev := Event{Type: EventRunFinished, Timestamp: finished, Trigger: trigger}
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.runCount++
		s.mu.Unlock()
		s.metrics.Runs.WithLabelValues(trigger, "error").Inc()
		s.logger.Error("run failed", zap.String("trigger", trigger), zap.Error(err))
		ev.Error = err.Error()
		s.publishEvent(ev)
		return err
	}

	if s.history != nil {
		if err := s.history.SaveRun(r); err != nil {
			s.logger.Warn("recording run failed", zap.Error(err))
		}
	}
	s.metrics.RecordRun(r, finished)

	s.mu.Lock()
	s.lastRun = &r
	s.lastError = ""
	s.runCount++
	s.mu.Unlock()

	s.logger.Info("run finished",
		zap.String("trigger", trigger),
		zap.String("run_id", r.ID),
		zap.Int("succeeded", r.Succeeded),
		zap.Int("total", r.Total),
		zap.Duration("duration", r.Duration),
	)
	ev.Run = &r
	s.publishEvent(ev)
	return nil
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Schedule:        s.cfg.Schedule.String(),
		NextRunAt:       s.nextRunAt,
		Running:         s.running,
		RunCount:        s.runCount,
		OutputDir:       s.cfg.OutputDir,
		LastRun:         s.lastRun,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []store.Run{})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := s.history.ListRuns(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleRun starts a run in the background.
func (s *Service) handleRun(w http.ResponseWriter, _ *http.Request) {
	if !s.begin() {
		http.Error(w, ErrBusy.Error(), http.StatusConflict)
		return
	}

	s.mu.RLock()
	ctx := s.baseCtx
	s.mu.RUnlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.end()
		_ = s.execute(ctx, store.TriggerHTTP)
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.mu.RLock()
	base := s.baseCtx
	s.mu.RUnlock()

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	st := s.snapshotStatus()
	writeSSE(w, Event{Type: "status", Timestamp: s.now(), Run: st.LastRun, Error: st.LastError})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-base.Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

// WaitIdle blocks until background runs started over HTTP have finished.
func (s *Service) WaitIdle() {
	s.wg.Wait()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// logRequests logs each request with its status and latency.
func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		}
		if ww.Status() >= 500 {
			s.logger.Error("http request", fields...)
			return
		}
		s.logger.Debug("http request", fields...)
	})
}
