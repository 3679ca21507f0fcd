package daemon

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/adburn/internal/pipeline"
	"github.com/theirongolddev/adburn/internal/store"
)

func fakeRun(calls *atomic.Int32, block chan struct{}) RunFunc {
	return func(_ context.Context, trigger string) (store.Run, error) {
		calls.Add(1)
		if block != nil {
			<-block
		}
		sum := pipeline.RunSummary{
			Started:  time.Now(),
			Duration: time.Second,
			Results: []pipeline.StepResult{
				{Name: "campaigns", Rows: 3},
				{Name: "hourly", Skipped: true},
			},
		}
		r := store.NewRun(sum, trigger, "reports", false)
		r.Spend = 1234.5
		return r, nil
	}
}

func TestDailyNext(t *testing.T) {
	d := Daily{Hour: 8, Minute: 0, Location: time.UTC}

	before := time.Date(2025, 3, 10, 7, 59, 0, 0, time.UTC)
	if got := d.Next(before); !got.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("Next(%v) = %v, want same day 08:00", before, got)
	}

	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	if got := d.Next(at); !got.Equal(time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("Next(%v) = %v, want next day 08:00", at, got)
	}

	endOfMonth := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)
	if got := d.Next(endOfMonth); !got.Equal(time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("Next(%v) = %v, want April 1st", endOfMonth, got)
	}
}

func TestParseDaily(t *testing.T) {
	d, err := ParseDaily("06:30", time.UTC)
	if err != nil {
		t.Fatalf("ParseDaily: %v", err)
	}
	if d.Hour != 6 || d.Minute != 30 || d.String() != "06:30" {
		t.Fatalf("ParseDaily = %+v", d)
	}
	if _, err := ParseDaily("6pm", nil); err == nil {
		t.Fatal("expected error for 6pm")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, nil, nil, nil)

	s.publishEvent(Event{Type: EventRunStarted})
	s.publishEvent(Event{Type: EventRunFinished})
	s.publishEvent(Event{Type: EventRunStarted})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestRunOnceRecordsHistory(t *testing.T) {
	h, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = h.Close() }()

	var calls atomic.Int32
	s := New(Config{}, fakeRun(&calls, nil), h, nil)
	if err := s.RunOnce(context.Background(), store.TriggerCLI); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	n, err := h.RunCount()
	if err != nil || n != 1 {
		t.Fatalf("RunCount = %d, %v; want 1", n, err)
	}
	st := s.snapshotStatus()
	if st.LastRun == nil || st.LastRun.Succeeded != 1 || st.RunCount != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.EventCount != 2 {
		t.Fatalf("EventCount = %d, want 2", st.EventCount)
	}
}

func TestNoConcurrentRuns(t *testing.T) {
	var calls atomic.Int32
	block := make(chan struct{})
	s := New(Config{}, fakeRun(&calls, block), nil, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/run", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /v1/run: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("first run status = %d, want 202", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/v1/run", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /v1/run: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second run status = %d, want 409", resp.StatusCode)
	}
	if err := s.RunOnce(context.Background(), store.TriggerSchedule); err != ErrBusy {
		t.Fatalf("RunOnce during run = %v, want ErrBusy", err)
	}

	close(block)
	s.WaitIdle()
	if calls.Load() != 1 {
		t.Fatalf("run executed %d times, want 1", calls.Load())
	}
	if s.snapshotStatus().Running {
		t.Fatal("still running after WaitIdle")
	}
}

func TestStatusRunsAndMetricsEndpoints(t *testing.T) {
	h, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = h.Close() }()

	var calls atomic.Int32
	s := New(Config{OutputDir: "reports", Schedule: Daily{Hour: 8}}, fakeRun(&calls, nil), h, nil)
	if err := s.RunOnce(context.Background(), store.TriggerSchedule); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	var st Status
	getJSON(t, srv.URL+"/v1/status", &st)
	if st.Schedule != "08:00" || st.LastRun == nil || st.OutputDir != "reports" {
		t.Fatalf("unexpected status: %+v", st)
	}

	var runs []store.Run
	getJSON(t, srv.URL+"/v1/runs?limit=5", &runs)
	if len(runs) != 1 || len(runs[0].Reports) != 2 {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	resp, err := http.Get(srv.URL + "/v1/runs?limit=zero")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d, want 400", resp.StatusCode)
	}

	body := getBody(t, srv.URL+"/metrics")
	for _, want := range []string{
		`adburn_runs_total{result="partial",trigger="schedule"} 1`,
		`adburn_report_results_total{report="hourly",status="skipped"} 1`,
		`adburn_last_run_spend 1234.5`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}

	if got := getBody(t, srv.URL+"/healthz"); got != "ok\n" {
		t.Errorf("healthz = %q", got)
	}
}

func getBody(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test server URL
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s: %v", url, err)
	}
	return string(b)
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(getBody(t, url)), v); err != nil {
		t.Fatalf("decoding %s: %v", url, err)
	}
}

func TestHandlerRunWithoutServeLoop(t *testing.T) {
	var gotCtx atomic.Bool
	run := func(ctx context.Context, trigger string) (store.Run, error) {
		gotCtx.Store(ctx != nil && ctx.Err() == nil)
		return store.NewRun(pipeline.RunSummary{Started: time.Now()}, trigger, "reports", false), nil
	}
	s := New(Config{}, run, nil, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/run", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /v1/run: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	s.WaitIdle()
	if !gotCtx.Load() {
		t.Fatal("run received a nil or cancelled context")
	}
}

func TestStreamClosesOnShutdown(t *testing.T) {
	var calls atomic.Int32
	s := New(Config{}, fakeRun(&calls, nil), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	s.baseCtx = ctx
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/stream")
	if err != nil {
		t.Fatalf("GET /v1/stream: %v", err)
	}
	defer resp.Body.Close()

	done := make(chan error, 1)
	go func() {
		_, err := io.ReadAll(resp.Body)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("reading stream: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream still open after the service context was cancelled")
	}
}
