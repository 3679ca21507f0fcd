package daemon

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theirongolddev/adburn/internal/store"
)

// Metrics holds the Prometheus collectors of one daemon.
type Metrics struct {
	registry *prometheus.Registry

	Runs          *prometheus.CounterVec
	ReportResults *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	LastRun       prometheus.Gauge
	LastSpend     prometheus.Gauge
	InProgress    prometheus.Gauge
}

// NewMetrics creates and registers the daemon metrics on a private registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Pipeline runs by trigger and result",
			},
			[]string{"trigger", "result"},
		),
		ReportResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_results_total",
				Help:      "Report outcomes by report and status",
			},
			[]string{"report", "status"},
		),
		RunDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of pipeline runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		LastRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		LastSpend: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_spend",
			Help:      "Total campaign spend reported by the last run",
		}),
		InProgress: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_in_progress",
			Help:      "1 while a run is executing",
		}),
	}
}

// RecordRun updates the collectors from a finished run.
func (m *Metrics) RecordRun(r store.Run, finished time.Time) {
	result := "ok"
	switch {
	case r.Total > 0 && r.Succeeded == 0:
		result = "failed"
	case r.Succeeded < r.Total:
		result = "partial"
	}
	m.Runs.WithLabelValues(r.Trigger, result).Inc()
	for _, rep := range r.Reports {
		m.ReportResults.WithLabelValues(rep.Name, rep.Status).Inc()
	}
	m.RunDuration.Observe(r.Duration.Seconds())
	m.LastRun.Set(float64(finished.Unix()))
	if r.Spend > 0 {
		m.LastSpend.Set(r.Spend)
	}
}

// Handler returns the /metrics handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
