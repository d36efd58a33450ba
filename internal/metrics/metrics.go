// Package metrics exposes Prometheus counters for exports and edits.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/j-veylop/production-report-tui/internal/logger"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultNoop    = "noop"
)

// Metrics holds the collectors of one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	exportsTotal   *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	pagesRendered  prometheus.Counter
	editCommits    *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		exportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Total report exports by format and result.",
		}, []string{"format", "result"}),
		exportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "export_duration_seconds",
			Help:    "Histogram of report export durations by format.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		pagesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pages_rendered_total",
			Help: "Total document pages rendered.",
		}),
		editCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edit_commits_total",
			Help: "Total edit commits by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.exportsTotal,
		m.exportDuration,
		m.pagesRendered,
		m.editCommits,
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ExportFinished records one export attempt.
func (m *Metrics) ExportFinished(format string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.exportsTotal.WithLabelValues(format, result).Inc()
	m.exportDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// PageRendered counts one document page.
func (m *Metrics) PageRendered() {
	if m == nil {
		return
	}
	m.pagesRendered.Inc()
}

// EditCommitted records one edit commit; result is one of the Result
// constants.
func (m *Metrics) EditCommitted(result string) {
	if m == nil {
		return
	}
	m.editCommits.WithLabelValues(result).Inc()
}

// Totals sums every counter family by name. Histograms are skipped.
func (m *Metrics) Totals() (map[string]float64, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				out[mf.GetName()] += c.GetValue()
			}
		}
	}
	return out, nil
}

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down metrics server", "error", err)
		}
	}()

	logger.Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
