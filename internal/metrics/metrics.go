package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/slotfinder/internal/application/usecases"
	"github.com/example/slotfinder/internal/domain/appointment"
)

type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal     *prometheus.CounterVec   // outcome=succeeded|not_found|skipped|failed
	AttemptsTotal prometheus.Counter
	QueriesTotal  *prometheus.CounterVec   // mode=region_code|district, result=booked|no_match|error
	QueryDuration *prometheus.HistogramVec // mode
	PacingDelay   prometheus.Gauge
}

// New registers every collector on a fresh registry, so tests and repeated
// runs in one process never collide on the default one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finder_runs_total",
			Help: "Finished search runs by outcome",
		}, []string{"outcome"}),
		AttemptsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "finder_attempts_total",
			Help: "Search attempts started",
		}),
		QueriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finder_queries_total",
			Help: "Provider queries by search mode and result",
		}, []string{"mode", "result"}),
		QueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finder_query_duration_seconds",
			Help:    "Latency of one provider query, booking included",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
		}, []string{"mode"}),
		PacingDelay: f.NewGauge(prometheus.GaugeOpts{
			Name: "finder_pacing_delay_seconds",
			Help: "Delay between attempts for the current plan",
		}),
	}
}

func (m *Metrics) Planned(p usecases.Plan) {
	m.PacingDelay.Set(p.Delay.Seconds())
}

func (m *Metrics) AttemptStarted(int, int) {
	m.AttemptsTotal.Inc()
}

func (m *Metrics) Finished(r usecases.Result) {
	if r.Outcome == "" {
		return
	}
	m.RunsTotal.WithLabelValues(string(r.Outcome)).Inc()
}

// InstrumentQuerier counts and times every query made through next.
func (m *Metrics) InstrumentQuerier(next appointment.SlotQuerier) appointment.SlotQuerier {
	return &instrumented{next: next, m: m}
}

type instrumented struct {
	next appointment.SlotQuerier
	m    *Metrics
}

func (q *instrumented) QueryByRegionCode(ctx context.Context, run *appointment.RunState, code string, query appointment.Query) error {
	return q.observe(appointment.ModeRegionCode, run, func() error {
		return q.next.QueryByRegionCode(ctx, run, code, query)
	})
}

func (q *instrumented) QueryByDistrict(ctx context.Context, run *appointment.RunState, district string, query appointment.Query) error {
	return q.observe(appointment.ModeDistrict, run, func() error {
		return q.next.QueryByDistrict(ctx, run, district, query)
	})
}

func (q *instrumented) observe(mode appointment.Mode, run *appointment.RunState, call func() error) error {
	start := time.Now()
	err := call()
	q.m.QueryDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())

	result := "no_match"
	switch {
	case err != nil:
		result = "error"
	case run.Succeeded():
		result = "booked"
	}
	q.m.QueriesTotal.WithLabelValues(string(mode), result).Inc()
	return err
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("metrics: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
