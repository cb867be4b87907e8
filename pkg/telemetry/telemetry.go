package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stationboard/pkg/board"
)

// Metrics records refresh cycles. It satisfies board.Observer.
type Metrics struct {
	CyclesTotal     *prometheus.CounterVec
	CycleSeconds    prometheus.Histogram
	DeparturesShown prometheus.Gauge
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	metrics := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stationboard_refresh_cycles_total",
				Help: "Refresh cycles by outcome (ok, empty, error)",
			},
			[]string{"outcome"},
		),
		CycleSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stationboard_refresh_duration_seconds",
				Help:    "Time taken by one departure board query",
				Buckets: prometheus.DefBuckets,
			},
		),
		DeparturesShown: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "stationboard_departures_displayed",
				Help: "Rows on the board after the last cycle",
			},
		),
	}

	registry.MustRegister(
		metrics.CyclesTotal,
		metrics.CycleSeconds,
		metrics.DeparturesShown,
	)

	return metrics
}

func (m *Metrics) ObserveCycle(outcome board.Outcome, took time.Duration, rows int) {
	m.CyclesTotal.WithLabelValues(string(outcome)).Inc()
	m.CycleSeconds.Observe(took.Seconds())
	m.DeparturesShown.Set(float64(rows))
}

// Server exposes /metrics on its own registry.
type Server struct {
	addr     string
	registry *prometheus.Registry
	mux      *http.ServeMux

	server   *http.Server
	listener net.Listener
}

func NewServer(addr string) *Server {
	s := &Server{
		addr:     addr,
		registry: prometheus.NewRegistry(),
		mux:      http.NewServeMux(),
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return s
}

func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Start listens on addr and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("telemetry listen on %s: %w", s.addr, err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("telemetry: server stopped: %v", err)
		}
	}()

	return nil
}

// Addr is the bound address, useful when addr was ":0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
