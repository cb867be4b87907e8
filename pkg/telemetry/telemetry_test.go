package telemetry

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"stationboard/pkg/board"
)

func TestMetrics_ObserveCycle(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.ObserveCycle(board.OutcomeOK, 120*time.Millisecond, 4)
	metrics.ObserveCycle(board.OutcomeError, 30*time.Second, 0)
	metrics.ObserveCycle(board.OutcomeOK, 80*time.Millisecond, 2)

	if got := testutil.ToFloat64(metrics.CyclesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("expected 2 ok cycles, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.CyclesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 error cycle, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.DeparturesShown); got != 2 {
		t.Errorf("expected gauge to hold the last row count 2, got %v", got)
	}
}

func TestServer_ServesMetrics(t *testing.T) {
	server := NewServer("127.0.0.1:0")
	metrics := NewMetrics(server.Registry())
	metrics.ObserveCycle(board.OutcomeEmpty, time.Millisecond, 0)

	if err := server.Start(); err != nil {
		t.Fatalf("failed to start telemetry server: %v", err)
	}
	defer server.Shutdown(context.Background())

	resp, err := http.Get("http://" + server.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("failed to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `stationboard_refresh_cycles_total{outcome="empty"} 1`) {
		t.Errorf("expected empty cycle counter in scrape output, got:\n%s", body)
	}
}
