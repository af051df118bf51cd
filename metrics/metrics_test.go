package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCollectorExposesCounters(t *testing.T) {
	c := NewCollector()
	c.ConnectionOpened()
	c.CommandProcessed("GET")
	c.BytesRead(10)
	c.BytesWritten(7)
	c.EvictionSweep(3)
	c.ClientEpoch(42)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"rdiskv_connections_opened_total 1",
		`rdiskv_commands_processed_total{command="GET"} 1`,
		"rdiskv_bytes_read_total 10",
		"rdiskv_bytes_written_total 7",
		"rdiskv_eviction_sweeps_total 1",
		"rdiskv_evicted_keys_total 3",
		"rdiskv_client_epoch 42",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q, got:\n%s", want, body)
		}
	}
}

func TestConnectionOpenedAndClosedTrackActiveGauge(t *testing.T) {
	c := NewCollector()
	c.ConnectionOpened()
	c.ConnectionOpened()
	c.ConnectionClosed()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "rdiskv_connections_active 1") {
		t.Fatalf("expected active gauge = 1, got:\n%s", rec.Body.String())
	}
}
