package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitbuilder587/serpapi-go/transport"
)

var _ transport.Recorder = (*Metrics)(nil)

func TestMetrics_RecordRequest(t *testing.T) {
	m := New()

	m.RecordRequest("/search", "ok", 200*time.Millisecond)
	m.RecordRequest("/search", "ok", 300*time.Millisecond)
	m.RecordRequest("/account", "api_error", 50*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/search", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/account", "api_error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestMetrics_InFlight(t *testing.T) {
	m := New()

	m.IncRequestsInFlight()
	m.IncRequestsInFlight()
	m.DecRequestsInFlight()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsInFlight))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.RecordRequest("/search", "ok", time.Millisecond)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.RequestsTotal.WithLabelValues("/search", "ok")))
}

func TestMetrics_WriteFile(t *testing.T) {
	m := New()
	m.RecordRequest("/search", "error", time.Second)
	m.RecordRequest("/locations.json", "ok", time.Millisecond)

	path := filepath.Join(t.TempDir(), "serpapi.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "serpapi_request_duration_seconds"))
	assert.Contains(t, string(data), `serpapi_requests_total{endpoint="/locations.json",status="ok"} 1`)
}
