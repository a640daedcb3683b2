package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	serpapi "github.com/kitbuilder587/serpapi-go"
	"github.com/kitbuilder587/serpapi-go/internal/config"
	"github.com/kitbuilder587/serpapi-go/mock"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SERPAPI_API_KEY", "SERPAPI_BASE_URL", "SERPAPI_TIMEOUT", "SERPAPI_RETRIES", "LOG_LEVEL", "LOG_FORMAT", "METRICS_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, m *mock.Client, args ...string) (string, error) {
	t.Helper()
	factory := func(*config.Config, *zap.Logger, serpapi.Recorder) serpapi.Searcher { return m }

	cmd, a := newRootCmd(factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := execute(cmd, a)
	return out.String(), err
}

var searchPayload = map[string]any{
	"search_metadata": map[string]any{"id": "64a1", "status": "Success"},
	"organic_results": []any{map[string]any{"title": "Coffee"}},
}

func TestSearchCmd(t *testing.T) {
	isolateEnv(t)
	m := mock.New().WithJSON(searchPayload)

	out, err := run(t, m, "search", "engine=google", "q=coffee")
	require.NoError(t, err)
	assert.JSONEq(t, `{"search_metadata":{"id":"64a1","status":"Success"},"organic_results":[{"title":"Coffee"}]}`, out)

	assert.Equal(t, "search", m.LastCall.Op)
	assert.Equal(t, serpapi.ModeJSON, m.LastCall.Mode)
	assert.Equal(t, serpapi.Params{"engine": "google", "q": "coffee"}, m.LastCall.Params)
}

func TestSearchCmd_ObjectPath(t *testing.T) {
	isolateEnv(t)
	m := mock.New().WithJSON(searchPayload)

	out, err := run(t, m, "search", "q=coffee", "--mode", "object", "--path", "search_metadata.id")
	require.NoError(t, err)
	assert.Equal(t, "64a1\n", out)

	_, err = run(t, m, "search", "q=coffee", "--mode", "object", "--path", "search_metadata.nope")
	assert.ErrorIs(t, err, errBadParam)
}

func TestSearchCmd_YAML(t *testing.T) {
	isolateEnv(t)
	m := mock.New().WithJSON(map[string]any{"search_metadata": map[string]any{"id": "64a1"}})

	out, err := run(t, m, "--format", "yaml", "search", "q=coffee")
	require.NoError(t, err)
	assert.Equal(t, "search_metadata:\n    id: 64a1\n", out)
}

func TestSearchCmd_BadInput(t *testing.T) {
	isolateEnv(t)
	m := mock.New()

	_, err := run(t, m, "search", "novalue")
	assert.ErrorIs(t, err, errBadParam)
	assert.Equal(t, ExitUsage, exitCode(err))

	_, err = run(t, m, "search", "q=coffee", "--mode", "xml")
	assert.ErrorIs(t, err, serpapi.ErrUsage)

	_, err = run(t, m, "--format", "xml", "search", "q=coffee")
	assert.ErrorIs(t, err, errBadParam)

	assert.Equal(t, 0, m.CallCount)
}

func TestHTMLCmd(t *testing.T) {
	isolateEnv(t)
	page := `<html><body><h3>First</h3><p>skip</p><h3> Second </h3></body></html>`
	m := mock.New().WithHTML(page)

	out, err := run(t, m, "html", "q=coffee")
	require.NoError(t, err)
	assert.Equal(t, page+"\n", out)

	out, err = run(t, m, "html", "q=coffee", "--select", "h3")
	require.NoError(t, err)
	assert.Equal(t, "First\nSecond\n", out)
}

func TestLocationCmd(t *testing.T) {
	isolateEnv(t)
	m := mock.New().WithLocations([]any{map[string]any{"name": "Austin"}})

	out, err := run(t, m, "location", "q=Austin", "limit=3")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Austin"}]`, out)
	assert.Equal(t, "3", m.LastCall.Params["limit"])
}

func TestArchiveCmd(t *testing.T) {
	isolateEnv(t)
	m := mock.New().WithHTML("<html>archived</html>")

	out, err := run(t, m, "archive", "123", "--mode", "html")
	require.NoError(t, err)
	assert.Equal(t, "<html>archived</html>\n", out)
	assert.Equal(t, "123", m.LastCall.SearchID)

	m.Reset()
	_, err = run(t, m, "archive", "123", "--mode", "xml")
	assert.ErrorIs(t, err, serpapi.ErrUsage)
	assert.Equal(t, 0, m.CallCount)
}

func TestAccountCmd(t *testing.T) {
	isolateEnv(t)
	m := mock.New().WithAccount(map[string]any{"plan_searches_left": 100.0})

	out, err := run(t, m, "account", "NEWKEY")
	require.NoError(t, err)
	assert.JSONEq(t, `{"plan_searches_left":100}`, out)
	assert.Equal(t, "NEWKEY", m.LastCall.APIKey)

	m.WithError(&serpapi.APIError{Status: 401, Message: "Invalid API key"})
	_, err = run(t, m, "account")
	require.Error(t, err)
	assert.Equal(t, ExitAPI, exitCode(err))
}

func TestRootCmd_RealClient(t *testing.T) {
	isolateEnv(t)

	var gotKey, gotSource string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotSource = r.URL.Query().Get("source")
		w.Write([]byte(`[{"name":"Austin"}]`))
	}))
	defer server.Close()

	t.Setenv("SERPAPI_BASE_URL", server.URL)
	metricsFile := filepath.Join(t.TempDir(), "serpapi.prom")

	cmd, a := newRootCmd(defaultFactory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--api-key", "flag-key", "--metrics-file", metricsFile, "location", "q=Austin"})
	require.NoError(t, execute(cmd, a))

	assert.JSONEq(t, `[{"name":"Austin"}]`, out.String())
	assert.Equal(t, "flag-key", gotKey)
	assert.Equal(t, "go", gotSource)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `serpapi_requests_total{endpoint="/locations.json",status="ok"} 1`))
}

func TestRootCmd_FailedCommandStillWritesMetrics(t *testing.T) {
	isolateEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid API key"}`))
	}))
	defer server.Close()

	t.Setenv("SERPAPI_BASE_URL", server.URL)
	metricsFile := filepath.Join(t.TempDir(), "serpapi.prom")

	cmd, a := newRootCmd(defaultFactory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--metrics-file", metricsFile, "account", "bad"})

	err := execute(cmd, a)
	require.Error(t, err)
	assert.Equal(t, ExitAPI, exitCode(err))
	assert.Contains(t, err.Error(), "Invalid API key")

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `serpapi_requests_total{endpoint="/account",status="api_error"} 1`)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitGeneral, exitCode(errors.New("boom")))
	assert.Equal(t, ExitUsage, exitCode(serpapi.ErrInvalidDecoder))
	assert.Equal(t, ExitAPI, exitCode(&serpapi.APIError{Status: 500, Message: "x"}))
}
