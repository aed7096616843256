package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/raphaelgruber/etymon/internal/llm"
	"github.com/raphaelgruber/etymon/internal/metrics"
	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/raphaelgruber/etymon/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu    sync.Mutex
	data  *models.EtymologyData
	err   error
	calls []models.Query
}

func (f *stubFetcher) Fetch(_ context.Context, word, language string) (*models.EtymologyData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, models.Query{Word: word, Language: language})
	return f.data, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, f *stubFetcher, opts server.Options) *httptest.Server {
	t.Helper()
	opts.Logger = testLogger()
	ts := httptest.NewServer(server.New(f, opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestEtymologyOK(t *testing.T) {
	f := &stubFetcher{data: &models.EtymologyData{Word: "etymon", Language: "English", Summary: "true sense"}}
	ts := newTestServer(t, f, server.Options{})

	resp, body := get(t, ts.URL+"/api/etymology?word=%20etymon%20&language=English")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var data models.EtymologyData
	require.NoError(t, json.Unmarshal(body, &data))
	assert.Equal(t, "true sense", data.Summary)
	require.Len(t, f.calls, 1)
	assert.Equal(t, models.Query{Word: "etymon", Language: "English"}, f.calls[0])
}

func TestEtymologyDefaultsLanguage(t *testing.T) {
	f := &stubFetcher{data: &models.EtymologyData{}}
	ts := newTestServer(t, f, server.Options{DefaultLanguage: "Latin"})

	resp, _ := get(t, ts.URL+"/api/etymology?word=verbum")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Latin", f.calls[0].Language)
}

func TestEtymologyEmptyWord(t *testing.T) {
	f := &stubFetcher{data: &models.EtymologyData{}}
	ts := newTestServer(t, f, server.Options{})

	for _, q := range []string{"", "?word=", "?word=%20%20&language=English"} {
		resp, body := get(t, ts.URL+"/api/etymology"+q)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)

		var e server.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &e))
		assert.Contains(t, e.Error, "word")
	}
	assert.Empty(t, f.calls)
}

func TestEtymologyFetchFailure(t *testing.T) {
	f := &stubFetcher{err: llm.ErrMalformedJSON}
	ts := newTestServer(t, f, server.Options{})

	resp, body := get(t, ts.URL+"/api/etymology?word=etymon&language=English")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var e server.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Contains(t, e.Error, llm.ErrMalformedJSON.Error())
}

func TestSchemaAndLanguages(t *testing.T) {
	ts := newTestServer(t, &stubFetcher{}, server.Options{})

	resp, body := get(t, ts.URL+"/api/schema")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "object", doc["type"])

	resp, body = get(t, ts.URL+"/api/languages")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var langs []string
	require.NoError(t, json.Unmarshal(body, &langs))
	assert.Equal(t, models.Languages, langs)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubFetcher{}, server.Options{})
	resp, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestMetricsAndStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	mc := metrics.NewCollector()
	require.NoError(t, reg.Register(metrics.NewExporter("etymon", mc)))

	f := &stubFetcher{data: &models.EtymologyData{}}
	ts := newTestServer(t, f, server.Options{Registry: reg, Stats: mc})

	get(t, ts.URL+"/api/etymology?word=etymon")

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `etymon_http_requests_total{method="GET",route="/api/etymology",status="200"} 1`)
	assert.Contains(t, string(body), "etymon_uptime_seconds")

	resp, body = get(t, ts.URL+"/api/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "uptime_seconds")
}

func TestMetricsDisabledWithoutRegistry(t *testing.T) {
	ts := newTestServer(t, &stubFetcher{}, server.Options{})
	resp, _ := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, ts.URL+"/api/stats")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, &stubFetcher{}, server.Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/etymology", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := server.LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") != "" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/etymology?word="+strings.Repeat("a", 300), nil))
	line := buf.String()
	assert.Contains(t, line, `"msg":"request completed"`)
	assert.Contains(t, line, `"status":200`)
	assert.Contains(t, line, "...")

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/etymology?fail=1", nil))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"status":502`)
}

func TestFetchErrorIsWrapped(t *testing.T) {
	wrapped := errors.Join(llm.ErrRequestFailed, errors.New("dial tcp: refused"))
	f := &stubFetcher{err: wrapped}
	ts := newTestServer(t, f, server.Options{})

	resp, _ := get(t, ts.URL+"/api/etymology?word=x")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
