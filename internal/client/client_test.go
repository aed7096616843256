package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("ETYMON_SERVER_URL", "")
	t.Setenv("ETYMON_CLIENT_TIMEOUT", "")

	c := New("")
	assert.Equal(t, "http://localhost:8484", c.baseURL)
	assert.Equal(t, 2*time.Minute, c.httpClient.Timeout)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("ETYMON_SERVER_URL", "http://etymon.internal:9000/")
	t.Setenv("ETYMON_CLIENT_TIMEOUT", "15s")

	c := New("")
	assert.Equal(t, "http://etymon.internal:9000", c.baseURL)
	assert.Equal(t, 15*time.Second, c.httpClient.Timeout)

	c = New("http://explicit:1")
	assert.Equal(t, "http://explicit:1", c.baseURL)
}

func TestFetch(t *testing.T) {
	var gotWord, gotLang string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/etymology", r.URL.Path)
		gotWord = r.URL.Query().Get("word")
		gotLang = r.URL.Query().Get("language")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.EtymologyData{
			Word:     "ἔτυμον",
			Language: "Ancient Greek",
			Graph: models.Graph{
				Nodes: []models.GraphNode{{ID: "a", Label: "ἔτυμον", Kind: models.NodeRoot}},
			},
		})
	}))
	defer ts.Close()

	data, err := New(ts.URL).Fetch(context.Background(), "ἔτυμον", "Ancient Greek")
	require.NoError(t, err)
	assert.Equal(t, "ἔτυμον", gotWord)
	assert.Equal(t, "Ancient Greek", gotLang)
	assert.Equal(t, models.NodeRoot, data.Graph.Nodes[0].Kind)
}

func TestFetchServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"model returned an empty response"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL).Fetch(context.Background(), "etymon", "English")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
	assert.Contains(t, err.Error(), "model returned an empty response")
	assert.Contains(t, err.Error(), "502")
}

func TestFetchPlainTextError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := New(ts.URL).Fetch(context.Background(), "etymon", "English")
	assert.ErrorIs(t, err, ErrServer)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestFetchUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url).Fetch(context.Background(), "etymon", "English")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrServer)
}

func TestLanguagesSchemaStatsHealth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/languages", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{"English", "Latin"})
	})
	mux.HandleFunc("/api/schema", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"object"}`))
	})
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"uptime_seconds":12.5,"cache_entries":3,"fetch":{"count":4,"failures":1}}`))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := New(ts.URL)
	ctx := context.Background()

	langs, err := c.Languages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"English", "Latin"}, langs)

	raw, err := c.Schema(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object"}`, string(raw))

	snap, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.CacheEntries)
	require.NotNil(t, snap.Fetch)
	assert.Equal(t, int64(4), snap.Fetch.Count)
	assert.Nil(t, snap.LLMGenerate)

	assert.NoError(t, c.Health(ctx))
}
