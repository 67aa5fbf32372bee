package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/moodshelf/moodshelf-server/internal/history"
	"github.com/moodshelf/moodshelf-server/internal/library"
	"github.com/moodshelf/moodshelf-server/internal/ratelimit"
	"github.com/moodshelf/moodshelf-server/internal/recs"
	"github.com/moodshelf/moodshelf-server/internal/service"
	"github.com/moodshelf/moodshelf-server/internal/store"
	"github.com/moodshelf/moodshelf-server/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires a server against real stores in temp directories.
// limiter is nil so rate limiting never interferes with test requests.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	log := slog.New(slog.DiscardHandler)

	badgerStore, err := store.Open(filepath.Join(t.TempDir(), "badger"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = badgerStore.Close() }) //nolint:errcheck // Test cleanup

	sqlStore, err := sqlite.Open(filepath.Join(t.TempDir(), "history.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlStore.Close() }) //nolint:errcheck // Test cleanup

	mirror := library.NewMirror(badgerStore, log)
	require.NoError(t, mirror.Warm(context.Background()))

	hist := history.NewService(sqlStore, mirror, log)
	require.NoError(t, hist.Load(context.Background()))

	cache := recs.NewResultCache(log)
	mirror.OnChange(cache.Invalidate)
	hist.OnChange(cache.Invalidate)

	sessions := service.NewSessionService(badgerStore, cache, log)

	opts := recs.DefaultOptions()
	opts.MinMatchPercent = 0
	recSvc := service.NewRecommendationService(sessions, recs.NewScorer(log), cache, mirror, hist, opts, log)

	return NewServer(sessions, recSvc, mirror, hist, nil, log)
}

// doJSON performs a request against the server with an optional JSON body.
func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the envelope's data field into T.
func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Data    T    `json:"data"`
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData[map[string]any](t, rec)
	assert.Equal(t, "healthy", data["status"])
}

func TestRateLimit_Exceeded(t *testing.T) {
	srv := newTestServer(t)
	limiter := ratelimit.New(1, 1)
	defer limiter.Stop()
	srv = NewServer(srv.sessions, srv.recommendations, srv.library, srv.history, limiter, srv.logger)

	first := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestUnknownRoute_404(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
