package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitSession_Success(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{
		"mood": "comfort",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeData[SessionResponse](t, rec)
	require.NotNil(t, data.Session)
	assert.Equal(t, "comfort", string(data.Session.Mood))
	assert.Equal(t, "any", string(data.Session.Pace))
	assert.Equal(t, "any", string(data.Session.Length))
	assert.NotEmpty(t, data.Session.ID)
}

func TestCommitSession_InvalidMood(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{
		"mood": "sleepy",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Success bool           `json:"success"`
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Details, "mood")
}

func TestCommitSession_MissingMood(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{
		"pace": "fast",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommitSession_ReplacesPrevious(t *testing.T) {
	srv := newTestServer(t)

	first := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{"mood": "comfort"})
	require.Equal(t, http.StatusCreated, first.Code)
	firstID := decodeData[SessionResponse](t, first).Session.ID

	second := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{"mood": "thrills"})
	require.Equal(t, http.StatusCreated, second.Code)

	current := doJSON(t, srv, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, current.Code)
	data := decodeData[SessionResponse](t, current)
	assert.Equal(t, "thrills", string(data.Session.Mood))
	assert.NotEqual(t, firstID, data.Session.ID)
}

func TestGetSession_NoneCommitted(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/session", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSession_FreshIsNotStale(t *testing.T) {
	srv := newTestServer(t)

	commit := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{"mood": "escape"})
	require.Equal(t, http.StatusCreated, commit.Code)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData[SessionResponse](t, rec)
	assert.False(t, data.Stale)
}

func TestTuneSession_ChangesField(t *testing.T) {
	srv := newTestServer(t)

	commit := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{"mood": "comfort"})
	require.Equal(t, http.StatusCreated, commit.Code)

	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/session", map[string]any{
		"pace": "fast",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData[SessionResponse](t, rec)
	assert.Equal(t, "comfort", string(data.Session.Mood))
	assert.Equal(t, "fast", string(data.Session.Pace))
}

func TestTuneSession_InvalidValue(t *testing.T) {
	srv := newTestServer(t)

	commit := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{"mood": "comfort"})
	require.Equal(t, http.StatusCreated, commit.Code)

	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/session", map[string]any{
		"pace": "frantic",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTuneSession_NoActiveSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/session", map[string]any{
		"pace": "fast",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearSession(t *testing.T) {
	srv := newTestServer(t)

	commit := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{"mood": "comfort"})
	require.Equal(t, http.StatusCreated, commit.Code)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/session", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	after := doJSON(t, srv, http.MethodGet, "/api/v1/session", nil)
	assert.Equal(t, http.StatusNotFound, after.Code)
}

func TestClearSession_EmptyIsIdempotent(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/session", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
