package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceLibrary(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/library", map[string]any{
		"items": []map[string]any{
			{"id": "bk_1", "media_type": "book", "title": "One"},
			{"id": "bk_2", "media_type": "book", "title": "Two"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData[LibraryResponse](t, rec)
	assert.Equal(t, 2, data.Count)
}

func TestReplaceLibrary_EmptySnapshotEmptiesMirror(t *testing.T) {
	srv := newTestServer(t)
	seedLibrary(t, srv)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/library", map[string]any{
		"items": []map[string]any{},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeData[LibraryResponse](t, rec).Count)
}

func TestReplaceLibrary_RejectsMissingID(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/library", map[string]any{
		"items": []map[string]any{
			{"media_type": "book", "title": "No ID"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertLibrary_AddsAndUpdates(t *testing.T) {
	srv := newTestServer(t)
	seedLibrary(t, srv)

	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/library", map[string]any{
		"items": []map[string]any{
			{"id": "bk_new", "media_type": "book", "title": "Brand New"},
			{"id": "bk_cozy", "media_type": "book", "title": "Tea and Sympathy, 2nd ed."},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeData[LibraryResponse](t, rec).Count)
}

func TestRemoveLibraryItem(t *testing.T) {
	srv := newTestServer(t)
	seedLibrary(t, srv)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/library/bk_cozy", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	after := doJSON(t, srv, http.MethodGet, "/api/v1/library", nil)
	require.Equal(t, http.StatusOK, after.Code)
	assert.Equal(t, 1, decodeData[LibraryResponse](t, after).Count)
}

func TestRemoveLibraryItem_UnknownIDIsNoOp(t *testing.T) {
	srv := newTestServer(t)
	seedLibrary(t, srv)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/library/bk_ghost", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetLibrary_ReportsVersion(t *testing.T) {
	srv := newTestServer(t)

	before := doJSON(t, srv, http.MethodGet, "/api/v1/library", nil)
	require.Equal(t, http.StatusOK, before.Code)
	beforeVersion := decodeData[LibraryResponse](t, before).Version

	seedLibrary(t, srv)

	after := doJSON(t, srv, http.MethodGet, "/api/v1/library", nil)
	require.Equal(t, http.StatusOK, after.Code)
	assert.Greater(t, decodeData[LibraryResponse](t, after).Version, beforeVersion)
}
