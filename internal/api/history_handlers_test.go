package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertProgress(t *testing.T) {
	srv := newTestServer(t)
	seedLibrary(t, srv)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/history/progress", map[string]any{
		"entries": []map[string]any{
			{"book_id": "bk_cozy", "progress": 1.0, "finished": true},
			{"book_id": "bk_thriller", "progress": 0.4},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeData[ProgressResponse](t, rec).Applied)
}

func TestUpsertProgress_EmptyBatchRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/history/progress", map[string]any{
		"entries": []map[string]any{},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertProgress_ProgressOutOfRange(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/history/progress", map[string]any{
		"entries": []map[string]any{
			{"book_id": "bk_cozy", "progress": 1.5},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertProgress_MissingBookID(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/history/progress", map[string]any{
		"entries": []map[string]any{
			{"progress": 0.5},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProgress(t *testing.T) {
	srv := newTestServer(t)
	seedLibrary(t, srv)

	put := doJSON(t, srv, http.MethodPut, "/api/v1/history/progress", map[string]any{
		"entries": []map[string]any{
			{"book_id": "bk_cozy", "progress": 0.8},
		},
	})
	require.Equal(t, http.StatusOK, put.Code)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/history/progress/bk_cozy", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFinishedBookExcludedFromRecommendations(t *testing.T) {
	srv := newTestServer(t)
	seedLibrary(t, srv)

	finish := doJSON(t, srv, http.MethodPut, "/api/v1/history/progress", map[string]any{
		"entries": []map[string]any{
			{"book_id": "bk_cozy", "progress": 1.0, "finished": true},
		},
	})
	require.Equal(t, http.StatusOK, finish.Code)

	commit := doJSON(t, srv, http.MethodPut, "/api/v1/session", map[string]any{"mood": "comfort"})
	require.Equal(t, http.StatusCreated, commit.Code)

	doJSON(t, srv, http.MethodGet, "/api/v1/recommendations", nil)
	waited := doJSON(t, srv, http.MethodGet, "/api/v1/recommendations?wait=true", nil)
	require.Equal(t, http.StatusOK, waited.Code)

	data := decodeData[RecommendationsResponse](t, waited)
	require.NotNil(t, data.Result)
	for _, scored := range data.Result.Scored {
		assert.NotEqual(t, "bk_cozy", scored.Item.ID)
	}
}
