package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/moodshelf/moodshelf-server/internal/errors"
)

var testLogger = slog.New(slog.DiscardHandler)

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "hi"}, testLogger)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	envelope := decode(t, w)
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Data)
	assert.Empty(t, envelope.Error)
}

func TestJSON_ErrorStatusFlipsSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusNotFound, nil, testLogger)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	BadRequest(w, "bad payload", testLogger)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decode(t, w)
	assert.False(t, envelope.Success)
	assert.Equal(t, "bad payload", envelope.Error)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()

	err := domainerrors.ValidationWithDetails("validation failed", map[string]string{"mood": "is required"})
	HandleError(w, err, testLogger)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decode(t, w)
	assert.Equal(t, "validation failed", envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Code)
	assert.NotNil(t, envelope.Details)
}

func TestHandleError_ExpiredMapsToGone(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, domainerrors.Expired("mood session expired"), testLogger)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestHandleError_UnknownErrorIs500(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, assert.AnError, testLogger)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w).Error)
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, "ok", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
