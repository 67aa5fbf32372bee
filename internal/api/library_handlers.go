package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/http/response"
)

// LibraryRequest carries a batch of mirrored library items.
type LibraryRequest struct {
	Items []*domain.LibraryItem `json:"items"`
}

// LibraryResponse reports the mirror state after a mutation.
type LibraryResponse struct {
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

// handleGetLibrary returns the current mirror size and version.
func (s *Server) handleGetLibrary(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, LibraryResponse{
		Count:   s.library.Count(),
		Version: s.library.Version(),
	}, s.logger)
}

// handleReplaceLibrary replaces the entire mirror with the submitted
// snapshot. An empty snapshot empties the mirror.
func (s *Server) handleReplaceLibrary(w http.ResponseWriter, r *http.Request) {
	var req LibraryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if !validItems(req.Items) {
		response.BadRequest(w, "Every library item requires an id", s.logger)
		return
	}

	if err := s.library.ReplaceAll(r.Context(), req.Items); err != nil {
		s.logger.Error("Failed to replace library mirror", "error", err)
		response.InternalError(w, "Failed to replace library", s.logger)
		return
	}

	response.Success(w, LibraryResponse{
		Count:   s.library.Count(),
		Version: s.library.Version(),
	}, s.logger)
}

// handleUpsertLibrary inserts or updates a batch of mirrored items.
func (s *Server) handleUpsertLibrary(w http.ResponseWriter, r *http.Request) {
	var req LibraryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if !validItems(req.Items) {
		response.BadRequest(w, "Every library item requires an id", s.logger)
		return
	}

	if err := s.library.Upsert(r.Context(), req.Items); err != nil {
		s.logger.Error("Failed to upsert library items", "error", err, "count", len(req.Items))
		response.InternalError(w, "Failed to update library", s.logger)
		return
	}

	response.Success(w, LibraryResponse{
		Count:   s.library.Count(),
		Version: s.library.Version(),
	}, s.logger)
}

// handleRemoveLibraryItem removes one item from the mirror. Removing an
// unknown id is a no-op.
func (s *Server) handleRemoveLibraryItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	if err := s.library.Remove(r.Context(), id); err != nil {
		s.logger.Error("Failed to remove library item", "error", err, "id", id)
		response.InternalError(w, "Failed to remove library item", s.logger)
		return
	}

	response.NoContent(w)
}

// validItems reports whether every submitted item carries an id.
func validItems(items []*domain.LibraryItem) bool {
	for _, item := range items {
		if item == nil || item.ID == "" {
			return false
		}
	}
	return true
}
