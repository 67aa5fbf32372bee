package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/http/response"
)

// ProgressEntry is one reading-progress row as submitted by the client.
type ProgressEntry struct {
	BookID       string     `json:"book_id" validate:"required"`
	Progress     float64    `json:"progress" validate:"gte=0,lte=1"`
	Finished     bool       `json:"finished"`
	FinishedAt   *time.Time `json:"finished_at"`
	LastPlayedAt time.Time  `json:"last_played_at"`
}

// ProgressRequest carries a batch of reading-progress rows.
type ProgressRequest struct {
	Entries []ProgressEntry `json:"entries" validate:"required,min=1,dive"`
}

// ProgressResponse acknowledges how many rows were applied.
type ProgressResponse struct {
	Applied int `json:"applied"`
}

// handleUpsertProgress records a batch of reading-progress rows and
// rebuilds the preference profile.
func (s *Server) handleUpsertProgress(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	now := time.Now()
	rows := make([]*domain.ReadingProgress, 0, len(req.Entries))
	for _, e := range req.Entries {
		lastPlayed := e.LastPlayedAt
		if lastPlayed.IsZero() {
			lastPlayed = now
		}
		rows = append(rows, &domain.ReadingProgress{
			BookID:       e.BookID,
			Progress:     e.Progress,
			Finished:     e.Finished,
			FinishedAt:   e.FinishedAt,
			LastPlayedAt: lastPlayed,
			UpdatedAt:    now,
		})
	}

	if err := s.history.Upsert(r.Context(), rows); err != nil {
		s.logger.Error("Failed to record reading progress", "error", err, "count", len(rows))
		response.InternalError(w, "Failed to record progress", s.logger)
		return
	}

	response.Success(w, ProgressResponse{Applied: len(rows)}, s.logger)
}

// handleDeleteProgress removes the progress row for one book.
func (s *Server) handleDeleteProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	if err := s.history.Delete(r.Context(), id); err != nil {
		s.logger.Error("Failed to delete reading progress", "error", err, "book_id", id)
		response.InternalError(w, "Failed to delete progress", s.logger)
		return
	}

	response.NoContent(w)
}
