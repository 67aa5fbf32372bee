package api

import (
	"net/http"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/http/response"
	"github.com/moodshelf/moodshelf-server/internal/service"
)

// RecommendationsResponse is the client-facing recommendation payload.
// When IsScoring is true, Result is nil and the client should poll
// again shortly.
type RecommendationsResponse struct {
	Session   *domain.MoodSession          `json:"session"`
	Result    *domain.RecommendationResult `json:"result,omitempty"`
	IsScoring bool                         `json:"is_scoring"`
	Stale     bool                         `json:"stale"`
}

// handleGetRecommendations returns the ranked results for the active
// session. By default the scoring pass runs off the request path and
// the client polls; ?wait=true blocks until the pass completes.
func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	var (
		out *service.RecommendationsOutput
		err error
	)
	if r.URL.Query().Get("wait") == "true" {
		out, err = s.recommendations.Wait(r.Context())
	} else {
		out, err = s.recommendations.Recommendations(r.Context())
	}
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, RecommendationsResponse{
		Session:   out.Session,
		Result:    out.Result,
		IsScoring: out.IsScoring,
		Stale:     out.Stale,
	}, s.logger)
}
