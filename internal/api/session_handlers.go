package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/http/response"
	"github.com/moodshelf/moodshelf-server/internal/service"
)

// CommitSessionRequest is the payload for committing a mood session.
// Optional dimensions left empty default to their "any" sentinel.
type CommitSessionRequest struct {
	Mood             string `json:"mood" validate:"required,oneof=comfort thrills escape growth laughs feels"`
	Pace             string `json:"pace" validate:"omitempty,oneof=any slow steady fast"`
	Weight           string `json:"weight" validate:"omitempty,oneof=any light balanced heavy"`
	World            string `json:"world" validate:"omitempty,oneof=any grounded otherworldly"`
	Length           string `json:"length" validate:"omitempty,oneof=any short medium long epic"`
	Flavor           string `json:"flavor" validate:"omitempty,max=64"`
	SeedBookID       string `json:"seed_book_id" validate:"omitempty,max=128"`
	ExcludeChildrens bool   `json:"exclude_childrens"`
}

// TuneSessionRequest is the PATCH payload for quick-tuning the active
// session. Nil fields are left untouched.
type TuneSessionRequest struct {
	Mood             *string `json:"mood" validate:"omitempty,oneof=comfort thrills escape growth laughs feels"`
	Pace             *string `json:"pace" validate:"omitempty,oneof=any slow steady fast"`
	Weight           *string `json:"weight" validate:"omitempty,oneof=any light balanced heavy"`
	World            *string `json:"world" validate:"omitempty,oneof=any grounded otherworldly"`
	Length           *string `json:"length" validate:"omitempty,oneof=any short medium long epic"`
	Flavor           *string `json:"flavor" validate:"omitempty,max=64"`
	SeedBookID       *string `json:"seed_book_id" validate:"omitempty,max=128"`
	ExcludeChildrens *bool   `json:"exclude_childrens"`
}

// SessionResponse wraps a session with its staleness flag.
type SessionResponse struct {
	Session *domain.MoodSession `json:"session"`
	Stale   bool                `json:"stale"`
}

// handleGetSession returns the active mood session, if one exists.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Current(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, SessionResponse{
		Session: session,
		Stale:   session.Stale(time.Now()),
	}, s.logger)
}

// handleCommitSession replaces the active session with a freshly
// committed one.
func (s *Server) handleCommitSession(w http.ResponseWriter, r *http.Request) {
	var req CommitSessionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	session, err := s.sessions.Commit(r.Context(), service.CommitInput{
		Mood:             domain.Mood(req.Mood),
		Pace:             domain.Pace(req.Pace),
		Weight:           domain.Weight(req.Weight),
		World:            domain.World(req.World),
		Length:           domain.Length(req.Length),
		Flavor:           req.Flavor,
		SeedBookID:       req.SeedBookID,
		ExcludeChildrens: req.ExcludeChildrens,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, SessionResponse{Session: session}, s.logger)
}

// handleTuneSession applies a partial update to the active session and
// refreshes its TTLs.
func (s *Server) handleTuneSession(w http.ResponseWriter, r *http.Request) {
	var req TuneSessionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	session, err := s.sessions.Tune(r.Context(), tunePatch(req))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, SessionResponse{Session: session}, s.logger)
}

// handleClearSession deletes the active session. Clearing when no
// session exists is not an error.
func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Clear(r.Context()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// tunePatch converts the request DTO into the domain patch.
func tunePatch(req TuneSessionRequest) domain.TunePatch {
	patch := domain.TunePatch{
		Flavor:           req.Flavor,
		SeedBookID:       req.SeedBookID,
		ExcludeChildrens: req.ExcludeChildrens,
	}
	if req.Mood != nil {
		m := domain.Mood(*req.Mood)
		patch.Mood = &m
	}
	if req.Pace != nil {
		p := domain.Pace(*req.Pace)
		patch.Pace = &p
	}
	if req.Weight != nil {
		wt := domain.Weight(*req.Weight)
		patch.Weight = &wt
	}
	if req.World != nil {
		wo := domain.World(*req.World)
		patch.World = &wo
	}
	if req.Length != nil {
		l := domain.Length(*req.Length)
		patch.Length = &l
	}
	return patch
}
