package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avendano/learntrack/internal/errors"
	"github.com/avendano/learntrack/internal/logger"
)

type rateRequest struct {
	Quality     int     `json:"quality" validate:"required,min=1,max=4"`
	TimeSeconds float64 `json:"time_seconds" validate:"gte=0"`
}

func sessionID(r *http.Request) (string, error) {
	sid := chi.URLParam(r, "sid")
	if sid == "" {
		return "", errors.NewBadRequestError("missing session id")
	}
	return sid, nil
}

func (s *Server) handleStartStudy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.StudyService.Start(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("study session started: session_id=%s, deck_id=%d, state=%s", view.SessionID, deckID, view.State)
	respondJSON(w, http.StatusCreated, view)
}

func (s *Server) handleStudyState(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.StudyService.Get(r.Context(), sid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.StudyService.Flip(r.Context(), sid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	sid, err := sessionID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.StudyService.Rate(r.Context(), sid, req.Quality, req.TimeSeconds)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("card rated: session_id=%s, quality=%d, state=%s", sid, req.Quality, view.State)
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleEndStudy(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.StudyService.End(r.Context(), sid); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
