package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avendano/learntrack/internal/services"
)

type Server struct {
	DeckService  services.DeckService
	CardService  services.CardService
	StudyService services.StudyService
	DBPinger     interface{ Ping() error }
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks", s.handleListDecks)
		r.Get("/decks/{id}", s.handleGetDeck)
		r.Delete("/decks/{id}", s.handleDeleteDeck)
		r.Get("/decks/{id}/summary", s.handleDeckSummary)

		r.Post("/decks/{id}/cards", s.handleCreateCard)
		r.Get("/decks/{id}/cards", s.handleListCards)
		r.Get("/decks/{id}/due", s.handleDueCards)
		r.Delete("/cards/{id}", s.handleDeleteCard)
		r.Get("/cards/{id}/history", s.handleCardHistory)

		r.Post("/decks/{id}/study", s.handleStartStudy)
		r.Get("/study/{sid}", s.handleStudyState)
		r.Post("/study/{sid}/flip", s.handleFlip)
		r.Post("/study/{sid}/rate", s.handleRate)
		r.Delete("/study/{sid}", s.handleEndStudy)
	})

	return r
}
