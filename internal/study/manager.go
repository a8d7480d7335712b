package study

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/avendano/learntrack/internal/errors"
	"github.com/avendano/learntrack/internal/logger"
	"github.com/avendano/learntrack/internal/repository"
)

// Session pairs a controller with its opaque ID.
type Session struct {
	ID         string
	Controller *Controller
}

// Manager owns the live study sessions. Sessions are in-memory only; an
// abandoned one is swept after sitting idle past the TTL.
type Manager struct {
	repo repository.CardRepository
	ttl  time.Duration

	mu       sync.Mutex
	sessions map[string]*Session

	log *logger.Logger
}

func NewManager(repo repository.CardRepository, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		repo:     repo,
		ttl:      ttl,
		sessions: make(map[string]*Session),
		log:      logger.Default().WithPrefix("study-manager"),
	}
}

// Start creates a session for the deck and performs the initial due-set load.
// A failed load does not register the session; the caller just starts again.
func (m *Manager) Start(ctx context.Context, deckID int64) (*Session, error) {
	ctrl := NewController(deckID, m.repo)
	if err := ctrl.Load(ctx); err != nil {
		return nil, err
	}

	s := &Session{
		ID:         uuid.NewString(),
		Controller: ctrl,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info("study session started: id=%s, deck_id=%d, state=%s", s.ID, deckID, ctrl.State())
	return s, nil
}

// Get returns a live session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("study session", id)
	}
	return s, nil
}

// End closes and removes a session.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return apperrors.NewNotFoundError("study session", id)
	}
	s.Controller.Close()
	m.log.Info("study session ended: id=%s", id)
	return nil
}

// Sweep starts a background loop that expires idle sessions until the
// context is cancelled.
func (m *Manager) Sweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				m.log.Debug("session sweep stopped")
				return
			case <-ticker.C:
				m.sweepOnce(time.Now())
			}
		}
	}()
}

func (m *Manager) sweepOnce(now time.Time) {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if now.Sub(s.Controller.LastUsed()) > m.ttl {
			delete(m.sessions, id)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Controller.Close()
		m.log.Info("idle study session expired: id=%s", s.ID)
	}
}
