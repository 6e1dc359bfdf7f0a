package chat

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/coach"
)

var (
	ErrSessionIDRequired = errors.New("session id is required")
	ErrSessionNotFound   = errors.New("session not found")
)

// Factory builds a fresh coaching session.
type Factory func() *coach.Session

// Service keeps the live coaching sessions, evicting the least recently used
// one once capacity is reached.
type Service struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *coach.Session]
	factory Factory
}

// NewService creates a registry holding at most capacity sessions.
func NewService(capacity int, factory Factory) (*Service, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("session capacity must be positive, got %d", capacity)
	}
	if factory == nil {
		return nil, fmt.Errorf("session factory is required")
	}

	cache, err := lru.NewWithEvict(capacity, func(id string, _ *coach.Session) {
		logger.S().Infow("coaching session evicted", "sessionID", id)
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}

	return &Service{cache: cache, factory: factory}, nil
}

// GetOrCreate returns the session for id, creating it when absent. The
// boolean reports whether a new session was created.
func (s *Service) GetOrCreate(id string) (*coach.Session, bool, error) {
	if id == "" {
		return nil, false, ErrSessionIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.cache.Get(id); ok {
		return session, false, nil
	}

	session := s.factory()
	s.cache.Add(id, session)
	return session, true, nil
}

// Get returns an existing session and marks it recently used.
func (s *Service) Get(id string) (*coach.Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	session, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Remove drops a session.
func (s *Service) Remove(id string) {
	s.cache.Remove(id)
}

// Len reports how many sessions are live.
func (s *Service) Len() int {
	return s.cache.Len()
}
