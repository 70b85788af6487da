package session

import (
	"context"
	"sync"

	"gorodskoybaton/bot/internal/domain"
)

// MemoryStore is the default session store. Sessions live in process
// memory only: a restart loses all in-flight orders, which is the
// intended behavior of this bot.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*domain.Session)}
}

func (s *MemoryStore) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[chatID]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess, nil
	}
	sess = domain.NewSession(chatID)
	s.sessions[chatID] = sess
	return sess, nil
}

func (s *MemoryStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ChatID] = session
	return nil
}
