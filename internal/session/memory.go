package session

import (
	"context"
	"log/slog"
	"time"

	"advisor/internal/cache"
	"advisor/internal/core"
)

// MemoryStore keeps ledgers in a TTL LRU cache. Eviction is session end.
type MemoryStore struct {
	ledgers *cache.LRUCache[*core.Ledger]
}

func NewMemoryStore(maxSessions int, ttl time.Duration, logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	c := cache.NewLRUCache[*core.Ledger](maxSessions, ttl)
	c.OnEvict(func(id string, l *core.Ledger) {
		logger.Info("Session ended", "session_id", id, "records", l.Len(), "reason", "expired")
	})
	return &MemoryStore{ledgers: c}
}

func (s *MemoryStore) Create(_ context.Context) (string, *core.Ledger, error) {
	id := newID()
	l := core.NewLedger()
	s.ledgers.Set(id, l)
	return id, l, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*core.Ledger, error) {
	l, ok := s.ledgers.Touch(id)
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *MemoryStore) Append(ctx context.Context, id string, e core.Expense) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	l.Append(e)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.ledgers.Delete(id)
	return nil
}

func (s *MemoryStore) CleanExpired() int {
	return s.ledgers.CleanExpired()
}

func (s *MemoryStore) Len() int {
	return s.ledgers.Size()
}
