package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"advisor/internal/core"
	"advisor/internal/storage"
)

// SQLiteStore keeps live sessions in sqlite so a restart does not end
// them. Rows are purged when the session ends; nothing outlives it.
type SQLiteStore struct {
	repo   *storage.SQLiteRepository
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewSQLiteStore(repo *storage.SQLiteRepository, ttl time.Duration, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{repo: repo, ttl: ttl, logger: logger, now: time.Now}
}

func (s *SQLiteStore) Create(ctx context.Context) (string, *core.Ledger, error) {
	id := newID()
	if err := s.repo.CreateSession(ctx, id, s.now()); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	return id, core.NewLedger(), nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*core.Ledger, error) {
	if err := s.touch(ctx, id); err != nil {
		return nil, err
	}
	items, err := s.repo.ListExpenses(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session ledger: %w", err)
	}
	return core.NewLedgerFrom(items), nil
}

// Append touches the session and inserts e. A session ended between the
// two steps reports ErrNotFound and keeps no row.
func (s *SQLiteStore) Append(ctx context.Context, id string, e core.Expense) error {
	if err := s.touch(ctx, id); err != nil {
		return err
	}
	_, err := s.repo.AppendExpense(ctx, id, e)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("append session expense: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CleanExpired() int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	n, err := s.repo.DeleteExpiredSessions(ctx, s.now().Add(-s.ttl))
	if err != nil {
		s.logger.Error("Session purge failed", "error", err)
		return 0
	}
	if n > 0 {
		s.logger.Info("Sessions ended", "count", n, "reason", "expired")
	}
	return int(n)
}

// Ping reports whether the backing database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *SQLiteStore) touch(ctx context.Context, id string) error {
	now := s.now()
	err := s.repo.TouchSession(ctx, id, now, now.Add(-s.ttl))
	if errors.Is(err, storage.ErrSessionNotFound) {
		return ErrNotFound
	}
	return err
}
