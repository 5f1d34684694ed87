// Package session binds one ledger to each browser session. A ledger exists
// from the first request of a session until the session ends, either by an
// explicit reset or by going idle for longer than the TTL.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"advisor/internal/core"
)

// ErrNotFound reports an unknown or ended session.
var ErrNotFound = errors.New("session not found")

// Store owns the ledgers of all live sessions.
type Store interface {
	// Create starts a new session with an empty ledger.
	Create(ctx context.Context) (id string, l *core.Ledger, err error)
	// Get returns the session's ledger and marks the session active.
	Get(ctx context.Context, id string) (*core.Ledger, error)
	// Append adds a validated expense to the session's ledger.
	Append(ctx context.Context, id string, e core.Expense) error
	// Delete ends the session and destroys its ledger.
	Delete(ctx context.Context, id string) error
	// CleanExpired ends idle sessions and returns how many were removed.
	CleanExpired() int
}

func newID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of a generated session id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
