package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"advisor/internal/core"

	_ "modernc.org/sqlite"
)

// ErrSessionNotFound is returned for unknown or purged session ids.
var ErrSessionNotFound = errors.New("session not found")

// SQLiteRepository persists live sessions and their expenses.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateSession inserts a new, empty session.
func (r *SQLiteRepository) CreateSession(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, last_seen_at) VALUES (?, ?, ?)`,
		id, now.Unix(), now.Unix())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// TouchSession records activity on a live session. Sessions idle since
// before cutoff count as ended and are reported as not found.
func (r *SQLiteRepository) TouchSession(ctx context.Context, id string, now, cutoff time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = ? WHERE id = ? AND last_seen_at >= ?`,
		now.Unix(), id, cutoff.Unix())
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch session rows: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListExpenses returns a session's expenses in insertion order.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, sessionID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day, category, amount_cents, description
		   FROM session_expenses
		  WHERE session_id = ?
		  ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			day, category, desc string
			cents               int64
		)
		if err := rows.Scan(&day, &category, &cents, &desc); err != nil {
			return nil, fmt.Errorf("scan session expense: %w", err)
		}
		date, err := core.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", day, err)
		}
		out = append(out, core.Expense{
			Date:        date,
			Category:    core.Category(category),
			Amount:      core.Money{Cents: cents},
			Description: desc,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session expenses: %w", err)
	}
	return out, nil
}

// AppendExpense adds e at the end of the session's ledger. The insert only
// lands while the session row exists, so a concurrent delete or purge
// cannot leave rows behind.
func (r *SQLiteRepository) AppendExpense(ctx context.Context, sessionID string, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO session_expenses (session_id, day, category, amount_cents, description)
		 SELECT ?, ?, ?, ?, ?
		  WHERE EXISTS (SELECT 1 FROM sessions WHERE id = ?)`,
		sessionID, e.Date.String(), string(e.Category), e.Amount.Cents, e.Description, sessionID)
	if err != nil {
		return 0, fmt.Errorf("insert session expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert session expense rows: %w", err)
	}
	if n == 0 {
		return 0, ErrSessionNotFound
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session expense id: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", id,
		"category", e.Category,
		"amount_cents", e.Amount.Cents)

	return id, nil
}

// DeleteSession removes a session and every expense it owns.
func (r *SQLiteRepository) DeleteSession(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_expenses WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete session expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions purges sessions idle since before cutoff, with their
// expenses, and returns how many sessions were removed.
func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purge: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_expenses
		  WHERE session_id IN (SELECT id FROM sessions WHERE last_seen_at < ?)
		     OR session_id NOT IN (SELECT id FROM sessions)`, cutoff.Unix()); err != nil {
		return 0, fmt.Errorf("purge session expenses: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE last_seen_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge sessions rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit purge: %w", err)
	}
	return n, nil
}
