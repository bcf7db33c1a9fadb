// Package savedset provides SQLite-backed persistence for per-user saved
// move sets. Saved sets are bookkeeping, not shared state: they live outside
// the move documents so that toggling a bookmark never contends with
// membership writes.
package savedset

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed persistence for saved move sets.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a new saved-set store at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Set connection pool to 1 writer (SQLite limitation).
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save adds a move to a user's saved set. Saving twice is a no-op.
func (s *Store) Save(ctx context.Context, userID, moveID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_moves (user_id, move_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, move_id) DO NOTHING`,
		userID, moveID, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save move: %w", err)
	}
	return nil
}

// Unsave removes a move from a user's saved set. Idempotent.
func (s *Store) Unsave(ctx context.Context, userID, moveID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_moves WHERE user_id = ? AND move_id = ?`,
		userID, moveID)
	if err != nil {
		return fmt.Errorf("unsave move: %w", err)
	}
	return nil
}

// IsSaved reports whether a move is in a user's saved set.
func (s *Store) IsSaved(ctx context.Context, userID, moveID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM saved_moves WHERE user_id = ? AND move_id = ?`,
		userID, moveID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check saved move: %w", err)
	}
	return true, nil
}

// List returns the set of move IDs a user has saved.
func (s *Store) List(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT move_id FROM saved_moves WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved moves: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var moveID string
		if err := rows.Scan(&moveID); err != nil {
			return nil, fmt.Errorf("scan saved move: %w", err)
		}
		ids[moveID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved moves: %w", err)
	}
	return ids, nil
}

// PruneMove removes a deleted move from every user's saved set.
func (s *Store) PruneMove(ctx context.Context, moveID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_moves WHERE move_id = ?`, moveID)
	if err != nil {
		return fmt.Errorf("prune saved move: %w", err)
	}
	if s.logger != nil {
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			s.logger.Info("pruned deleted move from saved sets", "move_id", moveID, "count", n)
		}
	}
	return nil
}
