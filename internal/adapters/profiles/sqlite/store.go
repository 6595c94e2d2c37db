package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/randomtoy/oracle-go/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id     INTEGER PRIMARY KEY,
	birth_year  INTEGER NOT NULL,
	birth_month INTEGER NOT NULL,
	birth_day   INTEGER NOT NULL,
	location    TEXT NOT NULL,
	updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
`

// Store is a SQLite-backed profile store.
type Store struct {
	db *sql.DB
}

// Open opens the store at path, creating the schema if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("profile db path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get loads a profile by user id. The second return is false when no
// profile exists yet.
func (s *Store) Get(ctx context.Context, userID int64) (ports.Profile, bool, error) {
	if err := ctx.Err(); err != nil {
		return ports.Profile{}, false, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, birth_year, birth_month, birth_day, location FROM profiles WHERE user_id = ?`,
		userID,
	)

	var p ports.Profile
	err := row.Scan(&p.UserID, &p.BirthYear, &p.BirthMonth, &p.BirthDay, &p.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Profile{}, false, nil
	}
	if err != nil {
		return ports.Profile{}, false, fmt.Errorf("scan profile: %w", err)
	}
	return p, true, nil
}

// Put inserts or replaces a profile.
func (s *Store) Put(ctx context.Context, p ports.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.UserID == 0 {
		return fmt.Errorf("user id is required")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, birth_year, birth_month, birth_day, location)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			birth_year = excluded.birth_year,
			birth_month = excluded.birth_month,
			birth_day = excluded.birth_day,
			location = excluded.location,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		p.UserID, p.BirthYear, p.BirthMonth, p.BirthDay, p.Location,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

var _ ports.ProfileStore = (*Store)(nil)
