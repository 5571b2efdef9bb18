package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clearvide/internal/domain"
)

// SQLiteKV stores session values in a single table keyed by
// (session_id, key).
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV creates the table when missing.
func NewSQLiteKV(ctx context.Context, db *sql.DB) (*SQLiteKV, error) {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS session_kv (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (session_id, key)
	)`)
	if err != nil {
		return nil, err
	}
	return &SQLiteKV{db: db}, nil
}

func (s *SQLiteKV) Get(ctx context.Context, session, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_kv WHERE session_id=? AND key=?`, session, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return v, err
}

func (s *SQLiteKV) Set(ctx context.Context, session, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO session_kv(session_id, key, value, updated_at) VALUES(?,?,?,?)
		ON CONFLICT(session_id, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		session, key, value, time.Now().UTC())
	return err
}

// PurgeBefore deletes sessions not written since cutoff and returns how many
// rows were removed.
func (s *SQLiteKV) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session_kv WHERE session_id IN (
		SELECT session_id FROM session_kv GROUP BY session_id HAVING MAX(updated_at) < ?)`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
