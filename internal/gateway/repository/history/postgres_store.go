package history

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// NewFromDSN returns a Postgres store when dsn is set and reachable and an
// in-memory store otherwise.
func NewFromDSN(dsn string) Store {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return NewMemoryStore(0)
	}
	s, err := NewPostgresStore(dsn)
	if err != nil {
		log.Printf("history: postgres unavailable, using memory store: %v", err)
		return NewMemoryStore(0)
	}
	return s
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS export_history (
  id TEXT PRIMARY KEY,
  root TEXT NOT NULL,
  out_path TEXT NOT NULL DEFAULT '',
  files INTEGER NOT NULL DEFAULT 0,
  tokens INTEGER NOT NULL DEFAULT 0,
  ok BOOLEAN NOT NULL DEFAULT FALSE,
  error TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_export_history_created_at ON export_history (created_at DESC);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Add(ctx context.Context, rec Record) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is nil")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO export_history (id, root, out_path, files, tokens, ok, error, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Root, rec.OutPath, rec.Files, rec.Tokens, rec.OK, rec.Error, rec.CreatedAt)
	return err
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, root, out_path, files, tokens, ok, error, created_at
FROM export_history ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Root, &r.OutPath, &r.Files, &r.Tokens, &r.OK, &r.Error, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
