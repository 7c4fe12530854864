package mockapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	seq   INTEGER PRIMARY KEY AUTOINCREMENT,
	kind  TEXT NOT NULL,
	id    TEXT NOT NULL,
	owner TEXT NOT NULL,
	body  BLOB NOT NULL,
	UNIQUE (kind, id)
);
CREATE INDEX IF NOT EXISTS documents_owner ON documents (kind, owner);
`

// SQLiteStore persists documents in a single sqlite table so the mock
// server can keep data between runs.
type SQLiteStore struct {
	db *sqlx.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, kind, id, owner string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (kind, id, owner, body) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET owner = excluded.owner, body = excluded.body`,
		kind, id, owner, body,
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, kind, id string) (string, []byte, error) {
	var row struct {
		Owner string `db:"owner"`
		Body  []byte `db:"body"`
	}
	err := s.db.GetContext(ctx, &row, `SELECT owner, body FROM documents WHERE kind = ? AND id = ?`, kind, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("get %s/%s: %w", kind, id, err)
	}
	return row.Owner, row.Body, nil
}

func (s *SQLiteStore) List(ctx context.Context, kind, owner string) ([][]byte, error) {
	var bodies [][]byte
	err := s.db.SelectContext(ctx, &bodies,
		`SELECT body FROM documents WHERE kind = ? AND owner = ? ORDER BY seq`, kind, owner)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return bodies, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, kind, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE kind = ? AND id = ?`, kind, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
