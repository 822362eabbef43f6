package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/canopy/api"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	kind TEXT NOT NULL,
	elements JSON NOT NULL DEFAULT '[]',
	settings JSON NOT NULL DEFAULT '{}',
	revision INTEGER NOT NULL DEFAULT 0,
	created INTEGER NOT NULL,
	modified INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS global_tokens (
	name TEXT PRIMARY KEY,
	value JSON NOT NULL
);
`

const (
	tokenColors     = "colors"
	tokenTypography = "typography"
)

// SQLiteStore persists documents and tokens in a single SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	hook SaveHook
}

// OpenSQLite opens (creating if needed) the database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// One writer at a time; SQLite serializes writes anyway and this keeps
	// :memory: databases on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// OnSave registers a hook run after every SaveTree.
func (s *SQLiteStore) OnSave(h SaveHook) {
	s.hook = h
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, title, status, kind string) (string, error) {
	if status == "" {
		status = DefaultStatus
	}
	if kind == "" {
		kind = DefaultKind
	}
	id := uuid.NewString()
	now := time.Now().UnixNano()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, status, kind, created, modified)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, title, status, kind, now, now)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Document(ctx context.Context, id string) (*api.Document, error) {
	var (
		doc                 api.Document
		rawElems, rawSettgs string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, status, kind, revision, elements, settings
		FROM documents WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Title, &doc.Status, &doc.Kind, &doc.Revision, &rawElems, &rawSettgs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query document %s: %w", id, err)
	}

	if doc.Elements, err = decodeTree(rawElems); err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	if doc.Settings, err = decodeSettings(rawSettgs); err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return &doc, nil
}

func (s *SQLiteStore) LoadTree(ctx context.Context, id string) ([]*api.Node, error) {
	raw, err := s.column(ctx, id, "elements")
	if err != nil {
		return nil, err
	}
	nodes, err := decodeTree(raw)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return nodes, nil
}

func (s *SQLiteStore) SaveTree(ctx context.Context, id string, nodes []*api.Node) error {
	if nodes == nil {
		nodes = []*api.Node{}
	}
	raw, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	res, err := tx.ExecContext(ctx, `
		UPDATE documents SET elements = ?, revision = revision + 1, modified = ?
		WHERE id = ?
	`, string(raw), time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update tree %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var rev int64
	if err := tx.QueryRowContext(ctx, "SELECT revision FROM documents WHERE id = ?", id).Scan(&rev); err != nil {
		return fmt.Errorf("read revision %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if s.hook != nil {
		s.hook(ctx, id, rev)
	}
	return nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context, id string) (api.Settings, error) {
	raw, err := s.column(ctx, id, "settings")
	if err != nil {
		return nil, err
	}
	settings, err := decodeSettings(raw)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, id string, settings api.Settings) error {
	if settings == nil {
		settings = api.Settings{}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET settings = ?, modified = ? WHERE id = ?
	`, string(raw), time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update settings %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// column reads one JSON column of a document. col is never caller-supplied.
func (s *SQLiteStore) column(ctx context.Context, id, col string) (string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT "+col+" FROM documents WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("query %s of %s: %w", col, id, err)
	}
	return raw, nil
}

func (s *SQLiteStore) ActiveTokens(ctx context.Context) (*api.Tokens, error) {
	out := &api.Tokens{Colors: []api.Color{}, Typography: []api.Typography{}}

	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM global_tokens")
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		switch name {
		case tokenColors:
			err = json.Unmarshal([]byte(raw), &out.Colors)
		case tokenTypography:
			err = json.Unmarshal([]byte(raw), &out.Typography)
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s tokens: %w", name, err)
		}
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateTokens(ctx context.Context, partial api.Tokens) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	put := func(name string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s tokens: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO global_tokens (name, value) VALUES (?, ?)", name, string(raw)); err != nil {
			return fmt.Errorf("write %s tokens: %w", name, err)
		}
		return nil
	}
	if partial.Colors != nil {
		if err := put(tokenColors, partial.Colors); err != nil {
			return err
		}
	}
	if partial.Typography != nil {
		if err := put(tokenTypography, partial.Typography); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func decodeTree(raw string) ([]*api.Node, error) {
	nodes := []*api.Node{}
	if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}
	return nodes, nil
}

func decodeSettings(raw string) (api.Settings, error) {
	settings := api.Settings{}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}
