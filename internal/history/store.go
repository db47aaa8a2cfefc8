// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pplx/pkg/types"
)

const dbFile = "pplx-history.db"

// ErrNotFound is returned by lookups that match no entry. It is a normal
// outcome, not a storage failure.
var ErrNotFound = errors.New("history: entry not found")

// Store manages the history SQLite database. It owns the row lifecycle;
// transcript documents are owned by Transcripts.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at dataDir/pplx-history.db,
// creating dataDir and the schema as needed. Schema initialization is
// idempotent. WAL mode serializes writers across concurrent invocations.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			identifier TEXT NOT NULL,
			command TEXT NOT NULL,
			query TEXT NOT NULL,
			model TEXT NOT NULL,
			response TEXT NOT NULL,
			citations TEXT,
			prompt_tokens INTEGER,
			completion_tokens INTEGER,
			total_tokens INTEGER,
			duration_seconds REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_history_identifier ON history(identifier)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Insert appends a new row and returns the assigned sequential id. The
// identifier column is the derived lookup key recomputed from the entry's
// timestamp, command, and query.
func (s *Store) Insert(ctx context.Context, entry types.HistoryEntry) (int64, error) {
	var citations any
	if len(entry.Citations) > 0 {
		data, err := json.Marshal(entry.Citations)
		if err != nil {
			return 0, fmt.Errorf("encoding citations: %w", err)
		}
		citations = string(data)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO history
			(timestamp, identifier, command, query, model, response, citations,
			 prompt_tokens, completion_tokens, total_tokens, duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp, IdentifierFor(entry), string(entry.Command),
		entry.Query, entry.Model, entry.Response, citations,
		entry.PromptTokens, entry.CompletionTokens, entry.TotalTokens,
		entry.DurationSeconds,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting history row: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading assigned id: %w", err)
	}
	return id, nil
}

const entryColumns = `id, timestamp, command, query, model, response, citations,
	prompt_tokens, completion_tokens, total_tokens, duration_seconds`

// ListRecent returns at most limit entries ordered newest first. Ties on
// timestamp break by id descending, which matches insertion order. An
// empty store yields an empty slice, not an error.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM history
		 ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetByIdentifier resolves a display identifier back to its row. Returns
// ErrNotFound when no row matches. If distinct rows ever share an
// identifier the most recent one wins.
func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (types.HistoryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM history
		 WHERE identifier = ? ORDER BY timestamp DESC, id DESC LIMIT 1`, identifier)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.HistoryEntry{}, ErrNotFound
		}
		return types.HistoryEntry{}, err
	}
	return entry, nil
}

// ClearAll deletes every row in a single transaction.
func (s *Store) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("deleting history rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clear: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (types.HistoryEntry, error) {
	var (
		entry     types.HistoryEntry
		command   string
		citations sql.NullString
	)

	err := row.Scan(
		&entry.ID, &entry.Timestamp, &command, &entry.Query, &entry.Model,
		&entry.Response, &citations,
		&entry.PromptTokens, &entry.CompletionTokens, &entry.TotalTokens,
		&entry.DurationSeconds,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.HistoryEntry{}, err
		}
		return types.HistoryEntry{}, fmt.Errorf("scanning history row: %w", err)
	}

	entry.Command = types.Command(command)
	if citations.Valid && citations.String != "" {
		if err := json.Unmarshal([]byte(citations.String), &entry.Citations); err != nil {
			return types.HistoryEntry{}, fmt.Errorf("decoding citations: %w", err)
		}
	}
	return entry, nil
}
