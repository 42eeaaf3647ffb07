// Package store handles SQLite persistence of saved exports.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/textan/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for export history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			id INTEGER PRIMARY KEY,
			saved_at TEXT NOT NULL,
			path TEXT NOT NULL,
			text_chars INTEGER NOT NULL,
			sentence_count INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			declarative_count INTEGER NOT NULL,
			question_count INTEGER NOT NULL,
			exclamatory_count INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exports_saved_at ON exports(saved_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertExport records a saved export and returns its id.
func (s *Store) InsertExport(ctx context.Context, entry model.HistoryEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (saved_at, path, text_chars, sentence_count, word_count, declarative_count, question_count, exclamatory_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SavedAt.UTC().Format(time.RFC3339Nano),
		entry.Path,
		entry.TextChars,
		entry.Result.SentenceCount,
		entry.Result.WordCount,
		entry.Result.DeclarativeCount,
		entry.Result.QuestionCount,
		entry.Result.ExclamatoryCount,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListExports returns saved exports in chronological order.
func (s *Store) ListExports(ctx context.Context, filter model.HistoryFilter) ([]model.HistoryEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Since != nil {
		clauses = append(clauses, "saved_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, saved_at, path, text_chars, sentence_count, word_count, declarative_count, question_count, exclamatory_count
		FROM exports
		WHERE %s
		ORDER BY saved_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		var savedAt string
		if err := rows.Scan(&e.ID, &savedAt, &e.Path, &e.TextChars,
			&e.Result.SentenceCount, &e.Result.WordCount,
			&e.Result.DeclarativeCount, &e.Result.QuestionCount, &e.Result.ExclamatoryCount); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return nil, err
		}
		e.SavedAt = parsed
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(entries) > filter.Last {
		entries = entries[len(entries)-filter.Last:]
	}
	return entries, nil
}

// Totals aggregates counts over every saved export.
func (s *Store) Totals(ctx context.Context) (model.HistoryTotals, error) {
	var t model.HistoryTotals
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(sentence_count), 0), COALESCE(SUM(word_count), 0) FROM exports`,
	).Scan(&t.Exports, &t.Sentences, &t.Words)
	if err != nil {
		return model.HistoryTotals{}, err
	}
	return t, nil
}
