// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite log of publish runs and their
// classification results.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doc2pages/pkg/types"
)

const defaultLimit = 20

// ErrNotFound is returned by Get for an unknown record ID.
var ErrNotFound = errors.New("publish record not found")

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.local/share/doc2pages/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "doc2pages", "history.db"), nil
}

// Open opens or creates the history database at path and its schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
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
		`CREATE TABLE IF NOT EXISTS publishes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL,
			repo TEXT NOT NULL,
			doc_path TEXT NOT NULL,
			public INTEGER NOT NULL,
			forced INTEGER NOT NULL,
			url TEXT,
			status TEXT NOT NULL,
			error TEXT,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			total_pages INTEGER,
			text_pages INTEGER,
			rate REAL,
			is_scanned INTEGER,
			threshold INTEGER,
			min_rate REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publishes_repo ON publishes(owner, repo)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts rec and returns its ID.
func (s *Store) Record(ctx context.Context, rec types.PublishRecord) (int64, error) {
	var (
		total, text, threshold sql.NullInt64
		rate, minRate          sql.NullFloat64
		scanned                sql.NullBool
	)
	if c := rec.Classification; c != nil {
		total = sql.NullInt64{Int64: int64(c.TotalPageCount), Valid: true}
		text = sql.NullInt64{Int64: int64(c.TextPageCount), Valid: true}
		rate = sql.NullFloat64{Float64: c.Rate, Valid: true}
		scanned = sql.NullBool{Bool: c.IsScanned, Valid: true}
		threshold = sql.NullInt64{Int64: int64(c.Threshold), Valid: true}
		minRate = sql.NullFloat64{Float64: c.MinRate, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO publishes (owner, repo, doc_path, public, forced, url, status, error,
			started, finished, total_pages, text_pages, rate, is_scanned, threshold, min_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Repo.Owner, rec.Repo.Name, rec.DocPath, rec.Public, rec.Forced,
		rec.URL, string(rec.Status), rec.Error,
		rec.Started.UTC().Format(time.RFC3339Nano), rec.Finished.UTC().Format(time.RFC3339Nano),
		total, text, rate, scanned, threshold, minRate,
	)
	if err != nil {
		return 0, fmt.Errorf("recording publish of %s: %w", rec.Repo, err)
	}
	return res.LastInsertId()
}

const selectColumns = `SELECT id, owner, repo, doc_path, public, forced, url, status, error,
	started, finished, total_pages, text_pages, rate, is_scanned, threshold, min_rate
	FROM publishes`

// List returns the most recent records first. A non-positive limit uses
// the default of 20.
func (s *Store) List(ctx context.Context, limit int) ([]types.PublishRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing publishes: %w", err)
	}
	defer rows.Close()

	var out []types.PublishRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns the record with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (types.PublishRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PublishRecord{}, ErrNotFound
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (types.PublishRecord, error) {
	var (
		rec                    types.PublishRecord
		url, errText           sql.NullString
		status                 string
		started, finished      string
		total, text, threshold sql.NullInt64
		rate, minRate          sql.NullFloat64
		scanned                sql.NullBool
	)
	err := sc.Scan(&rec.ID, &rec.Repo.Owner, &rec.Repo.Name, &rec.DocPath, &rec.Public, &rec.Forced,
		&url, &status, &errText, &started, &finished,
		&total, &text, &rate, &scanned, &threshold, &minRate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning publish record: %w", err)
	}

	rec.URL = url.String
	rec.Error = errText.String
	rec.Status = types.PublishStatus(status)
	if rec.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return rec, fmt.Errorf("parsing started time: %w", err)
	}
	if rec.Finished, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return rec, fmt.Errorf("parsing finished time: %w", err)
	}
	if total.Valid {
		rec.Classification = &types.ClassificationResult{
			TotalPageCount: int(total.Int64),
			TextPageCount:  int(text.Int64),
			Rate:           rate.Float64,
			IsScanned:      scanned.Bool,
			Threshold:      int(threshold.Int64),
			MinRate:        minRate.Float64,
		}
	}
	return rec, nil
}
