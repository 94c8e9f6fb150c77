// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report persists classification run history in SQLite so earlier
// runs can be inspected without reprocessing the documents.
package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

const dbFile = "footnotes.db"

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.ReportDir/footnotes.db,
// creating the schema if it does not exist.
func NewStore(cfg types.ReportConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.ReportDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	dbPath := filepath.Join(cfg.ReportDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			input TEXT NOT NULL,
			total INTEGER NOT NULL,
			green INTEGER NOT NULL,
			yellow INTEGER NOT NULL,
			red INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS footnotes (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			idx INTEGER NOT NULL,
			matched_type TEXT,
			confidence TEXT NOT NULL,
			preprocessed_text TEXT,
			fields TEXT,
			PRIMARY KEY (run_id, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_footnotes_confidence ON footnotes(run_id, confidence)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunInfo summarizes one recorded classification run.
type RunInfo struct {
	ID        int64
	StartedAt time.Time
	Input     string
	Total     int
	Green     int
	Yellow    int
	Red       int
}

// FootnoteRecord is one classified footnote as stored in run history.
type FootnoteRecord struct {
	Index            int
	MatchedType      string
	Confidence       types.Confidence
	PreprocessedText string
	Fields           map[string]string
}

// RecordRun stores the results of processing input and returns the new
// run's id. Per-footnote rows and the run summary commit atomically.
func (s *Store) RecordRun(ctx context.Context, input string, results []types.MatchResult) (int64, error) {
	var green, yellow, red int
	for _, r := range results {
		switch r.Confidence {
		case types.ConfidenceGreen:
			green++
		case types.ConfidenceYellow:
			yellow++
		default:
			red++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, input, total, green, yellow, red)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), input, len(results), green, yellow, red,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO footnotes (run_id, idx, matched_type, confidence, preprocessed_text, fields)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		fieldsJSON, _ := json.Marshal(r.Fields)
		_, err := stmt.ExecContext(ctx,
			runID, i, r.MatchedType, string(r.Confidence), r.PreprocessedText, string(fieldsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting footnote %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first, capped at the
// configured maximum.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input, total, green, yellow, red
		 FROM runs ORDER BY id DESC LIMIT ?`, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Input, &r.Total, &r.Green, &r.Yellow, &r.Red); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Unmatched returns the red footnotes of one run, in document order.
// These are the entries a reviewer has to fix by hand.
func (s *Store) Unmatched(ctx context.Context, runID int64) ([]FootnoteRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, matched_type, confidence, preprocessed_text, fields
		 FROM footnotes WHERE run_id = ? AND confidence = ? ORDER BY idx`,
		runID, string(types.ConfidenceRed))
	if err != nil {
		return nil, fmt.Errorf("querying footnotes: %w", err)
	}
	defer rows.Close()

	var records []FootnoteRecord
	for rows.Next() {
		rec, err := scanFootnote(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Footnotes returns every footnote of one run, in document order.
func (s *Store) Footnotes(ctx context.Context, runID int64) ([]FootnoteRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, matched_type, confidence, preprocessed_text, fields
		 FROM footnotes WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying footnotes: %w", err)
	}
	defer rows.Close()

	var records []FootnoteRecord
	for rows.Next() {
		rec, err := scanFootnote(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanFootnote(rows *sql.Rows) (FootnoteRecord, error) {
	var rec FootnoteRecord
	var confidence, fieldsJSON string
	if err := rows.Scan(&rec.Index, &rec.MatchedType, &confidence, &rec.PreprocessedText, &fieldsJSON); err != nil {
		return rec, fmt.Errorf("scanning footnote: %w", err)
	}
	rec.Confidence = types.Confidence(confidence)
	if fieldsJSON != "" {
		if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
			return rec, fmt.Errorf("decoding fields for footnote %d: %w", rec.Index, err)
		}
	}
	return rec, nil
}
