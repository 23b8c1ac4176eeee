// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog exports one run's selected papers to a SQLite file for
// ad hoc querying. The file is rebuilt from scratch on every run; nothing
// reads it back into the pipeline.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// Store wraps the catalog database.
type Store struct {
	db *sql.DB
}

// Run describes one pipeline run.
type Run struct {
	ID        string
	StartedAt time.Time
	Query     string
	Scanned   int
}

// Create removes any existing catalog at path and opens a fresh one with
// the schema in place.
func Create(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("removing old catalog: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
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
		`CREATE TABLE runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			query TEXT,
			scanned INTEGER,
			selected INTEGER
		)`,
		`CREATE TABLE papers (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			published TEXT,
			arxiv_url TEXT,
			pdf_url TEXT,
			conference TEXT,
			code_link TEXT,
			citation_count INTEGER,
			impact_factor REAL
		)`,
		`CREATE TABLE paper_tags (
			paper_id TEXT NOT NULL REFERENCES papers(id),
			tag TEXT NOT NULL,
			PRIMARY KEY (paper_id, tag)
		)`,
		`CREATE TABLE paper_keywords (
			paper_id TEXT NOT NULL REFERENCES papers(id),
			keyword TEXT NOT NULL,
			official INTEGER NOT NULL,
			PRIMARY KEY (paper_id, keyword)
		)`,
		`CREATE INDEX idx_papers_published ON papers(published)`,
		`CREATE INDEX idx_paper_tags_tag ON paper_tags(tag)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// WriteRun records run and its papers in one transaction. An empty run.ID
// is replaced with a new identifier, which is returned.
func (s *Store) WriteRun(ctx context.Context, run Run, papers []types.PaperRecord) (string, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, query, scanned, selected) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.Query, run.Scanned, len(papers),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	paperStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO papers (id, run_id, position, title, authors, abstract, published,
			arxiv_url, pdf_url, conference, code_link, citation_count, impact_factor)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer paperStmt.Close()

	tagStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO paper_tags (paper_id, tag) VALUES (?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer tagStmt.Close()

	kwStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO paper_keywords (paper_id, keyword, official) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer kwStmt.Close()

	for i, p := range papers {
		_, err := paperStmt.ExecContext(ctx,
			p.ID, run.ID, i, p.Title, p.Authors, p.Abstract, p.Published.String(),
			p.ArxivURL, p.PDFURL, p.Conference, p.CodeLink,
			nullInt(p.CitationCount), nullFloat(p.ImpactFactor),
		)
		if err != nil {
			return "", fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
		for _, tag := range p.Tags {
			if _, err := tagStmt.ExecContext(ctx, p.ID, tag); err != nil {
				return "", fmt.Errorf("inserting tag for %s: %w", p.ID, err)
			}
		}
		official := make(map[string]bool, len(p.OfficialKeywords))
		for _, kw := range p.OfficialKeywords {
			official[kw] = true
		}
		for _, kw := range p.Keywords {
			if _, err := kwStmt.ExecContext(ctx, p.ID, kw, official[kw]); err != nil {
				return "", fmt.Errorf("inserting keyword for %s: %w", p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// TagCount is the number of papers carrying a tag.
type TagCount struct {
	Tag   string
	Count int
}

// TagCounts returns per-tag paper counts, most frequent first.
func (s *Store) TagCounts(ctx context.Context) ([]TagCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag, count(*) AS n FROM paper_tags GROUP BY tag ORDER BY n DESC, tag`)
	if err != nil {
		return nil, fmt.Errorf("querying tag counts: %w", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning tag count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
