// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package persist writes the selected paper records as JSON files for the
// static front end and reads them back.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/paper-feed/pkg/types"
)

const (
	// DocsFile is the front-end mirror written under the docs directory.
	DocsFile = "papers.json"
	// SingleFile is the data file written by the single partition.
	SingleFile = "papers.json"
	// IndexFile lists the month files written by the monthly partition.
	IndexFile = "index.json"
)

// Options configures where and how papers are written.
type Options struct {
	DataDir   string
	DocsDir   string
	Partition types.Partition
}

// MonthCount is one entry of the month index.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Write persists papers under opts.DataDir and mirrors the full set to
// opts.DocsDir. An empty slice writes nothing. Progress lines go to w.
func Write(papers []types.PaperRecord, opts Options, w io.Writer) error {
	if len(papers) == 0 {
		return nil
	}
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(opts.DocsDir, 0o755); err != nil {
		return fmt.Errorf("creating docs directory: %w", err)
	}

	switch opts.Partition {
	case types.PartitionSingle:
		path := filepath.Join(opts.DataDir, SingleFile)
		if err := writeJSON(path, papers); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %d papers to %s\n", len(papers), path)
	default:
		if err := writeMonthly(papers, opts.DataDir, w); err != nil {
			return err
		}
	}

	docs := filepath.Join(opts.DocsDir, DocsFile)
	if err := writeJSON(docs, papers); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %d papers to %s\n", len(papers), docs)
	return nil
}

// GroupByMonth splits papers by publication month. Months are returned in
// order of first appearance; papers keep their relative order.
func GroupByMonth(papers []types.PaperRecord) ([]string, map[string][]types.PaperRecord) {
	var months []string
	groups := make(map[string][]types.PaperRecord)
	for _, p := range papers {
		key := p.Published.MonthKey()
		if _, ok := groups[key]; !ok {
			months = append(months, key)
		}
		groups[key] = append(groups[key], p)
	}
	return months, groups
}

func writeMonthly(papers []types.PaperRecord, dir string, w io.Writer) error {
	months, groups := GroupByMonth(papers)
	index := make([]MonthCount, 0, len(months))
	for _, m := range months {
		path := filepath.Join(dir, m+".json")
		if err := writeJSON(path, groups[m]); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %d papers to %s\n", len(groups[m]), path)
		index = append(index, MonthCount{Month: m, Count: len(groups[m])})
	}
	return writeJSON(filepath.Join(dir, IndexFile), index)
}

// ReadPapers reads a JSON array of paper records from path.
func ReadPapers(path string) ([]types.PaperRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var papers []types.PaperRecord
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return papers, nil
}

// ReadIndex reads the month index written by the monthly partition.
func ReadIndex(path string) ([]MonthCount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var index []MonthCount
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return index, nil
}

// Marshal encodes v as two-space indented JSON with non-ASCII text and
// HTML characters written literally.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
