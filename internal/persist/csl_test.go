// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-feed/pkg/types"
)

func TestToCSLItemArticle(t *testing.T) {
	p := types.PaperRecord{
		ID:        "2610.01234v1",
		Title:     "Neural closures for LES",
		Authors:   "Ada Lovelace, Alan Mathison Turing, Plato",
		Abstract:  "We learn closures.",
		Published: types.NewDate(time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)),
		ArxivURL:  "http://arxiv.org/abs/2610.01234v1",
		Keywords:  []string{"les", "closure"},
	}

	item := toCSLItem(p)

	if item.ID != "arxiv:2610.01234v1" {
		t.Errorf("ID = %q", item.ID)
	}
	if item.Type != "article" {
		t.Errorf("Type = %q, want article", item.Type)
	}
	if len(item.Author) != 3 {
		t.Fatalf("len(Author) = %d, want 3", len(item.Author))
	}
	if item.Author[1].Given != "Alan Mathison" || item.Author[1].Family != "Turing" {
		t.Errorf("Author[1] = %+v", item.Author[1])
	}
	if item.Author[2].Literal != "Plato" {
		t.Errorf("Author[2] = %+v, want literal", item.Author[2])
	}
	if item.Issued == nil || item.Issued.DateParts[0][0] != 2026 || item.Issued.DateParts[0][1] != 10 {
		t.Errorf("Issued = %+v", item.Issued)
	}
	if item.Keyword != "les, closure" {
		t.Errorf("Keyword = %q", item.Keyword)
	}
}

func TestToCSLItemConferencePaper(t *testing.T) {
	item := toCSLItem(types.PaperRecord{ID: "x", Conference: "NeurIPS"})
	if item.Type != "paper-conference" {
		t.Errorf("Type = %q, want paper-conference", item.Type)
	}
	if item.ContainerTitle != "NeurIPS" {
		t.Errorf("ContainerTitle = %q", item.ContainerTitle)
	}
	if item.Author != nil {
		t.Errorf("Author = %+v, want none", item.Author)
	}
	if item.Issued != nil {
		t.Error("Issued should be omitted for a zero date")
	}
}

func TestWriteCSL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.yaml")
	papers := []types.PaperRecord{
		{ID: "a", Title: "First", Conference: "ICML"},
		{ID: "b", Title: "Second"},
	}
	if err := WriteCSL(path, papers); err != nil {
		t.Fatalf("WriteCSL: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{"id: arxiv:a", "type: paper-conference", "container-title: ICML", "id: arxiv:b", "type: article"} {
		if !strings.Contains(s, want) {
			t.Errorf("CSL output missing %q:\n%s", want, s)
		}
	}
}
