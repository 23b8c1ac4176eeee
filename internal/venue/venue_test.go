// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"testing"

	"github.com/pdiddy/paper-feed/pkg/types"
)

var testVenues = []string{"NeurIPS", "ICML", "Journal of Fluid Mechanics", "Physics of Fluids"}

func TestMatchVenue(t *testing.T) {
	r := NewResolver(testVenues, nil)
	tests := []struct {
		name    string
		comment string
		want    string
	}{
		{"exact case", "Accepted at NeurIPS 2025", "NeurIPS"},
		{"case insensitive", "to appear in journal of fluid mechanics", "Journal of Fluid Mechanics"},
		{"first listed wins", "ICML workshop, extended in NeurIPS", "NeurIPS"},
		{"no match", "12 pages, 5 figures", ""},
		{"empty comment", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.MatchVenue(tt.comment); got != tt.want {
				t.Errorf("MatchVenue(%q) = %q, want %q", tt.comment, got, tt.want)
			}
		})
	}
}

func TestResolveFallsBackToJournalRef(t *testing.T) {
	r := NewResolver(testVenues, nil)
	if got := r.Resolve("10 pages", "Phys. Fluids 37, 015101 (2025); Physics of Fluids"); got != "Physics of Fluids" {
		t.Errorf("Resolve() = %q, want Physics of Fluids", got)
	}
	if got := r.Resolve("ICML 2025", "Physics of Fluids"); got != "ICML" {
		t.Errorf("Resolve() = %q, comment should win", got)
	}
}

func TestImpact(t *testing.T) {
	r := NewResolver(nil, nil)
	tests := []struct {
		name  string
		venue string
		cats  []string
		want  *float64
	}{
		{"journal", "Journal of Fluid Mechanics", nil, ptr(4.0)},
		{"conference substring", "NeurIPS 2025 Workshop", nil, ptr(14.0)},
		{"table order decides", "Nature Machine Intelligence", nil, ptr(64.8)},
		{"unknown venue", "Some Workshop", nil, nil},
		{"category fallback", "", []string{"physics.flu-dyn", "cs.LG"}, nil},
		{"category contains key", "", []string{"ICLR-track"}, ptr(10.0)},
		{"no venue no categories", "", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Impact(tt.venue, tt.cats)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Impact() = %v, want absent", *got)
			case tt.want != nil && got == nil:
				t.Errorf("Impact() absent, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("Impact() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestImpactZeroScoreIsPresent(t *testing.T) {
	r := NewResolver(nil, types.ImpactFactors{{Name: "Workshop", Score: 0}})
	got := r.Impact("Workshop on Flows", nil)
	if got == nil || *got != 0 {
		t.Errorf("Impact() = %v, want present zero", got)
	}
}

func TestApply(t *testing.T) {
	r := NewResolver(testVenues, nil)
	p := types.PaperRecord{Comment: "Published in Physics of Fluids"}
	r.Apply(&p)
	if p.Conference != "Physics of Fluids" {
		t.Errorf("Conference = %q", p.Conference)
	}
	if p.ImpactFactor == nil || *p.ImpactFactor != 3.5 {
		t.Errorf("ImpactFactor = %v, want 3.5", p.ImpactFactor)
	}
}

func ptr(f float64) *float64 { return &f }
