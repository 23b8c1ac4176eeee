// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package venue resolves a paper's publication venue from its free-form
// comment and looks up a venue impact score.
package venue

import (
	"strings"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// DefaultImpactTable returns the built-in venue scores. Journals carry their
// impact factor; conferences carry a ranking score on the same scale.
// Order matters: the first contained key wins.
func DefaultImpactTable() types.ImpactFactors {
	return types.ImpactFactors{
		{Name: "Nature", Score: 64.8},
		{Name: "Science", Score: 63.8},
		{Name: "PAMI", Score: 24.3},
		{Name: "JMLR", Score: 6.8},
		{Name: "TPAMI", Score: 24.3},
		{Name: "IJCV", Score: 19.5},
		{Name: "Journal of Computational Physics", Score: 5.6},
		{Name: "Computers & Fluids", Score: 3.7},
		{Name: "Journal of Fluid Mechanics", Score: 4.0},
		{Name: "AIAA Journal", Score: 2.2},
		{Name: "International Journal for Numerical Methods in Fluids", Score: 2.1},
		{Name: "Physics of Fluids", Score: 3.5},
		{Name: "Computational Mechanics", Score: 3.2},
		{Name: "Journal of Machine Learning for Science and Technology", Score: 2.5},

		{Name: "NeurIPS", Score: 14.0},
		{Name: "ICML", Score: 12.0},
		{Name: "ICLR", Score: 10.0},
		{Name: "CVPR", Score: 11.2},
		{Name: "ICCV", Score: 10.5},
		{Name: "ECCV", Score: 8.5},
		{Name: "ACL", Score: 7.1},
		{Name: "EMNLP", Score: 6.2},
		{Name: "NAACL", Score: 5.5},
		{Name: "AAAI", Score: 7.7},
		{Name: "IJCAI", Score: 5.6},
		{Name: "KDD", Score: 6.9},
		{Name: "IROS", Score: 4.7},
		{Name: "ICRA", Score: 4.3},
		{Name: "AIAA SciTech Forum", Score: 3.0},
		{Name: "ASME Fluids Engineering Division Meeting", Score: 2.5},
		{Name: "International Conference on Computational Fluid Dynamics", Score: 3.5},
		{Name: "International Conference on Numerical Methods in Fluid Dynamics", Score: 3.0},
		{Name: "International Symposium on Turbulence and Shear Flow Phenomena", Score: 3.0},
		{Name: "Conference on Machine Learning for Fluid Dynamics", Score: 4.0},
		{Name: "International Conference on Computational Mechanics", Score: 3.0},
		{Name: "European Conference on Computational Fluid Dynamics", Score: 3.0},
	}
}

// Resolver matches venues and scores. Both lists are read-only after
// construction.
type Resolver struct {
	venues []string
	table  types.ImpactFactors
}

// NewResolver returns a resolver over the known venue names and impact
// table. A nil table uses DefaultImpactTable.
func NewResolver(venues []string, table types.ImpactFactors) *Resolver {
	if table == nil {
		table = DefaultImpactTable()
	}
	return &Resolver{venues: venues, table: table}
}

// MatchVenue returns the first known venue whose name occurs in text,
// case-insensitively, or "" when none does.
func (r *Resolver) MatchVenue(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, v := range r.venues {
		if v != "" && strings.Contains(lower, strings.ToLower(v)) {
			return v
		}
	}
	return ""
}

// Resolve returns the venue for a paper from its comment, falling back to
// the journal reference when the comment names no known venue.
func (r *Resolver) Resolve(comment, journalRef string) string {
	if v := r.MatchVenue(comment); v != "" {
		return v
	}
	return r.MatchVenue(journalRef)
}

// Impact returns the score of the first table entry whose name is contained
// in venueName. Without a venue, each category code is tested the same way.
// It returns nil when nothing matches.
func (r *Resolver) Impact(venueName string, categories []string) *float64 {
	if venueName != "" {
		return r.lookup(venueName)
	}
	for _, cat := range categories {
		if score := r.lookup(cat); score != nil {
			return score
		}
	}
	return nil
}

func (r *Resolver) lookup(name string) *float64 {
	lower := strings.ToLower(name)
	for _, e := range r.table {
		if e.Name != "" && strings.Contains(lower, strings.ToLower(e.Name)) {
			score := e.Score
			return &score
		}
	}
	return nil
}

// Apply sets the conference and impact factor of p.
func (r *Resolver) Apply(p *types.PaperRecord) {
	p.Conference = r.Resolve(p.Comment, p.JournalRef)
	p.ImpactFactor = r.Impact(p.Conference, p.Categories)
}
