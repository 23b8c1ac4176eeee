// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns topical tags to papers with substring keyword
// rules. Each configured category falls into a rule bucket by exact name;
// a fallback pass afterwards adds tags the category rules missed.
package classify

import (
	"strings"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// Scheme names the categories that get special rules. Matching against
// configured category names is exact.
type Scheme struct {
	// CrossDomain requires both a fluid and an ML pool term.
	CrossDomain string
	// MLAugmented is tagged on its own keywords, and also whenever its
	// name occurs literally in the text.
	MLAugmented string
	// ML is tagged on its own keywords.
	ML string
	// PureDomain categories are tagged on their own keywords.
	PureDomain []string
	// GenericDomain is added whenever any fluid pool term matches.
	GenericDomain string
	// Multiphase and Aerodynamics are force-added when any of their
	// trigger terms occur.
	Multiphase        string
	MultiphaseTerms   []string
	Aerodynamics      string
	AerodynamicsTerms []string
}

// DefaultScheme returns the built-in category names.
func DefaultScheme() Scheme {
	return Scheme{
		CrossDomain:       "CFD与机器学习交叉",
		MLAugmented:       "智能流体力学",
		ML:                "机器学习",
		PureDomain:        []string{"多相流", "空气动力学", "流体力学"},
		GenericDomain:     "流体力学",
		Multiphase:        "多相流",
		MultiphaseTerms:   []string{"多相流", "multiphase flow"},
		Aerodynamics:      "空气动力学",
		AerodynamicsTerms: []string{"空气动力学", "aerodynamics"},
	}
}

// Pools are the fixed keyword pools that decide has-fluid and has-ML,
// independent of the configured categories.
type Pools struct {
	Fluid []string
	ML    []string
}

// DefaultPools returns the built-in fluid and machine-learning pools.
func DefaultPools() Pools {
	return Pools{
		Fluid: []string{
			"cfd", "fluid dynamics", "turbulence", "aerodynamics", "multiphase flow",
			"流体力学", "空气动力学", "多相流", "湍流", "流动模拟",
			"计算流体力学", "数值模拟", "数值计算", "flow modeling", "flow computation",
		},
		ML: []string{
			"machine learning", "deep learning", "neural network", "pinn", "data-driven",
			"智能流体力学", "机器学习", "深度学习",
			"神经网络", "强化学习", "迁移学习", "监督学习", "无监督学习",
			"物理信息神经网络", "代理模型", "reduced-order model", "rom",
			"cnn", "rnn", "gan", "data-driven modeling", "surrogate model",
		},
	}
}

// Classifier tags papers. It holds no mutable state and is safe to share.
type Classifier struct {
	scheme Scheme
	fluid  []string
	ml     []string
}

// New returns a classifier for the given scheme and pools. Pool terms are
// lowercased once here.
func New(scheme Scheme, pools Pools) *Classifier {
	return &Classifier{
		scheme: scheme,
		fluid:  lowerAll(pools.Fluid),
		ml:     lowerAll(pools.ML),
	}
}

// Default returns a classifier with the built-in scheme and pools.
func Default() *Classifier {
	return New(DefaultScheme(), DefaultPools())
}

// Classify returns the tags for a paper, in the order they were added.
// Matching is plain substring containment over the lowercased title and
// abstract, so short terms like "rom" or "gan" can over-match.
func (c *Classifier) Classify(title, abstract string, categories types.Categories) []string {
	text := strings.ToLower(title + " " + abstract)
	hasFluid := containsAny(text, c.fluid)
	hasML := containsAny(text, c.ml)

	var tags tagSet
	for _, cat := range categories {
		switch {
		case cat.Name == c.scheme.CrossDomain:
			if hasFluid && hasML {
				tags.add(cat.Name)
			}
		case cat.Name == c.scheme.MLAugmented, cat.Name == c.scheme.ML, c.isPureDomain(cat.Name):
			if containsAny(text, lowerAll(cat.Keywords)) {
				tags.add(cat.Name)
			}
		}
	}

	if hasFluid && c.scheme.GenericDomain != "" {
		tags.add(c.scheme.GenericDomain)
	}
	if name := c.scheme.MLAugmented; name != "" && strings.Contains(text, strings.ToLower(name)) {
		tags.add(name)
	}
	if c.scheme.Multiphase != "" && containsAny(text, lowerAll(c.scheme.MultiphaseTerms)) {
		tags.add(c.scheme.Multiphase)
	}
	if c.scheme.Aerodynamics != "" && containsAny(text, lowerAll(c.scheme.AerodynamicsTerms)) {
		tags.add(c.scheme.Aerodynamics)
	}
	return tags.items
}

// Unrecognized returns configured category names that match no rule
// bucket. Such categories are never tagged.
func (c *Classifier) Unrecognized(categories types.Categories) []string {
	var out []string
	for _, cat := range categories {
		switch {
		case cat.Name == c.scheme.CrossDomain, cat.Name == c.scheme.MLAugmented,
			cat.Name == c.scheme.ML, c.isPureDomain(cat.Name):
		default:
			out = append(out, cat.Name)
		}
	}
	return out
}

func (c *Classifier) isPureDomain(name string) bool {
	for _, n := range c.scheme.PureDomain {
		if n == name {
			return true
		}
	}
	return false
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}

type tagSet struct {
	items []string
}

func (s *tagSet) add(tag string) {
	for _, t := range s.items {
		if t == tag {
			return
		}
	}
	s.items = append(s.items, tag)
}
