// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords derives keyword lists for a paper. The custom extractor
// matches a fixed vocabulary against title and abstract; the official
// extractor reads author-supplied "Keywords: a, b; c" lists.
package keywords

import (
	"regexp"
	"strings"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// MaxKeywords bounds the custom extractor output.
const MaxKeywords = 10

// DefaultCoreTerms are high-frequency domain terms checked after the
// category vocabulary.
var DefaultCoreTerms = []string{
	"计算流体力学", "数值模拟", "数值计算", "物理信息神经网络", "代理模型", "rom",
	"深度学习", "神经网络", "强化学习", "迁移学习", "监督学习", "无监督学习",
	"cfd", "fluid dynamics", "turbulence", "aerodynamics", "multiphase flow",
	"machine learning", "deep learning", "pinn", "neural network",
}

// Extractor matches vocabulary terms by plain substring containment, so
// short terms such as "rom" also match inside longer words.
type Extractor struct {
	// Vocabulary holds the lowercased category keywords in config order.
	Vocabulary []string
	// CoreTerms are tried after the vocabulary.
	CoreTerms []string
	// Max caps the result; zero or less means MaxKeywords.
	Max int
}

// NewExtractor builds an extractor over every keyword of every category,
// deduplicated in config order, with the default core terms.
func NewExtractor(categories types.Categories) *Extractor {
	var vocab []string
	seen := make(map[string]bool)
	for _, c := range categories {
		for _, kw := range c.Keywords {
			kw = strings.ToLower(kw)
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			vocab = append(vocab, kw)
		}
	}
	return &Extractor{Vocabulary: vocab, CoreTerms: DefaultCoreTerms, Max: MaxKeywords}
}

// Extract returns the vocabulary terms found in title+abstract followed by
// the core terms found there, truncated to the cap in discovery order.
func (e *Extractor) Extract(title, abstract string) []string {
	max := e.Max
	if max <= 0 {
		max = MaxKeywords
	}
	text := strings.ToLower(title + " " + abstract)

	var out set
	for _, kw := range e.Vocabulary {
		if strings.Contains(text, kw) {
			out.add(kw)
		}
	}
	for _, kw := range e.CoreTerms {
		kw = strings.ToLower(kw)
		if strings.Contains(text, kw) {
			out.add(kw)
		}
	}
	if len(out.items) > max {
		return out.items[:max]
	}
	return out.items
}

// officialPattern matches "Keywords: ...", "Key words: ..." and "关键词：..."
// labels; the list runs to the next period or newline.
var officialPattern = regexp.MustCompile(`(?i)(?:key\s*words?|关键词)\s*[:：]\s*([^.\n]+)`)

var listSeparator = regexp.MustCompile(`[,;，；]`)

// ExtractOfficial returns the keywords the authors listed in the abstract or
// comment, lowercased, trimmed and deduplicated in first-seen order.
func ExtractOfficial(abstract, comment string) []string {
	// A newline between the two keeps a list at the end of the abstract
	// from running into the comment.
	text := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(abstract, "\n", " ")) + "\n" + comment)

	var out set
	for _, m := range officialPattern.FindAllStringSubmatch(text, -1) {
		for _, kw := range listSeparator.Split(m[1], -1) {
			if kw = strings.TrimSpace(kw); kw != "" {
				out.add(kw)
			}
		}
	}
	return out.items
}

// Merge returns the union of official and custom keywords, official first,
// deduplicated by lowercase form. The union is not capped.
func Merge(official, custom []string) []string {
	var out set
	for _, list := range [][]string{official, custom} {
		for _, kw := range list {
			out.add(strings.ToLower(kw))
		}
	}
	return out.items
}

// Apply fills the keyword fields of p according to mode.
func (e *Extractor) Apply(p *types.PaperRecord, mode types.KeywordMode) {
	p.OfficialKeywords = nonNil(ExtractOfficial(p.Abstract, p.Comment))
	p.CustomKeywords = nonNil(e.Extract(p.Title, p.Abstract))
	if mode == types.KeywordsCustom {
		p.Keywords = append([]string{}, p.CustomKeywords...)
		return
	}
	p.Keywords = nonNil(Merge(p.OfficialKeywords, p.CustomKeywords))
}

// set is an insertion-ordered string set.
type set struct {
	items []string
	seen  map[string]bool
}

func (s *set) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

// nonNil keeps empty lists serialising as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
