package extract

import (
	"github.com/rs/zerolog/log"

	"recipebox/internal/recipe"
)

// Result is the outcome of one strategy: either a matched draft or no match.
type Result struct {
	draft *recipe.Draft
}

// Matched wraps a draft found by a strategy.
func Matched(d *recipe.Draft) Result {
	if d == nil {
		d = recipe.NewDraft()
	}
	return Result{draft: d}
}

// NoMatch reports that a strategy found nothing.
func NoMatch() Result { return Result{} }

// IsMatch reports whether the strategy produced a draft.
func (r Result) IsMatch() bool { return r.draft != nil }

// Draft returns the matched draft, or nil for NoMatch.
func (r Result) Draft() *recipe.Draft { return r.draft }

// Strategy is one attempt at locating a recipe in a page.
type Strategy interface {
	Name() string
	Extract(doc *Document) Result
}

// Chain runs strategies in order; the first match wins.
type Chain []Strategy

// ChainOptions toggles optional strategies.
type ChainOptions struct {
	// LegacyKeywordFallback inserts the keyword line classifier before the sentinel.
	LegacyKeywordFallback bool
	// LegacyMaxSteps caps the steps kept by the keyword classifier.
	LegacyMaxSteps int
}

// DefaultChain is structured data, then class heuristics, then (optionally)
// keyword lines, then the sentinel.
func DefaultChain(opts ChainOptions) Chain {
	c := Chain{StructuredData{}, ClassHeuristic{}}
	if opts.LegacyKeywordFallback {
		c = append(c, KeywordLines{MaxSteps: opts.LegacyMaxSteps})
	}
	return append(c, Sentinel{})
}

// Names lists the strategy names in evaluation order.
func (c Chain) Names() []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = s.Name()
	}
	return out
}

// Run evaluates the chain against doc. When no strategy matches, the sentinel
// draft is returned, so the result is never nil.
func (c Chain) Run(doc *Document) *recipe.Draft {
	for _, s := range c {
		res := s.Extract(doc)
		if !res.IsMatch() {
			log.Debug().Str("strategy", s.Name()).Msg("no match")
			continue
		}
		d := res.Draft()
		d.Strategy = s.Name()
		return d
	}
	d := recipe.NotFoundDraft()
	d.Strategy = SentinelName
	return d
}
