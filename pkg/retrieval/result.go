package retrieval

import "context"

// Source identifies which retrieval path produced a result.
type Source string

const (
	SourceEncyclopedia    Source = "encyclopedia"
	SourceDisambiguation  Source = "encyclopedia_disambiguation"
	SourceWebText         Source = "web_text"
	SourceWebTextDetailed Source = "web_text_detailed"
	SourceWebNews         Source = "web_news"
	SourceFallback        Source = "fallback"
	SourceKnowledgeBase   Source = "knowledge_base"
)

// ScoredResult is the common shape every provider normalizes into.
// Immutable once produced. Identity for dedup purposes is URL when
// non-empty; results without a URL are always treated as unique.
type ScoredResult struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url,omitempty"`
	Source  Source  `json:"source"`
	Score   float64 `json:"score"`
}

// OutcomeKind tags the result variant returned by the encyclopedic adapter.
// Disambiguation and NotFound are ordinary outcomes, not errors; the
// aggregator matches on the kind instead of intercepting error values.
type OutcomeKind int

const (
	OutcomeOk OutcomeKind = iota
	OutcomeDisambiguation
	OutcomeNotFound
	OutcomeFault
)

// Outcome is the tagged adapter result.
type Outcome struct {
	Kind    OutcomeKind
	Result  *ScoredResult // set for Ok and Disambiguation
	Options []string      // candidate titles, set for Disambiguation
	Err     error         // set for Fault
}

// Adapter is a single external retrieval source normalized to the common
// result shape. Implementations own their timeouts and never propagate
// transport faults: a failed provider returns an empty slice.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query string) []ScoredResult
}
