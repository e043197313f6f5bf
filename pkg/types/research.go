// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ResearchMethod identifies which research backend produced a result.
type ResearchMethod string

const (
	MethodDeepResearch ResearchMethod = "deep_research"
	MethodMultiSearch  ResearchMethod = "multi_search"
)

// Source is one citation attached to a research result or article.
type Source struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Verified is set when the URL answered a HEAD request.
	Verified bool `json:"verified,omitempty" yaml:"verified,omitempty"`
}

// ResearchResult is the output of the research stage for one topic.
type ResearchResult struct {
	Topic     string   `json:"topic" yaml:"topic"`
	TopicName string   `json:"topic_name" yaml:"topic_name"`
	Content   string   `json:"content" yaml:"content"`
	Sources   []Source `json:"sources" yaml:"sources"`

	// Method records which backend succeeded; SearchCount how many
	// search-grounded calls it made.
	Method      ResearchMethod `json:"method" yaml:"method"`
	SearchCount int            `json:"search_count" yaml:"search_count"`

	// DateFrom and DateTo bound the freshness window the research was
	// restricted to.
	DateFrom time.Time `json:"date_from" yaml:"date_from"`
	DateTo   time.Time `json:"date_to" yaml:"date_to"`

	// FallbackReason is set when the primary backend failed and a simpler
	// one produced this result.
	FallbackReason string `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
}
