// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research collects fresh, source-backed material on a topic using
// LLM-driven web search. Two backends implement the same interface per the
// Strategy pattern: a deep-research backend that plans sub-queries and
// synthesizes findings, and a simpler multi-search backend that merges a
// handful of search-grounded generations. When the primary backend fails
// the runner falls back to the next one and records why.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/internal/jst"
	"github.com/pdiddy/content-engine/internal/llmjson"
	"github.com/pdiddy/content-engine/pkg/types"
)

// Generator is the LLM call surface backends depend on. *gemini.Client
// satisfies it; tests supply mocks.
type Generator interface {
	GenerateText(ctx context.Context, prompt string, opts gemini.GenerateOptions) (gemini.TextResult, error)
}

// Window bounds research to sources published within [From, To].
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow returns the freshness window ending now (JST) and spanning
// maxAgeDays days.
func NewWindow(maxAgeDays int) Window {
	from, to := jst.Window(maxAgeDays)
	return Window{From: from, To: to}
}

func (w Window) String() string {
	return jst.Date(w.From) + " to " + jst.Date(w.To)
}

// Backend produces a research result for one topic.
type Backend interface {
	Name() string
	Research(ctx context.Context, topic Topic, window Window, cfg types.ResearchConfig) (types.ResearchResult, error)
}

// Run tries each backend in order and returns the first successful result.
// A backend failure is reported on w and recorded as the fallback reason of
// the eventual result. Only when every backend fails does Run return an error.
func Run(ctx context.Context, backends []Backend, topic Topic, cfg types.ResearchConfig, w io.Writer) (types.ResearchResult, error) {
	if len(backends) == 0 {
		return types.ResearchResult{}, fmt.Errorf("no research backends configured")
	}

	var fallbackReason string
	for _, b := range backends {
		result, err := b.Research(ctx, topic, NewWindow(cfg.MaxAgeDays), cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: %s backend failed: %v\n", b.Name(), err)
			fallbackReason = fmt.Sprintf("%s: %v", b.Name(), err)
			continue
		}

		result.FallbackReason = fallbackReason
		if cfg.MinSources > 0 && len(result.Sources) < cfg.MinSources {
			fmt.Fprintf(w, "warning: only %d source(s) found (wanted %d)\n", len(result.Sources), cfg.MinSources)
		}
		return result, nil
	}

	return types.ResearchResult{}, fmt.Errorf("all research backends failed, last: %s", fallbackReason)
}

// RunTopic researches topic, resolving summary topics through the registry:
// each member is researched in turn and the results are folded into one
// cross-topic digest. Member failures are reported on w and skipped; the
// digest fails only when every member does. A plain topic behaves exactly
// like Run.
func RunTopic(ctx context.Context, backends []Backend, reg *Registry, topic Topic, cfg types.ResearchConfig, w io.Writer) (types.ResearchResult, error) {
	members := reg.Members(topic)
	if len(members) == 1 && members[0].ID == topic.ID {
		return Run(ctx, backends, topic, cfg, w)
	}
	if len(members) == 0 {
		return types.ResearchResult{}, fmt.Errorf("summary topic %s has no resolvable members", topic.ID)
	}

	var results []types.ResearchResult
	for _, m := range members {
		res, err := Run(ctx, backends, m, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "warning: summary member %s failed: %v\n", m.ID, err)
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return types.ResearchResult{}, fmt.Errorf("every member of summary topic %s failed", topic.ID)
	}
	return Aggregate(topic, results), nil
}

// Aggregate folds member results into one result for a summary topic. Each
// member's content becomes a titled section; sources are merged and
// deduplicated; search counts are summed and the freshness window spans
// all members.
func Aggregate(topic Topic, results []types.ResearchResult) types.ResearchResult {
	agg := types.ResearchResult{
		Topic:     topic.ID,
		TopicName: topic.Name,
		Method:    results[0].Method,
		DateFrom:  results[0].DateFrom,
		DateTo:    results[0].DateTo,
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", r.TopicName, strings.TrimSpace(r.Content))
		agg.Sources = MergeSources(agg.Sources, r.Sources)
		agg.SearchCount += r.SearchCount
		if r.DateFrom.Before(agg.DateFrom) {
			agg.DateFrom = r.DateFrom
		}
		if r.DateTo.After(agg.DateTo) {
			agg.DateTo = r.DateTo
		}
	}
	agg.Content = strings.TrimSpace(b.String())
	return agg
}

// searchAngles are the perspectives the multi-search backend cycles
// through; one search-grounded generation per angle.
var searchAngles = []string{
	"latest news, announcements and developments",
	"expert commentary, published research and study results",
	"statistics, survey data and concrete case studies",
}

// MultiSearchBackend performs several independent search-grounded
// generations and merges their content and sources. It is the simpler
// fallback path and the everyday default.
type MultiSearchBackend struct {
	Model Generator
}

func (b *MultiSearchBackend) Name() string { return "multi_search" }

func (b *MultiSearchBackend) Research(ctx context.Context, topic Topic, window Window, cfg types.ResearchConfig) (types.ResearchResult, error) {
	count := cfg.SearchCount
	if count <= 0 {
		count = 3
	}

	var sections []string
	var sources []types.Source
	performed := 0

	for i := 0; i < count; i++ {
		angle := searchAngles[i%len(searchAngles)]
		prompt := searchPrompt(topic, window, angle, cfg.MaxAgeDays)

		res, err := b.Model.GenerateText(ctx, prompt, gemini.GenerateOptions{
			Model:        cfg.Model,
			Temperature:  0.4,
			EnableSearch: true,
		})
		if err != nil {
			// A single failed angle is not fatal; the merge of the
			// remaining ones still yields a usable result.
			continue
		}
		performed++
		sections = append(sections, fmt.Sprintf("## %s\n\n%s", strings.ToUpper(angle[:1])+angle[1:], res.Text))
		sources = MergeSources(sources, res.Sources)
		sources = MergeSources(sources, ExtractLinkedSources(res.Text))
	}

	if performed == 0 {
		return types.ResearchResult{}, fmt.Errorf("all %d search generations failed", count)
	}

	return types.ResearchResult{
		Topic:       topic.ID,
		TopicName:   topic.Name,
		Content:     strings.Join(sections, "\n\n"),
		Sources:     sources,
		Method:      types.MethodMultiSearch,
		SearchCount: performed,
		DateFrom:    window.From,
		DateTo:      window.To,
	}, nil
}

// DeepResearchBackend plans sub-queries for a topic, investigates each with
// a search-grounded generation, and synthesizes the findings into one
// report. It is slower and used for weekly digests; any phase failing
// fails the backend so the runner can fall back to multi-search.
type DeepResearchBackend struct {
	Model Generator
}

func (b *DeepResearchBackend) Name() string { return "deep_research" }

const maxSubQueries = 5

func (b *DeepResearchBackend) Research(ctx context.Context, topic Topic, window Window, cfg types.ResearchConfig) (types.ResearchResult, error) {
	queries, err := b.planQueries(ctx, topic, window, cfg)
	if err != nil {
		return types.ResearchResult{}, fmt.Errorf("planning sub-queries: %w", err)
	}

	var findings []string
	var sources []types.Source
	for _, q := range queries {
		res, err := b.Model.GenerateText(ctx, investigatePrompt(topic, window, q, cfg.MaxAgeDays), gemini.GenerateOptions{
			Model:        cfg.Model,
			Temperature:  0.3,
			EnableSearch: true,
		})
		if err != nil {
			return types.ResearchResult{}, fmt.Errorf("investigating %q: %w", q, err)
		}
		findings = append(findings, fmt.Sprintf("### %s\n\n%s", q, res.Text))
		sources = MergeSources(sources, res.Sources)
		sources = MergeSources(sources, ExtractLinkedSources(res.Text))
	}

	synthesis, err := b.Model.GenerateText(ctx, synthesisPrompt(topic, window, findings), gemini.GenerateOptions{
		Model:       cfg.Model,
		Temperature: 0.5,
		MaxTokens:   8192,
	})
	if err != nil {
		return types.ResearchResult{}, fmt.Errorf("synthesizing findings: %w", err)
	}

	return types.ResearchResult{
		Topic:       topic.ID,
		TopicName:   topic.Name,
		Content:     synthesis.Text,
		Sources:     sources,
		Method:      types.MethodDeepResearch,
		SearchCount: len(queries),
		DateFrom:    window.From,
		DateTo:      window.To,
	}, nil
}

func (b *DeepResearchBackend) planQueries(ctx context.Context, topic Topic, window Window, cfg types.ResearchConfig) ([]string, error) {
	prompt := fmt.Sprintf(`You are a research planner. Produce up to %d focused search queries that
together cover the most newsworthy angles of the topic below for the period %s.

Topic: %s
Keywords: %s
Focus areas: %s

Output a JSON array of query strings only.`,
		maxSubQueries, window, topic.Name,
		strings.Join(topic.Keywords, ", "), strings.Join(topic.ResearchFocus, ", "))

	res, err := b.Model.GenerateText(ctx, prompt, gemini.GenerateOptions{
		Model:       cfg.Model,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}

	raw, err := llmjson.Array(res.Text)
	if err != nil {
		return nil, err
	}
	var queries []string
	if err := json.Unmarshal([]byte(raw), &queries); err != nil {
		return nil, fmt.Errorf("parsing query plan: %w", err)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("planner returned no queries")
	}
	if len(queries) > maxSubQueries {
		queries = queries[:maxSubQueries]
	}
	return queries, nil
}

func searchPrompt(topic Topic, window Window, angle string, maxAgeDays int) string {
	return fmt.Sprintf(`Today is %s. Research the topic below and report only information published
within the last %d days (%s). Cite every fact with a concrete date and a
Markdown link [title](url) to its source. Prefer official bodies, academic
publications and specialist media. Do not include anything older than the window.

Topic: %s
Angle: %s
Keywords: %s
Focus areas: %s`,
		jst.Date(window.To), maxAgeDays, window, topic.Name, angle,
		strings.Join(topic.Keywords, ", "), strings.Join(topic.ResearchFocus, ", "))
}

func investigatePrompt(topic Topic, window Window, query string, maxAgeDays int) string {
	return fmt.Sprintf(`Today is %s. Investigate the query below in the context of the topic "%s".
Only use information published within the last %d days (%s). Report findings
with concrete dates and Markdown links [title](url) to sources.

Query: %s`, jst.Date(window.To), topic.Name, maxAgeDays, window, query)
}

func synthesisPrompt(topic Topic, window Window, findings []string) string {
	return fmt.Sprintf(`Synthesize the research findings below into a single structured report on
"%s" covering %s. Structure: highlights, notable developments per angle,
cross-cutting trends, outlook. Keep every source link intact.

%s`, topic.Name, window, strings.Join(findings, "\n\n"))
}

// markdownLink matches [title](http...) links emitted by grounded generations.
var markdownLink = regexp.MustCompile(`\[([^\[\]]+)\]\((https?://[^\s)]+)\)`)

// ExtractLinkedSources pulls Markdown-linked URLs out of generated text so
// inline citations survive even when the API returns no citation metadata.
func ExtractLinkedSources(text string) []types.Source {
	var sources []types.Source
	for _, m := range markdownLink.FindAllStringSubmatch(text, -1) {
		sources = append(sources, types.Source{Title: m[1], URL: m[2]})
	}
	return sources
}

// MergeSources appends add to dst, deduplicating by URL and preferring
// entries that carry a title.
func MergeSources(dst, add []types.Source) []types.Source {
	index := make(map[string]int, len(dst))
	for i, s := range dst {
		index[s.URL] = i
	}
	for _, s := range add {
		if s.URL == "" {
			continue
		}
		if i, ok := index[s.URL]; ok {
			if dst[i].Title == "" && s.Title != "" {
				dst[i].Title = s.Title
			}
			if dst[i].Snippet == "" && s.Snippet != "" {
				dst[i].Snippet = s.Snippet
			}
			continue
		}
		index[s.URL] = len(dst)
		dst = append(dst, s)
	}
	return dst
}
