// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/internal/httputil"
	"github.com/pdiddy/content-engine/pkg/types"
)

// --- mocks ---

type mockGenerator struct {
	responses []gemini.TextResult
	errs      []error
	calls     int
	prompts   []string
}

func (m *mockGenerator) GenerateText(_ context.Context, prompt string, _ gemini.GenerateOptions) (gemini.TextResult, error) {
	i := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if i < len(m.errs) && m.errs[i] != nil {
		return gemini.TextResult{}, m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return gemini.TextResult{Text: "filler"}, nil
}

type mockBackend struct {
	name   string
	result types.ResearchResult
	err    error
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Research(context.Context, Topic, Window, types.ResearchConfig) (types.ResearchResult, error) {
	return m.result, m.err
}

func testCfg() types.ResearchConfig {
	return types.ResearchConfig{
		AIConfig:    types.AIConfig{Model: "gemini-2.0-flash", MaxRetries: 1},
		MaxAgeDays:  7,
		SearchCount: 3,
	}
}

// --- Run ---

func TestRunFirstBackendWins(t *testing.T) {
	primary := &mockBackend{name: "deep_research", result: types.ResearchResult{Method: types.MethodDeepResearch}}
	fallback := &mockBackend{name: "multi_search", result: types.ResearchResult{Method: types.MethodMultiSearch}}

	var buf bytes.Buffer
	res, err := Run(context.Background(), []Backend{primary, fallback}, Topic{ID: "ai_tools"}, testCfg(), &buf)
	require.NoError(t, err)

	assert.Equal(t, types.MethodDeepResearch, res.Method)
	assert.Empty(t, res.FallbackReason)
}

func TestRunFallsBackAndRecordsReason(t *testing.T) {
	primary := &mockBackend{name: "deep_research", err: fmt.Errorf("quota exhausted")}
	fallback := &mockBackend{name: "multi_search", result: types.ResearchResult{Method: types.MethodMultiSearch}}

	var buf bytes.Buffer
	res, err := Run(context.Background(), []Backend{primary, fallback}, Topic{ID: "ai_tools"}, testCfg(), &buf)
	require.NoError(t, err)

	assert.Equal(t, types.MethodMultiSearch, res.Method)
	assert.Contains(t, res.FallbackReason, "deep_research")
	assert.Contains(t, res.FallbackReason, "quota exhausted")
	assert.Contains(t, buf.String(), "deep_research backend failed")
}

func TestRunAllBackendsFail(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(context.Background(), []Backend{
		&mockBackend{name: "deep_research", err: fmt.Errorf("boom")},
		&mockBackend{name: "multi_search", err: fmt.Errorf("also boom")},
	}, Topic{ID: "ai_tools"}, testCfg(), &buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all research backends failed")
}

func TestRunNoBackends(t *testing.T) {
	_, err := Run(context.Background(), nil, Topic{}, testCfg(), &bytes.Buffer{})
	require.Error(t, err)
}

// --- RunTopic ---

// topicBackend answers per topic id, unlike mockBackend's single canned result.
type topicBackend struct {
	results map[string]types.ResearchResult
	errs    map[string]error
}

func (b *topicBackend) Name() string { return "multi_search" }

func (b *topicBackend) Research(_ context.Context, topic Topic, _ Window, _ types.ResearchConfig) (types.ResearchResult, error) {
	if err := b.errs[topic.ID]; err != nil {
		return types.ResearchResult{}, err
	}
	return b.results[topic.ID], nil
}

func summaryRegistry() *Registry {
	return &Registry{Topics: []Topic{
		{ID: "tools", Name: "AI Tools"},
		{ID: "papers", Name: "AI Research"},
		{ID: "weekly", Name: "This Week in AI", IsSummary: true, SummaryTopics: []string{"tools", "papers"}},
	}}
}

func TestRunTopicAggregatesSummaryMembers(t *testing.T) {
	reg := summaryRegistry()
	backend := &topicBackend{results: map[string]types.ResearchResult{
		"tools": {
			Topic: "tools", TopicName: "AI Tools", Content: "tool findings",
			Sources: []types.Source{{Title: "A", URL: "https://a.example"}}, SearchCount: 3,
			Method: types.MethodMultiSearch,
		},
		"papers": {
			Topic: "papers", TopicName: "AI Research", Content: "paper findings",
			Sources: []types.Source{{Title: "A", URL: "https://a.example"}, {Title: "B", URL: "https://b.example"}},
			SearchCount: 2, Method: types.MethodMultiSearch,
		},
	}}

	summary, err := reg.Find("weekly")
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := RunTopic(context.Background(), []Backend{backend}, reg, summary, testCfg(), &buf)
	require.NoError(t, err)

	assert.Equal(t, "weekly", res.Topic)
	assert.Equal(t, "This Week in AI", res.TopicName)
	assert.Contains(t, res.Content, "## AI Tools")
	assert.Contains(t, res.Content, "## AI Research")
	assert.Contains(t, res.Content, "tool findings")
	assert.Contains(t, res.Content, "paper findings")
	assert.Len(t, res.Sources, 2)
	assert.Equal(t, 5, res.SearchCount)
}

func TestRunTopicSkipsFailedMember(t *testing.T) {
	reg := summaryRegistry()
	backend := &topicBackend{
		results: map[string]types.ResearchResult{
			"papers": {Topic: "papers", TopicName: "AI Research", Content: "paper findings"},
		},
		errs: map[string]error{"tools": fmt.Errorf("quota exhausted")},
	}

	summary, err := reg.Find("weekly")
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := RunTopic(context.Background(), []Backend{backend}, reg, summary, testCfg(), &buf)
	require.NoError(t, err)

	assert.NotContains(t, res.Content, "## AI Tools")
	assert.Contains(t, res.Content, "## AI Research")
	assert.Contains(t, buf.String(), "summary member tools failed")
}

func TestRunTopicAllMembersFail(t *testing.T) {
	reg := summaryRegistry()
	backend := &topicBackend{errs: map[string]error{
		"tools":  fmt.Errorf("boom"),
		"papers": fmt.Errorf("boom"),
	}}

	summary, err := reg.Find("weekly")
	require.NoError(t, err)

	_, err = RunTopic(context.Background(), []Backend{backend}, reg, summary, testCfg(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every member of summary topic weekly failed")
}

func TestRunTopicPlainTopicMatchesRun(t *testing.T) {
	reg := summaryRegistry()
	backend := &topicBackend{results: map[string]types.ResearchResult{
		"tools": {Topic: "tools", Content: "tool findings", Method: types.MethodMultiSearch},
	}}

	plain, err := reg.Find("tools")
	require.NoError(t, err)

	res, err := RunTopic(context.Background(), []Backend{backend}, reg, plain, testCfg(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "tool findings", res.Content)
	assert.Equal(t, types.MethodMultiSearch, res.Method)
}

// --- MultiSearchBackend ---

func TestMultiSearchMergesAnglesAndSources(t *testing.T) {
	gen := &mockGenerator{
		responses: []gemini.TextResult{
			{Text: "News item [A](https://example.com/a)", Sources: []types.Source{{URL: "https://example.com/x"}}},
			{Text: "Study result [B](https://example.com/b)"},
			{Text: "Data point [A again](https://example.com/a)"},
		},
	}

	b := &MultiSearchBackend{Model: gen}
	res, err := b.Research(context.Background(), Topic{ID: "ai_tools", Name: "AI Tools"}, NewWindow(7), testCfg())
	require.NoError(t, err)

	assert.Equal(t, types.MethodMultiSearch, res.Method)
	assert.Equal(t, 3, res.SearchCount)
	assert.Contains(t, res.Content, "News item")
	assert.Contains(t, res.Content, "Study result")

	urls := make([]string, 0, len(res.Sources))
	for _, s := range res.Sources {
		urls = append(urls, s.URL)
	}
	assert.ElementsMatch(t, []string{"https://example.com/x", "https://example.com/a", "https://example.com/b"}, urls)
}

func TestMultiSearchToleratesPartialFailure(t *testing.T) {
	gen := &mockGenerator{
		responses: []gemini.TextResult{{}, {Text: "only survivor"}, {}},
		errs:      []error{fmt.Errorf("rate limited"), nil, fmt.Errorf("timeout")},
	}

	b := &MultiSearchBackend{Model: gen}
	res, err := b.Research(context.Background(), Topic{ID: "t"}, NewWindow(7), testCfg())
	require.NoError(t, err)

	assert.Equal(t, 1, res.SearchCount)
	assert.Contains(t, res.Content, "only survivor")
}

func TestMultiSearchAllAnglesFail(t *testing.T) {
	gen := &mockGenerator{
		errs: []error{fmt.Errorf("a"), fmt.Errorf("b"), fmt.Errorf("c")},
	}

	b := &MultiSearchBackend{Model: gen}
	_, err := b.Research(context.Background(), Topic{ID: "t"}, NewWindow(7), testCfg())
	require.Error(t, err)
}

// --- DeepResearchBackend ---

func TestDeepResearchPlansInvestigatesSynthesizes(t *testing.T) {
	gen := &mockGenerator{
		responses: []gemini.TextResult{
			{Text: "```json\n[\"query one\", \"query two\"]\n```"},
			{Text: "finding one [S1](https://example.com/1)"},
			{Text: "finding two [S2](https://example.com/2)"},
			{Text: "final report"},
		},
	}

	b := &DeepResearchBackend{Model: gen}
	res, err := b.Research(context.Background(), Topic{ID: "t", Name: "T"}, NewWindow(7), testCfg())
	require.NoError(t, err)

	assert.Equal(t, types.MethodDeepResearch, res.Method)
	assert.Equal(t, 2, res.SearchCount)
	assert.Equal(t, "final report", res.Content)
	assert.Len(t, res.Sources, 2)

	// The synthesis prompt carries both findings.
	last := gen.prompts[len(gen.prompts)-1]
	assert.Contains(t, last, "finding one")
	assert.Contains(t, last, "finding two")
}

func TestDeepResearchFailsOnBadPlan(t *testing.T) {
	gen := &mockGenerator{
		responses: []gemini.TextResult{{Text: "no json here"}},
	}

	b := &DeepResearchBackend{Model: gen}
	_, err := b.Research(context.Background(), Topic{ID: "t"}, NewWindow(7), testCfg())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planning sub-queries")
}

// --- helpers ---

func TestExtractLinkedSources(t *testing.T) {
	text := "See [OpenAI blog](https://openai.com/blog) and [study](https://doi.org/10.1/x)."
	sources := ExtractLinkedSources(text)
	require.Len(t, sources, 2)
	assert.Equal(t, "OpenAI blog", sources[0].Title)
	assert.Equal(t, "https://openai.com/blog", sources[0].URL)
}

func TestMergeSourcesPrefersTitled(t *testing.T) {
	dst := []types.Source{{URL: "https://a.example"}}
	merged := MergeSources(dst, []types.Source{
		{URL: "https://a.example", Title: "A"},
		{URL: "https://b.example", Title: "B"},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "A", merged[0].Title)
	assert.Equal(t, "B", merged[1].Title)
}

func TestNewWindowSpan(t *testing.T) {
	w := NewWindow(7)
	assert.InDelta(t, 7*24, w.To.Sub(w.From).Hours(), 1)
	assert.True(t, strings.Contains(w.String(), " to "))
}

// --- VerifySources ---

func TestVerifySources(t *testing.T) {
	httputil.RetryBaseDelay = time.Millisecond

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/dead") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	sources := []types.Source{
		{URL: ts.URL + "/alive"},
		{URL: ts.URL + "/dead"},
	}

	var buf bytes.Buffer
	verified := VerifySources(context.Background(), ts.Client(), sources, testCfg(), &buf)

	assert.True(t, verified[0].Verified)
	assert.False(t, verified[1].Verified)
	assert.Contains(t, buf.String(), "HTTP 404")
}
