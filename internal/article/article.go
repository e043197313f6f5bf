// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package article turns a research result into a long-form Markdown blog
// article. The model writes the body; this package enforces the house
// conventions afterwards: no emoji, a sources section at the end, and a
// parseable title and description.
package article

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/internal/jst"
	"github.com/pdiddy/content-engine/internal/research"
	"github.com/pdiddy/content-engine/pkg/types"
)

// TextModel is the LLM call surface the writer depends on. *gemini.Client
// satisfies it; tests supply mocks.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string, opts gemini.GenerateOptions) (gemini.TextResult, error)
}

const (
	defaultMinChars = 3000
	defaultMaxChars = 6000
)

// Generate writes an article from res. The returned article carries the
// generated title, description and body; emoji are stripped and a sources
// section is appended when the model forgot one.
func Generate(ctx context.Context, model TextModel, res types.ResearchResult, topic research.Topic, cfg types.ArticleConfig) (types.Article, error) {
	minChars, maxChars := cfg.MinChars, cfg.MaxChars
	if minChars <= 0 {
		minChars = defaultMinChars
	}
	if maxChars <= minChars {
		maxChars = minChars + defaultMaxChars - defaultMinChars
	}

	out, err := model.GenerateText(ctx, writePrompt(res, topic, minChars, maxChars), gemini.GenerateOptions{
		Model:       cfg.Model,
		Temperature: 0.7,
		MaxTokens:   8192,
	})
	if err != nil {
		return types.Article{}, fmt.Errorf("writing article for %s: %w", res.Topic, err)
	}

	body := StripEmoji(out.Text)
	title, description, body := splitHeader(body)
	if title == "" {
		title = fmt.Sprintf("%s: %s", res.TopicName, jst.Date(res.DateTo))
	}
	body = EnsureSourcesSection(body, res.Sources)

	return types.Article{
		Topic:        res.Topic,
		Title:        title,
		Description:  description,
		Content:      body,
		Sources:      res.Sources,
		ResearchDate: jst.Date(res.DateTo),
	}, nil
}

func writePrompt(res types.ResearchResult, topic research.Topic, minChars, maxChars int) string {
	return fmt.Sprintf(`You are a professional tech blogger writing for %s. Write a complete blog
article in Markdown from the research notes below.

Rules:
- First line: "TITLE: <article title>". Second line: "DESCRIPTION: <one-sentence summary>".
  Then a blank line and the article body.
- Body length between %d and %d characters.
- Use ## section headings, short paragraphs, and concrete facts with dates.
- Keep every source link from the notes as an inline Markdown link.
- End with a "## Sources" section listing the references.
- Plain text only. No emoji.
- Tone: %s.

Topic: %s
Research period: %s to %s

Research notes:
%s`,
		topic.TargetAudience, minChars, maxChars, topic.Voice, res.TopicName,
		jst.Date(res.DateFrom), jst.Date(res.DateTo), res.Content)
}

// headerLine matches the TITLE:/DESCRIPTION: preamble the prompt requests.
var headerLine = regexp.MustCompile(`(?m)^(TITLE|DESCRIPTION):\s*(.+)$`)

// splitHeader pulls the TITLE and DESCRIPTION lines off the top of the
// generated text and returns the remaining body. Models that ignore the
// preamble instructions yield empty title and description.
func splitHeader(text string) (title, description, body string) {
	body = text
	for _, m := range headerLine.FindAllStringSubmatch(text, 4) {
		switch m[1] {
		case "TITLE":
			if title == "" {
				title = strings.TrimSpace(m[2])
			}
		case "DESCRIPTION":
			if description == "" {
				description = strings.TrimSpace(m[2])
			}
		}
	}
	body = headerLine.ReplaceAllString(body, "")
	return title, description, strings.TrimSpace(body)
}

// emojiRanges covers the Unicode blocks TTS engines and Jekyll themes choke
// on: emoticons, pictographs, transport symbols, flags, dingbats and the
// misc symbols block, plus variation selectors and ZWJ.
var emojiRanges = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{1F000}-\x{1F2FF}\x{2600}-\x{27BF}\x{FE00}-\x{FE0F}\x{200D}\x{2B00}-\x{2BFF}]`)

// StripEmoji removes emoji and related joiner characters from text.
func StripEmoji(text string) string {
	return emojiRanges.ReplaceAllString(text, "")
}

var sourcesHeading = regexp.MustCompile(`(?mi)^##\s+(sources|references|参考文献)\s*$`)

// EnsureSourcesSection appends a "## Sources" section built from sources
// when the article body does not already carry one.
func EnsureSourcesSection(body string, sources []types.Source) string {
	if sourcesHeading.MatchString(body) || len(sources) == 0 {
		return body
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n## Sources\n\n")
	for _, s := range sources {
		title := s.Title
		if title == "" {
			title = s.URL
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", title, s.URL)
	}
	return b.String()
}
