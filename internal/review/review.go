// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review runs an editorial quality pass over a generated article.
// The model scores the article and may return a corrected body; on any
// failure the pass degrades to an approved default so the pipeline keeps
// moving.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/internal/llmjson"
	"github.com/pdiddy/content-engine/pkg/types"
)

// TextModel is the LLM call surface the pass depends on.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string, opts gemini.GenerateOptions) (gemini.TextResult, error)
}

// Status values recorded on the article after review.
const (
	StatusApproved = "approved"
	StatusFlagged  = "flagged"
	StatusSkipped  = "skipped"
)

const defaultMinScore = 70

// verdict is the JSON object the model is asked to return.
type verdict struct {
	Score            int      `json:"score"`
	Issues           []string `json:"issues"`
	CorrectedContent string   `json:"corrected_content"`
}

// Review scores the article and applies the model's corrected body when one
// is returned. Failures are reported on w and yield StatusSkipped with a
// passing score rather than blocking the run.
func Review(ctx context.Context, model TextModel, art types.Article, cfg types.ReviewConfig, w io.Writer) types.Article {
	minScore := cfg.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}

	out, err := model.GenerateText(ctx, reviewPrompt(art), gemini.GenerateOptions{
		Model:       cfg.Model,
		Temperature: 0.1,
		MaxTokens:   8192,
	})
	if err != nil {
		fmt.Fprintf(w, "warning: review pass failed: %v\n", err)
		return skipped(art, minScore)
	}

	raw, err := llmjson.Object(out.Text)
	if err != nil {
		fmt.Fprintf(w, "warning: review pass returned no JSON, skipping review\n")
		return skipped(art, minScore)
	}
	var v verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		fmt.Fprintf(w, "warning: review pass returned malformed JSON: %v\n", err)
		return skipped(art, minScore)
	}

	art.QualityScore = v.Score
	if v.CorrectedContent != "" {
		art.Content = v.CorrectedContent
	}
	if v.Score < minScore {
		fmt.Fprintf(w, "warning: article scored %d (minimum %d): %v\n", v.Score, minScore, v.Issues)
		art.ReviewStatus = StatusFlagged
	} else {
		art.ReviewStatus = StatusApproved
	}
	return art
}

// skipped marks the article as unreviewed but publishable.
func skipped(art types.Article, minScore int) types.Article {
	art.ReviewStatus = StatusSkipped
	art.QualityScore = minScore
	return art
}

func reviewPrompt(art types.Article) string {
	return fmt.Sprintf(`You are an editor. Review the blog article below for factual consistency,
structure, tone and typos. Return a JSON object:

{"score": 0-100, "issues": ["..."], "corrected_content": "..."}

- score: overall publication quality.
- issues: the concrete problems you found, empty if none.
- corrected_content: the full corrected Markdown body ONLY if you made fixes,
  otherwise an empty string.
Return the JSON object only.

Title: %s

Article:
%s`, art.Title, art.Content)
}
