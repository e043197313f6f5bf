// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seo runs a metadata optimization pass over a generated article.
// A fast model proposes title, description, categories, tags and keywords as
// a JSON object; when the response cannot be parsed the article passes
// through unchanged, a bad pass must never lose a good article.
package seo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/internal/llmjson"
	"github.com/pdiddy/content-engine/pkg/types"
)

// TextModel is the LLM call surface the pass depends on.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string, opts gemini.GenerateOptions) (gemini.TextResult, error)
}

// suggestion is the JSON object the model is asked to return.
type suggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	Keywords    []string `json:"keywords"`
	Score       int      `json:"score"`
}

// Optimize fills in the article's SEO metadata. Parse or API failures are
// reported on w and leave the article unchanged.
func Optimize(ctx context.Context, model TextModel, art types.Article, cfg types.SEOConfig, w io.Writer) types.Article {
	if !cfg.Enabled {
		return art
	}

	out, err := model.GenerateText(ctx, optimizePrompt(art), gemini.GenerateOptions{
		Model:       cfg.Model,
		Temperature: 0.2,
	})
	if err != nil {
		fmt.Fprintf(w, "warning: seo pass failed: %v\n", err)
		return art
	}

	raw, err := llmjson.Object(out.Text)
	if err != nil {
		fmt.Fprintf(w, "warning: seo pass returned no JSON, keeping original metadata\n")
		return art
	}
	var s suggestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		fmt.Fprintf(w, "warning: seo pass returned malformed JSON: %v\n", err)
		return art
	}

	if s.Title != "" {
		art.Title = s.Title
	}
	if s.Description != "" {
		art.Description = s.Description
	}
	if len(s.Categories) > 0 {
		art.Categories = s.Categories
	}
	if len(s.Tags) > 0 {
		art.Tags = s.Tags
	}
	if len(s.Keywords) > 0 {
		art.Keywords = s.Keywords
	}
	art.SEOScore = s.Score
	return art
}

func optimizePrompt(art types.Article) string {
	return fmt.Sprintf(`You are an SEO editor. Review the blog article below and return a JSON
object with optimized metadata:

{"title": "...", "description": "...", "categories": ["..."], "tags": ["..."],
 "keywords": ["..."], "score": 0-100}

- title: under 60 characters, keyword-leading, faithful to the content.
- description: under 160 characters.
- categories: 1-2 broad site categories. tags: 3-8 specific tags.
- keywords: the search phrases the article should rank for.
- score: your estimate of the article's current SEO quality.
Return the JSON object only.

Current title: %s
Current description: %s

Article:
%s`, art.Title, art.Description, truncate(art.Content, 6000))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return cut
}
