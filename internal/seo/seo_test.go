// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seo

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/pkg/types"
)

type mockModel struct {
	text string
	err  error
}

func (m *mockModel) GenerateText(context.Context, string, gemini.GenerateOptions) (gemini.TextResult, error) {
	if m.err != nil {
		return gemini.TextResult{}, m.err
	}
	return gemini.TextResult{Text: m.text}, nil
}

func baseArticle() types.Article {
	return types.Article{Title: "Old Title", Description: "Old desc", Content: "body"}
}

func enabledCfg() types.SEOConfig {
	return types.SEOConfig{Enabled: true}
}

func TestOptimizeAppliesSuggestion(t *testing.T) {
	model := &mockModel{text: "Here you go:\n```json\n" +
		`{"title":"New Title","description":"New desc","categories":["ai"],"tags":["tools","news"],"keywords":["ai tools"],"score":85}` +
		"\n```"}

	var buf bytes.Buffer
	art := Optimize(context.Background(), model, baseArticle(), enabledCfg(), &buf)

	assert.Equal(t, "New Title", art.Title)
	assert.Equal(t, "New desc", art.Description)
	assert.Equal(t, []string{"ai"}, art.Categories)
	assert.Equal(t, []string{"tools", "news"}, art.Tags)
	assert.Equal(t, 85, art.SEOScore)
	assert.Empty(t, buf.String())
}

func TestOptimizeDisabledPassesThrough(t *testing.T) {
	art := Optimize(context.Background(), &mockModel{err: fmt.Errorf("must not be called")}, baseArticle(), types.SEOConfig{}, &bytes.Buffer{})
	assert.Equal(t, "Old Title", art.Title)
}

func TestOptimizeKeepsArticleOnBadJSON(t *testing.T) {
	var buf bytes.Buffer
	art := Optimize(context.Background(), &mockModel{text: "sorry, I cannot"}, baseArticle(), enabledCfg(), &buf)

	assert.Equal(t, "Old Title", art.Title)
	assert.Contains(t, buf.String(), "no JSON")
}

func TestOptimizeKeepsArticleOnAPIError(t *testing.T) {
	var buf bytes.Buffer
	art := Optimize(context.Background(), &mockModel{err: fmt.Errorf("quota")}, baseArticle(), enabledCfg(), &buf)

	assert.Equal(t, "Old Title", art.Title)
	assert.Contains(t, buf.String(), "seo pass failed")
}

func TestOptimizeEmptyFieldsKeepOriginals(t *testing.T) {
	model := &mockModel{text: `{"title":"","description":"","score":60}`}
	art := Optimize(context.Background(), model, baseArticle(), enabledCfg(), &bytes.Buffer{})

	assert.Equal(t, "Old Title", art.Title)
	assert.Equal(t, "Old desc", art.Description)
	assert.Equal(t, 60, art.SEOScore)
}
