// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/content-engine/pkg/types"
)

// researchDir holds per-topic research artifacts between stage invocations.
const researchDir = "output/research"

// saveArtifact writes v as indented JSON to dir/<topic>.json.
func saveArtifact(dir, topic string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling artifact: %w", err)
	}
	path := filepath.Join(dir, topic+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// loadArtifact reads dir/<topic>.json into v.
func loadArtifact(dir, topic string, v any) error {
	path := filepath.Join(dir, topic+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s (run the earlier stage first): %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// loadResearch loads the stored research result for a topic.
func loadResearch(topic string) (types.ResearchResult, error) {
	var res types.ResearchResult
	err := loadArtifact(researchDir, topic, &res)
	return res, err
}

// loadArticle loads the stored article for a topic.
func loadArticle(cfg types.ArticleConfig, topic string) (types.Article, error) {
	var art types.Article
	err := loadArtifact(cfg.OutputDir, topic, &art)
	return art, err
}

// loadDeck loads the stored slide deck for a topic.
func loadDeck(cfg types.SlidesConfig, topic string) ([]types.Slide, error) {
	var deck []types.Slide
	err := loadArtifact(cfg.OutputDir, topic, &deck)
	return deck, err
}
