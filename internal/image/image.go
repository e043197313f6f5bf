// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package image generates the hero and section images for an article.
// Providers implement a common interface; when the primary Gemini provider
// fails the generator tries the DALL-E fallback if configured, and when
// everything fails it writes a deterministic placeholder PNG so the
// pipeline never stops over artwork.
package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/internal/research"
	"github.com/pdiddy/content-engine/pkg/types"
)

// Provider produces one image from a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// GeminiProvider generates images through the Gemini image model.
type GeminiProvider struct {
	Client *gemini.Client
	Model  string
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) ([]byte, error) {
	return p.Client.GenerateImage(ctx, prompt, p.Model)
}

// OpenAIProvider is the DALL-E fallback.
type OpenAIProvider struct {
	Client *openai.Client
	Model  string
}

// NewOpenAIProvider builds the fallback provider; model defaults to dall-e-3.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	return &OpenAIProvider{Client: openai.NewClient(apiKey), Model: model}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := p.Client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          p.Model,
		N:              1,
		Size:           openai.CreateImageSize1792x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("dall-e generation: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("dall-e returned no image")
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decoding dall-e payload: %w", err)
	}
	return data, nil
}

// Set holds the file paths of the images generated for one article.
type Set struct {
	Hero     string
	Sections []string
}

const (
	defaultMaxSectionImages = 3
	defaultGenerationDelay  = 500 * time.Millisecond
)

// GenerateSet produces the hero image and up to MaxSectionImages section
// images for art, writing them under cfg.OutputDir. Provider failures are
// reported on w; each failed image degrades to a placeholder PNG and the
// set is always complete.
func GenerateSet(ctx context.Context, providers []Provider, art types.Article, topic research.Topic, cfg types.ImageConfig, w io.Writer) (Set, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Set{}, fmt.Errorf("creating image directory: %w", err)
	}

	maxSections := cfg.MaxSectionImages
	if maxSections <= 0 {
		maxSections = defaultMaxSectionImages
	}
	delay := cfg.GenerationDelay
	if delay <= 0 {
		delay = defaultGenerationDelay
	}

	var set Set
	hero, err := generateOne(ctx, providers, heroPrompt(art, topic), filepath.Join(cfg.OutputDir, art.Topic+"-hero"), topic, w)
	if err != nil {
		return Set{}, err
	}
	set.Hero = hero

	for i, heading := range sectionHeadings(art.Content, maxSections) {
		select {
		case <-ctx.Done():
			return Set{}, ctx.Err()
		case <-time.After(delay):
		}

		name := fmt.Sprintf("%s-section-%d", art.Topic, i+1)
		path, err := generateOne(ctx, providers, sectionPrompt(art, topic, heading), filepath.Join(cfg.OutputDir, name), topic, w)
		if err != nil {
			return Set{}, err
		}
		set.Sections = append(set.Sections, path)
	}
	return set, nil
}

// generateOne walks the provider chain and falls back to a placeholder.
// The returned path carries the extension matching the bytes written.
func generateOne(ctx context.Context, providers []Provider, prompt, pathStem string, topic research.Topic, w io.Writer) (string, error) {
	for _, p := range providers {
		data, err := p.Generate(ctx, prompt)
		if err != nil {
			fmt.Fprintf(w, "warning: %s image provider failed: %v\n", p.Name(), err)
			continue
		}
		path := pathStem + extensionFor(data)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("writing image %s: %w", path, err)
		}
		return path, nil
	}

	fmt.Fprintf(w, "warning: all image providers failed, writing placeholder\n")
	path := pathStem + ".png"
	if err := os.WriteFile(path, Placeholder(topic.Colors), 0o644); err != nil {
		return "", fmt.Errorf("writing placeholder %s: %w", path, err)
	}
	return path, nil
}

// extensionFor sniffs the image container from its magic bytes.
func extensionFor(data []byte) string {
	switch {
	case len(data) > 3 && data[0] == 0xFF && data[1] == 0xD8:
		return ".jpg"
	case len(data) > 12 && string(data[8:12]) == "WEBP":
		return ".webp"
	default:
		return ".png"
	}
}

var sectionHeadingPattern = regexp.MustCompile(`(?m)^##\s+(.+)$`)

// sectionHeadings returns up to max body headings, skipping the sources
// section which needs no artwork.
func sectionHeadings(content string, max int) []string {
	var headings []string
	for _, m := range sectionHeadingPattern.FindAllStringSubmatch(content, -1) {
		h := strings.TrimSpace(m[1])
		switch strings.ToLower(h) {
		case "sources", "references", "参考文献":
			continue
		}
		headings = append(headings, h)
		if len(headings) == max {
			break
		}
	}
	return headings
}

func heroPrompt(art types.Article, topic research.Topic) string {
	return fmt.Sprintf(`A wide hero illustration for a tech blog article titled "%s".
Modern flat design, no text, no letters, no watermarks.
Primary color %s, secondary color %s, clean background.
Subject matter: %s.`,
		art.Title, topic.Colors.Primary, topic.Colors.Secondary, topic.Name)
}

func sectionPrompt(art types.Article, topic research.Topic, heading string) string {
	return fmt.Sprintf(`A supporting illustration for the section "%s" of a tech blog article
about %s. Same visual language as the article hero: modern flat design,
primary color %s, no text or letters.`,
		heading, topic.Name, topic.Colors.Primary)
}
