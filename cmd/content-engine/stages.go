// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"

	"github.com/pdiddy/content-engine/internal/article"
	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/internal/image"
	"github.com/pdiddy/content-engine/internal/jst"
	"github.com/pdiddy/content-engine/internal/narrate"
	"github.com/pdiddy/content-engine/internal/pipeline"
	"github.com/pdiddy/content-engine/internal/publish"
	"github.com/pdiddy/content-engine/internal/research"
	"github.com/pdiddy/content-engine/internal/review"
	"github.com/pdiddy/content-engine/internal/seo"
	"github.com/pdiddy/content-engine/internal/slides"
	"github.com/pdiddy/content-engine/internal/video"
	"github.com/pdiddy/content-engine/pkg/types"
)

// newGeminiClient builds the shared LLM client for the configured key.
func newGeminiClient(ctx context.Context, cfg types.PipelineConfig) (*gemini.Client, error) {
	return gemini.NewClient(ctx, cfg.Research.APIKey, cfg.Research.MaxRetries)
}

// loadTopic resolves one topic id from the registry.
func loadTopic(cfg types.PipelineConfig, id string) (research.Topic, error) {
	reg, err := research.LoadTopics(cfg.Research.TopicsFile)
	if err != nil {
		return research.Topic{}, err
	}
	return reg.Find(id)
}

// researchBackends builds the backend chain: deep research first when
// enabled, multi-search always last.
func researchBackends(client *gemini.Client, cfg types.ResearchConfig) []research.Backend {
	var backends []research.Backend
	if cfg.UseDeepResearch {
		backends = append(backends, &research.DeepResearchBackend{Model: client})
	}
	return append(backends, &research.MultiSearchBackend{Model: client})
}

// runResearch executes the research stage for one topic, resolving summary
// topics to their members and running the optional source verification pass.
func runResearch(ctx context.Context, client *gemini.Client, topic research.Topic, cfg types.ResearchConfig) (types.ResearchResult, error) {
	reg, err := research.LoadTopics(cfg.TopicsFile)
	if err != nil {
		return types.ResearchResult{}, err
	}
	res, err := research.RunTopic(ctx, researchBackends(client, cfg), reg, topic, cfg, os.Stderr)
	if err != nil {
		return types.ResearchResult{}, err
	}
	if cfg.VerifySources {
		httpClient := &http.Client{Timeout: cfg.Timeout}
		res.Sources = research.VerifySources(ctx, httpClient, res.Sources, cfg, os.Stderr)
	}
	return res, nil
}

// imageProviders builds the provider chain: Gemini first, DALL-E when an
// OpenAI key is configured.
func imageProviders(client *gemini.Client, cfg types.ImageConfig) []image.Provider {
	providers := []image.Provider{&image.GeminiProvider{Client: client, Model: cfg.Model}}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, image.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel))
	}
	return providers
}

// renderVideo narrows the video stage to one call: props, props file, render.
func renderVideo(ctx context.Context, deck []types.Slide, audios []types.NarrationAudio, set image.Set, topic research.Topic, art types.Article, cfg types.PipelineConfig) (string, error) {
	// The hero image backs the title slide; sections map onto content
	// slides in order.
	images := make([]string, len(deck))
	if len(images) > 0 {
		images[0] = set.Hero
	}
	for i := 1; i < len(deck)-1 && i-1 < len(set.Sections); i++ {
		images[i] = set.Sections[i-1]
	}

	props, err := video.BuildProps(deck, audios, images, topic, art, cfg.Video)
	if err != nil {
		return "", err
	}

	propsPath := fmt.Sprintf("%s/%s-%s-props.json", cfg.Slides.OutputDir, topic.ID, jst.Timestamp(jst.Now()))
	if err := video.WritePropsFile(props, propsPath); err != nil {
		return "", err
	}

	renderer := video.NewRenderer(cfg.Video, os.Stderr)
	return renderer.Render(ctx, propsPath, fmt.Sprintf("%s-%s.mp4", topic.ID, jst.Timestamp(jst.Now())))
}

// newStages wires the production stage set for the full pipeline run.
func newStages(client *gemini.Client, tts *texttospeech.Client, cfg types.PipelineConfig) pipeline.Stages {
	synth := &narrate.GoogleSynthesizer{Client: tts}
	publisher := publish.NewPublisher(cfg.Publish, os.Stderr)

	return pipeline.Stages{
		Research: func(ctx context.Context, topic research.Topic) (types.ResearchResult, error) {
			return runResearch(ctx, client, topic, cfg.Research)
		},
		Write: func(ctx context.Context, res types.ResearchResult, topic research.Topic) (types.Article, error) {
			return article.Generate(ctx, client, res, topic, cfg.Article)
		},
		SEO: func(ctx context.Context, art types.Article) types.Article {
			return seo.Optimize(ctx, client, art, cfg.SEO, os.Stderr)
		},
		Review: func(ctx context.Context, art types.Article) types.Article {
			return review.Review(ctx, client, art, cfg.Review, os.Stderr)
		},
		Images: func(ctx context.Context, art types.Article, topic research.Topic) (image.Set, error) {
			return image.GenerateSet(ctx, imageProviders(client, cfg.Images), art, topic, cfg.Images, os.Stderr)
		},
		Slides: func(ctx context.Context, art types.Article) ([]types.Slide, int, error) {
			deck, err := slides.GenerateStructure(ctx, client, art, cfg.Slides)
			if err != nil {
				return nil, 0, err
			}
			score, issues := slides.Validate(deck, cfg.Slides)
			for _, issue := range issues {
				fmt.Fprintf(os.Stderr, "warning: slide deck: %s\n", issue)
			}
			return deck, score, nil
		},
		Narrate: func(ctx context.Context, deck []types.Slide, art types.Article) ([]types.Slide, []types.NarrationAudio) {
			deck = narrate.GenerateScripts(ctx, client, deck, art, cfg.Narration, os.Stderr)
			audios := narrate.SynthesizeDeck(ctx, synth, deck, cfg.Narration, os.Stderr)
			return deck, audios
		},
		Render: func(ctx context.Context, deck []types.Slide, audios []types.NarrationAudio, set image.Set, topic research.Topic, art types.Article) (string, error) {
			return renderVideo(ctx, deck, audios, set, topic, art, cfg)
		},
		Publish: func(ctx context.Context, art types.Article) (string, error) {
			return publisher.Publish(ctx, art)
		},
	}
}
