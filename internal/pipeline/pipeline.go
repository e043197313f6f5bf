// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the stages of one content run: research,
// article, metadata passes, images, slides, narration, video, publish.
// Asset stages degrade and continue; a failed render aborts before
// anything is published; a failed publish propagates. Each run is
// recorded in the history store.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/content-engine/internal/image"
	"github.com/pdiddy/content-engine/internal/jst"
	"github.com/pdiddy/content-engine/internal/research"
	"github.com/pdiddy/content-engine/internal/store"
	"github.com/pdiddy/content-engine/pkg/types"
)

// Stages holds the stage implementations the pipeline sequences. Each
// field maps to one pipeline step so tests can swap any of them out.
type Stages struct {
	Research  func(ctx context.Context, topic research.Topic) (types.ResearchResult, error)
	Write     func(ctx context.Context, res types.ResearchResult, topic research.Topic) (types.Article, error)
	SEO       func(ctx context.Context, art types.Article) types.Article
	Review    func(ctx context.Context, art types.Article) types.Article
	Images    func(ctx context.Context, art types.Article, topic research.Topic) (image.Set, error)
	Slides    func(ctx context.Context, art types.Article) ([]types.Slide, int, error)
	Narrate   func(ctx context.Context, deck []types.Slide, art types.Article) ([]types.Slide, []types.NarrationAudio)
	Render    func(ctx context.Context, deck []types.Slide, audios []types.NarrationAudio, set image.Set, topic research.Topic, art types.Article) (string, error)
	Publish   func(ctx context.Context, art types.Article) (string, error)
	SkipVideo bool
	NoPublish bool
}

// Pipeline runs the full content sequence for topics.
type Pipeline struct {
	stages Stages
	store  *store.Store
	log    io.Writer
}

// New builds a pipeline. history may be nil when no run recording is
// wanted (e.g. dry runs).
func New(stages Stages, history *store.Store, log io.Writer) *Pipeline {
	return &Pipeline{stages: stages, store: history, log: log}
}

// Run executes one full run for topic and returns its history record.
// The record is saved even when the run fails partway, so aborted runs
// stay visible in the history.
func (p *Pipeline) Run(ctx context.Context, topic research.Topic) (*store.Run, error) {
	run := store.NewRun(topic.ID)
	err := p.run(ctx, topic, run)

	run.FinishedAt = jst.Now()
	if p.store != nil {
		if saveErr := p.store.SaveRun(run); saveErr != nil {
			fmt.Fprintf(p.log, "warning: recording run failed: %v\n", saveErr)
		}
	}
	return run, err
}

func (p *Pipeline) run(ctx context.Context, topic research.Topic, run *store.Run) error {
	fmt.Fprintf(p.log, "== %s: research\n", topic.ID)
	res, err := p.stages.Research(ctx, topic)
	if err != nil {
		run.Stages["research"] = store.StageFailed
		return fmt.Errorf("research: %w", err)
	}
	run.Stages["research"] = store.StageOK

	fmt.Fprintf(p.log, "== %s: article\n", topic.ID)
	art, err := p.stages.Write(ctx, res, topic)
	if err != nil {
		run.Stages["article"] = store.StageFailed
		return fmt.Errorf("article: %w", err)
	}
	art = p.stages.SEO(ctx, art)
	art = p.stages.Review(ctx, art)
	run.Stages["article"] = store.StageOK
	run.Title = art.Title
	run.SEOScore = art.SEOScore
	run.QualityScore = art.QualityScore

	fmt.Fprintf(p.log, "== %s: images\n", topic.ID)
	set, err := p.stages.Images(ctx, art, topic)
	if err != nil {
		run.Stages["images"] = store.StageFailed
		return fmt.Errorf("images: %w", err)
	}
	art.HeroImage = set.Hero
	art.SectionImages = set.Sections
	run.Stages["images"] = store.StageOK

	if p.stages.SkipVideo {
		run.Stages["video"] = store.StageSkipped
	} else {
		fmt.Fprintf(p.log, "== %s: slides\n", topic.ID)
		deck, slideScore, err := p.stages.Slides(ctx, art)
		if err != nil {
			run.Stages["slides"] = store.StageFailed
			return fmt.Errorf("slides: %w", err)
		}
		run.Stages["slides"] = store.StageOK
		run.SlideScore = slideScore

		fmt.Fprintf(p.log, "== %s: narration\n", topic.ID)
		deck, audios := p.stages.Narrate(ctx, deck, art)
		run.Stages["narration"] = store.StageOK

		fmt.Fprintf(p.log, "== %s: video\n", topic.ID)
		videoPath, err := p.stages.Render(ctx, deck, audios, set, topic, art)
		if err != nil {
			// A broken video must never reach the site.
			run.Stages["video"] = store.StageFailed
			return fmt.Errorf("video render: %w", err)
		}
		run.Stages["video"] = store.StageOK
		run.VideoPath = videoPath
	}

	if p.stages.NoPublish {
		run.Stages["publish"] = store.StageSkipped
		return nil
	}

	fmt.Fprintf(p.log, "== %s: publish\n", topic.ID)
	url, err := p.stages.Publish(ctx, art)
	if err != nil {
		run.Stages["publish"] = store.StageFailed
		return fmt.Errorf("publish: %w", err)
	}
	run.Stages["publish"] = store.StageOK
	run.PublishedURL = url
	fmt.Fprintf(p.log, "== %s: done (%s)\n", topic.ID, url)
	return nil
}

// RunAll executes the pipeline for each topic in order. One topic's
// failure is reported and does not stop the batch; the error lists the
// failed topics at the end.
func (p *Pipeline) RunAll(ctx context.Context, topics []research.Topic) error {
	var failed []string
	for _, t := range topics {
		if _, err := p.Run(ctx, t); err != nil {
			fmt.Fprintf(p.log, "error: topic %s: %v\n", t.ID, err)
			failed = append(failed, t.ID)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d topic(s) failed: %v", len(failed), failed)
	}
	return nil
}
