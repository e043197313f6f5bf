// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/pipeline"
	"github.com/pdiddy/content-engine/internal/research"
	"github.com/pdiddy/content-engine/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline for one topic or all topics",
	Long: `Run executes the complete sequence for each selected topic: research,
article, SEO and review passes, images, slides, narration, video render
and publish. Asset failures degrade to placeholders and the run
continues; a render failure aborts the topic before anything is
published. Every run is recorded in the history store.`,
	RunE: runRunCmd,
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	topicID, _ := cmd.Flags().GetString("topic")
	all, _ := cmd.Flags().GetBool("all")
	skipVideo, _ := cmd.Flags().GetBool("skip-video")
	noPublish, _ := cmd.Flags().GetBool("no-publish")

	if topicID == "" && !all {
		return fmt.Errorf("--topic or --all is required")
	}

	cfg := pipelineConfig()
	reg, err := research.LoadTopics(cfg.Research.TopicsFile)
	if err != nil {
		return err
	}

	var topics []research.Topic
	if all {
		topics = reg.Topics
	} else {
		topic, err := reg.Find(topicID)
		if err != nil {
			return err
		}
		topics = []research.Topic{topic}
	}

	ctx := context.Background()
	client, err := newGeminiClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	var tts *texttospeech.Client
	if !skipVideo {
		tts, err = texttospeech.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("creating text-to-speech client: %w", err)
		}
		defer tts.Close()
	}

	history, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer history.Close()

	stages := newStages(client, tts, cfg)
	stages.SkipVideo = skipVideo
	stages.NoPublish = noPublish

	return pipeline.New(stages, history, os.Stderr).RunAll(ctx, topics)
}

func init() {
	runCmd.Flags().String("topic", "", "topic id from the topics file")
	runCmd.Flags().Bool("all", false, "run every topic in the topics file")
	runCmd.Flags().Bool("skip-video", false, "skip slides, narration and rendering")
	runCmd.Flags().Bool("no-publish", false, "stop before the publish stage")

	rootCmd.AddCommand(runCmd)
}
