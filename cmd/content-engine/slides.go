// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/slides"
)

var slidesCmd = &cobra.Command{
	Use:   "slides",
	Short: "Build the slide deck structure for an article's video",
	Long: `Slides asks the model for a slide deck summarizing the stored article,
normalizes it (title slide first, ending slide last, points capped) and
scores it. The deck is saved under the slides output directory for the
video stage.`,
	RunE: runSlidesCmd,
}

func runSlidesCmd(cmd *cobra.Command, args []string) error {
	topicID, _ := cmd.Flags().GetString("topic")
	if topicID == "" {
		return fmt.Errorf("--topic is required")
	}

	cfg := pipelineConfig()
	art, err := loadArticle(cfg.Article, topicID)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newGeminiClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	deck, err := slides.GenerateStructure(ctx, client, art, cfg.Slides)
	if err != nil {
		return err
	}
	score, issues := slides.Validate(deck, cfg.Slides)
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "warning: %s\n", issue)
	}

	path, err := saveArtifact(cfg.Slides.OutputDir, topicID, deck)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "built %d-slide deck (score %d), saved to %s\n", len(deck), score, path)
	return nil
}

func init() {
	slidesCmd.Flags().String("topic", "", "topic id from the topics file")

	rootCmd.AddCommand(slidesCmd)
}
