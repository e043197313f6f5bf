// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/image"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Generate the hero and section images for an article",
	Long: `Images generates the article's hero image and up to three section images
with the Gemini image model. When generation fails it falls back to
DALL-E (if an OpenAI key is configured) and finally to a deterministic
placeholder, so the article always has complete artwork.`,
	RunE: runImagesCmd,
}

func runImagesCmd(cmd *cobra.Command, args []string) error {
	topicID, _ := cmd.Flags().GetString("topic")
	if topicID == "" {
		return fmt.Errorf("--topic is required")
	}

	cfg := pipelineConfig()
	topic, err := loadTopic(cfg, topicID)
	if err != nil {
		return err
	}
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

	set, err := image.GenerateSet(ctx, imageProviders(client, cfg.Images), art, topic, cfg.Images, os.Stderr)
	if err != nil {
		return err
	}

	art.HeroImage = set.Hero
	art.SectionImages = set.Sections
	if _, err := saveArtifact(cfg.Article.OutputDir, topic.ID, art); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "generated hero + %d section image(s) under %s\n", len(set.Sections), cfg.Images.OutputDir)
	return nil
}

func init() {
	imagesCmd.Flags().String("topic", "", "topic id from the topics file")

	rootCmd.AddCommand(imagesCmd)
}
