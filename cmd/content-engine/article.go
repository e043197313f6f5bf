// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/article"
	"github.com/pdiddy/content-engine/internal/review"
	"github.com/pdiddy/content-engine/internal/seo"
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Write a blog article from stored research",
	Long: `Article turns a stored research result into a long-form Markdown blog
article, then runs the SEO metadata pass and the editorial review pass
over it. The finished article is saved under the article output directory
for the later stages.`,
	RunE: runArticleCmd,
}

func runArticleCmd(cmd *cobra.Command, args []string) error {
	topicID, _ := cmd.Flags().GetString("topic")
	if topicID == "" {
		return fmt.Errorf("--topic is required")
	}

	cfg := pipelineConfig()
	topic, err := loadTopic(cfg, topicID)
	if err != nil {
		return err
	}
	res, err := loadResearch(topicID)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newGeminiClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	art, err := article.Generate(ctx, client, res, topic, cfg.Article)
	if err != nil {
		return err
	}
	art = seo.Optimize(ctx, client, art, cfg.SEO, os.Stderr)
	art = review.Review(ctx, client, art, cfg.Review, os.Stderr)

	path, err := saveArtifact(cfg.Article.OutputDir, topic.ID, art)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %q (%d chars, quality %d, review %s), saved to %s\n",
		art.Title, len(art.Content), art.QualityScore, art.ReviewStatus, path)
	return nil
}

func init() {
	articleCmd.Flags().String("topic", "", "topic id from the topics file")

	rootCmd.AddCommand(articleCmd)
}
