// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the stored article to the Jekyll site",
	Long: `Publish writes the article as a Jekyll post (slugified filename, JST
front matter), copies the hero image into the site's asset tree, and
commits and pushes the site repository. Publish failures exit non-zero;
they are never swallowed.`,
	RunE: runPublishCmd,
}

func runPublishCmd(cmd *cobra.Command, args []string) error {
	topicID, _ := cmd.Flags().GetString("topic")
	if topicID == "" {
		return fmt.Errorf("--topic is required")
	}

	cfg := pipelineConfig()
	art, err := loadArticle(cfg.Article, topicID)
	if err != nil {
		return err
	}

	publisher := publish.NewPublisher(cfg.Publish, os.Stderr)
	url, err := publisher.Publish(context.Background(), art)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "published %s\n", url)
	return nil
}

func init() {
	publishCmd.Flags().String("topic", "", "topic id from the topics file")

	rootCmd.AddCommand(publishCmd)
}
