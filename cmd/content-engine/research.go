// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research a topic with LLM-backed web search",
	Long: `Research collects fresh, source-backed material on a topic. The deep
research backend plans sub-queries and synthesizes findings; when it fails
the multi-search backend merges several search-grounded generations
instead. Results are limited to the last seven days (JST) and saved under
output/research/ for the article stage.`,
	RunE: runResearchCmd,
}

func runResearchCmd(cmd *cobra.Command, args []string) error {
	topicID, _ := cmd.Flags().GetString("topic")
	if topicID == "" {
		return fmt.Errorf("--topic is required")
	}

	cfg := pipelineConfig()
	topic, err := loadTopic(cfg, topicID)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newGeminiClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := runResearch(ctx, client, topic, cfg.Research)
	if err != nil {
		return err
	}

	path, err := saveArtifact(researchDir, topic.ID, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "researched %s via %s: %d source(s), saved to %s\n",
		topic.ID, res.Method, len(res.Sources), path)
	return nil
}

func init() {
	researchCmd.Flags().String("topic", "", "topic id from the topics file")

	rootCmd.AddCommand(researchCmd)
}
