// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/image"
	"github.com/pdiddy/content-engine/internal/narrate"
	"github.com/pdiddy/content-engine/pkg/types"
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Narrate the slide deck and render the video",
	Long: `Video generates a narration script per slide, synthesizes the audio
through Cloud Text-to-Speech, allocates frame timings, writes the renderer
props file and invokes the external Remotion renderer. A render failure
aborts with a non-zero exit; nothing is published.

With --no-narration the video renders silent with default slide timings.`,
	RunE: runVideoCmd,
}

func runVideoCmd(cmd *cobra.Command, args []string) error {
	topicID, _ := cmd.Flags().GetString("topic")
	if topicID == "" {
		return fmt.Errorf("--topic is required")
	}
	noNarration, _ := cmd.Flags().GetBool("no-narration")

	cfg := pipelineConfig()
	topic, err := loadTopic(cfg, topicID)
	if err != nil {
		return err
	}
	art, err := loadArticle(cfg.Article, topicID)
	if err != nil {
		return err
	}
	deck, err := loadDeck(cfg.Slides, topicID)
	if err != nil {
		return err
	}

	ctx := context.Background()
	audios := make([]types.NarrationAudio, len(deck))
	if !noNarration {
		client, err := newGeminiClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		tts, err := texttospeech.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("creating text-to-speech client: %w", err)
		}
		defer tts.Close()

		deck = narrate.GenerateScripts(ctx, client, deck, art, cfg.Narration, os.Stderr)
		audios = narrate.SynthesizeDeck(ctx, &narrate.GoogleSynthesizer{Client: tts}, deck, cfg.Narration, os.Stderr)
	}

	set := image.Set{Hero: art.HeroImage, Sections: art.SectionImages}
	videoPath, err := renderVideo(ctx, deck, audios, set, topic, art, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "rendered %s\n", videoPath)
	return nil
}

func init() {
	videoCmd.Flags().String("topic", "", "topic id from the topics file")
	videoCmd.Flags().Bool("no-narration", false, "render silent with default slide timings")

	rootCmd.AddCommand(videoCmd)
}
