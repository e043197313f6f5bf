// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package video assembles the renderer input for a slide video and drives
// the external Remotion render. The Go side owns all timing and asset
// packaging; the renderer only draws what the props describe.
package video

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/content-engine/internal/research"
	"github.com/pdiddy/content-engine/internal/timing"
	"github.com/pdiddy/content-engine/pkg/types"
)

// SlideProps is one slide as the renderer consumes it. Assets travel
// inline as data URIs so the renderer needs no access to the pipeline's
// working directory.
type SlideProps struct {
	Heading    string           `json:"heading"`
	Subheading string           `json:"subheading,omitempty"`
	Points     []string         `json:"points,omitempty"`
	Type       types.SlideType  `json:"type"`
	ImageURI   string           `json:"imageUri,omitempty"`
	AudioURI   string           `json:"audioUri,omitempty"`
	StartFrame int              `json:"startFrame"`
	EndFrame   int              `json:"endFrame"`
	Subtitles  []types.Subtitle `json:"subtitles,omitempty"`
}

// Props is the full composition input.
type Props struct {
	Title       string               `json:"title"`
	Slides      []SlideProps         `json:"slides"`
	FPS         int                  `json:"fps"`
	TotalFrames int                  `json:"totalFrames"`
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	Colors      research.ColorScheme `json:"colors"`
}

// BuildProps computes the frame plan for the deck and packages it with the
// audio and images into renderer props. audios and imagePaths run parallel
// to the deck; empty entries leave the slide silent or imageless.
func BuildProps(deck []types.Slide, audios []types.NarrationAudio, imagePaths []string, topic research.Topic, art types.Article, cfg types.VideoConfig) (Props, error) {
	if len(deck) == 0 {
		return Props{}, fmt.Errorf("deck is empty")
	}
	if len(audios) != len(deck) || len(imagePaths) != len(deck) {
		return Props{}, fmt.Errorf("deck has %d slides but %d audio clips and %d images", len(deck), len(audios), len(imagePaths))
	}

	fps := cfg.FPS
	if fps <= 0 {
		fps = 30
	}

	durations := make([]float64, len(deck))
	for i, audio := range audios {
		durations[i] = slideDuration(audio, cfg)
	}
	alloc := timing.Allocate(durations, fps)
	deck = timing.Apply(deck, alloc)

	props := Props{
		Title:       art.Title,
		FPS:         fps,
		TotalFrames: alloc.TotalFrames,
		Width:       defaultInt(cfg.Width, 1920),
		Height:      defaultInt(cfg.Height, 1080),
		Colors:      topic.Colors,
		Slides:      make([]SlideProps, len(deck)),
	}

	for i, s := range deck {
		sp := SlideProps{
			Heading:    s.Heading,
			Subheading: s.Subheading,
			Points:     s.Points,
			Type:       s.Type,
			StartFrame: s.StartFrame,
			EndFrame:   s.EndFrame,
			Subtitles:  timing.Subtitles(s.Narration, s.StartFrame, s.EndFrame),
		}
		if !audios[i].Empty() {
			sp.AudioURI = "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(audios[i].Data)
		}
		if imagePaths[i] != "" {
			uri, err := imageDataURI(imagePaths[i])
			if err != nil {
				return Props{}, err
			}
			sp.ImageURI = uri
		}
		props.Slides[i] = sp
	}
	return props, nil
}

// slideDuration derives a slide's screen time from its narration clip,
// padded and clamped; silent slides get the default length.
func slideDuration(audio types.NarrationAudio, cfg types.VideoConfig) float64 {
	if audio.Empty() {
		if cfg.DefaultSlideSeconds > 0 {
			return cfg.DefaultSlideSeconds
		}
		return 5
	}

	d := audio.Duration + cfg.AudioPadding
	if cfg.MinSlideSeconds > 0 && d < cfg.MinSlideSeconds {
		d = cfg.MinSlideSeconds
	}
	if cfg.MaxSlideSeconds > 0 && d > cfg.MaxSlideSeconds {
		d = cfg.MaxSlideSeconds
	}
	return d
}

func imageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading slide image: %w", err)
	}
	mime := "image/png"
	switch filepath.Ext(path) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".webp":
		mime = "image/webp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// WritePropsFile marshals props to a JSON file the renderer can read.
func WritePropsFile(props Props, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating props directory: %w", err)
	}
	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshaling props: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing props file: %w", err)
	}
	return nil
}

func defaultInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
