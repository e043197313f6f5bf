// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package narrate produces the spoken track of a slide video: a narration
// script per slide from the model, then speech synthesis through Cloud
// Text-to-Speech. Script failures degrade to canned lines and synthesis
// failures degrade to a silent slide; narration never fails a run.
package narrate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/internal/llmjson"
	"github.com/pdiddy/content-engine/pkg/types"
)

// TextModel is the LLM call surface the script generator depends on.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string, opts gemini.GenerateOptions) (gemini.TextResult, error)
}

// GenerateScripts asks the model for one narration line per slide and
// writes them onto the deck. When the model fails or returns the wrong
// count, every slide falls back to a canned line built from its content,
// reported on w.
func GenerateScripts(ctx context.Context, model TextModel, deck []types.Slide, art types.Article, cfg types.NarrationConfig, w io.Writer) []types.Slide {
	scripts, err := modelScripts(ctx, model, deck, art, cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: narration scripts failed (%v), using fallback lines\n", err)
		scripts = FallbackScripts(deck, art)
	}
	for i := range deck {
		deck[i].Narration = scripts[i]
	}
	return deck
}

func modelScripts(ctx context.Context, model TextModel, deck []types.Slide, art types.Article, cfg types.NarrationConfig) ([]string, error) {
	out, err := model.GenerateText(ctx, scriptPrompt(deck, art), gemini.GenerateOptions{
		Model:       cfg.Model,
		Temperature: 0.6,
		MaxTokens:   8192,
	})
	if err != nil {
		return nil, err
	}

	raw, err := llmjson.Array(out.Text)
	if err != nil {
		return nil, err
	}
	var scripts []string
	if err := json.Unmarshal([]byte(raw), &scripts); err != nil {
		return nil, fmt.Errorf("parsing narration scripts: %w", err)
	}
	if len(scripts) != len(deck) {
		return nil, fmt.Errorf("model returned %d scripts for %d slides", len(scripts), len(deck))
	}
	for i := range scripts {
		if strings.TrimSpace(scripts[i]) == "" {
			return nil, fmt.Errorf("script %d is empty", i+1)
		}
	}
	return scripts, nil
}

func scriptPrompt(deck []types.Slide, art types.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Write the narration for a %d-slide video about "%s". Return a JSON array
of exactly %d strings, one spoken line per slide, in order.

- Natural spoken Japanese, two or three sentences per slide.
- No emoji, no Markdown, no stage directions.
- Slide 1 introduces the video; the last slide closes it.

Slides:
`, len(deck), art.Title, len(deck))

	for i, s := range deck {
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, s.Type, s.Heading)
		if s.Subheading != "" {
			fmt.Fprintf(&b, " - %s", s.Subheading)
		}
		if len(s.Points) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(s.Points, " / "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FallbackScripts builds a canned line per slide from its own content.
func FallbackScripts(deck []types.Slide, art types.Article) []string {
	scripts := make([]string, len(deck))
	for i, s := range deck {
		switch s.Type {
		case types.SlideTitle:
			scripts[i] = fmt.Sprintf("今回は「%s」についてお伝えします。", art.Title)
		case types.SlideEnding:
			scripts[i] = "ご視聴ありがとうございました。詳しくは記事をご覧ください。"
		default:
			line := s.Heading
			if len(s.Points) > 0 {
				line += "。" + strings.Join(s.Points, "。")
			}
			scripts[i] = line + "。"
		}
	}
	return scripts
}

// Synthesizer turns one narration line into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, cfg types.NarrationConfig) (types.NarrationAudio, error)
}

// GoogleSynthesizer synthesizes speech through Cloud Text-to-Speech.
type GoogleSynthesizer struct {
	Client *texttospeech.Client
}

func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text string, cfg types.NarrationConfig) (types.NarrationAudio, error) {
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 24000
	}
	languageCode := cfg.LanguageCode
	if languageCode == "" {
		languageCode = "ja-JP"
	}

	resp, err := s.Client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode,
			Name:         cfg.Voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_LINEAR16,
			SampleRateHertz: int32(sampleRate),
		},
	})
	if err != nil {
		return types.NarrationAudio{}, fmt.Errorf("synthesizing speech: %w", err)
	}

	data := resp.AudioContent
	// LINEAR16 responses arrive as headerless PCM from some API versions
	// and as full WAV from others; normalize to WAV.
	if !IsWAV(data) {
		data = EncodeWAV(data, sampleRate, 1)
	}
	duration, err := WAVDuration(data)
	if err != nil {
		return types.NarrationAudio{}, err
	}

	return types.NarrationAudio{
		Data:       data,
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   duration,
	}, nil
}

const defaultMinAudioBytes = 10 * 1024

// SynthesizeDeck narrates every slide on the deck. Synthesis failures and
// implausibly small payloads are reported on w and yield an empty audio
// slot, the video plays that slide silent.
func SynthesizeDeck(ctx context.Context, synth Synthesizer, deck []types.Slide, cfg types.NarrationConfig, w io.Writer) []types.NarrationAudio {
	minBytes := cfg.MinAudioBytes
	if minBytes <= 0 {
		minBytes = defaultMinAudioBytes
	}

	audios := make([]types.NarrationAudio, len(deck))
	for i, s := range deck {
		if strings.TrimSpace(s.Narration) == "" {
			continue
		}
		audio, err := synth.Synthesize(ctx, s.Narration, cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: slide %d narration failed, rendering silent: %v\n", i+1, err)
			continue
		}
		if len(audio.Data) < minBytes || !IsWAV(audio.Data) {
			fmt.Fprintf(w, "warning: slide %d narration audio invalid (%d bytes), rendering silent\n", i+1, len(audio.Data))
			continue
		}
		audios[i] = audio
	}
	return audios
}
