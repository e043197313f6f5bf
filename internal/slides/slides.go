// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slides builds the slide deck structure for a video from an
// article. The model returns a JSON array of slides; the deck is then
// normalized (first slide is the title, last is the ending, points capped)
// and scored so obviously broken decks are caught before rendering.
package slides

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/content-engine/internal/gemini"
	"github.com/pdiddy/content-engine/internal/llmjson"
	"github.com/pdiddy/content-engine/pkg/types"
)

// TextModel is the LLM call surface the generator depends on.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string, opts gemini.GenerateOptions) (gemini.TextResult, error)
}

const (
	defaultTargetSlides = 6
	maxPointsPerSlide   = 5
	maxHeadingChars     = 40
	maxSubheadingChars  = 60
)

// GenerateStructure asks the model for a slide deck covering art and
// returns the normalized result.
func GenerateStructure(ctx context.Context, model TextModel, art types.Article, cfg types.SlidesConfig) ([]types.Slide, error) {
	target := cfg.TargetSlides
	if target <= 0 {
		target = defaultTargetSlides
	}

	out, err := model.GenerateText(ctx, structurePrompt(art, target), gemini.GenerateOptions{
		Model:       cfg.Model,
		Temperature: 0.5,
		MaxTokens:   8192,
	})
	if err != nil {
		return nil, fmt.Errorf("generating slide structure: %w", err)
	}

	raw, err := llmjson.Array(out.Text)
	if err != nil {
		return nil, fmt.Errorf("slide response carried no JSON array: %w", err)
	}
	var deck []types.Slide
	if err := json.Unmarshal([]byte(raw), &deck); err != nil {
		return nil, fmt.Errorf("parsing slide structure: %w", err)
	}
	if len(deck) < 2 {
		return nil, fmt.Errorf("slide structure has %d slide(s), need at least a title and an ending", len(deck))
	}

	return Normalize(deck), nil
}

func structurePrompt(art types.Article, target int) string {
	return fmt.Sprintf(`Design a %d-slide presentation summarizing the article below for a
narrated video. Return a JSON array only; each element:

{"heading": "...", "subheading": "...", "points": ["..."], "type": "title|content|ending",
 "imageDescription": "..."}

- First slide: type "title" with the article title as heading.
- Last slide: type "ending" with a short closing message.
- Middle slides: type "content", up to %d short bullet points each.
- Headings under %d characters, subheadings under %d.
- imageDescription: one sentence describing a background visual.

Title: %s

Article:
%s`, target, maxPointsPerSlide, maxHeadingChars, maxSubheadingChars, art.Title, art.Content)
}

// Normalize enforces the deck shape regardless of what the model returned:
// the first slide is the title, the last the ending, everything in between
// content, and points are capped per slide.
func Normalize(deck []types.Slide) []types.Slide {
	for i := range deck {
		switch i {
		case 0:
			deck[i].Type = types.SlideTitle
		case len(deck) - 1:
			deck[i].Type = types.SlideEnding
		default:
			deck[i].Type = types.SlideContent
		}
		if len(deck[i].Points) > maxPointsPerSlide {
			deck[i].Points = deck[i].Points[:maxPointsPerSlide]
		}
		deck[i].Heading = strings.TrimSpace(deck[i].Heading)
		deck[i].Subheading = strings.TrimSpace(deck[i].Subheading)
	}
	return deck
}

// Validate scores a deck out of 100. Each finding subtracts points; the
// returned issues name what a manual fix should address.
func Validate(deck []types.Slide, cfg types.SlidesConfig) (int, []string) {
	target := cfg.TargetSlides
	if target <= 0 {
		target = defaultTargetSlides
	}

	score := 100
	var issues []string
	flag := func(penalty int, format string, args ...any) {
		score -= penalty
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	if len(deck) == 0 {
		return 0, []string{"deck is empty"}
	}
	if len(deck) < target-2 || len(deck) > target+4 {
		flag(20, "deck has %d slides, expected around %d", len(deck), target)
	}
	if deck[0].Type != types.SlideTitle {
		flag(20, "first slide is %q, not a title slide", deck[0].Type)
	}
	if deck[len(deck)-1].Type != types.SlideEnding {
		flag(10, "last slide is %q, not an ending slide", deck[len(deck)-1].Type)
	}

	for i, s := range deck {
		if s.Heading == "" {
			flag(10, "slide %d has no heading", i+1)
		}
		if len([]rune(s.Heading)) > maxHeadingChars {
			flag(5, "slide %d heading is %d characters (limit %d)", i+1, len([]rune(s.Heading)), maxHeadingChars)
		}
		if len([]rune(s.Subheading)) > maxSubheadingChars {
			flag(5, "slide %d subheading is %d characters (limit %d)", i+1, len([]rune(s.Subheading)), maxSubheadingChars)
		}
		if len(s.Points) > maxPointsPerSlide {
			flag(5, "slide %d carries %d points (limit %d)", i+1, len(s.Points), maxPointsPerSlide)
		}
		if s.Type == types.SlideContent && len(s.Points) == 0 && s.Subheading == "" {
			flag(5, "slide %d has no content", i+1)
		}
	}

	if score < 0 {
		score = 0
	}
	return score, issues
}
