// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package timing converts per-slide durations in seconds into frame
// intervals for the renderer. Intervals are half-open [startFrame,
// endFrame) and always partition [0, totalFrames) contiguously: each
// boundary is the rounded cumulative time, bumped forward where needed so
// no slide collapses to zero frames.
package timing

import (
	"math"
	"regexp"
	"strings"

	"github.com/pdiddy/content-engine/pkg/types"
)

// Allocation is the frame plan for one deck.
type Allocation struct {
	// Intervals holds one [start, end) pair per input duration, in order.
	Intervals [][2]int

	// TotalFrames is the exact frame count of the whole video.
	TotalFrames int
}

const durationFloorSeconds = 1.0

// Allocate assigns a frame interval to each duration at the given fps.
// Non-positive durations are floored to one second so a broken audio clip
// still gets a visible slide. Every interval spans at least one frame even
// when a duration rounds below the frame period; TotalFrames is the last
// interval's end, so the renderer always gets durationInFrames > 0.
func Allocate(durations []float64, fps int) Allocation {
	if fps <= 0 {
		fps = 30
	}

	cleaned := make([]float64, len(durations))
	total := 0.0
	for i, d := range durations {
		if d <= 0 {
			d = durationFloorSeconds
		}
		cleaned[i] = d
		total += d
	}

	alloc := Allocation{Intervals: make([][2]int, len(cleaned))}

	rounded := round(total * float64(fps))
	cursor := 0
	cumulative := 0.0
	for i, d := range cleaned {
		cumulative += d
		end := round(cumulative * float64(fps))
		if i == len(cleaned)-1 {
			end = rounded
		}
		if end <= cursor {
			end = cursor + 1
		}
		alloc.Intervals[i] = [2]int{cursor, end}
		cursor = end
	}
	alloc.TotalFrames = cursor
	return alloc
}

// Apply writes an allocation's intervals onto the deck in place. The deck
// and the allocation must be the same length.
func Apply(deck []types.Slide, alloc Allocation) []types.Slide {
	for i := range deck {
		deck[i].StartFrame = alloc.Intervals[i][0]
		deck[i].EndFrame = alloc.Intervals[i][1]
	}
	return deck
}

func round(v float64) int {
	return int(math.Round(v))
}

// sentenceEnd matches Japanese and Latin sentence terminators, keeping the
// terminator with its sentence.
var sentenceEnd = regexp.MustCompile(`[^。．.!?！？]*[。．.!?！？]+|[^。．.!?！？]+$`)

// Subtitles splits a slide's narration into per-sentence subtitle windows
// spread across the slide's frame interval proportionally to sentence
// length. Sentences never spill outside [startFrame, endFrame).
func Subtitles(narration string, startFrame, endFrame int) []types.Subtitle {
	sentences := splitSentences(narration)
	if len(sentences) == 0 || endFrame <= startFrame {
		return nil
	}

	// A span narrower than the sentence count cannot give every sentence
	// a frame; show the whole narration as one window instead.
	span := endFrame - startFrame
	if span < len(sentences) {
		return []types.Subtitle{{Text: strings.TrimSpace(narration), StartFrame: startFrame, EndFrame: endFrame}}
	}

	totalRunes := 0
	for _, s := range sentences {
		totalRunes += len([]rune(s))
	}

	subs := make([]types.Subtitle, 0, len(sentences))
	consumed := 0
	cursor := startFrame
	for i, s := range sentences {
		consumed += len([]rune(s))
		end := startFrame + round(float64(span)*float64(consumed)/float64(totalRunes))
		if i == len(sentences)-1 {
			end = endFrame
		}
		if end <= cursor {
			end = cursor + 1
			if end > endFrame {
				end = endFrame
			}
		}
		subs = append(subs, types.Subtitle{Text: s, StartFrame: cursor, EndFrame: end})
		cursor = end
	}
	return subs
}

func splitSentences(text string) []string {
	var sentences []string
	for _, m := range sentenceEnd.FindAllString(text, -1) {
		if s := strings.TrimSpace(m); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
