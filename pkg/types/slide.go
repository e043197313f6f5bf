// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SlideType tags a slide's role within the deck.
type SlideType string

const (
	SlideTitle   SlideType = "title"
	SlideContent SlideType = "content"
	SlideEnding  SlideType = "ending"
)

// Slide is one visual/narration unit of a generated explainer video.
// StartFrame/EndFrame form a half-open [start, end) interval assigned by
// the timing allocator; until allocation both are zero.
type Slide struct {
	Heading    string    `json:"heading" yaml:"heading"`
	Subheading string    `json:"subheading,omitempty" yaml:"subheading,omitempty"`
	Points     []string  `json:"points,omitempty" yaml:"points,omitempty"`
	Type       SlideType `json:"type" yaml:"type"`

	// ImageDescription guides the slide illustration prompt.
	ImageDescription string `json:"image_description,omitempty" yaml:"image_description,omitempty"`

	// Narration is the spoken script for this slide.
	Narration string `json:"narration,omitempty" yaml:"narration,omitempty"`

	StartFrame int `json:"startFrame" yaml:"start_frame"`
	EndFrame   int `json:"endFrame" yaml:"end_frame"`
}

// NarrationAudio holds synthesized speech attached to a slide. Data is a
// complete WAV payload; Duration is derived from the PCM length.
type NarrationAudio struct {
	Data       []byte  `json:"-" yaml:"-"`
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Channels   int     `json:"channels" yaml:"channels"`
	Duration   float64 `json:"duration" yaml:"duration"`
}

// Empty reports whether no usable audio was produced for a slide.
func (a NarrationAudio) Empty() bool {
	return len(a.Data) == 0
}

// Subtitle is one caption segment displayed inside a slide's frame interval.
type Subtitle struct {
	Text       string `json:"text" yaml:"text"`
	StartFrame int    `json:"startFrame" yaml:"start_frame"`
	EndFrame   int    `json:"endFrame" yaml:"end_frame"`
}
