// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strconv"

	"github.com/pdiddy/content-engine/internal/research"
)

const (
	placeholderWidth  = 1280
	placeholderHeight = 720
)

// Placeholder renders a deterministic vertical gradient in the topic's
// colors. It stands in when every image provider fails so the slide deck
// and article never ship with missing assets.
func Placeholder(colors research.ColorScheme) []byte {
	top := parseHex(colors.Primary, color.RGBA{R: 0x2B, G: 0x3A, B: 0x67, A: 0xFF})
	bottom := parseHex(colors.Background, color.RGBA{R: 0x1A, G: 0x1A, B: 0x2E, A: 0xFF})

	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	for y := 0; y < placeholderHeight; y++ {
		c := lerp(top, bottom, float64(y)/float64(placeholderHeight-1))
		for x := 0; x < placeholderWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	// Encoding a fully in-memory RGBA image cannot fail.
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// parseHex parses "#RRGGBB"; anything else yields the fallback.
func parseHex(s string, fallback color.RGBA) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xFF}
}
