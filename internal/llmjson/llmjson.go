// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llmjson extracts JSON payloads from model responses. Models wrap
// JSON in prose or Markdown code fences despite instructions not to, so
// every stage that requests structured output funnels responses through
// these helpers before unmarshalling.
package llmjson

import (
	"fmt"
	"strings"
)

// StripFence removes a surrounding Markdown code fence, with or without a
// language tag. Text outside the first fence is discarded.
func StripFence(s string) string {
	idx := strings.Index(s, "```")
	if idx < 0 {
		return s
	}
	rest := s[idx+3:]

	// Drop the language tag line ("json", "markdown", ...).
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		first := strings.TrimSpace(rest[:nl])
		if first != "" && !strings.ContainsAny(first, "{}[]") {
			rest = rest[nl+1:]
		}
	}

	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// Object returns the outermost {...} block in s.
func Object(s string) (string, error) {
	return extract(s, '{', '}')
}

// Array returns the outermost [...] block in s.
func Array(s string) (string, error) {
	return extract(s, '[', ']')
}

func extract(s string, open, close byte) (string, error) {
	s = StripFence(s)
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return "", fmt.Errorf("no %c...%c block found in response", open, close)
	}
	return s[start : end+1], nil
}
