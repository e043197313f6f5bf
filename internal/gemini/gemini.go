// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gemini wraps the Generative AI SDK behind a small client used by
// every LLM-backed stage. It adds bounded retries with exponential backoff
// on transient API failures and normalizes text, image and citation
// extraction from responses.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pdiddy/content-engine/pkg/types"
)

// RetryBaseDelay controls the base backoff between retried API calls.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 3

// Client is a thin wrapper over the genai client shared by all stages.
type Client struct {
	genai      *genai.Client
	maxRetries int
}

// NewClient creates a client authenticated with apiKey. maxRetries bounds
// retry attempts per call; 0 selects the default (3).
func NewClient(ctx context.Context, apiKey string, maxRetries int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generative AI API key is required")
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating generative AI client: %w", err)
	}
	return &Client{genai: c, maxRetries: maxRetries}, nil
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.genai.Close()
}

// GenerateOptions selects the model and generation parameters for one call.
type GenerateOptions struct {
	Model        string
	Temperature  float32
	MaxTokens    int32
	EnableSearch bool
	System       string
}

// TextResult holds a generated text plus any grounding citations the model
// attached to it.
type TextResult struct {
	Text    string
	Sources []types.Source
}

// GenerateText runs a single text generation, retrying transient failures.
// When opts.EnableSearch is set the request asks the model to ground its
// output in web sources and the result carries any citations returned.
func (c *Client) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (TextResult, error) {
	model := c.model(opts)

	var resp *genai.GenerateContentResponse
	err := c.withRetry(ctx, func() error {
		var err error
		resp, err = model.GenerateContent(ctx, genai.Text(prompt))
		return err
	})
	if err != nil {
		return TextResult{}, fmt.Errorf("generating content with %s: %w", opts.Model, err)
	}

	text := collectText(resp)
	if text == "" {
		return TextResult{}, fmt.Errorf("model %s returned no text", opts.Model)
	}

	return TextResult{Text: text, Sources: collectSources(resp)}, nil
}

// GenerateImage asks an image-capable model for a single image and returns
// its raw bytes. Payloads under 1KB are rejected as truncated.
func (c *Client) GenerateImage(ctx context.Context, prompt, model string) ([]byte, error) {
	m := c.genai.GenerativeModel(model)

	var resp *genai.GenerateContentResponse
	err := c.withRetry(ctx, func() error {
		var err error
		resp, err = m.GenerateContent(ctx, genai.Text(prompt))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("generating image with %s: %w", model, err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			blob, ok := part.(genai.Blob)
			if !ok || !strings.HasPrefix(blob.MIMEType, "image/") {
				continue
			}
			if len(blob.Data) <= 1024 {
				return nil, fmt.Errorf("model %s returned a truncated image (%d bytes)", model, len(blob.Data))
			}
			return blob.Data, nil
		}
	}
	return nil, fmt.Errorf("model %s returned no image data", model)
}

// searchInstruction requests grounded output. The v1beta veneer exposes no
// server-side search tool, so grounding is asked for through the system
// instruction; citations come back via CitationMetadata and inline links.
const searchInstruction = "Ground every factual claim in current web sources. " +
	"Cite each source inline as a markdown link with its title and full URL."

// systemText combines the caller's system instruction with the grounding
// directive when search is requested.
func systemText(opts GenerateOptions) string {
	if !opts.EnableSearch {
		return opts.System
	}
	if opts.System == "" {
		return searchInstruction
	}
	return opts.System + "\n\n" + searchInstruction
}

func (c *Client) model(opts GenerateOptions) *genai.GenerativeModel {
	m := c.genai.GenerativeModel(opts.Model)
	m.SetTemperature(opts.Temperature)
	if opts.MaxTokens > 0 {
		m.SetMaxOutputTokens(opts.MaxTokens)
	}
	if system := systemText(opts); system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	return m
}

// withRetry runs fn up to maxRetries+1 times with exponential backoff.
// Any error is treated as potentially transient; the API mixes rate limits
// and 5xx into opaque status errors.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var last error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := RetryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if last = fn(); last == nil {
			return nil
		}
	}
	return last
}

func collectText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func collectSources(resp *genai.GenerateContentResponse) []types.Source {
	var sources []types.Source
	seen := make(map[string]bool)

	for _, cand := range resp.Candidates {
		if cand.CitationMetadata == nil {
			continue
		}
		for _, cs := range cand.CitationMetadata.CitationSources {
			if cs.URI == nil || *cs.URI == "" || seen[*cs.URI] {
				continue
			}
			seen[*cs.URI] = true
			sources = append(sources, types.Source{URL: *cs.URI})
		}
	}
	return sources
}
