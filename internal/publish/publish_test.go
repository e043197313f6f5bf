// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/pkg/types"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation collapsed", "AI, Tools & News!", "ai-tools-news"},
		{"already clean", "weekly-digest", "weekly-digest"},
		{"japanese falls back", "今週のAIニュース", "ai"},
		{"fully non-ascii falls back", "こんにちは", "post"},
		{"long titles truncated", strings.Repeat("word-", 30), "word-word-word-word-word-word-word-word-word-word-word-word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func testPublishArticle() types.Article {
	return types.Article{
		Title:       "AI Weekly Digest",
		Description: "What happened this week",
		Content:     "## Intro\n\nbody",
		Categories:  []string{"ai"},
		Tags:        []string{"news", "tools"},
	}
}

func TestFrontMatter(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	fm := FrontMatter(testPublishArticle(), types.PublishConfig{Author: "bot"}, now)

	assert.True(t, strings.HasPrefix(fm, "---\n"))
	assert.Contains(t, fm, `title: "AI Weekly Digest"`)
	// UTC noon is 21:00 JST.
	assert.Contains(t, fm, "date: 2026-08-29 21:00:00 +0900")
	assert.Contains(t, fm, "author: bot")
	assert.Contains(t, fm, "categories: [ai]")
	assert.Contains(t, fm, "tags: [news, tools]")
	assert.True(t, strings.HasSuffix(fm, "---\n"))
}

func TestCreatePostWritesFileAndHero(t *testing.T) {
	siteDir := t.TempDir()
	hero := filepath.Join(t.TempDir(), "hero.png")
	require.NoError(t, os.WriteFile(hero, []byte("png"), 0o644))

	art := testPublishArticle()
	art.HeroImage = hero
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	name, err := CreatePost(art, types.PublishConfig{SiteDir: siteDir}, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29-ai-weekly-digest.md", name)

	data, err := os.ReadFile(filepath.Join(siteDir, "_posts", name))
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Intro")
	assert.Contains(t, string(data), "image: /assets/images/hero.png")

	_, err = os.Stat(filepath.Join(siteDir, "assets", "images", "hero.png"))
	assert.NoError(t, err)
}

func TestPublicURL(t *testing.T) {
	cfg := types.PublishConfig{BaseURL: "https://blog.example.com/"}
	url := PublicURL("2026-08-29-ai-weekly-digest.md", cfg)
	assert.Equal(t, "https://blog.example.com/2026/08/29/ai-weekly-digest.html", url)

	assert.Equal(t, cfg.BaseURL, PublicURL("malformed.md", cfg))
}

// fakeGit records git invocations and can fail a given subcommand.
type fakeGit struct {
	calls   [][]string
	failCmd string
}

func (f *fakeGit) Git(_ context.Context, _ string, args ...string) error {
	f.calls = append(f.calls, args)
	if f.failCmd != "" && args[0] == f.failCmd {
		return fmt.Errorf("%s failed", f.failCmd)
	}
	return nil
}

func TestPublisherPublish(t *testing.T) {
	git := &fakeGit{}
	cfg := types.PublishConfig{SiteDir: t.TempDir(), BaseURL: "https://blog.example.com"}
	p := &Publisher{cfg: cfg, git: git, log: &bytes.Buffer{}}

	url, err := p.Publish(context.Background(), testPublishArticle())
	require.NoError(t, err)

	assert.Contains(t, url, "https://blog.example.com/")
	assert.Contains(t, url, "ai-weekly-digest.html")

	require.Len(t, git.calls, 3)
	assert.Equal(t, "add", git.calls[0][0])
	assert.Equal(t, "commit", git.calls[1][0])
	// Defaults apply when remote and branch are unset.
	assert.Equal(t, []string{"push", "origin", "main"}, git.calls[2])
}

func TestPublisherPushFailurePropagates(t *testing.T) {
	git := &fakeGit{failCmd: "push"}
	p := &Publisher{cfg: types.PublishConfig{SiteDir: t.TempDir()}, git: git, log: &bytes.Buffer{}}

	_, err := p.Publish(context.Background(), testPublishArticle())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git push")
}
