// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish drops a finished article into a Jekyll site and pushes
// it. Unlike the asset stages, publish failures propagate: a half-published
// post needs an operator's eyes, not a silent retry.
package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/content-engine/internal/jst"
	"github.com/pdiddy/content-engine/pkg/types"
)

const postsDir = "_posts"

// imagesDir is where Jekyll serves article assets from.
const imagesDir = "assets/images"

// nonSlugChars matches everything a Jekyll filename should not carry.
var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses everything non-alphanumeric into
// single hyphens. Titles that slugify to nothing (e.g. fully Japanese
// ones) fall back to "post".
func Slugify(s string) string {
	slug := strings.ToLower(s)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 60 {
		slug = strings.Trim(slug[:60], "-")
	}
	if slug == "" {
		return "post"
	}
	return slug
}

// FrontMatter renders the Jekyll front-matter block for art. The date
// carries the +0900 offset so Jekyll files the post under JST.
func FrontMatter(art types.Article, cfg types.PublishConfig, now time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("layout: post\n")
	fmt.Fprintf(&b, "title: %q\n", art.Title)
	if art.Description != "" {
		fmt.Fprintf(&b, "description: %q\n", art.Description)
	}
	fmt.Fprintf(&b, "date: %s\n", jst.DateTime(now))
	if cfg.Author != "" {
		fmt.Fprintf(&b, "author: %s\n", cfg.Author)
	}
	writeList(&b, "categories", art.Categories)
	writeList(&b, "tags", art.Tags)
	if art.HeroImage != "" {
		fmt.Fprintf(&b, "image: /%s/%s\n", imagesDir, filepath.Base(art.HeroImage))
	}
	b.WriteString("---\n")
	return b.String()
}

func writeList(b *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: [%s]", key, strings.Join(values, ", "))
	b.WriteString("\n")
}

// CreatePost writes the post file into the site's _posts directory and
// copies the hero image into the asset tree. It returns the post filename.
func CreatePost(art types.Article, cfg types.PublishConfig, now time.Time) (string, error) {
	dir := filepath.Join(cfg.SiteDir, postsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating posts directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.md", jst.Date(now), Slugify(art.Title))
	content := FrontMatter(art, cfg, now) + "\n" + art.Content + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing post: %w", err)
	}

	if art.HeroImage != "" {
		if err := copyHeroImage(art.HeroImage, cfg.SiteDir); err != nil {
			return "", err
		}
	}
	return name, nil
}

func copyHeroImage(src, siteDir string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading hero image: %w", err)
	}
	dir := filepath.Join(siteDir, imagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating images directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filepath.Base(src)), data, 0o644); err != nil {
		return fmt.Errorf("copying hero image: %w", err)
	}
	return nil
}

// PublicURL predicts the GitHub Pages permalink of a post file named
// YYYY-MM-DD-slug.md under the default Jekyll permalink scheme.
func PublicURL(postName string, cfg types.PublishConfig) string {
	base := strings.TrimSuffix(postName, ".md")
	parts := strings.SplitN(base, "-", 4)
	if len(parts) < 4 {
		return cfg.BaseURL
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s.html",
		strings.TrimRight(cfg.BaseURL, "/"), parts[0], parts[1], parts[2], parts[3])
}

// gitRunner abstracts git invocation for testing.
type gitRunner interface {
	Git(ctx context.Context, dir string, args ...string) error
}

type osGitRunner struct {
	log io.Writer
}

func (g *osGitRunner) Git(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = g.log
	cmd.Stderr = g.log
	return cmd.Run()
}

// Publisher writes posts and pushes them to the site repository.
type Publisher struct {
	cfg types.PublishConfig
	git gitRunner
	log io.Writer
}

// NewPublisher builds a publisher writing git output to log.
func NewPublisher(cfg types.PublishConfig, log io.Writer) *Publisher {
	return &Publisher{cfg: cfg, git: &osGitRunner{log: log}, log: log}
}

// Publish writes the post, commits the site changes and pushes them.
// It returns the public URL of the published post.
func (p *Publisher) Publish(ctx context.Context, art types.Article) (string, error) {
	now := jst.Now()
	postName, err := CreatePost(art, p.cfg, now)
	if err != nil {
		return "", err
	}

	remote := p.cfg.Remote
	if remote == "" {
		remote = "origin"
	}
	branch := p.cfg.Branch
	if branch == "" {
		branch = "main"
	}

	if err := p.git.Git(ctx, p.cfg.SiteDir, "add", postsDir, imagesDir); err != nil {
		return "", fmt.Errorf("git add: %w", err)
	}
	message := fmt.Sprintf("Add post: %s", art.Title)
	if err := p.git.Git(ctx, p.cfg.SiteDir, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}
	if err := p.git.Git(ctx, p.cfg.SiteDir, "push", remote, branch); err != nil {
		return "", fmt.Errorf("git push: %w", err)
	}

	url := PublicURL(postName, p.cfg)
	fmt.Fprintf(p.log, "published %s\n", url)
	return url, nil
}
