// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package video

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pdiddy/content-engine/pkg/types"
)

const (
	binNode        = "node"
	renderScript   = "render.mjs"
	defaultTimeout = 10 * time.Minute
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Renderer invokes the external Remotion project to turn a props file into
// an MP4. A render failure aborts the run; there is no partial output worth
// publishing.
type Renderer struct {
	cfg  types.VideoConfig
	exec executor
	log  io.Writer
}

// NewRenderer builds a renderer writing progress output to log.
func NewRenderer(cfg types.VideoConfig, log io.Writer) *Renderer {
	return &Renderer{cfg: cfg, exec: &osExecutor{}, log: log}
}

// Render runs `node render.mjs <composition> <propsPath> <outputPath>`
// inside the Remotion project directory and returns the output path.
func (r *Renderer) Render(ctx context.Context, propsPath, outputName string) (string, error) {
	if _, err := r.exec.LookPath(binNode); err != nil {
		return "", fmt.Errorf("node is required for rendering: %w", err)
	}

	script := filepath.Join(r.cfg.RemotionDir, renderScript)
	if _, err := os.Stat(script); err != nil {
		return "", fmt.Errorf("renderer script missing: %w", err)
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating video directory: %w", err)
	}
	outputPath, err := filepath.Abs(filepath.Join(r.cfg.OutputDir, outputName))
	if err != nil {
		return "", err
	}
	absProps, err := filepath.Abs(propsPath)
	if err != nil {
		return "", err
	}

	composition := r.cfg.Composition
	if composition == "" {
		composition = "SlideVideo"
	}
	timeout := r.cfg.RenderTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fmt.Fprintf(r.log, "rendering %s -> %s\n", composition, outputPath)
	if err := r.exec.Run(ctx, r.cfg.RemotionDir, r.log, r.log, binNode, renderScript, composition, absProps, outputPath); err != nil {
		return "", fmt.Errorf("rendering video: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return "", fmt.Errorf("renderer exited clean but produced no output: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("renderer produced an empty file")
	}
	return outputPath, nil
}
