// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/internal/narrate"
	"github.com/pdiddy/content-engine/internal/research"
	"github.com/pdiddy/content-engine/pkg/types"
)

func testDeck() []types.Slide {
	return []types.Slide{
		{Heading: "Title", Type: types.SlideTitle, Narration: "はじめます。"},
		{Heading: "Body", Points: []string{"a"}, Type: types.SlideContent, Narration: "本題です。続きです。"},
		{Heading: "End", Type: types.SlideEnding},
	}
}

func oneSecondAudio() types.NarrationAudio {
	return types.NarrationAudio{
		Data:       narrate.EncodeWAV(make([]byte, 48000), 24000, 1),
		SampleRate: 24000,
		Channels:   1,
		Duration:   1,
	}
}

func TestBuildProps(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "slide.png")
	require.NoError(t, os.WriteFile(imgPath, []byte("\x89PNGdata"), 0o644))

	deck := testDeck()
	audios := []types.NarrationAudio{oneSecondAudio(), oneSecondAudio(), {}}
	images := []string{imgPath, "", ""}

	cfg := types.VideoConfig{FPS: 30, DefaultSlideSeconds: 5, AudioPadding: 0.5, MinSlideSeconds: 2}
	props, err := BuildProps(deck, audios, images, research.Topic{}, types.Article{Title: "T"}, cfg)
	require.NoError(t, err)

	require.Len(t, props.Slides, 3)
	assert.Equal(t, 30, props.FPS)
	assert.Equal(t, 1920, props.Width)

	// 1s audio + 0.5s padding clamped up to the 2s minimum; silent slide
	// gets the 5s default. Boundaries stay contiguous.
	assert.Equal(t, 0, props.Slides[0].StartFrame)
	assert.Equal(t, 60, props.Slides[0].EndFrame)
	assert.Equal(t, 60, props.Slides[1].StartFrame)
	assert.Equal(t, 120, props.Slides[1].EndFrame)
	assert.Equal(t, 120, props.Slides[2].StartFrame)
	assert.Equal(t, 270, props.Slides[2].EndFrame)
	assert.Equal(t, 270, props.TotalFrames)

	assert.True(t, strings.HasPrefix(props.Slides[0].ImageURI, "data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(props.Slides[0].AudioURI, "data:audio/wav;base64,"))
	assert.Empty(t, props.Slides[2].AudioURI)

	// Narrated slides carry subtitle windows inside their interval.
	require.NotEmpty(t, props.Slides[1].Subtitles)
	assert.Equal(t, 60, props.Slides[1].Subtitles[0].StartFrame)
	last := props.Slides[1].Subtitles[len(props.Slides[1].Subtitles)-1]
	assert.Equal(t, 120, last.EndFrame)
}

func TestBuildPropsLengthMismatch(t *testing.T) {
	_, err := BuildProps(testDeck(), []types.NarrationAudio{{}}, []string{"", "", ""}, research.Topic{}, types.Article{}, types.VideoConfig{})
	require.Error(t, err)
}

func TestBuildPropsEmptyDeck(t *testing.T) {
	_, err := BuildProps(nil, nil, nil, research.Topic{}, types.Article{}, types.VideoConfig{})
	require.Error(t, err)
}

func TestBuildPropsMissingImageFile(t *testing.T) {
	deck := testDeck()
	_, err := BuildProps(deck, make([]types.NarrationAudio, 3), []string{"/nonexistent/x.png", "", ""}, research.Topic{}, types.Article{}, types.VideoConfig{})
	require.Error(t, err)
}

func TestWritePropsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props", "run.json")
	props := Props{Title: "T", FPS: 30, TotalFrames: 900}

	require.NoError(t, WritePropsFile(props, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded Props
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, props.TotalFrames, loaded.TotalFrames)
}

// fakeExecutor records the render invocation and fabricates the output file.
type fakeExecutor struct {
	lookErr error
	runErr  error
	args    []string
	dir     string
	output  []byte
}

func (f *fakeExecutor) LookPath(string) (string, error) {
	return "/usr/bin/node", f.lookErr
}

func (f *fakeExecutor) Run(_ context.Context, dir string, _, _ io.Writer, name string, args ...string) error {
	f.dir = dir
	f.args = append([]string{name}, args...)
	if f.runErr != nil {
		return f.runErr
	}
	// The last argument is the output path.
	return os.WriteFile(args[len(args)-1], f.output, 0o644)
}

func renderCfg(t *testing.T) types.VideoConfig {
	remotion := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(remotion, "render.mjs"), []byte("// renderer"), 0o644))
	return types.VideoConfig{
		RemotionDir: remotion,
		OutputDir:   t.TempDir(),
		Composition: "SlideVideo",
	}
}

func TestRendererRender(t *testing.T) {
	cfg := renderCfg(t)
	fake := &fakeExecutor{output: []byte("mp4data")}
	r := &Renderer{cfg: cfg, exec: fake, log: &bytes.Buffer{}}

	propsPath := filepath.Join(t.TempDir(), "props.json")
	require.NoError(t, os.WriteFile(propsPath, []byte("{}"), 0o644))

	out, err := r.Render(context.Background(), propsPath, "run.mp4")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(out, "run.mp4"))
	assert.Equal(t, cfg.RemotionDir, fake.dir)
	require.Len(t, fake.args, 5)
	assert.Equal(t, []string{"node", "render.mjs", "SlideVideo"}, fake.args[:3])
}

func TestRendererFailsWithoutNode(t *testing.T) {
	r := &Renderer{cfg: renderCfg(t), exec: &fakeExecutor{lookErr: fmt.Errorf("not found")}, log: &bytes.Buffer{}}
	_, err := r.Render(context.Background(), "props.json", "run.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node is required")
}

func TestRendererFailsWithoutScript(t *testing.T) {
	cfg := renderCfg(t)
	cfg.RemotionDir = t.TempDir() // no render.mjs here
	r := &Renderer{cfg: cfg, exec: &fakeExecutor{}, log: &bytes.Buffer{}}

	_, err := r.Render(context.Background(), "props.json", "run.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renderer script missing")
}

func TestRendererPropagatesRenderFailure(t *testing.T) {
	r := &Renderer{cfg: renderCfg(t), exec: &fakeExecutor{runErr: fmt.Errorf("exit status 1")}, log: &bytes.Buffer{}}
	_, err := r.Render(context.Background(), "props.json", "run.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering video")
}

func TestRendererRejectsEmptyOutput(t *testing.T) {
	r := &Renderer{cfg: renderCfg(t), exec: &fakeExecutor{output: nil}, log: &bytes.Buffer{}}
	_, err := r.Render(context.Background(), "props.json", "run.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty file")
}
