// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func finishedRun(topic string, started time.Time) *Run {
	run := NewRun(topic)
	run.Title = "Post about " + topic
	run.Stages["research"] = StageOK
	run.Stages["article"] = StageOK
	run.QualityScore = 85
	run.StartedAt = started
	run.FinishedAt = started.Add(10 * time.Minute)
	return run
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)

	run := finishedRun("ai_tools", time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC))
	run.PublishedURL = "https://blog.example.com/2026/08/29/post.html"
	require.NoError(t, s.SaveRun(run))

	got, err := s.GetRun(run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.Topic, got.Topic)
	assert.Equal(t, run.PublishedURL, got.PublishedURL)
	assert.Equal(t, StageOK, got.Stages["research"])
	assert.True(t, got.StartedAt.Equal(run.StartedAt))
}

func TestGetRunUnknown(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown run")
}

func TestSaveRunUpserts(t *testing.T) {
	s := newTestStore(t)

	run := finishedRun("ai_tools", time.Now())
	require.NoError(t, s.SaveRun(run))
	run.QualityScore = 95
	require.NoError(t, s.SaveRun(run))

	got, err := s.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, 95, got.QualityScore)

	runs, err := s.ListRuns("", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestListRunsFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	for i, topic := range []string{"ai_tools", "robotics", "ai_tools"} {
		require.NoError(t, s.SaveRun(finishedRun(topic, base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := s.ListRuns("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.True(t, all[0].StartedAt.After(all[1].StartedAt))

	filtered, err := s.ListRuns("robotics", 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "robotics", filtered[0].Topic)

	limited, err := s.ListRuns("", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestExportYAML(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveRun(finishedRun("ai_tools", time.Now())))

	path := filepath.Join(t.TempDir(), "runs.yaml")
	require.NoError(t, s.ExportYAML(path, "", 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "topic: ai_tools")
}

func TestNewRunDefaults(t *testing.T) {
	run := NewRun("ai_tools")
	assert.NotEmpty(t, run.ID)
	assert.NotNil(t, run.Stages)
	assert.False(t, run.StartedAt.IsZero())
}
