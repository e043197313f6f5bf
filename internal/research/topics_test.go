// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topicsYAML = `topics:
  - id: ai_tools
    name: AI Tools
    keywords: [llm, agents]
    research_focus: [product launches]
    target_audience: developers
    voice: casual
    colors:
      primary: "#2B3A67"
      background: "#1A1A2E"
  - id: robotics
    name: Robotics
    keywords: [robots]
  - id: weekly
    name: Weekly Digest
    is_summary: true
    summary_topics: [ai_tools, robotics, missing]
`

func writeTopics(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTopics(t *testing.T) {
	reg, err := LoadTopics(writeTopics(t, topicsYAML))
	require.NoError(t, err)
	require.Len(t, reg.Topics, 3)

	topic, err := reg.Find("ai_tools")
	require.NoError(t, err)
	assert.Equal(t, "AI Tools", topic.Name)
	assert.Equal(t, []string{"llm", "agents"}, topic.Keywords)
	assert.Equal(t, "#2B3A67", topic.Colors.Primary)
}

func TestLoadTopicsErrors(t *testing.T) {
	_, err := LoadTopics(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadTopics(writeTopics(t, "topics: []"))
	require.Error(t, err)

	_, err = LoadTopics(writeTopics(t, "not: [valid"))
	require.Error(t, err)
}

func TestFindUnknownTopic(t *testing.T) {
	reg, err := LoadTopics(writeTopics(t, topicsYAML))
	require.NoError(t, err)

	_, err = reg.Find("nope")
	require.Error(t, err)
}

func TestMembersResolvesSummary(t *testing.T) {
	reg, err := LoadTopics(writeTopics(t, topicsYAML))
	require.NoError(t, err)

	summary, err := reg.Find("weekly")
	require.NoError(t, err)

	members := reg.Members(summary)
	// Unknown member ids are dropped.
	require.Len(t, members, 2)
	assert.Equal(t, "ai_tools", members[0].ID)

	plain, err := reg.Find("robotics")
	require.NoError(t, err)
	assert.Equal(t, []Topic{plain}, reg.Members(plain))
}
