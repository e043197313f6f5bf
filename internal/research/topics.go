// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ColorScheme is the per-topic slide palette.
type ColorScheme struct {
	Primary       string `yaml:"primary" json:"primary"`
	Secondary     string `yaml:"secondary" json:"secondary"`
	Background    string `yaml:"background" json:"background"`
	BackgroundAlt string `yaml:"background_alt" json:"background_alt"`
}

// Topic is one entry of the topic registry. A summary topic spans several
// member topics and produces a cross-cutting weekly digest.
type Topic struct {
	ID             string      `yaml:"id" json:"id"`
	Name           string      `yaml:"name" json:"name"`
	Keywords       []string    `yaml:"keywords" json:"keywords"`
	ResearchFocus  []string    `yaml:"research_focus" json:"research_focus"`
	TargetAudience string      `yaml:"target_audience" json:"target_audience"`
	Voice          string      `yaml:"voice" json:"voice"`
	Colors         ColorScheme `yaml:"colors" json:"colors"`

	IsSummary     bool     `yaml:"is_summary" json:"is_summary"`
	SummaryTopics []string `yaml:"summary_topics" json:"summary_topics"`
}

// Registry holds all configured topics.
type Registry struct {
	Topics []Topic `yaml:"topics" json:"topics"`
}

// LoadTopics reads the topic registry YAML file.
func LoadTopics(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file: %w", err)
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing topics file %s: %w", path, err)
	}
	if len(reg.Topics) == 0 {
		return nil, fmt.Errorf("topics file %s defines no topics", path)
	}
	return &reg, nil
}

// Find returns the topic with the given id.
func (r *Registry) Find(id string) (Topic, error) {
	for _, t := range r.Topics {
		if t.ID == id {
			return t, nil
		}
	}
	return Topic{}, fmt.Errorf("unknown topic: %s", id)
}

// Members resolves a summary topic's member topics. Unknown member ids are
// skipped; a non-summary topic resolves to itself.
func (r *Registry) Members(t Topic) []Topic {
	if !t.IsSummary {
		return []Topic{t}
	}
	var members []Topic
	for _, id := range t.SummaryTopics {
		if m, err := r.Find(id); err == nil {
			members = append(members, m)
		}
	}
	return members
}
