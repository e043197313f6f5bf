// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Article is a generated blog post as it moves through the pipeline.
// The writing stage fills the core fields; SEO and review passes refine
// them in place.
type Article struct {
	Topic       string `json:"topic" yaml:"topic"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	// Content is the full Markdown body including front matter.
	Content string `json:"content" yaml:"content"`

	Categories []string `json:"categories" yaml:"categories"`
	Tags       []string `json:"tags" yaml:"tags"`
	Keywords   []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	Sources []Source `json:"sources" yaml:"sources"`

	// SEOScore and QualityScore are filled by the optimization and review
	// passes; zero means the pass did not run.
	SEOScore     int `json:"seo_score,omitempty" yaml:"seo_score,omitempty"`
	QualityScore int `json:"quality_score,omitempty" yaml:"quality_score,omitempty"`

	// ReviewStatus is "approved", "flagged" or "skipped".
	ReviewStatus string `json:"review_status,omitempty" yaml:"review_status,omitempty"`

	// HeroImage and SectionImages are file paths written by the image stage.
	HeroImage     string   `json:"hero_image,omitempty" yaml:"hero_image,omitempty"`
	SectionImages []string `json:"section_images,omitempty" yaml:"section_images,omitempty"`

	// ResearchDate is the JST date the underlying research was performed.
	ResearchDate string `json:"research_date,omitempty" yaml:"research_date,omitempty"`
}
