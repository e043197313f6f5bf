// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "content-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResearchConfig holds settings for the research stage.
type ResearchConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// TopicsFile is the path to the topic registry (default "topics.yaml").
	TopicsFile string `json:"topics_file" yaml:"topics_file"`

	// MaxAgeDays restricts research to sources published within this many
	// days (default 7).
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days"`

	// SearchCount is the number of search-grounded generations the
	// multi-search backend performs (default 3).
	SearchCount int `json:"search_count" yaml:"search_count"`

	// UseDeepResearch enables the deep-research backend ahead of multi-search.
	UseDeepResearch bool `json:"use_deep_research" yaml:"use_deep_research"`

	// MinSources is the minimum number of sources a research result should
	// carry before a warning is emitted (default 5).
	MinSources int `json:"min_sources" yaml:"min_sources"`

	// VerifySources enables HEAD-checking source URLs after research.
	VerifySources bool `json:"verify_sources" yaml:"verify_sources"`
}

// ArticleConfig holds settings for the article writing stage.
type ArticleConfig struct {
	AIConfig `yaml:",inline"`

	// Author is the byline written into article front matter.
	Author string `json:"author" yaml:"author"`

	// MinChars and MaxChars bound the requested article length.
	MinChars int `json:"min_chars" yaml:"min_chars"`
	MaxChars int `json:"max_chars" yaml:"max_chars"`

	// OutputDir is the directory for generated articles (e.g. "output/posts").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// SEOConfig holds settings for the SEO optimization pass.
type SEOConfig struct {
	AIConfig `yaml:",inline"`

	// Enabled toggles the pass; when off the article passes through unchanged.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// ReviewConfig holds settings for the editorial review pass.
type ReviewConfig struct {
	AIConfig `yaml:",inline"`

	// MinScore is the quality score below which a run is flagged (default 70).
	MinScore int `json:"min_score" yaml:"min_score"`
}

// ImageConfig holds settings for the image generation stage.
type ImageConfig struct {
	AIConfig `yaml:",inline"`

	// OpenAIAPIKey enables the DALL-E fallback provider when set.
	OpenAIAPIKey string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`

	// OpenAIModel is the fallback image model (default "dall-e-3").
	OpenAIModel string `json:"openai_model" yaml:"openai_model"`

	// OutputDir is the directory for generated images (e.g. "output/images").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MaxSectionImages caps how many section images are generated (default 3).
	MaxSectionImages int `json:"max_section_images" yaml:"max_section_images"`

	// GenerationDelay is the pause between consecutive image calls (default 500ms).
	GenerationDelay time.Duration `json:"generation_delay" yaml:"generation_delay"`
}

// SlidesConfig holds settings for the slide structure stage.
type SlidesConfig struct {
	AIConfig `yaml:",inline"`

	// TargetSlides is the requested deck size (default 6).
	TargetSlides int `json:"target_slides" yaml:"target_slides"`

	// OutputDir is the directory for slide artifacts (e.g. "output/slides").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// NarrationConfig holds settings for narration synthesis.
type NarrationConfig struct {
	AIConfig `yaml:",inline"`

	// Voice is the TTS voice name (e.g. "ja-JP-Neural2-B").
	Voice string `json:"voice" yaml:"voice"`

	// LanguageCode is the BCP-47 language code (default "ja-JP").
	LanguageCode string `json:"language_code" yaml:"language_code"`

	// SampleRate is the synthesis sample rate in Hz (default 24000).
	SampleRate int `json:"sample_rate" yaml:"sample_rate"`

	// MinAudioBytes is the smallest audio payload accepted as valid (default 10KB).
	// Smaller payloads are discarded and the slide rendered silent.
	MinAudioBytes int `json:"min_audio_bytes" yaml:"min_audio_bytes"`
}

// VideoConfig holds settings for video composition and rendering.
type VideoConfig struct {
	// Width and Height are the output resolution (default 1920x1080).
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// FPS is the frame rate used for timing allocation (default 30).
	FPS int `json:"fps" yaml:"fps"`

	// DefaultSlideSeconds is used when a slide has no narration audio (default 5).
	DefaultSlideSeconds float64 `json:"default_slide_seconds" yaml:"default_slide_seconds"`

	// MinSlideSeconds and MaxSlideSeconds clamp per-slide durations.
	MinSlideSeconds float64 `json:"min_slide_seconds" yaml:"min_slide_seconds"`
	MaxSlideSeconds float64 `json:"max_slide_seconds" yaml:"max_slide_seconds"`

	// AudioPadding is added after each narration clip (default 0.5s).
	AudioPadding float64 `json:"audio_padding" yaml:"audio_padding"`

	// RemotionDir is the directory containing the external renderer project.
	RemotionDir string `json:"remotion_dir" yaml:"remotion_dir"`

	// Composition is the renderer composition id (default "SlideVideo").
	Composition string `json:"composition" yaml:"composition"`

	// OutputDir is the directory for rendered videos (e.g. "output/videos").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// RenderTimeout bounds a single render invocation (default 10m).
	RenderTimeout time.Duration `json:"render_timeout" yaml:"render_timeout"`
}

// PublishConfig holds settings for the static site publishing stage.
type PublishConfig struct {
	// SiteDir is the Jekyll site root (contains _posts/, assets/images/).
	SiteDir string `json:"site_dir" yaml:"site_dir"`

	// BaseURL is the public site URL used to build post permalinks.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Author is the front-matter author string.
	Author string `json:"author" yaml:"author"`

	// Remote and Branch select the git push target (default origin/main).
	Remote string `json:"remote" yaml:"remote"`
	Branch string `json:"branch" yaml:"branch"`
}

// StoreConfig holds settings for the run-history store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Research  ResearchConfig  `json:"research" yaml:"research"`
	Article   ArticleConfig   `json:"article" yaml:"article"`
	SEO       SEOConfig       `json:"seo" yaml:"seo"`
	Review    ReviewConfig    `json:"review" yaml:"review"`
	Images    ImageConfig     `json:"images" yaml:"images"`
	Slides    SlidesConfig    `json:"slides" yaml:"slides"`
	Narration NarrationConfig `json:"narration" yaml:"narration"`
	Video     VideoConfig     `json:"video" yaml:"video"`
	Publish   PublishConfig   `json:"publish" yaml:"publish"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
