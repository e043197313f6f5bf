// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/content-engine/pkg/types"
)

// Secret file names under .secrets/.
const (
	secretGoogleAIKey = "google-ai-api-key"
	secretOpenAIKey   = "openai-api-key"
)

// Default models per stage. The flash model handles metadata passes;
// writing and research use the pro model.
const (
	defaultProModel   = "gemini-2.5-pro"
	defaultFlashModel = "gemini-2.5-flash"
	defaultImageModel = "gemini-2.0-flash-exp-image-generation"
)

func init() {
	viper.SetDefault("research.model", defaultProModel)
	viper.SetDefault("research.topics_file", "topics.yaml")
	viper.SetDefault("research.max_age_days", 7)
	viper.SetDefault("research.search_count", 3)
	viper.SetDefault("research.min_sources", 5)
	viper.SetDefault("research.use_deep_research", true)
	viper.SetDefault("research.verify_sources", true)
	viper.SetDefault("research.max_retries", 3)
	viper.SetDefault("research.timeout", "60s")
	viper.SetDefault("research.user_agent", "content-engine/"+version)

	viper.SetDefault("article.model", defaultProModel)
	viper.SetDefault("article.min_chars", 3000)
	viper.SetDefault("article.max_chars", 6000)
	viper.SetDefault("article.output_dir", "output/posts")

	viper.SetDefault("seo.model", defaultFlashModel)
	viper.SetDefault("seo.enabled", true)

	viper.SetDefault("review.model", defaultFlashModel)
	viper.SetDefault("review.min_score", 70)

	viper.SetDefault("images.model", defaultImageModel)
	viper.SetDefault("images.openai_model", "dall-e-3")
	viper.SetDefault("images.output_dir", "output/images")
	viper.SetDefault("images.max_section_images", 3)
	viper.SetDefault("images.generation_delay", "500ms")

	viper.SetDefault("slides.model", defaultProModel)
	viper.SetDefault("slides.target_slides", 6)
	viper.SetDefault("slides.output_dir", "output/slides")

	viper.SetDefault("narration.model", defaultFlashModel)
	viper.SetDefault("narration.voice", "ja-JP-Neural2-B")
	viper.SetDefault("narration.language_code", "ja-JP")
	viper.SetDefault("narration.sample_rate", 24000)
	viper.SetDefault("narration.min_audio_bytes", 10*1024)

	viper.SetDefault("video.width", 1920)
	viper.SetDefault("video.height", 1080)
	viper.SetDefault("video.fps", 30)
	viper.SetDefault("video.default_slide_seconds", 5.0)
	viper.SetDefault("video.min_slide_seconds", 3.0)
	viper.SetDefault("video.max_slide_seconds", 30.0)
	viper.SetDefault("video.audio_padding", 0.5)
	viper.SetDefault("video.remotion_dir", "remotion")
	viper.SetDefault("video.composition", "SlideVideo")
	viper.SetDefault("video.output_dir", "output/videos")
	viper.SetDefault("video.render_timeout", "10m")

	viper.SetDefault("publish.site_dir", "site")
	viper.SetDefault("publish.remote", "origin")
	viper.SetDefault("publish.branch", "main")

	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.max_results", 20)
}

// pipelineConfig assembles the full stage configuration from viper,
// resolving API keys against the loaded secrets.
func pipelineConfig() types.PipelineConfig {
	googleKey := secretDefault(secretGoogleAIKey, viper.GetString("google_ai_api_key"))
	openaiKey := secretDefault(secretOpenAIKey, viper.GetString("openai_api_key"))

	ai := func(prefix string) types.AIConfig {
		return types.AIConfig{
			Model:      viper.GetString(prefix + ".model"),
			APIKey:     googleKey,
			MaxRetries: viper.GetInt("research.max_retries"),
		}
	}

	return types.PipelineConfig{
		Research: types.ResearchConfig{
			AIConfig: ai("research"),
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("research.timeout"),
				UserAgent: viper.GetString("research.user_agent"),
			},
			TopicsFile:      viper.GetString("research.topics_file"),
			MaxAgeDays:      viper.GetInt("research.max_age_days"),
			SearchCount:     viper.GetInt("research.search_count"),
			UseDeepResearch: viper.GetBool("research.use_deep_research"),
			MinSources:      viper.GetInt("research.min_sources"),
			VerifySources:   viper.GetBool("research.verify_sources"),
		},
		Article: types.ArticleConfig{
			AIConfig:  ai("article"),
			Author:    viper.GetString("publish.author"),
			MinChars:  viper.GetInt("article.min_chars"),
			MaxChars:  viper.GetInt("article.max_chars"),
			OutputDir: viper.GetString("article.output_dir"),
		},
		SEO: types.SEOConfig{
			AIConfig: ai("seo"),
			Enabled:  viper.GetBool("seo.enabled"),
		},
		Review: types.ReviewConfig{
			AIConfig: ai("review"),
			MinScore: viper.GetInt("review.min_score"),
		},
		Images: types.ImageConfig{
			AIConfig:         ai("images"),
			OpenAIAPIKey:     openaiKey,
			OpenAIModel:      viper.GetString("images.openai_model"),
			OutputDir:        viper.GetString("images.output_dir"),
			MaxSectionImages: viper.GetInt("images.max_section_images"),
			GenerationDelay:  viper.GetDuration("images.generation_delay"),
		},
		Slides: types.SlidesConfig{
			AIConfig:     ai("slides"),
			TargetSlides: viper.GetInt("slides.target_slides"),
			OutputDir:    viper.GetString("slides.output_dir"),
		},
		Narration: types.NarrationConfig{
			AIConfig:      ai("narration"),
			Voice:         viper.GetString("narration.voice"),
			LanguageCode:  viper.GetString("narration.language_code"),
			SampleRate:    viper.GetInt("narration.sample_rate"),
			MinAudioBytes: viper.GetInt("narration.min_audio_bytes"),
		},
		Video: types.VideoConfig{
			Width:               viper.GetInt("video.width"),
			Height:              viper.GetInt("video.height"),
			FPS:                 viper.GetInt("video.fps"),
			DefaultSlideSeconds: viper.GetFloat64("video.default_slide_seconds"),
			MinSlideSeconds:     viper.GetFloat64("video.min_slide_seconds"),
			MaxSlideSeconds:     viper.GetFloat64("video.max_slide_seconds"),
			AudioPadding:        viper.GetFloat64("video.audio_padding"),
			RemotionDir:         viper.GetString("video.remotion_dir"),
			Composition:         viper.GetString("video.composition"),
			OutputDir:           viper.GetString("video.output_dir"),
			RenderTimeout:       viper.GetDuration("video.render_timeout"),
		},
		Publish: types.PublishConfig{
			SiteDir: viper.GetString("publish.site_dir"),
			BaseURL: viper.GetString("publish.base_url"),
			Author:  viper.GetString("publish.author"),
			Remote:  viper.GetString("publish.remote"),
			Branch:  viper.GetString("publish.branch"),
		},
		Store: types.StoreConfig{
			DataDir:    viper.GetString("store.data_dir"),
			MaxResults: viper.GetInt("store.max_results"),
		},
	}
}
