package configs

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "json")
	}

	home, _ := os.UserHomeDir()
	if !v.IsSet("config_dir") {
		v.Set("config_dir", filepath.Join(home, ".config", "voice-match"))
	}
	if !v.IsSet("data_dir") {
		v.Set("data_dir", filepath.Join(home, ".local", "share", "voice-match"))
	}

	// Pitch statistics defaults
	if !v.IsSet("pitch.confidence_threshold") {
		v.Set("pitch.confidence_threshold", 0.5)
	}
	if !v.IsSet("pitch.min_plausible_hz") {
		v.Set("pitch.min_plausible_hz", 60.0)
	}
	if !v.IsSet("pitch.max_plausible_hz") {
		v.Set("pitch.max_plausible_hz", 1200.0)
	}

	// Embedding defaults
	if !v.IsSet("embedding.dimension") {
		v.Set("embedding.dimension", 512)
	}
	if !v.IsSet("embedding.seed") {
		v.Set("embedding.seed", 42)
	}

	// Similarity defaults
	if !v.IsSet("similarity.top_artists") {
		v.Set("similarity.top_artists", 3)
	}
	if !v.IsSet("similarity.top_songs") {
		v.Set("similarity.top_songs", 10)
	}
	if !v.IsSet("similarity.difficulty_penalty_step") {
		v.Set("similarity.difficulty_penalty_step", 0.1)
	}
	if !v.IsSet("similarity.weights.embedding") {
		v.Set("similarity.weights.embedding", 0.5)
	}
	if !v.IsSet("similarity.weights.pitch") {
		v.Set("similarity.weights.pitch", 0.3)
	}
	if !v.IsSet("similarity.weights.timbre") {
		v.Set("similarity.weights.timbre", 0.2)
	}
	if !v.IsSet("similarity.rescale.min_spread") {
		v.Set("similarity.rescale.min_spread", 0.01)
	}
	if !v.IsSet("similarity.rescale.floor_score") {
		v.Set("similarity.rescale.floor_score", 60.0)
	}
	if !v.IsSet("similarity.rescale.ceil_score") {
		v.Set("similarity.rescale.ceil_score", 95.0)
	}
	if !v.IsSet("similarity.rescale.max_position_bonus") {
		v.Set("similarity.rescale.max_position_bonus", 2.0)
	}
	if !v.IsSet("similarity.rescale.fallback_base") {
		v.Set("similarity.rescale.fallback_base", 85.0)
	}
	if !v.IsSet("similarity.rescale.fallback_step") {
		v.Set("similarity.rescale.fallback_step", 2.0)
	}

	// Output defaults
	if !v.IsSet("output.precision") {
		v.Set("output.precision", 3)
	}
	if !v.IsSet("output.include_metadata") {
		v.Set("output.include_metadata", true)
	}
	if !v.IsSet("output.include_raw_data") {
		v.Set("output.include_raw_data", false)
	}
	if !v.IsSet("output.timestamps") {
		v.Set("output.timestamps", true)
	}
}

// SetDefaults applies default values to the global viper instance
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// GetDefaultConfig returns a fully populated default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "json",
		Pitch:        GetDefaultPitchConfig(),
		Embedding:    GetDefaultEmbeddingConfig(),
		Similarity:   GetDefaultSimilarityConfig(),
		Output:       GetDefaultOutputConfig(),
	}
}

// GetDefaultPitchConfig returns default pitch statistics settings
func GetDefaultPitchConfig() PitchConfig {
	return PitchConfig{
		ConfidenceThreshold: 0.5,
		MinPlausibleHz:      60,
		MaxPlausibleHz:      1200,
	}
}

// GetDefaultEmbeddingConfig returns default embedding settings
func GetDefaultEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		Dimension: 512,
		Seed:      42,
	}
}

// GetDefaultSimilarityConfig returns default similarity settings
func GetDefaultSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		TopArtists:            3,
		TopSongs:              10,
		DifficultyPenaltyStep: 0.1,
		Weights: WeightsConfig{
			Embedding: 0.5,
			Pitch:     0.3,
			Timbre:    0.2,
		},
		Rescale: RescaleConfig{
			MinSpread:        0.01,
			FloorScore:       60,
			CeilScore:        95,
			MaxPositionBonus: 2,
			FallbackBase:     85,
			FallbackStep:     2,
		},
	}
}

// GetDefaultOutputConfig returns default output settings
func GetDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Precision:       3,
		IncludeMetadata: true,
		IncludeRawData:  false,
		Timestamps:      true,
	}
}
