package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`
	ConfigDir    string `mapstructure:"config_dir"`
	DataDir      string `mapstructure:"data_dir"`

	// Pitch statistics configuration
	Pitch PitchConfig `mapstructure:"pitch"`

	// Embedding projection configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Similarity and ranking configuration
	Similarity SimilarityConfig `mapstructure:"similarity"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`
}

// PitchConfig contains pitch statistics settings
type PitchConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	MinPlausibleHz      float64 `mapstructure:"min_plausible_hz"`
	MaxPlausibleHz      float64 `mapstructure:"max_plausible_hz"`
}

// EmbeddingConfig contains embedding projection settings
type EmbeddingConfig struct {
	Dimension int    `mapstructure:"dimension"`
	Seed      uint64 `mapstructure:"seed"`
}

// SimilarityConfig contains similarity scoring and ranking settings
type SimilarityConfig struct {
	TopArtists            int     `mapstructure:"top_artists"`
	TopSongs              int     `mapstructure:"top_songs"`
	DifficultyPenaltyStep float64 `mapstructure:"difficulty_penalty_step"`

	Weights WeightsConfig `mapstructure:"weights"`
	Rescale RescaleConfig `mapstructure:"rescale"`
}

// WeightsConfig weights the similarity factors
type WeightsConfig struct {
	Embedding float64 `mapstructure:"embedding"`
	Pitch     float64 `mapstructure:"pitch"`
	Timbre    float64 `mapstructure:"timbre"`
}

// RescaleConfig contains the display-band constants for artist score
// rescaling
type RescaleConfig struct {
	MinSpread        float64 `mapstructure:"min_spread"`
	FloorScore       float64 `mapstructure:"floor_score"`
	CeilScore        float64 `mapstructure:"ceil_score"`
	MaxPositionBonus float64 `mapstructure:"max_position_bonus"`
	FallbackBase     float64 `mapstructure:"fallback_base"`
	FallbackStep     float64 `mapstructure:"fallback_step"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision       int  `mapstructure:"precision"`
	IncludeMetadata bool `mapstructure:"include_metadata"`
	IncludeRawData  bool `mapstructure:"include_raw_data"`
	Timestamps      bool `mapstructure:"timestamps"`
	Colors          bool `mapstructure:"colors"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Pitch.ConfidenceThreshold < 0 || config.Pitch.ConfidenceThreshold > 1 {
		return fmt.Errorf("pitch confidence threshold must be between 0 and 1")
	}

	if config.Pitch.MinPlausibleHz <= 0 {
		return fmt.Errorf("minimum plausible pitch must be positive")
	}

	if config.Pitch.MaxPlausibleHz <= config.Pitch.MinPlausibleHz {
		return fmt.Errorf("maximum plausible pitch must exceed the minimum")
	}

	if config.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive")
	}

	if config.Similarity.TopArtists <= 0 {
		return fmt.Errorf("similarity top artists must be positive")
	}

	if config.Similarity.TopSongs <= 0 {
		return fmt.Errorf("similarity top songs must be positive")
	}

	weights := config.Similarity.Weights
	if weights.Embedding < 0 || weights.Pitch < 0 || weights.Timbre < 0 {
		return fmt.Errorf("similarity weights cannot be negative")
	}
	if weights.Embedding+weights.Pitch+weights.Timbre <= 0 {
		return fmt.Errorf("at least one similarity weight must be positive")
	}

	rescale := config.Similarity.Rescale
	if rescale.FloorScore < 0 || rescale.CeilScore > 100 || rescale.FloorScore >= rescale.CeilScore {
		return fmt.Errorf("rescale band must satisfy 0 <= floor < ceil <= 100")
	}

	return nil
}
