package configs

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfigIsValid(t *testing.T) {
	config := GetDefaultConfig()
	require.NoError(t, ValidateConfig(config))

	assert.InDelta(t, 0.5, config.Pitch.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 512, config.Embedding.Dimension)
	assert.Equal(t, uint64(42), config.Embedding.Seed)
	assert.Equal(t, 3, config.Similarity.TopArtists)
	assert.Equal(t, 10, config.Similarity.TopSongs)

	weights := config.Similarity.Weights
	assert.InDelta(t, 1.0, weights.Embedding+weights.Pitch+weights.Timbre, 1e-9)
}

func TestSetDefaultsRespectsExistingValues(t *testing.T) {
	v := viper.New()
	v.Set("embedding.dimension", 128)

	setDefaults(v)

	assert.Equal(t, 128, v.GetInt("embedding.dimension"))
	assert.Equal(t, uint64(42), v.GetUint64("embedding.seed"))
	assert.InDelta(t, 0.5, v.GetFloat64("pitch.confidence_threshold"), 1e-9)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "confidence threshold above 1",
			mutate:  func(c *Config) { c.Pitch.ConfidenceThreshold = 1.5 },
			wantErr: "confidence threshold",
		},
		{
			name:    "inverted plausible window",
			mutate:  func(c *Config) { c.Pitch.MaxPlausibleHz = 50 },
			wantErr: "maximum plausible pitch",
		},
		{
			name:    "zero embedding dimension",
			mutate:  func(c *Config) { c.Embedding.Dimension = 0 },
			wantErr: "embedding dimension",
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.Similarity.Weights.Pitch = -0.1 },
			wantErr: "cannot be negative",
		},
		{
			name: "all weights zero",
			mutate: func(c *Config) {
				c.Similarity.Weights = WeightsConfig{}
			},
			wantErr: "at least one similarity weight",
		},
		{
			name: "inverted rescale band",
			mutate: func(c *Config) {
				c.Similarity.Rescale.FloorScore = 95
				c.Similarity.Rescale.CeilScore = 60
			},
			wantErr: "rescale band",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := GetDefaultConfig()
			tt.mutate(config)

			err := ValidateConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
