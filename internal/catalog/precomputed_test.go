package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/voice-match/internal/analysis"
)

func TestLoadContour(t *testing.T) {
	path := writeTestFile(t, "contour.json", `{
  "sample_rate": 16000,
  "duration": 0.03,
  "time": [0.0, 0.01, 0.02],
  "frequency": [220.0, 221.5, 219.8],
  "confidence": [0.9, 0.95, 0.88]
}`)

	file, err := LoadContour(path)
	require.NoError(t, err)

	assert.Equal(t, 16000, file.SampleRate)
	assert.InDelta(t, 0.03, file.Duration, 1e-9)

	contour := file.Contour()
	require.NoError(t, contour.Validate())
	assert.Equal(t, 3, contour.Len())
	assert.InDelta(t, 221.5, contour.Frequency[1], 1e-9)
}

func TestLoadContourMismatchedArrays(t *testing.T) {
	path := writeTestFile(t, "contour.yaml", `
sample_rate: 16000
time: [0.0, 0.01]
frequency: [220.0]
confidence: [0.9]
`)

	_, err := LoadContour(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equal length")
}

func TestLoadFeatures(t *testing.T) {
	path := writeTestFile(t, "features.yaml", `
jitterLocal_sma3nz_amean: 0.02
HNRdBACF_sma3nz_amean: 13.4
`)

	features, err := LoadFeatures(path)
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.InDelta(t, 13.4, features["HNRdBACF_sma3nz_amean"], 1e-9)
}

func TestLoadFeaturesEmpty(t *testing.T) {
	path := writeTestFile(t, "features.yaml", `{}`)

	_, err := LoadFeatures(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestPrecomputedTracker(t *testing.T) {
	contour := &analysis.PitchContour{
		Time:       []float64{0},
		Frequency:  []float64{220},
		Confidence: []float64{0.9},
	}

	tracker := NewPrecomputedTracker(contour)
	got, err := tracker.Predict(context.Background(), nil, 16000)
	require.NoError(t, err)
	assert.Equal(t, contour, got)

	empty := NewPrecomputedTracker(nil)
	_, err = empty.Predict(context.Background(), nil, 16000)
	assert.Error(t, err)
}

func TestPrecomputedExtractor(t *testing.T) {
	features := analysis.TimbreFeatureMap{"jitterLocal_sma3nz_amean": 0.02}

	extractor := NewPrecomputedExtractor(features)
	got, err := extractor.Extract(context.Background(), nil, 16000)
	require.NoError(t, err)
	assert.Equal(t, features, got)

	empty := NewPrecomputedExtractor(nil)
	_, err = empty.Extract(context.Background(), nil, 16000)
	assert.Error(t, err)
}
