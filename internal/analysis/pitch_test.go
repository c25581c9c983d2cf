package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampContour builds a fully voiced contour sweeping linearly from
// startHz through startHz+2*(n-1) Hz.
func rampContour(n int, startHz float64) *PitchContour {
	c := &PitchContour{
		Time:       make([]float64, n),
		Frequency:  make([]float64, n),
		Confidence: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		c.Time[i] = float64(i) * 0.01
		c.Frequency[i] = startHz + 2*float64(i)
		c.Confidence[i] = 1.0
	}
	return c
}

func TestAnalyzeLinearRamp(t *testing.T) {
	analyzer := NewPitchAnalyzer(nil)

	// 101 samples from 100 to 300 Hz in 2 Hz steps. The 5th/50th/95th
	// percentiles land exactly on samples: 110, 200, 290.
	stats, err := analyzer.Analyze(rampContour(101, 100))
	require.NoError(t, err)

	assert.InDelta(t, 110, stats.MinHz, 1e-9)
	assert.InDelta(t, 290, stats.MaxHz, 1e-9)
	assert.InDelta(t, 200, stats.MedianHz, 1e-9)
	assert.InDelta(t, 200, stats.MeanHz, 1e-9)
	assert.InDelta(t, 180, stats.RangeHz, 1e-9)
	assert.InDelta(t, math.Log2(290.0/110.0), stats.OctaveRange, 1e-9)
	assert.InDelta(t, 1.0, stats.VoicedRatio, 1e-9)
	assert.Greater(t, stats.StdHz, 0.0)

	assert.Equal(t, "bass", stats.VoiceType)
	assert.Equal(t, "A2", stats.MinNote)
	assert.Equal(t, "D4", stats.MaxNote)
}

func TestAnalyzeOrderingInvariant(t *testing.T) {
	analyzer := NewPitchAnalyzer(nil)

	contour := &PitchContour{
		Time:       []float64{0, 0.01, 0.02, 0.03, 0.04, 0.05},
		Frequency:  []float64{310, 150, 512, 198, 230, 95},
		Confidence: []float64{0.9, 0.8, 0.9, 0.7, 0.95, 0.6},
	}

	stats, err := analyzer.Analyze(contour)
	require.NoError(t, err)

	assert.LessOrEqual(t, stats.MinHz, stats.MedianHz)
	assert.LessOrEqual(t, stats.MedianHz, stats.MaxHz)
	assert.InDelta(t, stats.MaxHz-stats.MinHz, stats.RangeHz, 1e-9)
	assert.InDelta(t, math.Log2(stats.MaxHz/stats.MinHz), stats.OctaveRange, 1e-9)
}

func TestAnalyzeConfidenceFiltering(t *testing.T) {
	analyzer := NewPitchAnalyzer(nil)

	// Half the frames carry a confident 220 Hz tone, half a
	// low-confidence octave error. Only the confident frames count.
	n := 40
	contour := &PitchContour{
		Time:       make([]float64, n),
		Frequency:  make([]float64, n),
		Confidence: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		contour.Time[i] = float64(i) * 0.01
		if i%2 == 0 {
			contour.Frequency[i] = 220
			contour.Confidence[i] = 0.9
		} else {
			contour.Frequency[i] = 880
			contour.Confidence[i] = 0.3
		}
	}

	stats, err := analyzer.Analyze(contour)
	require.NoError(t, err)

	assert.InDelta(t, 220, stats.MinHz, 1e-9)
	assert.InDelta(t, 220, stats.MaxHz, 1e-9)
	assert.InDelta(t, 220, stats.MedianHz, 1e-9)
	assert.InDelta(t, 0.5, stats.VoicedRatio, 1e-9)
	assert.Equal(t, "A3", stats.MinNote)
}

func TestAnalyzeCustomThreshold(t *testing.T) {
	analyzer := NewPitchAnalyzer(&PitchAnalyzerConfig{ConfidenceThreshold: 0.8})

	contour := &PitchContour{
		Time:       []float64{0, 0.01, 0.02, 0.03},
		Frequency:  []float64{200, 205, 210, 215},
		Confidence: []float64{0.85, 0.85, 0.6, 0.6},
	}

	stats, err := analyzer.Analyze(contour)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, stats.VoicedRatio, 1e-9)
	assert.InDelta(t, 204.75, stats.MaxHz, 1e-9)
}

func TestVoicedRatioMonotoneInThreshold(t *testing.T) {
	contour := &PitchContour{
		Time:       []float64{0, 0.01, 0.02, 0.03, 0.04},
		Frequency:  []float64{200, 210, 220, 230, 240},
		Confidence: []float64{0.3, 0.5, 0.6, 0.8, 0.95},
	}

	previous := 1.1
	for _, threshold := range []float64{0.2, 0.4, 0.55, 0.7, 0.9} {
		analyzer := NewPitchAnalyzer(&PitchAnalyzerConfig{ConfidenceThreshold: threshold})
		stats, err := analyzer.Analyze(contour)
		require.NoError(t, err, "threshold %.2f", threshold)

		assert.LessOrEqual(t, stats.VoicedRatio, previous, "threshold %.2f", threshold)
		previous = stats.VoicedRatio
	}
}

func TestAnalyzeCustomPlausibleWindow(t *testing.T) {
	contour := &PitchContour{
		Time:       []float64{0, 0.01, 0.02, 0.03, 0.04},
		Frequency:  []float64{80, 200, 210, 220, 350},
		Confidence: []float64{0.9, 0.9, 0.9, 0.9, 0.9},
	}

	// Under the default window every sample survives and the outliers
	// pull the percentile range wide open.
	wide, err := NewPitchAnalyzer(nil).Analyze(contour)
	require.NoError(t, err)
	assert.InDelta(t, 104, wide.MinHz, 1e-9)
	assert.InDelta(t, 324, wide.MaxHz, 1e-9)

	// A narrower configured window drops the 80 and 350 Hz samples
	// before any statistics are computed.
	narrow, err := NewPitchAnalyzer(&PitchAnalyzerConfig{
		MinPlausibleHz: 100,
		MaxPlausibleHz: 300,
	}).Analyze(contour)
	require.NoError(t, err)
	assert.InDelta(t, 201, narrow.MinHz, 1e-9)
	assert.InDelta(t, 210, narrow.MedianHz, 1e-9)
	assert.InDelta(t, 219, narrow.MaxHz, 1e-9)
}

func TestAnalyzeNoVoicedFrames(t *testing.T) {
	analyzer := NewPitchAnalyzer(nil)

	contour := &PitchContour{
		Time:       []float64{0, 0.01, 0.02},
		Frequency:  []float64{200, 210, 220},
		Confidence: []float64{0.1, 0.2, 0.05},
	}

	stats, err := analyzer.Analyze(contour)
	require.ErrorIs(t, err, ErrInsufficientVoicedSignal)
	assert.Nil(t, stats)
}

func TestAnalyzeImplausibleFallback(t *testing.T) {
	analyzer := NewPitchAnalyzer(nil)

	// Every voiced frame is below the plausible vocal floor. The
	// plausibility filter must fall back to the voiced set instead of
	// failing.
	contour := &PitchContour{
		Time:       []float64{0, 0.01, 0.02},
		Frequency:  []float64{30, 32, 34},
		Confidence: []float64{0.9, 0.9, 0.9},
	}

	stats, err := analyzer.Analyze(contour)
	require.NoError(t, err)

	assert.InDelta(t, 32, stats.MedianHz, 1e-9)
	assert.Equal(t, "", stats.VoiceType)
}

func TestAnalyzeInvalidContour(t *testing.T) {
	analyzer := NewPitchAnalyzer(nil)

	_, err := analyzer.Analyze(nil)
	assert.Error(t, err)

	_, err = analyzer.Analyze(&PitchContour{
		Time:       []float64{0, 0.01},
		Frequency:  []float64{200},
		Confidence: []float64{0.9},
	})
	assert.Error(t, err)
}

func TestClassifyVoiceType(t *testing.T) {
	analyzer := NewPitchAnalyzer(nil)

	tests := []struct {
		name     string
		medianHz float64
		expected string
	}{
		{"low median fits bass despite baritone overlap", 200, "bass"},
		{"baritone band center", 250, "baritone"},
		{"tenor band center", 325, "tenor"},
		{"alto band center", 440, "alto"},
		{"mezzo-soprano near center", 560, "mezzo-soprano"},
		{"high median only fits soprano", 1000, "soprano"},
		{"below every band", 50, ""},
		{"above every band", 1150, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.ClassifyVoiceType(tt.medianHz-10, tt.medianHz+10, tt.medianHz)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifyVoiceTypeNoRangeOverlap(t *testing.T) {
	analyzer := NewPitchAnalyzer(&PitchAnalyzerConfig{
		Bands: []VoiceBand{
			{Label: "narrow", LowHz: 100, HiHz: 200},
			{Label: "wide", LowHz: 100, HiHz: 400},
		},
	})

	// Median 150 sits in both bands. The narrow band is the closer fit,
	// and the overlap bonus applies to both, so it still wins.
	assert.Equal(t, "narrow", analyzer.ClassifyVoiceType(140, 160, 150))
}

func TestDefaultVoiceBandsOrder(t *testing.T) {
	bands := DefaultVoiceBands()
	require.Len(t, bands, 6)

	assert.Equal(t, "bass", bands[0].Label)
	assert.Equal(t, "soprano", bands[5].Label)

	for _, band := range bands {
		assert.Less(t, band.LowHz, band.HiHz, band.Label)
	}
}
