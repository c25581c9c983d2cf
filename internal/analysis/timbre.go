package analysis

import (
	"math"
	"sort"
)

// Canonical summary keys. These are the interpretable scalars surfaced
// to callers regardless of which extractor feature set produced the
// underlying map.
const (
	SummaryMeanF0Semitone      = "mean_f0_semitone"
	SummaryF0Variability       = "f0_variability"
	SummaryJitter              = "jitter"
	SummaryShimmer             = "shimmer"
	SummaryHNR                 = "hnr"
	SummaryF1Mean              = "f1_mean"
	SummaryF2Mean              = "f2_mean"
	SummaryF3Mean              = "f3_mean"
	SummaryLoudnessMean        = "loudness_mean"
	SummaryLoudnessVariability = "loudness_variability"
	SummarySpectralFlux        = "spectral_flux"
	SummaryH1H2Ratio           = "h1_h2_ratio"
	SummaryH1A3Ratio           = "h1_a3_ratio"
)

// summaryKeyMapping maps each summary key to its source feature in the
// extractor's eGeMAPS functional set.
var summaryKeyMapping = map[string]string{
	SummaryMeanF0Semitone:      "F0semitoneFrom27.5Hz_sma3nz_amean",
	SummaryF0Variability:       "F0semitoneFrom27.5Hz_sma3nz_stddevNorm",
	SummaryJitter:              "jitterLocal_sma3nz_amean",
	SummaryShimmer:             "shimmerLocaldB_sma3nz_amean",
	SummaryHNR:                 "HNRdBACF_sma3nz_amean",
	SummaryF1Mean:              "F1frequency_sma3nz_amean",
	SummaryF2Mean:              "F2frequency_sma3nz_amean",
	SummaryF3Mean:              "F3frequency_sma3nz_amean",
	SummaryLoudnessMean:        "loudness_sma3_amean",
	SummaryLoudnessVariability: "loudness_sma3_stddevNorm",
	SummarySpectralFlux:        "spectralFlux_sma3_amean",
	SummaryH1H2Ratio:           "logRelF0-H1-H2_sma3nz_amean",
	SummaryH1A3Ratio:           "logRelF0-H1-A3_sma3nz_amean",
}

// TimbreSummarizer condenses an arbitrary extractor feature map into a
// fixed interpretable summary and a flat numeric vector. It never
// fails: absent or NaN features default to 0.
type TimbreSummarizer struct{}

// NewTimbreSummarizer creates a summarizer.
func NewTimbreSummarizer() *TimbreSummarizer {
	return &TimbreSummarizer{}
}

// Summarize extracts the fixed summary scalars from the feature map,
// defaulting missing or NaN values to 0.
func (s *TimbreSummarizer) Summarize(features TimbreFeatureMap) TimbreSummary {
	summary := make(TimbreSummary, len(summaryKeyMapping))
	for key, source := range summaryKeyMapping {
		summary[key] = safeFeature(features, source)
	}
	return summary
}

// FeatureVector flattens the feature map into a float slice. When
// names is nil the map's keys are used in sorted order, so two vectors
// are comparable only if the key sets match. NaN values become 0.
func (s *TimbreSummarizer) FeatureVector(features TimbreFeatureMap, names []string) []float64 {
	if names == nil {
		names = make([]string, 0, len(features))
		for name := range features {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	vector := make([]float64, len(names))
	for i, name := range names {
		vector[i] = safeFeature(features, name)
	}
	return vector
}

func safeFeature(features TimbreFeatureMap, name string) float64 {
	v, ok := features[name]
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}
