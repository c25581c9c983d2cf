package catalog

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/voice-match/internal/analysis"
)

// ContourFile is the on-disk form of one external pitch tracker run:
// the contour arrays plus the clip metadata the tracker saw.
type ContourFile struct {
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Duration   float64 `json:"duration,omitempty" yaml:"duration,omitempty"`

	Time       []float64 `json:"time" yaml:"time"`
	Frequency  []float64 `json:"frequency" yaml:"frequency"`
	Confidence []float64 `json:"confidence" yaml:"confidence"`
}

// Contour returns the file content as an analysis contour.
func (f *ContourFile) Contour() *analysis.PitchContour {
	return &analysis.PitchContour{
		Time:       f.Time,
		Frequency:  f.Frequency,
		Confidence: f.Confidence,
	}
}

// LoadContour loads a tracker output file and validates its structure.
func LoadContour(filePath string) (*ContourFile, error) {
	var file ContourFile
	if err := loadFile(filePath, &file); err != nil {
		return nil, fmt.Errorf("failed to load pitch contour: %w", err)
	}

	if err := file.Contour().Validate(); err != nil {
		return nil, fmt.Errorf("invalid pitch contour %s: %w", filePath, err)
	}

	return &file, nil
}

// LoadFeatures loads an extractor output file (name -> scalar map).
func LoadFeatures(filePath string) (analysis.TimbreFeatureMap, error) {
	var features analysis.TimbreFeatureMap
	if err := loadFile(filePath, &features); err != nil {
		return nil, fmt.Errorf("failed to load timbre features: %w", err)
	}

	if len(features) == 0 {
		return nil, fmt.Errorf("timbre feature file %s is empty", filePath)
	}

	return features, nil
}

// PrecomputedTracker satisfies analysis.PitchTracker with the stored
// output of an external tracker run, for offline analysis where the
// neural model already ran elsewhere.
type PrecomputedTracker struct {
	contour *analysis.PitchContour
}

// NewPrecomputedTracker wraps an already-extracted contour.
func NewPrecomputedTracker(contour *analysis.PitchContour) *PrecomputedTracker {
	return &PrecomputedTracker{contour: contour}
}

// Predict returns the stored contour regardless of the waveform.
func (t *PrecomputedTracker) Predict(_ context.Context, _ []float64, _ int) (*analysis.PitchContour, error) {
	if t.contour == nil {
		return nil, fmt.Errorf("no precomputed pitch contour available")
	}
	return t.contour, nil
}

// PrecomputedExtractor satisfies analysis.FeatureExtractor with the
// stored output of an external feature extractor run.
type PrecomputedExtractor struct {
	features analysis.TimbreFeatureMap
}

// NewPrecomputedExtractor wraps an already-extracted feature map.
func NewPrecomputedExtractor(features analysis.TimbreFeatureMap) *PrecomputedExtractor {
	return &PrecomputedExtractor{features: features}
}

// Extract returns the stored feature map regardless of the waveform.
func (e *PrecomputedExtractor) Extract(_ context.Context, _ []float64, _ int) (analysis.TimbreFeatureMap, error) {
	if len(e.features) == 0 {
		return nil, fmt.Errorf("no precomputed timbre features available")
	}
	return e.features, nil
}
