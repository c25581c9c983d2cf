package analysis

import (
	"math"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/sonido-sonar/algorithms/stats"
	"gonum.org/v1/gonum/stat"
)

// Default physically plausible fundamental frequency bounds for a
// human voice. Tracker output outside this window is treated as an
// octave error.
const (
	MinPlausibleHz = 60.0
	MaxPlausibleHz = 1200.0
)

// Percentiles used for the reported range bounds. True min/max are too
// sensitive to octave-jump outliers from the pitch tracker.
const (
	rangeLowPercentile  = 5.0
	rangeHighPercentile = 95.0
)

// DefaultConfidenceThreshold is the minimum tracker confidence for a
// frame to count as voiced.
const DefaultConfidenceThreshold = 0.5

// VoiceBand is a named pitch band used for voice type classification.
// Bands overlap; classification is best-fit against the median pitch.
type VoiceBand struct {
	Label string
	LowHz float64
	HiHz  float64
}

// DefaultVoiceBands lists the classification bands in enumeration
// order. Order matters: score ties are broken by the first band with
// the maximum score.
func DefaultVoiceBands() []VoiceBand {
	return []VoiceBand{
		{Label: "bass", LowHz: 80, HiHz: 350},
		{Label: "baritone", LowHz: 100, HiHz: 400},
		{Label: "tenor", LowHz: 130, HiHz: 520},
		{Label: "alto", LowHz: 175, HiHz: 700},
		{Label: "mezzo-soprano", LowHz: 200, HiHz: 880},
		{Label: "soprano", LowHz: 260, HiHz: 1050},
	}
}

// PitchAnalyzer turns a raw pitch contour into vocal range statistics
// and a voice type classification.
type PitchAnalyzer struct {
	confidenceThreshold float64
	minPlausibleHz      float64
	maxPlausibleHz      float64
	bands               []VoiceBand
	percentiles         *stats.Percentiles
	logger              logging.Logger
}

// PitchAnalyzerConfig configures a PitchAnalyzer. Zero values fall back
// to defaults.
type PitchAnalyzerConfig struct {
	ConfidenceThreshold float64
	MinPlausibleHz      float64
	MaxPlausibleHz      float64
	Bands               []VoiceBand
	Logger              logging.Logger
}

// NewPitchAnalyzer creates a pitch analyzer with the given config.
func NewPitchAnalyzer(cfg *PitchAnalyzerConfig) *PitchAnalyzer {
	if cfg == nil {
		cfg = &PitchAnalyzerConfig{}
	}

	threshold := cfg.ConfidenceThreshold
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	minPlausible := cfg.MinPlausibleHz
	if minPlausible <= 0 {
		minPlausible = MinPlausibleHz
	}
	maxPlausible := cfg.MaxPlausibleHz
	if maxPlausible <= minPlausible {
		maxPlausible = MaxPlausibleHz
	}

	bands := cfg.Bands
	if len(bands) == 0 {
		bands = DefaultVoiceBands()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &PitchAnalyzer{
		confidenceThreshold: threshold,
		minPlausibleHz:      minPlausible,
		maxPlausibleHz:      maxPlausible,
		bands:               bands,
		percentiles:         stats.NewPercentiles(),
		logger:              logger,
	}
}

// Analyze computes range statistics and a voice type for one contour.
// Returns ErrInsufficientVoicedSignal when no sample passes the
// confidence threshold.
func (a *PitchAnalyzer) Analyze(contour *PitchContour) (*PitchStatistics, error) {
	if err := contour.Validate(); err != nil {
		return nil, err
	}

	voiced := make([]float64, 0, contour.Len())
	for i, conf := range contour.Confidence {
		if conf >= a.confidenceThreshold {
			voiced = append(voiced, contour.Frequency[i])
		}
	}

	voicedRatio := 0.0
	if contour.Len() > 0 {
		voicedRatio = float64(len(voiced)) / float64(contour.Len())
	}

	if voicedRatio < 0.1 {
		a.logger.Warn("low voiced ratio", logging.Fields{
			"voiced_ratio": voicedRatio,
			"threshold":    a.confidenceThreshold,
		})
	}

	if len(voiced) == 0 {
		return nil, ErrInsufficientVoicedSignal
	}

	// Discard frequencies outside the plausible vocal window. If that
	// empties the set, keep the full voiced set rather than failing.
	valid := make([]float64, 0, len(voiced))
	for _, f := range voiced {
		if f >= a.minPlausibleHz && f <= a.maxPlausibleHz {
			valid = append(valid, f)
		}
	}
	if len(valid) == 0 {
		valid = voiced
	}

	minHz, err := a.percentiles.CalculatePercentile(valid, rangeLowPercentile)
	if err != nil {
		return nil, err
	}
	maxHz, err := a.percentiles.CalculatePercentile(valid, rangeHighPercentile)
	if err != nil {
		return nil, err
	}
	medianHz, err := a.percentiles.CalculatePercentile(valid, 50)
	if err != nil {
		return nil, err
	}

	meanHz := stat.Mean(valid, nil)
	stdHz := math.Sqrt(stat.PopVariance(valid, nil))

	octaveRange := 0.0
	if minHz > 0 {
		octaveRange = math.Log2(maxHz / minHz)
	}

	result := &PitchStatistics{
		MinHz:       minHz,
		MaxHz:       maxHz,
		MedianHz:    medianHz,
		MeanHz:      meanHz,
		StdHz:       stdHz,
		RangeHz:     maxHz - minHz,
		OctaveRange: octaveRange,
		VoicedRatio: voicedRatio,
		VoiceType:   a.ClassifyVoiceType(minHz, maxHz, medianHz),
		MinNote:     HzToNote(minHz),
		MaxNote:     HzToNote(maxHz),
	}

	a.logger.Debug("pitch analysis completed", logging.Fields{
		"min_note":     result.MinNote,
		"min_hz":       result.MinHz,
		"max_note":     result.MaxNote,
		"max_hz":       result.MaxHz,
		"octave_range": result.OctaveRange,
		"voice_type":   result.VoiceType,
		"voiced_ratio": result.VoicedRatio,
	})

	return result, nil
}

// ClassifyVoiceType returns the best-fit band label for the given range
// statistics, or "" when the median falls in no band.
//
// Each band whose range contains the median scores
// 1 - |median - center| / width, plus 0.2 when the user's [min, max]
// overlaps the band at all. The highest score wins; ties keep the first
// band in enumeration order. Best-fit, not nearest-band: a median
// outside every band is deliberately unclassified.
func (a *PitchAnalyzer) ClassifyVoiceType(minHz, maxHz, medianHz float64) string {
	best := ""
	bestScore := 0.0

	for _, band := range a.bands {
		if medianHz < band.LowHz || medianHz > band.HiHz {
			continue
		}

		center := (band.LowHz + band.HiHz) / 2
		width := band.HiHz - band.LowHz
		score := 1 - math.Abs(medianHz-center)/width

		if math.Min(maxHz, band.HiHz)-math.Max(minHz, band.LowHz) > 0 {
			score += 0.2
		}

		if score > bestScore {
			bestScore = score
			best = band.Label
		}
	}

	return best
}
