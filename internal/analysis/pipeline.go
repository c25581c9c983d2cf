package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/google/uuid"
)

// PitchTracker is the capability contract for an external pitch
// estimator: given a mono waveform and sample rate it returns a pitch
// contour. The core never constructs or configures concrete trackers,
// only consumes their typed output, so pitch models are swappable
// without touching any scoring code.
type PitchTracker interface {
	Predict(ctx context.Context, samples []float64, sampleRate int) (*PitchContour, error)
}

// FeatureExtractor is the capability contract for an external acoustic
// feature extractor returning one named scalar set per clip.
type FeatureExtractor interface {
	Extract(ctx context.Context, samples []float64, sampleRate int) (TimbreFeatureMap, error)
}

// Request carries one complete, already-preprocessed waveform plus the
// read-only corpora to match against. Absent corpora yield empty match
// lists, never an error.
type Request struct {
	SessionID string

	Samples          []float64
	SampleRate       int
	OriginalDuration float64

	Artists []ArtistRecord
	Songs   []SongRecord

	// DifficultyPreference attenuates song scores by difficulty
	// mismatch when > 0.
	DifficultyPreference int
}

// Pipeline sequences one analysis request: pitch tracking, range
// statistics, timbre summarization, embedding projection, and
// similarity matching, assembling a single immutable Result. Each
// stage's failure aborts the request; no partial results are produced.
//
// The pipeline holds no mutable shared state and runs each request to
// completion without internal parallelism, so one instance is safe to
// invoke from concurrent callers.
type Pipeline struct {
	tracker    PitchTracker
	extractor  FeatureExtractor
	pitch      *PitchAnalyzer
	timbre     *TimbreSummarizer
	embedder   Embedder
	similarity *SimilarityEngine
	logger     logging.Logger
}

// PipelineConfig configures a Pipeline. Tracker and Extractor are
// required; the remaining components default.
type PipelineConfig struct {
	Tracker    PitchTracker
	Extractor  FeatureExtractor
	Pitch      *PitchAnalyzer
	Timbre     *TimbreSummarizer
	Embedder   Embedder
	Similarity *SimilarityEngine
	Logger     logging.Logger
}

// NewPipeline creates an analysis pipeline.
func NewPipeline(cfg *PipelineConfig) (*Pipeline, error) {
	if cfg == nil || cfg.Tracker == nil {
		return nil, fmt.Errorf("pitch tracker is required")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("feature extractor is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	pitch := cfg.Pitch
	if pitch == nil {
		pitch = NewPitchAnalyzer(&PitchAnalyzerConfig{Logger: logger})
	}

	timbre := cfg.Timbre
	if timbre == nil {
		timbre = NewTimbreSummarizer()
	}

	embedder := cfg.Embedder
	if embedder == nil {
		embedder = NewProjector(&ProjectorConfig{Logger: logger})
	}

	similarity := cfg.Similarity
	if similarity == nil {
		similarity = NewSimilarityEngine(&SimilarityEngineConfig{Logger: logger})
	}

	return &Pipeline{
		tracker:    cfg.Tracker,
		extractor:  cfg.Extractor,
		pitch:      pitch,
		timbre:     timbre,
		embedder:   embedder,
		similarity: similarity,
		logger:     logger,
	}, nil
}

// Analyze runs the full pipeline for one request.
func (p *Pipeline) Analyze(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("analysis request is required")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	timestamp := time.Now().UTC()
	start := time.Now()

	logger := p.logger.WithFields(logging.Fields{"session_id": sessionID})
	logger.Debug("starting voice analysis", logging.Fields{
		"sample_rate":  req.SampleRate,
		"sample_count": len(req.Samples),
		"artist_count": len(req.Artists),
		"song_count":   len(req.Songs),
	})

	contour, err := p.tracker.Predict(ctx, req.Samples, req.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("pitch tracking failed: %w", err)
	}

	pitchStats, err := p.pitch.Analyze(contour)
	if err != nil {
		return nil, fmt.Errorf("pitch analysis failed: %w", err)
	}

	features, err := p.extractor.Extract(ctx, req.Samples, req.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("feature extraction failed: %w", err)
	}

	summary := p.timbre.Summarize(features)
	featureVector := p.timbre.FeatureVector(features, nil)

	embedding, err := p.embedder.Embed(featureVector, pitchStats)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	user := &UserVoice{
		Embedding:  embedding,
		MinPitchHz: pitchStats.MinHz,
		MaxPitchHz: pitchStats.MaxHz,
		Timbre:     summary,
	}

	similarArtists := p.similarity.FindSimilarArtists(user, req.Artists)
	recommendedSongs := p.similarity.RecommendSongs(pitchStats.MinHz, pitchStats.MaxHz, req.Songs, req.DifficultyPreference)

	// With precomputed tracker output the request carries no raw
	// samples; the contour's final timestamp stands in for the length
	// of the analyzed signal.
	processedDuration := 0.0
	if len(req.Samples) > 0 && req.SampleRate > 0 {
		processedDuration = float64(len(req.Samples)) / float64(req.SampleRate)
	} else if n := len(contour.Time); n > 0 {
		processedDuration = contour.Time[n-1]
	}

	originalDuration := req.OriginalDuration
	if originalDuration == 0 {
		originalDuration = processedDuration
	}

	logger.Debug("voice analysis completed", logging.Fields{
		"elapsed_s":    time.Since(start).Seconds(),
		"voice_type":   pitchStats.VoiceType,
		"artist_count": len(similarArtists),
		"song_count":   len(recommendedSongs),
	})

	return &Result{
		SessionID:         sessionID,
		OriginalDuration:  originalDuration,
		ProcessedDuration: processedDuration,
		SampleRate:        req.SampleRate,
		PitchStatistics:   *pitchStats,
		TimbreSummary:     summary,
		TimbreFull:        features,
		VoiceEmbedding:    embedding,
		SimilarArtists:    similarArtists,
		RecommendedSongs:  recommendedSongs,
		Timestamp:         timestamp,
	}, nil
}
