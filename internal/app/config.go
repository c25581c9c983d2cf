package app

import (
	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/voice-match/configs"
	"github.com/RyanBlaney/voice-match/internal/analysis"
	"github.com/RyanBlaney/voice-match/internal/catalog"
)

// buildPipeline constructs the analysis pipeline from application
// configuration, wrapping the precomputed model output in the
// file-backed tracker and extractor.
func buildPipeline(config *configs.Config, log logging.Logger, contourFile *catalog.ContourFile, features analysis.TimbreFeatureMap) (*analysis.Pipeline, error) {
	pitch := analysis.NewPitchAnalyzer(&analysis.PitchAnalyzerConfig{
		ConfidenceThreshold: config.Pitch.ConfidenceThreshold,
		MinPlausibleHz:      config.Pitch.MinPlausibleHz,
		MaxPlausibleHz:      config.Pitch.MaxPlausibleHz,
		Logger:              log,
	})

	embedder := analysis.NewProjector(&analysis.ProjectorConfig{
		Dim:    config.Embedding.Dimension,
		Seed:   config.Embedding.Seed,
		Logger: log,
	})

	weights := analysis.SimilarityWeights{
		Embedding: config.Similarity.Weights.Embedding,
		Pitch:     config.Similarity.Weights.Pitch,
		Timbre:    config.Similarity.Weights.Timbre,
	}

	rescale := analysis.RescaleConfig{
		MinSpread:        config.Similarity.Rescale.MinSpread,
		FloorScore:       config.Similarity.Rescale.FloorScore,
		CeilScore:        config.Similarity.Rescale.CeilScore,
		MaxPositionBonus: config.Similarity.Rescale.MaxPositionBonus,
		FallbackBase:     config.Similarity.Rescale.FallbackBase,
		FallbackStep:     config.Similarity.Rescale.FallbackStep,
	}

	similarity := analysis.NewSimilarityEngine(&analysis.SimilarityEngineConfig{
		Weights:               &weights,
		Rescale:               &rescale,
		TopArtists:            config.Similarity.TopArtists,
		TopSongs:              config.Similarity.TopSongs,
		DifficultyPenaltyStep: config.Similarity.DifficultyPenaltyStep,
		Logger:                log,
	})

	return analysis.NewPipeline(&analysis.PipelineConfig{
		Tracker:    catalog.NewPrecomputedTracker(contourFile.Contour()),
		Extractor:  catalog.NewPrecomputedExtractor(features),
		Pitch:      pitch,
		Embedder:   embedder,
		Similarity: similarity,
		Logger:     log,
	})
}
