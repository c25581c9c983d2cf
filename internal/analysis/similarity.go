package analysis

import (
	"math"
	"sort"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/sonido-sonar/algorithms/stats"
)

// Default result counts.
const (
	DefaultTopArtists = 3
	DefaultTopSongs   = 10
)

// DefaultDifficultyPenaltyStep is the per-level score attenuation when
// a song's difficulty differs from the caller's preference.
const DefaultDifficultyPenaltyStep = 0.1

// SimilarityWeights weights the three similarity factors. A factor
// whose sub-score is exactly 0 (no data) is excluded from both the
// weighted sum and the weight total, so candidates missing optional
// fields are not penalized for them.
type SimilarityWeights struct {
	Embedding float64 `json:"embedding" yaml:"embedding" mapstructure:"embedding"`
	Pitch     float64 `json:"pitch" yaml:"pitch" mapstructure:"pitch"`
	Timbre    float64 `json:"timbre" yaml:"timbre" mapstructure:"timbre"`
}

// DefaultSimilarityWeights returns the standard factor weights.
func DefaultSimilarityWeights() SimilarityWeights {
	return SimilarityWeights{Embedding: 0.5, Pitch: 0.3, Timbre: 0.2}
}

// RescaleConfig holds the presentation constants for artist score
// rescaling. Raw cosine/overlap scores cluster too tightly to read as
// meaningful percentages, so ranking is preserved but the scale is
// stretched into a plausible display band. The constants are
// heuristics with no principled derivation; keep them configurable.
type RescaleConfig struct {
	// MinSpread is the raw-score spread below which all candidates are
	// considered equally similar and the fallback branch applies.
	MinSpread float64 `json:"min_spread" yaml:"min_spread" mapstructure:"min_spread"`

	// FloorScore/CeilScore bound the display band for remapped scores.
	FloorScore float64 `json:"floor_score" yaml:"floor_score" mapstructure:"floor_score"`
	CeilScore  float64 `json:"ceil_score" yaml:"ceil_score" mapstructure:"ceil_score"`

	// MaxPositionBonus is added to rank 0 and decreases by 1 per rank.
	MaxPositionBonus float64 `json:"max_position_bonus" yaml:"max_position_bonus" mapstructure:"max_position_bonus"`

	// FallbackBase/FallbackStep assign descending scores when the
	// spread is below MinSpread: base, base-step, base-2*step, ...
	FallbackBase float64 `json:"fallback_base" yaml:"fallback_base" mapstructure:"fallback_base"`
	FallbackStep float64 `json:"fallback_step" yaml:"fallback_step" mapstructure:"fallback_step"`
}

// DefaultRescaleConfig returns the standard display band constants.
func DefaultRescaleConfig() RescaleConfig {
	return RescaleConfig{
		MinSpread:        0.01,
		FloorScore:       60,
		CeilScore:        95,
		MaxPositionBonus: 2,
		FallbackBase:     85,
		FallbackStep:     2,
	}
}

// UserVoice bundles the user-side inputs to similarity scoring.
type UserVoice struct {
	Embedding  []float64
	MinPitchHz float64
	MaxPitchHz float64
	Timbre     TimbreSummary
}

// SimilarityEngine ranks candidate artists and songs against a user
// voice. It is stateless apart from configuration: corpora are
// read-only snapshots passed per call, safe to share across concurrent
// calls. Missing optional candidate data never raises; it scores as
// zero contribution.
type SimilarityEngine struct {
	weights               SimilarityWeights
	rescale               RescaleConfig
	topArtists            int
	topSongs              int
	difficultyPenaltyStep float64
	logger                logging.Logger
}

// SimilarityEngineConfig configures a SimilarityEngine. Zero values
// fall back to defaults.
type SimilarityEngineConfig struct {
	Weights               *SimilarityWeights
	Rescale               *RescaleConfig
	TopArtists            int
	TopSongs              int
	DifficultyPenaltyStep float64
	Logger                logging.Logger
}

// NewSimilarityEngine creates a similarity engine with the given config.
func NewSimilarityEngine(cfg *SimilarityEngineConfig) *SimilarityEngine {
	if cfg == nil {
		cfg = &SimilarityEngineConfig{}
	}

	weights := DefaultSimilarityWeights()
	if cfg.Weights != nil {
		weights = *cfg.Weights
	}

	rescale := DefaultRescaleConfig()
	if cfg.Rescale != nil {
		rescale = *cfg.Rescale
	}

	topArtists := cfg.TopArtists
	if topArtists <= 0 {
		topArtists = DefaultTopArtists
	}

	topSongs := cfg.TopSongs
	if topSongs <= 0 {
		topSongs = DefaultTopSongs
	}

	penaltyStep := cfg.DifficultyPenaltyStep
	if penaltyStep <= 0 {
		penaltyStep = DefaultDifficultyPenaltyStep
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SimilarityEngine{
		weights:               weights,
		rescale:               rescale,
		topArtists:            topArtists,
		topSongs:              topSongs,
		difficultyPenaltyStep: penaltyStep,
		logger:                logger,
	}
}

// PitchOverlap scores how much of the target range the user range
// covers, in [0, 100]. Non-intersecting ranges and non-positive target
// widths score 0.
//
// The normalization is deliberately asymmetric: the overlap is divided
// by the target's range, not the union, so a candidate whose range sits
// fully inside the user's range scores 100 regardless of how much wider
// the user's range is.
func PitchOverlap(userMin, userMax, targetMin, targetMax float64) float64 {
	overlapMin := math.Max(userMin, targetMin)
	overlapMax := math.Min(userMax, targetMax)
	if overlapMin >= overlapMax {
		return 0
	}

	targetRange := targetMax - targetMin
	if targetRange <= 0 {
		return 0
	}

	return math.Min(100, (overlapMax-overlapMin)/targetRange*100)
}

// TimbreSimilarity computes cosine similarity over the intersection of
// feature keys present on both sides, scaled to [0, 100]. No common
// keys scores 0.
func TimbreSimilarity(user TimbreSummary, target TimbreFeatureMap) float64 {
	common := make([]string, 0, len(user))
	for key := range user {
		if _, ok := target[key]; ok {
			common = append(common, key)
		}
	}
	if len(common) == 0 {
		return 0
	}
	sort.Strings(common)

	userValues := make([]float64, len(common))
	targetValues := make([]float64, len(common))
	for i, key := range common {
		userValues[i] = user[key]
		targetValues[i] = target[key]
	}

	return math.Max(0, stats.CosineSimilarityFunc(userValues, targetValues)) * 100
}

// EmbeddingSimilarity computes cosine similarity between two
// embeddings, clamped to >= 0 and scaled to [0, 100]. Empty or
// mismatched vectors score 0.
func EmbeddingSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	return math.Max(0, stats.CosineSimilarityFunc(a, b)) * 100
}

// CombinedSimilarity computes the weighted multi-factor similarity of
// one candidate against the user, in [0, 100]. Factors scoring exactly
// 0 are treated as "no data" and excluded from the weight total; when
// no factor has data the result is 0.
func (e *SimilarityEngine) CombinedSimilarity(user *UserVoice, artist *ArtistRecord) float64 {
	embeddingScore := 0.0
	if len(artist.VoiceEmbedding) > 0 {
		embeddingScore = EmbeddingSimilarity(user.Embedding, artist.VoiceEmbedding)
	}

	pitchScore := 0.0
	if artist.HasPitchRange() {
		pitchScore = PitchOverlap(user.MinPitchHz, user.MaxPitchHz, *artist.MinPitchHz, *artist.MaxPitchHz)
	}

	timbreScore := 0.0
	if len(artist.TimbreFeatures) > 0 {
		timbreScore = TimbreSimilarity(user.Timbre, artist.TimbreFeatures)
	}

	combined := 0.0
	totalWeight := 0.0
	for _, factor := range []struct {
		score  float64
		weight float64
	}{
		{embeddingScore, e.weights.Embedding},
		{pitchScore, e.weights.Pitch},
		{timbreScore, e.weights.Timbre},
	} {
		if factor.score > 0 {
			combined += factor.score * factor.weight
			totalWeight += factor.weight
		}
	}

	if totalWeight == 0 {
		return 0
	}

	return math.Min(100, math.Max(0, combined/totalWeight))
}

// FindSimilarArtists ranks the candidate corpus by combined similarity
// and rescales the top-N scores into the display band. An empty corpus
// returns an empty slice, never an error.
func (e *SimilarityEngine) FindSimilarArtists(user *UserVoice, artists []ArtistRecord) []ArtistMatch {
	if len(artists) == 0 {
		return []ArtistMatch{}
	}

	matches := make([]ArtistMatch, 0, len(artists))
	rawScores := make([]float64, 0, len(artists))

	for i := range artists {
		artist := &artists[i]
		raw := e.CombinedSimilarity(user, artist)

		var pitchOverlap *float64
		if artist.HasPitchRange() {
			overlap := PitchOverlap(user.MinPitchHz, user.MaxPitchHz, *artist.MinPitchHz, *artist.MaxPitchHz)
			pitchOverlap = &overlap
		}

		matches = append(matches, ArtistMatch{
			ArtistID:        artist.ID,
			Name:            artist.Name,
			SimilarityScore: raw,
			VoiceType:       artist.VoiceType,
			Genre:           artist.Genre,
			PitchOverlap:    pitchOverlap,
		})
		rawScores = append(rawScores, raw)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	topN := e.topArtists
	if topN > len(matches) {
		topN = len(matches)
	}

	e.rescaleTopScores(matches[:topN], rawScores)

	e.logger.Debug("artist similarity ranking completed", logging.Fields{
		"candidates": len(artists),
		"returned":   topN,
	})

	return matches[:topN]
}

// rescaleTopScores remaps the already-sorted top matches into the
// display band. With a meaningful spread the raw scores are linearly
// remapped into [floor, ceil] plus a small decreasing positional bonus;
// with a negligible spread every candidate is nearly identical and
// scores descend from the fallback base by a fixed step per rank.
func (e *SimilarityEngine) rescaleTopScores(top []ArtistMatch, rawScores []float64) {
	if len(rawScores) == 0 {
		return
	}

	minScore := rawScores[0]
	maxScore := rawScores[0]
	for _, s := range rawScores[1:] {
		minScore = math.Min(minScore, s)
		maxScore = math.Max(maxScore, s)
	}
	spread := maxScore - minScore

	if spread > e.rescale.MinSpread {
		band := e.rescale.CeilScore - e.rescale.FloorScore
		for i := range top {
			normalized := (top[i].SimilarityScore - minScore) / spread
			scaled := e.rescale.FloorScore + normalized*band
			bonus := math.Max(0, e.rescale.MaxPositionBonus-float64(i))
			top[i].SimilarityScore = math.Min(100, scaled+bonus)
		}
		return
	}

	for i := range top {
		top[i].SimilarityScore = e.rescale.FallbackBase - float64(i)*e.rescale.FallbackStep
	}
}

// RecommendSongs ranks songs by pitch overlap with the user's range,
// optionally attenuated by distance from a preferred difficulty
// (preference 0 means no preference). No rescaling is applied; raw
// overlap percentages are used directly. An empty corpus returns an
// empty slice.
func (e *SimilarityEngine) RecommendSongs(userMin, userMax float64, songs []SongRecord, difficultyPreference int) []SongMatch {
	if len(songs) == 0 {
		return []SongMatch{}
	}

	matches := make([]SongMatch, 0, len(songs))
	for i := range songs {
		song := &songs[i]
		score := PitchOverlap(userMin, userMax, song.MinPitchHz, song.MaxPitchHz)

		if difficultyPreference > 0 && song.Difficulty != nil {
			delta := math.Abs(float64(*song.Difficulty - difficultyPreference))
			score *= 1 - delta*e.difficultyPenaltyStep
		}

		matches = append(matches, SongMatch{
			SongID:          song.ID,
			Title:           song.Title,
			ArtistName:      song.ArtistName,
			PitchMatchScore: score,
			Difficulty:      song.Difficulty,
			CatalogID:       song.CatalogID,
			CatalogURL:      song.CatalogURL,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].PitchMatchScore > matches[j].PitchMatchScore
	})

	if len(matches) > e.topSongs {
		matches = matches[:e.topSongs]
	}
	return matches
}
