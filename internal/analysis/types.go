package analysis

import (
	"fmt"
	"time"
)

// PitchContour holds the raw output of an external pitch tracker as
// parallel, time-ascending arrays. Frequency may be 0 for fully
// unvoiced frames.
type PitchContour struct {
	Time       []float64 `json:"time" yaml:"time"`
	Frequency  []float64 `json:"frequency" yaml:"frequency"`
	Confidence []float64 `json:"confidence" yaml:"confidence"`
}

// Len returns the number of contour samples.
func (c *PitchContour) Len() int {
	return len(c.Frequency)
}

// Validate checks the structural invariants of the contour: parallel
// arrays of equal length. Scoring code assumes a validated contour.
func (c *PitchContour) Validate() error {
	if c == nil {
		return fmt.Errorf("pitch contour is nil")
	}

	if len(c.Time) != len(c.Frequency) || len(c.Frequency) != len(c.Confidence) {
		return fmt.Errorf("pitch contour arrays must have equal length (time=%d, frequency=%d, confidence=%d)",
			len(c.Time), len(c.Frequency), len(c.Confidence))
	}

	return nil
}

// PitchStatistics contains the vocal range statistics derived from one
// pitch contour. Derived once per analysis and never mutated.
//
// Invariants: MinHz <= MedianHz <= MaxHz whenever VoicedRatio > 0;
// OctaveRange = log2(MaxHz/MinHz), or 0 when MinHz <= 0.
type PitchStatistics struct {
	MinHz       float64 `json:"min_pitch_hz" yaml:"min_pitch_hz"`
	MaxHz       float64 `json:"max_pitch_hz" yaml:"max_pitch_hz"`
	MedianHz    float64 `json:"median_pitch_hz" yaml:"median_pitch_hz"`
	MeanHz      float64 `json:"mean_pitch_hz" yaml:"mean_pitch_hz"`
	StdHz       float64 `json:"pitch_std_hz" yaml:"pitch_std_hz"`
	RangeHz     float64 `json:"pitch_range_hz" yaml:"pitch_range_hz"`
	OctaveRange float64 `json:"octave_range" yaml:"octave_range"`
	VoicedRatio float64 `json:"voiced_ratio" yaml:"voiced_ratio"`

	// VoiceType is the best-fit classification label, empty when the
	// median pitch falls in no known band.
	VoiceType string `json:"detected_voice_type,omitempty" yaml:"detected_voice_type,omitempty"`

	MinNote string `json:"min_pitch_note" yaml:"min_pitch_note"`
	MaxNote string `json:"max_pitch_note" yaml:"max_pitch_note"`
}

// TimbreFeatureMap is the opaque name -> scalar feature set produced by
// an external acoustic feature extractor. The key set is determined by
// the extractor's configuration; values may be NaN.
type TimbreFeatureMap map[string]float64

// TimbreSummary is a fixed small set of interpretable scalars pulled
// from a TimbreFeatureMap with explicit defaults for absent keys.
type TimbreSummary map[string]float64

// ArtistRecord is a read-only reference voice profile from the corpus.
// Optional fields are pointers so absent data is distinguishable from
// zero values; the engine must tolerate every optional field missing.
type ArtistRecord struct {
	ID             int64            `json:"id" yaml:"id"`
	Name           string           `json:"name" yaml:"name"`
	Genre          string           `json:"genre,omitempty" yaml:"genre,omitempty"`
	VoiceType      string           `json:"voice_type,omitempty" yaml:"voice_type,omitempty"`
	MinPitchHz     *float64         `json:"min_pitch_hz,omitempty" yaml:"min_pitch_hz,omitempty"`
	MaxPitchHz     *float64         `json:"max_pitch_hz,omitempty" yaml:"max_pitch_hz,omitempty"`
	MedianPitchHz  *float64         `json:"median_pitch_hz,omitempty" yaml:"median_pitch_hz,omitempty"`
	TimbreFeatures TimbreFeatureMap `json:"timbre_features,omitempty" yaml:"timbre_features,omitempty"`
	VoiceEmbedding []float64        `json:"voice_embedding,omitempty" yaml:"voice_embedding,omitempty"`
}

// HasPitchRange reports whether both pitch bounds are present.
func (a *ArtistRecord) HasPitchRange() bool {
	return a.MinPitchHz != nil && a.MaxPitchHz != nil
}

// SongRecord is a read-only song entry from the corpus.
type SongRecord struct {
	ID         int64   `json:"id" yaml:"id"`
	Title      string  `json:"title" yaml:"title"`
	ArtistName string  `json:"artist_name,omitempty" yaml:"artist_name,omitempty"`
	MinPitchHz float64 `json:"min_pitch_hz" yaml:"min_pitch_hz"`
	MaxPitchHz float64 `json:"max_pitch_hz" yaml:"max_pitch_hz"`

	// Difficulty is a 1-5 rating, nil when unrated.
	Difficulty *int `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`

	// External music catalog identifiers, echoed into matches untouched.
	CatalogID  string `json:"catalog_id,omitempty" yaml:"catalog_id,omitempty"`
	CatalogURL string `json:"catalog_url,omitempty" yaml:"catalog_url,omitempty"`
}

// ArtistMatch is one ranked similarity result. SimilarityScore is the
// display percentage after rank-based rescaling, in [0, 100].
type ArtistMatch struct {
	ArtistID        int64    `json:"artist_id" yaml:"artist_id"`
	Name            string   `json:"name" yaml:"name"`
	SimilarityScore float64  `json:"similarity_score" yaml:"similarity_score"`
	VoiceType       string   `json:"voice_type,omitempty" yaml:"voice_type,omitempty"`
	Genre           string   `json:"genre,omitempty" yaml:"genre,omitempty"`
	PitchOverlap    *float64 `json:"pitch_overlap,omitempty" yaml:"pitch_overlap,omitempty"`
}

// SongMatch is one ranked song recommendation. PitchMatchScore is the
// raw pitch overlap percentage, optionally attenuated by difficulty
// mismatch; no rescaling is applied to songs.
type SongMatch struct {
	SongID          int64   `json:"song_id" yaml:"song_id"`
	Title           string  `json:"title" yaml:"title"`
	ArtistName      string  `json:"artist_name,omitempty" yaml:"artist_name,omitempty"`
	PitchMatchScore float64 `json:"pitch_match_score" yaml:"pitch_match_score"`
	Difficulty      *int    `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	CatalogID       string  `json:"catalog_id,omitempty" yaml:"catalog_id,omitempty"`
	CatalogURL      string  `json:"catalog_url,omitempty" yaml:"catalog_url,omitempty"`
}

// Result is the immutable record assembled by the pipeline for one
// analysis request.
type Result struct {
	SessionID string `json:"session_id" yaml:"session_id"`

	OriginalDuration  float64 `json:"original_duration" yaml:"original_duration"`
	ProcessedDuration float64 `json:"processed_duration" yaml:"processed_duration"`
	SampleRate        int     `json:"sample_rate" yaml:"sample_rate"`

	PitchStatistics PitchStatistics  `json:"pitch_statistics" yaml:"pitch_statistics"`
	TimbreSummary   TimbreSummary    `json:"timbre_summary" yaml:"timbre_summary"`
	TimbreFull      TimbreFeatureMap `json:"timbre_full,omitempty" yaml:"timbre_full,omitempty"`
	VoiceEmbedding  []float64        `json:"voice_embedding" yaml:"voice_embedding"`

	SimilarArtists   []ArtistMatch `json:"similar_artists" yaml:"similar_artists"`
	RecommendedSongs []SongMatch   `json:"recommended_songs" yaml:"recommended_songs"`

	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
