package analysis

import (
	"math"
	"sync"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultEmbeddingDim matches typical audio embedding dimensions.
const DefaultEmbeddingDim = 512

// DefaultProjectionSeed is the process-wide constant seed for the
// expansion matrix. Changing it invalidates every stored embedding.
const DefaultProjectionSeed uint64 = 42

// Assumed maximum octave range for a human voice, used to scale the
// octave feature to roughly unit range.
const assumedMaxOctaves = 4.0

// Embedder produces a fixed-length voice embedding from a feature
// vector and optional pitch statistics. The local Projector satisfies
// it; an external transcription-based provider can satisfy the same
// contract, and selecting between them is the caller's policy.
type Embedder interface {
	Embed(features []float64, pitch *PitchStatistics) ([]float64, error)
}

// Projector expands a feature vector to a fixed-length unit-norm
// embedding via reproducible dimensionality expansion.
//
// Reproducibility invariant: for identical input and a fixed seed the
// output is bit-for-bit identical, across calls and across processes.
// The expansion matrix is a pure function of (inputDim, outputDim,
// seed), cached per dimension pair and never persisted.
type Projector struct {
	dim  int
	seed uint64

	mu       sync.Mutex
	matrices map[int][]float64

	logger logging.Logger
}

// ProjectorConfig configures a Projector. Zero values fall back to
// defaults.
type ProjectorConfig struct {
	Dim    int
	Seed   uint64
	Logger logging.Logger
}

// NewProjector creates a projector with the given config.
func NewProjector(cfg *ProjectorConfig) *Projector {
	if cfg == nil {
		cfg = &ProjectorConfig{}
	}

	dim := cfg.Dim
	if dim <= 0 {
		dim = DefaultEmbeddingDim
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = DefaultProjectionSeed
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Projector{
		dim:      dim,
		seed:     seed,
		matrices: make(map[int][]float64),
		logger:   logger,
	}
}

// Dim returns the embedding dimension.
func (p *Projector) Dim() int {
	return p.dim
}

// Embed implements Embedder: it combines pitch-derived scalars with the
// timbre feature vector and projects the result. The timbre vector is
// L2-normalized before the pitch scalars are appended so neither group
// dominates on raw magnitude. When pitch is nil the pitch slots are
// zero, keeping the input dimension stable.
func (p *Projector) Embed(features []float64, pitch *PitchStatistics) ([]float64, error) {
	timbre := make([]float64, len(features))
	copy(timbre, features)
	if norm := floats.Norm(timbre, 2); norm > 0 {
		floats.Scale(1/norm, timbre)
	}

	pitchFeatures := make([]float64, 5)
	if pitch != nil {
		pitchFeatures[0] = pitch.MinHz / 1000
		pitchFeatures[1] = pitch.MaxHz / 1000
		pitchFeatures[2] = pitch.MedianHz / 1000
		pitchFeatures[3] = pitch.OctaveRange / assumedMaxOctaves
		pitchFeatures[4] = pitch.VoicedRatio
	}

	combined := append(timbre, pitchFeatures...)
	return p.Project(combined), nil
}

// Project expands the input to the target dimension and L2-normalizes
// it. Inputs of length >= dim are truncated; shorter inputs are copied
// verbatim into the first slots and the remainder is filled from the
// seeded expansion matrix. An exactly zero norm returns the raw
// (non-unit) vector unchanged.
func (p *Projector) Project(features []float64) []float64 {
	n := len(features)

	out := make([]float64, p.dim)
	if n >= p.dim {
		copy(out, features[:p.dim])
	} else if n > 0 {
		copy(out, features)

		cols := p.dim - n
		matrix := p.expansionMatrix(n)
		for j := 0; j < cols; j++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += features[i] * matrix[i*cols+j]
			}
			out[n+j] = sum
		}
	}

	norm := floats.Norm(out, 2)
	if norm == 0 {
		return out
	}
	floats.Scale(1/norm, out)
	return out
}

// expansionMatrix returns the n x (dim-n) standard-normal matrix for
// inputs of length n, drawing it deterministically from the constant
// seed on first use. Entries are scaled by 1/sqrt(n) so the expanded
// slots have roughly unit variance relative to the input.
func (p *Projector) expansionMatrix(n int) []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if matrix, ok := p.matrices[n]; ok {
		return matrix
	}

	cols := p.dim - n
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(p.seed)}

	scale := 1 / math.Sqrt(float64(n))
	matrix := make([]float64, n*cols)
	for i := range matrix {
		matrix[i] = normal.Rand() * scale
	}

	p.matrices[n] = matrix

	p.logger.Debug("generated embedding expansion matrix", logging.Fields{
		"input_dim":  n,
		"output_dim": p.dim,
		"seed":       p.seed,
	})

	return matrix
}
