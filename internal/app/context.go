package app

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/latency-benchmark-common/output"
	"github.com/tunein/go-logging/v7/pkg/logger"
	"github.com/tunein/go-logging/v7/pkg/logger/logtypes"
	"github.com/tunein/go-logging/v7/pkg/rootcollector"
	"github.com/tunein/go-logging/v7/pkg/rootlogger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RyanBlaney/voice-match/configs"
	"github.com/RyanBlaney/voice-match/internal/analysis"
	"github.com/RyanBlaney/voice-match/internal/catalog"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ContourFile          string // Saved pitch tracker output (required)
	FeaturesFile         string // Saved feature extractor output (required)
	ArtistsFile          string // Artist catalog (optional)
	SongsFile            string // Song catalog (optional)
	SessionID            string
	DifficultyPreference int
	OriginalDuration     float64
	OutputFile           string
	OutputFormat         string
	Timeout              time.Duration
	Verbose              bool
	LogLevel             string

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// AnalyzerApp handles the voice analysis application lifecycle
type AnalyzerApp struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
}

// NewAnalyzerApp creates a new analyzer application
func NewAnalyzerApp(ctx *Context) (*AnalyzerApp, error) {
	// Set up logging
	log := setupLogging(ctx)
	ctx.Logger = log

	// Load configuration
	config, err := loadAnalyzerConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	log.Debug("Analyzer application initialized", logging.Fields{
		"contour_file":  ctx.ContourFile,
		"features_file": ctx.FeaturesFile,
		"artists_file":  ctx.ArtistsFile,
		"songs_file":    ctx.SongsFile,
		"output_format": ctx.OutputFormat,
		"timeout":       ctx.Timeout.Seconds(),
	})

	return &AnalyzerApp{
		ctx:    ctx,
		config: config,
		logger: log,
	}, nil
}

// Run executes the analysis
func (app *AnalyzerApp) Run(ctx context.Context) error {
	req, pipeline, err := app.prepare()
	if err != nil {
		return err
	}

	runCtx := ctx
	if app.ctx.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, app.ctx.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := pipeline.Analyze(runCtx, req)
	if err != nil {
		return fmt.Errorf("voice analysis failed: %w", err)
	}

	if err := app.outputResult(result); err != nil {
		return fmt.Errorf("failed to output result: %w", err)
	}

	app.collectAnalysisMetrics(result, time.Since(start))

	return nil
}

// prepare loads the precomputed model output and catalogs and builds
// the analysis pipeline from configuration.
func (app *AnalyzerApp) prepare() (*analysis.Request, *analysis.Pipeline, error) {
	contourFile, err := catalog.LoadContour(app.ctx.ContourFile)
	if err != nil {
		return nil, nil, err
	}

	features, err := catalog.LoadFeatures(app.ctx.FeaturesFile)
	if err != nil {
		return nil, nil, err
	}

	var artists []analysis.ArtistRecord
	if app.ctx.ArtistsFile != "" {
		artistCatalog, err := catalog.LoadArtists(app.ctx.ArtistsFile)
		if err != nil {
			return nil, nil, err
		}
		artists = artistCatalog.Artists
	}

	var songs []analysis.SongRecord
	if app.ctx.SongsFile != "" {
		songCatalog, err := catalog.LoadSongs(app.ctx.SongsFile)
		if err != nil {
			return nil, nil, err
		}
		songs = songCatalog.Songs
	}

	app.logger.Debug("Analysis inputs loaded", logging.Fields{
		"contour_samples": contourFile.Contour().Len(),
		"feature_count":   len(features),
		"artist_count":    len(artists),
		"song_count":      len(songs),
	})

	pipeline, err := buildPipeline(app.config, app.logger, contourFile, features)
	if err != nil {
		return nil, nil, err
	}

	originalDuration := app.ctx.OriginalDuration
	if originalDuration == 0 {
		originalDuration = contourFile.Duration
	}

	req := &analysis.Request{
		SessionID:            app.ctx.SessionID,
		SampleRate:           contourFile.SampleRate,
		OriginalDuration:     originalDuration,
		Artists:              artists,
		Songs:                songs,
		DifficultyPreference: app.ctx.DifficultyPreference,
	}

	return req, pipeline, nil
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) logging.Logger {
	log := logging.NewDefaultLogger()

	switch strings.ToLower(ctx.LogLevel) {
	case "debug":
		log.SetLevel(logging.DebugLevel)
	case "warn":
		log.SetLevel(logging.WarnLevel)
	case "error":
		log.SetLevel(logging.ErrorLevel)
	default:
		log.SetLevel(logging.InfoLevel)
	}
	if ctx.Verbose {
		log.SetLevel(logging.DebugLevel)
	}

	return log
}

// loadAnalyzerConfig loads and validates configuration from viper
func loadAnalyzerConfig(ctx *Context) (*configs.Config, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}

	if ctx.OutputFormat != "" {
		config.OutputFormat = ctx.OutputFormat
	}

	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// outputResult formats and writes the analysis result
func (app *AnalyzerApp) outputResult(result *analysis.Result) error {
	outputData := map[string]any{
		"analysis": cleanResult(result, app.config),
	}

	if app.config.Output.IncludeMetadata {
		outputData["configuration"] = map[string]any{
			"confidence_threshold": app.config.Pitch.ConfidenceThreshold,
			"embedding_dimension":  app.config.Embedding.Dimension,
			"top_artists":          app.config.Similarity.TopArtists,
			"top_songs":            app.config.Similarity.TopSongs,
		}
		outputData["timestamp"] = time.Now()
	}

	// Create formatter
	var formatter output.Formatter
	switch app.ctx.OutputFormat {
	case "json":
		formatter = &output.JSONFormatter{}
	case "yaml":
		formatter = &output.YAMLFormatter{}
	case "csv":
		formatter = &output.CSVFormatter{}
	case "table":
		formatter = &output.TableFormatter{}
	default:
		formatter = &output.JSONFormatter{}
	}

	formattedData, err := formatter.Format(outputData, true)
	if err != nil {
		return fmt.Errorf("failed to format output data: %w", err)
	}

	if app.ctx.OutputFile != "" {
		return os.WriteFile(app.ctx.OutputFile, formattedData, 0o644)
	}

	_, err = os.Stdout.Write(formattedData)
	return err
}

// cleanResult flattens the result for output, rounding display scores
// and dropping raw data unless requested.
func cleanResult(result *analysis.Result, config *configs.Config) map[string]any {
	caser := cases.Title(language.English)

	voiceType := result.PitchStatistics.VoiceType
	if voiceType == "" {
		voiceType = "unclassified"
	}

	clean := map[string]any{
		"session_id":         result.SessionID,
		"original_duration":  result.OriginalDuration,
		"processed_duration": result.ProcessedDuration,
		"sample_rate":        result.SampleRate,
		"voice_type":         caser.String(voiceType),
		"pitch_statistics":   roundedPitchStatistics(result.PitchStatistics, config.Output.Precision),
		"timbre_summary":     result.TimbreSummary,
		"similar_artists":    result.SimilarArtists,
		"recommended_songs":  result.RecommendedSongs,
		"timestamp":          result.Timestamp,
	}

	if config.Output.IncludeRawData {
		clean["timbre_full"] = result.TimbreFull
		clean["voice_embedding"] = result.VoiceEmbedding
	}

	return clean
}

func roundedPitchStatistics(stats analysis.PitchStatistics, precision int) map[string]any {
	return map[string]any{
		"min_pitch_hz":    roundToDecimalPlaces(stats.MinHz, precision),
		"max_pitch_hz":    roundToDecimalPlaces(stats.MaxHz, precision),
		"median_pitch_hz": roundToDecimalPlaces(stats.MedianHz, precision),
		"mean_pitch_hz":   roundToDecimalPlaces(stats.MeanHz, precision),
		"pitch_std_hz":    roundToDecimalPlaces(stats.StdHz, precision),
		"pitch_range_hz":  roundToDecimalPlaces(stats.RangeHz, precision),
		"octave_range":    roundToDecimalPlaces(stats.OctaveRange, precision),
		"voiced_ratio":    roundToDecimalPlaces(stats.VoicedRatio, precision),
		"min_pitch_note":  stats.MinNote,
		"max_pitch_note":  stats.MaxNote,
	}
}

// collectAnalysisMetrics sends analysis metrics to rootcollector
func (app *AnalyzerApp) collectAnalysisMetrics(result *analysis.Result, elapsed time.Duration) {
	err := rootlogger.Configure(logger.LogOptions{
		Out:          "/tmp/voice-match.log",
		ReopenSignal: syscall.SIGHUP,
		Level:        logtypes.InfoLevel,
	})
	if err != nil {
		logging.Error(err, "Failed configuring log writer")
	}

	voiceType := result.PitchStatistics.VoiceType
	if voiceType == "" {
		voiceType = "unclassified"
	}

	tags := []string{
		"voice_type:" + voiceType,
		"output_format:" + app.ctx.OutputFormat,
	}

	rootcollector.Metric("voice.analysis.duration.milliseconds", elapsed.Milliseconds(), tags)
	rootcollector.Metric("voice.analysis.artist_matches", int64(len(result.SimilarArtists)), tags)
	rootcollector.Metric("voice.analysis.song_matches", int64(len(result.RecommendedSongs)), tags)
}

func roundToDecimalPlaces(f float64, decimals int) float64 {
	multiplier := math.Pow10(decimals)
	return math.Round(f*multiplier) / multiplier
}
