package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/voice-match/internal/app"
)

var (
	// Analyze command flags
	analyzeContourFile  string
	analyzeFeaturesFile string
	analyzeArtistsFile  string
	analyzeSongsFile    string
	analyzeSessionID    string
	analyzeDifficulty   int
	analyzeDuration     float64
	analyzeOutputFile   string
	analyzeTimeout      time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags]",
	Short: "Analyze a voice recording and rank catalog matches",
	Long: `Analyze a recorded voice from precomputed pitch tracker and feature
extractor output, producing vocal range statistics, a voice type, a
reproducible voice embedding, ranked similar artists, and pitch-matched
song recommendations.

The pitch contour and timbre feature files are the saved output of the
external models (pitch tracker, acoustic feature extractor) run
elsewhere; this command performs the statistics, embedding, and
matching stages only.

Examples:
  # Range statistics and voice type only
  voice-match analyze --contour take1.contour.yaml --features take1.features.yaml

  # Full matching run against a catalog
  voice-match analyze --contour take1.contour.yaml --features take1.features.yaml \
    --artists catalog/artists.yaml --songs catalog/songs.yaml

  # Prefer easier songs, JSON output to a file
  voice-match analyze --contour take1.contour.yaml --features take1.features.yaml \
    --songs catalog/songs.yaml --difficulty 2 -o json --output-file result.json`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeContourFile, "contour", "",
		"pitch contour file from the external tracker (yaml or json, required)")
	analyzeCmd.Flags().StringVar(&analyzeFeaturesFile, "features", "",
		"timbre feature file from the external extractor (yaml or json, required)")
	analyzeCmd.Flags().StringVar(&analyzeArtistsFile, "artists", "",
		"artist catalog file for similarity matching")
	analyzeCmd.Flags().StringVar(&analyzeSongsFile, "songs", "",
		"song catalog file for recommendations")
	analyzeCmd.Flags().StringVar(&analyzeSessionID, "session-id", "",
		"session identifier (generated when omitted)")
	analyzeCmd.Flags().IntVar(&analyzeDifficulty, "difficulty", 0,
		"preferred song difficulty 1-5 (0 disables the preference)")
	analyzeCmd.Flags().Float64Var(&analyzeDuration, "duration", 0,
		"original recording duration in seconds (defaults to the contour's)")
	analyzeCmd.Flags().StringVar(&analyzeOutputFile, "output-file", "",
		"write the result to a file instead of stdout")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute,
		"overall analysis timeout")

	analyzeCmd.MarkFlagRequired("contour")
	analyzeCmd.MarkFlagRequired("features")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := &app.Context{
		ContourFile:          analyzeContourFile,
		FeaturesFile:         analyzeFeaturesFile,
		ArtistsFile:          analyzeArtistsFile,
		SongsFile:            analyzeSongsFile,
		SessionID:            analyzeSessionID,
		DifficultyPreference: analyzeDifficulty,
		OriginalDuration:     analyzeDuration,
		OutputFile:           analyzeOutputFile,
		OutputFormat:         viper.GetString("output_format"),
		Timeout:              analyzeTimeout,
		Verbose:              viper.GetBool("verbose"),
		LogLevel:             viper.GetString("log_level"),
	}

	analyzer, err := app.NewAnalyzerApp(ctx)
	if err != nil {
		return err
	}

	return analyzer.Run(cmd.Context())
}
