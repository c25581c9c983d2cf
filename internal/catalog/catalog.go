// Package catalog loads read-only corpus snapshots (artist profiles,
// songs) and precomputed external-model output (pitch contours, timbre
// feature maps) from YAML or JSON files. The analysis core treats all
// of these as immutable per-request inputs.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/voice-match/internal/analysis"
)

// ArtistCatalog is a corpus snapshot of reference voice profiles.
type ArtistCatalog struct {
	Version string                  `json:"version,omitempty" yaml:"version,omitempty"`
	Artists []analysis.ArtistRecord `json:"artists" yaml:"artists"`
}

// SongCatalog is a corpus snapshot of reference songs.
type SongCatalog struct {
	Version string                `json:"version,omitempty" yaml:"version,omitempty"`
	Songs   []analysis.SongRecord `json:"songs" yaml:"songs"`
}

// LoadArtists loads an artist catalog from a YAML or JSON file.
func LoadArtists(filePath string) (*ArtistCatalog, error) {
	var catalog ArtistCatalog
	if err := loadFile(filePath, &catalog); err != nil {
		return nil, fmt.Errorf("failed to load artist catalog: %w", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artist catalog %s: %w", filePath, err)
	}

	return &catalog, nil
}

// Validate checks structural requirements. Optional fields (pitch
// range, timbre, embedding) are tolerated absent by design; only
// identity fields are required.
func (c *ArtistCatalog) Validate() error {
	for i, artist := range c.Artists {
		if artist.Name == "" {
			return fmt.Errorf("artist %d has no name", i)
		}
		if artist.MinPitchHz != nil && artist.MaxPitchHz != nil && *artist.MinPitchHz > *artist.MaxPitchHz {
			return fmt.Errorf("artist %q has inverted pitch range", artist.Name)
		}
	}
	return nil
}

// LoadSongs loads a song catalog from a YAML or JSON file.
func LoadSongs(filePath string) (*SongCatalog, error) {
	var catalog SongCatalog
	if err := loadFile(filePath, &catalog); err != nil {
		return nil, fmt.Errorf("failed to load song catalog: %w", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid song catalog %s: %w", filePath, err)
	}

	return &catalog, nil
}

// Validate checks structural requirements for songs.
func (c *SongCatalog) Validate() error {
	for i, song := range c.Songs {
		if song.Title == "" {
			return fmt.Errorf("song %d has no title", i)
		}
		if song.Difficulty != nil && (*song.Difficulty < 1 || *song.Difficulty > 5) {
			return fmt.Errorf("song %q has difficulty outside 1-5", song.Title)
		}
	}
	return nil
}

// loadFile decodes a YAML or JSON file into target based on extension,
// trying YAML first for unknown extensions.
func loadFile(filePath string, target any) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	switch filepath.Ext(filePath) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse YAML %s: %w", filePath, err)
		}
	case ".json":
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse JSON %s: %w", filePath, err)
		}
	default:
		if yamlErr := yaml.Unmarshal(data, target); yamlErr != nil {
			if jsonErr := json.Unmarshal(data, target); jsonErr != nil {
				return fmt.Errorf("failed to parse %s as YAML (%v) or JSON: %w", filePath, yamlErr, jsonErr)
			}
		}
	}

	return nil
}
