package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadArtistsYAML(t *testing.T) {
	path := writeTestFile(t, "artists.yaml", `
version: "1"
artists:
  - id: 1
    name: Reference Tenor
    genre: rock
    voice_type: tenor
    min_pitch_hz: 130
    max_pitch_hz: 520
    timbre_features:
      jitterLocal_sma3nz_amean: 0.02
  - id: 2
    name: Sparse Artist
`)

	catalog, err := LoadArtists(path)
	require.NoError(t, err)
	require.Len(t, catalog.Artists, 2)

	full := catalog.Artists[0]
	assert.Equal(t, int64(1), full.ID)
	assert.Equal(t, "Reference Tenor", full.Name)
	assert.Equal(t, "tenor", full.VoiceType)
	require.True(t, full.HasPitchRange())
	assert.InDelta(t, 130, *full.MinPitchHz, 1e-9)
	assert.InDelta(t, 0.02, full.TimbreFeatures["jitterLocal_sma3nz_amean"], 1e-9)

	sparse := catalog.Artists[1]
	assert.False(t, sparse.HasPitchRange())
	assert.Nil(t, sparse.MedianPitchHz)
	assert.Empty(t, sparse.VoiceEmbedding)
}

func TestLoadSongsJSON(t *testing.T) {
	path := writeTestFile(t, "songs.json", `{
  "songs": [
    {
      "id": 7,
      "title": "Test Song",
      "artist_name": "Someone",
      "min_pitch_hz": 180,
      "max_pitch_hz": 450,
      "difficulty": 3,
      "catalog_id": "trk-7",
      "catalog_url": "https://example.com/trk-7"
    }
  ]
}`)

	catalog, err := LoadSongs(path)
	require.NoError(t, err)
	require.Len(t, catalog.Songs, 1)

	song := catalog.Songs[0]
	assert.Equal(t, "Test Song", song.Title)
	require.NotNil(t, song.Difficulty)
	assert.Equal(t, 3, *song.Difficulty)
	assert.Equal(t, "trk-7", song.CatalogID)
}

func TestLoadArtistsValidation(t *testing.T) {
	missingName := writeTestFile(t, "artists.yaml", `
artists:
  - id: 1
    min_pitch_hz: 100
    max_pitch_hz: 300
`)
	_, err := LoadArtists(missingName)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")

	inverted := writeTestFile(t, "artists.yaml", `
artists:
  - id: 1
    name: Upside Down
    min_pitch_hz: 400
    max_pitch_hz: 100
`)
	_, err = LoadArtists(inverted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inverted pitch range")
}

func TestLoadSongsValidation(t *testing.T) {
	missingTitle := writeTestFile(t, "songs.yaml", `
songs:
  - id: 1
    min_pitch_hz: 100
    max_pitch_hz: 300
`)
	_, err := LoadSongs(missingTitle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no title")

	badDifficulty := writeTestFile(t, "songs.yaml", `
songs:
  - id: 1
    title: Too Hard
    min_pitch_hz: 100
    max_pitch_hz: 300
    difficulty: 9
`)
	_, err = LoadSongs(badDifficulty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "difficulty")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadArtists(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadUnknownExtensionFallsBack(t *testing.T) {
	// No extension: YAML is tried first, then JSON.
	yamlPath := writeTestFile(t, "artists", `
artists:
  - id: 1
    name: Extensionless
`)
	catalog, err := LoadArtists(yamlPath)
	require.NoError(t, err)
	assert.Len(t, catalog.Artists, 1)

	garbage := writeTestFile(t, "artists", `{{{not parseable`)
	_, err = LoadArtists(garbage)
	assert.Error(t, err)
}
