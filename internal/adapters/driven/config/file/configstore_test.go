package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

func TestConfigStore_MissingFileReturnsDefaults(t *testing.T) {
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	settings, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestConfigStore_SaveLoadRoundTrip(t *testing.T) {
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.Provider = "ollama"
	settings.EmbeddingModel = "nomic-embed-text"
	settings.ChunkBudget = 800
	require.NoError(t, s.Save(settings))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestConfigStore_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := NewConfigStore(dir)
	require.NoError(t, err)

	partial := "provider = \"ollama\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(partial), 0600))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "ollama", got.Provider)
	assert.Equal(t, domain.DefaultRRFConstant, got.RRFConstant)
	assert.Equal(t, domain.DefaultChunkBudget, got.ChunkBudget)
}

func TestConfigStore_RejectsInvalidSettings(t *testing.T) {
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	bad := domain.DefaultSettings()
	bad.Provider = "clippy"
	assert.Error(t, s.Save(bad))

	bad = domain.DefaultSettings()
	bad.MaxEmbedFailure = 2
	assert.Error(t, s.Save(bad))
}
