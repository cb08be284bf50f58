package settings

import (
	"testing"

	"github.com/rauenzi/bbdinstall/internal/config"
	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(afero.NewMemMapFs(), "/cfg/settings.yaml")

	st, err := store.Load()
	require.NoError(t, err)
	assert.False(t, st.AgreedToTerms)
}

func TestFileStoreSaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "/cfg/BandagedBD/settings.yaml")

	require.NoError(t, store.Save(Settings{AgreedToTerms: true}))

	data, err := afero.ReadFile(fs, "/cfg/BandagedBD/settings.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "agreed_to_terms: true")

	exists, err := afero.Exists(fs, "/cfg/BandagedBD/settings.yaml.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	st, err := NewFileStore(fs, "/cfg/BandagedBD/settings.yaml").Load()
	require.NoError(t, err)
	assert.True(t, st.AgreedToTerms)
}

func TestFileStoreCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s.yaml", []byte("agreed_to_terms: [nope"), 0644))

	_, err := NewFileStore(fs, "/s.yaml").Load()
	require.Error(t, err)
	assert.True(t, errdefs.IsType(err, errdefs.ErrTypeSettings))
}

func TestFileStoreReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	err := NewFileStore(fs, "/cfg/settings.yaml").Save(Settings{AgreedToTerms: true})
	require.Error(t, err)
	assert.True(t, errdefs.IsType(err, errdefs.ErrTypeSettings))
}

func TestNewStoreExplicitPath(t *testing.T) {
	cfg := &config.Config{ProductName: "BandagedBD", SettingsPath: "/custom/settings.yaml"}

	store, err := NewStore(afero.NewMemMapFs(), cfg)
	require.NoError(t, err)

	fileStore, ok := store.(*FileStore)
	require.True(t, ok)
	assert.Equal(t, "/custom/settings.yaml", fileStore.Path())
}
