package discord

import (
	"path/filepath"
	"testing"

	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, fs afero.Fs, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll(d, 0755))
	}
}

func TestLocatePicksNewestVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	mkdirs(t, fs,
		"/local/Discord/app-0.0.9/resources",
		"/local/Discord/app-0.0.10/resources",
		"/local/Discord/app-0.0.8/resources",
		"/local/Discord/packages",
	)

	inst, err := NewLocator(fs, "/local").Locate(ChannelStable)
	require.NoError(t, err)

	assert.Equal(t, "0.0.10", inst.Version.String())
	assert.Equal(t, filepath.Join("/local/Discord/app-0.0.10", "resources"), inst.Resources)
	assert.Equal(t, filepath.Join("/local/Discord/app-0.0.10", "resources", "app"), inst.InjectionDir())
}

func TestLocateSkipsIncompleteDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	mkdirs(t, fs,
		"/local/DiscordPTB/app-1.0.2",
		"/local/DiscordPTB/app-1.0.1/resources",
		"/local/DiscordPTB/app-bogus/resources",
	)

	inst, err := NewLocator(fs, "/local").Locate(ChannelPTB)
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", inst.Version.String())
}

func TestLocateMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	mkdirs(t, fs, "/local/DiscordCanary/packages")

	loc := NewLocator(fs, "/local")

	_, err := loc.Locate(ChannelStable)
	require.Error(t, err)
	assert.True(t, errdefs.IsType(err, errdefs.ErrTypeChannelNotFound))

	_, err = loc.Locate(ChannelCanary)
	require.Error(t, err)
	assert.True(t, errdefs.IsType(err, errdefs.ErrTypeChannelNotFound))
}

func TestDetect(t *testing.T) {
	fs := afero.NewMemMapFs()
	mkdirs(t, fs,
		"/local/Discord/app-0.0.309/resources",
		"/local/DiscordCanary/app-0.0.120/resources",
	)

	found := NewLocator(fs, "/local").Detect()
	assert.Len(t, found, 2)
	assert.Contains(t, found, ChannelStable)
	assert.Contains(t, found, ChannelCanary)
	assert.NotContains(t, found, ChannelPTB)
}

func TestChannelNames(t *testing.T) {
	assert.Equal(t, "Stable", ChannelStable.String())
	assert.Equal(t, "DiscordPTB", ChannelPTB.Dir())
	assert.Equal(t, "DiscordCanary", ChannelCanary.Dir())
	assert.Equal(t, "Channel(7)", Channel(7).String())
}
