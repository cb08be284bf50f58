package discord

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"github.com/spf13/afero"
)

type Channel int

const (
	ChannelStable Channel = iota
	ChannelPTB
	ChannelCanary
)

// Channels lists every channel in display order.
var Channels = []Channel{ChannelStable, ChannelPTB, ChannelCanary}

func (c Channel) String() string {
	switch c {
	case ChannelStable:
		return "Stable"
	case ChannelPTB:
		return "PTB"
	case ChannelCanary:
		return "Canary"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Dir is the channel's folder name under the local app data root.
func (c Channel) Dir() string {
	switch c {
	case ChannelPTB:
		return "DiscordPTB"
	case ChannelCanary:
		return "DiscordCanary"
	default:
		return "Discord"
	}
}

// Installation is one located Discord channel.
type Installation struct {
	Channel   Channel
	Version   *semver.Version
	AppDir    string
	Resources string
}

// InjectionDir is where the injector is unpacked.
func (i Installation) InjectionDir() string {
	return filepath.Join(i.Resources, "app")
}

type Locator struct {
	fs   afero.Fs
	root string
}

func NewLocator(fs afero.Fs, root string) *Locator {
	return &Locator{fs: fs, root: root}
}

// Locate returns the newest app-<version> directory of channel that has a
// resources folder.
func (l *Locator) Locate(channel Channel) (Installation, error) {
	base := filepath.Join(l.root, channel.Dir())

	entries, err := afero.ReadDir(l.fs, base)
	if err != nil {
		return Installation{}, errdefs.Wrap(errdefs.ErrTypeChannelNotFound, fmt.Sprintf("Discord %s not found", channel), err)
	}

	var found []Installation
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "app-") {
			continue
		}
		v, err := semver.NewVersion(strings.TrimPrefix(entry.Name(), "app-"))
		if err != nil {
			continue
		}
		appDir := filepath.Join(base, entry.Name())
		resources := filepath.Join(appDir, "resources")
		if ok, _ := afero.DirExists(l.fs, resources); !ok {
			continue
		}
		found = append(found, Installation{
			Channel:   channel,
			Version:   v,
			AppDir:    appDir,
			Resources: resources,
		})
	}

	if len(found) == 0 {
		return Installation{}, errdefs.NewCustomError(errdefs.ErrTypeChannelNotFound, fmt.Sprintf("no Discord %s app directory in %s", channel, base))
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Version.GreaterThan(found[j].Version)
	})
	return found[0], nil
}

// Detect returns which channels are installed.
func (l *Locator) Detect() map[Channel]Installation {
	result := make(map[Channel]Installation)
	for _, ch := range Channels {
		if inst, err := l.Locate(ch); err == nil {
			result[ch] = inst
		}
	}
	return result
}
