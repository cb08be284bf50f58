package settings

import (
	"path/filepath"

	"github.com/rauenzi/bbdinstall/internal/config"
	"github.com/rauenzi/bbdinstall/internal/log"
	"github.com/spf13/afero"
)

const fileName = "settings.yaml"

// NewStore picks the settings backend for this platform. An explicit
// settings_path always selects the YAML file store.
func NewStore(fs afero.Fs, cfg *config.Config) (Store, error) {
	if cfg.SettingsPath != "" {
		return NewFileStore(fs, cfg.SettingsPath), nil
	}

	if store := platformStore(cfg.ProductName); store != nil {
		return store, nil
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fileName)
	log.Debugf("Using settings file %s", path)
	return NewFileStore(fs, path), nil
}
