package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Settings is the state that survives between installer runs.
type Settings struct {
	AgreedToTerms bool `yaml:"agreed_to_terms"`
}

type Store interface {
	Load() (Settings, error)
	Save(Settings) error
}

// FileStore keeps Settings as YAML on an afero filesystem.
type FileStore struct {
	fs   afero.Fs
	path string
}

func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load returns zero Settings when the file does not exist yet.
func (s *FileStore) Load() (Settings, error) {
	var st Settings

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, errdefs.Wrap(errdefs.ErrTypeSettings, "failed to read settings", err)
	}

	if err := yaml.Unmarshal(data, &st); err != nil {
		return Settings{}, errdefs.Wrap(errdefs.ErrTypeSettings, fmt.Sprintf("failed to parse %s", s.path), err)
	}
	return st, nil
}

// Save writes to a sibling temp file and renames it over the target.
func (s *FileStore) Save(st Settings) error {
	data, err := yaml.Marshal(&st)
	if err != nil {
		return errdefs.Wrap(errdefs.ErrTypeSettings, "failed to encode settings", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errdefs.Wrap(errdefs.ErrTypeSettings, "failed to create settings directory", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return errdefs.Wrap(errdefs.ErrTypeSettings, "failed to write settings", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return errdefs.Wrap(errdefs.ErrTypeSettings, "failed to replace settings", err)
	}
	return nil
}
