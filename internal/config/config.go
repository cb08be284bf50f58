package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rauenzi/bbdinstall/internal/product"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "BBD"
	configName     = "config"
	configType     = "yaml"
	CompareOrdinal = "ordinal"
	CompareSemver  = "semver"
)

type UpdateConfig struct {
	Owner         string        `mapstructure:"owner"`
	Repo          string        `mapstructure:"repo"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Compare       string        `mapstructure:"compare"`
	ExitOnDecline bool          `mapstructure:"exit_on_decline"`
}

type Config struct {
	ProductName  string       `mapstructure:"product_name"`
	Update       UpdateConfig `mapstructure:"update"`
	PayloadURL   string       `mapstructure:"payload_url"`
	DiscordRoot  string       `mapstructure:"discord_root"`
	DataDir      string       `mapstructure:"data_dir"`
	SettingsPath string       `mapstructure:"settings_path"`
	LogLevel     string       `mapstructure:"log_level"`
	LogFile      string       `mapstructure:"log_file"`
}

// Dir returns the per-user directory holding config.yaml and settings.yaml.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, product.Name), nil
}

// Load reads config.yaml (explicit path, or the default directory when path
// is empty) and BBD_* environment overrides. A missing default file is not
// an error.
func Load(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Update.Compare {
	case CompareOrdinal, CompareSemver:
	default:
		return fmt.Errorf("update.compare must be %q or %q, got %q", CompareOrdinal, CompareSemver, c.Update.Compare)
	}
	if c.Update.Timeout <= 0 {
		return fmt.Errorf("update.timeout must be positive")
	}
	if c.Update.Owner == "" || c.Update.Repo == "" {
		return fmt.Errorf("update.owner and update.repo are required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("product_name", product.Name)
	v.SetDefault("update.owner", product.DefaultUpdateOwner)
	v.SetDefault("update.repo", product.DefaultUpdateRepo)
	v.SetDefault("update.user_agent", product.DefaultUserAgent)
	v.SetDefault("update.timeout", 10*time.Second)
	v.SetDefault("update.compare", CompareOrdinal)
	v.SetDefault("update.exit_on_decline", true)
	v.SetDefault("payload_url", product.DefaultPayloadURL)
	v.SetDefault("discord_root", localAppData())
	v.SetDefault("data_dir", filepath.Join(roamingAppData(), "BetterDiscord"))
	v.SetDefault("settings_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", defaultLogFile())
}

// localAppData is where Discord installs its channels on Windows.
func localAppData() string {
	if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
		return dir
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return os.TempDir()
}

func roamingAppData() string {
	if dir := os.Getenv("APPDATA"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return os.TempDir()
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, product.Name, "installer.log")
}
