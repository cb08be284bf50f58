package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/config"
	"github.com/rauenzi/bbdinstall/internal/discord"
	"github.com/rauenzi/bbdinstall/internal/installer"
	"github.com/rauenzi/bbdinstall/internal/log"
	"github.com/rauenzi/bbdinstall/internal/panels"
	"github.com/rauenzi/bbdinstall/internal/product"
	"github.com/rauenzi/bbdinstall/internal/settings"
	"github.com/rauenzi/bbdinstall/internal/theme"
	"github.com/rauenzi/bbdinstall/internal/tui"
	"github.com/rauenzi/bbdinstall/internal/update"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "bbdinstall",
	Short: "BandagedBD Installer",
	Long:  "BandagedBD Installer\n\nInstalls, repairs or removes BandagedBD for the Discord channels found on this machine.",
	RunE:  runWizard,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s Installer %s\n", product.Name, product.Tag(Version))
	},
}

var checkUpdateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Check for a newer installer release",
	RunE:  runCheckUpdate,
}

var resetTermsCmd = &cobra.Command{
	Use:   "reset-terms",
	Short: "Forget the accepted license agreement",
	RunE:  runResetTerms,
}

func loadConfig(fs afero.Fs) (*config.Config, error) {
	cfg, err := config.Load(fs, configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	log.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func newChecker(cfg *config.Config) *update.Checker {
	checker := update.NewChecker(
		product.LatestReleaseURL(cfg.Update.Owner, cfg.Update.Repo),
		cfg.Update.UserAgent,
		product.Tag(Version),
		cfg.Update.Timeout,
	)
	if cfg.Update.Compare == config.CompareSemver {
		checker.Compare = update.CompareSemver
	}
	return checker
}

// redirectLogs sends log output to path for as long as the wizard owns the
// terminal. The returned func restores stderr.
func redirectLogs(fs afero.Fs, path string) (func(), error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

func runWizard(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()

	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}

	restore, err := redirectLogs(fs, cfg.LogFile)
	if err != nil {
		log.Warnf("Logging to stderr: %v", err)
	} else {
		defer restore()
	}

	store, err := settings.NewStore(fs, cfg)
	if err != nil {
		return err
	}

	locator := discord.NewLocator(fs, cfg.DiscordRoot)
	detected := locator.Detect()
	for ch, inst := range detected {
		log.Infof("Found %s at %s", ch, inst.AppDir)
	}

	styles := theme.NewStyles(theme.BlurpleTheme())
	registry := panels.NewRegistry(panels.Deps{
		Detected: detected,
		Runner:   installer.NewExecutor(fs, locator, cfg.DataDir, cfg.PayloadURL, cfg.Update.UserAgent),
		Styles:   styles,
	})

	model := tui.NewModel(tui.Options{
		ProductName: cfg.ProductName,
		Version:     Version,
		Registry:    registry,
		Store:       store,
		Checker:     newChecker(cfg),
		DownloadURL: func(tag string) string {
			return product.DownloadURL(cfg.Update.Owner, cfg.Update.Repo, tag)
		},
		ExitOnDecline: cfg.Update.ExitOnDecline,
		Styles:        styles,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func runCheckUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(afero.NewOsFs())
	if err != nil {
		return err
	}

	result, err := newChecker(cfg).Check(context.Background())
	if err != nil {
		return err
	}

	if result.Available {
		fmt.Printf("Update available: %s -> %s\n", result.Local, result.Remote)
		fmt.Println(product.DownloadURL(cfg.Update.Owner, cfg.Update.Repo, result.Remote))
		return nil
	}
	fmt.Printf("Up to date (%s, latest %s)\n", result.Local, result.Remote)
	return nil
}

func runResetTerms(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()

	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}

	store, err := settings.NewStore(fs, cfg)
	if err != nil {
		return err
	}

	st, err := store.Load()
	if err != nil {
		log.Warnf("Existing settings unreadable, overwriting: %v", err)
	}
	st.AgreedToTerms = false
	if err := store.Save(st); err != nil {
		return err
	}
	fmt.Println("License agreement reset")
	return nil
}
