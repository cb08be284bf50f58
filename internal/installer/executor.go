package installer

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rauenzi/bbdinstall/internal/discord"
	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"github.com/rauenzi/bbdinstall/internal/log"
	"github.com/spf13/afero"
)

const (
	maxPayloadSize = 64 << 20
	storageFile    = "bdstorage.json"
)

var dataSubdirs = []string{"plugins", "themes"}

// span maps a phase's own 0..1 progress onto its slice of the whole run.
type span struct{ from, to float64 }

var fullSpan = span{0, 1}

func (s span) at(v float64) float64 { return s.from + v*(s.to-s.from) }

type Executor struct {
	fs         afero.Fs
	locator    *discord.Locator
	dataDir    string
	payloadURL string
	userAgent  string
	client     *http.Client

	payload *zip.Reader
}

func NewExecutor(fs afero.Fs, locator *discord.Locator, dataDir, payloadURL, userAgent string) *Executor {
	return &Executor{
		fs:         fs,
		locator:    locator,
		dataDir:    dataDir,
		payloadURL: payloadURL,
		userAgent:  userAgent,
		client:     &http.Client{Timeout: 2 * time.Minute},
	}
}

// Run executes plan and always finishes with an IsComplete message carrying
// the final error, if any.
func (e *Executor) Run(ctx context.Context, plan Plan, progressChan chan<- ProgressMsg) error {
	var err error
	if len(plan.Channels) == 0 {
		err = errdefs.NewCustomError(errdefs.ErrTypeInstall, "no Discord channel selected")
	} else {
		switch plan.Action {
		case ActionInstall:
			err = e.install(ctx, plan, progressChan, fullSpan)
		case ActionRepair:
			err = e.repair(ctx, plan, progressChan)
		case ActionUninstall:
			err = e.uninstall(ctx, plan, progressChan)
		default:
			err = fmt.Errorf("unknown action %s", plan.Action)
		}
	}

	final := ProgressMsg{
		Phase:      PhaseComplete,
		Progress:   1.0,
		Step:       fmt.Sprintf("%s complete", plan.Action),
		IsComplete: true,
		Error:      err,
	}
	if err != nil {
		final.Step = fmt.Sprintf("%s failed", plan.Action)
		final.LogOutput = err.Error()
		log.Errorf("%s failed: %v", plan.Action, err)
	} else {
		log.Infof("%s finished for %d channel(s)", plan.Action, len(plan.Channels))
	}
	progressChan <- final
	return err
}

func (e *Executor) install(ctx context.Context, plan Plan, progressChan chan<- ProgressMsg, s span) error {
	installs, err := e.locateAll(plan.Channels, progressChan, s)
	if err != nil {
		return err
	}

	progressChan <- ProgressMsg{
		Phase:     PhaseDownload,
		Progress:  s.at(0.2),
		Step:      "Downloading injector...",
		LogOutput: "GET " + e.payloadURL,
	}
	if err := e.loadPayload(ctx); err != nil {
		return err
	}

	step := 0.6 / float64(len(installs))
	for i, inst := range installs {
		if err := ctx.Err(); err != nil {
			return err
		}
		progressChan <- ProgressMsg{
			Phase:     PhaseExtract,
			Progress:  s.at(0.3 + step*float64(i)),
			Step:      fmt.Sprintf("Injecting into Discord %s...", inst.Channel),
			LogOutput: "Extracting to " + inst.InjectionDir(),
		}
		if err := e.fs.RemoveAll(inst.InjectionDir()); err != nil {
			return errdefs.Wrap(errdefs.ErrTypeInstall, "failed to clear previous injection", err)
		}
		if err := e.extract(inst.InjectionDir()); err != nil {
			return err
		}
	}

	progressChan <- ProgressMsg{
		Phase:     PhaseData,
		Progress:  s.at(0.95),
		Step:      "Preparing data folders...",
		LogOutput: "Data directory " + e.dataDir,
	}
	for _, sub := range dataSubdirs {
		if err := e.fs.MkdirAll(filepath.Join(e.dataDir, sub), 0755); err != nil {
			return errdefs.Wrap(errdefs.ErrTypeInstall, "failed to create data directory", err)
		}
	}
	return nil
}

func (e *Executor) uninstall(ctx context.Context, plan Plan, progressChan chan<- ProgressMsg) error {
	installs, err := e.locateAll(plan.Channels, progressChan, fullSpan)
	if err != nil {
		return err
	}
	if err := e.removeInjections(ctx, installs, progressChan, fullSpan); err != nil {
		return err
	}

	if plan.RemoveData {
		progressChan <- ProgressMsg{
			Phase:     PhaseData,
			Progress:  0.9,
			Step:      "Removing plugins and themes...",
			LogOutput: "Removing " + e.dataDir,
		}
		if err := e.fs.RemoveAll(e.dataDir); err != nil {
			return errdefs.Wrap(errdefs.ErrTypeInstall, "failed to remove data directory", err)
		}
	}
	return nil
}

// repair spends the first 30% of the bar on cleanup and the rest on a fresh
// install.
func (e *Executor) repair(ctx context.Context, plan Plan, progressChan chan<- ProgressMsg) error {
	cleanup := span{0, 0.3}
	installs, err := e.locateAll(plan.Channels, progressChan, cleanup)
	if err != nil {
		return err
	}
	if err := e.removeInjections(ctx, installs, progressChan, cleanup); err != nil {
		return err
	}

	if plan.ResetSettings {
		storage := filepath.Join(e.dataDir, storageFile)
		progressChan <- ProgressMsg{
			Phase:     PhaseData,
			Progress:  cleanup.at(0.8),
			Step:      "Resetting settings...",
			LogOutput: "Removing " + storage,
		}
		if err := e.fs.Remove(storage); err != nil {
			if ok, _ := afero.Exists(e.fs, storage); ok {
				return errdefs.Wrap(errdefs.ErrTypeInstall, "failed to reset settings", err)
			}
		}
	}

	return e.install(ctx, plan, progressChan, span{0.3, 1})
}

func (e *Executor) locateAll(channels []discord.Channel, progressChan chan<- ProgressMsg, s span) ([]discord.Installation, error) {
	var installs []discord.Installation
	n := float64(len(channels))
	for i, ch := range channels {
		progressChan <- ProgressMsg{
			Phase:    PhaseLocate,
			Progress: s.at(0.1 * float64(i) / n),
			Step:     fmt.Sprintf("Locating Discord %s...", ch),
		}
		inst, err := e.locator.Locate(ch)
		if err != nil {
			return nil, err
		}
		progressChan <- ProgressMsg{
			Phase:     PhaseLocate,
			Progress:  s.at(0.1 * float64(i+1) / n),
			Step:      fmt.Sprintf("Found Discord %s %s", ch, inst.Version),
			LogOutput: inst.AppDir,
		}
		installs = append(installs, inst)
	}
	return installs, nil
}

func (e *Executor) removeInjections(ctx context.Context, installs []discord.Installation, progressChan chan<- ProgressMsg, s span) error {
	n := float64(len(installs))
	for i, inst := range installs {
		if err := ctx.Err(); err != nil {
			return err
		}
		progressChan <- ProgressMsg{
			Phase:     PhaseRemove,
			Progress:  s.at(0.2 + 0.5*float64(i)/n),
			Step:      fmt.Sprintf("Removing injection from Discord %s...", inst.Channel),
			LogOutput: "Removing " + inst.InjectionDir(),
		}
		if err := e.fs.RemoveAll(inst.InjectionDir()); err != nil {
			return errdefs.Wrap(errdefs.ErrTypeInstall, fmt.Sprintf("failed to remove injection from Discord %s", inst.Channel), err)
		}
	}
	return nil
}

// loadPayload downloads the injector archive once per executor.
func (e *Executor) loadPayload(ctx context.Context) error {
	if e.payload != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.payloadURL, nil)
	if err != nil {
		return errdefs.Wrap(errdefs.ErrTypePayload, "failed to build download request", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return errdefs.Wrap(errdefs.ErrTypePayload, "failed to download injector", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errdefs.NewCustomError(errdefs.ErrTypePayload, fmt.Sprintf("injector download returned %s", resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return errdefs.Wrap(errdefs.ErrTypePayload, "failed to read injector", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return errdefs.Wrap(errdefs.ErrTypePayload, "injector is not a zip archive", err)
	}
	e.payload = zr
	log.Debugf("Downloaded injector: %d bytes, %d entries", len(data), len(zr.File))
	return nil
}

// extract unpacks the payload into dest, dropping the archive's single top
// level directory if it has one.
func (e *Executor) extract(dest string) error {
	prefix := commonRoot(e.payload.File)

	for _, f := range e.payload.File {
		name := strings.TrimPrefix(f.Name, prefix)
		if name == "" {
			continue
		}
		clean := path.Clean(name)
		if clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
			return errdefs.NewCustomError(errdefs.ErrTypePayload, fmt.Sprintf("unsafe path in injector archive: %s", f.Name))
		}
		target := filepath.Join(dest, filepath.FromSlash(clean))

		if f.FileInfo().IsDir() {
			if err := e.fs.MkdirAll(target, 0755); err != nil {
				return errdefs.Wrap(errdefs.ErrTypeInstall, "failed to create directory", err)
			}
			continue
		}

		if err := e.writeEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) writeEntry(f *zip.File, target string) error {
	if err := e.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errdefs.Wrap(errdefs.ErrTypeInstall, "failed to create directory", err)
	}

	rc, err := f.Open()
	if err != nil {
		return errdefs.Wrap(errdefs.ErrTypePayload, fmt.Sprintf("failed to open %s", f.Name), err)
	}
	defer rc.Close()

	out, err := e.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errdefs.Wrap(errdefs.ErrTypeInstall, fmt.Sprintf("failed to create %s", target), err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return errdefs.Wrap(errdefs.ErrTypeInstall, fmt.Sprintf("failed to write %s", target), err)
	}
	return nil
}

func commonRoot(files []*zip.File) string {
	if len(files) == 0 {
		return ""
	}
	first := files[0].Name
	idx := strings.IndexByte(first, '/')
	if idx <= 0 {
		return ""
	}
	root := first[:idx+1]
	for _, f := range files {
		if !strings.HasPrefix(f.Name, root) {
			return ""
		}
	}
	return root
}
