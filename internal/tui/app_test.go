package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"github.com/rauenzi/bbdinstall/internal/panels"
	"github.com/rauenzi/bbdinstall/internal/settings"
	"github.com/rauenzi/bbdinstall/internal/theme"
	"github.com/rauenzi/bbdinstall/internal/update"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	id       panels.ID
	title    string
	next     panels.ID
	previous panels.ID
	shows    int
	msgs     []tea.Msg
}

func (p *fakePanel) ID() panels.ID       { return p.id }
func (p *fakePanel) Title() string       { return p.title }
func (p *fakePanel) Next() panels.ID     { return p.next }
func (p *fakePanel) Previous() panels.ID { return p.previous }
func (p *fakePanel) View() string        { return p.title + " body" }

func (p *fakePanel) OnShow() tea.Cmd {
	p.shows++
	return nil
}

func (p *fakePanel) Update(msg tea.Msg) tea.Cmd {
	p.msgs = append(p.msgs, msg)
	return nil
}

type gatedPanel struct {
	fakePanel
	open bool
}

func (p *gatedPanel) CanAdvance() bool { return p.open }

type fakeStore struct {
	loaded  settings.Settings
	saved   []settings.Settings
	saveErr error
}

func (s *fakeStore) Load() (settings.Settings, error) { return s.loaded, nil }

func (s *fakeStore) Save(st settings.Settings) error {
	s.saved = append(s.saved, st)
	return s.saveErr
}

type fakeOpener struct {
	urls []string
}

func (o *fakeOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

type targetedMsg struct{ id panels.ID }

func (m targetedMsg) Target() panels.ID { return m.id }

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// linearRegistry registers License -> Action -> InstallConfig -> Install
// with Install as the terminal panel.
func linearRegistry() (*panels.Registry, map[panels.ID]*fakePanel) {
	r := panels.NewEmptyRegistry()
	fakes := map[panels.ID]*fakePanel{
		panels.License:       {id: panels.License, title: "License", next: panels.Action, previous: panels.None},
		panels.Action:        {id: panels.Action, title: "Action", next: panels.InstallConfig, previous: panels.License},
		panels.InstallConfig: {id: panels.InstallConfig, title: "Options", next: panels.Install, previous: panels.Action},
		panels.Install:       {id: panels.Install, title: "Installing", next: panels.None, previous: panels.InstallConfig},
	}
	for _, p := range fakes {
		r.Add(p)
	}
	return r, fakes
}

func newTestModel(t *testing.T, store settings.Store, opener *fakeOpener) (Model, map[panels.ID]*fakePanel) {
	t.Helper()
	r, fakes := linearRegistry()
	m := NewModel(Options{
		ProductName:   "BandagedBD",
		Version:       "0.3.0",
		Registry:      r,
		Store:         store,
		Opener:        opener,
		DownloadURL:   func(tag string) string { return "https://example.test/" + tag },
		ExitOnDecline: true,
		Styles:        theme.NewStyles(theme.BlurpleTheme()),
	})
	return m, fakes
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestStartPanelFollowsAgreement(t *testing.T) {
	m, fakes := newTestModel(t, &fakeStore{}, &fakeOpener{})
	assert.Equal(t, panels.License, m.Current())
	assert.Equal(t, 1, fakes[panels.License].shows)

	m, fakes = newTestModel(t, &fakeStore{loaded: settings.Settings{AgreedToTerms: true}}, &fakeOpener{})
	assert.Equal(t, panels.Action, m.Current())
	assert.Equal(t, 0, fakes[panels.License].shows)
}

func TestSwitchToRetitlesAndRunsShowHook(t *testing.T) {
	m, fakes := newTestModel(t, &fakeStore{}, &fakeOpener{})

	m.SwitchTo(panels.InstallConfig)

	assert.Equal(t, panels.InstallConfig, m.Current())
	assert.Equal(t, "BandagedBD — Options", m.Title())
	assert.Equal(t, 1, fakes[panels.InstallConfig].shows)
}

func TestSwitchToUnregisteredPanics(t *testing.T) {
	m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})

	assert.PanicsWithError(t, "panel Repair is not registered", func() {
		m.SwitchTo(panels.Repair)
	})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errdefs.IsType(err, errdefs.ErrTypePanelNotRegistered))
	}()
	m.SwitchTo(panels.UninstallConfig)
}

func TestNextAndBackRoundTrip(t *testing.T) {
	m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})

	m.SwitchTo(panels.Action)
	m.Next()
	assert.Equal(t, panels.InstallConfig, m.Current())

	m.Back()
	assert.Equal(t, panels.Action, m.Current())

	m.Back()
	assert.Equal(t, panels.License, m.Current())
}

func TestButtonsFollowSequence(t *testing.T) {
	m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})

	back, next, cancel := m.Buttons()
	assert.False(t, back.Visible)
	assert.Equal(t, shown(nextLabel), next)
	assert.Equal(t, shown(cancelLabel), cancel)

	m.SwitchTo(panels.InstallConfig)
	back, next, cancel = m.Buttons()
	assert.Equal(t, shown(backLabel), back)
	assert.Equal(t, shown(nextLabel), next)
	assert.Equal(t, shown(cancelLabel), cancel)
}

func TestTerminalPanelOffersOnlyExit(t *testing.T) {
	m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})

	m.SwitchTo(panels.Install)

	back, next, cancel := m.Buttons()
	assert.False(t, back.Visible)
	assert.False(t, next.Visible)
	assert.Equal(t, exitLabel, cancel.Label)
	assert.True(t, cancel.Visible)
	assert.True(t, cancel.Enabled)

	m, cmd := press(t, m, "enter")
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Quitting())
}

func TestFailBlocksNext(t *testing.T) {
	m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})
	m.SwitchTo(panels.Install)

	next, _ := m.Update(panels.FailedMsg{ID: panels.Install, Err: errors.New("boom")})
	m = next.(Model)

	back, nextBtn, cancel := m.Buttons()
	assert.True(t, back.Visible)
	assert.True(t, back.Enabled)
	assert.True(t, nextBtn.Visible)
	assert.False(t, nextBtn.Enabled)
	assert.True(t, cancel.Enabled)

	m, _ = press(t, m, "enter")
	assert.Equal(t, panels.Install, m.Current())

	m, _ = press(t, m, "esc")
	assert.Equal(t, panels.InstallConfig, m.Current())
}

func TestFailHoldsNextOnGatedPanel(t *testing.T) {
	m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})
	m.SwitchTo(panels.InstallConfig)

	m.Fail()
	m, _ = press(t, m, "j")
	next, _ := m.Update(targetedMsg{id: panels.InstallConfig})
	m = next.(Model)

	_, nextBtn, _ := m.Buttons()
	assert.False(t, nextBtn.Enabled)

	m, _ = press(t, m, "enter")
	assert.Equal(t, panels.InstallConfig, m.Current())

	m, _ = press(t, m, "esc")
	_, nextBtn, _ = m.Buttons()
	assert.Equal(t, panels.Action, m.Current())
	assert.True(t, nextBtn.Enabled)
}

func TestFailFromOtherPanelIgnored(t *testing.T) {
	m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})
	m.SwitchTo(panels.Action)

	next, _ := m.Update(panels.FailedMsg{ID: panels.Install, Err: errors.New("stale")})
	m = next.(Model)

	_, nextBtn, _ := m.Buttons()
	assert.True(t, nextBtn.Enabled)
}

func TestLeavingLicensePersistsAgreement(t *testing.T) {
	store := &fakeStore{}
	m, _ := newTestModel(t, store, &fakeOpener{})

	m, _ = press(t, m, "enter")

	assert.Equal(t, panels.Action, m.Current())
	require.Len(t, store.saved, 1)
	assert.True(t, store.saved[0].AgreedToTerms)
	assert.True(t, m.Settings().AgreedToTerms)

	m, _ = press(t, m, "enter")
	assert.Len(t, store.saved, 1)
}

func TestSaveFailureStillAdvances(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("read-only")}
	m, _ := newTestModel(t, store, &fakeOpener{})

	m, _ = press(t, m, "enter")

	assert.Equal(t, panels.Action, m.Current())
	assert.Contains(t, m.View(), "Could not save")
}

func TestGateControlsNext(t *testing.T) {
	r := panels.NewEmptyRegistry()
	gated := &gatedPanel{fakePanel: fakePanel{id: panels.License, title: "License", next: panels.Action, previous: panels.None}}
	r.Add(gated)
	r.Add(&fakePanel{id: panels.Action, title: "Action", next: panels.None, previous: panels.License})

	m := NewModel(Options{Registry: r, Store: &fakeStore{}, Opener: &fakeOpener{}, Styles: theme.NewStyles(theme.BlurpleTheme())})

	_, next, _ := m.Buttons()
	assert.False(t, next.Enabled)

	m, _ = press(t, m, "enter")
	assert.Equal(t, panels.License, m.Current())

	gated.open = true
	m, _ = press(t, m, "x")
	_, next, _ = m.Buttons()
	assert.True(t, next.Enabled)

	m, _ = press(t, m, "enter")
	assert.Equal(t, panels.Action, m.Current())
}

func TestKeysReachCurrentPanel(t *testing.T) {
	m, fakes := newTestModel(t, &fakeStore{}, &fakeOpener{})

	_, _ = press(t, m, "j")

	require.Len(t, fakes[panels.License].msgs, 1)
	assert.Equal(t, keyMsg("j"), fakes[panels.License].msgs[0])
}

func TestTargetedMessagesRouteToOwner(t *testing.T) {
	m, fakes := newTestModel(t, &fakeStore{}, &fakeOpener{})

	_, _ = m.Update(targetedMsg{id: panels.Install})

	assert.Len(t, fakes[panels.Install].msgs, 1)
	assert.Empty(t, fakes[panels.License].msgs)
}

func TestWindowSizeBroadcast(t *testing.T) {
	m, fakes := newTestModel(t, &fakeStore{}, &fakeOpener{})

	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	for id, p := range fakes {
		assert.Len(t, p.msgs, 1, id.String())
	}
}

func TestLinksOpenInBrowser(t *testing.T) {
	opener := &fakeOpener{}
	m, _ := newTestModel(t, &fakeStore{}, opener)

	_, _ = press(t, m, "ctrl+o", "ctrl+d")

	assert.Equal(t, []string{"https://github.com/rauenzi/BetterDiscordApp", "https://paypal.me/ZackRauen"}, opener.urls)
}

func TestCancelQuits(t *testing.T) {
	m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})

	m, cmd := press(t, m, "ctrl+c")

	assert.True(t, isQuit(cmd))
	assert.True(t, m.Quitting())
	assert.Empty(t, m.View())
}

func TestUpdateDialog(t *testing.T) {
	notice := update.AvailableMsg{Result: update.Result{Available: true, Local: "v0.3.0", Remote: "v0.4.0"}}

	t.Run("accept opens download and exits", func(t *testing.T) {
		opener := &fakeOpener{}
		m, _ := newTestModel(t, &fakeStore{}, opener)

		next, _ := m.Update(notice)
		m = next.(Model)
		assert.Contains(t, m.View(), "v0.4.0")

		m, cmd := press(t, m, "enter")
		assert.Equal(t, []string{"https://example.test/v0.4.0"}, opener.urls)
		assert.True(t, isQuit(cmd))
		assert.True(t, m.Quitting())
	})

	t.Run("decline exits by default", func(t *testing.T) {
		opener := &fakeOpener{}
		m, _ := newTestModel(t, &fakeStore{}, opener)

		next, _ := m.Update(notice)
		m = next.(Model)

		_, cmd := press(t, m, "right", "enter")
		assert.Empty(t, opener.urls)
		assert.True(t, isQuit(cmd))
	})

	t.Run("decline continues when configured", func(t *testing.T) {
		m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})
		m.exitOnDecline = false

		next, _ := m.Update(notice)
		m = next.(Model)

		m, cmd := press(t, m, "n")
		assert.Nil(t, cmd)
		assert.False(t, m.Quitting())
		assert.NotContains(t, m.View(), "Update Available")

		m, _ = press(t, m, "enter")
		assert.Equal(t, panels.Action, m.Current())
	})

	t.Run("escape declines without reaching the panel", func(t *testing.T) {
		m, fakes := newTestModel(t, &fakeStore{}, &fakeOpener{})

		next, _ := m.Update(notice)
		m = next.(Model)

		m, _ = press(t, m, "esc")
		assert.True(t, m.Quitting())
		assert.Empty(t, fakes[panels.License].msgs)
	})
}

func TestFooterListsKeyHints(t *testing.T) {
	m, _ := newTestModel(t, &fakeStore{}, &fakeOpener{})

	view := m.View()
	for _, h := range keyHints {
		assert.Contains(t, view, h.key)
		assert.Contains(t, view, h.desc)
	}
	assert.Contains(t, view, "BandagedBD Installer v0.3.0")
}
