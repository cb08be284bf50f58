package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/browser"
	"github.com/rauenzi/bbdinstall/internal/log"
	"github.com/rauenzi/bbdinstall/internal/panels"
	"github.com/rauenzi/bbdinstall/internal/product"
	"github.com/rauenzi/bbdinstall/internal/settings"
	"github.com/rauenzi/bbdinstall/internal/theme"
	"github.com/rauenzi/bbdinstall/internal/update"
)

// UpdateSource produces the background update check command.
type UpdateSource interface {
	Cmd() tea.Cmd
}

type Options struct {
	ProductName   string
	Version       string
	Registry      *panels.Registry
	Store         settings.Store
	Checker       UpdateSource
	Opener        browser.Opener
	DownloadURL   func(tag string) string
	ExitOnDecline bool
	Styles        theme.Styles
}

// Model is the wizard window: it owns the panel registry, the current panel
// and the three navigation buttons.
type Model struct {
	productName   string
	version       string
	registry      *panels.Registry
	store         settings.Store
	settings      settings.Settings
	checker       UpdateSource
	opener        browser.Opener
	downloadURL   func(tag string) string
	exitOnDecline bool
	styles        theme.Styles

	current panels.ID
	title   string
	back    Button
	next    Button
	cancel  Button
	failed  bool

	notice    *update.Result
	dialogYes bool

	status   string
	width    int
	height   int
	quitting bool
	initCmd  tea.Cmd
}

func NewModel(opts Options) Model {
	if opts.ProductName == "" {
		opts.ProductName = product.Name
	}
	if opts.Opener == nil {
		opts.Opener = browser.System()
	}
	if opts.DownloadURL == nil {
		opts.DownloadURL = func(tag string) string {
			return product.DownloadURL(product.DefaultUpdateOwner, product.DefaultUpdateRepo, tag)
		}
	}

	m := Model{
		productName:   opts.ProductName,
		version:       opts.Version,
		registry:      opts.Registry,
		store:         opts.Store,
		checker:       opts.Checker,
		opener:        opts.Opener,
		downloadURL:   opts.DownloadURL,
		exitOnDecline: opts.ExitOnDecline,
		styles:        opts.Styles,
		current:       panels.None,
	}

	if m.store != nil {
		st, err := m.store.Load()
		if err != nil {
			log.Warnf("Failed to load settings, starting fresh: %v", err)
		}
		m.settings = st
	}

	if m.settings.AgreedToTerms {
		m.initCmd = m.SwitchTo(panels.Action)
	} else {
		m.initCmd = m.SwitchTo(panels.License)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.initCmd}
	if m.checker != nil {
		cmds = append(cmds, m.checker.Cmd())
	}
	return tea.Batch(cmds...)
}

// Current returns the ID of the panel being shown.
func (m Model) Current() panels.ID { return m.current }

func (m Model) Title() string { return m.title }

func (m Model) Buttons() (back, next, cancel Button) {
	return m.back, m.next, m.cancel
}

func (m Model) Settings() settings.Settings { return m.settings }

func (m Model) Quitting() bool { return m.quitting }

// panel looks up id and panics if it is missing: every transition the
// panels declare must be registered.
func (m *Model) panel(id panels.ID) panels.Panel {
	p, err := m.registry.Get(id)
	if err != nil {
		panic(err)
	}
	return p
}

// SwitchTo detaches the current panel, attaches id, retitles the window,
// runs the panel's show hook and recomputes the buttons.
func (m *Model) SwitchTo(id panels.ID) tea.Cmd {
	p := m.panel(id)

	if m.current != panels.None {
		log.Debugf("Leaving panel %s", m.current)
	}
	m.current = id
	m.failed = false
	m.title = fmt.Sprintf("%s — %s", m.productName, p.Title())
	show := p.OnShow()

	m.back = shown(backLabel)
	m.next = shown(nextLabel)
	m.cancel = shown(cancelLabel)

	if p.Previous() == panels.None {
		m.back = hidden(backLabel)
	}
	if p.Next() == panels.None {
		m.back = hidden(backLabel)
		m.next = hidden(nextLabel)
		m.cancel = shown(exitLabel)
	}
	m.refreshGate()

	log.Debugf("Showing panel %s", id)
	return tea.Batch(tea.SetWindowTitle(m.title), show)
}

// refreshGate applies the current panel's gate to Next. Terminal panels and
// failed panels are left alone.
func (m *Model) refreshGate() {
	p := m.panel(m.current)
	if m.failed || p.Next() == panels.None || !m.next.Visible {
		return
	}
	m.next.Enabled = true
	if gate, ok := p.(panels.Gate); ok {
		m.next.Enabled = gate.CanAdvance()
	}
}

// Next advances to the current panel's successor. Leaving the license panel
// records the agreement first.
func (m *Model) Next() tea.Cmd {
	if !m.next.Enabled {
		return nil
	}
	p := m.panel(m.current)

	if m.current == panels.License {
		m.settings.AgreedToTerms = true
		if m.store != nil {
			if err := m.store.Save(m.settings); err != nil {
				log.Errorf("Failed to save settings: %v", err)
				m.status = "Could not save your agreement; you will be asked again next time."
			}
		}
	}
	return m.SwitchTo(p.Next())
}

func (m *Model) Back() tea.Cmd {
	if !m.back.Enabled {
		return nil
	}
	return m.SwitchTo(m.panel(m.current).Previous())
}

// Cancel exits immediately.
func (m *Model) Cancel() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

// Fail blocks forward progress after a failed run and hands control back to
// the user. Next stays disabled until another panel is shown.
func (m *Model) Fail() {
	m.failed = true
	m.cancel.Visible = true
	m.cancel.Enabled = true
	m.back = shown(backLabel)
	m.next = Button{Label: nextLabel, Visible: true, Enabled: false}
}

func (m *Model) openURL(url string) {
	if err := m.opener.Open(url); err != nil {
		log.Warnf("Failed to open %s: %v", url, err)
		m.status = fmt.Sprintf("Could not open %s", url)
	}
}
