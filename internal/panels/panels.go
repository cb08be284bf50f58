// Package panels defines the wizard's screens and the registry that maps a
// panel ID to its instance. Sequencing is declared by each panel through
// Next and Previous; the ID ordering carries no meaning.
package panels

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/discord"
	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"github.com/rauenzi/bbdinstall/internal/installer"
	"github.com/rauenzi/bbdinstall/internal/theme"
	"golang.org/x/exp/maps"
)

type ID int

const (
	License ID = iota
	Action
	InstallConfig
	RepairConfig
	UninstallConfig
	Install
	Repair
	Uninstall
	None
)

func (id ID) String() string {
	switch id {
	case License:
		return "License"
	case Action:
		return "Action"
	case InstallConfig:
		return "InstallConfig"
	case RepairConfig:
		return "RepairConfig"
	case UninstallConfig:
		return "UninstallConfig"
	case Install:
		return "Install"
	case Repair:
		return "Repair"
	case Uninstall:
		return "Uninstall"
	case None:
		return "None"
	default:
		return fmt.Sprintf("ID(%d)", int(id))
	}
}

// Panel is one wizard step. View is its render surface; OnShow runs each
// time the panel becomes current.
type Panel interface {
	ID() ID
	Title() string
	Next() ID
	Previous() ID
	OnShow() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Gate is implemented by panels that can hold the Next button disabled.
type Gate interface {
	CanAdvance() bool
}

// Targeted messages belong to one panel regardless of which is current.
type Targeted interface {
	Target() ID
}

// FailedMsg is emitted by an execution panel when its run fails.
type FailedMsg struct {
	ID  ID
	Err error
}

// Selection is the state shared by the action, configuration and execution
// panels for a single run.
type Selection struct {
	Action        installer.Action
	Channels      map[discord.Channel]bool
	ResetSettings bool
	RemoveData    bool

	// owner is the configuration panel whose choices are held.
	owner ID
}

func NewSelection() *Selection {
	return &Selection{Channels: make(map[discord.Channel]bool), owner: None}
}

// claim hands the selection to the configuration panel id. Choices made on a
// different panel are dropped.
func (s *Selection) claim(id ID) {
	if s.owner == id {
		return
	}
	s.owner = id
	s.Channels = make(map[discord.Channel]bool)
	s.ResetSettings = false
	s.RemoveData = false
}

// Plan converts the selection into an executor plan with channels in
// display order.
func (s *Selection) Plan() installer.Plan {
	plan := installer.Plan{
		Action:        s.Action,
		ResetSettings: s.ResetSettings,
		RemoveData:    s.RemoveData,
	}
	for _, ch := range discord.Channels {
		if s.Channels[ch] {
			plan.Channels = append(plan.Channels, ch)
		}
	}
	return plan
}

type Registry struct {
	panels map[ID]Panel
}

// Deps are the collaborators the panels need.
type Deps struct {
	Selection   *Selection
	Detected    map[discord.Channel]discord.Installation
	Runner      installer.Runner
	LicenseText string
	Styles      theme.Styles
}

// NewRegistry builds every panel once.
func NewRegistry(deps Deps) *Registry {
	if deps.Selection == nil {
		deps.Selection = NewSelection()
	}
	if deps.LicenseText == "" {
		deps.LicenseText = licenseText
	}

	r := &Registry{panels: make(map[ID]Panel)}
	r.Add(newLicensePanel(deps))
	r.Add(newActionPanel(deps))
	r.Add(newConfigPanel(InstallConfig, "Install Options", installer.ActionInstall, Install, deps))
	r.Add(newConfigPanel(RepairConfig, "Repair Options", installer.ActionRepair, Repair, deps))
	r.Add(newConfigPanel(UninstallConfig, "Uninstall Options", installer.ActionUninstall, Uninstall, deps))
	r.Add(newExecPanel(Install, "Installing", InstallConfig, deps))
	r.Add(newExecPanel(Repair, "Repairing", RepairConfig, deps))
	r.Add(newExecPanel(Uninstall, "Uninstalling", UninstallConfig, deps))
	return r
}

// NewEmptyRegistry is for callers that assemble their own panel set.
func NewEmptyRegistry() *Registry {
	return &Registry{panels: make(map[ID]Panel)}
}

func (r *Registry) Add(p Panel) {
	r.panels[p.ID()] = p
}

func (r *Registry) Get(id ID) (Panel, error) {
	p, ok := r.panels[id]
	if !ok {
		return nil, errdefs.NewCustomError(errdefs.ErrTypePanelNotRegistered, fmt.Sprintf("panel %s is not registered", id))
	}
	return p, nil
}

// IDs returns the registered IDs in ascending order.
func (r *Registry) IDs() []ID {
	ids := maps.Keys(r.panels)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Broadcast delivers msg to every panel, for terminal-wide events like
// resizes.
func (r *Registry) Broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range r.IDs() {
		cmds = append(cmds, r.panels[id].Update(msg))
	}
	return tea.Batch(cmds...)
}
