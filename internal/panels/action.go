package panels

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/installer"
	"github.com/rauenzi/bbdinstall/internal/theme"
)

type actionOption struct {
	action      installer.Action
	name        string
	description string
	next        ID
}

var actionOptions = []actionOption{
	{installer.ActionInstall, "Install BandagedBD", "Inject BandagedBD into one or more Discord installs.", InstallConfig},
	{installer.ActionRepair, "Repair BandagedBD", "Reinstall the injection, optionally resetting settings.", RepairConfig},
	{installer.ActionUninstall, "Uninstall BandagedBD", "Remove the injection and restore vanilla Discord.", UninstallConfig},
}

type actionPanel struct {
	styles    theme.Styles
	selection *Selection
	selected  int
}

func newActionPanel(deps Deps) *actionPanel {
	return &actionPanel{
		styles:    deps.Styles,
		selection: deps.Selection,
	}
}

func (p *actionPanel) ID() ID        { return Action }
func (p *actionPanel) Title() string { return "Choose an Action" }
func (p *actionPanel) Previous() ID  { return License }

// Next follows the highlighted action.
func (p *actionPanel) Next() ID {
	return actionOptions[p.selected].next
}

func (p *actionPanel) OnShow() tea.Cmd {
	p.selection.Action = actionOptions[p.selected].action
	return nil
}

func (p *actionPanel) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "k":
			if p.selected > 0 {
				p.selected--
			}
		case "down", "j":
			if p.selected < len(actionOptions)-1 {
				p.selected++
			}
		}
		p.selection.Action = actionOptions[p.selected].action
	}
	return nil
}

func (p *actionPanel) View() string {
	var b strings.Builder

	for i, option := range actionOptions {
		if i == p.selected {
			b.WriteString(p.styles.SelectedOption.Render("▶ " + option.name))
		} else {
			b.WriteString(p.styles.Normal.Render("  " + option.name))
		}
		b.WriteString("\n")
		b.WriteString(p.styles.Subtle.Render("  " + option.description))
		b.WriteString("\n")
		if i < len(actionOptions)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(p.styles.Subtle.Render("Use ↑/↓ to choose"))

	return b.String()
}
