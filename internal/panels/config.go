package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/discord"
	"github.com/rauenzi/bbdinstall/internal/installer"
	"github.com/rauenzi/bbdinstall/internal/theme"
)

type configItem struct {
	label    string
	detail   string
	enabled  bool
	channel  discord.Channel
	isOption bool
}

// configPanel collects the channels (and one extra option for repair and
// uninstall) for a single action.
type configPanel struct {
	id        ID
	title     string
	action    installer.Action
	next      ID
	styles    theme.Styles
	selection *Selection
	items     []configItem
	cursor    int
}

func newConfigPanel(id ID, title string, action installer.Action, next ID, deps Deps) *configPanel {
	p := &configPanel{
		id:        id,
		title:     title,
		action:    action,
		next:      next,
		styles:    deps.Styles,
		selection: deps.Selection,
	}

	for _, ch := range discord.Channels {
		item := configItem{label: "Discord " + ch.String(), channel: ch}
		if inst, ok := deps.Detected[ch]; ok {
			item.enabled = true
			item.detail = fmt.Sprintf("%s (%s)", inst.Version, inst.AppDir)
		} else {
			item.detail = "not installed"
		}
		p.items = append(p.items, item)
	}

	switch action {
	case installer.ActionRepair:
		p.items = append(p.items, configItem{
			label:    "Reset BandagedBD settings",
			detail:   "removes bdstorage.json",
			enabled:  true,
			isOption: true,
		})
	case installer.ActionUninstall:
		p.items = append(p.items, configItem{
			label:    "Remove plugins and themes",
			detail:   "deletes the BetterDiscord data folder",
			enabled:  true,
			isOption: true,
		})
	}

	p.cursor = p.firstEnabled()
	return p
}

func (p *configPanel) ID() ID        { return p.id }
func (p *configPanel) Title() string { return p.title }
func (p *configPanel) Next() ID      { return p.next }
func (p *configPanel) Previous() ID  { return Action }

func (p *configPanel) CanAdvance() bool {
	for _, item := range p.items {
		if !item.isOption && item.enabled && p.selection.Channels[item.channel] {
			return true
		}
	}
	return false
}

func (p *configPanel) OnShow() tea.Cmd {
	p.selection.Action = p.action
	p.selection.claim(p.id)
	return nil
}

func (p *configPanel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		for i := p.cursor - 1; i >= 0; i-- {
			if p.items[i].enabled {
				p.cursor = i
				break
			}
		}
	case "down", "j":
		for i := p.cursor + 1; i < len(p.items); i++ {
			if p.items[i].enabled {
				p.cursor = i
				break
			}
		}
	case " ":
		if p.cursor >= 0 && p.items[p.cursor].enabled {
			p.toggle(p.items[p.cursor])
		}
	}
	return nil
}

func (p *configPanel) toggle(item configItem) {
	if !item.isOption {
		p.selection.Channels[item.channel] = !p.selection.Channels[item.channel]
		return
	}
	switch p.action {
	case installer.ActionRepair:
		p.selection.ResetSettings = !p.selection.ResetSettings
	case installer.ActionUninstall:
		p.selection.RemoveData = !p.selection.RemoveData
	}
}

func (p *configPanel) checked(item configItem) bool {
	if !item.isOption {
		return p.selection.Channels[item.channel]
	}
	switch p.action {
	case installer.ActionRepair:
		return p.selection.ResetSettings
	case installer.ActionUninstall:
		return p.selection.RemoveData
	}
	return false
}

func (p *configPanel) firstEnabled() int {
	for i, item := range p.items {
		if item.enabled {
			return i
		}
	}
	return -1
}

func (p *configPanel) View() string {
	var b strings.Builder

	b.WriteString(p.styles.Bold.Render(fmt.Sprintf("Select the Discord installs to %s:", strings.ToLower(p.action.String()))))
	b.WriteString("\n\n")

	for i, item := range p.items {
		if item.isOption {
			b.WriteString("\n")
		}

		box := "[ ]"
		if p.checked(item) {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, item.label)

		switch {
		case !item.enabled:
			b.WriteString(p.styles.Subtle.Render("  " + line))
		case i == p.cursor:
			b.WriteString(p.styles.SelectedOption.Render("▶ " + line))
		default:
			b.WriteString(p.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
		b.WriteString(p.styles.Subtle.Render("      " + item.detail))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if p.firstEnabled() < 0 || (p.items[p.firstEnabled()].isOption) {
		b.WriteString(p.styles.Warning.Render("⚠ No Discord installation was found"))
		b.WriteString("\n")
	}
	b.WriteString(p.styles.Subtle.Render("Use ↑/↓ to move, Space to toggle"))

	return b.String()
}
