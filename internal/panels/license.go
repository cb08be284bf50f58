package panels

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/theme"
)

//go:embed license.txt
var licenseText string

const (
	licenseWidth  = 80
	licenseHeight = 14
)

type licensePanel struct {
	styles   theme.Styles
	viewport viewport.Model
	accepted bool
}

func newLicensePanel(deps Deps) *licensePanel {
	vp := viewport.New(licenseWidth, licenseHeight)
	vp.SetContent(deps.LicenseText)
	return &licensePanel{
		styles:   deps.Styles,
		viewport: vp,
	}
}

func (p *licensePanel) ID() ID           { return License }
func (p *licensePanel) Title() string    { return "License Agreement" }
func (p *licensePanel) Next() ID         { return Action }
func (p *licensePanel) Previous() ID     { return None }
func (p *licensePanel) CanAdvance() bool { return p.accepted }

func (p *licensePanel) OnShow() tea.Cmd {
	p.viewport.GotoTop()
	return nil
}

func (p *licensePanel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 4 && msg.Width-4 < licenseWidth {
			p.viewport.Width = msg.Width - 4
		} else {
			p.viewport.Width = licenseWidth
		}
		return nil
	case tea.KeyMsg:
		if msg.String() == " " {
			p.accepted = !p.accepted
			return nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *licensePanel) View() string {
	var b strings.Builder

	b.WriteString(p.styles.Normal.Render(p.viewport.View()))
	b.WriteString("\n\n")

	box := "[ ]"
	style := p.styles.Normal
	if p.accepted {
		box = "[x]"
		style = p.styles.SelectedOption
	}
	b.WriteString(style.Render(box + " I accept the license agreement"))
	b.WriteString("\n\n")
	b.WriteString(p.styles.Subtle.Render("↑/↓ to scroll, Space to accept"))

	return b.String()
}
