package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rauenzi/bbdinstall/internal/theme"
)

func (m Model) renderBanner() string {
	logo := `
██████╗ ██████╗ ██████╗
██╔══██╗██╔══██╗██╔══██╗
██████╔╝██████╔╝██║  ██║
██╔══██╗██╔══██╗██║  ██║
██████╔╝██████╔╝██████╔╝
╚═════╝ ╚═════╝ ╚═════╝ `

	t := theme.BlurpleTheme()
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Primary)).
		Bold(true).
		MarginBottom(1)

	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Subtle)).
		Render(fmt.Sprintf("%s Installer v%s", m.productName, m.version))

	return style.Render(logo) + "\n" + header
}
