package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")

	if m.notice != nil {
		b.WriteString(m.renderNoticeDialog())
	} else {
		b.WriteString(m.panel(m.current).View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderButtons())
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(m.styles.Warning.Render("⚠ " + m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())

	return b.String()
}

var keyHints = []struct{ key, desc string }{
	{"Enter", "next"},
	{"Esc", "back"},
	{"Ctrl+C", "quit"},
	{"Ctrl+O", "homepage"},
	{"Ctrl+D", "donate"},
}

func (m Model) renderHelp() string {
	parts := make([]string, 0, len(keyHints))
	for _, h := range keyHints {
		parts = append(parts, m.styles.Key.Render(h.key)+m.styles.Subtle.Render(": "+h.desc))
	}
	return strings.Join(parts, m.styles.Subtle.Render(" · "))
}

func (m Model) renderButtons() string {
	var parts []string
	for _, btn := range []struct {
		Button
		primary bool
	}{
		{m.back, false},
		{m.next, true},
		{m.cancel, m.cancel.Label == exitLabel},
	} {
		if !btn.Visible {
			continue
		}
		switch {
		case !btn.Enabled:
			parts = append(parts, m.styles.DisabledButton.Render(btn.Label))
		case btn.primary:
			parts = append(parts, m.styles.HighlightButton.Render(btn.Label))
		default:
			parts = append(parts, m.styles.Button.Render(btn.Label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "  "))
}

func (m Model) renderNoticeDialog() string {
	var b strings.Builder

	b.WriteString(m.styles.Warning.Render("Update Available!"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Normal.Render(fmt.Sprintf(
		"There is a newer version of the installer available (%s).\nWould you like to download it now?",
		m.notice.Remote)))
	b.WriteString("\n\n")

	yes, no := m.styles.Button.Render("Yes"), m.styles.Button.Render("No")
	if m.dialogYes {
		yes = m.styles.HighlightButton.Render("Yes")
	} else {
		no = m.styles.HighlightButton.Render("No")
	}
	b.WriteString(yes + "  " + no)

	return m.styles.Dialog.Render(b.String())
}
