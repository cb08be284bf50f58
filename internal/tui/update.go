package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/log"
	"github.com/rauenzi/bbdinstall/internal/panels"
	"github.com/rauenzi/bbdinstall/internal/product"
	"github.com/rauenzi/bbdinstall/internal/update"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.registry.Broadcast(msg)

	case update.AvailableMsg:
		result := msg.Result
		m.notice = &result
		m.dialogYes = true
		return m, nil

	case panels.FailedMsg:
		if msg.ID == m.current {
			log.Warnf("Panel %s reported failure: %v", msg.ID, msg.Err)
			m.Fail()
		}
		return m, nil

	case panels.Targeted:
		p, err := m.registry.Get(msg.Target())
		if err != nil {
			return m, nil
		}
		cmd := p.Update(msg)
		m.refreshGate()
		return m, cmd

	case tea.KeyMsg:
		if m.notice != nil {
			return m.updateNoticeDialog(msg)
		}
		return m.updateKeys(msg)
	}

	cmd := m.panel(m.current).Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, m.Cancel()
	case "ctrl+o":
		m.openURL(product.Homepage)
		return m, nil
	case "ctrl+d":
		m.openURL(product.DonateURL)
		return m, nil
	case "esc":
		return m, m.Back()
	case "enter":
		if m.next.Enabled {
			return m, m.Next()
		}
		if !m.next.Visible && m.cancel.Enabled && m.cancel.Label == exitLabel {
			return m, m.Cancel()
		}
		return m, nil
	}

	cmd := m.panel(m.current).Update(msg)
	m.refreshGate()
	return m, cmd
}

// updateNoticeDialog handles the modal update prompt. Both answers close the
// installer unless exitOnDecline is off.
func (m Model) updateNoticeDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, m.Cancel()
	case "left", "right", "tab", "shift+tab", "h", "l":
		m.dialogYes = !m.dialogYes
		return m, nil
	case "y":
		return m.acceptUpdate()
	case "n", "esc":
		return m.declineUpdate()
	case "enter":
		if m.dialogYes {
			return m.acceptUpdate()
		}
		return m.declineUpdate()
	}
	return m, nil
}

func (m Model) acceptUpdate() (tea.Model, tea.Cmd) {
	url := m.downloadURL(m.notice.Remote)
	log.Infof("Downloading installer %s", m.notice.Remote)
	m.openURL(url)
	return m, m.Cancel()
}

func (m Model) declineUpdate() (tea.Model, tea.Cmd) {
	if m.exitOnDecline {
		return m, m.Cancel()
	}
	m.notice = nil
	return m, nil
}
