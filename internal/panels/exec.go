package panels

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/installer"
	"github.com/rauenzi/bbdinstall/internal/theme"
)

const maxLogLines = 50

type runState int

const (
	runIdle runState = iota
	runActive
	runSucceeded
	runFailed
)

type execProgressMsg struct {
	id  ID
	run int
	msg installer.ProgressMsg
}

func (m execProgressMsg) Target() ID { return m.id }

type execDoneMsg struct {
	id  ID
	run int
}

func (m execDoneMsg) Target() ID { return m.id }

// execPanel runs one action with the executor and shows its progress. It is
// terminal: Next is None.
type execPanel struct {
	id        ID
	title     string
	previous  ID
	styles    theme.Styles
	selection *Selection
	runner    installer.Runner

	spinner  spinner.Model
	progress progress.Model
	state    runState
	run      int
	current  installer.ProgressMsg
	logs     []string
	err      error
	ch       chan installer.ProgressMsg
}

func newExecPanel(id ID, title string, previous ID, deps Deps) *execPanel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = deps.Styles.SpinnerStyle

	return &execPanel{
		id:        id,
		title:     title,
		previous:  previous,
		styles:    deps.Styles,
		selection: deps.Selection,
		runner:    deps.Runner,
		spinner:   s,
		progress:  deps.Styles.NewThemedProgress(50),
	}
}

func (p *execPanel) ID() ID        { return p.id }
func (p *execPanel) Title() string { return p.title }
func (p *execPanel) Next() ID      { return None }
func (p *execPanel) Previous() ID  { return p.previous }

// OnShow starts a fresh run every time the panel is shown.
func (p *execPanel) OnShow() tea.Cmd {
	p.run++
	p.state = runActive
	p.current = installer.ProgressMsg{Step: "Starting..."}
	p.logs = nil
	p.err = nil

	if p.runner == nil {
		p.state = runFailed
		p.err = fmt.Errorf("no executor configured")
		return p.failed()
	}

	p.ch = make(chan installer.ProgressMsg)
	return tea.Batch(p.spinner.Tick, p.start(), p.listen())
}

func (p *execPanel) start() tea.Cmd {
	ch := p.ch
	plan := p.selection.Plan()
	runner := p.runner
	return func() tea.Msg {
		_ = runner.Run(context.Background(), plan, ch)
		close(ch)
		return nil
	}
}

func (p *execPanel) listen() tea.Cmd {
	ch := p.ch
	id := p.id
	run := p.run
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return execDoneMsg{id: id, run: run}
		}
		return execProgressMsg{id: id, run: run, msg: msg}
	}
}

func (p *execPanel) failed() tea.Cmd {
	id := p.id
	err := p.err
	return func() tea.Msg {
		return FailedMsg{ID: id, Err: err}
	}
}

func (p *execPanel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 10 && msg.Width-10 < 50 {
			p.progress.Width = msg.Width - 10
		}
		return nil

	case spinner.TickMsg:
		if p.state != runActive {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case execProgressMsg:
		if msg.run != p.run {
			return nil
		}
		p.current = msg.msg
		if msg.msg.LogOutput != "" {
			p.logs = append(p.logs, msg.msg.LogOutput)
			if len(p.logs) > maxLogLines {
				p.logs = p.logs[len(p.logs)-maxLogLines:]
			}
		}
		if msg.msg.IsComplete {
			if msg.msg.Error != nil {
				p.state = runFailed
				p.err = msg.msg.Error
				return tea.Batch(p.failed(), p.listen())
			}
			p.state = runSucceeded
		}
		return p.listen()

	case execDoneMsg:
		if msg.run == p.run && p.state == runActive {
			p.state = runFailed
			p.err = fmt.Errorf("%s ended without reporting completion", p.selection.Action)
			return p.failed()
		}
	}
	return nil
}

func (p *execPanel) View() string {
	var b strings.Builder

	switch p.state {
	case runActive:
		b.WriteString(fmt.Sprintf("%s %s", p.spinner.View(), p.styles.Normal.Render(p.current.Step)))
		b.WriteString("\n\n")
		b.WriteString(p.progress.ViewAs(p.current.Progress))
		b.WriteString("\n")
	case runSucceeded:
		b.WriteString(p.styles.Success.Render(fmt.Sprintf("✓ %s complete!", p.selection.Action)))
		b.WriteString("\n\n")
		b.WriteString(p.styles.Normal.Render("Restart Discord to apply the changes."))
		b.WriteString("\n")
	case runFailed:
		msg := "unknown error"
		if p.err != nil {
			msg = p.err.Error()
		}
		b.WriteString(p.styles.Error.Render(fmt.Sprintf("✗ %s failed: %s", p.selection.Action, msg)))
		b.WriteString("\n\n")
		b.WriteString(p.styles.Subtle.Render("Go back to change your options, or exit."))
		b.WriteString("\n")
	}

	if len(p.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(p.styles.Subtle.Render("Output:"))
		b.WriteString("\n")

		maxLines := 8
		if p.state == runFailed {
			maxLines = 15
		}
		startIdx := 0
		if len(p.logs) > maxLines {
			startIdx = len(p.logs) - maxLines
		}
		for _, line := range p.logs[startIdx:] {
			b.WriteString(p.styles.Subtle.Render("  " + line))
			b.WriteString("\n")
		}
	}

	return b.String()
}
