package theme

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

type AppTheme struct {
	Primary    string
	Secondary  string
	Accent     string
	Text       string
	Subtle     string
	Error      string
	Warning    string
	Success    string
	Background string
	Surface    string
}

// BlurpleTheme follows Discord's palette.
func BlurpleTheme() AppTheme {
	return AppTheme{
		Primary:    "#7289da",
		Secondary:  "#2c2f33",
		Accent:     "#99aab5",
		Text:       "#ffffff",
		Subtle:     "#b9bbbe",
		Error:      "#f04747",
		Warning:    "#faa61a",
		Success:    "#43b581",
		Background: "#23272a",
		Surface:    "#2c2f33",
	}
}

func NewStyles(theme AppTheme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)).
			Bold(true).
			MarginLeft(1).
			MarginBottom(1),

		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Text)),

		Bold: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Text)).
			Bold(true),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Error)),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Warning)),

		Key: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)).
			Bold(true),

		SpinnerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Success)).
			Bold(true),

		HighlightButton: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Text)).
			Background(lipgloss.Color(theme.Primary)).
			Padding(0, 2).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Text)).
			Background(lipgloss.Color(theme.Surface)).
			Padding(0, 2),

		DisabledButton: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)).
			Padding(0, 2).
			Faint(true),

		SelectedOption: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(theme.Warning)).
			Padding(1, 3),
	}
}

type Styles struct {
	Title           lipgloss.Style
	Normal          lipgloss.Style
	Bold            lipgloss.Style
	Subtle          lipgloss.Style
	Warning         lipgloss.Style
	Error           lipgloss.Style
	Key             lipgloss.Style
	SpinnerStyle    lipgloss.Style
	Success         lipgloss.Style
	HighlightButton lipgloss.Style
	Button          lipgloss.Style
	DisabledButton  lipgloss.Style
	SelectedOption  lipgloss.Style
	Dialog          lipgloss.Style
}

func (s Styles) NewThemedProgress(width int) progress.Model {
	theme := BlurpleTheme()
	prog := progress.New(
		progress.WithGradient(theme.Secondary, theme.Primary),
	)

	prog.Width = width
	prog.ShowPercentage = true
	prog.PercentFormat = "%.0f%%"
	prog.PercentageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Text)).
		Bold(true)

	return prog
}
