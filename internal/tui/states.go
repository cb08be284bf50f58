package tui

const (
	backLabel   = "Back"
	nextLabel   = "Next"
	cancelLabel = "Cancel"
	exitLabel   = "Exit"
)

// Button is the state of one navigation button.
type Button struct {
	Label   string
	Visible bool
	Enabled bool
}

func shown(label string) Button {
	return Button{Label: label, Visible: true, Enabled: true}
}

func hidden(label string) Button {
	return Button{Label: label}
}
