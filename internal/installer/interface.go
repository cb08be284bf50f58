package installer

import (
	"context"
	"fmt"

	"github.com/rauenzi/bbdinstall/internal/discord"
)

type Action int

const (
	ActionInstall Action = iota
	ActionRepair
	ActionUninstall
)

func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "Install"
	case ActionRepair:
		return "Repair"
	case ActionUninstall:
		return "Uninstall"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

type Phase int

const (
	PhaseLocate Phase = iota
	PhaseDownload
	PhaseRemove
	PhaseExtract
	PhaseData
	PhaseComplete
)

type ProgressMsg struct {
	Phase      Phase
	Progress   float64
	Step       string
	IsComplete bool
	LogOutput  string
	Error      error
}

// Plan is what the configuration panels collected for one run.
type Plan struct {
	Action        Action
	Channels      []discord.Channel
	ResetSettings bool
	RemoveData    bool
}

type Runner interface {
	Run(ctx context.Context, plan Plan, progressChan chan<- ProgressMsg) error
}
