package mission

import "strings"

// Phase is a step of a mission's state machine. Phases are comparable values.
// The description template may contain {0}, replaced by the phase subject.
type Phase struct {
	name     string
	template string
}

// NewPhase declares a phase
func NewPhase(name, template string) Phase {
	return Phase{name: name, template: template}
}

func (p Phase) Name() string { return p.name }

// IsZero reports an unset phase
func (p Phase) IsZero() bool { return p.name == "" }

// Describe renders the description for a subject such as a settlement or site name
func (p Phase) Describe(subject string) string {
	if p.template == "" {
		return p.name
	}
	return strings.ReplaceAll(p.template, "{0}", subject)
}

func (p Phase) String() string { return p.name }

// Engine phases
var (
	PhaseReviewing = NewPhase("REVIEWING", "Waiting for the mission plan to be reviewed")
	PhaseCompleted = NewPhase("COMPLETED", "Mission completed")
	PhaseAborted   = NewPhase("ABORTED", "Mission aborted")
)

// Vehicle phases
var (
	PhaseLoading      = NewPhase("LOADING", "Loading the vehicle at {0}")
	PhaseDeparting    = NewPhase("DEPARTING", "Departing from {0}")
	PhaseTravelling   = NewPhase("TRAVELLING", "Travelling to {0}")
	PhaseDisembarking = NewPhase("DISEMBARKING", "Disembarking at {0}")
)
