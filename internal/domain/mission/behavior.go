package mission

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// Behavior is the capability set a mission kind plugs into the generic engine
type Behavior interface {
	// DetermineNewPhase picks the next phase after the current one ended.
	// Returns false when no transition applied.
	DetermineNewPhase() bool

	// PerformPhase runs the body of the current phase for one member
	PerformPhase(member worker.Worker)

	// IsCapableOfMission reports whether a worker could take part at all
	IsCapableOfMission(member worker.Worker) bool

	// ResourcesNeededForRemainingMission estimates what the rest of the mission consumes
	ResourcesNeededForRemainingMission(useMargin bool) *resource.Manifest

	// BeforeEnd runs before the mission finishes. Returning false defers the end.
	BeforeEnd(status Status) bool

	// PrepareAbort runs once when a new abort reason arrives, before the mission ends
	PrepareAbort(status Status, event HistoricalEventType)

	// CanParticipate reports whether a member acts this pulse
	CanParticipate(member worker.Worker) bool
}

// BaseBehavior provides the default capability set for missions without travel
type BaseBehavior struct {
	M *Mission
}

func (b *BaseBehavior) DetermineNewPhase() bool { return false }

func (b *BaseBehavior) PerformPhase(member worker.Worker) {}

func (b *BaseBehavior) IsCapableOfMission(member worker.Worker) bool {
	return member.CurrentSettlement() == b.M.StartingSettlement()
}

func (b *BaseBehavior) ResourcesNeededForRemainingMission(useMargin bool) *resource.Manifest {
	return resource.NewManifest()
}

func (b *BaseBehavior) BeforeEnd(status Status) bool { return true }

func (b *BaseBehavior) PrepareAbort(status Status, event HistoricalEventType) {}

// CanParticipate lets only the lead act while the plan is under review
func (b *BaseBehavior) CanParticipate(member worker.Worker) bool {
	if b.M.Phase() == PhaseReviewing {
		return b.M.IsStarter(member)
	}
	return true
}
