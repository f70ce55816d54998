package steps

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cucumber/godog"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

type lifecycleStateMachineContext struct {
	stateMachine   *shared.LifecycleStateMachine
	clock          *shared.MockClock
	operationError error
}

func (lc *lifecycleStateMachineContext) reset() {
	lc.stateMachine = nil
	lc.clock = shared.NewMockClock(shared.NewMarsTime(0))
	lc.operationError = nil
}

// Given steps

func (lc *lifecycleStateMachineContext) theSimulationClockReads(millisols float64) error {
	lc.clock.SetTime(shared.NewMarsTime(millisols))
	return nil
}

func (lc *lifecycleStateMachineContext) aMissionLifecycleFiledAt(millisols float64) error {
	lc.clock.SetTime(shared.NewMarsTime(millisols))
	lc.stateMachine = shared.NewLifecycleStateMachine(lc.clock)
	return nil
}

func (lc *lifecycleStateMachineContext) millisolsHavePassed(millisols float64) error {
	lc.clock.Advance(millisols)
	return nil
}

// When steps

func (lc *lifecycleStateMachineContext) aMissionLifecycleIsFiled() error {
	lc.stateMachine = shared.NewLifecycleStateMachine(lc.clock)
	return nil
}

func (lc *lifecycleStateMachineContext) theMissionEmbarks() error {
	lc.operationError = lc.stateMachine.Embark()
	return nil
}

func (lc *lifecycleStateMachineContext) theMissionIsAccomplished() error {
	lc.operationError = lc.stateMachine.Accomplish()
	return nil
}

func (lc *lifecycleStateMachineContext) theMissionIsAborted() error {
	lc.operationError = lc.stateMachine.Abort()
	return nil
}

// Then steps

func (lc *lifecycleStateMachineContext) theLifecycleStatusShouldBe(expected string) error {
	if got := string(lc.stateMachine.Status()); got != expected {
		return fmt.Errorf("expected status %s, got %s", expected, got)
	}
	return nil
}

func (lc *lifecycleStateMachineContext) theLifecycleShouldHaveBeenFiledAt(millisols float64) error {
	return sameTime("filed", lc.stateMachine.FiledAt(), millisols)
}

func (lc *lifecycleStateMachineContext) theLifecycleShouldHaveEmbarkedAt(millisols float64) error {
	if lc.stateMachine.EmbarkedAt() == nil {
		return fmt.Errorf("expected embark time to be set")
	}
	return sameTime("embarked", *lc.stateMachine.EmbarkedAt(), millisols)
}

func (lc *lifecycleStateMachineContext) theLifecycleShouldBeFinished() error {
	if !lc.stateMachine.IsFinished() {
		return fmt.Errorf("expected lifecycle to be finished, status is %s", lc.stateMachine.Status())
	}
	if lc.stateMachine.CompletedAt() == nil {
		return fmt.Errorf("expected completion time to be set")
	}
	return nil
}

func (lc *lifecycleStateMachineContext) theLifecycleShouldNotBeFinished() error {
	if lc.stateMachine.IsFinished() {
		return fmt.Errorf("expected lifecycle not to be finished, status is %s", lc.stateMachine.Status())
	}
	return nil
}

func (lc *lifecycleStateMachineContext) theLifecycleDurationShouldBe(millisols float64) error {
	if got := lc.stateMachine.Duration(); math.Abs(got-millisols) > 1e-6 {
		return fmt.Errorf("expected duration %.1f, got %.1f", millisols, got)
	}
	return nil
}

func (lc *lifecycleStateMachineContext) theOperationShouldFailWith(message string) error {
	if lc.operationError == nil {
		return fmt.Errorf("expected error containing %q, got none", message)
	}
	if !strings.Contains(lc.operationError.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, lc.operationError.Error())
	}
	return nil
}

func sameTime(what string, got shared.MarsTime, millisols float64) error {
	if math.Abs(got.Total()-millisols) > 1e-6 {
		return fmt.Errorf("expected %s at %.1f millisols, got %.1f", what, millisols, got.Total())
	}
	return nil
}

// InitializeLifecycleStateMachineScenario registers the mission lifecycle steps
func InitializeLifecycleStateMachineScenario(ctx *godog.ScenarioContext) {
	lc := &lifecycleStateMachineContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		lc.reset()
		return c, nil
	})

	ctx.Step(`^the simulation clock reads (\d+) millisols$`, lc.theSimulationClockReads)
	ctx.Step(`^a mission lifecycle filed at (\d+) millisols$`, lc.aMissionLifecycleFiledAt)
	ctx.Step(`^(\d+) millisols have passed$`, lc.millisolsHavePassed)

	ctx.Step(`^a mission lifecycle is filed$`, lc.aMissionLifecycleIsFiled)
	ctx.Step(`^the mission embarks$`, lc.theMissionEmbarks)
	ctx.Step(`^the mission is accomplished$`, lc.theMissionIsAccomplished)
	ctx.Step(`^the mission is aborted$`, lc.theMissionIsAborted)

	ctx.Step(`^the lifecycle status should be "([^"]*)"$`, lc.theLifecycleStatusShouldBe)
	ctx.Step(`^the lifecycle should have been filed at (\d+) millisols$`, lc.theLifecycleShouldHaveBeenFiledAt)
	ctx.Step(`^the lifecycle should have embarked at (\d+) millisols$`, lc.theLifecycleShouldHaveEmbarkedAt)
	ctx.Step(`^the lifecycle should be finished$`, lc.theLifecycleShouldBeFinished)
	ctx.Step(`^the lifecycle should not be finished$`, lc.theLifecycleShouldNotBeFinished)
	ctx.Step(`^the lifecycle duration should be (\d+) millisols$`, lc.theLifecycleDurationShouldBe)
	ctx.Step(`^the operation should fail with "([^"]*)"$`, lc.theOperationShouldFailWith)
}
