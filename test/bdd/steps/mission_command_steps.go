package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mediator"
	missionApp "github.com/mars-sim/mars-sim-sub009/internal/application/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mission/commands"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mission/queries"
	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/test/helpers"
)

type missionCommandContext struct {
	world     *simulation.World
	med       mediator.Mediator
	recorder  *mission.MemoryRecorder
	snapshots *persistence.GormMissionSnapshotRepository
	events    *persistence.GormHistoricalEventRepository
	ticks     *simulation.TickService

	result *commands.MissionResult
	err    error
}

func (mc *missionCommandContext) reset() {
	*mc = missionCommandContext{}
}

// Given steps

func (mc *missionCommandContext) startColony(reviewPlans bool) error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	mc.recorder = mission.NewMemoryRecorder()
	mc.snapshots = persistence.NewGormMissionSnapshotRepository(helpers.SharedTestDB)
	mc.events = persistence.NewGormHistoricalEventRepository(helpers.SharedTestDB)

	world, err := helpers.BuildTestWorld(reviewPlans, mission.FanOutRecorder{
		mc.recorder,
		persistence.NewEventSink(mc.events, nil),
	})
	if err != nil {
		return err
	}
	mc.world = world

	mc.med = mediator.NewMediator()
	if err := missionApp.RegisterHandlers(mc.med, world, mc.snapshots, mc.events); err != nil {
		return err
	}
	mc.ticks = simulation.NewTickService(world, simulation.TickConfig{MillisolsPerTick: 10}, mc.snapshots)
	return nil
}

func (mc *missionCommandContext) theTestColonyIsRunning() error {
	return mc.startColony(false)
}

func (mc *missionCommandContext) theTestColonyIsRunningWithPlanReview() error {
	return mc.startColony(true)
}

func (mc *missionCommandContext) personHasStartedAMission(person, kind string) error {
	if err := mc.personStartsAMission(person, kind); err != nil {
		return err
	}
	return mc.err
}

// When steps

func (mc *missionCommandContext) send(request mediator.Request) {
	mc.result = nil
	resp, err := mc.med.Send(context.Background(), request)
	mc.err = err
	if err == nil {
		mc.result, _ = resp.(*commands.MissionResult)
	}
}

func (mc *missionCommandContext) personStartsAMission(person, kind string) error {
	mc.send(&commands.StartMissionCommand{Person: person, Type: kind})
	return nil
}

func (mc *missionCommandContext) personStartsAnyMission(person string) error {
	return mc.personStartsAMission(person, "")
}

func (mc *missionCommandContext) thePlayerAbortsTheMission() error {
	if mc.result == nil {
		return fmt.Errorf("no mission has been started")
	}
	mc.send(&commands.AbortMissionCommand{MissionID: mc.result.MissionID})
	return nil
}

func (mc *missionCommandContext) thePlayerAbortsMission(id int) error {
	mc.send(&commands.AbortMissionCommand{MissionID: id})
	return nil
}

func (mc *missionCommandContext) reviewerScoresTheMissionPlan(reviewer string, score float64) error {
	if mc.result == nil {
		return fmt.Errorf("no mission has been started")
	}
	mc.send(&commands.ScoreMissionPlanCommand{MissionID: mc.result.MissionID, Reviewer: reviewer, Score: score})
	return nil
}

func (mc *missionCommandContext) theColonyRunsForTicks(n int) error {
	for i := 0; i < n; i++ {
		if _, err := mc.ticks.Pulse(context.Background()); err != nil {
			return err
		}
	}
	return nil
}

// Then steps

func (mc *missionCommandContext) theCommandShouldSucceed() error {
	if mc.err != nil {
		return fmt.Errorf("expected success, got %v", mc.err)
	}
	if mc.result == nil {
		return fmt.Errorf("expected a mission result")
	}
	return nil
}

func (mc *missionCommandContext) theCommandShouldFailWithAValidationErrorMentioning(text string) error {
	var verr *shared.ValidationError
	if !errors.As(mc.err, &verr) {
		return fmt.Errorf("expected ValidationError, got %v", mc.err)
	}
	if !strings.Contains(verr.Error(), text) {
		return fmt.Errorf("expected %q in %q", text, verr.Error())
	}
	return nil
}

func (mc *missionCommandContext) theCommandShouldFailWithANotFoundError() error {
	var nf *shared.MissionNotFoundError
	if !errors.As(mc.err, &nf) {
		return fmt.Errorf("expected MissionNotFoundError, got %v", mc.err)
	}
	return nil
}

func (mc *missionCommandContext) theCommandShouldFailWithAPlanReviewError() error {
	var pr *shared.PlanReviewError
	if !errors.As(mc.err, &pr) {
		return fmt.Errorf("expected PlanReviewError, got %v", mc.err)
	}
	return nil
}

func (mc *missionCommandContext) theMissionShouldBeOfType(kind string) error {
	if mc.result.Type != kind {
		return fmt.Errorf("expected type %s, got %s", kind, mc.result.Type)
	}
	return nil
}

func (mc *missionCommandContext) theMissionShouldCarryTheStatus(status string) error {
	for _, s := range mc.result.Statuses {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("expected status %s in %v", status, mc.result.Statuses)
}

func (mc *missionCommandContext) theMissionPlanStatusShouldBe(status string) error {
	if mc.result.PlanStatus != status {
		return fmt.Errorf("expected plan status %s, got %q", status, mc.result.PlanStatus)
	}
	return nil
}

func (mc *missionCommandContext) aHistoricalEventShouldHaveBeenRecorded(eventType string) error {
	if len(mc.recorder.OfType(mission.HistoricalEventType(eventType))) == 0 {
		return fmt.Errorf("no %s event recorded", eventType)
	}
	return nil
}

func (mc *missionCommandContext) settlementShouldListLiveMissions(settlement string, n int) error {
	resp, err := mc.med.Send(context.Background(), &queries.ListMissionsQuery{Settlement: settlement})
	if err != nil {
		return err
	}
	if got := len(resp.(*queries.ListMissionsResponse).Missions); got != n {
		return fmt.Errorf("expected %d live missions at %s, got %d", n, settlement, got)
	}
	return nil
}

func (mc *missionCommandContext) personShouldBeOnAMission(person string) error {
	var on bool
	mc.world.Do(func() {
		on = mc.world.Manager().HasMission(mc.world.Person(person))
	})
	if !on {
		return fmt.Errorf("%s is not on a mission", person)
	}
	return nil
}

func (mc *missionCommandContext) aSnapshotOfTheMissionShouldBeStored() error {
	data, err := mc.snapshots.FindByID(context.Background(), mc.result.MissionID)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("no snapshot stored for mission %d", mc.result.MissionID)
	}
	return nil
}

func (mc *missionCommandContext) lookingUpTheMissionShouldShowItsHistoricalEvents() error {
	resp, err := mc.med.Send(context.Background(), &queries.GetMissionQuery{MissionID: mc.result.MissionID})
	if err != nil {
		return err
	}
	view := resp.(*queries.MissionView)
	if len(view.Events) == 0 {
		return fmt.Errorf("mission %d has no stored historical events", mc.result.MissionID)
	}
	for _, event := range view.Events {
		if event.Type == mission.HistoricalMissionStart {
			return nil
		}
	}
	return fmt.Errorf("mission %d history has no %s event", mc.result.MissionID, mission.HistoricalMissionStart)
}

func (mc *missionCommandContext) listingEveryMissionIncludingEndedOnesShouldIncludeTheMission(settlement string) error {
	resp, err := mc.med.Send(context.Background(), &queries.ListMissionsQuery{Settlement: settlement, IncludeDone: true})
	if err != nil {
		return err
	}
	for _, data := range resp.(*queries.ListMissionsResponse).Missions {
		if data.ID == mc.result.MissionID {
			if !data.Done {
				return fmt.Errorf("mission %d is listed but not done", data.ID)
			}
			return nil
		}
	}
	return fmt.Errorf("mission %d not listed", mc.result.MissionID)
}

// InitializeMissionCommandScenario registers the mission command steps
func InitializeMissionCommandScenario(ctx *godog.ScenarioContext) {
	mc := &missionCommandContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		mc.reset()
		return c, nil
	})

	ctx.Step(`^the test colony is running$`, mc.theTestColonyIsRunning)
	ctx.Step(`^the test colony is running with plan review$`, mc.theTestColonyIsRunningWithPlanReview)
	ctx.Step(`^"([^"]*)" has started a "([^"]*)" mission$`, mc.personHasStartedAMission)

	ctx.Step(`^"([^"]*)" starts a "([^"]*)" mission$`, mc.personStartsAMission)
	ctx.Step(`^"([^"]*)" starts a mission$`, mc.personStartsAnyMission)
	ctx.Step(`^the player aborts the mission$`, mc.thePlayerAbortsTheMission)
	ctx.Step(`^the player aborts mission (\d+)$`, mc.thePlayerAbortsMission)
	ctx.Step(`^"([^"]*)" scores the mission plan (\d+)$`, mc.reviewerScoresTheMissionPlan)
	ctx.Step(`^the colony runs for (\d+) ticks$`, mc.theColonyRunsForTicks)

	ctx.Step(`^the command should succeed$`, mc.theCommandShouldSucceed)
	ctx.Step(`^the command should fail with a validation error mentioning "([^"]*)"$`, mc.theCommandShouldFailWithAValidationErrorMentioning)
	ctx.Step(`^the command should fail with a not found error$`, mc.theCommandShouldFailWithANotFoundError)
	ctx.Step(`^the command should fail with a plan review error$`, mc.theCommandShouldFailWithAPlanReviewError)
	ctx.Step(`^the mission should be of type "([^"]*)"$`, mc.theMissionShouldBeOfType)
	ctx.Step(`^the mission should carry the status "([^"]*)"$`, mc.theMissionShouldCarryTheStatus)
	ctx.Step(`^the mission plan status should be "([^"]*)"$`, mc.theMissionPlanStatusShouldBe)
	ctx.Step(`^a "([^"]*)" historical event should have been recorded$`, mc.aHistoricalEventShouldHaveBeenRecorded)
	ctx.Step(`^"([^"]*)" should list (\d+) live missions?$`, mc.settlementShouldListLiveMissions)
	ctx.Step(`^"([^"]*)" should be on a mission$`, mc.personShouldBeOnAMission)
	ctx.Step(`^a snapshot of the mission should be stored$`, mc.aSnapshotOfTheMissionShouldBeStored)
	ctx.Step(`^looking up the mission should show its historical events$`, mc.lookingUpTheMissionShouldShowItsHistoricalEvents)
	ctx.Step(`^listing every mission of "([^"]*)" including ended ones should include the mission$`, mc.listingEveryMissionIncludingEndedOnesShouldIncludeTheMission)
}
