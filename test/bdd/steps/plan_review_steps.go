package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cucumber/godog"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

const defaultPassingScore = 50

type planReviewContext struct {
	plan      *mission.Planning
	reviewErr error
}

func (pc *planReviewContext) reset() {
	pc.plan = nil
	pc.reviewErr = nil
}

func (pc *planReviewContext) aMissionPlanRequestedByAtASettlementOf(requester string, population int) error {
	pc.plan = mission.NewPlanning(1, requester, 1, population, defaultPassingScore)
	return nil
}

func (pc *planReviewContext) reviewerWithRoleScoresThePlan(reviewer, role string, score float64) error {
	pc.reviewErr = pc.plan.AddReview(reviewer, worker.Role(role), score, shared.NewMarsTime(1000))
	return nil
}

func (pc *planReviewContext) reviewerApprovesThePlan(reviewer string) error {
	pc.reviewErr = pc.plan.Approve(reviewer)
	return nil
}

func (pc *planReviewContext) reviewerRejectsThePlan(reviewer string) error {
	pc.reviewErr = pc.plan.Reject(reviewer)
	return nil
}

func (pc *planReviewContext) thePlanShouldNeedReviewers(expected int) error {
	if got := pc.plan.MinReviewers(); got != expected {
		return fmt.Errorf("expected %d reviewers, got %d", expected, got)
	}
	return nil
}

func (pc *planReviewContext) thePlanStatusShouldBe(expected string) error {
	if got := string(pc.plan.Status()); got != expected {
		return fmt.Errorf("expected plan status %s, got %s", expected, got)
	}
	return nil
}

func (pc *planReviewContext) thePlanAverageScoreShouldBe(expected float64) error {
	if got := pc.plan.AverageScore(); math.Abs(got-expected) > 1e-6 {
		return fmt.Errorf("expected average score %.2f, got %.2f", expected, got)
	}
	return nil
}

func (pc *planReviewContext) theReviewShouldBeRefusedWith(message string) error {
	if pc.reviewErr == nil {
		return fmt.Errorf("expected the review to be refused")
	}
	var reviewErr *shared.PlanReviewError
	if !errors.As(pc.reviewErr, &reviewErr) {
		return fmt.Errorf("expected PlanReviewError, got %T", pc.reviewErr)
	}
	if !strings.Contains(pc.reviewErr.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, pc.reviewErr.Error())
	}
	return nil
}

// InitializePlanReviewScenario registers the plan review steps
func InitializePlanReviewScenario(ctx *godog.ScenarioContext) {
	pc := &planReviewContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		pc.reset()
		return c, nil
	})

	ctx.Step(`^a mission plan requested by "([^"]*)" at a settlement of (\d+)$`, pc.aMissionPlanRequestedByAtASettlementOf)
	ctx.Step(`^"([^"]*)" with role "([^"]*)" scores the plan (\d+)$`, pc.reviewerWithRoleScoresThePlan)
	ctx.Step(`^"([^"]*)" approves the plan$`, pc.reviewerApprovesThePlan)
	ctx.Step(`^"([^"]*)" rejects the plan$`, pc.reviewerRejectsThePlan)

	ctx.Step(`^the plan should need (\d+) reviewers$`, pc.thePlanShouldNeedReviewers)
	ctx.Step(`^the plan status should be "([^"]*)"$`, pc.thePlanStatusShouldBe)
	ctx.Step(`^the plan average score should be (\d+)$`, pc.thePlanAverageScoreShouldBe)
	ctx.Step(`^the review should be refused with "([^"]*)"$`, pc.theReviewShouldBeRefusedWith)
}
