package mission

import (
	"fmt"
	"math"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// PlanStatus is the verdict of a mission plan review
type PlanStatus string

const (
	PlanPending     PlanStatus = "PENDING"
	PlanApproved    PlanStatus = "APPROVED"
	PlanNotApproved PlanStatus = "NOT_APPROVED"
)

// Review is one reviewer's score of a plan
type Review struct {
	Reviewer string
	Role     worker.Role
	Score    float64
	Weight   float64
	At       shared.MarsTime
}

// Planning is the approval gate between REVIEWING and LOADING.
//
// Invariants:
// - the requester never reviews their own plan
// - a reviewer reviews at most once
// - the status leaves PENDING exactly once
type Planning struct {
	missionID       int
	requester       string
	status          PlanStatus
	weightedScore   float64
	totalWeight     float64
	percentComplete float64
	reviews         []Review
	requestedSol    int
	minReviewers    int
	passingScore    float64
	decidedBy       string
}

// NewPlanning opens a review for a mission
func NewPlanning(missionID int, requester string, requestedSol, population int, passingScore float64) *Planning {
	return &Planning{
		missionID:    missionID,
		requester:    requester,
		status:       PlanPending,
		requestedSol: requestedSol,
		minReviewers: MinimumReviewers(population),
		passingScore: passingScore,
	}
}

func (p *Planning) MissionID() int           { return p.missionID }
func (p *Planning) Requester() string        { return p.requester }
func (p *Planning) Status() PlanStatus       { return p.status }
func (p *Planning) PercentComplete() float64 { return p.percentComplete }
func (p *Planning) RequestedSol() int        { return p.requestedSol }
func (p *Planning) MinReviewers() int        { return p.minReviewers }
func (p *Planning) DecidedBy() string        { return p.decidedBy }

// Score returns the weighted total of all reviews
func (p *Planning) Score() float64 { return p.weightedScore }

// AverageScore is the weight-normalised score (0 before any review)
func (p *Planning) AverageScore() float64 {
	if p.totalWeight == 0 {
		return 0
	}
	return p.weightedScore / p.totalWeight
}

func (p *Planning) Reviews() []Review {
	out := make([]Review, len(p.reviews))
	copy(out, p.reviews)
	return out
}

// HasReviewed reports whether the reviewer already scored the plan
func (p *Planning) HasReviewed(reviewer string) bool {
	for _, r := range p.reviews {
		if r.Reviewer == reviewer {
			return true
		}
	}
	return false
}

// CanReview reports whether a reviewer is allowed to score this plan now
func (p *Planning) CanReview(reviewer string) bool {
	return p.status == PlanPending && reviewer != p.requester && !p.HasReviewed(reviewer)
}

// AddReview records a reviewer's score (0..100). The verdict is reached when the quorum is met
// or the review is complete.
func (p *Planning) AddReview(reviewer string, role worker.Role, score float64, at shared.MarsTime) error {
	if p.status != PlanPending {
		return shared.NewPlanReviewError(reviewer, fmt.Sprintf("plan for mission %d is already %s", p.missionID, p.status))
	}
	if reviewer == p.requester {
		return shared.NewPlanReviewError(reviewer, "cannot review own mission plan")
	}
	if p.HasReviewed(reviewer) {
		return shared.NewPlanReviewError(reviewer, "has already reviewed this plan")
	}
	if math.IsNaN(score) || score < 0 || score > 100 {
		return shared.NewPlanReviewError(reviewer, fmt.Sprintf("score %.1f out of range 0..100", score))
	}

	weight := RoleWeight(role)
	p.reviews = append(p.reviews, Review{Reviewer: reviewer, Role: role, Score: score, Weight: weight, At: at})
	p.weightedScore += weight * score
	p.totalWeight += weight
	p.percentComplete = math.Min(100, p.percentComplete+weight*10)

	if len(p.reviews) >= p.minReviewers || p.percentComplete >= 100 {
		if p.AverageScore() >= p.passingScore {
			p.status = PlanApproved
		} else {
			p.status = PlanNotApproved
		}
	}
	return nil
}

// Approve settles a pending plan in favour
func (p *Planning) Approve(by string) error {
	return p.decide(by, PlanApproved)
}

// Reject settles a pending plan against
func (p *Planning) Reject(by string) error {
	return p.decide(by, PlanNotApproved)
}

func (p *Planning) decide(by string, verdict PlanStatus) error {
	if p.status != PlanPending {
		return shared.NewPlanReviewError(by, fmt.Sprintf("plan for mission %d is already %s", p.missionID, p.status))
	}
	p.status = verdict
	p.decidedBy = by
	p.percentComplete = 100
	return nil
}

// RoleWeight returns how much a reviewer's role counts
func RoleWeight(role worker.Role) float64 {
	switch {
	case role == worker.RoleCommander:
		return 2.5
	case role == worker.RoleSubCommander || role == worker.RoleChiefOfMissionPlanning:
		return 2
	case role.IsChief() || role == worker.RoleMissionSpecialist:
		return 1.5
	default:
		return 1
	}
}

// MinimumReviewers is the review quorum for a settlement population
func MinimumReviewers(population int) int {
	switch {
	case population <= 1:
		return 0
	case population <= 4:
		return 1
	case population <= 8:
		return 2
	case population <= 16:
		return 3
	case population <= 32:
		return 4
	default:
		return 5
	}
}

// PlanData is the read model of a plan
type PlanData struct {
	Status          string   `json:"status"`
	Score           float64  `json:"score"`
	AverageScore    float64  `json:"average_score"`
	PercentComplete float64  `json:"percent_complete"`
	Reviewers       []string `json:"reviewers"`
	RequestedSol    int      `json:"requested_sol"`
	MinReviewers    int      `json:"min_reviewers"`
}

// ToData converts the plan to its read model
func (p *Planning) ToData() *PlanData {
	reviewers := make([]string, len(p.reviews))
	for i, r := range p.reviews {
		reviewers[i] = r.Reviewer
	}
	return &PlanData{
		Status:          string(p.status),
		Score:           p.weightedScore,
		AverageScore:    p.AverageScore(),
		PercentComplete: p.percentComplete,
		Reviewers:       reviewers,
		RequestedSol:    p.requestedSol,
		MinReviewers:    p.minReviewers,
	}
}
