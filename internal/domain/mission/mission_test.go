package mission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

func TestNewMission_ValidatesConfig(t *testing.T) {
	w := newTestWorld(t)

	tests := []struct {
		name string
		cfg  mission.Config
	}{
		{"missing type", mission.Config{Starter: w.lead, Capacity: 2}},
		{"missing starter", mission.Config{Type: mission.TypeMining, Capacity: 2}},
		{"capacity below minimum", mission.Config{Type: mission.TypeMining, Starter: w.lead, MinMembers: 3, Capacity: 2}},
		{"priority out of range", mission.Config{Type: mission.TypeMining, Starter: w.lead, Capacity: 2, Priority: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mission.NewMission(w.env, tt.cfg)

			var validation *shared.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
}

func TestNewMission_EnlistsStarter(t *testing.T) {
	// Arrange
	w := newTestWorld(t)

	// Act
	m := w.newMission(t, mission.TypeConstruction, 1, 4)

	// Assert
	assert.True(t, m.HasMember(w.lead))
	assert.Equal(t, m.ID(), w.lead.MissionID())
	assert.Equal(t, "Alpha Base", m.StartingSettlement())
	assert.Equal(t, 3, m.Priority())
	assert.Len(t, w.recorder.OfType(mission.HistoricalMissionStart), 1)
	assert.Len(t, w.recorder.OfType(mission.HistoricalMissionJoining), 1)
}

func TestMission_SetPhasePanicsOnUnregisteredPhase(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)

	// Act & Assert
	assert.Panics(t, func() {
		m.SetPhase(mission.PhaseLoading, "nowhere")
	})
}

func TestMission_SetPhaseDescribesSubject(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	phase := mission.NewPhase("SURVEYING", "Surveying {0}")
	m.AddPhase(phase)
	counter := newEventCounter(m)

	// Act
	m.SetPhase(phase, "the crater")

	// Assert
	assert.Equal(t, phase, m.Phase())
	assert.Equal(t, "Surveying the crater", m.PhaseDescription())
	assert.False(t, m.PhaseEnded())
	assert.Equal(t, 1, counter.counts[mission.EventPhase])
	last := m.MissionLog()[len(m.MissionLog())-1]
	assert.Equal(t, "Surveying the crater", last.Entry)
	assert.Equal(t, w.lead.Name(), last.EnteredBy)
}

func TestMission_AddMemberRespectsCapacityAndDuplicates(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 2)
	bob := w.addPerson(t, "Bob", worker.JobEngineer)
	cy := w.addPerson(t, "Cy", worker.JobEngineer)

	// Act
	addedBob := m.AddMember(bob)
	addedTwice := m.AddMember(bob)
	addedCy := m.AddMember(cy)

	// Assert
	assert.True(t, addedBob)
	assert.False(t, addedTwice)
	assert.False(t, addedCy)
	assert.Equal(t, 2, m.MemberCount())
	assert.Equal(t, worker.NoMission, cy.MissionID())
}

func TestMission_AddMembersSkipsRobotsUnlessAllowed(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	robot, err := worker.NewRobot("RB-1", w.home.Name())
	require.NoError(t, err)

	// Act
	skipped := m.AddMembers([]worker.Worker{robot}, false)
	added := m.AddMembers([]worker.Worker{robot}, true)

	// Assert
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 1, added)
}

func TestMission_RemovingLastMemberEndsMission(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)

	// Act
	m.RemoveMember(w.lead)

	// Assert
	assert.True(t, m.IsDone())
	assert.True(t, m.IsAborted())
	assert.True(t, m.HasStatus(mission.StatusNotEnoughMembers))
	assert.Equal(t, mission.PhaseAborted, m.Phase())
	assert.Equal(t, worker.NoMission, w.lead.MissionID())
}

func TestMission_EndMissionIsIdempotent(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	counter := newEventCounter(m)

	// Act
	m.EndMission(mission.Status{})
	m.EndMission(mission.StatusNotApproved)

	// Assert
	assert.True(t, m.IsDone())
	assert.Equal(t, 1, counter.counts[mission.EventEndMission])
	assert.False(t, m.HasStatus(mission.StatusNotApproved))
}

func TestMission_EndMissionAccomplishedRecordsExperience(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	bob := w.addPerson(t, "Bob", worker.JobEngineer)
	sick := w.addPerson(t, "Sick", worker.JobEngineer)
	sick.AddMedicalProblem(worker.MedicalProblem{Name: "fracture", Serious: true})
	m.AddMember(bob)
	m.AddMember(sick)

	// Act
	m.EndMission(mission.Status{})

	// Assert
	assert.True(t, m.HasStatus(mission.StatusAccomplished))
	assert.False(t, m.IsAborted())
	assert.Equal(t, mission.PhaseCompleted, m.Phase())
	lead, _ := w.lead.MissionExperience(string(mission.TypeConstruction))
	member, _ := bob.MissionExperience(string(mission.TypeConstruction))
	patient, _ := sick.MissionExperience(string(mission.TypeConstruction))
	assert.Equal(t, 6.0, lead)
	assert.Equal(t, 3.0, member)
	assert.Equal(t, 2.0, patient)
	assert.Zero(t, m.MemberCount())
	assert.NotNil(t, m.Lifecycle().CompletedAt())
}

func TestMission_AbortByPlayerEndsAborted(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)

	// Act
	m.AbortByPlayer()

	// Assert
	assert.True(t, m.IsDone())
	assert.True(t, m.IsAborted())
	assert.Equal(t, []mission.Status{mission.StatusAbortedByPlayer}, m.Statuses())
}

func TestMission_MedicalPredicates(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	bob := w.addPerson(t, "Bob", worker.JobEngineer)
	m.AddMember(bob)

	// Act
	bob.AddMedicalProblem(worker.MedicalProblem{Name: "radiation sickness", Serious: true})

	// Assert
	assert.True(t, m.HasDangerousMedicalProblems())
	assert.True(t, m.HasEmergency())
	assert.False(t, m.HasDangerousMedicalProblemsAllCrew())

	w.lead.AddMedicalProblem(worker.MedicalProblem{Name: "decompression", Serious: true})
	assert.True(t, m.HasEmergencyAllCrew())
}

func TestMissionQualification(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeTrade, 1, 4)
	trader := w.addPerson(t, "Trader", worker.JobTrader)
	botanist := w.addPerson(t, "Botanist", worker.JobBotanist)
	veteran := w.addPerson(t, "Veteran", worker.JobPilot)
	veteran.AddMissionExperience(string(mission.TypeTrade), 8)
	robot, err := worker.NewRobot("RB-1", w.home.Name())
	require.NoError(t, err)

	// Act & Assert
	assert.InDelta(t, 0.5, m.MissionQualification(trader), 1e-9)
	assert.InDelta(t, 0.25, m.MissionQualification(botanist), 1e-9)
	assert.InDelta(t, 0.8, m.MissionQualification(veteran), 1e-9)
	assert.Zero(t, m.MissionQualification(robot))
}

func TestMaxRecruits(t *testing.T) {
	tests := []struct {
		population int
		want       int
	}{
		{0, 1}, {3, 1}, {4, 2}, {6, 2}, {9, 3}, {13, 4}, {17, 5}, {22, 6}, {28, 7}, {29, 8}, {500, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mission.MaxRecruits(tt.population), "population %d", tt.population)
	}
}

func TestRecruitMembersForMission_PicksBestCandidatesUpToTier(t *testing.T) {
	// Arrange - population 10 allows 4 recruits, capacity leaves room for 3
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeTrade, 1, 4)
	trader := w.addPerson(t, "Trader", worker.JobTrader)
	pilot := w.addPerson(t, "Pilot", worker.JobPilot)
	botanist := w.addPerson(t, "Botanist", worker.JobBotanist)
	chemist := w.addPerson(t, "Chemist", worker.JobChemist)
	sick := w.addPerson(t, "Sick", worker.JobTrader)
	sick.AddMedicalProblem(worker.MedicalProblem{Name: "flu", Serious: true})
	w.lead.SetOpinionOf(chemist.Name(), 100)

	// Act
	m.RecruitMembersForMission(w.lead)

	// Assert
	assert.Equal(t, 4, m.MemberCount())
	assert.True(t, m.HasMember(trader))
	assert.True(t, m.HasMember(pilot))
	assert.True(t, m.HasMember(chemist))
	assert.False(t, m.HasMember(botanist))
	assert.False(t, m.HasMember(sick))
	assert.False(t, m.IsDone())
}

func TestRecruitMembersForMission_EndsWhenBelowMinimum(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeTrade, 3, 4)
	w.addPerson(t, "Only", worker.JobTrader)

	// Act
	m.RecruitMembersForMission(w.lead)

	// Assert
	assert.True(t, m.IsDone())
	assert.True(t, m.HasStatus(mission.StatusNotEnoughMembers))
}

func TestRecruitMembersForMission_CandidatesMayDecline(t *testing.T) {
	// Arrange - every roll lands at 99.9, above any acceptance chance below 100
	w := newTestWorld(t)
	w.env.Random = shared.NewFixedRandom(0.999)
	m := w.newMission(t, mission.TypeTrade, 1, 4)
	w.addPerson(t, "Trader", worker.JobTrader)

	// Act
	m.RecruitMembersForMission(w.lead)

	// Assert
	assert.Equal(t, 1, m.MemberCount())
	assert.False(t, m.IsDone())
}

func TestMission_ReviewApprovalCreatesDesignation(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	m.StartReview()
	require.Equal(t, mission.PlanPending, m.Plan().Status())
	require.NoError(t, m.Plan().Approve("Commander"))

	// Act
	m.PerformMission(w.lead)

	// Assert
	assert.True(t, m.PhaseEnded())
	assert.Equal(t, "C-002-AB-001", m.Designation())
	assert.True(t, w.lead.IsOnCall())
}

func TestMission_ReviewRejectionEndsMission(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	m.StartReview()
	require.NoError(t, m.Plan().Reject("Commander"))

	// Act
	m.PerformMission(w.lead)

	// Assert
	assert.True(t, m.IsDone())
	assert.True(t, m.HasStatus(mission.StatusNotApproved))
}

func TestMission_OnlyStarterActsDuringReview(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	bob := w.addPerson(t, "Bob", worker.JobEngineer)
	m.AddMember(bob)
	m.StartReview()

	// Act & Assert
	assert.False(t, m.PerformMission(bob))
	assert.True(t, m.PerformMission(w.lead))
}

func TestMission_ToDataCarriesState(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	m.StartReview()

	// Act
	data := m.ToData()

	// Assert
	assert.Equal(t, m.ID(), data.ID)
	assert.Equal(t, "CONSTRUCTION", data.Type)
	assert.Equal(t, "REVIEWING", data.Phase)
	assert.Equal(t, []string{"Ada Lovelace"}, data.Members)
	require.NotNil(t, data.Plan)
	assert.Equal(t, "PENDING", data.Plan.Status)
	assert.Equal(t, -1, data.NextNavpoint)
}
