package mission_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// stubMeta is a MetaMission with a fixed weight that builds bare missions
type stubMeta struct {
	env         *mission.Environment
	mtype       mission.Type
	probability float64
	calls       int
}

func (s *stubMeta) Type() mission.Type { return s.mtype }

func (s *stubMeta) Probability(person *worker.Person) float64 {
	s.calls++
	return s.probability
}

func (s *stubMeta) Construct(person *worker.Person) (*mission.Mission, error) {
	return mission.NewMission(s.env, mission.Config{Type: s.mtype, Starter: person, MinMembers: 1, Capacity: 4})
}

type recordingManagerListener struct {
	added   []int
	removed []int
}

func (l *recordingManagerListener) MissionAdded(m *mission.Mission)   { l.added = append(l.added, m.ID()) }
func (l *recordingManagerListener) MissionRemoved(m *mission.Mission) { l.removed = append(l.removed, m.ID()) }

func TestManager_MissionsDropsDoneMissionsLazily(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	mgr := mission.NewManager(w.env)
	listener := &recordingManagerListener{}
	mgr.AddListener(listener)
	first := w.newMission(t, mission.TypeConstruction, 1, 4)
	second := w.newMission(t, mission.TypeMining, 1, 4)
	mgr.AddMission(first)
	mgr.AddMission(second)

	// Act
	first.AbortByPlayer()
	live := mgr.Missions()

	// Assert
	assert.Equal(t, []*mission.Mission{second}, live)
	assert.Equal(t, []int{first.ID(), second.ID()}, listener.added)
	assert.Equal(t, []int{first.ID()}, listener.removed)
}

func TestManager_AddMissionIgnoresDuplicatesAndDoneMissions(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	mgr := mission.NewManager(w.env)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	done := w.newMission(t, mission.TypeConstruction, 1, 4)
	done.AbortByPlayer()

	// Act & Assert
	assert.True(t, mgr.AddMission(m))
	assert.False(t, mgr.AddMission(m))
	assert.False(t, mgr.AddMission(done))
	assert.False(t, mgr.AddMission(nil))
	assert.Len(t, mgr.Missions(), 1)
}

func TestManager_Lookups(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	mgr := mission.NewManager(w.env)
	trip, _ := w.newTrip(t)
	mgr.AddMission(trip)
	idle := w.addPerson(t, "Idle", worker.JobChemist)

	// Act & Assert
	assert.Same(t, trip, mgr.MissionFor(w.lead))
	assert.True(t, mgr.HasMission(w.lead))
	assert.False(t, mgr.HasMission(idle))
	assert.Same(t, trip, mgr.MissionForVehicle("Rover 1"))
	assert.Nil(t, mgr.MissionForVehicle("Rover 9"))
	assert.Len(t, mgr.MissionsForSettlement("Alpha Base"), 1)
	assert.Empty(t, mgr.MissionsForSettlement("Beta Outpost"))
	assert.Equal(t, 1, mgr.NumParticularMissions(mission.TypeTrade, "Alpha Base"))
	assert.Zero(t, mgr.NumParticularMissions(mission.TypeMining, "Alpha Base"))
	assert.Same(t, trip, mgr.Mission(trip.ID()))
}

func TestManager_NewMissionSelectsByWeight(t *testing.T) {
	tests := []struct {
		name string
		roll float64
		want mission.Type
	}{
		{"low roll picks the first kind", 0.1, mission.TypeConstruction},
		{"high roll picks the heavier kind", 0.5, mission.TypeMining},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange - weights 1 and 3, so the first kind covers [0, 1) of [0, 4)
			w := newTestWorld(t)
			w.env.Random = shared.NewFixedRandom(tt.roll)
			mgr := mission.NewManager(w.env,
				&stubMeta{env: w.env, mtype: mission.TypeConstruction, probability: 1},
				&stubMeta{env: w.env, mtype: mission.TypeMining, probability: 3},
			)

			// Act
			m, err := mgr.NewMission(w.lead)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Type())
			assert.Len(t, mgr.Missions(), 1)
		})
	}
}

func TestManager_NewMissionPanicsOnZeroProbability(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	mgr := mission.NewManager(w.env,
		&stubMeta{env: w.env, mtype: mission.TypeConstruction, probability: 0},
		&stubMeta{env: w.env, mtype: mission.TypeMining, probability: math.NaN()},
	)

	// Act & Assert
	assert.Zero(t, mgr.TotalMissionProbability(w.lead))
	assert.Panics(t, func() { _, _ = mgr.NewMission(w.lead) })
}

func TestManager_InvalidProbabilitiesCountAsZero(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	mgr := mission.NewManager(w.env,
		&stubMeta{env: w.env, mtype: mission.TypeConstruction, probability: math.Inf(1)},
		&stubMeta{env: w.env, mtype: mission.TypeMining, probability: -4},
		&stubMeta{env: w.env, mtype: mission.TypeTrade, probability: 2},
	)

	// Act
	total := mgr.TotalMissionProbability(w.lead)

	// Assert
	assert.Equal(t, 2.0, total)
}

func TestManager_ProbabilityCacheLastsOneInstant(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	meta := &stubMeta{env: w.env, mtype: mission.TypeConstruction, probability: 1}
	mgr := mission.NewManager(w.env, meta)
	other := w.addPerson(t, "Other", worker.JobEngineer)

	// Act
	mgr.TotalMissionProbability(w.lead)
	mgr.TotalMissionProbability(w.lead)
	sameInstant := meta.calls
	mgr.TotalMissionProbability(other)
	otherPerson := meta.calls
	w.clock.Advance(1)
	mgr.TotalMissionProbability(other)

	// Assert
	assert.Equal(t, 1, sameInstant)
	assert.Equal(t, 2, otherPerson)
	assert.Equal(t, 3, meta.calls)
}

func TestManager_StartMissionOfUnknownType(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	mgr := mission.NewManager(w.env)

	// Act
	_, err := mgr.StartMission(w.lead, mission.TypeMining)

	// Assert
	var validation *shared.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestManager_PlanReviewThroughRegistry(t *testing.T) {
	// Arrange
	w := newTestWorld(t)
	mgr := mission.NewManager(w.env)
	m := w.newMission(t, mission.TypeConstruction, 1, 4)
	m.StartReview()
	mgr.AddMission(m)
	reviewer := w.addPerson(t, "Reviewer", worker.JobEngineer)
	reviewer.SetRole(worker.RoleCommander)

	// Act
	pending := mgr.PendingMissions("Alpha Base")
	err := mgr.ScoreMissionPlan(m.ID(), reviewer, 90)
	missing := mgr.ApproveMissionPlan(999, "Commander", true)

	// Assert
	assert.Equal(t, []*mission.Mission{m}, pending)
	require.NoError(t, err)
	assert.Equal(t, 1, len(m.Plan().Reviews()))
	var notFound *shared.MissionNotFoundError
	assert.ErrorAs(t, missing, &notFound)
}

func TestManager_IsTheMembershipIndex(t *testing.T) {
	// Arrange - a member of a registered mission is not recruited again
	w := newTestWorld(t)
	mgr := mission.NewManager(w.env)
	busy := w.addPerson(t, "Busy", worker.JobTrader)
	first := w.newMission(t, mission.TypeConstruction, 1, 4)
	first.AddMember(busy)
	mgr.AddMission(first)
	busy.SetMissionID(worker.NoMission)

	second, err := mission.NewMission(w.env, mission.Config{Type: mission.TypeTrade, Starter: w.addPerson(t, "Starter", worker.JobPilot), MinMembers: 1, Capacity: 4})
	require.NoError(t, err)

	// Act
	second.RecruitMembersForMission(second.Starter())

	// Assert
	assert.False(t, second.HasMember(busy))
}
