package worker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

func TestPerson_MissionExperienceAverage(t *testing.T) {
	// Arrange
	p, err := worker.NewPerson("Ada", "Alpha Base", worker.JobTrader, worker.RoleResident)
	require.NoError(t, err)

	// Act
	_, before := p.MissionExperience("TRADE")
	p.AddMissionExperience("TRADE", 6)
	p.AddMissionExperience("TRADE", 3)
	avg, after := p.MissionExperience("TRADE")

	// Assert
	assert.False(t, before)
	assert.True(t, after)
	assert.Equal(t, 4.5, avg)
}

func TestPerson_MedicalPredicates(t *testing.T) {
	// Arrange
	p, err := worker.NewPerson("Ben", "Alpha Base", worker.JobPilot, worker.RoleResident)
	require.NoError(t, err)

	// Act & Assert
	assert.False(t, p.HasSeriousMedicalProblems())
	assert.False(t, p.HasAnyPotentialMedicalProblems())

	p.SetFitness(1)
	assert.True(t, p.HasAnyPotentialMedicalProblems())

	p.AddMedicalProblem(worker.MedicalProblem{Name: "appendicitis", Serious: true})
	assert.True(t, p.HasSeriousMedicalProblems())
}

func TestPerson_SetOnCallReturnsPrevious(t *testing.T) {
	// Arrange
	p, err := worker.NewPerson("Cy", "Alpha Base", worker.JobPilot, worker.RoleResident)
	require.NoError(t, err)

	// Act
	first := p.SetOnCall(true)
	second := p.SetOnCall(false)

	// Assert
	assert.False(t, first)
	assert.True(t, second)
}

func TestRoster_AtAndPeople(t *testing.T) {
	// Arrange
	ada, _ := worker.NewPerson("Ada", "Alpha Base", worker.JobTrader, worker.RoleResident)
	bot, _ := worker.NewRobot("Bot-1", "Alpha Base")
	ben, _ := worker.NewPerson("Ben", "Beta Outpost", worker.JobPilot, worker.RoleResident)
	roster := worker.NewRoster(ada, bot, ben)

	// Act
	atAlpha := roster.At("Alpha Base")
	people := roster.People()

	// Assert
	assert.Len(t, atAlpha, 2)
	assert.Len(t, people, 2)
	assert.Same(t, ada, roster.Find("Ada"))
	assert.Nil(t, roster.Find("Nobody"))
}
