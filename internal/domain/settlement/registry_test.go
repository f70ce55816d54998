package settlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

func mustSettlement(t *testing.T, name string, lat, lon float64) *settlement.Settlement {
	t.Helper()
	s, err := settlement.NewSettlement(name, shared.Coordinates{Latitude: lat, Longitude: lon}, 10, 2)
	require.NoError(t, err)
	return s
}

func TestRegistry_FindClosest(t *testing.T) {
	// Arrange
	alpha := mustSettlement(t, "Alpha Base", 0, 0)
	beta := mustSettlement(t, "Beta Outpost", 5, 5)
	registry := settlement.NewRegistry(alpha, beta)

	// Act
	closest, distance := registry.FindClosest(shared.Coordinates{Latitude: 4, Longitude: 4})

	// Assert
	require.NotNil(t, closest)
	assert.Equal(t, "Beta Outpost", closest.Name())
	assert.Greater(t, distance, 0.0)
}

func TestRegistry_FindClosestEmpty(t *testing.T) {
	// Arrange
	registry := settlement.NewRegistry()

	// Act
	closest, distance := registry.FindClosest(shared.Coordinates{})

	// Assert
	assert.Nil(t, closest)
	assert.Equal(t, 0.0, distance)
}

func TestSettlement_GarageCapacity(t *testing.T) {
	// Arrange
	s := mustSettlement(t, "Alpha Base", 0, 0)

	// Act
	first := s.AddToGarage("Rover 1")
	second := s.AddToGarage("Rover 2")
	third := s.AddToGarage("Rover 3")
	s.RemoveVehicle("Rover 1")

	// Assert
	assert.True(t, first)
	assert.True(t, second)
	assert.False(t, third)
	assert.False(t, s.InGarage("Rover 1"))
	assert.Equal(t, []string{"Rover 2"}, s.ParkedVehicles())
	assert.Equal(t, "AB", s.Code())
}
