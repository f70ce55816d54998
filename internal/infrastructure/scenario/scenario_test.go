package scenario_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/scenario"
)

func TestDefault_BuildsColony(t *testing.T) {
	// Arrange
	s := scenario.Default()

	// Act
	colony, err := s.Build()

	// Assert
	require.NoError(t, err)
	assert.Len(t, colony.Settlements.All(), 2)
	home := colony.Settlements.Find("Schiaparelli Point")
	require.NotNil(t, home)
	assert.InDelta(t, 6000, home.Inventory().AmountStored(resource.Oxygen), 1e-6)
	assert.Equal(t, 8, home.Inventory().ItemStored(resource.EVASuit))
	assert.Len(t, home.ParkedVehicles(), 4)
	assert.Equal(t, vehicle.TypeLUV, colony.Fleet.Vehicle("Grasshopper").Type())
	assert.Len(t, colony.Roster.People(), 11)
	assert.Len(t, colony.Roster.All(), 12)
	assert.Nil(t, colony.Surveyor)
	assert.InDelta(t, 1000, colony.Start.Total(), 1e-9)
}

const pinned = `
name: Test colony
settlements:
  - name: Alpha Base
    population: 4
    garage: 1
    amounts: {Methanol: 500}
vehicles:
  - {name: Rover 1, type: explorer_rover, home: Alpha Base}
people:
  - {name: Ada Lovelace, settlement: Alpha Base, job: pilot}
collection_sites:
  - {latitude: 0.2}
mining_site:
  latitude: -0.3
  concentrations: {hematite: 3}
`

func TestParse_PinnedSites(t *testing.T) {
	// Arrange
	s, err := scenario.Parse([]byte(pinned))
	require.NoError(t, err)

	// Act
	colony, err := s.Build()

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 500, colony.Settlements.Find("Alpha Base").Inventory().AmountStored(resource.Methanol), 1e-6)
	p := colony.Roster.People()[0]
	assert.Equal(t, worker.JobPilot, p.Job())
	assert.Equal(t, worker.RoleResident, p.Role())
	require.NotNil(t, colony.Surveyor)
	sites := colony.Surveyor.CollectionSites(shared.Coordinates{}, 100, 5)
	assert.Len(t, sites, 1)
	site, ok := colony.Surveyor.MiningSite(shared.Coordinates{}, 100)
	require.True(t, ok)
	assert.InDelta(t, 3, site.Concentrations[resource.Hematite], 1e-9)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"no settlements": "name: Empty\n",
		"unnamed":        "settlements:\n  - {name: Alpha}\n",
		"bad latitude":   "name: X\nsettlements:\n  - {name: Alpha, latitude: 120}\n",
		"not yaml":       "name: [unterminated\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			// Act
			_, err := scenario.Parse([]byte(doc))

			// Assert
			assert.Error(t, err)
		})
	}
}

func TestBuild_RejectsUnknownReferences(t *testing.T) {
	cases := map[string]string{
		"vehicle home":  "name: X\nsettlements:\n  - {name: Alpha}\nvehicles:\n  - {name: R, type: LUV, home: Beta}\n",
		"vehicle type":  "name: X\nsettlements:\n  - {name: Alpha}\nvehicles:\n  - {name: R, type: HOVERCRAFT, home: Alpha}\n",
		"person home":   "name: X\nsettlements:\n  - {name: Alpha}\npeople:\n  - {name: P, settlement: Beta}\n",
		"resource name": "name: X\nsettlements:\n  - {name: Alpha, amounts: {unobtainium: 5}}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			// Arrange
			s, err := scenario.Parse([]byte(doc))
			require.NoError(t, err)

			// Act
			_, err = s.Build()

			// Assert
			var verr *shared.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestLoad_File(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "colony.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pinned), 0644))

	// Act
	s, err := scenario.Load(path)
	missing, missingErr := scenario.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	builtin, builtinErr := scenario.Load("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Test colony", s.Name)
	assert.Nil(t, missing)
	assert.Error(t, missingErr)
	require.NoError(t, builtinErr)
	assert.Equal(t, "Schiaparelli colony", builtin.Name)
}
