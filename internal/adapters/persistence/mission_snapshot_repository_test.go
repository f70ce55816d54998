package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/test/helpers"
)

func snapshot(id int, settlement string, done bool) *mission.MissionData {
	completed := 1250.0
	data := &mission.MissionData{
		ID:          id,
		Type:        string(mission.TypeTrade),
		Name:        "Trade",
		Designation: "TR-AB-001",
		Settlement:  settlement,
		Starter:     "Ada Lovelace",
		Phase:       "TRAVELLING",
		Members:     []string{"Ada Lovelace", "Grace Hopper"},
		Statuses:    []string{},
		Done:        done,
		FiledAt:     1000,
		Vehicle:     "Rover 1",
		Navpoints: []mission.NavPointData{
			{Description: "Beta Outpost", Settlement: "Beta Outpost", Location: shared.Coordinates{Latitude: 0.5}, DistanceKm: 29.6},
		},
		Details: map[string]string{"buy": "food"},
	}
	if done {
		data.CompletedAt = &completed
		data.Statuses = []string{mission.StatusAccomplished.String()}
	}
	return data
}

func TestMissionSnapshotRepository_SaveAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMissionSnapshotRepository(db)
	data := snapshot(7, "Alpha Base", false)

	// Act
	err := repo.Save(context.Background(), data)
	require.NoError(t, err)
	found, err := repo.FindByID(context.Background(), 7)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, data.Designation, found.Designation)
	assert.Equal(t, data.Members, found.Members)
	assert.Equal(t, data.Navpoints, found.Navpoints)
	assert.Equal(t, "food", found.Details["buy"])
}

func TestMissionSnapshotRepository_SaveReplacesPreviousSnapshot(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMissionSnapshotRepository(db)
	require.NoError(t, repo.Save(context.Background(), snapshot(3, "Alpha Base", false)))

	// Act
	err := repo.Save(context.Background(), snapshot(3, "Alpha Base", true))

	// Assert
	require.NoError(t, err)
	found, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, found.Done)
	require.NotNil(t, found.CompletedAt)
	assert.InDelta(t, 1250, *found.CompletedAt, 1e-9)
	all, err := repo.List(context.Background(), "", true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, int64(1), helpers.CountRows(t, db, &persistence.MissionSnapshotModel{}))
}

func TestMissionSnapshotRepository_FindMissing(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMissionSnapshotRepository(db)

	// Act
	found, err := repo.FindByID(context.Background(), 99)

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestMissionSnapshotRepository_List(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMissionSnapshotRepository(db)
	require.NoError(t, repo.SaveAll(context.Background(), []*mission.MissionData{
		snapshot(2, "Alpha Base", false),
		snapshot(1, "Alpha Base", true),
		snapshot(3, "Beta Outpost", false),
	}))

	// Act
	active, err := repo.List(context.Background(), "", false)
	require.NoError(t, err)
	alpha, err := repo.List(context.Background(), "Alpha Base", true)
	require.NoError(t, err)
	last, err := repo.LastMissionID(context.Background())
	require.NoError(t, err)

	// Assert
	require.Len(t, active, 2)
	assert.Equal(t, 2, active[0].ID)
	assert.Equal(t, 3, active[1].ID)
	require.Len(t, alpha, 2)
	assert.Equal(t, 1, alpha[0].ID)
	assert.Equal(t, 3, last)
}

func TestMissionSnapshotRepository_LastMissionIDOfEmptyTable(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormMissionSnapshotRepository(db)

	// Act
	last, err := repo.LastMissionID(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Zero(t, last)
}
