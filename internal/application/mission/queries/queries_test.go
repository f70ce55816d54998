package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub009/internal/application/mission/queries"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/test/helpers"
)

func TestListMissionsHandler(t *testing.T) {
	t.Run("live missions ordered by ID", func(t *testing.T) {
		// Arrange
		world, _ := helpers.NewTestWorld(t, false)
		_, err := world.Manager().StartMission(world.Person("Ada Lovelace"), mission.TypeConstruction)
		require.NoError(t, err)
		_, err = world.Manager().StartMission(world.Person("Grace Hopper"), mission.TypeCollectIce)
		require.NoError(t, err)
		handler := queries.NewListMissionsHandler(world, nil)

		// Act
		resp, err := handler.Handle(context.Background(), &queries.ListMissionsQuery{})

		// Assert
		require.NoError(t, err)
		missions := resp.(*queries.ListMissionsResponse).Missions
		require.Len(t, missions, 2)
		assert.Less(t, missions[0].ID, missions[1].ID)
	})

	t.Run("settlement filter", func(t *testing.T) {
		// Arrange
		world, _ := helpers.NewTestWorld(t, false)
		_, err := world.Manager().StartMission(world.Person("Ada Lovelace"), mission.TypeConstruction)
		require.NoError(t, err)
		handler := queries.NewListMissionsHandler(world, nil)

		// Act
		resp, err := handler.Handle(context.Background(), &queries.ListMissionsQuery{Settlement: "Beta Outpost"})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, resp.(*queries.ListMissionsResponse).Missions)
	})

	t.Run("finished missions come from storage", func(t *testing.T) {
		// Arrange
		world, _ := helpers.NewTestWorld(t, false)
		snapshots := persistence.NewGormMissionSnapshotRepository(helpers.NewTestDB(t))
		m, err := world.Manager().StartMission(world.Person("Ada Lovelace"), mission.TypeConstruction)
		require.NoError(t, err)
		m.AbortByPlayer()
		require.True(t, m.IsDone())
		require.NoError(t, snapshots.Save(context.Background(), m.ToData()))
		handler := queries.NewListMissionsHandler(world, snapshots)

		// Act
		live, err := handler.Handle(context.Background(), &queries.ListMissionsQuery{})
		require.NoError(t, err)
		all, err := handler.Handle(context.Background(), &queries.ListMissionsQuery{IncludeDone: true})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, live.(*queries.ListMissionsResponse).Missions)
		missions := all.(*queries.ListMissionsResponse).Missions
		require.Len(t, missions, 1)
		assert.Equal(t, m.ID(), missions[0].ID)
		assert.True(t, missions[0].Done)
	})
}

func TestGetMissionHandler(t *testing.T) {
	t.Run("live mission with its history", func(t *testing.T) {
		// Arrange
		world, recorder := helpers.NewTestWorld(t, false)
		events := persistence.NewGormHistoricalEventRepository(helpers.NewTestDB(t))
		m, err := world.Manager().StartMission(world.Person("Ada Lovelace"), mission.TypeConstruction)
		require.NoError(t, err)
		for _, e := range recorder.Events() {
			require.NoError(t, events.Append(context.Background(), e))
		}
		handler := queries.NewGetMissionHandler(world, nil, events)

		// Act
		resp, err := handler.Handle(context.Background(), &queries.GetMissionQuery{MissionID: m.ID()})

		// Assert
		require.NoError(t, err)
		view := resp.(*queries.MissionView)
		assert.True(t, view.Live)
		assert.Equal(t, m.ID(), view.Mission.ID)
		assert.Len(t, view.Events, len(recorder.Events()))
	})

	t.Run("finished mission read back from storage", func(t *testing.T) {
		// Arrange
		world, _ := helpers.NewTestWorld(t, false)
		snapshots := persistence.NewGormMissionSnapshotRepository(helpers.NewTestDB(t))
		m, err := world.Manager().StartMission(world.Person("Ada Lovelace"), mission.TypeConstruction)
		require.NoError(t, err)
		m.AbortByPlayer()
		require.NoError(t, snapshots.Save(context.Background(), m.ToData()))
		handler := queries.NewGetMissionHandler(world, snapshots, nil)

		// Act
		resp, err := handler.Handle(context.Background(), &queries.GetMissionQuery{MissionID: m.ID()})

		// Assert
		require.NoError(t, err)
		view := resp.(*queries.MissionView)
		assert.False(t, view.Live)
		assert.True(t, view.Mission.Done)
		assert.Contains(t, view.Mission.Statuses, mission.StatusAbortedByPlayer.Name())
	})

	t.Run("unknown mission", func(t *testing.T) {
		// Arrange
		world, _ := helpers.NewTestWorld(t, false)
		handler := queries.NewGetMissionHandler(world, nil, nil)

		// Act
		_, err := handler.Handle(context.Background(), &queries.GetMissionQuery{MissionID: 42})

		// Assert
		var nf *shared.MissionNotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}
