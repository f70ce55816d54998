package persistence_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/test/helpers"
)

func TestMissionLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(shared.NewMarsTime(1000))
	repo := persistence.NewGormMissionLogRepository(db, clock)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, 1, "Loading cargo", "INFO", nil))
	clock.Advance(10)
	require.NoError(t, repo.Log(ctx, 1, "Loading cargo", "INFO", nil))
	require.NoError(t, repo.Log(ctx, 2, "Loading cargo", "INFO", nil))
	clock.Advance(60)
	require.NoError(t, repo.Log(ctx, 1, "Loading cargo", "INFO", nil))

	// Assert
	first, err := repo.GetLogs(ctx, 1, 10, nil, nil)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	second, err := repo.GetLogs(ctx, 2, 10, nil, nil)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, int64(3), helpers.CountRows(t, db, &persistence.MissionLogModel{}))
}

func TestMissionLogRepository_GetLogsFilters(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(shared.NewMarsTime(1000))
	repo := persistence.NewGormMissionLogRepository(db, clock)
	ctx := context.Background()
	require.NoError(t, repo.Log(ctx, 3, "Embarking", "INFO", map[string]interface{}{"phase": "EMBARKING"}))
	clock.Advance(100)
	require.NoError(t, repo.Log(ctx, 3, "Fuel low", "WARNING", nil))
	clock.Advance(100)
	require.NoError(t, repo.Log(ctx, 3, "Arrived", "INFO", nil))

	// Act
	warnings := "WARNING"
	onlyWarnings, err := repo.GetLogs(ctx, 3, 10, &warnings, nil)
	require.NoError(t, err)
	since := 1050.0
	recent, err := repo.GetLogs(ctx, 3, 10, nil, &since)
	require.NoError(t, err)
	all, err := repo.GetLogs(ctx, 3, 0, nil, nil)
	require.NoError(t, err)

	// Assert
	require.Len(t, onlyWarnings, 1)
	assert.Equal(t, "Fuel low", onlyWarnings[0].Message)
	require.Len(t, recent, 2)
	assert.Equal(t, "Arrived", recent[0].Message)
	require.Len(t, all, 3)
	assert.Equal(t, "EMBARKING", all[2].Metadata["phase"])
	assert.InDelta(t, 1000, all[2].MarsTime.Total(), 1e-9)
}

func TestMissionLogger_RoutesByMissionID(t *testing.T) {
	// Arrange
	repo := helpers.NewMockMissionLogRepository()
	logger := persistence.NewMissionLogger(repo, "error")

	// Act
	logger.Log("info", "Phase LOADING started", map[string]interface{}{"mission_id": 12, "designation": "CR-AB-003"})
	logger.Log("WARNING", "Tick overran", nil)

	// Assert
	assert.Equal(t, []string{"Phase LOADING started"}, repo.Messages(12))
	assert.Equal(t, []string{"Tick overran"}, repo.Messages(0))
	assert.Equal(t, "INFO", repo.Logs[12][0].Level)
}

func TestMissionLogger_JSONEcho(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})
	logger := persistence.NewMissionLogger(nil, "info").WithFormat("json")

	// Act
	logger.Log("debug", "too quiet", nil)
	logger.Log("warning", "Rover low on fuel", map[string]interface{}{"mission_id": 4, "phase": "TRAVELLING"})

	// Assert
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "WARNING", entry["level"])
	assert.Equal(t, "Rover low on fuel", entry["message"])
	assert.Equal(t, "TRAVELLING", entry["phase"])
	assert.EqualValues(t, 4, entry["mission_id"])
}
