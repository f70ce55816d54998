package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mars-sim/mars-sim-sub009/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/database"
)

// NewTestDB opens a migrated in-memory SQLite store holding the mission snapshot, historical event
// and mission log tables. The connection closes when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err, "open mission store")
	t.Cleanup(func() {
		database.Close(db)
	})

	for _, model := range []interface{}{
		&persistence.MissionSnapshotModel{},
		&persistence.HistoricalEventModel{},
		&persistence.MissionLogModel{},
	} {
		require.True(t, db.Migrator().HasTable(model), "table for %T not migrated", model)
	}
	return db
}

// CountRows returns how many rows a mission store table holds
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
