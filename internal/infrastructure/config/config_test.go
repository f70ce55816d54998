package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_FillsDefaults(t *testing.T) {
	// Arrange
	t.Setenv("DATABASE_URL", "")
	path := writeConfig(t, "simulation:\n  seed: 7\n  review_plans: true\n")

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
	assert.True(t, cfg.Simulation.ReviewPlans)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "marsmission.db", cfg.Database.Path)
	assert.InDelta(t, 10, cfg.Simulation.MillisolsPerTick, 1e-9)
	assert.InDelta(t, 1.5, cfg.Simulation.FuelRangeErrorMargin, 1e-9)
	assert.Equal(t, "/tmp/marsmission-daemon.sock", cfg.Daemon.SocketPath)
	assert.Equal(t, 30*time.Second, cfg.Daemon.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	// Arrange
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MM_SIMULATION_MILLISOLS_PER_TICK", "25")
	t.Setenv("MM_LOGGING_LEVEL", "debug")
	path := writeConfig(t, "simulation:\n  millisols_per_tick: 5\nlogging:\n  level: warning\n")

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 25, cfg.Simulation.MillisolsPerTick, 1e-9)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_DatabaseURLWithoutPrefix(t *testing.T) {
	// Arrange
	t.Setenv("DATABASE_URL", "postgres://mars:secret@db:5432/colony")
	path := writeConfig(t, "database:\n  type: postgres\n")

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "postgres://mars:secret@db:5432/colony", cfg.Database.URL)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown database", "database:\n  type: oracle\n", "database.type (MM_DATABASE_TYPE) must be one of [postgres sqlite]"},
		{"tick longer than a sol", "simulation:\n  millisols_per_tick: 1500\n", "simulation.millisols_per_tick (MM_SIMULATION_MILLISOLS_PER_TICK) must be at most 1000"},
		{"chance above 100", "simulation:\n  new_mission_chance: 120\n", "simulation.new_mission_chance (MM_SIMULATION_NEW_MISSION_CHANCE) must be at most 100"},
		{"margin below one", "simulation:\n  fuel_range_error_margin: 0.5\n", "simulation.fuel_range_error_margin (MM_SIMULATION_FUEL_RANGE_ERROR_MARGIN) must be at least 1"},
		{"unknown log level", "logging:\n  level: loud\n", "logging.level (MM_LOGGING_LEVEL) must be one of [debug info warning error], got 'loud'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			t.Setenv("DATABASE_URL", "")
			path := writeConfig(t, tt.body)

			// Act
			cfg, err := LoadConfig(path)

			// Assert
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateConfig_NamesEveryFailingKey(t *testing.T) {
	// Arrange
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Daemon.SocketPath = ""
	cfg.Simulation.MaxTicks = -1

	// Act
	err := ValidateConfig(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon.socket_path (MM_DAEMON_SOCKET_PATH) is required")
	assert.Contains(t, err.Error(), "simulation.max_ticks (MM_SIMULATION_MAX_TICKS) must be at least 0, got '-1'")
	assert.NotContains(t, err.Error(), "Config.")
}

func TestLoadConfigOrDefault_FallsBackOnError(t *testing.T) {
	// Arrange
	t.Setenv("DATABASE_URL", "")
	path := filepath.Join(t.TempDir(), "missing.yaml")

	// Act
	cfg := LoadConfigOrDefault(path)

	// Assert
	require.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.InDelta(t, 4, cfg.Simulation.TicksPerSecond, 1e-9)
}

func TestUserConfigHandler(t *testing.T) {
	t.Run("missing file is an empty config", func(t *testing.T) {
		handler := NewUserConfigHandlerAt(filepath.Join(t.TempDir(), "config.json"))

		cfg, err := handler.Load()

		require.NoError(t, err)
		assert.Empty(t, cfg.DefaultSettlement)
		assert.Empty(t, cfg.DefaultReviewer)
	})

	t.Run("defaults are kept side by side", func(t *testing.T) {
		// Arrange
		handler := NewUserConfigHandlerAt(filepath.Join(t.TempDir(), "nested", "config.json"))

		// Act
		require.NoError(t, handler.SetDefaultSettlement("Alpha Base"))
		require.NoError(t, handler.SetDefaultReviewer("Mae Jemison"))
		cfg, err := handler.Load()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Alpha Base", cfg.DefaultSettlement)
		assert.Equal(t, "Mae Jemison", cfg.DefaultReviewer)
		assert.FileExists(t, handler.GetConfigPath())
	})
}
