package simulation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/application/simulation"
)

func TestScheduler_StopsAtMaxTicks(t *testing.T) {
	// Arrange
	w, _ := newTestWorld(t, false)
	ticks := simulation.NewTickService(w, simulation.DefaultTickConfig(), nil)
	scheduler := simulation.NewScheduler(ticks, 0, 5)

	// Act
	err := scheduler.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(5), ticks.Ticks())
	assert.InDelta(t, 1050, w.Clock().Now().Total(), 1e-9)
}

func TestScheduler_StopsOnCancel(t *testing.T) {
	// Arrange
	w, _ := newTestWorld(t, false)
	ticks := simulation.NewTickService(w, simulation.DefaultTickConfig(), nil)
	scheduler := simulation.NewScheduler(ticks, 20, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// Act
	err := scheduler.Run(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Greater(t, ticks.Ticks(), int64(0))
	assert.Less(t, ticks.Ticks(), int64(20))
}
