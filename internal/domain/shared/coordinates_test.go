package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type beacon struct {
	name string
	at   Coordinates
}

func (b beacon) Coordinates() Coordinates { return b.at }

func TestNewCoordinates_Validates(t *testing.T) {
	_, err := NewCoordinates(91, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "latitude", verr.Field)

	_, err = NewCoordinates(0, -181)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "longitude", verr.Field)

	c, err := NewCoordinates(-4.5, 137.4)
	require.NoError(t, err)
	assert.Equal(t, "4.50 S 137.40 E", c.String())
}

func TestCoordinates_DistanceTo(t *testing.T) {
	origin := Coordinates{}

	assert.Zero(t, origin.DistanceTo(origin))
	assert.InDelta(t, MarsRadiusKm*math.Pi/2, origin.DistanceTo(Coordinates{Longitude: 90}), 1e-6)
	assert.InDelta(t, MarsRadiusKm*math.Pi/2, origin.DistanceTo(Coordinates{Latitude: 90}), 1e-6)
	assert.InDelta(t, origin.DistanceTo(Coordinates{Latitude: 10, Longitude: 20}),
		Coordinates{Latitude: 10, Longitude: 20}.DistanceTo(origin), 1e-9)
}

func TestCoordinates_MoveToward(t *testing.T) {
	t.Run("part of the way along the equator", func(t *testing.T) {
		// Arrange
		from := Coordinates{}
		to := Coordinates{Longitude: 90}

		// Act
		mid := from.MoveToward(to, from.DistanceTo(to)/2)

		// Assert
		assert.InDelta(t, 0, mid.Latitude, 1e-9)
		assert.InDelta(t, 45, mid.Longitude, 1e-9)
	})

	t.Run("overshoot stops at the target", func(t *testing.T) {
		to := Coordinates{Latitude: 1, Longitude: 1}

		assert.Equal(t, to, Coordinates{}.MoveToward(to, 1e6))
	})

	t.Run("no distance stays put", func(t *testing.T) {
		from := Coordinates{Latitude: 3}

		assert.Equal(t, from, from.MoveToward(Coordinates{}, 0))
	})
}

func TestCoordinates_Destination(t *testing.T) {
	// Arrange
	from := Coordinates{}
	km := MarsRadiusKm * math.Pi / 4

	// Act
	north := from.Destination(0, km)
	east := from.Destination(90, km)

	// Assert
	assert.InDelta(t, 45, north.Latitude, 1e-9)
	assert.InDelta(t, 0, north.Longitude, 1e-9)
	assert.InDelta(t, 45, east.Longitude, 1e-9)
	assert.InDelta(t, km, from.DistanceTo(east), 1e-6)
}

func TestFindNearest(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		_, _, ok := FindNearest(Coordinates{}, []beacon{})

		assert.False(t, ok)
	})

	t.Run("closest wins", func(t *testing.T) {
		// Arrange
		targets := []beacon{
			{name: "far", at: Coordinates{Latitude: 40}},
			{name: "near", at: Coordinates{Latitude: 2}},
			{name: "middle", at: Coordinates{Latitude: 10}},
		}

		// Act
		nearest, distance, ok := FindNearest(Coordinates{}, targets)

		// Assert
		require.True(t, ok)
		assert.Equal(t, "near", nearest.name)
		assert.InDelta(t, Coordinates{}.DistanceTo(Coordinates{Latitude: 2}), distance, 1e-9)
	})
}

func TestRandomHelpers(t *testing.T) {
	r := NewFixedRandom(0.25, 0.75)

	assert.True(t, RandomPercentLessThan(r, 30))
	assert.False(t, RandomPercentLessThan(r, 70))
	assert.InDelta(t, 2.5, RandomDouble(r, 10), 1e-9)
	assert.Equal(t, 3, RandomInt(r, 4))
	assert.Zero(t, RandomInt(r, 0))
}

func TestSeededRandom_IsReproducible(t *testing.T) {
	a := NewSeededRandom(42)
	b := NewSeededRandom(42)

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
}
