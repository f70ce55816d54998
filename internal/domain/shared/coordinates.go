package shared

import (
	"fmt"
	"math"
)

// MarsRadiusKm is the mean radius used for surface distances
const MarsRadiusKm = 3393.0

const coordinateEpsilon = 1e-9

// Coordinates represents an immutable location on the Martian surface in degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// NewCoordinates creates coordinates with validation
func NewCoordinates(latitude, longitude float64) (Coordinates, error) {
	if latitude < -90 || latitude > 90 {
		return Coordinates{}, NewValidationError("latitude", "must be between -90 and 90")
	}
	if longitude < -180 || longitude > 360 {
		return Coordinates{}, NewValidationError("longitude", "must be between -180 and 360")
	}
	return Coordinates{Latitude: latitude, Longitude: longitude}, nil
}

// Equals compares two locations within a small tolerance
func (c Coordinates) Equals(other Coordinates) bool {
	return math.Abs(c.Latitude-other.Latitude) < coordinateEpsilon &&
		math.Abs(c.Longitude-other.Longitude) < coordinateEpsilon
}

// angleTo returns the central angle in radians (haversine)
func (c Coordinates) angleTo(other Coordinates) float64 {
	lat1 := toRadians(c.Latitude)
	lat2 := toRadians(other.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(other.Longitude - c.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}
	return 2 * math.Asin(math.Sqrt(h))
}

// DistanceTo calculates the great-circle distance in km
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	if c.Equals(other) {
		return 0
	}
	return MarsRadiusKm * c.angleTo(other)
}

// MoveToward returns the point reached after travelling km along the great circle to target.
// The target is returned once km covers the remaining distance.
func (c Coordinates) MoveToward(target Coordinates, km float64) Coordinates {
	if km <= 0 {
		return c
	}
	delta := c.angleTo(target)
	total := MarsRadiusKm * delta
	if total <= km || delta < coordinateEpsilon {
		return target
	}

	f := km / total
	lat1, lon1 := toRadians(c.Latitude), toRadians(c.Longitude)
	lat2, lon2 := toRadians(target.Latitude), toRadians(target.Longitude)

	a := math.Sin((1-f)*delta) / math.Sin(delta)
	b := math.Sin(f*delta) / math.Sin(delta)
	x := a*math.Cos(lat1)*math.Cos(lon1) + b*math.Cos(lat2)*math.Cos(lon2)
	y := a*math.Cos(lat1)*math.Sin(lon1) + b*math.Cos(lat2)*math.Sin(lon2)
	z := a*math.Sin(lat1) + b*math.Sin(lat2)

	return Coordinates{
		Latitude:  toDegrees(math.Atan2(z, math.Sqrt(x*x+y*y))),
		Longitude: toDegrees(math.Atan2(y, x)),
	}
}

// Destination returns the point km away along the initial bearing (degrees clockwise from north)
func (c Coordinates) Destination(bearing, km float64) Coordinates {
	if km <= 0 {
		return c
	}
	d := km / MarsRadiusKm
	theta := toRadians(bearing)
	lat1, lon1 := toRadians(c.Latitude), toRadians(c.Longitude)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(theta))
	lon2 := lon1 + math.Atan2(math.Sin(theta)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))

	return Coordinates{Latitude: toDegrees(lat2), Longitude: toDegrees(lon2)}
}

func (c Coordinates) String() string {
	ns := "N"
	if c.Latitude < 0 {
		ns = "S"
	}
	ew := "E"
	if c.Longitude < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.2f %s %.2f %s", math.Abs(c.Latitude), ns, math.Abs(c.Longitude), ew)
}

// Located is anything with a surface position
type Located interface {
	Coordinates() Coordinates
}

// FindNearest returns the nearest target from a list and its distance.
// Returns the zero value and false if targets is empty.
func FindNearest[T Located](from Coordinates, targets []T) (T, float64, bool) {
	var nearest T
	if len(targets) == 0 {
		return nearest, 0, false
	}

	nearest = targets[0]
	minDistance := from.DistanceTo(targets[0].Coordinates())

	for _, target := range targets[1:] {
		distance := from.DistanceTo(target.Coordinates())
		if distance < minDistance {
			minDistance = distance
			nearest = target
		}
	}

	return nearest, minDistance, true
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
