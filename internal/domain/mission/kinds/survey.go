package kinds

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// MiningSite is a surface location with its mineral concentrations (percent by mineral)
type MiningSite struct {
	Location       shared.Coordinates
	Concentrations map[resource.ID]float64
}

// TotalConcentration sums the mineral percentages of the site
func (s MiningSite) TotalConcentration() float64 {
	total := 0.0
	for _, c := range s.Concentrations {
		total += c
	}
	return total
}

// Surveyor finds places worth visiting around a settlement
type Surveyor interface {
	// CollectionSites returns up to n sites within rangeKm of from
	CollectionSites(from shared.Coordinates, rangeKm float64, n int) []shared.Coordinates

	// MiningSite returns the best mining site within rangeKm of from
	MiningSite(from shared.Coordinates, rangeKm float64) (MiningSite, bool)
}

// RandomSurveyor scatters sites around the start at random bearings. Sites lie between a quarter
// and half of the range away so the trip out and back fits.
type RandomSurveyor struct {
	Random shared.RandomSource
}

func NewRandomSurveyor(random shared.RandomSource) *RandomSurveyor {
	return &RandomSurveyor{Random: random}
}

func (s *RandomSurveyor) site(from shared.Coordinates, rangeKm float64) shared.Coordinates {
	bearing := shared.RandomDouble(s.Random, 360)
	km := rangeKm/4 + shared.RandomDouble(s.Random, rangeKm/4)
	return from.Destination(bearing, km)
}

func (s *RandomSurveyor) CollectionSites(from shared.Coordinates, rangeKm float64, n int) []shared.Coordinates {
	if rangeKm <= 0 || n <= 0 {
		return nil
	}
	sites := make([]shared.Coordinates, 0, n)
	for i := 0; i < n; i++ {
		sites = append(sites, s.site(from, rangeKm))
	}
	return sites
}

func (s *RandomSurveyor) MiningSite(from shared.Coordinates, rangeKm float64) (MiningSite, bool) {
	if rangeKm <= 0 {
		return MiningSite{}, false
	}
	concentrations := make(map[resource.ID]float64, len(resource.Minerals))
	for _, mineral := range resource.Minerals {
		concentrations[mineral] = shared.RandomDouble(s.Random, 10)
	}
	site := MiningSite{Location: s.site(from, rangeKm), Concentrations: concentrations}
	return site, site.TotalConcentration() > 0
}

// FixedSurveyor returns preset sites
type FixedSurveyor struct {
	Sites  []shared.Coordinates
	Mining *MiningSite
}

func (f *FixedSurveyor) CollectionSites(from shared.Coordinates, rangeKm float64, n int) []shared.Coordinates {
	if n < len(f.Sites) {
		return append([]shared.Coordinates(nil), f.Sites[:n]...)
	}
	return append([]shared.Coordinates(nil), f.Sites...)
}

func (f *FixedSurveyor) MiningSite(from shared.Coordinates, rangeKm float64) (MiningSite, bool) {
	if f.Mining == nil {
		return MiningSite{}, false
	}
	return *f.Mining, true
}
