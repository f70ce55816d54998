package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission/kinds"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

//go:embed default.yaml
var defaultScenario []byte

// Scenario describes the starting state of a colony
type Scenario struct {
	Name           string           `yaml:"name" validate:"required"`
	StartMillisols float64          `yaml:"start_millisols" validate:"gte=0"`
	Settlements    []SettlementSpec `yaml:"settlements" validate:"required,min=1,dive"`
	Vehicles       []VehicleSpec    `yaml:"vehicles" validate:"dive"`
	People         []PersonSpec     `yaml:"people" validate:"dive"`
	Robots         []RobotSpec      `yaml:"robots" validate:"dive"`
	Sites          []SiteSpec       `yaml:"collection_sites" validate:"dive"`
	MiningSite     *MiningSiteSpec  `yaml:"mining_site"`
}

type SettlementSpec struct {
	Name       string             `yaml:"name" validate:"required"`
	Latitude   float64            `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64            `yaml:"longitude" validate:"gte=-180,lte=360"`
	Population int                `yaml:"population" validate:"gte=0"`
	Garage     int                `yaml:"garage" validate:"gte=0"`
	Amounts    map[string]float64 `yaml:"amounts"`
	Items      map[string]int     `yaml:"items"`
}

type VehicleSpec struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required"`
	Home string `yaml:"home" validate:"required"`
}

type PersonSpec struct {
	Name       string `yaml:"name" validate:"required"`
	Settlement string `yaml:"settlement" validate:"required"`
	Job        string `yaml:"job"`
	Role       string `yaml:"role"`
}

type RobotSpec struct {
	Name       string `yaml:"name" validate:"required"`
	Settlement string `yaml:"settlement" validate:"required"`
}

type SiteSpec struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// MiningSiteSpec pins the mining site; concentrations are percentages keyed by mineral name
type MiningSiteSpec struct {
	SiteSpec       `yaml:",inline"`
	Concentrations map[string]float64 `yaml:"concentrations"`
}

// Colony is a scenario turned into live domain objects
type Colony struct {
	Name        string
	Start       shared.MarsTime
	Settlements *settlement.Registry
	Roster      *worker.Roster
	Fleet       *vehicle.Fleet
	// nil unless the scenario pins its sites
	Surveyor kinds.Surveyor
}

// Default returns the built-in two-settlement scenario
func Default() *Scenario {
	s, err := Parse(defaultScenario)
	if err != nil {
		panic(fmt.Sprintf("built-in scenario is invalid: %v", err))
	}
	return s
}

// Load reads a scenario file. An empty path selects the built-in scenario.
func Load(path string) (*Scenario, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML scenario
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// Build creates the settlements, fleet and roster the scenario describes
func (s *Scenario) Build() (*Colony, error) {
	registry := settlement.NewRegistry()
	for _, spec := range s.Settlements {
		coords, err := shared.NewCoordinates(spec.Latitude, spec.Longitude)
		if err != nil {
			return nil, fmt.Errorf("settlement %s: %w", spec.Name, err)
		}
		st, err := settlement.NewSettlement(spec.Name, coords, spec.Population, spec.Garage)
		if err != nil {
			return nil, err
		}
		for name, kg := range spec.Amounts {
			id, err := lookup(name)
			if err != nil {
				return nil, fmt.Errorf("settlement %s: %w", spec.Name, err)
			}
			st.Inventory().StoreAmount(id, kg)
		}
		for name, n := range spec.Items {
			id, err := lookup(name)
			if err != nil {
				return nil, fmt.Errorf("settlement %s: %w", spec.Name, err)
			}
			st.Inventory().StoreItem(id, n)
		}
		registry.Add(st)
	}

	fleet := vehicle.NewFleet()
	for _, spec := range s.Vehicles {
		home := registry.Find(spec.Home)
		if home == nil {
			return nil, shared.NewValidationError("home", fmt.Sprintf("vehicle %s has unknown home %q", spec.Name, spec.Home))
		}
		v, err := vehicle.NewVehicle(spec.Name, vehicle.Type(strings.ToUpper(spec.Type)), home.Name(), home.Coordinates())
		if err != nil {
			return nil, err
		}
		v.Park(home.Name(), home.Coordinates())
		home.ParkVehicle(v.Name())
		fleet.Add(v)
	}

	roster := worker.NewRoster()
	for _, spec := range s.People {
		if registry.Find(spec.Settlement) == nil {
			return nil, shared.NewValidationError("settlement", fmt.Sprintf("person %s lives in unknown settlement %q", spec.Name, spec.Settlement))
		}
		job := worker.Job(strings.ToUpper(spec.Job))
		if spec.Job == "" {
			job = worker.JobUnemployed
		}
		role := worker.Role(strings.ToUpper(spec.Role))
		if spec.Role == "" {
			role = worker.RoleResident
		}
		p, err := worker.NewPerson(spec.Name, spec.Settlement, job, role)
		if err != nil {
			return nil, err
		}
		roster.Add(p)
	}
	for _, spec := range s.Robots {
		if registry.Find(spec.Settlement) == nil {
			return nil, shared.NewValidationError("settlement", fmt.Sprintf("robot %s stands in unknown settlement %q", spec.Name, spec.Settlement))
		}
		r, err := worker.NewRobot(spec.Name, spec.Settlement)
		if err != nil {
			return nil, err
		}
		roster.Add(r)
	}

	colony := &Colony{
		Name:        s.Name,
		Start:       shared.NewMarsTime(s.StartMillisols),
		Settlements: registry,
		Roster:      roster,
		Fleet:       fleet,
	}
	surveyor, err := s.surveyor()
	if err != nil {
		return nil, err
	}
	if surveyor != nil {
		colony.Surveyor = surveyor
	}
	return colony, nil
}

func (s *Scenario) surveyor() (*kinds.FixedSurveyor, error) {
	if len(s.Sites) == 0 && s.MiningSite == nil {
		return nil, nil
	}
	f := &kinds.FixedSurveyor{}
	for _, site := range s.Sites {
		f.Sites = append(f.Sites, shared.Coordinates{Latitude: site.Latitude, Longitude: site.Longitude})
	}
	if s.MiningSite != nil {
		ms := &kinds.MiningSite{
			Location:       shared.Coordinates{Latitude: s.MiningSite.Latitude, Longitude: s.MiningSite.Longitude},
			Concentrations: make(map[resource.ID]float64),
		}
		for name, pct := range s.MiningSite.Concentrations {
			id, err := lookup(name)
			if err != nil {
				return nil, fmt.Errorf("mining site: %w", err)
			}
			ms.Concentrations[id] = pct
		}
		f.Mining = ms
	}
	return f, nil
}

func lookup(name string) (resource.ID, error) {
	if id, ok := resource.Lookup(name); ok {
		return id, nil
	}
	if id, ok := resource.Lookup(strings.ToLower(name)); ok {
		return id, nil
	}
	return 0, shared.NewValidationError("resource", fmt.Sprintf("unknown resource %q", name))
}
