package kinds

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// Base weights of the mission kinds in the random selection
const (
	tradeWeight                = 10.0
	deliveryWeight             = 8.0
	miningWeight               = 10.0
	collectIceWeight           = 15.0
	collectRegolithWeight      = 12.0
	emergencySupplyWeight      = 20.0
	constructionWeight         = 5.0
	buildingConstructionWeight = 3.0

	// preferredJobFactor boosts kinds that suit the person's job
	preferredJobFactor = 2.0
)

// MissionDirectory is the part of the mission registry the planner reads
type MissionDirectory interface {
	Missions() []*mission.Mission
	HasMission(w worker.Worker) bool
	NumParticularMissions(t mission.Type, settlement string) int
}

// Planner holds what every meta mission shares
type Planner struct {
	Env         *mission.Environment
	Missions    MissionDirectory
	Sites       *SiteRegistry
	Surveyor    Surveyor
	NeedsReview bool
}

// MetaMissions returns one meta mission per kind, ready to register with the manager
func (p *Planner) MetaMissions() []mission.MetaMission {
	if p.Sites == nil {
		p.Sites = NewSiteRegistry()
	}
	return []mission.MetaMission{
		&meta{planner: p, mtype: mission.TypeTrade, weight: tradeWeight, minMembers: 1,
			feasible: p.canTrade(isRover), construct: p.constructTrade},
		&meta{planner: p, mtype: mission.TypeDelivery, weight: deliveryWeight, minMembers: 1,
			feasible: p.canTrade(isDrone), construct: p.constructDelivery},
		&meta{planner: p, mtype: mission.TypeMining, weight: miningWeight, minMembers: miningMinMembers,
			feasible: p.canMine, construct: p.constructMining},
		&meta{planner: p, mtype: mission.TypeCollectIce, weight: collectIceWeight, minMembers: collectMinMembers,
			feasible: p.hasVehicle(isRover), construct: p.constructCollectIce},
		&meta{planner: p, mtype: mission.TypeCollectRegolith, weight: collectRegolithWeight, minMembers: collectMinMembers,
			feasible: p.hasVehicle(isRover), construct: p.constructCollectRegolith},
		&meta{planner: p, mtype: mission.TypeEmergencySupply, weight: emergencySupplyWeight, minMembers: 1,
			feasible: p.canSupply, construct: p.constructEmergencySupply},
		&meta{planner: p, mtype: mission.TypeConstruction, weight: constructionWeight, minMembers: constructionMinMembers,
			construct: p.constructConstruction},
		&meta{planner: p, mtype: mission.TypeBuildingConstruction, weight: buildingConstructionWeight, minMembers: buildingConstructionMinMembers,
			construct: p.constructBuildingConstruction},
	}
}

// meta is the MetaMission of one kind
type meta struct {
	planner    *Planner
	mtype      mission.Type
	weight     float64
	minMembers int
	feasible   func(s *settlement.Settlement) bool
	construct  func(person *worker.Person) (*mission.Mission, error)
}

func (k *meta) Type() mission.Type { return k.mtype }

// Probability is zero for people who cannot start the kind here; otherwise the base weight, doubled
// for a preferred job and shared among missions of the kind already under way at the settlement
func (k *meta) Probability(person *worker.Person) float64 {
	p := k.planner
	s := p.Env.Settlements.Find(person.CurrentSettlement())
	if s == nil || person.HasSeriousMedicalProblems() {
		return 0
	}
	if p.Missions != nil && p.Missions.HasMission(person) {
		return 0
	}
	if s.Population() < k.minMembers {
		return 0
	}
	if k.feasible != nil && !k.feasible(s) {
		return 0
	}
	weight := k.weight
	if mission.JobPrefers(person.Job(), k.mtype) {
		weight *= preferredJobFactor
	}
	if p.Missions != nil {
		weight /= float64(1 + p.Missions.NumParticularMissions(k.mtype, s.Name()))
	}
	return weight
}

func (k *meta) Construct(person *worker.Person) (*mission.Mission, error) {
	return k.construct(person)
}

func isRover(v *vehicle.Vehicle) bool { return v.IsRover() }
func isDrone(v *vehicle.Vehicle) bool { return v.Type().IsDrone() }
func isLUV(v *vehicle.Vehicle) bool   { return v.Type() == vehicle.TypeLUV }

// findVehicle returns a usable empty vehicle parked at the settlement
func (p *Planner) findVehicle(s *settlement.Settlement, match func(v *vehicle.Vehicle) bool) *vehicle.Vehicle {
	if p.Env.Vehicles == nil {
		return nil
	}
	for _, name := range s.ParkedVehicles() {
		v := p.Env.Vehicles.Vehicle(name)
		if v != nil && match(v) && v.IsUsable() && v.StoredMass() <= 0 {
			return v
		}
	}
	return nil
}

func (p *Planner) hasVehicle(match func(v *vehicle.Vehicle) bool) func(s *settlement.Settlement) bool {
	return func(s *settlement.Settlement) bool {
		return p.findVehicle(s, match) != nil
	}
}

func (p *Planner) canTrade(match func(v *vehicle.Vehicle) bool) func(s *settlement.Settlement) bool {
	return func(s *settlement.Settlement) bool {
		return len(p.Env.Settlements.All()) > 1 && p.findVehicle(s, match) != nil
	}
}

func (p *Planner) canMine(s *settlement.Settlement) bool {
	return p.findVehicle(s, isRover) != nil && p.findVehicle(s, isLUV) != nil
}

func (p *Planner) canSupply(s *settlement.Settlement) bool {
	v := p.findVehicle(s, isRover)
	if v == nil {
		return false
	}
	target, _ := FindSettlementNeedingSupplies(p.Env.Settlements, s, v, p.suppliedSettlements())
	return target != nil
}

// suppliedSettlements names the settlements an emergency supply run is already heading to
func (p *Planner) suppliedSettlements() []string {
	if p.Missions == nil {
		return nil
	}
	var out []string
	for _, m := range p.Missions.Missions() {
		if es, ok := m.Behavior().(*EmergencySupply); ok && es.EmergencySettlement() != nil {
			out = append(out, es.EmergencySettlement().Name())
		}
	}
	return out
}

func (p *Planner) constructTrade(person *worker.Person) (*mission.Mission, error) {
	t, err := NewTrade(p.Env, person, TradeOptions{NeedsReview: p.NeedsReview})
	if err != nil {
		return nil, err
	}
	return t.Mission(), nil
}

func (p *Planner) constructDelivery(person *worker.Person) (*mission.Mission, error) {
	t, err := NewDelivery(p.Env, person, TradeOptions{NeedsReview: p.NeedsReview})
	if err != nil {
		return nil, err
	}
	return t.Mission(), nil
}

func (p *Planner) constructMining(person *worker.Person) (*mission.Mission, error) {
	mi, err := NewMining(p.Env, person, MiningOptions{Surveyor: p.Surveyor, NeedsReview: p.NeedsReview})
	if err != nil {
		return nil, err
	}
	return mi.Mission(), nil
}

func (p *Planner) constructCollectIce(person *worker.Person) (*mission.Mission, error) {
	c, err := NewCollectIce(p.Env, person, CollectOptions{Surveyor: p.Surveyor, NeedsReview: p.NeedsReview})
	if err != nil {
		return nil, err
	}
	return c.Mission(), nil
}

func (p *Planner) constructCollectRegolith(person *worker.Person) (*mission.Mission, error) {
	c, err := NewCollectRegolith(p.Env, person, CollectOptions{Surveyor: p.Surveyor, NeedsReview: p.NeedsReview})
	if err != nil {
		return nil, err
	}
	return c.Mission(), nil
}

func (p *Planner) constructEmergencySupply(person *worker.Person) (*mission.Mission, error) {
	es, err := NewEmergencySupply(p.Env, person, EmergencyOptions{Exclude: p.suppliedSettlements(), NeedsReview: p.NeedsReview})
	if err != nil {
		return nil, err
	}
	return es.Mission(), nil
}

func (p *Planner) constructConstruction(person *worker.Person) (*mission.Mission, error) {
	c, err := NewConstruction(p.Env, person, ConstructionOptions{Sites: p.Sites, NeedsReview: p.NeedsReview})
	if err != nil {
		return nil, err
	}
	return c.Mission(), nil
}

func (p *Planner) constructBuildingConstruction(person *worker.Person) (*mission.Mission, error) {
	c, err := NewBuildingConstruction(p.Env, person, ConstructionOptions{Sites: p.Sites, NeedsReview: p.NeedsReview})
	if err != nil {
		return nil, err
	}
	return c.Mission(), nil
}
