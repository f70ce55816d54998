package kinds

import (
	"math"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

var (
	PhaseSupplyDeliveryDisembarking = mission.NewPhase("SUPPLY_DELIVERY_DISEMBARKING", "Disembarking at {0} to deliver supplies")
	PhaseSupplyDelivery             = mission.NewPhase("SUPPLY_DELIVERY", "Delivering emergency supplies to {0}")
	PhaseLoadReturnTripSupplies     = mission.NewPhase("LOAD_RETURN_TRIP_SUPPLIES", "Loading return trip supplies at {0}")
	PhaseReturnTripEmbarking        = mission.NewPhase("RETURN_TRIP_EMBARKING", "Embarking at {0} for the trip home")

	StatusNoSettlementForEmergencySupplies = mission.NewStatus("NO_SETTLEMENT_FOUND_TO_DELIVER_EMERGENCY_SUPPLIES", true)
)

const (
	emergencyMaxMembers = 2
	// emergencySupplySols is the stretch of life support a settlement should hold
	emergencySupplySols = 28.0
	// emergencyFuelDemand is the vehicle fuel a settlement should keep for its own rovers
	emergencyFuelDemand = 1000.0
	// minimumEmergencySupply is the smallest amount worth sending
	minimumEmergencySupply = 100.0
	// emergencyRangeFactor keeps the partner well inside the planning range
	emergencyRangeFactor = 0.8
)

// EmergencyOptions describes an emergency supply run
type EmergencyOptions struct {
	// Exclude names settlements already served by another supply run
	Exclude     []string
	NeedsReview bool
}

// EmergencySupply carries life support and fuel to a settlement that is running out, then loads what
// it needs for the trip home there.
type EmergencySupply struct {
	*mission.VehicleMission

	target    *settlement.Settlement
	supplies  *resource.Manifest
	delivered *resource.Manifest
	outbound  bool
}

// NewEmergencySupply plans a supply run to the first settlement in range that needs help
func NewEmergencySupply(env *mission.Environment, starter worker.Worker, opts EmergencyOptions) (*EmergencySupply, error) {
	vm, err := startVehicleMission(env, mission.Config{
		Type:       mission.TypeEmergencySupply,
		Starter:    starter,
		MinMembers: 1,
		Capacity:   emergencyMaxMembers,
		Priority:   5,
	}, false)
	if err != nil {
		return nil, err
	}
	es := &EmergencySupply{
		VehicleMission: vm,
		supplies:       resource.NewManifest(),
		delivered:      resource.NewManifest(),
		outbound:       true,
	}
	m := vm.M
	for _, p := range []mission.Phase{PhaseSupplyDeliveryDisembarking, PhaseSupplyDelivery, PhaseLoadReturnTripSupplies, PhaseReturnTripEmbarking} {
		m.AddPhase(p)
	}
	m.Attach(es)

	if !vm.ReserveVehicle() {
		return es, nil
	}
	fitCapacityToVehicle(vm)

	home := startingSettlement(m)
	es.target, es.supplies = FindSettlementNeedingSupplies(env.Settlements, home, vm.Vehicle(), opts.Exclude)
	if es.target == nil {
		m.Logf("WARNING", "no settlement needs emergency supplies")
		m.EndMission(StatusNoSettlementForEmergencySupplies)
		return es, nil
	}
	m.Logf("INFO", "sending %s to %s", manifestSummary(es.supplies), es.target.Name())
	vm.AddSettlementNavpoint(es.target)
	finishSetup(vm, starter, opts.NeedsReview)
	return es, nil
}

// FindSettlementNeedingSupplies returns the first settlement in range whose shortfall home can cover,
// together with that shortfall
func FindSettlementNeedingSupplies(registry *settlement.Registry, home *settlement.Settlement, v *vehicle.Vehicle, exclude []string) (*settlement.Settlement, *resource.Manifest) {
	if home == nil || v == nil {
		return nil, nil
	}
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	rangeKm := supplyRangeKm(v, home)
	for _, s := range registry.All() {
		if s.Name() == home.Name() || skip[s.Name()] {
			continue
		}
		if home.Coordinates().DistanceTo(s.Coordinates()) > rangeKm {
			continue
		}
		needed := EmergencyNeeds(s, v.FuelType())
		if needed.Len() > 0 && canSpare(home, needed, v.FuelType()) {
			return s, needed
		}
	}
	return nil, nil
}

// supplyRangeKm is the one-way reach on the fuel home can load
func supplyRangeKm(v *vehicle.Vehicle, home *settlement.Settlement) float64 {
	fuel := math.Min(home.Inventory().AmountStored(v.FuelType()), v.CargoCapacity()/4)
	return fuel * v.ConservativeFuelEconomy() * emergencyRangeFactor
}

// EmergencyNeeds is what a settlement lacks to keep its people alive for a month and its rovers fuelled.
// Each shortage is raised to a minimum delivery.
func EmergencyNeeds(s *settlement.Settlement, fuel resource.ID) *resource.Manifest {
	out := resource.NewManifest()
	monthlyDemand(s.Population(), fuel).Each(func(id resource.ID, demand float64) bool {
		if short := demand - s.Inventory().AmountStored(id); short > 0 {
			out.Set(id, math.Max(short, minimumEmergencySupply))
		}
		return true
	})
	return out
}

func monthlyDemand(population int, fuel resource.ID) *resource.Manifest {
	people := float64(population) * emergencySupplySols
	out := resource.NewManifest()
	out.Set(resource.Oxygen, mission.OxygenPerSol*people)
	out.Set(resource.Water, mission.WaterPerSol*people)
	out.Set(resource.Food, mission.FoodPerSol*people)
	out.Set(fuel, emergencyFuelDemand)
	return out
}

// canSpare reports whether home keeps its own month of life support after sending the supplies.
// Vehicle fuel is not held back.
func canSpare(home *settlement.Settlement, needed *resource.Manifest, fuel resource.ID) bool {
	own := monthlyDemand(home.Population(), fuel)
	enough := true
	needed.Each(func(id resource.ID, quantity float64) bool {
		reserve := own.Get(id)
		if id == fuel {
			reserve = 0
		}
		if home.Inventory().AmountStored(id)-reserve < quantity {
			enough = false
		}
		return enough
	})
	return enough
}

func (es *EmergencySupply) Mission() *mission.Mission                   { return es.M }
func (es *EmergencySupply) EmergencySettlement() *settlement.Settlement { return es.target }
func (es *EmergencySupply) Supplies() *resource.Manifest                { return es.supplies.Clone() }
func (es *EmergencySupply) Delivered() *resource.Manifest               { return es.delivered.Clone() }
func (es *EmergencySupply) IsOutbound() bool                            { return es.outbound }

func (es *EmergencySupply) atTarget() bool {
	n, ok := es.CurrentNavpoint()
	return ok && es.target != nil && n.Settlement() == es.target.Name()
}

// DetermineNewPhase hands the supplies over when the vehicle reaches the settlement in need
func (es *EmergencySupply) DetermineNewPhase() bool {
	m := es.M
	switch m.Phase() {
	case mission.PhaseTravelling:
		if es.outbound && es.atTarget() && !m.IsAborted() {
			m.SetPhase(PhaseSupplyDeliveryDisembarking, es.target.Name())
			return true
		}
	case PhaseSupplyDeliveryDisembarking:
		m.SetPhase(PhaseSupplyDelivery, es.target.Name())
		return true
	case PhaseSupplyDelivery:
		m.SetPhase(PhaseLoadReturnTripSupplies, es.target.Name())
		es.PrepareLoadingPlan(es.target)
		return true
	case PhaseLoadReturnTripSupplies:
		m.SetPhase(PhaseReturnTripEmbarking, es.target.Name())
		return true
	case PhaseReturnTripEmbarking:
		es.StartTravellingPhase()
		return true
	}
	return es.VehicleMission.DetermineNewPhase()
}

func (es *EmergencySupply) PerformPhase(member worker.Worker) {
	switch es.M.Phase() {
	case PhaseSupplyDeliveryDisembarking:
		es.performDeliveryDisembarking(member)
	case PhaseSupplyDelivery:
		es.performDelivery(member)
	case PhaseLoadReturnTripSupplies:
		es.performLoadReturnTrip(member)
	case PhaseReturnTripEmbarking:
		es.PerformDepartingFromSettlement(member)
	default:
		es.VehicleMission.PerformPhase(member)
	}
}

func (es *EmergencySupply) performDeliveryDisembarking(member worker.Worker) {
	v := es.Vehicle()
	if v == nil {
		es.M.SetPhaseEnded(true)
		return
	}
	es.ParkAt(es.target)
	es.target.AddToGarage(v.Name())
	es.DisembarkMember(member, es.target)
	if v.CrewCount() == 0 {
		es.M.SetPhaseEnded(true)
	}
}

// performDelivery unloads the supplies and turns the route for home
func (es *EmergencySupply) performDelivery(member worker.Worker) {
	v := es.Vehicle()
	if v == nil {
		es.M.SetPhaseEnded(true)
		return
	}
	member.AssignTask(worker.Task{Name: worker.TaskDeliverSupply, Mission: es.M.ID(), Target: es.target.Name()})
	es.delivered = transfer(es.supplies, v.Inventory(), es.target.Inventory())
	member.AssignTask(worker.Task{})
	es.M.Logf("INFO", "delivered %s to %s", manifestSummary(es.delivered), es.target.Name())

	es.outbound = false
	if home := startingSettlement(es.M); home != nil {
		es.AddSettlementNavpoint(home)
	}
	es.M.SetPhaseEnded(true)
}

func (es *EmergencySupply) performLoadReturnTrip(member worker.Worker) {
	v := es.Vehicle()
	if v == nil {
		es.M.SetPhaseEnded(true)
		return
	}
	if es.IsVehicleLoaded() {
		es.M.SetPhaseEnded(true)
		return
	}
	if es.M.IsDone() || es.LoadingPlan() == nil {
		return
	}
	member.AssignTask(worker.Task{Name: worker.TaskLoadVehicle, Mission: es.M.ID(), Target: v.Name()})
	es.LoadingPlan().Load(es.target.Inventory(), v.Inventory(), es.M.Environment().Tuning.LoadChunkKg)
}

// OptionalCargoToLoad carries the supplies on the way out
func (es *EmergencySupply) OptionalCargoToLoad() *resource.Manifest {
	if !es.outbound {
		return resource.NewManifest()
	}
	return es.supplies.Clone()
}

// CompareVehicles prefers the rover with the most cargo room
func (es *EmergencySupply) CompareVehicles(a, b *vehicle.Vehicle) int {
	switch {
	case a.CargoCapacity() > b.CargoCapacity():
		return 1
	case a.CargoCapacity() < b.CargoCapacity():
		return -1
	}
	return 0
}

func (es *EmergencySupply) ContributeData(data *mission.MissionData) {
	es.VehicleMission.ContributeData(data)
	if data.Details == nil {
		data.Details = make(map[string]string)
	}
	if es.target != nil {
		data.Details["emergency_settlement"] = es.target.Name()
	}
	data.Details["supplies"] = manifestSummary(es.supplies)
	data.Details["delivered"] = manifestSummary(es.delivered)
}
