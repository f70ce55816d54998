// Package kinds holds the concrete mission types built on the mission engine: trade and drone
// delivery runs, mining, ice and regolith collection, emergency supply and construction.
//
// Every vehicle kind embeds *mission.VehicleMission, registers its own phases and re-attaches itself
// so the engine dispatches to its overrides. Construction kinds embed mission.BaseBehavior.
package kinds

import (
	"fmt"
	"math"
	"strings"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// maxSiteRangeKm bounds how far out a site may be planned
const maxSiteRangeKm = 200.0

// startVehicleMission creates the mission record behind a vehicle kind
func startVehicleMission(env *mission.Environment, cfg mission.Config, useDrone bool) (*mission.VehicleMission, error) {
	m, err := mission.NewMission(env, cfg)
	if err != nil {
		return nil, err
	}
	return mission.NewVehicleMission(m, useDrone), nil
}

// fitCapacityToVehicle keeps crewed missions within the seats of their rover
func fitCapacityToVehicle(vm *mission.VehicleMission) {
	v := vm.Vehicle()
	if v == nil || !v.IsRover() {
		return
	}
	if v.CrewCapacity() < vm.M.Capacity() {
		vm.M.SetCapacity(v.CrewCapacity())
	}
}

// finishSetup recruits the crew, checks the vehicle can be loaded and enters the first phase
func finishSetup(vm *mission.VehicleMission, starter worker.Worker, needsReview bool) {
	m := vm.M
	if m.IsDone() {
		return
	}
	m.RecruitMembersForMission(starter)
	if m.IsDone() {
		return
	}
	if !vm.IsVehicleLoadable() {
		m.EndMission(mission.StatusCannotLoadResources)
		return
	}
	vm.SetInitialPhase(needsReview)
}

func startingSettlement(m *mission.Mission) *settlement.Settlement {
	return m.Environment().Settlements.Find(m.StartingSettlement())
}

// planningRangeKm is how far from home a site may lie so the vehicle can reach it and come back
// on the fuel the settlement can spare
func planningRangeKm(v *vehicle.Vehicle, s *settlement.Settlement) float64 {
	if v == nil || s == nil {
		return 0
	}
	fuel := math.Min(s.Inventory().AmountStored(v.FuelType()), v.CargoCapacity()/4)
	return math.Min(fuel*v.ConservativeFuelEconomy()/2, maxSiteRangeKm)
}

// lifeSupport is what the people aboard consume over a stay
func lifeSupport(vm *mission.VehicleMission, millisols float64, useMargin bool) *resource.Manifest {
	out := resource.NewManifest()
	crew := len(vm.M.People())
	if crew == 0 || millisols <= 0 || vm.Vehicle() == nil || !vm.Vehicle().IsRover() {
		return out
	}
	factor := millisols / shared.MillisolsPerSol * float64(crew)
	if useMargin {
		factor *= vm.M.Environment().Tuning.LifeSupportMargin
	}
	out.Set(resource.Oxygen, mission.OxygenPerSol*factor)
	out.Set(resource.Water, mission.WaterPerSol*factor)
	out.Set(resource.Food, mission.FoodPerSol*factor)
	return out
}

// transfer moves a manifest between inventories as far as stock and room allow.
// Returns what was actually moved.
func transfer(load *resource.Manifest, from, to *resource.Inventory) *resource.Manifest {
	moved := resource.NewManifest()
	if load == nil {
		return moved
	}
	load.Each(func(id resource.ID, quantity float64) bool {
		if n := from.TransferTo(to, id, quantity); n > 0 {
			moved.Set(id, n)
		}
		return true
	})
	return moved
}

// available trims a manifest to what a stock holds
func available(wanted *resource.Manifest, stock resource.Stock) *resource.Manifest {
	out := resource.NewManifest()
	wanted.Each(func(id resource.ID, quantity float64) bool {
		have := stock.AmountStored(id)
		if !id.IsAmount() {
			have = float64(stock.ItemStored(id))
		}
		if q := math.Min(quantity, have); q > 0 {
			out.Set(id, q)
		}
		return true
	})
	return out
}

// workClock tracks when each member last worked so a pulse credits only the time since
type workClock struct {
	last map[string]shared.MarsTime
}

func newWorkClock() workClock {
	return workClock{last: make(map[string]shared.MarsTime)}
}

// elapsed returns the millisols since the member last worked (since start on the first call)
func (w *workClock) elapsed(member string, start, now shared.MarsTime) float64 {
	from, ok := w.last[member]
	if !ok || from.Before(start) {
		from = start
	}
	w.last[member] = now
	return math.Max(now.Sub(from), 0)
}

func (w *workClock) reset() {
	w.last = make(map[string]shared.MarsTime)
}

// orderByNearest visits sites greedily, always driving to the closest one left
func orderByNearest(from shared.Coordinates, sites []shared.Coordinates) []shared.Coordinates {
	left := append([]shared.Coordinates(nil), sites...)
	out := make([]shared.Coordinates, 0, len(sites))
	here := from
	for len(left) > 0 {
		best := 0
		for i := 1; i < len(left); i++ {
			if here.DistanceTo(left[i]) < here.DistanceTo(left[best]) {
				best = i
			}
		}
		here = left[best]
		out = append(out, here)
		left = append(left[:best], left[best+1:]...)
	}
	return out
}

// isSitePerson reports whether a member can do site work (people only)
func isSitePerson(member worker.Worker) bool {
	p, ok := member.(*worker.Person)
	return ok && !p.HasSeriousMedicalProblems()
}

// manifestSummary renders a manifest as "name=quantity" pairs in manifest order
func manifestSummary(m *resource.Manifest) string {
	if m == nil || m.Len() == 0 {
		return "none"
	}
	parts := make([]string, 0, m.Len())
	m.Each(func(id resource.ID, quantity float64) bool {
		parts = append(parts, fmt.Sprintf("%s=%.1f", id.Name(), quantity))
		return true
	})
	return strings.Join(parts, ", ")
}

// formatProgress renders done out of total
func formatProgress(done, total float64) string {
	return fmt.Sprintf("%.0f/%.0f", done, total)
}
