package mission

import (
	"math"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
)

// LoadingPlan moves what a vehicle needs from a settlement into the vehicle, a chunk per loader
// action. Required entries come first; optional entries are loaded when the settlement has them.
//
// Invariants:
// - a plan that failed never completes
// - remaining quantities never go negative
type LoadingPlan struct {
	settlement string
	required   *resource.Manifest
	optional   *resource.Manifest
	failure    bool
	failedOn   resource.ID
}

// NewLoadingPlan plans what remains to load given what the vehicle already carries
func NewLoadingPlan(settlement string, required, optional *resource.Manifest, aboard resource.Stock) *LoadingPlan {
	return &LoadingPlan{
		settlement: settlement,
		required:   remainingToLoad(required, aboard),
		optional:   remainingToLoad(optional, aboard),
	}
}

func remainingToLoad(wanted *resource.Manifest, aboard resource.Stock) *resource.Manifest {
	out := resource.NewManifest()
	if wanted == nil {
		return out
	}
	wanted.Each(func(id resource.ID, quantity float64) bool {
		var have float64
		if id.IsAmount() {
			have = aboard.AmountStored(id)
		} else {
			have = float64(aboard.ItemStored(id))
		}
		if left := quantity - have; left > 0 {
			out.Set(id, left)
		}
		return true
	})
	return out
}

func (p *LoadingPlan) Settlement() string { return p.settlement }
func (p *LoadingPlan) IsFailure() bool    { return p.failure }

// FailedOn returns the required resource the settlement could not supply
func (p *LoadingPlan) FailedOn() resource.ID { return p.failedOn }

// Remaining returns copies of what is still to load
func (p *LoadingPlan) Remaining() (required, optional *resource.Manifest) {
	return p.required.Clone(), p.optional.Clone()
}

// IsCompleted reports whether every entry was handled
func (p *LoadingPlan) IsCompleted() bool {
	return !p.failure && isDrained(p.required) && isDrained(p.optional)
}

func isDrained(m *resource.Manifest) bool {
	drained := true
	m.Each(func(_ resource.ID, q float64) bool {
		if q > 0 {
			drained = false
		}
		return drained
	})
	return drained
}

// Load performs one loader action moving up to chunkKg of amount resources (or one batch of items)
// from source to target. Returns the quantity moved.
func (p *LoadingPlan) Load(source, target *resource.Inventory, chunkKg float64) float64 {
	if p.failure {
		return 0
	}
	if moved, handled := p.loadNext(p.required, true, source, target, chunkKg); handled {
		return moved
	}
	moved, _ := p.loadNext(p.optional, false, source, target, chunkKg)
	return moved
}

func (p *LoadingPlan) loadNext(m *resource.Manifest, required bool, source, target *resource.Inventory, chunkKg float64) (float64, bool) {
	for _, id := range m.IDs() {
		left := m.Get(id)
		if left <= 0 {
			continue
		}
		want := left
		if id.IsAmount() {
			want = math.Min(left, chunkKg)
		}

		stored := source.TransferTo(target, id, want)

		switch {
		case stored >= want:
			m.Set(id, left-stored)
		case required:
			p.failure = true
			p.failedOn = id
		default:
			// the settlement is out of an optional resource, skip the rest of it
			m.Set(id, 0)
		}
		return stored, true
	}
	return 0, false
}

// Loading for a vehicle mission

// PrepareLoadingPlan plans loading at a settlement
func (vm *VehicleMission) PrepareLoadingPlan(s *settlement.Settlement) {
	required := vm.RequiredResourcesToLoad().Clone()
	required.Merge(vm.RequiredEquipmentToLoad())
	optional := vm.OptionalResourcesToLoad().Clone()
	optional.Merge(vm.OptionalEquipmentToLoad())
	vm.loadingPlan = NewLoadingPlan(s.Name(), required, optional, vm.vehicle.Inventory())
}

// IsVehicleLoaded reports whether loading finished. A failed plan ends the mission.
func (vm *VehicleMission) IsVehicleLoaded() bool {
	if vm.vehicle == nil {
		return false
	}
	if vm.loadingPlan == nil {
		if s := vm.M.env.Settlements.Find(vm.vehicle.Settlement()); s != nil {
			vm.PrepareLoadingPlan(s)
		} else {
			return false
		}
	}
	if vm.loadingPlan.IsFailure() {
		vm.M.Logf("WARNING", "cannot load %s", vm.loadingPlan.FailedOn())
		vm.M.EndMission(StatusCannotLoadResources)
		return false
	}
	return vm.loadingPlan.IsCompleted()
}

func (vm *VehicleMission) loadOnce() {
	s := vm.M.env.Settlements.Find(vm.vehicle.Settlement())
	if s == nil || vm.loadingPlan == nil {
		return
	}
	vm.loadingPlan.Load(s.Inventory(), vm.vehicle.Inventory(), vm.M.env.Tuning.LoadChunkKg)
}

// IsVehicleLoadable reports whether the vehicle is at a settlement that holds everything still
// needed for the rest of the mission
func (vm *VehicleMission) IsVehicleLoadable() bool {
	if vm.vehicle == nil {
		return false
	}
	s := vm.M.env.Settlements.Find(vm.vehicle.Settlement())
	if s == nil {
		return false
	}
	if vm.remainingMissionTime(true) <= 0 {
		return false
	}

	needed := remainingToLoad(vm.RequiredResourcesToLoad(), vm.vehicle.Inventory())
	if short := resource.CheckSufficiency(needed, s.Inventory()); short.IsShort() {
		vm.M.Logf("INFO", "%s cannot supply %s", s.Name(), short)
		return false
	}
	equipment := remainingToLoad(vm.RequiredEquipmentToLoad(), vm.vehicle.Inventory())
	enough := true
	equipment.Each(func(id resource.ID, quantity float64) bool {
		if s.Inventory().ItemStored(id) < int(math.Round(quantity)) {
			enough = false
		}
		return enough
	})
	return enough
}
