package mission

import (
	"math"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
)

// AverageVehicleSpeed is the mean driving speed of the people on the mission (km/h). A member
// with no driving record counts at the vehicle's base speed. With no people it is the default speed.
func (vm *VehicleMission) AverageVehicleSpeed() float64 {
	people := vm.M.People()
	if len(people) == 0 {
		return vm.M.env.Tuning.DefaultAverageSpeed
	}
	fallback := vm.M.env.Tuning.DefaultAverageSpeed
	if vm.vehicle != nil && vm.vehicle.BaseSpeed() > 0 {
		fallback = vm.vehicle.BaseSpeed()
	}
	total := 0.0
	for _, p := range people {
		if speed, ok := p.AverageOperatingSpeed(); ok && speed > 0 {
			total += speed
		} else {
			total += fallback
		}
	}
	return total / float64(len(people))
}

// EstimatedTripTime returns the millisols needed to drive a distance
func (vm *VehicleMission) EstimatedTripTime(useMargin bool, distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	speed := vm.AverageVehicleSpeed()
	if speed <= 0 {
		return 0
	}
	t := distance / speed * shared.MillisolsPerHour
	if useMargin {
		t *= vm.M.env.Tuning.TripTimeMargin
	}
	return t
}

// EstimatedRemainingMissionTime is the trip time of the distance still to drive. Kinds add time
// spent at their sites.
func (vm *VehicleMission) EstimatedRemainingMissionTime(useMargin bool) float64 {
	return vm.EstimatedTripTime(useMargin, vm.ComputeTotalDistanceRemaining())
}

func (vm *VehicleMission) remainingMissionTime(useMargin bool) float64 {
	if t, ok := vm.M.behavior.(timeEstimator); ok {
		return t.EstimatedRemainingMissionTime(useMargin)
	}
	return vm.EstimatedRemainingMissionTime(useMargin)
}

// FuelNeededForTrip returns the kg of fuel to drive a distance at the conservative economy. The
// margin multiplies the estimate and keeps a reserve range in the tank, so it never needs less than
// the plain estimate and grows with distance.
func (vm *VehicleMission) FuelNeededForTrip(distance float64, useMargin bool) float64 {
	if vm.vehicle == nil || distance <= 0 {
		return 0
	}
	economy := vm.vehicle.ConservativeFuelEconomy()
	if economy <= 0 {
		economy = vm.vehicle.FuelEconomy()
	}
	if economy <= 0 {
		return 0
	}
	fuel := distance / economy
	if useMargin {
		tuning := vm.M.env.Tuning
		fuel = fuel*tuning.FuelRangeErrorMargin + tuning.ReserveDistanceKm/economy
	}
	return fuel
}

// ResourcesNeededForTrip estimates fuel, oxidizer and, for crewed rovers, life support for a distance
func (vm *VehicleMission) ResourcesNeededForTrip(useMargin bool, distance float64) *resource.Manifest {
	result := resource.NewManifest()
	if vm.vehicle == nil || distance <= 0 {
		return result
	}

	fuel := vm.FuelNeededForTrip(distance, useMargin)
	result.Set(vm.vehicle.FuelType(), fuel)
	if useMargin {
		result.Add(resource.Oxygen, fuel*vehicle.RatioOxidizerFuel)
	} else {
		result.Add(resource.Oxygen, fuel)
	}

	if vm.vehicle.IsRover() {
		crew := len(vm.M.People())
		if crew > 0 {
			sols := vm.EstimatedTripTime(useMargin, distance) / shared.MillisolsPerSol
			factor := sols * float64(crew)
			if useMargin {
				factor *= vm.M.env.Tuning.LifeSupportMargin
			}
			result.Add(resource.Oxygen, OxygenPerSol*factor)
			result.Add(resource.Water, WaterPerSol*factor)
			result.Add(resource.Food, FoodPerSol*factor)
		}
	}
	return result
}

// ResourcesNeededForRemainingMission estimates what the rest of the route consumes
func (vm *VehicleMission) ResourcesNeededForRemainingMission(useMargin bool) *resource.Manifest {
	distance := vm.ComputeTotalDistanceRemaining()
	if distance <= 0 {
		return resource.NewManifest()
	}
	return vm.ResourcesNeededForTrip(useMargin, distance)
}

// SparePartsForTrip estimates the repair parts to carry for a distance
func (vm *VehicleMission) SparePartsForTrip(distance float64) *resource.Manifest {
	if vm.vehicle == nil {
		return resource.NewManifest()
	}
	mm := vm.vehicle.MalfunctionManager()
	key := PartsKey{Vehicle: vm.vehicle.Name(), Distance: distance, ProfileRevision: mm.ProfileRevision()}
	return vm.parts.Estimate(key, func() *resource.Manifest {
		return vm.computeSpareParts(distance)
	})
}

func (vm *VehicleMission) computeSpareParts(distance float64) *resource.Manifest {
	tuning := vm.M.env.Tuning
	parts := resource.NewManifest()

	// Accident chance is per millisol of driving
	drivingTime := vm.EstimatedTripTime(true, distance)
	malfunctions := drivingTime * tuning.BaseAccidentChance * tuning.AverageNumMalfunction

	excluded := make(map[resource.ID]bool, len(tuning.ExcludedParts))
	for _, id := range tuning.ExcludedParts {
		excluded[id] = true
	}

	probabilities := vm.vehicle.MalfunctionManager().RepairPartProbabilities()
	for _, id := range vm.vehicle.MalfunctionManager().RepairParts() {
		if excluded[id] {
			continue
		}
		n := math.Round(probabilities[id] * malfunctions * tuning.PartsNumberModifier)
		if n > 0 {
			parts.Set(id, n)
		}
	}

	if wheels, ok := tuning.WheelOverrides[vm.vehicle.Type()]; ok {
		parts.Set(resource.Wheel, float64(wheels))
	}
	return parts
}

// SparePartsForRemainingMission estimates the parts for the distance still to drive
func (vm *VehicleMission) SparePartsForRemainingMission() *resource.Manifest {
	return vm.SparePartsForTrip(vm.ComputeTotalDistanceRemaining())
}

// RequiredResourcesToLoad is what the vehicle must carry to set off
func (vm *VehicleMission) RequiredResourcesToLoad() *resource.Manifest {
	return vm.M.behavior.ResourcesNeededForRemainingMission(true)
}

// OptionalResourcesToLoad is spare parts plus any cargo the mission kind wants to carry
func (vm *VehicleMission) OptionalResourcesToLoad() *resource.Manifest {
	result := vm.SparePartsForRemainingMission().Clone()
	if c, ok := vm.M.behavior.(cargoPlanner); ok {
		result.Merge(c.OptionalCargoToLoad())
	}
	return result
}

// RequiredEquipmentToLoad is equipment the mission kind cannot do without
func (vm *VehicleMission) RequiredEquipmentToLoad() *resource.Manifest {
	if e, ok := vm.M.behavior.(equipmentPlanner); ok {
		return e.EquipmentNeededForRemainingMission(true)
	}
	return resource.NewManifest()
}

// OptionalEquipmentToLoad is the containers needed for the optional amount resources
func (vm *VehicleMission) OptionalEquipmentToLoad() *resource.Manifest {
	result := resource.NewManifest()
	vm.OptionalResourcesToLoad().Each(func(id resource.ID, quantity float64) bool {
		if !id.IsAmount() {
			return true
		}
		container, capacity := resource.ContainerFor(id)
		result.Add(container, math.Ceil(quantity/capacity))
		return true
	})
	return result
}
