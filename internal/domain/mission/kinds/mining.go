package kinds

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/vehicle"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

var (
	PhaseMiningSite = mission.NewPhase("MINING_SITE", "Mining at {0}")

	StatusMiningSiteNotDetermined = mission.NewStatus("MINING_SITE_NOT_BE_DETERMINED", true)
	StatusLUVNotAvailable         = mission.NewStatus("LUV_NOT_AVAILABLE", true)
)

const (
	miningMinMembers = 2
	miningCapacity   = 4
	miningSiteName   = "mining site"
	miningLargeBags  = 4
	// luvMiningBonus multiplies the excavation rate while the light utility vehicle digs
	luvMiningBonus = 1.5
)

// MiningOptions describes a mining expedition
type MiningOptions struct {
	Surveyor    Surveyor
	NeedsReview bool
}

// Mining tows a light utility vehicle to a mineral site, excavates until the site time runs out or
// the rover is full, then drives home with the minerals.
type Mining struct {
	*mission.VehicleMission

	site        MiningSite
	luv         *vehicle.Vehicle
	luvReleased bool
	excavated   *resource.Manifest
	work        workClock
	siteDone    bool
}

// NewMining plans a mining expedition from the starter's settlement
func NewMining(env *mission.Environment, starter worker.Worker, opts MiningOptions) (*Mining, error) {
	vm, err := startVehicleMission(env, mission.Config{
		Type:       mission.TypeMining,
		Starter:    starter,
		MinMembers: miningMinMembers,
		Capacity:   miningCapacity,
	}, false)
	if err != nil {
		return nil, err
	}
	mi := &Mining{VehicleMission: vm, excavated: resource.NewManifest(), work: newWorkClock()}
	m := vm.M
	m.AddPhase(PhaseMiningSite)
	m.Attach(mi)

	if !vm.ReserveVehicle() {
		return mi, nil
	}
	fitCapacityToVehicle(vm)

	home := startingSettlement(m)
	if !mi.reserveLUV(home) {
		m.Logf("WARNING", "no light utility vehicle available")
		m.EndMission(StatusLUVNotAvailable)
		return mi, nil
	}

	surveyor := opts.Surveyor
	if surveyor == nil {
		surveyor = NewRandomSurveyor(env.Random)
	}
	site, ok := surveyor.MiningSite(home.Coordinates(), planningRangeKm(vm.Vehicle(), home))
	if !ok {
		m.Logf("WARNING", "no mining site within range")
		m.EndMission(StatusMiningSiteNotDetermined)
		return mi, nil
	}
	mi.site = site
	vm.AddNavpoint(site.Location, miningSiteName)
	vm.AddSettlementNavpoint(home)
	finishSetup(vm, starter, opts.NeedsReview)
	return mi, nil
}

func (mi *Mining) reserveLUV(home *settlement.Settlement) bool {
	if home == nil || mi.M.Environment().Vehicles == nil {
		return false
	}
	for _, name := range home.ParkedVehicles() {
		v := mi.M.Environment().Vehicles.Vehicle(name)
		if v != nil && v.Type() == vehicle.TypeLUV && v.IsUsable() {
			v.SetReservedForMission(true)
			mi.luv = v
			return true
		}
	}
	return false
}

func (mi *Mining) Mission() *mission.Mission     { return mi.M }
func (mi *Mining) Site() MiningSite              { return mi.site }
func (mi *Mining) LUV() *vehicle.Vehicle         { return mi.luv }
func (mi *Mining) Excavated() *resource.Manifest { return mi.excavated.Clone() }
func (mi *Mining) IsSiteDone() bool              { return mi.siteDone }

func (mi *Mining) atSite() bool {
	n, ok := mi.CurrentNavpoint()
	return ok && !n.IsSettlement() && n.Description() == miningSiteName
}

// DetermineNewPhase stops at the site to mine before the trip home
func (mi *Mining) DetermineNewPhase() bool {
	m := mi.M
	switch m.Phase() {
	case mission.PhaseTravelling:
		if mi.atSite() && !mi.siteDone && !m.IsAborted() {
			mi.work.reset()
			m.SetPhase(PhaseMiningSite, miningSiteName)
			return true
		}
	case PhaseMiningSite:
		mi.siteDone = true
		mi.StartTravellingPhase()
		return true
	}
	return mi.VehicleMission.DetermineNewPhase()
}

func (mi *Mining) PerformPhase(member worker.Worker) {
	switch mi.M.Phase() {
	case PhaseMiningSite:
		mi.performMining(member)
	case mission.PhaseDeparting:
		mi.VehicleMission.PerformPhase(member)
		mi.towLUV()
	default:
		mi.VehicleMission.PerformPhase(member)
	}
}

// performMining credits the member's time since their last pulse to excavation, split across the
// site's minerals by concentration
func (mi *Mining) performMining(member worker.Worker) {
	m := mi.M
	v := mi.Vehicle()
	tuning := m.Environment().Tuning
	if v == nil || m.PhaseDuration() >= tuning.MiningSiteMillisols || v.Inventory().RemainingCapacity() <= 0 || m.HasEmergency() {
		mi.endSite()
		return
	}
	if !isSitePerson(member) {
		return
	}
	member.AssignTask(worker.Task{Name: worker.TaskMineSite, Mission: m.ID(), Target: miningSiteName})

	now := m.Environment().Clock.Now()
	kg := tuning.MiningRate * mi.work.elapsed(member.Name(), m.PhaseStartTime(), now)
	if mi.luv != nil {
		kg *= luvMiningBonus
	}
	total := mi.site.TotalConcentration()
	if kg <= 0 || total <= 0 {
		return
	}
	for _, mineral := range resource.Minerals {
		share := mi.site.Concentrations[mineral] / total
		if share <= 0 {
			continue
		}
		if stored := v.Inventory().StoreAmount(mineral, kg*share); stored > 0 {
			mi.excavated.Add(mineral, stored)
		}
	}
}

func (mi *Mining) endSite() {
	for _, w := range mi.M.Members() {
		if w.Task().Name == worker.TaskMineSite {
			w.AssignTask(worker.Task{})
		}
	}
	mi.M.SetPhaseEnded(true)
}

// AbortPhase closes the site when the mission reroutes
func (mi *Mining) AbortPhase() {
	if mi.M.Phase() == PhaseMiningSite {
		mi.siteDone = true
	}
}

// towLUV hitches the light utility vehicle once the rover has left
func (mi *Mining) towLUV() {
	v := mi.Vehicle()
	if mi.luv == nil || v == nil || v.IsParked() || !mi.luv.IsParked() {
		return
	}
	if s := mi.M.Environment().Settlements.Find(mi.luv.Settlement()); s != nil {
		s.RemoveVehicle(mi.luv.Name())
	}
	mi.luv.Depart()
}

// releaseLUV parks the light utility vehicle where the rover stands and frees it
func (mi *Mining) releaseLUV() {
	if mi.luv == nil || mi.luvReleased {
		return
	}
	if v := mi.Vehicle(); v != nil && v.IsParked() && !mi.luv.IsParked() {
		if s := mi.M.Environment().Settlements.Find(v.Settlement()); s != nil {
			mi.luv.Park(s.Name(), s.Coordinates())
			s.ParkVehicle(mi.luv.Name())
		}
	}
	mi.luv.SetReservedForMission(false)
	mi.luvReleased = true
}

// BeforeEnd frees the light utility vehicle together with the rover
func (mi *Mining) BeforeEnd(status mission.Status) bool {
	if !mi.VehicleMission.BeforeEnd(status) {
		return false
	}
	mi.releaseLUV()
	return true
}

// EstimatedRemainingMissionTime adds the time still to spend at the site
func (mi *Mining) EstimatedRemainingMissionTime(useMargin bool) float64 {
	total := mi.VehicleMission.EstimatedRemainingMissionTime(useMargin)
	if !mi.siteDone {
		total += mi.siteTimeLeft()
	}
	return total
}

func (mi *Mining) siteTimeLeft() float64 {
	siteTime := mi.M.Environment().Tuning.MiningSiteMillisols
	if mi.M.Phase() == PhaseMiningSite {
		return max(siteTime-mi.M.PhaseDuration(), 0)
	}
	return siteTime
}

// ResourcesNeededForRemainingMission covers the route plus the stay at the site
func (mi *Mining) ResourcesNeededForRemainingMission(useMargin bool) *resource.Manifest {
	out := mi.VehicleMission.ResourcesNeededForRemainingMission(useMargin).Clone()
	if !mi.siteDone {
		out.Merge(lifeSupport(mi.VehicleMission, mi.siteTimeLeft(), useMargin))
	}
	return out
}

// EquipmentNeededForRemainingMission brings bags for the ore
func (mi *Mining) EquipmentNeededForRemainingMission(useMargin bool) *resource.Manifest {
	out := resource.NewManifest()
	if !mi.siteDone {
		out.Set(resource.LargeBag, miningLargeBags)
	}
	return out
}

func (mi *Mining) ContributeData(data *mission.MissionData) {
	mi.VehicleMission.ContributeData(data)
	if data.Details == nil {
		data.Details = make(map[string]string)
	}
	data.Details["site"] = mi.site.Location.String()
	data.Details["excavated"] = manifestSummary(mi.excavated)
	if mi.luv != nil {
		data.Details["luv"] = mi.luv.Name()
	}
}
