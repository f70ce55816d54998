package kinds

import (
	"fmt"
	"strings"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

var (
	PhaseCollectResources = mission.NewPhase("COLLECT_RESOURCES", "Collecting resources at {0}")

	StatusNoCollectionSites = mission.NewStatus("NO_COLLECTION_SITES", true)
)

const (
	collectMinMembers = 2
	// collectMaxMembers keeps the airlock from crowding during site work
	collectMaxMembers = 6
	collectTrips      = 6
	collectSitePrefix = "Prospecting Site #"
)

// CollectOptions describes a collection run
type CollectOptions struct {
	Surveyor    Surveyor
	Sites       int // number of collection sites, default 1
	Containers  int // containers to bring, default derived from the crew
	NeedsReview bool
}

// CollectResources drives out to one or more sites and gathers ice or regolith into containers.
// Each site is worked until its goal is met or the site time runs out.
type CollectResources struct {
	*mission.VehicleMission

	resourceID resource.ID
	container  resource.ID
	containers int
	siteGoal   float64
	siteIndex  int
	siteTotal  int
	collected  []float64
	work       workClock
}

// NewCollectIce plans an ice collection run
func NewCollectIce(env *mission.Environment, starter worker.Worker, opts CollectOptions) (*CollectResources, error) {
	return newCollect(env, starter, opts, mission.TypeCollectIce, resource.Ice)
}

// NewCollectRegolith plans a regolith collection run
func NewCollectRegolith(env *mission.Environment, starter worker.Worker, opts CollectOptions) (*CollectResources, error) {
	return newCollect(env, starter, opts, mission.TypeCollectRegolith, resource.Regolith)
}

func newCollect(env *mission.Environment, starter worker.Worker, opts CollectOptions, t mission.Type, id resource.ID) (*CollectResources, error) {
	vm, err := startVehicleMission(env, mission.Config{
		Type:       t,
		Starter:    starter,
		MinMembers: collectMinMembers,
		Capacity:   collectMaxMembers,
	}, false)
	if err != nil {
		return nil, err
	}
	container, capacity := resource.ContainerFor(id)
	c := &CollectResources{VehicleMission: vm, resourceID: id, container: container, work: newWorkClock()}
	m := vm.M
	m.AddPhase(PhaseCollectResources)
	m.Attach(c)

	if !vm.ReserveVehicle() {
		return c, nil
	}
	fitCapacityToVehicle(vm)

	numSites := opts.Sites
	if numSites <= 0 {
		numSites = 1
	}
	home := startingSettlement(m)
	surveyor := opts.Surveyor
	if surveyor == nil {
		surveyor = NewRandomSurveyor(env.Random)
	}
	var sites []shared.Coordinates
	if home != nil {
		sites = surveyor.CollectionSites(home.Coordinates(), planningRangeKm(vm.Vehicle(), home), numSites)
	}
	if len(sites) == 0 {
		m.Logf("WARNING", "no collection sites within range")
		m.EndMission(StatusNoCollectionSites)
		return c, nil
	}
	sites = orderByNearest(home.Coordinates(), sites)
	vm.AddNavpoints(sites, func(i int) string { return fmt.Sprintf("%s%d", collectSitePrefix, i+1) })
	vm.AddSettlementNavpoint(home)

	c.siteTotal = len(sites)
	c.collected = make([]float64, len(sites))
	c.containers = opts.Containers
	if c.containers <= 0 {
		crew := (m.Capacity() + m.MemberCount()) / 2
		c.containers = max(int(float64(crew)*1.5), 1)
	}
	c.siteGoal = collectTrips * capacity * float64(c.containers) / float64(len(sites))
	m.Logf("INFO", "aiming for %.0f kg of %s per site", c.siteGoal, id.Name())

	finishSetup(vm, starter, opts.NeedsReview)
	return c, nil
}

func (c *CollectResources) Mission() *mission.Mission { return c.M }
func (c *CollectResources) Resource() resource.ID     { return c.resourceID }
func (c *CollectResources) SiteGoal() float64         { return c.siteGoal }
func (c *CollectResources) SitesVisited() int         { return c.siteIndex }

// Collected returns the kg gathered at each site
func (c *CollectResources) Collected() []float64 {
	return append([]float64(nil), c.collected...)
}

// TotalCollected sums every site
func (c *CollectResources) TotalCollected() float64 {
	total := 0.0
	for _, kg := range c.collected {
		total += kg
	}
	return total
}

func (c *CollectResources) atSite() bool {
	n, ok := c.CurrentNavpoint()
	return ok && !n.IsSettlement() && strings.HasPrefix(n.Description(), collectSitePrefix)
}

// DetermineNewPhase works every site on the route before heading home
func (c *CollectResources) DetermineNewPhase() bool {
	m := c.M
	switch m.Phase() {
	case mission.PhaseTravelling:
		if c.atSite() && c.siteIndex < c.siteTotal && !m.IsAborted() {
			c.work.reset()
			n, _ := c.CurrentNavpoint()
			m.SetPhase(PhaseCollectResources, n.Description())
			return true
		}
	case PhaseCollectResources:
		c.siteIndex++
		c.StartTravellingPhase()
		return true
	}
	return c.VehicleMission.DetermineNewPhase()
}

func (c *CollectResources) PerformPhase(member worker.Worker) {
	if c.M.Phase() == PhaseCollectResources {
		c.performCollecting(member)
		return
	}
	c.VehicleMission.PerformPhase(member)
}

func (c *CollectResources) performCollecting(member worker.Worker) {
	m := c.M
	v := c.Vehicle()
	tuning := m.Environment().Tuning
	if v == nil || c.siteIndex >= c.siteTotal {
		m.SetPhaseEnded(true)
		return
	}
	if c.collected[c.siteIndex] >= c.siteGoal || m.PhaseDuration() >= tuning.CollectionSiteMillisols ||
		v.Inventory().RemainingCapacity() <= 0 || m.HasEmergency() {
		c.endSite()
		return
	}
	if !isSitePerson(member) {
		return
	}
	n, _ := c.CurrentNavpoint()
	member.AssignTask(worker.Task{Name: worker.TaskCollect, Mission: m.ID(), Target: n.Description()})

	kg := tuning.CollectionRate * c.work.elapsed(member.Name(), m.PhaseStartTime(), m.Environment().Clock.Now())
	kg = min(kg, c.siteGoal-c.collected[c.siteIndex])
	if kg <= 0 {
		return
	}
	c.collected[c.siteIndex] += v.Inventory().StoreAmount(c.resourceID, kg)
}

func (c *CollectResources) endSite() {
	for _, w := range c.M.Members() {
		if w.Task().Name == worker.TaskCollect {
			w.AssignTask(worker.Task{})
		}
	}
	c.M.SetPhaseEnded(true)
}

// AbortPhase gives up the remaining sites when the mission reroutes
func (c *CollectResources) AbortPhase() {
	c.siteIndex = c.siteTotal
}

func (c *CollectResources) sitesLeft() int {
	return max(c.siteTotal-c.siteIndex, 0)
}

// EstimatedRemainingMissionTime adds the time still to spend at the sites
func (c *CollectResources) EstimatedRemainingMissionTime(useMargin bool) float64 {
	return c.VehicleMission.EstimatedRemainingMissionTime(useMargin) +
		float64(c.sitesLeft())*c.M.Environment().Tuning.CollectionSiteMillisols
}

// ResourcesNeededForRemainingMission covers the route plus the stays at the sites
func (c *CollectResources) ResourcesNeededForRemainingMission(useMargin bool) *resource.Manifest {
	out := c.VehicleMission.ResourcesNeededForRemainingMission(useMargin).Clone()
	stay := float64(c.sitesLeft()) * c.M.Environment().Tuning.CollectionSiteMillisols
	out.Merge(lifeSupport(c.VehicleMission, stay, useMargin))
	return out
}

// EquipmentNeededForRemainingMission brings the containers for the haul
func (c *CollectResources) EquipmentNeededForRemainingMission(useMargin bool) *resource.Manifest {
	out := resource.NewManifest()
	if c.sitesLeft() > 0 {
		out.Set(c.container, float64(c.containers))
	}
	return out
}

func (c *CollectResources) ContributeData(data *mission.MissionData) {
	c.VehicleMission.ContributeData(data)
	if data.Details == nil {
		data.Details = make(map[string]string)
	}
	data.Details["resource"] = c.resourceID.Name()
	data.Details["site_goal_kg"] = fmt.Sprintf("%.1f", c.siteGoal)
	data.Details["collected_kg"] = fmt.Sprintf("%.1f", c.TotalCollected())
	data.Details["sites_visited"] = fmt.Sprintf("%d/%d", c.siteIndex, c.siteTotal)
}
