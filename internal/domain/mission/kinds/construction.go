package kinds

import (
	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

var (
	PhaseSelectSite   = mission.NewPhase("SELECT_SITE", "Selecting a construction site at {0}")
	PhasePrepareSite  = mission.NewPhase("PREPARE_SITE", "Preparing {0}")
	PhaseConstruction = mission.NewPhase("CONSTRUCTION", "Constructing {0}")

	StatusConstructionEnded          = mission.NewStatus("CONSTRUCTION_ENDED", false)
	StatusConstructionSiteNotFound   = mission.NewStatus("CONSTRUCTION_SITE_NOT_FOUND_OR_CREATED", true)
	StatusConstructionStageUndefined = mission.NewStatus("NEW_CONSTRUCTION_STAGE_NOT_DETERMINED", true)
)

const (
	constructionMinMembers         = 2
	buildingConstructionMinMembers = 3
	constructionMaxMembers         = 10
	// a settlement-chosen site needs half the preparation of a directed building project
	constructionPrepareShare = 0.5
)

// ConstructionOptions describes a construction project
type ConstructionOptions struct {
	Sites *SiteRegistry
	// Building names the catalogue entry; empty resumes an idle site or picks one at random
	Building    string
	NeedsReview bool
}

// Construction raises a building at the starting settlement without leaving it. Materials come out of
// the settlement stores during preparation and the crew's work accumulates on the site.
type Construction struct {
	mission.BaseBehavior

	sites       *SiteRegistry
	site        *ConstructionSite
	selectSite  bool
	prepareTime float64
	work        workClock
}

// NewConstruction plans a settlement construction: SELECT_SITE, PREPARE_SITE then CONSTRUCTION
func NewConstruction(env *mission.Environment, starter worker.Worker, opts ConstructionOptions) (*Construction, error) {
	return newConstruction(env, starter, opts, mission.TypeConstruction, constructionMinMembers, true)
}

// NewBuildingConstruction plans a directed building project that goes straight to PREPARE_SITE
func NewBuildingConstruction(env *mission.Environment, starter worker.Worker, opts ConstructionOptions) (*Construction, error) {
	return newConstruction(env, starter, opts, mission.TypeBuildingConstruction, buildingConstructionMinMembers, false)
}

func newConstruction(env *mission.Environment, starter worker.Worker, opts ConstructionOptions, t mission.Type, minMembers int, selectSite bool) (*Construction, error) {
	m, err := mission.NewMission(env, mission.Config{
		Type:       t,
		Starter:    starter,
		MinMembers: minMembers,
		Capacity:   constructionMaxMembers,
	})
	if err != nil {
		return nil, err
	}
	tuning := m.Environment().Tuning
	c := &Construction{
		BaseBehavior: mission.BaseBehavior{M: m},
		sites:        opts.Sites,
		selectSite:   selectSite,
		prepareTime:  tuning.SitePrepareMillisols,
		work:         newWorkClock(),
	}
	if selectSite {
		c.prepareTime *= constructionPrepareShare
		m.AddPhase(PhaseSelectSite)
	}
	m.AddPhase(PhasePrepareSite)
	m.AddPhase(PhaseConstruction)
	m.Attach(c)

	if c.sites == nil {
		c.sites = NewSiteRegistry()
	}
	if startingSettlement(m) == nil {
		m.EndMission(StatusConstructionSiteNotFound)
		return c, nil
	}
	site, err := c.sites.Claim(m.StartingSettlement(), opts.Building, tuning.ConstructionMillisols, env.Random)
	if err != nil {
		m.Logf("WARNING", "no construction stage: %v", err)
		m.EndMission(StatusConstructionStageUndefined)
		return c, nil
	}
	c.site = site
	m.Logf("INFO", "claimed %s", site)

	m.RecruitMembersForMission(starter)
	if m.IsDone() {
		return c, nil
	}
	if opts.NeedsReview {
		m.StartReview()
		return c, nil
	}
	m.CreateDesignation()
	c.startFirstPhase()
	return c, nil
}

func (c *Construction) Mission() *mission.Mission { return c.M }
func (c *Construction) Site() *ConstructionSite   { return c.site }
func (c *Construction) Sites() *SiteRegistry      { return c.sites }

func (c *Construction) startFirstPhase() {
	if c.selectSite {
		c.M.SetPhase(PhaseSelectSite, c.M.StartingSettlement())
		return
	}
	c.M.SetPhase(PhasePrepareSite, c.site.Name())
}

// DetermineNewPhase walks the site from selection to the finished building
func (c *Construction) DetermineNewPhase() bool {
	m := c.M
	switch m.Phase() {
	case mission.PhaseReviewing:
		c.startFirstPhase()
	case PhaseSelectSite:
		m.SetPhase(PhasePrepareSite, c.site.Name())
	case PhasePrepareSite:
		c.work.reset()
		m.SetPhase(PhaseConstruction, c.site.Name())
	case PhaseConstruction:
		m.EndMission(StatusConstructionEnded)
	default:
		return false
	}
	return true
}

func (c *Construction) PerformPhase(member worker.Worker) {
	switch c.M.Phase() {
	case PhaseSelectSite:
		c.performSelectSite(member)
	case PhasePrepareSite:
		c.performPrepareSite(member)
	case PhaseConstruction:
		c.performConstruction(member)
	}
}

// performSelectSite waits for the lead to confirm the site location
func (c *Construction) performSelectSite(member worker.Worker) {
	if !c.M.IsStarter(member) && !c.site.IsConfirmed() {
		return
	}
	c.site.confirmed = true
	c.M.SetPhaseEnded(true)
}

// performPrepareSite brings materials from the settlement stores; the phase ends once they are all on
// site and the preparation time has passed
func (c *Construction) performPrepareSite(member worker.Worker) {
	s := startingSettlement(c.M)
	if s == nil {
		c.M.EndMission(StatusConstructionSiteNotFound)
		return
	}
	if !c.site.LoadMaterials(s.Inventory()) {
		c.M.Logf("INFO", "waiting for %s at %s", manifestSummary(c.site.Missing()), c.site.Name())
		return
	}
	if c.M.PhaseDuration() >= c.prepareTime {
		c.site.confirmed = true
		c.M.SetPhaseEnded(true)
	}
}

// performConstruction credits each person's time since their last pulse to the site
func (c *Construction) performConstruction(member worker.Worker) {
	m := c.M
	if c.site.Missing().Len() > 0 {
		m.SetPhase(PhasePrepareSite, c.site.Name())
		return
	}
	if m.HasEmergency() || c.site.IsComplete() {
		c.finishWork()
		return
	}
	if !isSitePerson(member) {
		return
	}
	member.AssignTask(worker.Task{Name: worker.TaskConstruct, Mission: m.ID(), Target: c.site.Name()})
	if c.site.AddWork(c.work.elapsed(member.Name(), m.PhaseStartTime(), m.Environment().Clock.Now())) {
		m.Logf("INFO", "%s finished at %s", c.site.Building(), m.StartingSettlement())
		c.finishWork()
	}
}

func (c *Construction) finishWork() {
	for _, w := range c.M.Members() {
		if w.Task().Name == worker.TaskConstruct {
			w.AssignTask(worker.Task{})
		}
	}
	c.M.SetPhaseEnded(true)
}

// BeforeEnd hands the site back to the registry
func (c *Construction) BeforeEnd(status mission.Status) bool {
	if c.site != nil {
		c.sites.Release(c.site)
	}
	for _, w := range c.M.Members() {
		if w.Task().Name == worker.TaskConstruct {
			w.AssignTask(worker.Task{})
		}
	}
	return true
}

// EstimatedRemainingMissionTime is the preparation left plus the work left shared by the crew
func (c *Construction) EstimatedRemainingMissionTime(useMargin bool) float64 {
	if c.site == nil {
		return 0
	}
	total := 0.0
	switch c.M.Phase() {
	case PhaseConstruction:
	case PhasePrepareSite:
		total += max(c.prepareTime-c.M.PhaseDuration(), 0)
	default:
		total += c.prepareTime
	}
	crew := max(len(c.M.People()), 1)
	total += (c.site.WorkTime() - c.site.WorkDone()) / float64(crew)
	return total
}

func (c *Construction) ContributeData(data *mission.MissionData) {
	if c.site == nil {
		return
	}
	if data.Details == nil {
		data.Details = make(map[string]string)
	}
	data.Details["site"] = c.site.Name()
	data.Details["building"] = c.site.Building()
	data.Details["missing"] = manifestSummary(c.site.Missing())
	data.Details["work"] = formatProgress(c.site.WorkDone(), c.site.WorkTime())
}
