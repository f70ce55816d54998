package kinds

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
)

// BuildingSpec is what it takes to raise a building type: materials brought to the site and the
// share of the standard construction time
type BuildingSpec struct {
	Name      string
	Materials map[resource.ID]float64
	WorkShare float64
}

var buildingCatalogue = []BuildingSpec{
	{Name: "Storage Shed", Materials: map[resource.ID]float64{resource.Regolith: 150, resource.Pipe: 1}, WorkShare: 0.5},
	{Name: "Inflatable Greenhouse", Materials: map[resource.ID]float64{resource.Regolith: 200, resource.Pipe: 2, resource.Filter: 1}, WorkShare: 1},
	{Name: "Lander Hab", Materials: map[resource.ID]float64{resource.Regolith: 500, resource.Pipe: 4, resource.Battery: 2}, WorkShare: 1.5},
}

// LookupBuilding finds a building type by name
func LookupBuilding(name string) (BuildingSpec, bool) {
	for _, b := range buildingCatalogue {
		if b.Name == name {
			return b, true
		}
	}
	return BuildingSpec{}, false
}

// BuildingNames lists the catalogue
func BuildingNames() []string {
	out := make([]string, len(buildingCatalogue))
	for i, b := range buildingCatalogue {
		out[i] = b.Name
	}
	return out
}

// ConstructionSite is a building going up at a settlement
type ConstructionSite struct {
	name       string
	settlement string
	building   BuildingSpec
	workTime   float64
	loaded     *resource.Manifest
	workDone   float64
	confirmed  bool
	inProgress bool
	complete   bool
}

func newConstructionSite(name, settlement string, spec BuildingSpec, workTime float64) *ConstructionSite {
	return &ConstructionSite{
		name:       name,
		settlement: settlement,
		building:   spec,
		workTime:   workTime * spec.WorkShare,
		loaded:     resource.NewManifest(),
	}
}

func (s *ConstructionSite) Name() string               { return s.name }
func (s *ConstructionSite) Settlement() string         { return s.settlement }
func (s *ConstructionSite) Building() string           { return s.building.Name }
func (s *ConstructionSite) WorkTime() float64          { return s.workTime }
func (s *ConstructionSite) WorkDone() float64          { return s.workDone }
func (s *ConstructionSite) IsConfirmed() bool          { return s.confirmed }
func (s *ConstructionSite) IsInProgress() bool         { return s.inProgress }
func (s *ConstructionSite) IsComplete() bool           { return s.complete }
func (s *ConstructionSite) Loaded() *resource.Manifest { return s.loaded.Clone() }

// Missing is what still has to be brought to the site
func (s *ConstructionSite) Missing() *resource.Manifest {
	out := resource.NewManifest()
	for _, id := range s.materialIDs() {
		if left := s.building.Materials[id] - s.loaded.Get(id); left > 1e-6 {
			out.Set(id, left)
		}
	}
	return out
}

func (s *ConstructionSite) materialIDs() []resource.ID {
	ids := make([]resource.ID, 0, len(s.building.Materials))
	for id := range s.building.Materials {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LoadMaterials takes what the stock can give toward the missing materials.
// Returns true when nothing is missing afterwards.
func (s *ConstructionSite) LoadMaterials(stock *resource.Inventory) bool {
	s.Missing().Each(func(id resource.ID, quantity float64) bool {
		if got := stock.Retrieve(id, quantity); got > 0 {
			s.loaded.Add(id, got)
		}
		return true
	})
	return s.Missing().Len() == 0
}

// AddWork credits member-millisols of construction. Returns true once the building stands.
func (s *ConstructionSite) AddWork(millisols float64) bool {
	if s.complete || millisols <= 0 {
		return s.complete
	}
	s.workDone = min(s.workDone+millisols, s.workTime)
	if s.workDone >= s.workTime {
		s.complete = true
	}
	return s.complete
}

func (s *ConstructionSite) String() string {
	return fmt.Sprintf("%s (%s)", s.name, s.building.Name)
}

// SiteRegistry tracks the construction sites and finished buildings of every settlement
type SiteRegistry struct {
	mu        sync.Mutex
	sites     []*ConstructionSite
	buildings map[string][]string
	next      int
}

func NewSiteRegistry() *SiteRegistry {
	return &SiteRegistry{buildings: make(map[string][]string)}
}

// Claim hands out a site for a crew: an idle unfinished site of the building type, or a new one.
// An empty building picks an idle site of any type, or a new site for a random catalogue entry.
func (r *SiteRegistry) Claim(settlement, building string, workTime float64, random shared.RandomSource) (*ConstructionSite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sites {
		if s.settlement == settlement && !s.inProgress && !s.complete && (building == "" || s.building.Name == building) {
			s.inProgress = true
			return s, nil
		}
	}

	var spec BuildingSpec
	if building == "" {
		spec = buildingCatalogue[shared.RandomInt(random, len(buildingCatalogue)-1)]
	} else {
		found, ok := LookupBuilding(building)
		if !ok {
			return nil, shared.NewValidationError("building", "unknown building type "+building)
		}
		spec = found
	}
	r.next++
	site := newConstructionSite(fmt.Sprintf("Construction Site #%d", r.next), settlement, spec, workTime)
	site.inProgress = true
	r.sites = append(r.sites, site)
	return site, nil
}

// Release frees a site. A finished site becomes a building of its settlement.
func (r *SiteRegistry) Release(site *ConstructionSite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	site.inProgress = false
	if !site.complete {
		return
	}
	for i, s := range r.sites {
		if s == site {
			r.sites = append(r.sites[:i], r.sites[i+1:]...)
			r.buildings[site.settlement] = append(r.buildings[site.settlement], site.building.Name)
			return
		}
	}
}

// Sites lists the unfinished sites of a settlement
func (r *SiteRegistry) Sites(settlement string) []*ConstructionSite {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ConstructionSite
	for _, s := range r.sites {
		if s.settlement == settlement {
			out = append(out, s)
		}
	}
	return out
}

// Buildings lists what has been built at a settlement
func (r *SiteRegistry) Buildings(settlement string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.buildings[settlement]...)
}
