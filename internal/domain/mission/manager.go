package mission

import (
	"math"
	"sync"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

// MetaMission decides how likely a person is to start a kind of mission and builds it
type MetaMission interface {
	Type() Type

	// Probability is the weight of this kind for the person. Values that are not finite and
	// positive count as zero.
	Probability(person *worker.Person) float64

	// Construct creates the mission with the person as its starter
	Construct(person *worker.Person) (*Mission, error)
}

// ManagerListener is told when missions enter or leave the registry
type ManagerListener interface {
	MissionAdded(m *Mission)
	MissionRemoved(m *Mission)
}

type weightedMeta struct {
	meta        MetaMission
	probability float64
}

// probabilityCache holds the weights computed for one person at one instant
type probabilityCache struct {
	person  string
	at      shared.MarsTime
	valid   bool
	entries []weightedMeta
	total   float64
}

// Manager is the registry of live missions and picks new missions for idle people.
//
// Invariants:
// - a done mission is never returned by a read
// - the probability cache is only reused for the same person at the same instant
type Manager struct {
	mu        sync.RWMutex
	env       *Environment
	missions  []*Mission
	metas     []MetaMission
	listeners []ManagerListener
	cache     probabilityCache
}

// NewManager creates a manager and registers it as the environment's membership index
func NewManager(env *Environment, metas ...MetaMission) *Manager {
	env.withDefaults()
	mgr := &Manager{env: env, metas: metas}
	if env.Membership == nil {
		env.Membership = mgr
	}
	return mgr
}

// RegisterMetaMission adds a mission kind to the selection
func (mgr *Manager) RegisterMetaMission(meta MetaMission) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.metas = append(mgr.metas, meta)
	mgr.cache.valid = false
}

// MetaMissions returns the registered kinds in registration order
func (mgr *Manager) MetaMissions() []MetaMission {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	out := make([]MetaMission, len(mgr.metas))
	copy(out, mgr.metas)
	return out
}

// MetaMissionFor looks up a registered kind
func (mgr *Manager) MetaMissionFor(t Type) MetaMission {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	for _, meta := range mgr.metas {
		if meta.Type() == t {
			return meta
		}
	}
	return nil
}

// Identifiers issues mission IDs and designation numbers
func (mgr *Manager) Identifiers() Identifiers {
	return mgr.env.IDs
}

func (mgr *Manager) AddListener(l ManagerListener) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.listeners = append(mgr.listeners, l)
}

func (mgr *Manager) RemoveListener(l ManagerListener) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	for i, existing := range mgr.listeners {
		if existing == l {
			mgr.listeners = append(mgr.listeners[:i], mgr.listeners[i+1:]...)
			return
		}
	}
}

func (mgr *Manager) snapshotListeners() []ManagerListener {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return append([]ManagerListener(nil), mgr.listeners...)
}

// AddMission registers a mission. Nil, done and already registered missions are ignored.
func (mgr *Manager) AddMission(m *Mission) bool {
	if m == nil || m.IsDone() {
		return false
	}
	mgr.mu.Lock()
	for _, existing := range mgr.missions {
		if existing == m {
			mgr.mu.Unlock()
			return false
		}
	}
	mgr.missions = append(mgr.missions, m)
	mgr.mu.Unlock()

	mgr.env.log("INFO", "mission added", map[string]interface{}{
		"mission_id": m.ID(),
		"mission":    m.Name(),
		"settlement": m.StartingSettlement(),
	})
	for _, l := range mgr.snapshotListeners() {
		l.MissionAdded(m)
	}
	return true
}

// RemoveMission unregisters a mission
func (mgr *Manager) RemoveMission(m *Mission) bool {
	mgr.mu.Lock()
	idx := -1
	for i, existing := range mgr.missions {
		if existing == m {
			idx = i
			break
		}
	}
	if idx < 0 {
		mgr.mu.Unlock()
		return false
	}
	mgr.missions = append(mgr.missions[:idx], mgr.missions[idx+1:]...)
	mgr.mu.Unlock()

	for _, l := range mgr.snapshotListeners() {
		l.MissionRemoved(m)
	}
	return true
}

// cleanMissions drops done missions and tells listeners about each
func (mgr *Manager) cleanMissions() {
	mgr.mu.Lock()
	var removed []*Mission
	kept := mgr.missions[:0]
	for _, m := range mgr.missions {
		if m.IsDone() {
			removed = append(removed, m)
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(mgr.missions); i++ {
		mgr.missions[i] = nil
	}
	mgr.missions = kept
	mgr.mu.Unlock()

	if len(removed) == 0 {
		return
	}
	listeners := mgr.snapshotListeners()
	for _, m := range removed {
		mgr.env.log("INFO", "mission removed", map[string]interface{}{
			"mission_id": m.ID(),
			"mission":    m.Name(),
			"statuses":   m.statuses.Names(),
		})
		for _, l := range listeners {
			l.MissionRemoved(m)
		}
	}
}

// Missions returns the live missions in registration order
func (mgr *Manager) Missions() []*Mission {
	mgr.cleanMissions()
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	out := make([]*Mission, len(mgr.missions))
	copy(out, mgr.missions)
	return out
}

// Mission finds a live mission by ID
func (mgr *Manager) Mission(id int) *Mission {
	for _, m := range mgr.Missions() {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

// MissionFor returns the live mission the worker belongs to, or nil
func (mgr *Manager) MissionFor(w worker.Worker) *Mission {
	if w == nil {
		return nil
	}
	for _, m := range mgr.Missions() {
		if m.HasMember(w) {
			return m
		}
	}
	return nil
}

// HasMission reports whether the worker belongs to a live mission
func (mgr *Manager) HasMission(w worker.Worker) bool {
	return mgr.MissionFor(w) != nil
}

// MissionForVehicle returns the live mission holding the vehicle, or nil
func (mgr *Manager) MissionForVehicle(name string) *Mission {
	for _, m := range mgr.Missions() {
		vm, ok := VehicleMissionOf(m)
		if ok && vm.vehicle != nil && vm.vehicle.Name() == name {
			return m
		}
	}
	return nil
}

// MissionsForSettlement returns the live missions started at a settlement
func (mgr *Manager) MissionsForSettlement(settlement string) []*Mission {
	var out []*Mission
	for _, m := range mgr.Missions() {
		if m.StartingSettlement() == settlement {
			out = append(out, m)
		}
	}
	return out
}

// PendingMissions returns the missions of a settlement whose plan awaits review
func (mgr *Manager) PendingMissions(settlement string) []*Mission {
	var out []*Mission
	for _, m := range mgr.MissionsForSettlement(settlement) {
		if m.Phase() == PhaseReviewing && m.Plan() != nil && m.Plan().Status() == PlanPending {
			out = append(out, m)
		}
	}
	return out
}

// NumParticularMissions counts live missions of a type started at a settlement
func (mgr *Manager) NumParticularMissions(t Type, settlement string) int {
	n := 0
	for _, m := range mgr.MissionsForSettlement(settlement) {
		if m.Type() == t {
			n++
		}
	}
	return n
}

// TimePassing drops missions that finished since the last pulse
func (mgr *Manager) TimePassing() {
	mgr.cleanMissions()
}

// TotalMissionProbability sums the weights of every kind for the person
func (mgr *Manager) TotalMissionProbability(person *worker.Person) float64 {
	return mgr.probabilities(person).total
}

// probabilities computes (or reuses) the weights for the person at the current instant
func (mgr *Manager) probabilities(person *worker.Person) probabilityCache {
	now := mgr.env.Clock.Now()
	mgr.mu.RLock()
	if mgr.cache.valid && mgr.cache.person == person.Name() && mgr.cache.at == now {
		defer mgr.mu.RUnlock()
		return mgr.cache
	}
	metas := append([]MetaMission(nil), mgr.metas...)
	mgr.mu.RUnlock()

	// meta missions may read the registry, so weights are computed without the lock
	c := probabilityCache{person: person.Name(), at: now, valid: true}
	for _, meta := range metas {
		p := meta.Probability(person)
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			mgr.env.log("ERROR", "invalid mission probability", map[string]interface{}{
				"mission_type": meta.Type().String(),
				"person":       person.Name(),
				"probability":  p,
			})
			p = 0
		}
		c.entries = append(c.entries, weightedMeta{meta: meta, probability: p})
		c.total += p
	}
	mgr.mu.Lock()
	mgr.cache = c
	mgr.mu.Unlock()
	return c
}

// NewMission picks a kind by weight and builds it for the person. The caller checks
// TotalMissionProbability first; a zero total here panics.
func (mgr *Manager) NewMission(person *worker.Person) (*Mission, error) {
	c := mgr.probabilities(person)
	if c.total <= 0 {
		panic(shared.NewZeroMissionProbabilityError(person.Name()))
	}

	r := shared.RandomDouble(mgr.env.Random, c.total)
	var selected MetaMission
	for _, e := range c.entries {
		if r < e.probability {
			selected = e.meta
			break
		}
		r -= e.probability
	}
	if selected == nil {
		// rounding left r at the very top of the range
		for i := len(c.entries) - 1; i >= 0; i-- {
			if c.entries[i].probability > 0 {
				selected = c.entries[i].meta
				break
			}
		}
	}
	if selected == nil {
		panic(shared.NewZeroMissionProbabilityError(person.Name()))
	}

	m, err := selected.Construct(person)
	if err != nil {
		return nil, err
	}
	mgr.AddMission(m)
	return m, nil
}

// StartMission builds a mission of a given kind for the person
func (mgr *Manager) StartMission(person *worker.Person, t Type) (*Mission, error) {
	meta := mgr.MetaMissionFor(t)
	if meta == nil {
		return nil, shared.NewValidationError("type", "unknown mission type "+t.String())
	}
	m, err := meta.Construct(person)
	if err != nil {
		return nil, err
	}
	mgr.AddMission(m)
	return m, nil
}

// ApproveMissionPlan settles a pending plan. An approved mission moves on at its next pulse.
func (mgr *Manager) ApproveMissionPlan(id int, by string, approve bool) error {
	m := mgr.Mission(id)
	if m == nil {
		return shared.NewMissionNotFoundError(id)
	}
	if m.Plan() == nil {
		return shared.NewPlanReviewError(by, "mission has no plan under review")
	}
	if approve {
		return m.Plan().Approve(by)
	}
	return m.Plan().Reject(by)
}

// ScoreMissionPlan adds a reviewer's score to a pending plan
func (mgr *Manager) ScoreMissionPlan(id int, reviewer *worker.Person, score float64) error {
	m := mgr.Mission(id)
	if m == nil {
		return shared.NewMissionNotFoundError(id)
	}
	if m.Plan() == nil {
		return shared.NewPlanReviewError(reviewer.Name(), "mission has no plan under review")
	}
	if err := m.Plan().AddReview(reviewer.Name(), reviewer.Role(), score, mgr.env.Clock.Now()); err != nil {
		return err
	}
	m.Logf("INFO", "%s scored the plan %.1f, plan is %s", reviewer.Name(), score, m.Plan().Status())
	return nil
}

// vehicleEngine is implemented by every behaviour built on a VehicleMission
type vehicleEngine interface {
	VehicleEngine() *VehicleMission
}

// VehicleMissionOf finds the travel engine behind a mission, if any
func VehicleMissionOf(m *Mission) (*VehicleMission, bool) {
	if e, ok := m.behavior.(vehicleEngine); ok {
		return e.VehicleEngine(), true
	}
	return nil, false
}
