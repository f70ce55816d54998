package mission

import (
	"fmt"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
	"github.com/mars-sim/mars-sim-sub009/pkg/utils"
)

// Experience scores recorded when a mission is accomplished
const (
	experienceSick   = 2.0
	experienceLead   = 6.0
	experienceMember = 3.0
)

// Config describes a mission to create
type Config struct {
	Type       Type
	Name       string
	Starter    worker.Worker
	Settlement string // defaults to the starter's current settlement
	MinMembers int
	Capacity   int
	Priority   int // 1..5, defaults to 3
}

// Mission is the generic lifecycle engine shared by every mission kind.
// Kind-specific behaviour plugs in through a Behavior.
//
// Invariants:
// - done never reverts to false
// - the current phase is always one registered through AddPhase
// - members never exceed capacity and never repeat
// - the starter is a member from construction until the mission ends
type Mission struct {
	id               int
	mtype            Type
	name             string
	designation      string
	env              *Environment
	behavior         Behavior
	statuses         StatusList
	phases           []Phase
	phase            Phase
	phaseEnded       bool
	phaseStart       shared.MarsTime
	phaseDescription string
	minMembers       int
	capacity         int
	members          []worker.Worker
	starter          worker.Worker
	settlement       string
	plan             *Planning
	priority         int
	lifecycle        *shared.LifecycleStateMachine
	done             bool
	aborted          bool
	travels          bool
	listeners        []Listener
	log              Log
}

// NewMission creates a mission and enlists its starter
func NewMission(env *Environment, cfg Config) (*Mission, error) {
	if env == nil {
		return nil, shared.NewValidationError("environment", "cannot be nil")
	}
	if cfg.Type == "" {
		return nil, shared.NewValidationError("type", "cannot be empty")
	}
	if cfg.Starter == nil {
		return nil, shared.NewValidationError("starter", "cannot be nil")
	}
	if cfg.MinMembers < 0 {
		return nil, shared.NewValidationError("min_members", "must be >= 0")
	}
	if cfg.Capacity < 1 || cfg.Capacity < cfg.MinMembers {
		return nil, shared.NewValidationError("capacity", fmt.Sprintf("must be >= max(1, min members), got %d", cfg.Capacity))
	}
	if cfg.Priority == 0 {
		cfg.Priority = 3
	}
	if cfg.Priority < 1 || cfg.Priority > 5 {
		return nil, shared.NewValidationError("priority", "must be between 1 and 5")
	}
	if cfg.Settlement == "" {
		cfg.Settlement = cfg.Starter.CurrentSettlement()
	}
	if cfg.Name == "" {
		cfg.Name = string(cfg.Type)
	}

	env.withDefaults()
	m := &Mission{
		id:         env.nextMissionID(),
		mtype:      cfg.Type,
		name:       cfg.Name,
		env:        env,
		minMembers: cfg.MinMembers,
		capacity:   cfg.Capacity,
		starter:    cfg.Starter,
		settlement: cfg.Settlement,
		priority:   cfg.Priority,
		lifecycle:  shared.NewLifecycleStateMachine(env.Clock),
	}
	m.behavior = &BaseBehavior{M: m}
	m.AddPhase(PhaseReviewing)
	m.AddPhase(PhaseCompleted)
	m.AddPhase(PhaseAborted)

	m.Record(HistoricalMissionStart, "", cfg.Starter.Name())
	m.AddMember(cfg.Starter)
	return m, nil
}

// Attach installs the behaviour of a mission kind
func (m *Mission) Attach(b Behavior) {
	m.behavior = b
}

// Getters

func (m *Mission) ID() int                                  { return m.id }
func (m *Mission) Type() Type                               { return m.mtype }
func (m *Mission) Name() string                             { return m.name }
func (m *Mission) Designation() string                      { return m.designation }
func (m *Mission) Behavior() Behavior                       { return m.behavior }
func (m *Mission) Environment() *Environment                { return m.env }
func (m *Mission) Phase() Phase                             { return m.phase }
func (m *Mission) PhaseEnded() bool                         { return m.phaseEnded }
func (m *Mission) PhaseStartTime() shared.MarsTime          { return m.phaseStart }
func (m *Mission) PhaseDescription() string                 { return m.phaseDescription }
func (m *Mission) MinMembers() int                          { return m.minMembers }
func (m *Mission) Capacity() int                            { return m.capacity }
func (m *Mission) Starter() worker.Worker                   { return m.starter }
func (m *Mission) StartingSettlement() string               { return m.settlement }
func (m *Mission) Plan() *Planning                          { return m.plan }
func (m *Mission) Priority() int                            { return m.priority }
func (m *Mission) Lifecycle() *shared.LifecycleStateMachine { return m.lifecycle }
func (m *Mission) IsDone() bool                             { return m.done }
func (m *Mission) IsAborted() bool                          { return m.aborted }
func (m *Mission) Statuses() []Status                       { return m.statuses.All() }
func (m *Mission) MissionLog() []LogEntry                   { return m.log.Entries() }

// HasStatus reports whether a status flag is present
func (m *Mission) HasStatus(s Status) bool {
	return m.statuses.Has(s)
}

// PhaseDuration returns the millisols spent in the current phase
func (m *Mission) PhaseDuration() float64 {
	return m.env.Clock.Now().Sub(m.phaseStart)
}

// IsStarter reports whether a worker started this mission
func (m *Mission) IsStarter(w worker.Worker) bool {
	return w != nil && m.starter != nil && w.Name() == m.starter.Name()
}

// Listeners

func (m *Mission) AddListener(l Listener) {
	m.listeners = append(m.listeners, l)
}

func (m *Mission) RemoveListener(l Listener) {
	for i, existing := range m.listeners {
		if existing == l {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

func (m *Mission) fire(t EventType, target interface{}) {
	event := Event{Type: t, Mission: m, Target: target}
	for _, l := range append([]Listener(nil), m.listeners...) {
		l.MissionUpdate(event)
	}
}

// Record appends a historical event about the mission
func (m *Mission) Record(t HistoricalEventType, cause, who string) {
	m.env.Events.RecordEvent(NewHistoricalEvent(t, m, cause, who))
}

// Logf writes to the engine logger tagged with the mission
func (m *Mission) Logf(level, format string, args ...interface{}) {
	m.env.log(level, fmt.Sprintf(format, args...), map[string]interface{}{
		"mission_id":  m.id,
		"mission":     m.name,
		"designation": m.designation,
		"phase":       m.phase.Name(),
	})
}

// Phases

// AddPhase registers a phase the mission may enter
func (m *Mission) AddPhase(p Phase) {
	if !m.isRegistered(p) {
		m.phases = append(m.phases, p)
	}
}

func (m *Mission) isRegistered(p Phase) bool {
	for _, existing := range m.phases {
		if existing == p {
			return true
		}
	}
	return false
}

// Phases returns the registered phases in registration order
func (m *Mission) Phases() []Phase {
	out := make([]Phase, len(m.phases))
	copy(out, m.phases)
	return out
}

// SetPhase enters a registered phase. Entering an unregistered phase is a programming error and panics.
func (m *Mission) SetPhase(p Phase, subject string) {
	if !m.isRegistered(p) {
		panic(shared.NewPhaseNotRegisteredError(m.name, p.Name()))
	}
	now := m.env.Clock.Now()
	m.phase = p
	m.phaseEnded = false
	m.phaseStart = now
	m.phaseDescription = p.Describe(subject)
	m.log.Add(now, m.phaseDescription, m.starterName())

	if p == PhaseTravelling && m.lifecycle.EmbarkedAt() == nil {
		_ = m.lifecycle.Embark()
	}

	m.fire(EventPhase, p)
	m.fire(EventPhaseDescription, m.phaseDescription)
	m.Record(HistoricalMissionPhase, p.Name(), m.starterName())
}

// SetPhaseDescription replaces the human readable description of the current phase
func (m *Mission) SetPhaseDescription(description string) {
	if description == m.phaseDescription {
		return
	}
	m.phaseDescription = description
	m.fire(EventPhaseDescription, description)
}

// SetPhaseEnded flags the current phase as finished; the next pulse picks a new phase
func (m *Mission) SetPhaseEnded(ended bool) {
	m.phaseEnded = ended
}

// Statuses

// AddStatus appends a status flag. Returns true when it was not present before.
func (m *Mission) AddStatus(s Status) bool {
	if !m.statuses.Add(s) {
		return false
	}
	m.log.Add(m.env.Clock.Now(), "Status: "+s.String(), m.starterName())
	m.Logf("INFO", "status flag %s added", s)
	return true
}

// Pulse

// PerformMission lets a member act for one pulse.
// A finished phase is replaced before the phase body runs. Returns false when the member may not act.
func (m *Mission) PerformMission(member worker.Worker) bool {
	if !m.behavior.CanParticipate(member) {
		return false
	}
	if m.phaseEnded && !m.done {
		if !m.behavior.DetermineNewPhase() {
			m.Logf("WARNING", "no phase transition from %s", m.phase)
		}
	}
	if !m.done {
		m.performPhase(member)
	}
	return true
}

func (m *Mission) performPhase(member worker.Worker) {
	switch {
	case m.phase.IsZero():
		m.Logf("ERROR", "current phase is null")
		m.EndMission(StatusPhaseIsNull)
	case m.phase == PhaseReviewing:
		m.requestReviewPhase()
	default:
		m.behavior.PerformPhase(member)
	}
}

// StartReview opens the mission plan and enters REVIEWING
func (m *Mission) StartReview() {
	population := 0
	if s := m.env.Settlements.Find(m.settlement); s != nil {
		population = s.Population()
	}
	now := m.env.Clock.Now()
	m.plan = NewPlanning(m.id, m.starterName(), now.Sol(), population, m.env.Tuning.PassingScore)
	m.SetPhase(PhaseReviewing, m.settlement)

	auto := m.env.Tuning.AutoApprovePopulation
	if m.plan.MinReviewers() == 0 || (auto > 0 && population <= auto) {
		_ = m.plan.Approve("settlement")
	}
}

func (m *Mission) requestReviewPhase() {
	if m.plan == nil {
		panic(shared.NewMissionError(m.name, "REVIEWING without a mission plan"))
	}
	switch m.plan.Status() {
	case PlanNotApproved:
		m.Logf("INFO", "mission plan not approved")
		m.EndMission(StatusNotApproved)
	case PlanApproved:
		m.CreateDesignation()
		if !m.travels {
			for _, p := range m.People() {
				p.SetOnCall(true)
			}
		}
		m.SetPhaseEnded(true)
	}
}

// CreateDesignation assigns the public designation once
func (m *Mission) CreateDesignation() {
	if m.designation != "" {
		return
	}
	code := utils.SettlementCode(m.settlement)
	if s := m.env.Settlements.Find(m.settlement); s != nil {
		code = s.Code()
	}
	id := m.env.nextDesignationID(code)
	m.designation = utils.MissionDesignation(m.mtype.Initial(), m.env.Clock.Now().Sol(), code, id)
	m.fire(EventDesignation, m.designation)
}

// Capacity

// SetCapacity changes the member limit; it never drops below the current member count
func (m *Mission) SetCapacity(capacity int) {
	if capacity < len(m.members) {
		capacity = len(m.members)
	}
	m.capacity = capacity
	m.fire(EventCapacity, capacity)
}

// SetMinMembers changes the member minimum
func (m *Mission) SetMinMembers(min int) {
	m.minMembers = min
}

// Ending

// EndMission finishes the mission once. The behaviour may defer the end (for example while crew is
// still aboard a vehicle); a later call completes it. Failure statuses make the mission end aborted.
func (m *Mission) EndMission(status Status) {
	if m.done {
		return
	}
	m.AddStatus(status)
	if !m.behavior.BeforeEnd(status) {
		return
	}

	if m.aborted || m.statuses.HasFailure() {
		m.aborted = true
		m.phaseEnded = true
		m.SetPhase(PhaseAborted, m.name)
		_ = m.lifecycle.Abort()
	} else {
		m.AddStatus(StatusAccomplished)
		m.recordExperience()
		m.SetPhase(PhaseCompleted, m.name)
		_ = m.lifecycle.Accomplish()
	}

	m.done = true
	m.Logf("INFO", "mission ended with statuses %v", m.statuses.Names())
	m.fire(EventEndMission, m.statuses.All())

	for _, w := range m.Members() {
		m.RemoveMember(w)
	}
}

func (m *Mission) recordExperience() {
	for _, p := range m.People() {
		score := experienceMember
		switch {
		case p.HasSeriousMedicalProblems():
			score = experienceSick
		case m.IsStarter(p):
			score = experienceLead
		}
		p.AddMissionExperience(string(m.mtype), score)
	}
}

// Abort ends the mission for a reason. A reason seen for the first time lets the behaviour prepare
// (for example reroute to safety) and registers the historical event.
func (m *Mission) Abort(status Status, event HistoricalEventType) {
	if m.done {
		return
	}
	if !m.statuses.Has(status) {
		m.behavior.PrepareAbort(status, event)
		if m.done {
			return
		}
		m.AddStatus(status)
		if event != "" {
			m.Record(event, status.String(), m.starterName())
		}
	}
	m.aborted = true
	m.EndMission(status)
}

// AbortByPlayer aborts on operator request
func (m *Mission) AbortByPlayer() {
	m.Abort(StatusAbortedByPlayer, "")
}

// Emergency predicates

// HasDangerousMedicalProblems reports whether any person aboard needs urgent treatment
func (m *Mission) HasDangerousMedicalProblems() bool {
	for _, p := range m.People() {
		if p.HasSeriousMedicalProblems() {
			return true
		}
	}
	return false
}

// HasDangerousMedicalProblemsAllCrew reports whether every person on the mission needs urgent treatment
func (m *Mission) HasDangerousMedicalProblemsAllCrew() bool {
	people := m.People()
	if len(people) == 0 {
		return false
	}
	for _, p := range people {
		if !p.HasSeriousMedicalProblems() {
			return false
		}
	}
	return true
}

// HasAnyPotentialMedicalProblems reports members in poor shape
func (m *Mission) HasAnyPotentialMedicalProblems() bool {
	for _, p := range m.People() {
		if p.HasAnyPotentialMedicalProblems() {
			return true
		}
	}
	return false
}

// HasEmergency reports an emergency affecting at least one member
func (m *Mission) HasEmergency() bool {
	return m.HasDangerousMedicalProblems()
}

// HasEmergencyAllCrew reports an emergency affecting everyone
func (m *Mission) HasEmergencyAllCrew() bool {
	return m.HasDangerousMedicalProblemsAllCrew()
}

func (m *Mission) starterName() string {
	if m.starter == nil {
		return ""
	}
	return m.starter.Name()
}

func (m *Mission) String() string {
	if m.designation != "" {
		return fmt.Sprintf("%s (%s)", m.name, m.designation)
	}
	return m.name
}
