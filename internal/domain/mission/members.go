package mission

import (
	"math"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
	"github.com/mars-sim/mars-sim-sub009/pkg/utils"
)

// MaxRecruitsPerMission caps the crew a single recruitment drive can add
const MaxRecruitsPerMission = 8

// recruitTiers maps settlement population to the maximum number of extra recruits
var recruitTiers = []struct {
	below int
	max   int
}{
	{4, 1}, {7, 2}, {10, 3}, {14, 4}, {18, 5}, {23, 6}, {29, 7},
}

// Members returns a copy of the current members in join order
func (m *Mission) Members() []worker.Worker {
	out := make([]worker.Worker, len(m.members))
	copy(out, m.members)
	return out
}

// People returns the human members
func (m *Mission) People() []*worker.Person {
	var people []*worker.Person
	for _, w := range m.members {
		if p, ok := w.(*worker.Person); ok {
			people = append(people, p)
		}
	}
	return people
}

// MemberCount returns the number of members
func (m *Mission) MemberCount() int {
	return len(m.members)
}

// HasMember reports whether a worker belongs to the mission
func (m *Mission) HasMember(w worker.Worker) bool {
	return m.indexOf(w) >= 0
}

func (m *Mission) indexOf(w worker.Worker) int {
	if w == nil {
		return -1
	}
	for i, existing := range m.members {
		if existing.Name() == w.Name() {
			return i
		}
	}
	return -1
}

// AddMember enlists a worker. Adding an existing member or exceeding capacity is a no-op.
func (m *Mission) AddMember(w worker.Worker) bool {
	if w == nil || m.done || m.HasMember(w) {
		return false
	}
	if len(m.members) >= m.capacity {
		m.Logf("WARNING", "%s cannot join, mission is at capacity %d", w.Name(), m.capacity)
		return false
	}
	m.members = append(m.members, w)
	w.SetMissionID(m.id)
	m.Record(HistoricalMissionJoining, "", w.Name())
	m.fire(EventAddMember, w)
	return true
}

// AddMembers enlists several workers, skipping robots unless allowed
func (m *Mission) AddMembers(workers []worker.Worker, allowRobots bool) int {
	added := 0
	for _, w := range workers {
		if w.Kind() == worker.KindRobot && !allowRobots {
			continue
		}
		if m.AddMember(w) {
			added++
		}
	}
	return added
}

// RemoveMember releases a worker. When the last member leaves an unfinished mission it ends.
func (m *Mission) RemoveMember(w worker.Worker) {
	i := m.indexOf(w)
	if i < 0 {
		return
	}
	m.members = append(m.members[:i], m.members[i+1:]...)

	w.SetMissionID(worker.NoMission)
	if task := w.Task(); task.Mission == m.id {
		w.AssignTask(worker.Task{})
	}
	if p, ok := w.(*worker.Person); ok && p.Role() != worker.RoleGuest {
		p.SetOnCall(false)
	}

	m.Record(HistoricalMissionFinish, "", w.Name())
	m.fire(EventRemoveMember, w)

	if len(m.members) == 0 && !m.done {
		m.EndMission(StatusNotEnoughMembers)
	}
}

// MissionQualification scores how suited a worker is (0..1). Robots score 0.
func (m *Mission) MissionQualification(w worker.Worker) float64 {
	p, ok := w.(*worker.Person)
	if !ok {
		return 0
	}
	experience, ok := p.MissionExperience(string(m.mtype))
	if !ok {
		experience = 5
	}
	jobModifier := 0.5
	if JobPrefers(p.Job(), m.mtype) {
		jobModifier = 1
	}
	return utils.Clamp(experience, 0, 10) / 10 * jobModifier
}

// MaxRecruits returns the population-scaled maximum of extra recruits, before any reduction roll
func MaxRecruits(population int) int {
	for _, tier := range recruitTiers {
		if population < tier.below {
			return tier.max
		}
	}
	return MaxRecruitsPerMission
}

// RecruitMembersForMission fills the crew from eligible people at the starting settlement.
// The best candidate is asked first; each may decline on a random roll. The mission ends with
// NOT_ENOUGH_MEMBERS when the minimum cannot be met.
func (m *Mission) RecruitMembersForMission(recruiter worker.Worker) {
	if m.done {
		return
	}
	population := 0
	if s := m.env.Settlements.Find(m.settlement); s != nil {
		population = s.Population()
	}
	limit := MaxRecruits(population)
	if limit >= 5 && shared.RandomPercentLessThan(m.env.Random, 50) {
		limit--
	}
	limit = min(limit, m.capacity-len(m.members))

	candidates := m.recruitmentCandidates()
	recruited := 0
	for recruited < limit && len(candidates) > 0 && len(m.members) < m.capacity {
		best := m.bestCandidate(candidates, recruiter)
		candidate := candidates[best]
		candidates = append(candidates[:best], candidates[best+1:]...)

		if shared.RandomPercentLessThan(m.env.Random, m.acceptanceChance(candidate, recruiter)) {
			if m.AddMember(candidate) {
				recruited++
			}
		}
	}

	m.Logf("INFO", "recruited %d of at most %d", recruited, limit)
	if len(m.members) < m.minMembers {
		m.EndMission(StatusNotEnoughMembers)
	}
}

func (m *Mission) recruitmentCandidates() []*worker.Person {
	var out []*worker.Person
	for _, w := range m.env.Roster.At(m.settlement) {
		p, ok := w.(*worker.Person)
		if !ok || m.HasMember(p) {
			continue
		}
		if p.MissionID() != worker.NoMission {
			continue
		}
		if m.env.Membership != nil && m.env.Membership.HasMission(p) {
			continue
		}
		if p.HasSeriousMedicalProblems() || !m.behavior.IsCapableOfMission(p) {
			continue
		}
		if m.MissionQualification(p) <= 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m *Mission) bestCandidate(candidates []*worker.Person, recruiter worker.Worker) int {
	best, bestScore := 0, math.Inf(-1)
	for i, c := range candidates {
		opinion := worker.DefaultOpinion
		if r, ok := recruiter.(*worker.Person); ok {
			opinion = r.OpinionOf(c.Name())
		}
		score := (m.MissionQualification(c)*100 + opinion) / 2
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// acceptanceChance weighs the candidate's qualification, their opinion of the recruiter
// and their average opinion of the current crew
func (m *Mission) acceptanceChance(candidate *worker.Person, recruiter worker.Worker) float64 {
	recruiterOpinion := worker.DefaultOpinion
	if recruiter != nil {
		recruiterOpinion = candidate.OpinionOf(recruiter.Name())
	}
	groupOpinion := worker.DefaultOpinion
	if len(m.members) > 0 {
		total := 0.0
		for _, member := range m.members {
			total += candidate.OpinionOf(member.Name())
		}
		groupOpinion = total / float64(len(m.members))
	}
	chance := (m.MissionQualification(candidate)*100 + recruiterOpinion + groupOpinion) / 3
	return utils.Clamp(chance, 0, 100)
}
