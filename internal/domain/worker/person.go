package worker

import "fmt"

const (
	// DefaultOpinion is the opinion a person holds of someone they have no history with
	DefaultOpinion = 50.0

	// PoorFitness is the fitness below which a person may develop medical problems on a mission
	PoorFitness = 2.0
)

// MedicalProblem is an active health complaint
type MedicalProblem struct {
	Name    string
	Serious bool
}

// Person is a human colonist
type Person struct {
	base
	job             Job
	role            Role
	fitness         float64
	problems        []MedicalProblem
	opinions        map[string]float64
	experience      map[string][]float64
	drivingSpeedSum float64
	drivingSamples  int
	onCall          bool
}

// NewPerson creates a healthy person resident at their settlement
func NewPerson(name, settlement string, job Job, role Role) (*Person, error) {
	if name == "" {
		return nil, fmt.Errorf("person name cannot be empty")
	}
	return &Person{
		base:       base{name: name, associated: settlement, current: settlement},
		job:        job,
		role:       role,
		fitness:    5,
		opinions:   make(map[string]float64),
		experience: make(map[string][]float64),
	}, nil
}

func (p *Person) Kind() Kind       { return KindPerson }
func (p *Person) Job() Job         { return p.job }
func (p *Person) Role() Role       { return p.role }
func (p *Person) Fitness() float64 { return p.fitness }
func (p *Person) IsOnCall() bool   { return p.onCall }

func (p *Person) SetJob(job Job)    { p.job = job }
func (p *Person) SetRole(role Role) { p.role = role }

// SetFitness clamps fitness to [0, 5]
func (p *Person) SetFitness(f float64) {
	switch {
	case f < 0:
		f = 0
	case f > 5:
		f = 5
	}
	p.fitness = f
}

// AddMedicalProblem records a complaint
func (p *Person) AddMedicalProblem(problem MedicalProblem) {
	p.problems = append(p.problems, problem)
}

// CureAll clears every medical problem
func (p *Person) CureAll() {
	p.problems = nil
}

func (p *Person) MedicalProblems() []MedicalProblem {
	out := make([]MedicalProblem, len(p.problems))
	copy(out, p.problems)
	return out
}

// HasSeriousMedicalProblems reports any serious complaint
func (p *Person) HasSeriousMedicalProblems() bool {
	for _, mp := range p.problems {
		if mp.Serious {
			return true
		}
	}
	return false
}

// HasAnyPotentialMedicalProblems reports poor fitness, which may turn into a problem outside
func (p *Person) HasAnyPotentialMedicalProblems() bool {
	return p.fitness < PoorFitness
}

// OpinionOf returns the 0..100 opinion of another person
func (p *Person) OpinionOf(other string) float64 {
	if o, ok := p.opinions[other]; ok {
		return o
	}
	return DefaultOpinion
}

func (p *Person) SetOpinionOf(other string, opinion float64) {
	p.opinions[other] = opinion
}

// MissionExperience returns the average score of past missions of a type
func (p *Person) MissionExperience(missionType string) (float64, bool) {
	scores := p.experience[missionType]
	if len(scores) == 0 {
		return 0, false
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores)), true
}

// AddMissionExperience records the score earned on a completed mission
func (p *Person) AddMissionExperience(missionType string, score float64) {
	p.experience[missionType] = append(p.experience[missionType], score)
}

// AverageOperatingSpeed returns the mean speed this person has driven at
func (p *Person) AverageOperatingSpeed() (float64, bool) {
	if p.drivingSamples == 0 {
		return 0, false
	}
	return p.drivingSpeedSum / float64(p.drivingSamples), true
}

// RecordDriving adds a driving speed sample in km/h
func (p *Person) RecordDriving(speedKph float64) {
	if speedKph <= 0 {
		return
	}
	p.drivingSpeedSum += speedKph
	p.drivingSamples++
}

// SetOnCall changes the shift mode and returns the previous value
func (p *Person) SetOnCall(onCall bool) bool {
	prev := p.onCall
	p.onCall = onCall
	return prev
}

func (p *Person) String() string {
	return fmt.Sprintf("%s (%s, %s)", p.name, p.job, p.role)
}
