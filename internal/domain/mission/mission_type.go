package mission

import "github.com/mars-sim/mars-sim-sub009/internal/domain/worker"

// Type identifies a kind of mission
type Type string

const (
	TypeTrade                Type = "TRADE"
	TypeDelivery             Type = "DELIVERY"
	TypeMining               Type = "MINING"
	TypeCollectIce           Type = "COLLECT_ICE"
	TypeCollectRegolith      Type = "COLLECT_REGOLITH"
	TypeConstruction         Type = "CONSTRUCTION"
	TypeBuildingConstruction Type = "BUILDING_CONSTRUCTION"
	TypeEmergencySupply      Type = "EMERGENCY_SUPPLY"
)

var typeInitials = map[Type]string{
	TypeTrade:                "T",
	TypeDelivery:             "D",
	TypeMining:               "M",
	TypeCollectIce:           "I",
	TypeCollectRegolith:      "R",
	TypeConstruction:         "C",
	TypeBuildingConstruction: "B",
	TypeEmergencySupply:      "E",
}

// Initial is the letter used in mission designations
func (t Type) Initial() string {
	if i, ok := typeInitials[t]; ok {
		return i
	}
	return "X"
}

// IsDelivery reports a drone delivery; such missions never reroute to an emergency settlement
func (t Type) IsDelivery() bool {
	return t == TypeDelivery
}

func (t Type) String() string { return string(t) }

// preferredJobs lists the jobs whose holders are fully qualified for a mission type
var preferredJobs = map[Type][]worker.Job{
	TypeTrade:                {worker.JobTrader, worker.JobPilot},
	TypeDelivery:             {worker.JobTrader, worker.JobPilot},
	TypeMining:               {worker.JobAreologist, worker.JobEngineer},
	TypeCollectIce:           {worker.JobAreologist, worker.JobChemist, worker.JobBotanist},
	TypeCollectRegolith:      {worker.JobAreologist, worker.JobChemist},
	TypeConstruction:         {worker.JobArchitect, worker.JobEngineer, worker.JobTechnician},
	TypeBuildingConstruction: {worker.JobArchitect, worker.JobEngineer, worker.JobTechnician},
	TypeEmergencySupply:      {worker.JobPilot, worker.JobDoctor},
}

// JobPrefers reports whether a job favours a mission type
func JobPrefers(job worker.Job, t Type) bool {
	for _, j := range preferredJobs[t] {
		if j == job {
			return true
		}
	}
	return false
}
