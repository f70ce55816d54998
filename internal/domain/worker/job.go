package worker

// Job is a person's occupation
type Job string

const (
	JobPilot      Job = "PILOT"
	JobTrader     Job = "TRADER"
	JobAreologist Job = "AREOLOGIST"
	JobChemist    Job = "CHEMIST"
	JobEngineer   Job = "ENGINEER"
	JobArchitect  Job = "ARCHITECT"
	JobDoctor     Job = "DOCTOR"
	JobBotanist   Job = "BOTANIST"
	JobTechnician Job = "TECHNICIAN"
	JobUnemployed Job = "UNEMPLOYED"
)

// Role is a person's position in the settlement's chain of command
type Role string

const (
	RoleCommander              Role = "COMMANDER"
	RoleSubCommander           Role = "SUB_COMMANDER"
	RoleChiefOfMissionPlanning Role = "CHIEF_OF_MISSION_PLANNING"
	RoleChiefOfEngineering     Role = "CHIEF_OF_ENGINEERING"
	RoleChiefOfSupply          Role = "CHIEF_OF_SUPPLY_N_RESOURCES"
	RoleChiefOfSafety          Role = "CHIEF_OF_SAFETY_N_HEALTH"
	RoleMissionSpecialist      Role = "MISSION_SPECIALIST"
	RoleEngineeringSpecialist  Role = "ENGINEERING_SPECIALIST"
	RoleResident               Role = "RESIDENT"
	RoleGuest                  Role = "GUEST"
)

// IsChief reports whether the role heads a settlement division
func (r Role) IsChief() bool {
	switch r {
	case RoleChiefOfMissionPlanning, RoleChiefOfEngineering, RoleChiefOfSupply, RoleChiefOfSafety:
		return true
	}
	return false
}

// IsLeadership reports whether the role may approve mission plans outright
func (r Role) IsLeadership() bool {
	return r == RoleCommander || r == RoleSubCommander || r == RoleChiefOfMissionPlanning
}
