package mission

import "github.com/mars-sim/mars-sim-sub009/internal/domain/resource"

// Status is a condition tag attached to a mission. Failure statuses make the mission end as aborted.
type Status struct {
	name    string
	detail  string
	failure bool
}

// NewStatus declares a status
func NewStatus(name string, failure bool) Status {
	return Status{name: name, failure: failure}
}

func (s Status) Name() string    { return s.name }
func (s Status) Detail() string  { return s.detail }
func (s Status) IsFailure() bool { return s.failure }
func (s Status) IsZero() bool    { return s.name == "" }

func (s Status) String() string {
	if s.detail != "" {
		return s.name + ":" + s.detail
	}
	return s.name
}

var (
	StatusNotEnoughMembers        = NewStatus("NOT_ENOUGH_MEMBERS", true)
	StatusNotApproved             = NewStatus("MISSION_NOT_APPROVED", true)
	StatusAccomplished            = NewStatus("MISSION_ACCOMPLISHED", false)
	StatusAbortedByPlayer         = NewStatus("MISSION_ABORTED_BY_PLAYER", true)
	StatusMedicalEmergency        = NewStatus("MEDICAL_EMERGENCY", true)
	StatusPhaseIsNull             = NewStatus("PHASE_IS_NULL", true)
	StatusNoAvailableVehicles     = NewStatus("NO_AVAILABLE_VEHICLES", true)
	StatusVehicleBeaconActive     = NewStatus("VEHICLE_BEACON_ACTIVE", true)
	StatusVehicleUnderMaintenance = NewStatus("VEHICLE_UNDER_MAINTENANCE", true)
	StatusCannotLoadResources     = NewStatus("CANNOT_LOAD_RESOURCES", true)
	StatusUnrepairableMalfunction = NewStatus("UNREPAIRABLE_MALFUNCTION", true)
	StatusNoEmergencyDestination  = NewStatus("NO_EMERGENCY_SETTLEMENT_DESTINATION_FOUND", true)
)

// notEnoughResourcesName is the name shared by every resource shortage status
const notEnoughResourcesName = "NOT_ENOUGH_RESOURCES"

// ResourceShortageStatus tags a mission that ran short of a resource
func ResourceShortageStatus(id resource.ID) Status {
	return Status{name: notEnoughResourcesName, detail: id.Name(), failure: true}
}

// IsResourceShortage reports whether the status is a resource shortage
func (s Status) IsResourceShortage() bool {
	return s.name == notEnoughResourcesName
}

// StatusList is an insertion-ordered set of statuses; entries are never removed
type StatusList struct {
	items []Status
}

// Add appends a status unless it is zero or already present. Returns true when added.
func (l *StatusList) Add(s Status) bool {
	if s.IsZero() || l.Has(s) {
		return false
	}
	l.items = append(l.items, s)
	return true
}

func (l *StatusList) Has(s Status) bool {
	for _, existing := range l.items {
		if existing == s {
			return true
		}
	}
	return false
}

// HasFailure reports whether any failure status is present
func (l *StatusList) HasFailure() bool {
	for _, s := range l.items {
		if s.failure {
			return true
		}
	}
	return false
}

// All returns a copy in insertion order
func (l *StatusList) All() []Status {
	out := make([]Status, len(l.items))
	copy(out, l.items)
	return out
}

func (l *StatusList) Len() int { return len(l.items) }

// Names returns the string form of every status
func (l *StatusList) Names() []string {
	out := make([]string, len(l.items))
	for i, s := range l.items {
		out[i] = s.String()
	}
	return out
}
