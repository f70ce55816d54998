package mission

// EventType tags an update fired to mission listeners
type EventType string

const (
	EventPhase              EventType = "PHASE"
	EventPhaseDescription   EventType = "PHASE_DESCRIPTION"
	EventDesignation        EventType = "DESIGNATION"
	EventAddMember          EventType = "ADD_MEMBER"
	EventRemoveMember       EventType = "REMOVE_MEMBER"
	EventCapacity           EventType = "CAPACITY"
	EventVehicle            EventType = "VEHICLE"
	EventNavpoints          EventType = "NAVPOINTS"
	EventDistance           EventType = "DISTANCE"
	EventTravelStatus       EventType = "TRAVEL_STATUS"
	EventStartingSettlement EventType = "STARTING_SETTLEMENT"
	EventEndMission         EventType = "END_MISSION"
)

// Event is a single mission update. Target carries the changed value when one applies.
type Event struct {
	Type    EventType
	Mission *Mission
	Target  interface{}
}

// Listener receives mission updates synchronously
type Listener interface {
	MissionUpdate(event Event)
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(event Event)

func (f ListenerFunc) MissionUpdate(event Event) { f(event) }
