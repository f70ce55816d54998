package shared

import "fmt"

// LifecycleStatus represents the state of a mission in its lifecycle
type LifecycleStatus string

const (
	// LifecycleStatusPlanning indicates the mission has been filed but has not left yet
	LifecycleStatusPlanning LifecycleStatus = "PLANNING"

	// LifecycleStatusUnderway indicates the mission has embarked
	LifecycleStatusUnderway LifecycleStatus = "UNDERWAY"

	// LifecycleStatusAccomplished indicates the mission ended successfully
	LifecycleStatusAccomplished LifecycleStatus = "ACCOMPLISHED"

	// LifecycleStatusAborted indicates the mission ended without accomplishing its goal
	LifecycleStatusAborted LifecycleStatus = "ABORTED"
)

// LifecycleStateMachine tracks the coarse lifecycle of a mission and its filed, embarked
// and completed timestamps.
//
// Invariants:
// - Each timestamp is set exactly once
// - Terminal states never revert
// - Clock is injected for testability
type LifecycleStateMachine struct {
	status      LifecycleStatus
	filedAt     MarsTime
	embarkedAt  *MarsTime
	completedAt *MarsTime
	clock       Clock
}

// NewLifecycleStateMachine creates a lifecycle in PLANNING state, filed at the current time
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewMockClock(MarsTime{})
	}

	return &LifecycleStateMachine{
		status:  LifecycleStatusPlanning,
		filedAt: clock.Now(),
		clock:   clock,
	}
}

// Getters

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) FiledAt() MarsTime        { return sm.filedAt }
func (sm *LifecycleStateMachine) EmbarkedAt() *MarsTime    { return sm.embarkedAt }
func (sm *LifecycleStateMachine) CompletedAt() *MarsTime   { return sm.completedAt }

// Embark transitions from PLANNING to UNDERWAY and stamps the embark time
func (sm *LifecycleStateMachine) Embark() error {
	if sm.embarkedAt != nil {
		return fmt.Errorf("embark time already set")
	}
	if sm.status != LifecycleStatusPlanning {
		return fmt.Errorf("cannot embark from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusUnderway
	sm.embarkedAt = &now
	return nil
}

// Accomplish moves a non-terminal lifecycle to ACCOMPLISHED
func (sm *LifecycleStateMachine) Accomplish() error {
	return sm.finish(LifecycleStatusAccomplished)
}

// Abort moves a non-terminal lifecycle to ABORTED
func (sm *LifecycleStateMachine) Abort() error {
	return sm.finish(LifecycleStatusAborted)
}

func (sm *LifecycleStateMachine) finish(status LifecycleStatus) error {
	if sm.completedAt != nil {
		return fmt.Errorf("completion time already set")
	}
	if sm.IsFinished() {
		return fmt.Errorf("cannot finish from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = status
	sm.completedAt = &now
	return nil
}

// State query methods

func (sm *LifecycleStateMachine) IsUnderway() bool {
	return sm.status == LifecycleStatusUnderway
}

func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusAccomplished || sm.status == LifecycleStatusAborted
}

// Duration returns the millisols between filing and completion, or until now when still running
func (sm *LifecycleStateMachine) Duration() float64 {
	end := sm.clock.Now()
	if sm.completedAt != nil {
		end = *sm.completedAt
	}
	return end.Sub(sm.filedAt)
}

// RecoverFromPersistence restores the lifecycle from stored data.
// Only used when rebuilding read models from snapshots.
func (sm *LifecycleStateMachine) RecoverFromPersistence(
	status LifecycleStatus,
	filedAt MarsTime,
	embarkedAt, completedAt *MarsTime,
) {
	sm.status = status
	sm.filedAt = filedAt
	sm.embarkedAt = embarkedAt
	sm.completedAt = completedAt
}
