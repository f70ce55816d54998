package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Mission-related errors

type MissionError struct {
	*DomainError
	Mission string
}

func NewMissionError(mission, message string) *MissionError {
	return &MissionError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", mission, message)},
		Mission:     mission,
	}
}

// PhaseNotRegisteredError is raised when a mission is moved into a phase it never declared
type PhaseNotRegisteredError struct {
	*MissionError
	Phase string
}

func NewPhaseNotRegisteredError(mission, phase string) *PhaseNotRegisteredError {
	return &PhaseNotRegisteredError{
		MissionError: NewMissionError(mission, fmt.Sprintf("phase %s is not registered", phase)),
		Phase:        phase,
	}
}

type NilVehicleError struct {
	*MissionError
}

func NewNilVehicleError(mission string) *NilVehicleError {
	return &NilVehicleError{MissionError: NewMissionError(mission, "vehicle is nil")}
}

type MissionNotFoundError struct {
	*DomainError
	ID int
}

func NewMissionNotFoundError(id int) *MissionNotFoundError {
	return &MissionNotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("mission %d not found", id)},
		ID:          id,
	}
}

// ZeroMissionProbabilityError signals that a caller asked for a mission when none could be chosen
type ZeroMissionProbabilityError struct {
	*DomainError
	Worker string
}

func NewZeroMissionProbabilityError(worker string) *ZeroMissionProbabilityError {
	return &ZeroMissionProbabilityError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s has zero total mission probability weight", worker)},
		Worker:      worker,
	}
}

type PlanReviewError struct {
	*DomainError
	Reviewer string
}

func NewPlanReviewError(reviewer, message string) *PlanReviewError {
	return &PlanReviewError{
		DomainError: &DomainError{Message: message},
		Reviewer:    reviewer,
	}
}

type ResourceError struct {
	*DomainError
	Resource int
}

func NewResourceError(resource int, message string) *ResourceError {
	return &ResourceError{
		DomainError: &DomainError{Message: message},
		Resource:    resource,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
