package feasibility

import "errors"

var (
	// ErrInvalidSubject is returned when a subject fails boundary validation.
	ErrInvalidSubject = errors.New("feasibility: invalid subject")
	// ErrInvalidScenario is returned when a scenario fails boundary validation.
	ErrInvalidScenario = errors.New("feasibility: invalid scenario")
	// ErrInvalidSchedule is returned when a rate schedule has an unusable shape.
	ErrInvalidSchedule = errors.New("feasibility: invalid rate schedule")
	// ErrUnknownProduct is returned when a product name cannot be parsed.
	ErrUnknownProduct = errors.New("feasibility: unknown product")
	// ErrSubjectNotFound is returned when a subject is not in the repository.
	ErrSubjectNotFound = errors.New("feasibility: subject not found")
	// ErrScenarioNotFound is returned when a scenario is not in the repository.
	ErrScenarioNotFound = errors.New("feasibility: scenario not found")
	// ErrResultNotFound is returned when a projection result is not in the repository.
	ErrResultNotFound = errors.New("feasibility: result not found")
)
