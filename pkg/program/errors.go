package program

import "fmt"

// InvalidInputError reports a room program that cannot be normalized:
// non-positive lot dimensions, an empty or malformed room list. It is fatal
// and surfaced before any placement is attempted.
type InvalidInputError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid room program: %s", e.Reason)
}

func invalidInputf(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// InfeasibleProgramError reports a program whose rooms cannot fit on the lot
// even at their per-type minimum sizes. It is fatal and carries the numbers
// so callers can surface the shortfall.
type InfeasibleProgramError struct {
	RequestedArea float64 // total requested area in ft²
	MinimumArea   float64 // sum of per-type minimum areas in ft²
	AvailableArea float64 // coverage-adjusted buildable area in ft²
}

// Shortfall returns how many ft² the request exceeds the buildable area by.
func (e *InfeasibleProgramError) Shortfall() float64 {
	return e.RequestedArea - e.AvailableArea
}

// Error implements the error interface.
func (e *InfeasibleProgramError) Error() string {
	return fmt.Sprintf(
		"infeasible room program: requested %.0f ft² (minimum %.0f ft²) but only %.0f ft² is buildable, short %.0f ft²",
		e.RequestedArea, e.MinimumArea, e.AvailableArea, e.Shortfall())
}

// Suggestion returns an actionable hint sized to the shortfall.
func (e *InfeasibleProgramError) Suggestion() string {
	return fmt.Sprintf("remove about %.0f ft² of requested rooms", e.Shortfall())
}
