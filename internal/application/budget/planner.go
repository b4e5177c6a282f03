// internal/application/budget/planner.go
package budget

import (
	"errors"
	"fmt"
)

// Execution-unit ceilings of the environment. DefaultUnitLimit is what an
// operation gets without asking; MaxUnitLimit is the hard cap no request may
// exceed.
const (
	DefaultUnitLimit uint32 = 200_000
	MaxUnitLimit     uint32 = 1_400_000
)

// perStepReserve is a generous worst-case cost of a single composed step.
const perStepReserve uint32 = 70_000

var (
	ErrBudgetExceeded       = errors.New("budget: execution units exhausted")
	ErrBudgetPlanInfeasible = errors.New("budget: requested units exceed the hard cap")
)

// Class describes how heavy an operation's steps are.
type Class uint8

const (
	// ClassSimple: single-concern operations that fit the default ceiling.
	ClassSimple Class = iota
	// ClassComposite: multi-step operations (create + metadata + edition +
	// attestation) that are known to blow past the default.
	ClassComposite
)

// Plan is the declared execution-cost ceiling for one operation. It is
// computed before submission and prepended as a zero-side-effect step.
type Plan struct {
	Units uint32
	Steps int
}

// ForOperation computes the ceiling to request for an operation of stepCount
// steps. Composite operations always get at least twice the default, and the
// request grows in default-sized increments until the per-step reserve fits.
func ForOperation(stepCount int, class Class) (Plan, error) {
	if stepCount <= 0 {
		return Plan{}, fmt.Errorf("%w: %d steps", ErrBudgetPlanInfeasible, stepCount)
	}

	units := DefaultUnitLimit
	if class == ClassComposite {
		units = 2 * DefaultUnitLimit
	}
	need := uint64(stepCount) * uint64(perStepReserve)
	for uint64(units) < need {
		if units > MaxUnitLimit-DefaultUnitLimit {
			return Plan{}, fmt.Errorf("%w: %d steps need %d units", ErrBudgetPlanInfeasible, stepCount, need)
		}
		units += DefaultUnitLimit
	}
	if units > MaxUnitLimit {
		return Plan{}, fmt.Errorf("%w: %d units", ErrBudgetPlanInfeasible, units)
	}
	return Plan{Units: units, Steps: stepCount}, nil
}
