package mesh2d

import (
	"errors"
	"fmt"
)

// The four error kinds the core distinguishes, as sentinel errors wrapped
// with fmt.Errorf("...: %w", err). Duplicate, Encroaching and Violating
// are insertion Outcomes, not errors.
var (
	// ErrInvalidInput covers coincident segment endpoints, inconsistent
	// attribute arity, and out-of-range settings. Reported at the API
	// boundary; no mesh mutation occurs.
	ErrInvalidInput = errors.New("mesh2d: invalid input")

	// ErrPrecisionExhausted names the case where a computed segment split
	// point coincides exactly with an endpoint after rounding. No function
	// in this package returns it: the refinement loop does not detect that
	// case and reports no error for it.
	ErrPrecisionExhausted = errors.New("mesh2d: precision exhausted during segment split")

	// ErrTopologyInconsistency is returned by the self-check routine when
	// one of the data-model invariants does not hold.
	ErrTopologyInconsistency = errors.New("mesh2d: topology invariant violated")

	// ErrQualityUnreachable is a non-fatal warning: refinement ran out of
	// Steiner points while bad triangles or encroached subsegments were
	// still queued. The partial
	// mesh is still returned alongside this error.
	ErrQualityUnreachable = errors.New("mesh2d: quality target unreachable within steiner point budget")
)

// Outcome is the non-error result of a vertex insertion attempt.
// Duplicate is not an error: it is counted by the constructor as an
// "undead" and otherwise ignored.
type Outcome int

const (
	// Successful means the vertex was inserted and the flip cascade
	// settled.
	Successful Outcome = iota
	// Encroaching names an insertion rejected because it would encroach a
	// subsegment. No insertion path in this package returns it; the
	// refinement loop's checks for it never match.
	Encroaching
	// Violating means the vertex landed on a subsegment edge that a
	// non-segment-split insertion is not permitted to cross.
	Violating
	// Duplicate means the vertex coincides with an existing live vertex.
	Duplicate
)

// wrapInvalid builds an ErrInvalidInput-wrapped error with a formatted
// message.
func wrapInvalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

func (o Outcome) String() string {
	switch o {
	case Successful:
		return "Successful"
	case Encroaching:
		return "Encroaching"
	case Violating:
		return "Violating"
	case Duplicate:
		return "Duplicate"
	default:
		return "Unknown"
	}
}
