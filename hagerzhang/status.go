// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

import "fmt"

// Status reports the outcome of a single batch member.
// Converged and Failed are exclusive bit groups; the low bits name the cause.
type Status int

const (
	Active    Status = 0
	Converged Status = 1 << (4 + iota)
	Failed
)

const (
	// ConvPreset marks members flagged as converged by the caller.
	ConvPreset = Converged | (1 + iota)
	// ConvWolfe marks members whose step satisfies the Wolfe or approximate Wolfe conditions.
	ConvWolfe
	// ConvFlat marks members whose function is flat to machine precision over the bracket.
	ConvFlat
	// ConvCollapsed marks members whose bracket shrank to a single representable step.
	ConvCollapsed
)

const (
	// FailInvalidInput marks members with a non-finite start, an ascent direction or a non-positive step.
	FailInvalidInput = Failed | (1 + iota)
	// FailNonFinite marks members whose initial step stayed non-finite after repair.
	FailNonFinite
	// FailBracket marks members that hit a non-finite evaluation while bracketing.
	FailBracket
	// FailEval marks members that hit a non-finite evaluation while searching.
	FailEval
	// FailExhausted marks members still searching when the iteration budget ran out.
	FailExhausted
)

func (s Status) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case ConvPreset:
		return "CONVERGENCE: PRESET"
	case ConvWolfe:
		return "CONVERGENCE: WOLFE_CONDITION_SATISFIED"
	case ConvFlat:
		return "CONVERGENCE: FUNCTION_FLAT_OVER_BRACKET"
	case ConvCollapsed:
		return "CONVERGENCE: BRACKET_COLLAPSED"
	case FailInvalidInput:
		return "FAILURE: INVALID_INPUT"
	case FailNonFinite:
		return "FAILURE: NON_FINITE_INITIAL_STEP"
	case FailBracket:
		return "FAILURE: NON_FINITE_WHILE_BRACKETING"
	case FailEval:
		return "FAILURE: NON_FINITE_WHILE_SEARCHING"
	case FailExhausted:
		return "FAILURE: ITERATION_LIMIT_REACHED"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result contains the final result of a batched line search.
type Result[T Float] struct {
	Converged []bool     // Whether a point satisfying Wolfe/approximate Wolfe was found.
	Failed    []bool     // Whether the search failed for the member.
	Status    []Status   // Per-member cause of convergence or failure.
	Left      []Point[T] // Left end point of the final bracket.
	Right     []Point[T] // Right end point of the final bracket, equal to Left when converged.
	Summary              // Search summary.
}

// Summary contains a summary of the search process.
// Both counters are shared by the whole batch.
type Summary struct {
	NumIter int // Number of search iterations (bracketing trips included).
	NumEval int // Number of oracle calls.
}

// Step returns the accepted point of member i and whether the member converged.
func (r *Result[T]) Step(i int) (Point[T], bool) {
	return r.Left[i], r.Converged[i]
}
