// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

// searchState is the loop-carried state of a batched search.
// Once a member is converged or failed its bracket is frozen.
type searchState[T Float] struct {
	converged mask
	failed    mask
	status    []Status
	iter      int
	left      []Point[T]
	right     []Point[T]
}

func (st *searchState[T]) active() mask {
	return st.converged.or(st.failed).not()
}

// converge latches the members of m as converged with the given cause.
// Members already converged or failed keep their status.
func (st *searchState[T]) converge(m mask, cause Status) {
	for i, v := range m {
		if v && !st.converged[i] && !st.failed[i] {
			st.converged[i] = true
			st.status[i] = cause
		}
	}
}

// fail latches the members of m as failed with the given cause.
func (st *searchState[T]) fail(m mask, cause Status) {
	for i, v := range m {
		if v && !st.converged[i] && !st.failed[i] {
			st.failed[i] = true
			st.status[i] = cause
		}
	}
}

// searchRun carries one invocation of Searcher.Search.
type searchRun[T Float] struct {
	*Searcher[T]
	ev   *evaluator[T]
	val0 []Point[T] // evaluation at 0
	fLim []T        // f(0) + ε·|f(0)|
}

// prepare evaluates the missing start points and derives f_lim.
func (r *searchRun[T]) prepare(start *Start[T]) (valInit []Point[T]) {
	n := r.n

	valInit = start.AtStep
	if valInit == nil {
		step := make([]T, n)
		for i := range step {
			if start.Step != nil {
				step[i] = start.Step[i]
			} else {
				step[i] = defaultFirstStep
			}
		}
		// Non-finite steps are never sent to the oracle, they fail validation below.
		finite := make(mask, n)
		for i, x := range step {
			finite[i] = isFinite(x)
		}
		valInit = r.ev.at(finite, step, nanPoints(step))
	}

	r.val0 = start.AtZero
	if r.val0 == nil {
		r.val0 = r.ev.at(newMask(n, true), make([]T, n), nil)
	}

	eps := T(r.params.Epsilon)
	r.fLim = make([]T, n)
	for i, v := range r.val0 {
		r.fLim[i] = v.F + eps*abs(v.F)
	}
	return
}

// validInputs reports members with a finite descent start and a finite positive step.
func (r *searchRun[T]) validInputs(valInit []Point[T]) mask {
	valid := make(mask, r.n)
	for i := range valid {
		v0, vc := r.val0[i], valInit[i]
		valid[i] = v0.Finite() && v0.DF < 0 && isFinite(vc.X) && vc.X > 0
	}
	return valid
}

// repairStep shrinks the step of active members whose evaluation is not finite until
// it becomes finite or the repair budget runs out. Returns the members left unrepaired.
func (r *searchRun[T]) repairStep(valC []Point[T], active mask) ([]Point[T], mask) {
	toFix := active.andNot(finiteMask(valC))
	shrink := T(r.params.Shrink)
	limit := repairLimit[T]()

	for i := 0; i < limit && toFix.any(); i++ {
		next := make([]T, r.n)
		for k := range next {
			next[k] = valC[k].X
			if toFix[k] {
				next[k] *= shrink
			}
		}
		valC = r.ev.at(toFix, next, valC)
		toFix = toFix.andNot(finiteMask(valC))
	}

	if r.logger.enable(LogEval) && toFix.any() {
		r.logger.log("Step repair gave up on %d members after %d shrinks\n", toFix.count(), limit)
	}
	return valC, toFix
}

// initialState validates the start and repairs the initial step.
func (r *searchRun[T]) initialState(start *Start[T]) *searchState[T] {
	n := r.n
	valInit := r.prepare(start)
	valid := r.validInputs(valInit)

	preset := newMask(n, false)
	if start.Converged != nil {
		copy(preset, start.Converged)
	}

	st := &searchState[T]{
		converged: newMask(n, false),
		failed:    newMask(n, false),
		status:    make([]Status, n),
	}
	st.converge(preset, ConvPreset)
	st.fail(valid.not(), FailInvalidInput)

	valC, unfixed := r.repairStep(valInit, st.active())
	st.fail(unfixed, FailNonFinite)

	// Preset members are inactive, so their valC is still the evaluation at the initial step.
	st.left = append([]Point[T](nil), r.val0...)
	st.right = valC
	return st
}
