// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

// search runs preparation, bracketing and the secant²/bisection loop.
func (r *searchRun[T]) search(start *Start[T]) *Result[T] {

	st := r.initialState(start)

	if st.active().any() {
		r.bracket(st)
		r.collapse(st)
		r.exhaust(st)
		r.mainLoop(st)
	}

	return r.result(st)
}

// mainLoop repeats secant² steps until every member converged or failed,
// or the iteration budget is consumed.
func (r *searchRun[T]) mainLoop(st *searchState[T]) {
	gamma := T(r.params.Gamma)

	for st.iter < r.params.MaxIterations && st.active().any() {

		if r.logger.enable(LogTrace) {
			r.printBracket(st)
		}

		// Brackets before the secant² step.
		oldLeft, oldRight := st.left, st.right
		active := st.active()

		r.secant2(st)
		st.iter++

		// Members that neither converged nor failed in secant² must have
		// shrunk their bracket by γ, otherwise they are bisected.
		check := active.and(st.active())
		flat := newMask(r.n, false)
		bisect := newMask(r.n, false)
		for i, v := range check {
			if !v {
				continue
			}
			oldWidth := oldRight[i].X - oldLeft[i].X
			newWidth := st.right[i].X - st.left[i].X
			if newWidth < gamma*oldWidth {
				continue
			}
			if flatValue(oldLeft[i].F, oldRight[i].F) && flatValue(st.left[i].F, st.right[i].F) {
				flat[i] = true
			} else {
				bisect[i] = true
			}
		}
		st.converge(flat, ConvFlat)
		if bisect.any() {
			r.innerBisect(st, bisect)
		}

		r.collapse(st)

		if r.logger.enable(LogEval) {
			r.printIter(st)
		}
	}

	r.exhaust(st)
}

// innerBisect evaluates the midpoint of the bracket of every member in m
// and updates the bracket with it.
func (r *searchRun[T]) innerBisect(st *searchState[T], m mask) {
	mid := make([]T, r.n)
	for i := range mid {
		if m[i] {
			mid[i] = st.left[i].X + (st.right[i].X-st.left[i].X)/2
		}
	}
	valMid := r.ev.at(m, mid, nil)

	bad := m.andNot(finiteMask(valMid))
	st.fail(bad, FailEval)
	active := m.andNot(bad)
	if !active.any() {
		return
	}

	left, right, failed := r.update(st.left, st.right, valMid, active)
	st.fail(failed, FailEval)
	st.left = where(active, left, st.left)
	st.right = where(active, right, st.right)
}

// collapse latches members whose bracket holds a single representable step as converged.
func (r *searchRun[T]) collapse(st *searchState[T]) {
	shrunk := newMask(r.n, false)
	for i, v := range st.active() {
		shrunk[i] = v && veryClose(st.left[i].X, st.right[i].X)
	}
	st.converge(shrunk, ConvCollapsed)
}

// exhaust latches members still active once the budget is consumed as failed.
func (r *searchRun[T]) exhaust(st *searchState[T]) {
	if st.iter >= r.params.MaxIterations {
		st.fail(st.active(), FailExhausted)
	}
}

// flatValue reports whether two function values differ by at most one ULP.
func flatValue[T Float](a, b T) bool {
	if a > b {
		a, b = b, a
	}
	return veryClose(a, b)
}

// result assembles the final brackets: a converged member reports its accepted
// point at both ends.
func (r *searchRun[T]) result(st *searchState[T]) *Result[T] {
	left := append([]Point[T](nil), st.left...)
	right := append([]Point[T](nil), st.right...)
	for i := range left {
		switch {
		case st.status[i] == ConvPreset:
			left[i] = right[i]
		case st.converged[i]:
			right[i] = left[i]
		}
	}

	res := &Result[T]{
		Converged: st.converged,
		Failed:    st.failed,
		Status:    st.status,
		Left:      left,
		Right:     right,
		Summary: Summary{
			NumIter: st.iter,
			NumEval: r.ev.numEval,
		},
	}

	if r.logger.enable(LogLast) {
		r.printExit(res)
	}
	return res
}
