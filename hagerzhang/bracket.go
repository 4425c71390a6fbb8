// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

// bracket expands the initial interval [0, c] until it satisfies the opposite slope
// condition (steps B1-B3 of CG_DESCENT):
//
//   - B1: f′(c) ≥ 0, the interval already brackets a minimizer.
//   - B2: f′(c) < 0 and f(c) > f_lim, the interval [0, c] is narrowed by bisection.
//   - B3: otherwise the left end moves to c and the right end expands to ρ·c.
//
// Each expansion trip counts as one iteration against the budget.
// Members that meet a non-finite value are latched as failed with FailBracket.
func (r *searchRun[T]) bracket(st *searchState[T]) {
	n := r.n
	rho := T(r.params.Rho)
	maxIter := r.params.MaxIterations

	initLeft := st.left
	left, right := st.left, st.right
	failed := newMask(n, false)

	alreadyStopped := st.active().not()
	stopped := alreadyStopped.clone()
	for i, v := range right {
		stopped[i] = stopped[i] || v.DF >= 0 || v.needsBisect(r.fLim[i])
	}

	for st.iter < maxIter && !stopped.all() {
		next := make([]T, n)
		expand := stopped.not()
		for i := range next {
			if expand[i] {
				if next[i] = rho * right[i].X; !isFinite(next[i]) {
					// the expanded step overflowed before any sign change
					expand[i] = false
					failed[i] = true
				}
			}
		}
		newRight := r.ev.at(expand, next, right)
		left = where(expand, right, left)
		right = newRight

		for i := range right {
			if !expand[i] {
				continue
			}
			v := right[i]
			failed[i] = !v.Finite()
			stopped[i] = failed[i] || v.DF >= 0 || v.needsBisect(r.fLim[i])
		}
		stopped = stopped.or(failed)
		st.iter++

		if r.logger.enable(LogEval) {
			r.logger.log("Bracket %3d    expanding= %d    failed= %d\n", st.iter, expand.count(), failed.count())
		}
	}

	// B2: restart bisection from the original left end point.
	bisect := newMask(n, false)
	for i, v := range right {
		bisect[i] = !alreadyStopped[i] && !failed[i] && v.needsBisect(r.fLim[i])
	}
	left = where(bisect, initLeft, left)

	var bisectFailed mask
	left, right, bisectFailed = r.bisect(left, right, bisect.not())

	st.left, st.right = left, right
	st.fail(failed.or(bisectFailed), FailBracket)
}

// bisect narrows [a, b] with f′(a) < 0, f(a) ≤ f_lim and f′(b) < 0, f(b) > f_lim
// until f′(b) ≥ 0 (step U3 of CG_DESCENT). Only members not yet stopped are updated.
//
// A member fails when its midpoint is not finite or can no longer be told apart
// from one of the end points.
func (r *searchRun[T]) bisect(left, right []Point[T], stopped mask) ([]Point[T], []Point[T], mask) {
	n := r.n
	failed := newMask(n, false)
	stopped = stopped.clone()

	for !stopped.all() {
		todo := stopped.not()
		mid := make([]T, n)
		for i := range mid {
			if todo[i] {
				mid[i] = left[i].X + (right[i].X-left[i].X)/2
			}
		}
		valMid := r.ev.at(todo, mid, nil)

		nextLeft := make([]Point[T], n)
		nextRight := make([]Point[T], n)
		copy(nextLeft, left)
		copy(nextRight, right)
		for i, v := range valMid {
			if !todo[i] {
				continue
			}
			if !v.Finite() || v.X == left[i].X || v.X == right[i].X {
				failed[i] = true
				stopped[i] = true
				continue
			}
			if v.validLeft(r.fLim[i]) {
				nextLeft[i] = v
			} else {
				nextRight[i] = v
			}
			stopped[i] = nextRight[i].DF >= 0
		}
		left, right = nextLeft, nextRight
	}
	return left, right, failed
}

// update applies the interval update rules U1-U3 of CG_DESCENT to the members of
// active, with trial point c:
//
//   - U1: c outside (a, b) leaves the interval unchanged.
//   - U2: f′(c) < 0 and f(c) ≤ f_lim moves the left end point to c.
//   - U3: otherwise c becomes the right end point; when f′(c) < 0 the new
//     interval is narrowed further by bisect.
func (r *searchRun[T]) update(left, right, trial []Point[T], active mask) ([]Point[T], []Point[T], mask) {
	n := r.n
	nextLeft := make([]Point[T], n)
	nextRight := make([]Point[T], n)
	copy(nextLeft, left)
	copy(nextRight, right)

	stopped := newMask(n, true)
	for i, c := range trial {
		if !active[i] || !(left[i].X < c.X && c.X < right[i].X) {
			continue
		}
		if c.validLeft(r.fLim[i]) {
			nextLeft[i] = c
		} else {
			nextRight[i] = c
			stopped[i] = !c.needsBisect(r.fLim[i])
		}
	}
	return r.bisect(nextLeft, nextRight, stopped)
}
