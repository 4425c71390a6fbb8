// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

// secant returns the zero of the linear interpolation of f′ through a and b:
//
//	(a·f′(b) - b·f′(a)) / (f′(b) - f′(a))
func secant[T Float](a, b Point[T]) T {
	return (a.X*b.DF - b.X*a.DF) / (b.DF - a.DF)
}

// satisfiesWolfe tests the (approximate) Wolfe conditions at c:
//   - exact: δ·f′(0) ≥ (f(c) - f(0))/c  and  f′(c) ≥ σ·f′(0)
//   - approximate: f(c) ≤ f_lim  and  (2δ - 1)·f′(0) ≥ f′(c) ≥ σ·f′(0)
func (r *searchRun[T]) satisfiesWolfe(i int, c Point[T]) bool {
	delta, sigma := T(r.params.Delta), T(r.params.Sigma)
	v0 := r.val0[i]

	curvature := c.DF >= sigma*v0.DF
	if !curvature {
		return false
	}
	if delta*v0.DF >= (c.F-v0.F)/c.X {
		return true
	}
	return c.F <= r.fLim[i] && (2*delta-1)*v0.DF >= c.DF
}

// secant2 performs one secant² step (S1-S4 of CG_DESCENT) on every active member:
//
//   - S1: c = secant(a, b) and [A, B] = update(a, b, c).
//   - S2: if c = B then c̄ = secant(b, B).
//   - S3: if c = A then c̄ = secant(a, A).
//   - S4: if c̄ was computed, [ā, b̄] = update(A, B, c̄).
//
// A member whose trial point satisfies the Wolfe conditions converges with both end
// points set to that trial point; a member meeting a non-finite value fails with FailEval.
func (r *searchRun[T]) secant2(st *searchState[T]) {
	n := r.n
	active := st.active()

	c := make([]T, n)
	degenerate := newMask(n, false)
	for i := range c {
		if active[i] {
			// f′ identical at both end points leaves no secant step.
			c[i] = secant(st.left[i], st.right[i])
			degenerate[i] = !isFinite(c[i])
		}
	}
	st.fail(degenerate, FailEval)
	active = active.andNot(degenerate)

	valC := r.ev.at(active, c, nil)
	r.acceptOrFail(st, active, valC)
	active = active.and(st.active())
	if !active.any() {
		return
	}

	// S1
	left, right := st.left, st.right
	newLeft, newRight, failed := r.update(left, right, valC, active)
	st.fail(failed, FailEval)
	active = active.andNot(failed)
	st.left = where(active, newLeft, st.left)
	st.right = where(active, newRight, st.right)

	// S2, S3
	next := make([]T, n)
	fresh := newMask(n, false)
	for i := range next {
		next[i] = valC[i].X
		if !active[i] {
			continue
		}
		switch {
		case st.right[i].X == valC[i].X:
			next[i] = secant(right[i], st.right[i])
			fresh[i] = true
		case st.left[i].X == valC[i].X:
			next[i] = secant(left[i], st.left[i])
			fresh[i] = true
		}
		if !(st.left[i].X <= next[i] && next[i] <= st.right[i].X) {
			active[i] = false
		}
	}
	if !active.any() {
		return
	}

	// S4
	valC = r.ev.at(active.and(fresh), next, valC)
	r.acceptOrFail(st, active, valC)
	active = active.and(st.active())
	if !active.any() {
		return
	}

	newLeft, newRight, failed = r.update(st.left, st.right, valC, active)
	st.fail(failed, FailEval)
	st.left = where(active, newLeft, st.left)
	st.right = where(active, newRight, st.right)
}

// acceptOrFail latches members of active whose trial point is not finite as failed,
// and members whose trial point satisfies the Wolfe conditions as converged on it.
func (r *searchRun[T]) acceptOrFail(st *searchState[T], active mask, valC []Point[T]) {
	found := newMask(r.n, false)
	bad := newMask(r.n, false)
	for i, v := range valC {
		if !active[i] {
			continue
		}
		if !v.Finite() {
			bad[i] = true
		} else if r.satisfiesWolfe(i, v) {
			found[i] = true
		}
	}
	st.fail(bad, FailEval)
	st.left = where(found, valC, st.left)
	st.right = where(found, valC, st.right)
	st.converge(found, ConvWolfe)
}
