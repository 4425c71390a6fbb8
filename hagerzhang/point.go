// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

// Point is the evaluation of the line function at step X.
// Aux carries caller data produced by the oracle (e.g. the full gradient)
// and is never inspected by the search.
type Point[T Float] struct {
	X, F, DF T
	Aux      any
}

// Finite reports whether both the value and the derivative are finite.
func (p Point[T]) Finite() bool {
	return isFinite(p.F) && isFinite(p.DF)
}

// opposite slope condition of an interval end point [a, b]:
//   - f(a) ≤ f_lim and f′(a) < 0 for the left end point
//   - f′(b) ≥ 0 for the right end point
func (p Point[T]) validLeft(fLim T) bool  { return p.DF < 0 && p.F <= fLim }
func (p Point[T]) needsBisect(fLim T) bool { return p.DF < 0 && p.F > fLim }

// mask is a per-element boolean vector of the batch.
type mask []bool

func newMask(n int, v bool) mask {
	m := make(mask, n)
	if v {
		for i := range m {
			m[i] = true
		}
	}
	return m
}

func (m mask) clone() mask {
	return append(mask(nil), m...)
}

func (m mask) and(o mask) mask {
	r := make(mask, len(m))
	for i := range m {
		r[i] = m[i] && o[i]
	}
	return r
}

func (m mask) andNot(o mask) mask {
	r := make(mask, len(m))
	for i := range m {
		r[i] = m[i] && !o[i]
	}
	return r
}

func (m mask) or(o mask) mask {
	r := make(mask, len(m))
	for i := range m {
		r[i] = m[i] || o[i]
	}
	return r
}

func (m mask) not() mask {
	r := make(mask, len(m))
	for i := range m {
		r[i] = !m[i]
	}
	return r
}

func (m mask) any() bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

func (m mask) all() bool {
	for _, v := range m {
		if !v {
			return false
		}
	}
	return true
}

func (m mask) count() (c int) {
	for _, v := range m {
		if v {
			c++
		}
	}
	return
}

// where selects t[i] when m[i] holds and f[i] otherwise.
// The result never aliases either input.
func where[T Float](m mask, t, f []Point[T]) []Point[T] {
	r := make([]Point[T], len(m))
	for i := range m {
		if m[i] {
			r[i] = t[i]
		} else {
			r[i] = f[i]
		}
	}
	return r
}

// finiteMask reports element-wise finiteness of f and f′.
func finiteMask[T Float](v []Point[T]) mask {
	m := make(mask, len(v))
	for i := range v {
		m[i] = v[i].Finite()
	}
	return m
}
