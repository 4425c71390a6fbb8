// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Location is attached to every Point produced by Directional as Aux.
type Location struct {
	X    []float64 // x + a·d
	Grad []float64 // ∇g(x + a·d)
}

// Directional projects a multivariate problem g along one direction per batch member:
//
//	f(a) = g(x + a·d),  f′(a) = ∇g(x + a·d)ᵀd
//
// Member i uses origin X[i] and direction D[i].
type Directional struct {
	problem optimize.Problem
	x, d    [][]float64
}

// NewDirectional checks the problem and the shapes of origins and directions.
func NewDirectional(p optimize.Problem, x, d [][]float64) (*Directional, error) {
	switch {
	case p.Func == nil:
		return nil, errors.New("objective function is required")
	case p.Grad == nil:
		return nil, errors.New("gradient function is required")
	case len(x) == 0:
		return nil, errors.New("at least one origin is required")
	case len(x) != len(d):
		return nil, errors.New("origins and directions size not match")
	}
	for i := range x {
		if len(x[i]) != len(d[i]) || len(x[i]) != len(x[0]) {
			return nil, errors.New("origin and direction dimension not match")
		}
	}
	return &Directional{problem: p, x: x, d: d}, nil
}

// N returns the batch size.
func (o *Directional) N() int { return len(o.x) }

// Slope returns the directional derivative ∇g(x)ᵀd of member i at a = 0,
// which must be negative for d to be a descent direction.
func (o *Directional) Slope(i int) float64 {
	g := make([]float64, len(o.x[i]))
	o.problem.Grad(g, o.x[i])
	return floats.Dot(g, o.d[i])
}

// Evaluate evaluates every member; len(a) must equal the batch size.
func (o *Directional) Evaluate(a []float64) []Point[float64] {
	idx := make([]int, len(a))
	for i := range idx {
		idx[i] = i
	}
	return o.EvaluateAt(idx, a)
}

// EvaluateAt evaluates member idx[k] at step a[k].
func (o *Directional) EvaluateAt(idx []int, a []float64) []Point[float64] {
	r := make([]Point[float64], len(a))
	for k, i := range idx {
		x, d := o.x[i], o.d[i]
		loc := Location{
			X:    floats.AddScaledTo(make([]float64, len(x)), x, a[k], d),
			Grad: make([]float64, len(x)),
		}
		o.problem.Grad(loc.Grad, loc.X)
		r[k] = Point[float64]{
			X:   a[k],
			F:   o.problem.Func(loc.X),
			DF:  floats.Dot(loc.Grad, d),
			Aux: loc,
		}
	}
	return r
}
