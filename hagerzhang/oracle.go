// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

import "math"

// Oracle evaluates a batch of line functions.
//
// Evaluate receives one step per requested batch member and must return one Point
// per step, in the same order. The search only requests members that are still
// active, so len(x) may be smaller than the batch size: an Oracle that does not
// implement MemberOracle must apply the same line function to every step.
// Steps passed to Evaluate are always finite.
type Oracle[T Float] interface {
	Evaluate(x []T) []Point[T]
}

// MemberOracle is an Oracle whose batch members are distinct line functions.
// The search calls EvaluateAt with the batch index of every requested step.
type MemberOracle[T Float] interface {
	Oracle[T]
	EvaluateAt(idx []int, x []T) []Point[T]
}

// Func adapts a scalar line function to an Oracle by evaluating each step in turn.
type Func[T Float] func(x T) Point[T]

func (fn Func[T]) Evaluate(x []T) []Point[T] {
	r := make([]Point[T], len(x))
	for i, v := range x {
		r[i] = fn(v)
	}
	return r
}

// BatchFunc adapts a plain batched function to an Oracle.
type BatchFunc[T Float] func(x []T) []Point[T]

func (fn BatchFunc[T]) Evaluate(x []T) []Point[T] {
	return fn(x)
}

// Members is a MemberOracle whose member i is the scalar line function Members[i].
type Members[T Float] []Func[T]

func (m Members[T]) Evaluate(x []T) []Point[T] {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	return m.EvaluateAt(idx, x)
}

func (m Members[T]) EvaluateAt(idx []int, x []T) []Point[T] {
	r := make([]Point[T], len(x))
	for k, i := range idx {
		r[k] = m[i](x[k])
	}
	return r
}

// evaluator issues masked oracle calls and counts them.
// A call that requests no member is skipped and not counted.
type evaluator[T Float] struct {
	oracle  Oracle[T]
	logger  *Logger
	numEval int
}

// at evaluates x[i] for every member i selected by m and copies keep[i] for the others.
// keep may be nil when m selects every member.
func (e *evaluator[T]) at(m mask, x []T, keep []Point[T]) []Point[T] {
	r := make([]Point[T], len(m))
	if keep != nil {
		copy(r, keep)
	}

	idx := make([]int, 0, len(m))
	for i, v := range m {
		if v {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return r
	}

	batch := make([]T, len(idx))
	for k, i := range idx {
		batch[k] = x[i]
	}

	vals := e.call(idx, batch)
	for k, i := range idx {
		r[i] = vals[k]
	}
	e.numEval++

	if e.logger.enable(LogVerbose) {
		for k, i := range idx {
			e.logger.log("  eval [%d] x= %12.5e  f= %12.5e  df= %12.5e\n",
				i, float64(vals[k].X), float64(vals[k].F), float64(vals[k].DF))
		}
	}
	return r
}

// call shields the search from a panicking or misbehaving oracle: the members of the
// batch in flight are reported as non-finite evaluations.
func (e *evaluator[T]) call(idx []int, x []T) (vals []Point[T]) {
	defer func() {
		if r := recover(); r != nil {
			if e.logger.enable(LogLast) {
				e.logger.log("Oracle panicked: %v\n", r)
			}
			vals = nanPoints(x)
		}
	}()
	if o, ok := e.oracle.(MemberOracle[T]); ok {
		vals = o.EvaluateAt(idx, x)
	} else {
		vals = e.oracle.Evaluate(x)
	}
	if len(vals) != len(x) {
		if e.logger.enable(LogLast) {
			e.logger.log("Oracle returned %d points for %d steps\n", len(vals), len(x))
		}
		vals = nanPoints(x)
	}
	return
}

func nanPoints[T Float](x []T) []Point[T] {
	nan := T(math.NaN())
	r := make([]Point[T], len(x))
	for i := range x {
		r[i] = Point[T]{X: x[i], F: nan, DF: nan}
	}
	return r
}
