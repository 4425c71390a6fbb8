// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hagerzhang implements the inexact line search of Hager and Zhang
// for a batch of independent line functions.
//
// Each line function f(a) is usually the projection g(x + a·d) of a multivariate
// objective g along a descent direction d, so that f′(0) < 0. The search returns a
// step satisfying the Wolfe conditions
//
//	f(a) - f(0) ≤ δ·a·f′(0)  and  f′(a) ≥ σ·f′(0)
//
// or, near the minimum where those are unreliable in finite precision, the
// approximate Wolfe conditions
//
//	f(a) ≤ f(0) + ε·|f(0)|  and  (2δ - 1)·f′(0) ≥ f′(a) ≥ σ·f′(0)
//
// All members of a batch advance together. A member stops moving as soon as it
// converges or fails while the others keep searching; the oracle is only asked
// to evaluate members that are still active.
//
// # Reference:
//
//   - W. Hager, H. Zhang. A new conjugate gradient method with guaranteed descent
//     and an efficient line search. SIAM J. Optim., Vol 16. 1, pp. 170-192. 2005.
//   - W. Hager, H. Zhang. Algorithm 851: CG_DESCENT, a conjugate gradient method
//     with guaranteed descent. ACM TOMS, Vol 32. 1, pp. 113-137. 2006.
package hagerzhang

import (
	"errors"
	"math"
	"os"
)

const (
	defaultEpsilon   = 1e-6
	defaultGamma     = 0.66
	defaultRho       = 5.0
	defaultDelta     = 0.1
	defaultSigma     = 0.9
	defaultShrink    = 0.1
	defaultMaxIter   = 50
	defaultFirstStep = 1.0
)

// Params holds the tolerances of the search.
type Params struct {
	// Epsilon is the relative tolerance ε on f(0) below which the approximate
	// Wolfe conditions are accepted: f_lim = f(0) + ε·|f(0)|.
	Epsilon float64
	// Gamma is the shrinkage γ ∈ (0,1). A secant² step that does not shrink the
	// bracket by this factor is followed by a bisection step.
	Gamma float64
	// Rho is the expansion ρ > 1 applied to the right end point while bracketing.
	Rho float64
	// Delta is the sufficient decrease parameter δ ∈ (0, σ].
	Delta float64
	// Sigma is the curvature parameter σ ∈ [δ, 1).
	Sigma float64
	// Shrink ∈ (0,1) scales down an initial step whose evaluation is not finite.
	Shrink float64
	// MaxIterations bounds the number of search iterations, bracketing included.
	MaxIterations int
}

// DefaultParams returns the tolerances recommended by Hager and Zhang.
func DefaultParams() Params {
	return Params{
		Epsilon:       defaultEpsilon,
		Gamma:         defaultGamma,
		Rho:           defaultRho,
		Delta:         defaultDelta,
		Sigma:         defaultSigma,
		Shrink:        defaultShrink,
		MaxIterations: defaultMaxIter,
	}
}

func (p *Params) check() (err error) {
	switch {
	case !(p.Epsilon > 0) || math.IsInf(p.Epsilon, 0):
		err = errors.New("approximate wolfe threshold must greater than 0")
	case !(p.Gamma > 0 && p.Gamma < 1):
		err = errors.New("shrinkage param must lie in (0,1)")
	case !(p.Rho > 1) || math.IsInf(p.Rho, 0):
		err = errors.New("expansion param must greater than 1")
	case !(p.Delta > 0):
		err = errors.New("sufficient decrease param must greater than 0")
	case !(p.Sigma < 1):
		err = errors.New("curvature param must less than 1")
	case p.Delta > p.Sigma:
		err = errors.New("sufficient decrease param must not greater than curvature param")
	case !(p.Shrink > 0 && p.Shrink < 1):
		err = errors.New("step size shrink param must lie in (0,1)")
	case p.MaxIterations < 0:
		err = errors.New("max iteration must not less than 0")
	}
	return
}

// Problem specifies a batch of line functions.
type Problem[T Float] struct {
	N      int       // The batch size
	Eval   Oracle[T] // Line function values and derivatives
	Params *Params   // Optional tolerances, DefaultParams when nil
}

// Start holds the optional starting information of one search.
// Every non-nil slice must have length N.
type Start[T Float] struct {
	// Step is the initial step of each member, 1 when nil.
	// It is ignored when AtStep is given.
	Step []T
	// AtStep is the evaluation at the initial step, if already known.
	AtStep []Point[T]
	// AtZero is the evaluation at 0, if already known.
	AtZero []Point[T]
	// Converged marks members that need no search. They are reported as converged
	// with both end points set to the evaluation at the initial step.
	Converged []bool
}

// Searcher runs line searches for a fixed problem.
// A Searcher keeps no state between searches and may be shared by goroutines
// as long as the oracle and the logger writers are thread-safe.
type Searcher[T Float] struct {
	n      int
	eval   Oracle[T]
	params Params
	logger Logger
}

// New creates a line searcher for the given problem.
func (p *Problem[T]) New(logger *Logger) (searcher *Searcher[T], err error) {

	if logger == nil {
		logger = new(Logger)
		logger.Level = LogNoop
	}
	if logger.Msg == nil {
		logger.Msg = os.Stdout
	}
	if logger.Out == nil {
		logger.Out = os.Stderr
	}

	params := DefaultParams()
	if p.Params != nil {
		params = *p.Params
	}

	switch {
	case p.N <= 0:
		err = errors.New("batch size must greater than 0")
	case p.Eval == nil:
		err = errors.New("evaluation oracle is required")
	default:
		err = params.check()
	}

	if err != nil {
		return
	}

	searcher = &Searcher[T]{
		n:      p.N,
		eval:   p.Eval,
		params: params,
		logger: *logger,
	}
	return
}

// Search runs one batched line search. A nil start searches from step 1 for every member.
func (s *Searcher[T]) Search(start *Start[T]) *Result[T] {

	if start == nil {
		start = new(Start[T])
	}

	n := s.n
	if start.Step != nil && len(start.Step) != n ||
		start.AtStep != nil && len(start.AtStep) != n ||
		start.AtZero != nil && len(start.AtZero) != n ||
		start.Converged != nil && len(start.Converged) != n {
		panic("start dimension not match problem")
	}

	ev := &evaluator[T]{oracle: s.eval, logger: &s.logger}
	run := searchRun[T]{
		Searcher: s,
		ev:       ev,
	}
	return run.search(start)
}
