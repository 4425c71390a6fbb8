package numdiff

import (
	"errors"
	"math"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use central difference in interior points and the second order accuracy
	// forward or backward difference near the boundary.
	Central
)

// Bound is the closed range [lower, upper] a line function may be evaluated on.
// NaN means unbounded on that side.
type Bound [2]float64

// LineSpec estimates the derivative of a scalar line function f(a) by finite differences.
//
// Line searches evaluate f only at a ≥ 0, so the default bound is [0, +∞) and
// a difference at a = 0 is taken one-sided.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
//
// # License
//
//   - https://github.com/scipy/scipy/blob/main/LICENSE.txt
type LineSpec struct {
	// Function of which to estimate the derivative.
	Object func(a float64) float64
	// Finite difference method to use.
	Method Method
	// Range of function evaluation, [0, +∞) when nil.
	Bound *Bound
	// Relative step size used to compute absolute step size.
	// The default absolute step size is computed as h = RelStep * sign(a) * max(1, abs(a)) with RelStep being selected automatically.
	// Otherwise, absolute step size is computed as h = RelStep * sign(a) * abs(a) when RelStep is provided.
	RelStep float64
	// Absolute step size to use, possibly adjusted to fit into the bound.
	// The RelStep is used when AbsStep is not provide.
	// For Central method the sign of AbsStep is ignored.
	AbsStep float64
}

// Check the parameters.
func (ls *LineSpec) Check() (err error) {
	switch {
	case ls.Method != Forward && ls.Method != Central:
		err = errors.New("unknown method")
	case ls.Object == nil:
		err = errors.New("object function is required")
	case ls.RelStep < 0:
		err = errors.New("negative relative step")
	}
	if err == nil {
		lb, ub := ls.bound()
		if lb > ub {
			err = errors.New("invalid bound range")
		}
	}
	return
}

func (ls *LineSpec) bound() (lb, ub float64) {
	lb, ub = 0, math.Inf(1)
	if ls.Bound != nil {
		lb, ub = ls.Bound[0], ls.Bound[1]
		if math.IsNaN(lb) {
			lb = math.Inf(-1)
		}
		if math.IsNaN(ub) {
			ub = math.Inf(1)
		}
	}
	return
}

// Diff returns f(a) and the finite difference approximation of f′(a).
// Values outside the bound are never requested from Object.
func (ls *LineSpec) Diff(a float64) (f, df float64, err error) {

	if err = ls.Check(); err != nil {
		return
	}

	lb, ub := ls.bound()
	if a < lb || a > ub {
		err = errors.New("a violates bound constraints")
		return
	}

	h := ls.absoluteStep(a)
	h, oneSide := ls.adjustToBound(a, h, lb, ub)

	fun := ls.Object
	f = fun(a)
	if ls.Method == Central {
		if oneSide {
			f1, f2 := fun(a+h), fun(a+2*h)
			df = (4*f1 - 3*f - f2) / (2 * h)
		} else {
			f1, f2 := fun(a-h), fun(a+h)
			df = (f2 - f1) / (2 * h)
		}
	} else {
		df = (fun(a+h) - f) / h
	}
	return
}

func (ls *LineSpec) absoluteStep(a float64) (h float64) {

	var eps float64
	switch ls.Method {
	case Forward:
		eps = sqrtEps
	case Central:
		eps = cubeEps
	default:
		panic("unknown method")
	}

	abs, rel := ls.AbsStep, ls.RelStep
	if abs == 0 && rel == 0 {
		return math.Copysign(eps, a) * math.Max(1.0, math.Abs(a))
	}

	h = abs
	if h == 0 {
		h = math.Copysign(rel, a) * math.Abs(a)
	}
	if (a+h)-a == 0 {
		h = math.Copysign(eps, a) * math.Max(1.0, math.Abs(a))
	}
	return
}

// adjustToBound flips or shrinks h so that every requested point lies in [lb, ub].
// For Central it reports whether the difference has to be taken one-sided.
func (ls *LineSpec) adjustToBound(a, h, lb, ub float64) (float64, bool) {
	ld, ud := a-lb, ub-a

	if ls.Method == Forward {
		x := a + h
		violated := x < lb || x > ub
		fitting := math.Abs(h) <= math.Max(ld, ud)
		if violated && fitting {
			h = -h
		} else if !fitting {
			if ud >= ld {
				h = ud
			} else {
				h = -ld
			}
		}
		return h, false
	}

	h = math.Abs(h)
	if ld >= h && ud >= h {
		return h, false
	}

	oneSide := true
	if ud >= ld {
		h = math.Min(h, 0.5*ud)
	} else {
		h = -math.Min(h, 0.5*ld)
	}
	if minDist := math.Min(ud, ld); math.Abs(h) <= minDist {
		h, oneSide = minDist, false
	}
	return h, oneSide
}
