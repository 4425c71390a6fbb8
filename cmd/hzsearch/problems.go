package main

import (
	"fmt"
	"math"

	"github.com/curioloop/linesearch/hagerzhang"
	"github.com/curioloop/linesearch/numdiff"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/optimize/functions"
)

// problemNames lists the built-in line functions.
var problemNames = []string{"quadratic", "rosenbrock", "beale", "overflow"}

type smooth interface {
	Func(x []float64) float64
	Grad(grad, x []float64)
}

// buildProblem returns a batch of batch line functions of the named family.
// Member i is shifted by i so that members converge after different numbers of iterations.
func buildProblem(name string, batch int) (hagerzhang.Oracle[float64], error) {
	if batch <= 0 {
		return nil, fmt.Errorf("batch size must be positive: %d", batch)
	}

	switch name {
	case "quadratic":
		// f(a) = (a - c)², minimum at c = 1.3·(i+1)
		m := make(hagerzhang.Members[float64], batch)
		for i := range m {
			c := 1.3 * float64(i+1)
			m[i] = func(a float64) hagerzhang.Point[float64] {
				return hagerzhang.Point[float64]{X: a, F: (a - c) * (a - c), DF: 2 * (a - c)}
			}
		}
		return m, nil
	case "rosenbrock":
		return directional(functions.ExtendedRosenbrock{}, batch, []float64{-1.2, 1})
	case "beale":
		return directional(functions.Beale{}, batch, []float64{1, 1})
	case "overflow":
		// f(a) = cosh(a - c) overflows for steps beyond ~710, derivative by central difference
		m := make(hagerzhang.Members[float64], batch)
		for i := range m {
			c := 1.3 * float64(i+1)
			m[i] = hagerzhang.Approx(func(a float64) float64 { return math.Cosh(a - c) }, numdiff.Central)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown problem %q, expected one of %v", name, problemNames)
}

// directional searches fn along its steepest descent direction from batch origins
// spaced by 0.25 along the first coordinate of x0.
func directional(fn smooth, batch int, x0 []float64) (*hagerzhang.Directional, error) {
	x := make([][]float64, batch)
	d := make([][]float64, batch)
	for i := range x {
		x[i] = append([]float64(nil), x0...)
		x[i][0] += 0.25 * float64(i)
		d[i] = make([]float64, len(x0))
		fn.Grad(d[i], x[i])
		floats.Scale(-1, d[i])
	}
	return hagerzhang.NewDirectional(optimize.Problem{Func: fn.Func, Grad: fn.Grad}, x, d)
}
