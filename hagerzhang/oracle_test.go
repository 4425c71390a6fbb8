// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

import (
	"bytes"
	"math"
	"testing"

	"github.com/curioloop/linesearch/numdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/optimize/functions"
)

func TestEvaluatorMask(t *testing.T) {
	var seen [][]int
	m := Members[float64]{quadratic(1), quadratic(2), quadratic(3)}
	rec := recorder{Members: m, seen: &seen}
	ev := &evaluator[float64]{oracle: rec}

	keep := nanPoints([]float64{7, 8, 9})
	got := ev.at(mask{true, false, true}, []float64{1, 2, 3}, keep)
	assert.Equal(t, [][]int{{0, 2}}, seen)
	assert.Equal(t, quadratic(1)(1), got[0])
	assert.Equal(t, keep[1].X, got[1].X)
	assert.True(t, math.IsNaN(got[1].F))
	assert.Equal(t, quadratic(3)(3), got[2])
	assert.Equal(t, 1, ev.numEval)

	// An empty request is neither issued nor counted.
	got = ev.at(mask{false, false, false}, []float64{1, 2, 3}, keep)
	assert.Len(t, seen, 1)
	assert.Equal(t, 1, ev.numEval)
	assert.Equal(t, keep[0].X, got[0].X)
}

type recorder struct {
	Members[float64]
	seen *[][]int
}

func (r recorder) EvaluateAt(idx []int, x []float64) []Point[float64] {
	*r.seen = append(*r.seen, append([]int(nil), idx...))
	return r.Members.EvaluateAt(idx, x)
}

func TestEvaluatorRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{Level: LogLast, Msg: &buf}
	boom := Func[float64](func(x float64) Point[float64] { panic("boom") })

	ev := &evaluator[float64]{oracle: boom, logger: logger}
	got := ev.at(mask{true, true}, []float64{1, 2}, nil)
	for i, v := range got {
		assert.False(t, v.Finite())
		assert.Equal(t, float64(i+1), v.X)
	}
	assert.Contains(t, buf.String(), "Oracle panicked: boom")
	assert.Equal(t, 1, ev.numEval)
}

func TestDirectional(t *testing.T) {
	rosen := functions.ExtendedRosenbrock{}
	p := optimize.Problem{Func: rosen.Func, Grad: rosen.Grad}

	x := [][]float64{{-1.2, 1}, {0, 0}, {2, 2}}
	d := make([][]float64, len(x))
	for i := range x {
		d[i] = make([]float64, len(x[i]))
		rosen.Grad(d[i], x[i])
		floats.Scale(-1, d[i])
	}

	oracle, err := NewDirectional(p, x, d)
	require.NoError(t, err)
	require.Equal(t, 3, oracle.N())

	params := DefaultParams()
	for _, step := range []float64{1e-3, 1} {
		s := newSearcher[float64](t, oracle.N(), oracle, nil)
		res := s.Search(&Start[float64]{Step: []float64{step, step, step}})

		for i := range x {
			require.True(t, res.Converged[i], "member %d from %v", i, step)
			initObj, initGrad := rosen.Func(x[i]), oracle.Slope(i)
			assert.Less(t, initGrad, 0.0)

			c := res.Left[i]
			// Members may stop on the approximate conditions, which trade sufficient
			// decrease for a tighter slope bound near f(0).
			weak := optimize.WeakWolfeConditionsMet(c.F, c.DF, initObj, initGrad, c.X, params.Delta, params.Sigma)
			assert.True(t, weak || wolfeHold(Point[float64]{F: initObj, DF: initGrad}, c, params))
			assert.LessOrEqual(t, c.F, initObj+params.Epsilon*math.Abs(initObj))

			loc, ok := c.Aux.(Location)
			require.True(t, ok)
			want := floats.AddScaledTo(make([]float64, 2), x[i], c.X, d[i])
			assert.InDeltaSlice(t, want, loc.X, 1e-12)
			assert.InDelta(t, rosen.Func(loc.X), c.F, 1e-12)
		}
	}
}

func TestNewDirectional(t *testing.T) {
	rosen := functions.ExtendedRosenbrock{}
	p := optimize.Problem{Func: rosen.Func, Grad: rosen.Grad}
	x := [][]float64{{0, 0}}

	_, err := NewDirectional(optimize.Problem{Func: rosen.Func}, x, x)
	assert.Error(t, err)
	_, err = NewDirectional(p, nil, nil)
	assert.Error(t, err)
	_, err = NewDirectional(p, x, [][]float64{{1, 0}, {0, 1}})
	assert.Error(t, err)
	_, err = NewDirectional(p, x, [][]float64{{1, 0, 0}})
	assert.Error(t, err)
	_, err = NewDirectional(p, [][]float64{{0, 0}, {0}}, [][]float64{{1, 0}, {1}})
	assert.Error(t, err)
}

func TestApprox(t *testing.T) {
	for _, method := range []numdiff.Method{numdiff.Forward, numdiff.Central} {
		fn := Approx(func(a float64) float64 { return (a - 1.3) * (a - 1.3) }, method)

		p := fn(0.5)
		assert.InDelta(t, 0.64, p.F, 1e-15)
		assert.InDelta(t, -1.6, p.DF, 1e-6)

		s := newSearcher[float64](t, 1, fn, nil)
		res := s.Search(&Start[float64]{Step: []float64{0.1}})
		require.True(t, res.Converged[0])
		assert.InDelta(t, 1.3, res.Left[0].X, 1e-4)
	}

	neg := Approx(math.Exp, numdiff.Central)(-1)
	assert.False(t, neg.Finite())
}

func TestLogger(t *testing.T) {
	var msg, out bytes.Buffer
	p := Problem[float64]{N: 1, Eval: quadratic(1.3)}

	s, err := p.New(&Logger{Level: LogEval, Msg: &msg, Out: &out})
	require.NoError(t, err)
	res := s.Search(&Start[float64]{Step: []float64{0.1}})
	require.True(t, res.Converged[0])

	assert.Contains(t, msg.String(), "Bracket   1")
	assert.Contains(t, msg.String(), "At iterate     3")
	assert.Contains(t, msg.String(), "Tnf")
	assert.NotEmpty(t, out.String())

	msg.Reset()
	s, err = p.New(&Logger{Level: LogNoop, Msg: &msg})
	require.NoError(t, err)
	s.Search(nil)
	assert.Empty(t, msg.String())
}
