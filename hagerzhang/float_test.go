// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrecision(t *testing.T) {
	assert.False(t, is32[float64]())
	assert.True(t, is32[float32]())
	assert.Equal(t, 52, repairLimit[float64]())
	assert.Equal(t, 23, repairLimit[float32]())
	assert.Equal(t, math.Nextafter(1, 2)-1, machineEps[float64]())
}

func TestVeryClose(t *testing.T) {
	next := math.Nextafter(1, 2)
	assert.True(t, veryClose(1.0, 1.0))
	assert.True(t, veryClose(1.0, next))
	assert.False(t, veryClose(1.0, math.Nextafter(next, 2)))
	assert.False(t, veryClose(0.5, 1.0))

	var a float32 = 1
	assert.True(t, veryClose(a, math.Nextafter32(a, 2)))
	assert.False(t, veryClose(a, a+1e-6))

	assert.True(t, flatValue(next, 1.0))
	assert.True(t, flatValue(0.0, 0.0))
	assert.False(t, flatValue(0.0, 1e-3))
}

func TestMask(t *testing.T) {
	a := mask{true, true, false, false}
	b := mask{true, false, true, false}

	assert.Equal(t, mask{true, false, false, false}, a.and(b))
	assert.Equal(t, mask{false, true, false, false}, a.andNot(b))
	assert.Equal(t, mask{true, true, true, false}, a.or(b))
	assert.Equal(t, mask{false, false, true, true}, a.not())
	assert.Equal(t, 2, a.count())
	assert.True(t, a.any())
	assert.False(t, a.all())
	assert.True(t, newMask(3, true).all())
	assert.False(t, newMask(3, false).any())

	c := a.clone()
	c[0] = false
	assert.True(t, a[0])

	pts := quadratic(0).Evaluate([]float64{1, 2, 3, 4})
	alt := quadratic(0).Evaluate([]float64{5, 6, 7, 8})
	w := where(b, pts, alt)
	assert.Equal(t, []float64{1, 6, 3, 8}, []float64{w[0].X, w[1].X, w[2].X, w[3].X})
	w[0].X = -1
	assert.Equal(t, 1.0, pts[0].X)

	pts[1].F = math.Inf(1)
	assert.Equal(t, mask{true, false, true, true}, finiteMask(pts))
}
