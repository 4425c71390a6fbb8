// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

import (
	"math"

	"github.com/curioloop/linesearch/numdiff"
)

// Approx builds an oracle for a line function without a known derivative,
// estimating f′ by finite differences on [0, +∞).
func Approx(f func(a float64) float64, method numdiff.Method) Func[float64] {
	spec := numdiff.LineSpec{Object: f, Method: method}
	return func(a float64) Point[float64] {
		fa, dfa, err := spec.Diff(a)
		if err != nil {
			// a < 0 from an overshooting secant step: report it as not evaluable.
			return Point[float64]{X: a, F: math.NaN(), DF: math.NaN()}
		}
		return Point[float64]{X: a, F: fa, DF: dfa}
	}
}
