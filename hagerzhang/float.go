// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hagerzhang

import (
	"math"
	"unsafe"
)

// Float is the working floating-point type of a line search.
type Float interface {
	~float32 | ~float64
}

func is32[T Float]() bool {
	var v T
	return unsafe.Sizeof(v) == 4
}

// machineEps returns the distance between 1 and the next representable value of T.
func machineEps[T Float]() T {
	if is32[T]() {
		return T(math.Nextafter32(1, 2) - 1)
	}
	return T(math.Nextafter(1, 2) - 1)
}

// repairLimit is the number of halvings needed to drive 1 to zero in the precision of T,
// i.e. ⌈-log₂(eps)⌉ (23 for float32, 52 for float64).
func repairLimit[T Float]() int {
	return int(math.Ceil(-math.Log2(float64(machineEps[T]()))))
}

func nextAfter[T Float](x, y T) T {
	if is32[T]() {
		return T(math.Nextafter32(float32(x), float32(y)))
	}
	return T(math.Nextafter(float64(x), float64(y)))
}

// veryClose reports whether one ULP step from x toward y reaches or passes y.
// It is only meaningful for x ≤ y.
func veryClose[T Float](x, y T) bool {
	return nextAfter(x, y) >= y
}

func isFinite[T Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func abs[T Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
