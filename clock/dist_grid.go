// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// mergeGrids returns the sorted union of one or more x grids,
// restricted to [lo, hi], with duplicate x values collapsed. It is the
// "union of all input grids restricted to the intersection support"
// step of Multiply.
func mergeGrids(grids [][]float64, lo, hi float64) []float64 {
	var all []float64
	for _, g := range grids {
		for _, x := range g {
			if x < lo || x > hi {
				continue
			}
			all = append(all, x)
		}
	}
	if len(all) == 0 || all[0] > lo {
		all = append(all, lo)
	}
	if all[len(all)-1] < hi {
		all = append(all, hi)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// resampleWithCap evaluates fn (a -log density) on grid x, honoring the
// MaxGridPoints cap: when len(x) exceeds max, it is subsampled,
// keeping the points where the discrete second difference of the
// evaluated curve is largest, preserving local curvature.
func resampleWithCap(x []float64, fn func(float64) float64, max int) ([]float64, []float64) {
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = fn(xi)
	}
	if len(x) <= max {
		return x, y
	}
	return subsampleByCurvature(x, y, max)
}

// subsampleByCurvature keeps at most max points of (x, y), always
// keeping the two endpoints, and greedily keeping the interior points
// with the largest |second difference|, so a capped grid degrades
// gracefully instead of failing.
func subsampleByCurvature(x, y []float64, max int) ([]float64, []float64) {
	n := len(x)
	if max < 2 {
		max = 2
	}
	if n <= max {
		return x, y
	}

	type scored struct {
		idx   int
		curve float64
	}
	interior := make([]scored, 0, n-2)
	for i := 1; i < n-1; i++ {
		d2 := y[i-1] - 2*y[i] + y[i+1]
		if d2 < 0 {
			d2 = -d2
		}
		interior = append(interior, scored{idx: i, curve: d2})
	}
	slices.SortFunc(interior, func(a, b scored) int {
		if a.curve == b.curve {
			return 0
		}
		if a.curve > b.curve {
			return -1
		}
		return 1
	})

	keep := max - 2
	if keep > len(interior) {
		keep = len(interior)
	}
	idx := make([]int, 0, max)
	idx = append(idx, 0, n-1)
	for i := 0; i < keep; i++ {
		idx = append(idx, interior[i].idx)
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)

	nx := make([]float64, len(idx))
	ny := make([]float64, len(idx))
	for i, id := range idx {
		nx[i] = x[id]
		ny[i] = y[id]
	}
	return nx, ny
}

// linSpace is a thin wrapper over gonum's floats.Span, used to lay out
// the brute-force convolution and branch-length candidate grids on
// evenly spaced points.
func linSpace(n int, lo, hi float64) []float64 {
	if n < 2 {
		n = 2
	}
	dst := make([]float64, n)
	return floats.Span(dst, lo, hi)
}
