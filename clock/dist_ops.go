// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import "math"

// Multiply returns the pointwise product of densities, i.e. the sum
// of their -log values, on the intersection of their supports.
//
// If any input is a delta at x0, the result is a delta at x0 whose
// weight is the product of every input's density at x0. If two or
// more deltas sit at distinct positions, the product is impossible
// (its support would be empty); Multiply returns the dead sentinel
// distribution and ErrEmptySupport, and the caller (typically the
// engine, which can name the offending node) is expected to escalate
// it.
func Multiply(ds []*Distribution, cfg Config) (*Distribution, error) {
	cfg = cfg.withDefaults()

	var nonDelta []*Distribution
	var deltaPos float64
	haveDelta := false
	deltaWeight := 1.0

	for _, d := range ds {
		if d == nil {
			continue
		}
		if d.dead {
			return deadDistribution(), ErrEmptySupport
		}
		if d.isDelta {
			if haveDelta && d.deltaPos != deltaPos {
				return deadDistribution(), ErrEmptySupport
			}
			haveDelta = true
			deltaPos = d.deltaPos
			deltaWeight *= d.deltaWeight
			continue
		}
		nonDelta = append(nonDelta, d)
	}

	if haveDelta {
		for _, d := range nonDelta {
			deltaWeight *= d.Prob(deltaPos)
		}
		if deltaWeight <= 0 {
			return deadDistribution(), ErrEmptySupport
		}
		return DeltaFunction(deltaPos, deltaWeight), nil
	}

	if len(nonDelta) == 0 {
		return deadDistribution(), ErrEmptySupport
	}
	if len(nonDelta) == 1 {
		return nonDelta[0], nil
	}

	lo, hi := nonDelta[0].xmin, nonDelta[0].xmax
	grids := make([][]float64, len(nonDelta))
	for i, d := range nonDelta {
		if d.xmin > lo {
			lo = d.xmin
		}
		if d.xmax < hi {
			hi = d.xmax
		}
		grids[i] = d.x
	}
	if lo > hi {
		return deadDistribution(), ErrEmptySupport
	}

	grid := mergeGrids(grids, lo, hi)
	sumAt := func(x float64) float64 {
		var s float64
		for _, d := range nonDelta {
			s += d.Eval(x)
		}
		return s
	}
	gx, gy := resampleWithCap(grid, sumAt, cfg.MaxGridPoints)

	offset := gy[0]
	for _, v := range gy {
		if v < offset {
			offset = v
		}
	}
	shifted := make([]float64, len(gy))
	for i, v := range gy {
		shifted[i] = v - offset
	}

	res, err := NewInterpolator(gx, shifted)
	if err != nil {
		return deadDistribution(), ErrEmptySupport
	}
	res.offset = offset
	return res, nil
}

// Convolve computes C(z) = integral A(t) B(z-t) dt (inverseTime
// false), or C(z) = integral A(t) B(t-z) dt (inverseTime true, used to
// propagate parent time to child time: child = parent - branch
// length).
//
// If A is a delta at t0, the result is an exact shift of B (O(|B|)).
// Otherwise, the integral is approximated in the log domain by
// brute-force summation over a grid truncated to a radius set by the
// smaller input's FWHM, combined with log-sum-exp to avoid underflow.
func Convolve(a, b *Distribution, inverseTime bool, cfg Config) (*Distribution, error) {
	cfg = cfg.withDefaults()

	if a == nil || b == nil {
		return deadDistribution(), ErrEmptySupport
	}
	if a.dead || b.dead {
		return deadDistribution(), ErrEmptySupport
	}

	if a.isDelta {
		if !inverseTime {
			return ShiftedX(b, a.peakPos), nil
		}
		return ShiftedX(XRescale(b, -1), a.peakPos), nil
	}
	if b.isDelta {
		if !inverseTime {
			return ShiftedX(a, b.peakPos), nil
		}
		return ShiftedX(a, -b.peakPos), nil
	}

	var zlo, zhi float64
	if !inverseTime {
		zlo, zhi = a.xmin+b.xmin, a.xmax+b.xmax
	} else {
		zlo, zhi = a.xmin-b.xmax, a.xmax-b.xmin
	}
	if zlo >= zhi {
		return deadDistribution(), ErrEmptySupport
	}

	radius := 6 * math.Min(a.fwhm, b.fwhm)
	if radius <= 0 {
		radius = math.Max(a.xmax-a.xmin, b.xmax-b.xmin)
	}

	nz := cfg.FFTNodeNum
	zGrid := linSpace(nz, zlo, zhi)
	y := make([]float64, len(zGrid))

	nt := 64
	for i, z := range zGrid {
		var tCenter float64
		if !inverseTime {
			tCenter = z - b.peakPos
		} else {
			tCenter = z + b.peakPos
		}
		tLo, tHi := tCenter-radius, tCenter+radius
		if tLo < a.xmin {
			tLo = a.xmin
		}
		if tHi > a.xmax {
			tHi = a.xmax
		}
		if tLo >= tHi {
			tLo, tHi = a.xmin, a.xmax
		}
		tGrid := linSpace(nt, tLo, tHi)
		dt := (tHi - tLo) / float64(len(tGrid)-1)

		terms := make([]float64, len(tGrid))
		for j, t := range tGrid {
			var bArg float64
			if !inverseTime {
				bArg = z - t
			} else {
				bArg = t - z
			}
			terms[j] = -(a.Eval(t) + b.Eval(bArg))
		}
		lse := logSumExp(terms)
		if math.IsInf(lse, -1) {
			y[i] = bigNumber
			continue
		}
		y[i] = -(lse + math.Log(dt))
	}

	res, err := NewInterpolator(zGrid, y)
	if err != nil {
		return deadDistribution(), ErrEmptySupport
	}
	return res, nil
}

// logSumExp returns log(sum(exp(v))), computed with the standard
// max-shift trick to avoid underflow.
func logSumExp(v []float64) float64 {
	if len(v) == 0 {
		return math.Inf(-1)
	}
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	if math.IsInf(max, -1) {
		return math.Inf(-1)
	}
	var sum float64
	for _, x := range v {
		sum += math.Exp(x - max)
	}
	return math.Log(sum) + max
}
