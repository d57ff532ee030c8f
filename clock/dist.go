// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"fmt"
	"math"
)

// bigNumber stands in for +Inf in -log density values so that grid
// arithmetic never has to special-case infinities. It is a fixed
// internal constant, not a Config knob: every Distribution in a run
// must agree on it, and exp(-bigNumber) already underflows to an
// exact zero, so there is nothing useful for a caller to tune.
const bigNumber = 1e9

// Distribution represents a one-dimensional, non-negative,
// unnormalized density p(x) on a bounded support [xmin, xmax] by
// storing y(x) = -log p(x) on a strictly increasing grid, with linear
// interpolation between samples. A Distribution is a value: every
// operation below returns a new one, never mutates its receiver or
// arguments, so distributions can be shared, cached, and (eventually)
// computed in parallel across subtrees.
//
// A Distribution is either a regular interpolated density (isDelta
// false, grid/y populated) or a Dirac mass (isDelta true, deltaPos/
// deltaWeight populated). Both variants share peakPos/peakVal so
// callers that only need the mode never have to branch on the tag.
type Distribution struct {
	isDelta     bool
	deltaPos    float64
	deltaWeight float64

	xmin, xmax float64
	x          []float64
	y          []float64

	peakPos float64
	peakVal float64

	// offset is the log-normalization constant subtracted by
	// Multiply so peakVal stays at 0; retained for callers that need
	// the absolute (rather than relative) log-likelihood.
	offset float64

	// fwhm is the full width at half maximum of p(x), i.e. where
	// y <= peakVal + log(2). It is used only to size convolution
	// grids.
	fwhm float64

	// dead marks the "impossible" sentinel distribution returned
	// when an operation's result would have empty support. A dead
	// distribution has no valid support; Eval always returns
	// bigNumber.
	dead bool
}

// NewInterpolator builds a Distribution from parallel x (strictly
// increasing) and y = -log p(x) slices. It returns an error if x is
// not strictly increasing, if the two slices differ in length, or if
// fewer than one sample is given.
func NewInterpolator(x, y []float64) (*Distribution, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("clock: grid length mismatch: %d x, %d y", len(x), len(y))
	}
	if len(x) < 1 {
		return nil, fmt.Errorf("clock: grid must have at least one point")
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf("clock: grid not strictly increasing at index %d", i)
		}
	}

	d := &Distribution{
		xmin: x[0],
		xmax: x[len(x)-1],
		x:    append([]float64(nil), x...),
		y:    append([]float64(nil), y...),
	}
	d.findPeak()
	d.setFWHM()
	return d, nil
}

// DeltaFunction returns a Dirac mass at x0 with the given weight,
// used when a node's time is exactly known, typically a dated leaf.
// The zero weight is treated as 1.0.
func DeltaFunction(x0 float64, weight float64) *Distribution {
	if weight == 0 {
		weight = 1
	}
	return &Distribution{
		isDelta:     true,
		deltaPos:    x0,
		deltaWeight: weight,
		xmin:        x0,
		xmax:        x0,
		peakPos:     x0,
		peakVal:     -math.Log(weight),
	}
}

// deadDistribution is the sentinel for an "impossible" distribution:
// a multiply or convolve whose result would have empty support. Eval
// and Prob on a dead distribution always return the values consistent
// with zero probability everywhere.
func deadDistribution() *Distribution {
	return &Distribution{
		dead:    true,
		peakVal: bigNumber,
	}
}

// IsDead reports whether d is the "impossible" sentinel distribution.
func (d *Distribution) IsDead() bool {
	return d != nil && d.dead
}

// IsDelta reports whether d is a Dirac mass.
func (d *Distribution) IsDelta() bool {
	return d != nil && d.isDelta
}

// Support returns the bounds of d's support. Outside [xmin, xmax],
// p(x) is defined to be 0.
func (d *Distribution) Support() (xmin, xmax float64) {
	return d.xmin, d.xmax
}

// PeakPos returns the mode of p(x), i.e. argmin y(x).
func (d *Distribution) PeakPos() float64 {
	return d.peakPos
}

// PeakVal returns min y(x), the -log density at the mode.
func (d *Distribution) PeakVal() float64 {
	return d.peakVal
}

// Offset returns the log-normalization constant subtracted by the
// last Multiply that produced d (0 if d was never through Multiply).
func (d *Distribution) Offset() float64 {
	return d.offset
}

// FWHM returns the full width at half maximum used to size
// convolution grids.
func (d *Distribution) FWHM() float64 {
	return d.fwhm
}

// Eval returns y(x) = -log p(x) using linear interpolation on the
// grid. Outside the support, Eval returns bigNumber, standing in for
// +Inf.
func (d *Distribution) Eval(x float64) float64 {
	if d.dead {
		return bigNumber
	}
	if d.isDelta {
		if x == d.deltaPos {
			return d.peakVal
		}
		return bigNumber
	}
	if x < d.xmin || x > d.xmax {
		return bigNumber
	}
	return interp(d.x, d.y, x)
}

// Prob returns p(x) = exp(-y(x)), the unnormalized density value.
func (d *Distribution) Prob(x float64) float64 {
	return math.Exp(-d.Eval(x))
}

// ProbRelative returns exp(peakVal - y(x)), a display-only relative
// density normalized to 1 at the mode. Distributions are never
// renormalized to integrate to 1.
func (d *Distribution) ProbRelative(x float64) float64 {
	return math.Exp(d.peakVal - d.Eval(x))
}

// findPeak sets peakPos/peakVal to the grid's argmin/min of y (the
// first such grid point on a tie). With linear interpolation between
// samples the minimum always lies on a grid point, so no refinement
// between samples is made.
func (d *Distribution) findPeak() {
	best := 0
	for i := 1; i < len(d.y); i++ {
		if d.y[i] < d.y[best] {
			best = i
		}
	}
	d.peakPos = d.x[best]
	d.peakVal = d.y[best]
}

// setFWHM records the full width where y <= peakVal + log(2).
func (d *Distribution) setFWHM() {
	thresh := d.peakVal + math.Log(2)
	lo, hi := d.xmin, d.xmax
	for i, yi := range d.y {
		if yi <= thresh {
			lo = d.x[i]
			break
		}
	}
	for i := len(d.y) - 1; i >= 0; i-- {
		if d.y[i] <= thresh {
			hi = d.x[i]
			break
		}
	}
	d.fwhm = hi - lo
	if d.fwhm <= 0 {
		// degenerate (single point, or a grid entirely above
		// threshold); fall back to the full support width so
		// convolution radii never collapse to zero.
		d.fwhm = d.xmax - d.xmin
	}
}

// interp performs linear interpolation of y at x over a strictly
// increasing grid gx, assuming xmin <= x <= xmax.
func interp(gx, gy []float64, x float64) float64 {
	if len(gx) == 1 {
		return gy[0]
	}
	// binary search for the interval containing x.
	lo, hi := 0, len(gx)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if gx[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	if gx[hi] == gx[lo] {
		return gy[lo]
	}
	t := (x - gx[lo]) / (gx[hi] - gx[lo])
	return gy[lo] + t*(gy[hi]-gy[lo])
}

// ShiftedX returns a new Distribution with x' = x + delta: support and
// grid translated, peak shifted along.
func ShiftedX(d *Distribution, delta float64) *Distribution {
	if d.dead {
		return d
	}
	if d.isDelta {
		return DeltaFunction(d.deltaPos+delta, d.deltaWeight)
	}
	nx := make([]float64, len(d.x))
	for i, v := range d.x {
		nx[i] = v + delta
	}
	nd := &Distribution{
		xmin:    d.xmin + delta,
		xmax:    d.xmax + delta,
		x:       nx,
		y:       append([]float64(nil), d.y...),
		peakPos: d.peakPos + delta,
		peakVal: d.peakVal,
		offset:  d.offset,
		fwhm:    d.fwhm,
	}
	return nd
}

// XRescale returns a new Distribution with x' = alpha*x. If alpha is
// negative the grid is reversed so it stays strictly increasing.
func XRescale(d *Distribution, alpha float64) *Distribution {
	if d.dead {
		return d
	}
	if d.isDelta {
		return DeltaFunction(d.deltaPos*alpha, d.deltaWeight)
	}
	n := len(d.x)
	nx := make([]float64, n)
	ny := make([]float64, n)
	if alpha >= 0 {
		for i, v := range d.x {
			nx[i] = v * alpha
			ny[i] = d.y[i]
		}
	} else {
		for i := 0; i < n; i++ {
			nx[i] = d.x[n-1-i] * alpha
			ny[i] = d.y[n-1-i]
		}
	}
	nd := &Distribution{
		xmin:    nx[0],
		xmax:    nx[n-1],
		x:       nx,
		y:       ny,
		peakPos: d.peakPos * alpha,
		peakVal: d.peakVal,
		offset:  d.offset,
		fwhm:    d.fwhm,
	}
	return nd
}
