// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DateConversion is the affine calibration between a dated leaf's
// sampling date and its root-to-tip branch length in substitution
// units: branchLength = Slope*date + Intercept.
type DateConversion struct {
	Slope     float64
	Intercept float64
	RVal      float64
}

// rootToTip returns the sum of peak branch lengths from the tree's
// root down to n, using each node's already-built branch-length
// interpolator.
func rootToTip(anc TreeAnc, nodes map[NodeID]*ClockNode, n NodeID) float64 {
	var sum float64
	for !anc.IsRoot(n) {
		cn := nodes[n]
		if cn != nil && cn.BranchLenInterp != nil {
			sum += cn.BranchLenInterp.PeakPos()
		}
		n = anc.Parent(n)
	}
	return sum
}

// DateConversionFromTree fits the calibration by ordinary least
// squares over every dated, non-bad-branch terminal. If
// slopeHint is non-nil, the slope is fixed to *slopeHint and only the
// intercept is fit. It returns ErrTooFewDatedLeaves if fewer than two
// dated leaves are available, and ErrBadSlope if the fitted (or
// given) slope is not positive, i.e. later sampling dates would not
// increase root-to-tip distance.
func DateConversionFromTree(anc TreeAnc, nodes map[NodeID]*ClockNode, slopeHint *float64) (*DateConversion, error) {
	var xs, ys []float64
	for _, n := range anc.Nodes() {
		if !anc.IsTerm(n) {
			continue
		}
		cn := nodes[n]
		if cn == nil || cn.NumdateGiven == nil || cn.BadBranch {
			continue
		}
		xs = append(xs, *cn.NumdateGiven)
		ys = append(ys, rootToTip(anc, nodes, n))
	}
	if len(xs) < 2 {
		return nil, ErrTooFewDatedLeaves
	}

	var slope, intercept float64
	if slopeHint != nil {
		slope = *slopeHint
		intercept = meanOf(ys) - slope*meanOf(xs)
	} else {
		intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	}
	r := stat.Correlation(xs, ys, nil)

	if slope <= 0 || math.IsNaN(slope) {
		return nil, fmt.Errorf("%w: slope=%.6g", ErrBadSlope, slope)
	}

	return &DateConversion{
		Slope:     slope,
		Intercept: intercept,
		RVal:      r,
	}, nil
}

func meanOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

// GetDate converts a node's time before present (in branch-length
// units, as seeded by InitDateConstraints: t = (now-date)*|slope|)
// back into years before present. It is the direct
// inverse of that seeding formula, so the intercept plays no part
// here; the intercept only enters the OLS fit that determines the
// slope itself.
func (dc *DateConversion) GetDate(timeBeforePresent float64) float64 {
	slope := dc.Slope
	if slope < 0 {
		slope = -slope
	}
	return timeBeforePresent / slope
}
