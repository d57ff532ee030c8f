// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NewBranchLenInterpolator builds the per-edge density over branch
// length b given the child and parent sequences, a substitution
// model, and the one-mutation scale (1/alignment length).
//
// b_max is found by a coarse exponential-quantile scan (seeded from an
// Exponential distribution whose rate is set by the observed mutation
// count, treating branch length as a waiting time) until the -log
// likelihood first exceeds BranchLenExploration above its minimum.
// The final grid is then laid out linearly over [0, b_max] with
// cfg.MaxGridPoints points, but never more than 200 nor fewer than 10.
func NewBranchLenInterpolator(child, parent []byte, model Model, oneMutation float64, cfg Config) (*Distribution, error) {
	cfg = cfg.withDefaults()
	if oneMutation <= 0 {
		oneMutation = 1e-3
	}

	mu, _ := mutationCount(child, parent)
	exp := distuv.Exponential{Rate: 1 / (float64(mu+1) * oneMutation * 4)}

	yAt := func(b float64) float64 {
		return -model.LogProbT(child, parent, b)
	}

	// coarse scan: quantiles of the seeded Exponential give a set of
	// candidate branch lengths concentrated where the data carries
	// information (few mutations => short candidate lengths; many
	// mutations => the scan reaches further before saturating).
	const probes = 64
	bestY := yAt(0)
	bMax := oneMutation
	for i := 1; i <= probes; i++ {
		p := float64(i) / float64(probes+1)
		b := exp.Quantile(p)
		if b <= 0 {
			continue
		}
		y := yAt(b)
		if y < bestY {
			bestY = y
		}
		if y-bestY > cfg.BranchLenExploration {
			bMax = b
			break
		}
		bMax = b
	}

	// extend past the coarse scan until the exploration threshold is
	// cleared, in case the quantile scan above saturated too early.
	for i := 0; i < 20; i++ {
		if yAt(bMax)-bestY > cfg.BranchLenExploration {
			break
		}
		bMax *= 2
	}
	if bMax <= 0 || math.IsInf(bMax, 1) || math.IsNaN(bMax) {
		bMax = 10 * oneMutation
	}

	n := cfg.MaxGridPoints
	if n > 200 {
		n = 200
	}
	if n < 10 {
		n = 10
	}
	grid := linSpace(n, 0, bMax)
	y := make([]float64, len(grid))
	for i, b := range grid {
		y[i] = yAt(b)
	}

	return NewInterpolator(grid, y)
}
