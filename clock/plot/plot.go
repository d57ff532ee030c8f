// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package plot draws diagnostic plots of the distributions produced
// during clock-tree inference: a node's branch-length interpolator,
// and its marginal and joint posteriors, each drawn as a density
// relative to its own mode. All curves share one x axis: the
// branch-length interpolator is over branch length, the posteriors
// over time before present.
//
// This is a supplemental diagnostic feature; it has no effect on the
// inference itself.
package plot

import (
	"fmt"
	"io"

	"github.com/js-arias/blind"
	"github.com/js-arias/clocktree/clock"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Curve is a single named distribution to be overlaid on a plot.
type Curve struct {
	Label string
	Dist  *clock.Distribution
}

// Distributions renders a set of curves, sampled at n points across
// their combined support, into a PNG, SVG, or PDF file (dispatched by
// name's extension, per gonum.org/v1/plot/plot.Save).
func Distributions(title string, curves []Curve, n int, w, h vg.Length, name string) error {
	if n < 2 {
		n = 2
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time before present"
	p.Y.Label.Text = "relative density"

	var lo, hi float64
	first := true
	for _, c := range curves {
		if c.Dist == nil || c.Dist.IsDead() {
			continue
		}
		a, b := c.Dist.Support()
		if first {
			lo, hi = a, b
			first = false
			continue
		}
		if a < lo {
			lo = a
		}
		if b > hi {
			hi = b
		}
	}
	if first {
		return fmt.Errorf("clock/plot: no plottable distribution among %d curves", len(curves))
	}

	step := (hi - lo) / float64(n-1)
	usable := 0
	for _, c := range curves {
		if c.Dist == nil || c.Dist.IsDead() {
			continue
		}
		usable++
	}
	i := 0
	for _, c := range curves {
		if c.Dist == nil || c.Dist.IsDead() {
			continue
		}
		pts := make(plotter.XYs, n)
		for j := 0; j < n; j++ {
			x := lo + step*float64(j)
			pts[j].X = x
			pts[j].Y = c.Dist.ProbRelative(x)
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("clock/plot: %v", err)
		}
		line.Width = vg.Points(1.5)
		v := float64(i) / float64(max(usable-1, 1))
		line.Color = blind.Sequential(blind.Iridescent, v)
		p.Add(line)
		p.Legend.Add(c.Label, line)
		i++
	}

	if err := p.Save(w, h, name); err != nil {
		return fmt.Errorf("clock/plot: %v", err)
	}
	return nil
}

// NodeDistributions is a convenience wrapper around Distributions that
// plots a single node's branch-length interpolator together with its
// marginal and joint posteriors, the three curves the inference
// attaches to every non-root node.
func NodeDistributions(nodeLabel string, n *clock.ClockNode, w, h vg.Length, name string) error {
	curves := []Curve{
		{Label: "branch length", Dist: n.BranchLenInterp},
		{Label: "marginal", Dist: n.MarginalLH},
		{Label: "joint", Dist: n.JointLH},
	}
	return Distributions(nodeLabel, curves, 400, w, h, name)
}

// WriteCSV dumps a single distribution's sampled curve as a tab
// delimited table, for callers that want raw numbers instead of an
// image.
func WriteCSV(w io.Writer, d *clock.Distribution, n int) error {
	if d == nil || d.IsDead() {
		return fmt.Errorf("clock/plot: distribution has no support")
	}
	if n < 2 {
		n = 2
	}
	lo, hi := d.Support()
	step := (hi - lo) / float64(n-1)
	fmt.Fprintf(w, "x\trelative_density\n")
	for i := 0; i < n; i++ {
		x := lo + step*float64(i)
		fmt.Fprintf(w, "%.6g\t%.6g\n", x, d.ProbRelative(x))
	}
	return nil
}
