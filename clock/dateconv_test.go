// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"math"
	"testing"
)

// TestCalibrationRoundTrip checks that GetDate inverts the seeding
// formula: GetDate((today-d)*|slope|) ~= today-d.
func TestCalibrationRoundTrip(t *testing.T) {
	dc := &DateConversion{Slope: 3.7, Intercept: 0.4, RVal: 0.99}
	today := 2020.0
	d := 12.5

	timeBeforePresent := (today - d) * math.Abs(dc.Slope)
	gotYearsBP := dc.GetDate(timeBeforePresent)
	wantYearsBP := today - d
	if math.Abs(gotYearsBP-wantYearsBP) > 1e-9 {
		t.Errorf("GetDate round trip: got %v years BP, want %v", gotYearsBP, wantYearsBP)
	}
}

func TestDateConversionFromTreeFitsSlopeAndIntercept(t *testing.T) {
	f, leaves := starTree(1e-3, 500, 10, 20, 30)
	cfg := DefaultConfig()
	nodes := make(map[NodeID]*ClockNode)
	for _, l := range leaves {
		cn := newClockNode()
		dist, err := NewBranchLenInterpolator(f.Sequence(l), f.Sequence(f.root), f.model, f.oneMut, cfg)
		if err != nil {
			t.Fatalf("NewBranchLenInterpolator: %v", err)
		}
		cn.BranchLenInterp = dist
		d := float64(2000 + 5*int(l))
		cn.NumdateGiven = &d
		nodes[l] = cn
	}

	dc, err := DateConversionFromTree(f, nodes, nil)
	if err != nil {
		t.Fatalf("DateConversionFromTree: %v", err)
	}
	if dc.Slope <= 0 {
		t.Errorf("expected a positive slope (later dates => more divergence), got %v", dc.Slope)
	}
}

func TestDateConversionFromTreeFixedSlope(t *testing.T) {
	f, leaves := starTree(1e-3, 500, 10, 30)
	cfg := DefaultConfig()
	nodes := make(map[NodeID]*ClockNode)
	for i, l := range leaves {
		cn := newClockNode()
		dist, err := NewBranchLenInterpolator(f.Sequence(l), f.Sequence(f.root), f.model, f.oneMut, cfg)
		if err != nil {
			t.Fatalf("NewBranchLenInterpolator: %v", err)
		}
		cn.BranchLenInterp = dist
		d := float64(2000 + i*5)
		cn.NumdateGiven = &d
		nodes[l] = cn
	}

	hint := 2.5
	dc, err := DateConversionFromTree(f, nodes, &hint)
	if err != nil {
		t.Fatalf("DateConversionFromTree: %v", err)
	}
	if dc.Slope != hint {
		t.Errorf("fixed slope: got %v, want %v", dc.Slope, hint)
	}
}

func TestDateConversionFromTreeTooFewLeaves(t *testing.T) {
	f, leaves := starTree(1e-3, 200, 10)
	nodes := make(map[NodeID]*ClockNode)
	cn := newClockNode()
	d := 2000.0
	cn.NumdateGiven = &d
	nodes[leaves[0]] = cn

	if _, err := DateConversionFromTree(f, nodes, nil); err == nil {
		t.Fatalf("expected ErrTooFewDatedLeaves, got nil")
	}
}
