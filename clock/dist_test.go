// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"errors"
	"math"
	"testing"
)

func gaussian(mean, sd float64, n int, lo, hi float64) *Distribution {
	x := linSpace(n, lo, hi)
	y := make([]float64, n)
	for i, xi := range x {
		d := (xi - mean) / sd
		y[i] = 0.5*d*d + math.Log(sd)
	}
	d, err := NewInterpolator(x, y)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMultiplySupportMonotonicity(t *testing.T) {
	a := gaussian(0, 1, 50, -5, 5)
	b := gaussian(1, 1, 50, -2, 8)

	res, err := Multiply([]*Distribution{a, b}, DefaultConfig())
	if err != nil {
		t.Fatalf("Multiply: %v", err)
	}

	lo, hi := res.Support()
	aLo, aHi := a.Support()
	bLo, bHi := b.Support()
	wantLo := math.Max(aLo, bLo)
	wantHi := math.Min(aHi, bHi)
	if lo < wantLo-1e-9 || hi > wantHi+1e-9 {
		t.Errorf("support %v..%v exceeds intersection %v..%v", lo, hi, wantLo, wantHi)
	}
}

func TestMultiplyDeltaAbsorption(t *testing.T) {
	d := gaussian(0, 1, 50, -5, 5)
	delta := DeltaFunction(0.5, 1)

	res, err := Multiply([]*Distribution{delta, d}, DefaultConfig())
	if err != nil {
		t.Fatalf("Multiply: %v", err)
	}
	if !res.IsDelta() {
		t.Fatalf("expected a delta result")
	}
	if math.Abs(res.PeakPos()-0.5) > 1e-9 {
		t.Errorf("delta moved: got %v, want 0.5", res.PeakPos())
	}

	wantWeight := d.Prob(0.5)
	gotWeight := math.Exp(-res.PeakVal())
	if math.Abs(gotWeight-wantWeight) > 1e-6 {
		t.Errorf("delta weight: got %v, want %v", gotWeight, wantWeight)
	}
}

func TestMultiplyConflictingDeltas(t *testing.T) {
	a := DeltaFunction(0, 1)
	b := DeltaFunction(1, 1)

	res, err := Multiply([]*Distribution{a, b}, DefaultConfig())
	if !errors.Is(err, ErrEmptySupport) {
		t.Fatalf("got err %v, want ErrEmptySupport", err)
	}
	if !res.IsDead() {
		t.Errorf("expected dead sentinel result")
	}
}

func TestConvolveWithDelta(t *testing.T) {
	b := gaussian(0, 1, 80, -6, 6)
	delta := DeltaFunction(3, 1)

	res, err := Convolve(delta, b, false, DefaultConfig())
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}

	want := ShiftedX(b, 3)
	if math.Abs(res.PeakPos()-want.PeakPos()) > 1e-6 {
		t.Errorf("peak: got %v, want %v", res.PeakPos(), want.PeakPos())
	}

	lo, hi := res.Support()
	wLo, wHi := want.Support()
	if math.Abs(lo-wLo) > 1e-9 || math.Abs(hi-wHi) > 1e-9 {
		t.Errorf("support: got %v..%v, want %v..%v", lo, hi, wLo, wHi)
	}
	for _, x := range linSpace(10, lo, hi) {
		if math.Abs(res.Eval(x)-want.Eval(x)) > 1e-6 {
			t.Errorf("Eval(%v): got %v, want %v", x, res.Eval(x), want.Eval(x))
		}
	}
}

func TestIdentityConvolution(t *testing.T) {
	a := gaussian(0, 1, 80, -6, 6)
	delta := DeltaFunction(0, 1)

	res, err := Convolve(a, delta, false, DefaultConfig())
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}

	for _, x := range linSpace(10, -3, 3) {
		got := res.Eval(x)
		want := a.Eval(x)
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("Eval(%v): got %v, want %v", x, got, want)
		}
	}
}

func TestShiftedXAndXRescale(t *testing.T) {
	a := gaussian(0, 1, 41, -4, 4)

	shifted := ShiftedX(a, 2)
	if math.Abs(shifted.PeakPos()-2) > 1e-9 {
		t.Errorf("ShiftedX peak: got %v, want 2", shifted.PeakPos())
	}

	rescaled := XRescale(a, -1)
	if math.Abs(rescaled.PeakPos()-0) > 1e-9 {
		t.Errorf("XRescale peak: got %v, want 0", rescaled.PeakPos())
	}
	lo, hi := rescaled.Support()
	if lo > hi {
		t.Errorf("XRescale left support unsorted: %v..%v", lo, hi)
	}
}
