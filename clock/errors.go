// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import "errors"

// Sentinel errors reported by the clock inference. Callers should use
// errors.Is to check them.
var (
	// ErrNoDates is a ConfigurationError: no date table was given, or
	// it holds no date. A table whose names match no leaf is reported
	// as ErrTooFewDatedLeaves instead.
	ErrNoDates = errors.New("clock: no date table given")

	// ErrNoRoot is a ConfigurationError: the tree has no root (an
	// empty tree, or a tree not attached to a TreeAnc adapter).
	ErrNoRoot = errors.New("clock: tree has no root")

	// ErrUnknownModel is a ConfigurationError: the requested
	// substitution model identifier is not recognized.
	ErrUnknownModel = errors.New("clock: unknown substitution model")

	// ErrTooFewDatedLeaves is a CalibrationError: fewer than two
	// dated leaves were available for the date/branch-length
	// regression.
	ErrTooFewDatedLeaves = errors.New("clock: fewer than two dated leaves, unable to calibrate")

	// ErrBadSlope is a CalibrationError: the fitted (or given)
	// regression slope is not positive, i.e. later sampling dates
	// would not map to longer branch lengths.
	ErrBadSlope = errors.New("clock: calibration slope has the wrong sign")

	// ErrEmptySupport is a NumericError: a multiply or convolve
	// produced a distribution with empty support.
	ErrEmptySupport = errors.New("clock: distribution has empty support")
)
