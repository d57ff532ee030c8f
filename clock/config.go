// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

// Config collects the numeric knobs of the inference engine. All of them
// have a sane default; zero-valued fields are replaced by
// DefaultConfig's values where the configuration is used (see
// withDefaults), so callers only need to set the knobs they care about.
type Config struct {
	// MaxGridPoints caps the number of (x, y) samples kept in a
	// Distribution's grid. Larger is more accurate and slower.
	MaxGridPoints int

	// BranchLenExploration is the log-likelihood drop (relative to
	// the peak) used to decide how far to extend a branch-length
	// interpolator's support.
	BranchLenExploration float64

	// FFTNodeNum is the target density of points used when two
	// non-delta distributions are convolved.
	FFTNodeNum int
}

// DefaultConfig returns the default numeric configuration.
func DefaultConfig() Config {
	return Config{
		MaxGridPoints:        200,
		BranchLenExploration: 20,
		FFTNodeNum:           200,
	}
}

func (c Config) isZero() bool {
	return c.MaxGridPoints == 0 && c.BranchLenExploration == 0 && c.FFTNodeNum == 0
}

// withDefaults fills any zero field of c with DefaultConfig's value.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxGridPoints == 0 {
		c.MaxGridPoints = d.MaxGridPoints
	}
	if c.BranchLenExploration == 0 {
		c.BranchLenExploration = d.BranchLenExploration
	}
	if c.FFTNodeNum == 0 {
		c.FFTNodeNum = d.FFTNodeNum
	}
	return c
}
