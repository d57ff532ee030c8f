// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package clock implements the belief-propagation engine used to
// calibrate a phylogenetic tree against sampling dates: it turns
// branch lengths in substitutions per site into a time tree, with a
// two-pass, leaves-to-root-then-root-to-leaves message-passing style.
package clock

import (
	"fmt"
	"io"
	"os"
)

// Context carries the logger and numeric configuration used by a
// ClockTreeEngine run: every entry point that can emit diagnostics
// takes a *Context instead of reaching for global state.
type Context struct {
	// Out receives log lines. If nil, os.Stderr is used.
	Out io.Writer

	// Verbosity is the highest level a message may declare and still
	// be printed (lower is more important).
	Verbosity int

	// Config holds the engine's numeric knobs.
	Config Config
}

// NewContext returns a Context with the default configuration and
// verbosity level 1 (only top-level progress messages).
func NewContext() *Context {
	return &Context{
		Verbosity: 1,
		Config:    DefaultConfig(),
	}
}

func (c *Context) writer() io.Writer {
	if c == nil || c.Out == nil {
		return os.Stderr
	}
	return c.Out
}

func (c *Context) config() Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.Config.isZero() {
		return DefaultConfig()
	}
	return c.Config
}

// Logf prints a diagnostic message when level is at or below the
// context's verbosity.
func (c *Context) Logf(level int, format string, args ...any) {
	v := 1
	if c != nil {
		v = c.Verbosity
	}
	if level > v {
		return
	}
	fmt.Fprintf(c.writer(), format+"\n", args...)
}

// Warnf always prints, regardless of verbosity: consistency issues
// should not be silenced by a low verbosity level.
func (c *Context) Warnf(format string, args ...any) {
	fmt.Fprintf(c.writer(), "warning: "+format+"\n", args...)
}
