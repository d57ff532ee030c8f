// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import "math"

// Engine orchestrates the date-constraint initialization and the
// two-pass message passing that turns branch lengths into node times.
// It is bound to a single TreeAnc for its whole lifetime, so a run
// can never alias state left over from a previous tree or a global.
type Engine struct {
	Ctx   *Context
	Anc   TreeAnc
	Dates map[string]float64

	// Today is "now" expressed as a decimal year. If zero, it is
	// computed from the wall clock the first time it is needed.
	Today float64

	BadBranches map[NodeID]bool

	nodes     map[NodeID]*ClockNode
	Date2Dist *DateConversion
	MaxDiam   float64
}

// NewEngine returns an Engine bound to anc, with the given dated-leaf
// table (taxon name -> decimal year) and optional bad-branch set.
func NewEngine(ctx *Context, anc TreeAnc, dates map[string]float64, badBranches map[NodeID]bool) *Engine {
	if ctx == nil {
		ctx = NewContext()
	}
	return &Engine{
		Ctx:         ctx,
		Anc:         anc,
		Dates:       dates,
		BadBranches: badBranches,
		nodes:       make(map[NodeID]*ClockNode),
	}
}

// Node returns the clock-specific state of n, allocating it on first
// use.
func (e *Engine) Node(n NodeID) *ClockNode {
	cn, ok := e.nodes[n]
	if !ok {
		cn = newClockNode()
		e.nodes[n] = cn
	}
	return cn
}

func (e *Engine) config() Config {
	return e.Ctx.config()
}

// InitDateConstraints attaches sampling dates, builds every
// branch-length interpolator, fits the date/branch-length
// calibration, and seeds leaf messages. slopeHint, if non-nil, fixes
// the regression slope.
func (e *Engine) InitDateConstraints(slopeHint *float64) error {
	if e.Anc == nil || e.Anc.Root() < 0 {
		return ErrNoRoot
	}
	if len(e.Dates) == 0 {
		return ErrNoDates
	}

	// 1. attach the sampling date to every node whose name matches
	// the date table.
	for _, n := range e.Anc.Nodes() {
		cn := e.Node(n)
		if !e.Anc.IsTerm(n) {
			continue
		}
		if d, ok := e.Dates[e.Anc.Taxon(n)]; ok {
			v := d
			cn.NumdateGiven = &v
		}
		if e.BadBranches != nil && e.BadBranches[n] {
			cn.BadBranch = true
		}
	}

	// 2. request ancestral sequences if they are missing.
	if adapter, ok := e.Anc.(*Adapter); ok {
		if err := adapter.OptimizeSeqAndBranchLen(); err != nil {
			return err
		}
	}

	// 3. build a branch-length interpolator for every non-root node.
	cfg := e.config()
	model := e.Anc.Model()
	oneMutation := e.Anc.OneMutation()
	root := e.Anc.Root()
	for _, n := range e.Anc.Nodes() {
		if n == root {
			continue
		}
		parent := e.Anc.Parent(n)
		child := e.Anc.Sequence(n)
		par := e.Anc.Sequence(parent)
		dist, err := NewBranchLenInterpolator(child, par, model, oneMutation, cfg)
		if err != nil {
			return err
		}
		e.Node(n).BranchLenInterp = dist
	}

	// 4. fit the date <-> branch-length conversion.
	d2d, err := DateConversionFromTree(e.Anc, e.nodes, slopeHint)
	if err != nil {
		return err
	}
	e.Date2Dist = d2d
	e.MaxDiam = d2d.Intercept
	e.Ctx.Logf(2, "clock: calibration slope=%g intercept=%g r=%.4f", d2d.Slope, d2d.Intercept, d2d.RVal)

	// 5 & 6. seed leaf messages, demoting dated-but-bad-branch leaves.
	now := e.numericDate()
	for _, n := range e.Anc.Nodes() {
		cn := e.Node(n)
		if cn.NumdateGiven != nil && cn.BadBranch {
			e.Ctx.Warnf("node %v is dated but marked as a bad branch, excluding it from calibration", n)
			cn.NumdateGiven = nil
		}
		if cn.NumdateGiven != nil {
			absT := (now - *cn.NumdateGiven) * math.Abs(d2d.Slope)
			cn.AbsT = &absT
			cn.MsgToParent = DeltaFunction(absT, 1)
		} else {
			cn.AbsT = nil
			cn.MsgToParent = nil
		}
	}

	return nil
}

func (e *Engine) numericDate() float64 {
	if e.Today != 0 {
		return e.Today
	}
	e.Today = numericDate(nowFunc())
	return e.Today
}
