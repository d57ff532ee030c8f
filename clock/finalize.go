// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import "fmt"

// branchLengthTolerance is the epsilon used when flagging a negative
// inferred branch length as a consistency issue.
const branchLengthTolerance = 1e-6

// SetFinalDates, given the upward and downward messages,
// computes each node's marginal and joint posteriors, extracts the
// joint peak as the point date estimate, and derives branch lengths
// in branch-length (not yet calendar) units.
func (e *Engine) SetFinalDates() error {
	e.Ctx.Logf(2, "clock: setting dates and node distributions")
	cfg := e.config()
	root := e.Anc.Root()

	var walkErr error
	preorder(e.Anc, root, func(n NodeID) {
		if walkErr != nil {
			return
		}
		node := e.Node(n)

		if n == root {
			node.MarginalLH = node.MsgToParent
			node.JointLH = node.MsgToParent
			node.TimeBeforePresent = collapse(node.JointLH)
			node.BranchLength = e.Anc.OneMutation()
			node.ClockLength = node.BranchLength
			return
		}

		parent := e.Anc.Parent(n)
		pNode := e.Node(parent)

		marginal, err := combine(node.MsgFromParent, node.MsgToParent, cfg)
		if err != nil {
			walkErr = fmt.Errorf("clock: node %v: %w", n, err)
			return
		}
		node.MarginalLH = marginal

		res := ShiftedX(node.BranchLenInterp, -pNode.TimeBeforePresent)
		res = XRescale(res, -1)

		if node.MsgToParent != nil {
			joint, err := Multiply([]*Distribution{node.MsgToParent, res}, cfg)
			if err != nil {
				walkErr = fmt.Errorf("clock: node %v: %w", n, err)
				return
			}
			node.JointLH = joint
		} else {
			node.JointLH = res
		}
		node.TimeBeforePresent = collapse(node.JointLH)

		node.BranchLength = pNode.TimeBeforePresent - node.TimeBeforePresent
		if node.BranchLength < -branchLengthTolerance && !node.BadBranch {
			e.Ctx.Warnf("node %v: negative branch length %.6g (parent time %.6g, node time %.6g)",
				n, node.BranchLength, pNode.TimeBeforePresent, node.TimeBeforePresent)
		}
		node.ClockLength = node.BranchLength
	})
	return walkErr
}

// collapse extracts the point estimate (peak position) from a
// distribution, whether it is a delta or an interpolated density;
// both variants are treated identically.
func collapse(d *Distribution) float64 {
	if d == nil {
		return 0
	}
	return d.PeakPos()
}

// combine multiplies whichever of a, b are non-nil, tolerating either
// one being nil (a node whose parent carries no complementary
// evidence downstream). An empty product is returned as Multiply's
// error.
func combine(a, b *Distribution, cfg Config) (*Distribution, error) {
	var ds []*Distribution
	if a != nil {
		ds = append(ds, a)
	}
	if b != nil {
		ds = append(ds, b)
	}
	if len(ds) == 0 {
		return nil, nil
	}
	if len(ds) == 1 {
		return ds[0], nil
	}
	return Multiply(ds, cfg)
}

// ConvertDates turns every node's time before present
// into a calendar date, logging (but not aborting on) consistency
// issues such as a joint peak that lies in the future.
func (e *Engine) ConvertDates() error {
	now := e.numericDate()
	for _, n := range e.Anc.Nodes() {
		node := e.Node(n)
		yearsBP := e.Date2Dist.GetDate(node.TimeBeforePresent)
		if yearsBP < 0 {
			if !node.BadBranch {
				e.Ctx.Warnf("node %v: inferred date is in the future (%.4f years before present)", n, yearsBP)
			} else {
				e.Ctx.Warnf("node %v: bad branch optimized later than present day", n)
			}
		}
		node.Numdate = now - yearsBP
		node.DateString = dateString(node.Numdate)
	}
	return nil
}

// MakeTimeTree runs the full two-pass inference: leaves -> root,
// root -> leaves, final dates, then calendar
// conversion. InitDateConstraints must have been called first.
func (e *Engine) MakeTimeTree() error {
	if err := e.MLTLeavesToRoot(); err != nil {
		return err
	}
	if err := e.MLTRootToLeaves(); err != nil {
		return err
	}
	if err := e.SetFinalDates(); err != nil {
		return err
	}
	return e.ConvertDates()
}
