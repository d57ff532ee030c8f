// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import "fmt"

// postorder walks anc's nodes children-first, calling visit(n) after
// all of n's descendants have been visited.
func postorder(anc TreeAnc, root NodeID, visit func(NodeID)) {
	for _, c := range anc.Children(root) {
		postorder(anc, c, visit)
	}
	visit(root)
}

// preorder walks anc's nodes root-first, calling visit(n) before any
// of n's descendants.
func preorder(anc TreeAnc, root NodeID, visit func(NodeID)) {
	visit(root)
	for _, c := range anc.Children(root) {
		preorder(anc, c, visit)
	}
}

// MLTLeavesToRoot is the upward pass: it propagates from the
// dated leaves toward the root, assigning every internal node a
// message-to-parent distribution conditional on its descendant
// constraints.
func (e *Engine) MLTLeavesToRoot() error {
	e.Ctx.Logf(2, "clock: propagating leaves -> root")
	cfg := e.config()

	var walkErr error
	postorder(e.Anc, e.Anc.Root(), func(n NodeID) {
		if walkErr != nil {
			return
		}
		if e.Anc.IsTerm(n) {
			return
		}

		node := e.Node(n)
		for _, c := range e.Anc.Children(n) {
			child := e.Node(c)
			if child.MsgToParent == nil {
				continue
			}

			var contrib *Distribution
			var err error
			if child.MsgToParent.IsDelta() {
				contrib = ShiftedX(child.BranchLenInterp, child.MsgToParent.PeakPos())
			} else {
				contrib, err = Convolve(child.MsgToParent, child.BranchLenInterp, false, cfg)
			}
			if err != nil {
				walkErr = fmt.Errorf("clock: node %v: %w", c, err)
				return
			}
			node.MsgsFromLeaves[c] = contrib
		}

		if len(node.MsgsFromLeaves) < 1 {
			return
		}

		msgs := make([]*Distribution, 0, len(node.MsgsFromLeaves))
		for _, c := range e.Anc.Children(n) {
			if m, ok := node.MsgsFromLeaves[c]; ok {
				msgs = append(msgs, m)
			}
		}
		res, err := Multiply(msgs, cfg)
		if err != nil {
			walkErr = fmt.Errorf("clock: node %v: %w", n, err)
			return
		}
		node.MsgToParent = res
	})
	return walkErr
}
