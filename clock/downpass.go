// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import "fmt"

// MLTRootToLeaves is the downward pass: given the upward
// messages, it propagates from the root toward the leaves, giving
// every node the complementary evidence (everything except its own
// subtree) needed to compute a full marginal posterior.
func (e *Engine) MLTRootToLeaves() error {
	e.Ctx.Logf(2, "clock: propagating root -> leaves")
	cfg := e.config()
	root := e.Anc.Root()
	e.Node(root).MsgFromParent = nil

	var walkErr error
	preorder(e.Anc, root, func(n NodeID) {
		if walkErr != nil || n == root {
			return
		}

		parent := e.Anc.Parent(n)
		pNode := e.Node(parent)

		var complementary []*Distribution
		for _, c := range e.Anc.Children(parent) {
			if c == n {
				continue
			}
			if m, ok := pNode.MsgsFromLeaves[c]; ok {
				complementary = append(complementary, m)
			}
		}
		if pNode.MsgFromParent != nil {
			complementary = append(complementary, pNode.MsgFromParent)
		}

		node := e.Node(n)
		if len(complementary) == 0 {
			// the parent carries no evidence beyond this node's own
			// subtree: nothing flows back down.
			node.MsgFromParent = nil
			return
		}

		m, err := Multiply(complementary, cfg)
		if err != nil {
			walkErr = fmt.Errorf("clock: node %v: %w", n, err)
			return
		}
		res, err := Convolve(m, node.BranchLenInterp, true, cfg)
		if err != nil {
			walkErr = fmt.Errorf("clock: node %v: %w", n, err)
			return
		}
		node.MsgFromParent = res
	})
	return walkErr
}
