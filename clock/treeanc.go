// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"fmt"

	"github.com/js-arias/timetree"
)

// NodeID identifies a node in a ClockTree's arena. It is the same
// integer identifier timetree.Tree uses internally, so a TreeAnc
// implementation can be built directly on top of a *timetree.Tree
// without re-indexing.
type NodeID = int

// TreeAnc is the read-only view of a tree consumed by the clock
// engine: it exposes topology, per-node sequences, the substitution
// model, and the one-mutation scale, while leaving alignment I/O,
// ancestral reconstruction fitting, and tree I/O to external code.
//
// A TreeAnc implementation deliberately ignores any branch-length or
// date information a backing tree type might carry of its own accord:
// clocktree's only branch-length evidence is the sequence divergence
// between a node and its parent, evaluated through Model.
type TreeAnc interface {
	// Root returns the tree's root node id.
	Root() NodeID

	// Nodes returns every node id in the tree, in no particular
	// order.
	Nodes() []NodeID

	// Parent returns n's parent, or -1 if n is the root.
	Parent(n NodeID) NodeID

	// Children returns n's direct descendants, in topology order.
	Children(n NodeID) []NodeID

	// IsRoot reports whether n is the tree's root.
	IsRoot(n NodeID) bool

	// IsTerm reports whether n is a terminal (a leaf).
	IsTerm(n NodeID) bool

	// Taxon returns n's taxon name (only terminals are guaranteed to
	// have one).
	Taxon(n NodeID) string

	// Sequence returns n's sequence, or nil if it has not been set
	// (e.g. an internal node before ancestral reconstruction).
	Sequence(n NodeID) []byte

	// Model returns the substitution model used to evaluate branch
	// lengths.
	Model() Model

	// OneMutation returns 1/L, the branch-length scale of a single
	// substitution given the alignment length L.
	OneMutation() float64
}

// Adapter is a TreeAnc backed by a *timetree.Tree (used here purely
// for its rooted topology and taxon names) plus a set of sequences.
type Adapter struct {
	tree  *timetree.Tree
	model Model
	alnLn int
	seqs  map[NodeID][]byte
}

// NewAdapter wraps t with the given substitution model and alignment
// length. Sequences are attached afterward with SetSequence or
// OptimizeSeqAndBranchLen.
func NewAdapter(t *timetree.Tree, model Model, alignmentLength int) (*Adapter, error) {
	if t == nil {
		return nil, ErrNoRoot
	}
	if alignmentLength <= 0 {
		return nil, fmt.Errorf("clock: invalid alignment length %d", alignmentLength)
	}
	return &Adapter{
		tree:  t,
		model: model,
		alnLn: alignmentLength,
		seqs:  make(map[NodeID][]byte),
	}, nil
}

func (a *Adapter) Root() NodeID { return a.tree.Root() }
func (a *Adapter) Nodes() []NodeID { return a.tree.Nodes() }
func (a *Adapter) Children(n NodeID) []NodeID { return a.tree.Children(n) }
func (a *Adapter) IsRoot(n NodeID) bool { return a.tree.IsRoot(n) }
func (a *Adapter) IsTerm(n NodeID) bool { return a.tree.IsTerm(n) }
func (a *Adapter) Taxon(n NodeID) string { return a.tree.Taxon(n) }
func (a *Adapter) Model() Model { return a.model }
func (a *Adapter) OneMutation() float64 { return 1 / float64(a.alnLn) }

func (a *Adapter) Parent(n NodeID) NodeID {
	if a.tree.IsRoot(n) {
		return -1
	}
	return a.tree.Parent(n)
}

func (a *Adapter) Sequence(n NodeID) []byte {
	return a.seqs[n]
}

// SetSequence attaches a sequence to a node. It is used both to seed
// terminal sequences from an alignment and to store reconstructed
// ancestral sequences.
func (a *Adapter) SetSequence(n NodeID, seq []byte) {
	a.seqs[n] = seq
}

// SetTermSequences attaches terminal sequences keyed by taxon name,
// the shape an external alignment reader would naturally produce
// (alignment I/O stays outside the engine, only its result is
// consumed here).
func (a *Adapter) SetTermSequences(byTaxon map[string][]byte) {
	for _, n := range a.tree.Nodes() {
		if !a.tree.IsTerm(n) {
			continue
		}
		if seq, ok := byTaxon[a.tree.Taxon(n)]; ok {
			a.seqs[n] = seq
		}
	}
}

// OptimizeSeqAndBranchLen, when ancestral sequences are absent, fills
// every internal node's sequence with a parsimony-style
// reconstruction over the terminal sequences already attached.
//
// A single postorder pass assigns one state per site to each internal
// node. The candidates (every child state, in child order) are
// intersected with each later child's state in turn, and an
// intersection that would be empty is skipped. As the candidates
// already hold every child state, a node with two or more children
// takes its second child's state, and a node with one child takes
// that child's state. No majority count is made, and no ambiguity
// (state set) is stored.
func (a *Adapter) OptimizeSeqAndBranchLen() error {
	root := a.tree.Root()
	if _, ok := a.seqs[root]; ok {
		// ancestral sequences already present (e.g. supplied by an
		// external ancestral-reconstruction step); nothing to do.
		allSet := true
		for _, n := range a.tree.Nodes() {
			if a.seqs[n] == nil {
				allSet = false
				break
			}
		}
		if allSet {
			return nil
		}
	}

	n := 0
	for _, id := range a.tree.Nodes() {
		if a.tree.IsTerm(id) {
			if s := a.seqs[id]; len(s) > n {
				n = len(s)
			}
		}
	}
	if n == 0 {
		return fmt.Errorf("clock: no terminal sequences set")
	}

	sets := make(map[NodeID][]byte, len(a.tree.Nodes()))
	var post func(id NodeID)
	post = func(id NodeID) {
		for _, c := range a.tree.Children(id) {
			post(c)
		}
		if a.tree.IsTerm(id) {
			sets[id] = a.seqs[id]
			return
		}
		children := a.tree.Children(id)
		merged := make([]byte, n)
		for pos := 0; pos < n; pos++ {
			var cand []byte
			for _, c := range children {
				cs := sets[c]
				if pos >= len(cs) {
					continue
				}
				if len(cand) == 0 {
					cand = []byte{cs[pos]}
					continue
				}
				found := false
				for _, b := range cand {
					if b == cs[pos] {
						found = true
						break
					}
				}
				if !found {
					cand = append(cand, cs[pos])
				}
			}
			if len(cand) == 0 {
				merged[pos] = 'N'
				continue
			}
			// narrow the candidates by each later child's state,
			// keeping the previous candidates when the intersection
			// would be empty; the first remaining candidate is kept.
			shared := cand
			for _, c := range children[1:] {
				cs := sets[c]
				if pos >= len(cs) {
					continue
				}
				var next []byte
				for _, b := range shared {
					if b == cs[pos] {
						next = append(next, b)
					}
				}
				if len(next) > 0 {
					shared = next
				}
			}
			merged[pos] = shared[0]
		}
		sets[id] = merged
	}
	post(root)

	for id, seq := range sets {
		if !a.tree.IsTerm(id) {
			a.seqs[id] = seq
		}
	}
	return nil
}
