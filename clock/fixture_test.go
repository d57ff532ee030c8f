// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import "sort"

// fakeTree is a minimal, hand-built TreeAnc used by the test suite so
// it does not depend on a *timetree.Tree (and its file-based
// construction API) to exercise the engine's belief-propagation
// logic in isolation.
type fakeTree struct {
	root     NodeID
	parent   map[NodeID]NodeID
	children map[NodeID][]NodeID
	taxon    map[NodeID]string
	term     map[NodeID]bool
	seq      map[NodeID][]byte
	model    Model
	oneMut   float64
}

func newFakeTree(oneMut float64) *fakeTree {
	return &fakeTree{
		parent:   make(map[NodeID]NodeID),
		children: make(map[NodeID][]NodeID),
		taxon:    make(map[NodeID]string),
		term:     make(map[NodeID]bool),
		seq:      make(map[NodeID][]byte),
		model:    JukesCantor{Q: 4},
		oneMut:   oneMut,
	}
}

func (f *fakeTree) addLeaf(id NodeID, parent NodeID, name string, seq []byte) {
	f.parent[id] = parent
	f.children[parent] = append(f.children[parent], id)
	f.taxon[id] = name
	f.term[id] = true
	f.seq[id] = seq
}

func (f *fakeTree) addInternal(id, parent NodeID) {
	f.parent[id] = parent
	f.children[parent] = append(f.children[parent], id)
}

func (f *fakeTree) Root() NodeID { return f.root }

func (f *fakeTree) Nodes() []NodeID {
	set := map[NodeID]bool{f.root: true}
	var walk func(NodeID)
	walk = func(n NodeID) {
		for _, c := range f.children[n] {
			set[c] = true
			walk(c)
		}
	}
	walk(f.root)
	nodes := make([]NodeID, 0, len(set))
	for n := range set {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes
}

func (f *fakeTree) Parent(n NodeID) NodeID {
	if n == f.root {
		return -1
	}
	p, ok := f.parent[n]
	if !ok {
		return -1
	}
	return p
}

func (f *fakeTree) Children(n NodeID) []NodeID { return f.children[n] }
func (f *fakeTree) IsRoot(n NodeID) bool       { return n == f.root }
func (f *fakeTree) IsTerm(n NodeID) bool       { return f.term[n] }
func (f *fakeTree) Taxon(n NodeID) string      { return f.taxon[n] }
func (f *fakeTree) Sequence(n NodeID) []byte   { return f.seq[n] }
func (f *fakeTree) Model() Model               { return f.model }
func (f *fakeTree) OneMutation() float64       { return f.oneMut }

// genSeq returns a sequence of n sites, all 'A' except the first
// diffs sites, which are 'C'.
func genSeq(n, diffs int) []byte {
	s := make([]byte, n)
	for i := range s {
		if i < diffs {
			s[i] = 'C'
		} else {
			s[i] = 'A'
		}
	}
	return s
}

// starTree builds a root with one internal ancestor sequence and k
// dated leaves hanging directly off the root, each diverging from the
// root sequence by the given number of substitutions.
func starTree(oneMut float64, seqLen int, diffs ...int) (*fakeTree, []NodeID) {
	f := newFakeTree(oneMut)
	f.root = 0
	f.seq[0] = genSeq(seqLen, 0)
	ids := make([]NodeID, len(diffs))
	for i, d := range diffs {
		id := NodeID(i + 1)
		f.addLeaf(id, f.root, string(rune('a'+i)), genSeq(seqLen, d))
		ids[i] = id
	}
	return f, ids
}
