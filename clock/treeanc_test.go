// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"testing"

	"github.com/js-arias/timetree"
)

// adapterTree returns a tree with a three-child root, two plain
// terminals and one cherry, the shape that exercises both the
// two-child and the multi-child paths of the parsimony
// reconstruction:
//
//	root -+- x -+- a
//	      |     +- d
//	      +- b
//	      +- c
func adapterTree(t testing.TB) (*timetree.Tree, map[string]int) {
	t.Helper()

	tt := timetree.New("fitch", 20)
	for _, nm := range []string{"a", "b", "c"} {
		tt.Add(0, 20, nm)
	}
	idA, ok := tt.TaxNode("a")
	if !ok {
		t.Fatalf("TaxNode(a): taxon not found")
	}
	if _, err := tt.AddSister(idA, 0, 10, "d"); err != nil {
		t.Fatalf("AddSister(d): %v", err)
	}

	ids := make(map[string]int)
	for _, nm := range []string{"a", "b", "c", "d"} {
		id, ok := tt.TaxNode(nm)
		if !ok {
			t.Fatalf("TaxNode(%s): taxon not found", nm)
		}
		ids[nm] = id
	}
	return tt, ids
}

func TestAdapterOptimizeSeqAndBranchLen(t *testing.T) {
	tt, ids := adapterTree(t)

	ad, err := NewAdapter(tt, JukesCantor{Q: 4}, 4)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}

	byTaxon := map[string][]byte{
		tt.Taxon(ids["a"]): []byte("ACGT"),
		tt.Taxon(ids["d"]): []byte("ACGT"),
		tt.Taxon(ids["b"]): []byte("ACGA"),
		tt.Taxon(ids["c"]): []byte("AAGA"),
	}
	ad.SetTermSequences(byTaxon)
	for nm, id := range ids {
		if ad.Sequence(id) == nil {
			t.Fatalf("terminal %q: sequence not attached", nm)
		}
	}

	if err := ad.OptimizeSeqAndBranchLen(); err != nil {
		t.Fatalf("OptimizeSeqAndBranchLen: %v", err)
	}

	// the cherry ancestor has two identical children, so its
	// reconstruction is fully determined.
	x := tt.Parent(ids["a"])
	if x == tt.Root() {
		t.Fatalf("expected an internal node between the root and terminal a")
	}
	if got := string(ad.Sequence(x)); got != "ACGT" {
		t.Errorf("cherry ancestor sequence: got %q, want %q", got, "ACGT")
	}

	root := ad.Sequence(tt.Root())
	if len(root) != 4 {
		t.Fatalf("root sequence: got %q, want 4 sites", root)
	}
	// sites where every subtree agrees are fixed; at disagreeing
	// sites the reconstruction must still pick a state observed in
	// one of the children.
	if root[0] != 'A' || root[2] != 'G' {
		t.Errorf("root sequence %q: sites 0 and 2 must be 'A' and 'G'", root)
	}
	if s := root[1]; s != 'C' && s != 'A' {
		t.Errorf("root sequence %q: site 1 must be a child state ('C' or 'A')", root)
	}
	if s := root[3]; s != 'T' && s != 'A' {
		t.Errorf("root sequence %q: site 3 must be a child state ('T' or 'A')", root)
	}
}

func TestAdapterOptimizeKeepsGivenAncestors(t *testing.T) {
	tt, ids := adapterTree(t)

	ad, err := NewAdapter(tt, JukesCantor{Q: 4}, 4)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	for _, id := range ids {
		ad.SetSequence(id, []byte("ACGT"))
	}
	ad.SetSequence(tt.Root(), []byte("TTTT"))
	ad.SetSequence(tt.Parent(ids["a"]), []byte("TTTT"))

	if err := ad.OptimizeSeqAndBranchLen(); err != nil {
		t.Fatalf("OptimizeSeqAndBranchLen: %v", err)
	}
	if got := string(ad.Sequence(tt.Root())); got != "TTTT" {
		t.Errorf("root sequence: got %q, want the supplied %q kept as is", got, "TTTT")
	}
}

func TestNewAdapterValidation(t *testing.T) {
	if _, err := NewAdapter(nil, JukesCantor{Q: 4}, 100); err == nil {
		t.Errorf("expected an error for a nil tree")
	}

	tt, _ := adapterTree(t)
	if _, err := NewAdapter(tt, JukesCantor{Q: 4}, 0); err == nil {
		t.Errorf("expected an error for a zero alignment length")
	}

	ad, err := NewAdapter(tt, JukesCantor{Q: 4}, 4)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	if got := ad.OneMutation(); got != 0.25 {
		t.Errorf("OneMutation: got %v, want 0.25", got)
	}
	if err := ad.OptimizeSeqAndBranchLen(); err == nil {
		t.Errorf("expected an error without terminal sequences")
	}
}
