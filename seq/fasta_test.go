// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package seq_test

import (
	"strings"
	"testing"

	"github.com/js-arias/clocktree/seq"
)

func TestReadFasta(t *testing.T) {
	in := ">taxonA some description\n" +
		"ACGT\n" +
		"ACGT\n" +
		"\n" +
		">taxonB\n" +
		"ACG-\n"

	aln, err := seq.ReadFasta(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadFasta: %v", err)
	}

	want := map[string]string{
		"taxonA": "ACGTACGT",
		"taxonB": "ACG-",
	}
	if len(aln) != len(want) {
		t.Fatalf("got %d sequences, want %d", len(aln), len(want))
	}
	for name, s := range want {
		got, ok := aln[name]
		if !ok {
			t.Errorf("missing sequence for %q", name)
			continue
		}
		if string(got) != s {
			t.Errorf("sequence for %q: got %q, want %q", name, got, s)
		}
	}
}

func TestReadFastaErrors(t *testing.T) {
	tests := map[string]string{
		"no sequences":       "",
		"data before header": "ACGT\n>taxonA\nACGT\n",
	}
	for name, in := range tests {
		if _, err := seq.ReadFasta(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected an error, got nil", name)
		}
	}
}
