// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package seq implements a minimal FASTA reader for the sequence
// alignments consumed by clock.TreeAnc. Alignment I/O is explicitly
// an external collaborator of the clocktree engine, not part of it;
// this package exists only so the command line tool has something to
// read, the way a real deployment would plug in its own alignment
// reader.
package seq

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadFasta reads a sequence alignment in FASTA format, keyed by the
// name on each ">" header line (up to the first whitespace).
func ReadFasta(r io.Reader) (map[string][]byte, error) {
	seqs := make(map[string][]byte)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var name string
	var buf strings.Builder
	flush := func() {
		if name == "" {
			return
		}
		seqs[name] = []byte(buf.String())
		buf.Reset()
	}

	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" {
			continue
		}
		if ln[0] == '>' {
			flush()
			fields := strings.Fields(ln[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("clock/seq: empty header line")
			}
			name = fields[0]
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("clock/seq: sequence data before first header")
		}
		buf.WriteString(ln)
	}
	flush()

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("clock/seq: %v", err)
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("clock/seq: no sequences found")
	}
	return seqs, nil
}
