// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ReadDates reads a tab-delimited date table: one taxon per row, a
// name column and a decimal-year date column. The file has no header.
// Any other columns are ignored, and a row whose date field does not
// parse as a number is skipped rather than treated as a fatal error:
// date tables are commonly hand-edited, and a single bad row
// should not sink the whole inference.
//
// Here is an example file
//
//	# sampling dates
//	taxonA	2010.5
//	taxonB	2012.1
func ReadDates(r io.Reader) (map[string]float64, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'
	tsv.FieldsPerRecord = -1

	dates := make(map[string]float64)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		if len(row) < 2 {
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}
		dates[name] = d
	}

	return dates, nil
}
