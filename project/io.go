// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/js-arias/clocktree/clock"
	"github.com/js-arias/timetree"
)

// Tree returns a tree collection from a project.
func (p *Project) Tree() (*timetree.Collection, error) {
	name := p.Path(Tree)
	if name == "" {
		return nil, fmt.Errorf("tree not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := timetree.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}

// Dates returns the sampling-date table from a project.
func (p *Project) Dates() (map[string]float64, error) {
	name := p.Path(Dates)
	if name == "" {
		return nil, fmt.Errorf("dates not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := clock.ReadDates(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return d, nil
}

// BadBranches returns the set of taxon names excluded from the
// molecular clock, one name per line, from a project. If the dataset
// is undefined it returns nil with no error: bad branches are
// optional.
func (p *Project) BadBranches() (map[string]bool, error) {
	name := p.Path(BadBranches)
	if name == "" {
		return nil, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bad := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		bad[ln] = true
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return bad, nil
}

// Slope returns a fixed date/branch-length regression slope from a
// project, and whether one was defined.
func (p *Project) Slope() (float64, bool, error) {
	name := p.Path(Slope)
	if name == "" {
		return 0, false, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		v, err := strconv.ParseFloat(ln, 64)
		if err != nil {
			return 0, false, fmt.Errorf("while reading file %q: %v", name, err)
		}
		return v, true, nil
	}
	if err := sc.Err(); err != nil {
		return 0, false, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return 0, false, nil
}
