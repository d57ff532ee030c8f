// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package infer implements a command to run the two-pass molecular
// clock inference over a clocktree project and write the resulting
// node dates.
package infer

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/js-arias/clocktree/clock"
	"github.com/js-arias/clocktree/project"
	"github.com/js-arias/clocktree/seq"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `infer [--model <name>] [--slope <value>]
	[-o|--output <file>] [-v <level>]
	<project-file> <tree-name>`,
	Short: "infer a time-calibrated tree from a clocktree project",
	Long: `
Command infer reads a clocktree project, runs the two-pass molecular clock
belief-propagation engine over the named tree, and writes a table with every
node's inferred date.

The first argument is the name of the project file. The second argument is
the name of the tree, as stored in the project's tree dataset.

The flag --model sets the substitution model used to build branch-length
interpolators. By default, "Jukes-Cantor" is used; it is currently the only
model implemented.

By default, the date/branch-length regression slope is fit automatically
from the dated leaves. Use the flag --slope to fix it instead (this
overrides any slope defined in the project file).

The flag --output, or -o, sets the name of the output file. If not given, it
will use '<project>-<tree>-dates.tab'.

The flag -v sets the verbosity level of progress messages printed to
the standard error (0 disables them, higher values print more).
	`,
	SetFlags: setFlags,
	Run:      run,
}

var modelName string
var slopeFlag float64
var hasSlopeFlag bool
var output string
var verbosity int

func setFlags(c *command.Command) {
	c.Flags().StringVar(&modelName, "model", "Jukes-Cantor", "")
	c.Flags().Func("slope", "", func(v string) error {
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
			return err
		}
		slopeFlag = f
		hasSlopeFlag = true
		return nil
	})
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().IntVar(&verbosity, "v", 1, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 2 {
		return c.UsageError("expecting project file and tree name")
	}
	pFile, treeName := args[0], args[1]

	p, err := project.Read(pFile)
	if err != nil {
		return err
	}

	tc, err := p.Tree()
	if err != nil {
		return err
	}
	t := tc.Tree(treeName)
	if t == nil {
		return c.UsageError(fmt.Sprintf("unknown tree %q", treeName))
	}

	alnFile := p.Path(project.Alignment)
	if alnFile == "" {
		return c.UsageError(fmt.Sprintf("alignment not defined in project %q", pFile))
	}
	aln, err := readAlignment(alnFile)
	if err != nil {
		return err
	}

	model, err := clock.NewModel(modelName)
	if err != nil {
		return err
	}

	adapter, err := clock.NewAdapter(t, model, alignmentLength(aln))
	if err != nil {
		return err
	}
	adapter.SetTermSequences(aln)

	dates, err := p.Dates()
	if err != nil {
		return err
	}
	bad, err := p.BadBranches()
	if err != nil {
		return err
	}
	badSet := badBranchSet(t, bad)

	ctx := clock.NewContext()
	ctx.Verbosity = verbosity

	engine := clock.NewEngine(ctx, adapter, dates, badSet)

	var slopeHint *float64
	if hasSlopeFlag {
		v := slopeFlag
		slopeHint = &v
	} else if v, ok, err := p.Slope(); err != nil {
		return err
	} else if ok {
		slopeHint = &v
	}

	if err := engine.InitDateConstraints(slopeHint); err != nil {
		return err
	}
	if err := engine.MakeTimeTree(); err != nil {
		return err
	}

	if output == "" {
		output = fmt.Sprintf("%s-%s-dates.tab", pFile, treeName)
	}
	return writeResults(output, adapter, engine, pFile, treeName)
}

func readAlignment(name string) (map[string][]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	aln, err := seq.ReadFasta(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return aln, nil
}

func alignmentLength(aln map[string][]byte) int {
	n := 0
	for _, s := range aln {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}

func badBranchSet(t interface {
	Nodes() []int
	IsTerm(int) bool
	Taxon(int) string
}, bad map[string]bool) map[int]bool {
	if len(bad) == 0 {
		return nil
	}
	out := make(map[int]bool)
	for _, n := range t.Nodes() {
		if !t.IsTerm(n) {
			continue
		}
		if bad[t.Taxon(n)] {
			out[n] = true
		}
	}
	return out
}

func writeResults(name string, anc clock.TreeAnc, e *clock.Engine, pFile, treeName string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if cerr != nil && err == nil {
			err = cerr
		}
	}()

	fmt.Fprintf(f, "# clocktree inference on tree %q of project %q\n", treeName, pFile)
	fmt.Fprintf(f, "# substitution model: %s\n", modelName)

	tsv := csv.NewWriter(f)
	tsv.Comma = '\t'
	tsv.UseCRLF = true
	if err := tsv.Write([]string{"node", "taxon", "numdate", "date", "branch_length", "clock_length", "bad_branch"}); err != nil {
		return err
	}

	for _, n := range anc.Nodes() {
		cn := e.Node(n)
		row := []string{
			fmt.Sprintf("%d", n),
			anc.Taxon(n),
			fmt.Sprintf("%.6f", cn.Numdate),
			cn.DateString,
			fmt.Sprintf("%.6g", cn.BranchLength),
			fmt.Sprintf("%.6g", cn.ClockLength),
			fmt.Sprintf("%t", cn.BadBranch),
		}
		if err := tsv.Write(row); err != nil {
			return err
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data on %q: %v", name, err)
	}
	return nil
}
