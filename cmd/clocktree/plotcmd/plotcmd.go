// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package plotcmd implements a command to draw a diagnostic plot of a
// node's branch-length interpolator and marginal/joint posteriors.
package plotcmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/js-arias/clocktree/clock"
	cplot "github.com/js-arias/clocktree/clock/plot"
	"github.com/js-arias/clocktree/project"
	"github.com/js-arias/clocktree/seq"
	"github.com/js-arias/command"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `plot [--model <name>] [-o|--output <file>]
	<project-file> <tree-name> <node-id>`,
	Short: "plot a node's clock distributions",
	Long: `
Command plot runs the molecular clock inference on a clocktree project, the
same as the infer command, and then draws the branch-length interpolator and
the marginal and joint posteriors of a single node to an image file.

The first argument is the project file, the second is the tree name, and the
third is the numeric id of the node to plot (as printed by the infer
command's output table).

The flag --output, or -o, sets the name of the output image. The image
format is chosen from the file extension (.png, .svg, .pdf, .jpg); by
default 'node-<id>.png' is used.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var modelName string
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&modelName, "model", "Jukes-Cantor", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 3 {
		return c.UsageError("expecting project file, tree name, and node id")
	}
	pFile, treeName := args[0], args[1]
	nodeID, err := strconv.Atoi(args[2])
	if err != nil {
		return c.UsageError(fmt.Sprintf("invalid node id %q", args[2]))
	}

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
	f, err := os.Open(alnFile)
	if err != nil {
		return err
	}
	aln, err := seq.ReadFasta(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("while reading file %q: %v", alnFile, err)
	}

	model, err := clock.NewModel(modelName)
	if err != nil {
		return err
	}

	n := 0
	for _, s := range aln {
		if len(s) > n {
			n = len(s)
		}
	}
	adapter, err := clock.NewAdapter(t, model, n)
	if err != nil {
		return err
	}
	adapter.SetTermSequences(aln)

	dates, err := p.Dates()
	if err != nil {
		return err
	}

	ctx := clock.NewContext()
	engine := clock.NewEngine(ctx, adapter, dates, nil)
	if err := engine.InitDateConstraints(nil); err != nil {
		return err
	}
	if err := engine.MakeTimeTree(); err != nil {
		return err
	}

	if output == "" {
		output = fmt.Sprintf("node-%d.png", nodeID)
	}

	cn := engine.Node(nodeID)
	if cn.MarginalLH == nil && cn.JointLH == nil && cn.BranchLenInterp == nil {
		return fmt.Errorf("node %d has no plottable distributions", nodeID)
	}

	title := fmt.Sprintf("%s: node %d", treeName, nodeID)
	return cplot.NodeDistributions(title, cn, 6*vg.Inch, 4*vg.Inch, output)
}
