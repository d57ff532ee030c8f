// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Clocktree is a tool for molecular-clock time calibration of
// phylogenetic trees.
package main

import (
	"github.com/js-arias/clocktree/cmd/clocktree/infer"
	"github.com/js-arias/clocktree/cmd/clocktree/plotcmd"
	"github.com/js-arias/command"
)

var app = &command.Command{
	Usage: "clocktree <command> [<argument>...]",
	Short: "a tool for molecular-clock time calibration of phylogenetic trees",
}

func init() {
	app.Add(infer.Command)
	app.Add(plotcmd.Command)
}

func main() {
	app.Main()
}
