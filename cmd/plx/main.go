package main

import (
	"os"

	"github.com/plxdev/plx-cli/cli"
	"github.com/plxdev/plx-cli/clierror"
	"github.com/plxdev/plx-cli/genericclioptions"
)

func main() {
	clierror.SetName("plx")

	io := genericclioptions.NewDefaultIOStreams()
	plx := cli.NewDefaultPlxCommand(io, os.Args[1:])

	if err := plx.Execute(); err != nil {
		io.Errorf("%v\n", err)
		os.Exit(1)
	}
}
