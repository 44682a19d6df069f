package main

import (
	"os"

	intakectlcmd "github.com/telekom/contact-intake/pkg/intakectl/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := intakectlcmd.NewRootCommand(intakectlcmd.DefaultConfig())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
