package main

import (
	"os"

	"github.com/formalsmt/SMTmv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
