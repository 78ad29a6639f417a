package main

import (
	"fmt"
	"os"

	"github.com/t-800m101/spothinta/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the spothinta command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
