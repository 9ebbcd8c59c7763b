// Command ecmare runs ECMAScript regular expressions from the command line.
//
// Usage:
//
//	ecmare match '/hello/g' 'hello world'   # is_match: true
//	ecmare find '/(\d+)px/g' 'a 10px b 20px'
//	ecmare check cmd/ecmare/testdata/cases.yaml
//
// Search limits come from --steps and --timeout, the ECMARE_STEPS and
// ECMARE_TIMEOUT environment variables or a --config file, in that order
// of precedence.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
