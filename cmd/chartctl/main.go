// Command chartctl drives the demo statecharts from the command line.
//
//	chartctl list
//	chartctl shape traffic
//	chartctl run traffic timer timer pedtimer
//	chartctl dot word bold italic
//
// Logging is configured from STATECHART_LOG_* variables and may be
// overridden with --log-level and --log-format.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
