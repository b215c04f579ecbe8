// Command gazeslices queries an eye-tracking sample store and manages its exclusion overlay.
//
// Configuration comes from GAZE_* environment variables; the persistent flags override them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
