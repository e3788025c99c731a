// Command split-route runs the route pipeline once over a directory of track
// files and prints the result.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "split-route: %v\n", err)
		os.Exit(1)
	}
}
