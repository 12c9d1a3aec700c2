// glycoseq - glycopeptide identification from MS/MS spectra
package main

import (
	"fmt"
	"os"

	"github.com/ruizhang84/GlycoHybridSeq/cmd/glycoseq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
