// Command aindexctl is a read-only operator convenience wrapper around
// internal/query: inspect a build's provenance, print aggregate
// statistics, verify on-disk consistency, or look up a single k-mer. It
// contains no core logic of its own, only formatting over internal/query,
// the same convenience-wrapper role LexicMap's own search.go plays over
// its index package.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "aindexctl",
		Short: "inspect a built k-mer index",
	}
	root.AddCommand(inspectCmd(), statsCmd(), verifyCmd(), lookupCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
