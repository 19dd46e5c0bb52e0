package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/shenwei356/aindexgo/internal/reads"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <prefix>",
		Short: "print aggregate tf and read-length statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opened, err := openByPrefix(args[0])
			if err != nil {
				return err
			}
			defer opened.Close()

			snap := opened.engine.Snapshot()
			fmt.Printf("distinct k-mers   %d\n", snap.N)
			fmt.Printf("sum tf            %d\n", snap.SumTF)
			fmt.Printf("mean tf           %.4f\n", snap.MeanTF)
			fmt.Printf("stdev tf          %.4f\n", snap.StdDevTF)

			var lengths []float64
			err = opened.engine.IterReads(func(v reads.ReadView) bool {
				lengths = append(lengths, float64(len(v.Raw)))
				return true
			})
			if err != nil {
				return err
			}
			mean, sd := meanStdev(lengths)
			fmt.Printf("reads             %d\n", len(lengths))
			fmt.Printf("mean read length  %.4f\n", mean)
			fmt.Printf("stdev read length %.4f\n", sd)
			return nil
		},
	}
}

// meanStdev is a two-pass helper (grounded on lexicmap/cmd/util.go's
// MeanStdev), kept for this CLI's read-length display rather than routed
// through gonum: a one-shot two-pass mean/variance over a slice already
// materialized in memory needs nothing gonum provides for the aggregate
// tf array in query.Engine.Snapshot.
func meanStdev(values []float64) (float64, float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return values[0], 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(n))
}
