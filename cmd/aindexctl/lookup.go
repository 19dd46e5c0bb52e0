package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func lookupCmd() *cobra.Command {
	var maxReads int
	cmd := &cobra.Command{
		Use:   "lookup <prefix> <kmer>",
		Short: "print tf, positions, and containing reads for one k-mer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opened, err := openByPrefix(args[0])
			if err != nil {
				return err
			}
			defer opened.Close()

			kmer := []byte(args[1])
			tf, err := opened.engine.TF(kmer)
			if err != nil {
				return err
			}
			fmt.Printf("tf         %d\n", tf)
			if tf == 0 {
				return nil
			}

			positions, err := opened.engine.Positions(kmer)
			if err != nil {
				return err
			}
			fmt.Printf("positions  %v\n", positions)

			hits, err := opened.engine.KmerToReads(kmer, maxReads)
			if err != nil {
				return err
			}
			for _, h := range hits {
				fmt.Printf("read %d  offset %d  strand %v  mate %d\n", h.Rid, h.LocalOffset, h.Strand, h.PairedMate)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxReads, "max-reads", 20, "maximum number of containing reads to print")
	return cmd
}
