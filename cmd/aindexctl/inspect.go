package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shenwei356/aindexgo/internal/config"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <prefix>",
		Short: "print a build's .aindex.json provenance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := args[0]
			prov, err := config.LoadBuildProvenance(prefix + ".aindex.json")
			if err != nil {
				return err
			}
			fmt.Printf("k            %d\n", prov.K)
			fmt.Printf("n            %d\n", prov.N)
			fmt.Printf("sum_tf       %d\n", prov.SumTF)
			fmt.Printf("max_tf       %d\n", prov.MaxTF)
			fmt.Printf("cap_mode     %s\n", prov.CapMode)
			fmt.Printf("threads      %d\n", prov.Threads)
			fmt.Printf("builder      %s\n", prov.BuilderVer)
			return nil
		},
	}
}
