package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/otreport/internal/assessment"
)

func newInstrumentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "List the instrument tags files can be submitted under",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tNAME\tREQUIRED")
			for _, info := range assessment.Catalog() {
				required := "no"
				if info.Required {
					required = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Tag, info.Name, required)
			}
			return tw.Flush()
		},
	}
}
