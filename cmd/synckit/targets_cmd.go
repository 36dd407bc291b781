package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/notewell/synckit/target"
)

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the available sync targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCHECK\tLABEL")
			for _, reg := range target.All() {
				check := "-"
				if reg.SupportsConfigCheck {
					check = "yes"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", reg.ID, reg.Name, check, reg.Label)
			}
			return w.Flush()
		},
	}
}
