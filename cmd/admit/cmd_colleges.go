package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// collegesCmd lists the catalog
var collegesCmd = &cobra.Command{
	Use:   "colleges",
	Short: "List the colleges and their statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, closeCache := buildDeps(cmd.Context())
		defer closeCache()

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(deps.Catalog.All())
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tACCEPT\tMEDIAN GPA\tSAT\tACT")
		for _, c := range deps.Catalog.All() {
			fmt.Fprintf(tw, "%s\t%s\t%.0f%%\t%.2f\t%.0f-%.0f\t%.0f-%.0f\n",
				c.ID, c.Name, c.AcceptanceRate*100, c.MedianGPA,
				c.SATRange.Low, c.SATRange.High, c.ACTRange.Low, c.ACTRange.High)
		}
		return tw.Flush()
	},
}
