package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/retouch/filter"
)

func newCatalogueCmd(*app) *cobra.Command {
	return &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"filters"},
		Short:   "List the available filters and their ranges",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := filter.DefaultCatalogue()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tNAME\tFAMILY\tMIN\tMAX\tDEFAULT")
			for _, family := range []filter.Family{filter.FamilyAdjustment, filter.FamilyStyle} {
				for _, spec := range cat.Specs(family) {
					fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\n",
						spec.Kind(), spec.DisplayName(), spec.Family(), spec.Min(), spec.Max(), spec.Default())
				}
			}
			return w.Flush()
		},
	}
}
