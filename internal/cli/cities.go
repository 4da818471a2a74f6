package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/shalat/internal/location"
)

func newCitiesCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "cities [query]",
		Short: "List the supported cities",
		Args:  cobra.MaximumNArgs(1),
		// The catalog is built in, so config and network are skipped.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if deps.Catalog == nil {
				deps.Catalog = location.DefaultCatalog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			cities := deps.Catalog.Search(query)
			if len(cities) == 0 {
				return fmt.Errorf("no city matches %q", query)
			}

			out := cmd.OutOrStdout()
			for _, c := range cities {
				fmt.Fprintf(out, "%-16s %9.4f %10.4f\n", c.Name, c.Latitude, c.Longitude)
			}
			return nil
		},
	}
}
