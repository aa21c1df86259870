package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/application"
)

func newPresetsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List configured locale presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			catalog, err := application.NewPresetCatalog(cfg.Simulation)
			if err != nil {
				return err
			}
			presets, err := application.NewPresetQueryService(catalog).ListPresets(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tHOME PRICE\tRENT\tHOME MU\tHOME SIGMA\tPROPERTY TAX")
			for _, p := range presets {
				fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.3f\t%.3f\t%.4f\n",
					p.Name, p.Params.HomePrice, p.Params.Rent, p.Params.HomeMu, p.Params.HomeSigma, p.Params.PropertyTaxRate)
			}
			return w.Flush()
		},
	}
}
