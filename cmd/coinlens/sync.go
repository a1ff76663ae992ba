package main

import "github.com/spf13/cobra"

func syncCmd(a *app) *cobra.Command {
	var fromYear int
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch daily closes and rebuild price, AHR999 and stats documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.collector()
			if err != nil {
				return err
			}
			if fromYear == 0 {
				fromYear = a.cfg.Source.FromYear
			}
			res, err := c.Sync(cmd.Context(), fromYear)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&fromYear, "from-year", 0, "first year to rebuild (default source.from_year)")
	return cmd
}
