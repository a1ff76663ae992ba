package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func returnsCmd(a *app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "returns",
		Short: "Monthly, quarterly and yearly returns for one year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.service().Returns(cmd.Context(), year)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "calendar year")
	return cmd
}

func historyCmd(a *app) *cobra.Command {
	var from, to int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Returns table over a range of years with per-period averages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.service().History(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), h)
		},
	}
	cmd.Flags().IntVar(&from, "from", 2013, "first year")
	cmd.Flags().IntVar(&to, "to", time.Now().Year(), "last year")
	return cmd
}

func calendarCmd(a *app) *cobra.Command {
	var year, month int
	now := time.Now()
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Daily prices and day-over-day changes for one month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month < 1 || month > 12 {
				return fmt.Errorf("month %d out of range 1..12", month)
			}
			c, err := a.service().Calendar(cmd.Context(), year, time.Month(month))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}
	cmd.Flags().IntVar(&year, "year", now.Year(), "calendar year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "month 1-12")
	return cmd
}

func modelCmd(a *app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Log-growth model price series joined with actual prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pts, err := a.service().Model(cmd.Context(), year)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), pts)
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "calendar year")
	return cmd
}

func ahr999Cmd(a *app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "ahr999",
		Short: "AHR999 zone classification and day counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.service().AHR999(cmd.Context(), year)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "calendar year, 0 for all stored years")
	return cmd
}

func halvingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "halving",
		Short: "Historical halving cycles compared with configured predictions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := a.service().Halving(cmd.Context(), a.cfg.Predictions)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rep)
		},
	}
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Aggregate statistics document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.service().Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
}
