package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
)

func statsCmd() *cobra.Command {
	var flags monthFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show monthly totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, year, err := flags.resolve(time.Now())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			totals, err := a.engine.MonthlyStats(ctx, a.cfg.UserID, month, year)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderStats(totals))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func insightsCmd() *cobra.Command {
	var flags monthFlags

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Compare spending with the previous month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, year, err := flags.resolve(time.Now())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			insights, err := a.engine.MonthlyInsights(ctx, a.cfg.UserID, month, year)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Insights for %s %d", time.Month(month), year)))
			fmt.Fprint(out, cli.RenderInsights(insights))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
