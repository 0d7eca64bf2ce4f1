package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
)

func recategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize <keyword> <category>",
		Short: "Move matching transactions into a category",
		Long: `Move every transaction whose description contains keyword (ignoring case)
into category, creating the category if needed.

Examples:
  spendwise recategorize uber Transport
  spendwise recategorize "amazon prime" Entertainment`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			moved, err := a.engine.Recategorize(ctx, a.cfg.UserID, args[0], args[1])
			if err != nil {
				return err
			}
			if moved == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("No transactions mention %q", args[0])))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Moved %d transaction(s) to %s", moved, args[1])))
			return nil
		},
	}
}
