package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/service"
)

func addCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a single transaction",
		Long: `Record an expense or income by hand.

Examples:
  spendwise add --amount 250 --description "Zomato order"
  spendwise add --amount 50000 --type income --description Salary --date 2024-03-01
  spendwise add --amount 12.50 --description "Coffee" --category Food`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft, err := flags.draft()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			txn, err := a.engine.AddTransaction(ctx, a.cfg.UserID, draft)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s on %s (%s)", txn.Type, cli.FormatAmount(*txn), txn.Date, txn.ID)))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func updateCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an existing transaction",
		Long: `Replace every field of one of your transactions. Omitted fields are
normalized exactly as they would be for a new transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := flags.draft()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			txn, err := a.engine.UpdateTransaction(ctx, args[0], a.cfg.UserID, draft)
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("transaction %s not found", args[0]), err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated %s", txn.ID)))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			err = a.engine.DeleteTransaction(ctx, args[0], a.cfg.UserID)
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("transaction %s not found", args[0]), err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+args[0]))
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var (
		filter service.TransactionFilter
		page   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Long: `List your transactions. Filter by a single day with --date, or by a
calendar month with --month and --year together.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (filter.Month == 0) != (filter.Year == 0) {
				return errors.New("--month and --year must be given together")
			}
			if page > 1 {
				filter.Offset = (page - 1) * filter.Limit
			}

			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			txns, err := a.engine.ListTransactions(ctx, a.cfg.UserID, filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.RenderTransactions(txns))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Date, "date", "", "Only this day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&filter.Month, "month", 0, "Only this month (1-12, requires --year)")
	cmd.Flags().IntVar(&filter.Year, "year", 0, "Only this year (requires --month)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "Page size")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}
