package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/classification"
	"github.com/Veraticus/spendwise/internal/cli"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List the categories you can use, including the shared defaults, add your own, or show the keyword rules used to categorize imports.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(categoryRulesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			categories, err := a.engine.ListCategories(ctx, a.cfg.UserID)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.RenderCategories(categories))
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Long:  `Create a category. If one with the same name (ignoring case) already exists, it is reused.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := a.engine.CreateCategory(ctx, a.cfg.UserID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category %s (#%d) is ready", category.Name, category.ID)))
			return nil
		},
	}
}

func categoryRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the keyword rules used to categorize transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), cli.RenderRules(classification.NewDefaultClassifier().Rules()))
			return nil
		},
	}
}
