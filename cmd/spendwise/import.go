package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/model"
)

func importCmd() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import transactions from CSV, OFX/QFX or receipt images",
		Long: `Import one or more files. Each file is imported as a whole: if any record
in it is bad, nothing from that file is stored and the file is left alone.

Successfully imported files are removed afterwards unless --keep is set
(or ingest.keep_uploads is true in the config).

CSV files need a header row with Date, Description, Amount and optionally
Type columns. Receipt images are read with the configured OCR engine.

Examples:
  spendwise import statement.csv
  spendwise import --keep january.qfx february.qfx
  spendwise import --type image/jpeg receipt-scan`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			handler := cli.NewInterruptHandler(out)
			ctx, stop := handler.HandleInterrupts(cmd.Context())
			defer stop()

			bar := cli.NewImportProgress(cmd.ErrOrStderr(), len(args))
			var (
				imported int
				failures []error
				summary  []string
			)
			for _, path := range args {
				if ctx.Err() != nil {
					break
				}

				result, err := a.engine.IngestBulk(ctx, a.cfg.UserID, model.Upload{Path: path, ContentType: contentType})
				if err != nil {
					failures = append(failures, fmt.Errorf("%s: %w", path, err))
				} else {
					imported += result.Count
					handler.FileImported()
					summary = append(summary, cli.FormatImportedFile(path, result.Count))
					slog.Debug("imported file", "path", path, "count", result.Count)
				}
				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}

			if handler.WasInterrupted() {
				return ctx.Err()
			}

			for _, line := range summary {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transaction(s) from %d of %d file(s)", imported, len(args)-len(failures), len(args))))
			for _, failure := range failures {
				fmt.Fprintln(out, cli.FormatError(failure.Error()))
			}
			if len(failures) > 0 {
				return errors.Join(failures...)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "type", "", "Content type for every file, e.g. text/csv or image/png (default: detect)")
	cmd.Flags().Bool("keep", false, "Keep files after a successful import")
	_ = viper.BindPFlag("ingest.keep_uploads", cmd.Flags().Lookup("keep"))
	return cmd
}
