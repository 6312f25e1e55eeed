package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gestaofinanceira/internal/export"
	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/services"
)

func exportCmd() *cobra.Command {
	var from, to, out, kind string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write records to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			filter, err := dateRange(from, to)
			if err != nil {
				return err
			}
			if kind != "" {
				k := models.Kind(kind)
				if !k.Valid() {
					return fmt.Errorf("invalid --kind %q (use income or expense)", kind)
				}
				filter.Kind = &k
			}

			manager, err := openDatabase()
			if err != nil {
				return err
			}
			defer manager.Close()

			records, err := services.NewRecordService(manager.DB()).ExportRecords(filter)
			if err != nil {
				return err
			}

			if out == "-" {
				return export.WriteRecordsCSV(c.OutOrStdout(), records)
			}
			if err := writeCSVFile(out, records); err != nil {
				return err
			}
			fmt.Fprintf(c.ErrOrStderr(), "%d records written to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "inclusive end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&kind, "kind", "", "only income or expense records")
	cmd.Flags().StringVarP(&out, "out", "o", export.Filename, `output file ("-" for stdout)`)
	return cmd
}

// writeCSVFile writes records to path and reports close errors.
func writeCSVFile(path string, records []models.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteRecordsCSV(f, records); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
