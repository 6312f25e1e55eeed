package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gestaofinanceira/internal/config"
	"gestaofinanceira/internal/money"
	"gestaofinanceira/internal/services"
)

func summaryCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print totals and per-category breakdowns",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			filter, err := dateRange(from, to)
			if err != nil {
				return err
			}

			manager, err := openDatabase()
			if err != nil {
				return err
			}
			defer manager.Close()

			summary, err := services.NewReportService(manager.DB()).Summary(filter)
			if err != nil {
				return err
			}

			printSummary(c.OutOrStdout(), filter, summary, config.Get().CurrencySymbol)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "inclusive end date (YYYY-MM-DD)")
	return cmd
}

func printSummary(out io.Writer, filter services.RecordFilter, s *services.Summary, symbol string) {
	fmt.Fprintf(out, "Período: %s\n\n", describeRange(filter))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Entradas\t%s\t\n", money.FormatCurrency(symbol, s.TotalIncome))
	fmt.Fprintf(w, "Saídas\t%s\t\n", money.FormatCurrency(symbol, s.TotalExpense))
	fmt.Fprintf(w, "Saldo\t%s\t\n", money.FormatCurrency(symbol, s.Balance))
	_ = w.Flush()

	printBreakdown(out, "Entradas por categoria", s.IncomeBreakdown, symbol)
	printBreakdown(out, "Saídas por categoria", s.ExpenseBreakdown, symbol)
}

func printBreakdown(out io.Writer, title string, entries []services.BreakdownEntry, symbol string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", title)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "  %s\t%s\n", e.Category, money.FormatCurrency(symbol, e.Total))
	}
	_ = w.Flush()
}
