package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallied-dev/tallied/internal/analytics"
	"github.com/tallied-dev/tallied/internal/insight"
	"github.com/tallied-dev/tallied/internal/model"
)

func newReportCommand() *cobra.Command {
	var trend int
	var asInsightPayload bool

	cmd := &cobra.Command{
		Use:   "report [month]",
		Short: "Show monthly aggregates (defaults to the current month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			month := model.MonthOf(time.Now())
			if len(args) > 0 {
				month = model.Month(args[0])
				if _, _, err := model.ParseMonth(month); err != nil {
					return err
				}
			}

			if trend > 0 {
				return runTrend(cmd, a, month, trend)
			}
			return runReport(cmd, a, month, asInsightPayload)
		},
	}

	cmd.Flags().IntVar(&trend, "trend", 0, "show a trend series over N months (6 or 12)")
	cmd.Flags().BoolVar(&asInsightPayload, "insight-payload", false, "print the insight request payload as JSON")

	return cmd
}

func runReport(cmd *cobra.Command, a *app, month model.Month, asPayload bool) error {
	summary, err := a.service.Report(cmd.Context(), month)
	if err != nil {
		return err
	}

	if asPayload {
		candidates, err := a.service.Subscriptions(cmd.Context(), month)
		if err != nil {
			return err
		}
		data, err := insight.Marshal(insight.Build(summary, candidates, a.cfg.Budget()))
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printSummary(summary)
	return nil
}

func runTrend(cmd *cobra.Command, a *app, end model.Month, n int) error {
	series, err := a.service.Trend(cmd.Context(), end, n)
	if err != nil {
		return err
	}
	for _, s := range series {
		fmt.Printf("%s  income %12s  expenses %12s  net %12s\n",
			s.Month, s.Income.StringFixed(2), s.Expenses.StringFixed(2), s.Net.StringFixed(2))
	}
	return nil
}

func printSummary(s analytics.Summary) {
	fmt.Printf("Month:         %s\n", s.Month)
	fmt.Printf("Income:        %s\n", s.Income.StringFixed(2))
	fmt.Printf("Expenses:      %s\n", s.Expenses.StringFixed(2))
	fmt.Printf("Net:           %s\n", s.Net.StringFixed(2))
	fmt.Printf("Savings rate:  %s\n", s.SavingsRate.StringFixed(4))
	fmt.Printf("Subscriptions: %s\n", s.Subscriptions.StringFixed(2))
	if len(s.TopCategories) > 0 {
		fmt.Println("Top categories:")
		for _, c := range s.TopCategories {
			fmt.Printf("  %-15s %12s\n", c.Category, c.Amount.StringFixed(2))
		}
	}
}
