package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallied-dev/tallied/internal/model"
)

func newSubscriptionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscriptions [month]",
		Short: "List detected recurring charges",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			end := model.MonthOf(time.Now())
			if len(args) > 0 {
				end = model.Month(args[0])
				if _, _, err := model.ParseMonth(end); err != nil {
					return err
				}
			}

			candidates, err := a.service.Subscriptions(cmd.Context(), end)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				fmt.Println("No recurring charges detected.")
				return nil
			}

			for _, c := range candidates {
				fmt.Printf("%-30s %10s/mo  x%d  next ~%s\n",
					c.Merchant, c.Monthly.StringFixed(2), c.Occurrences,
					c.NextExpected.Format("2006-01-02"))
			}
			return nil
		},
	}
	return cmd
}
