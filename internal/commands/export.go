package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallied-dev/tallied/internal/export"
	"github.com/tallied-dev/tallied/internal/model"
)

func newExportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <month>",
		Short: "Export a month's transactions as injection-safe CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			month := model.Month(args[0])
			if _, _, err := model.ParseMonth(month); err != nil {
				return err
			}

			txns, err := a.service.Transactions(cmd.Context(), month)
			if err != nil {
				return err
			}

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := export.Write(w, txns); err != nil {
				return err
			}
			if out != "" {
				fmt.Printf("Exported %d transactions to %s\n", len(txns), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (defaults to stdout)")

	return cmd
}
