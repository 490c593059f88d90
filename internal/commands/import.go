package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallied-dev/tallied/internal/dialect"
	"github.com/tallied-dev/tallied/internal/importlog"
	"github.com/tallied-dev/tallied/internal/model"
	"github.com/tallied-dev/tallied/internal/normalize"
	"github.com/tallied-dev/tallied/internal/pipeline"
)

// maxReportedReasons bounds how many rejection reasons the summary prints.
const maxReportedReasons = 5

func newImportCommand() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			return runImport(cmd, a, args[0], batchSize)
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", pipeline.DefaultBatchSize, "rows per processing batch")

	return cmd
}

func runImport(cmd *cobra.Command, a *app, path string, batchSize int) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	normalizer := normalize.New(a.categorizer)
	normalizer.Ceiling = a.cfg.AmountCeiling()
	if a.cfg.Limits.MaxDescription > 0 {
		normalizer.MaxDescription = a.cfg.Limits.MaxDescription
	}

	p := pipeline.New(dialect.DefaultRegistry(), normalizer, a.log)

	start := time.Now()
	result, err := p.Run(cmd.Context(), blob, filepath.Base(path), pipeline.Options{
		BatchSize: batchSize,
		OnProgress: func(prog pipeline.Progress) {
			a.log.Debug().
				Int("rows", prog.Rows).
				Int("parsed", prog.Parsed).
				Int("rejected", prog.Rejected).
				Msg("import progress")
		},
	})
	if err != nil {
		if pipeline.IsTerminal(err) {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		return err
	}

	if _, err := a.service.AddTransactions(cmd.Context(), result.Transactions); err != nil {
		return err
	}

	if err := importlog.Append(a.root, importlog.Entry{
		Timestamp: start,
		File:      filepath.Base(path),
		Dialect:   string(result.Dialect),
		Imported:  len(result.Transactions),
		Rejected:  len(result.Errors),
		Duration:  time.Since(start),
	}); err != nil {
		a.log.Warn().Err(err).Msg("could not append import log")
	}

	fmt.Printf("Imported %d of %d records (%s), %d rejected\n",
		len(result.Transactions), result.Rows, result.Dialect, len(result.Errors))
	if len(result.Errors) > 0 {
		fmt.Printf("Reasons: %s\n", summarizeReasons(result.Errors))
	}
	return nil
}

func summarizeReasons(errs []model.RowError) string {
	n := len(errs)
	if n > maxReportedReasons {
		n = maxReportedReasons
	}
	reasons := make([]string, n)
	for i := 0; i < n; i++ {
		reasons[i] = errs[i].Error()
	}
	if len(errs) > n {
		reasons = append(reasons, fmt.Sprintf("... and %d more", len(errs)-n))
	}
	return strings.Join(reasons, "; ")
}
