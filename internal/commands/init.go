package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tallied-dev/tallied/internal/categorize"
	"github.com/tallied-dev/tallied/internal/config"
)

func newInitCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tallied project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, dataDir)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "directory for monthly transaction files")

	return cmd
}

func runInit(dir, dataDir string) error {
	dirs := []string{
		dataDir,
		"rules",
		"logs",
		"import",
		filepath.Join("import", "processed"),
		"exports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write tallied.yaml.
	cfg := config.Default(dataDir)
	if err := config.Save(filepath.Join(dir, "tallied.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the default categorization rules so they can be edited.
	rulesPath := filepath.Join(dir, "rules", "categorization-rules.yaml")
	if err := categorize.SaveRules(rulesPath, categorize.Default()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Printf("Initialized tallied project at %s\n", dir)
	return nil
}
