package cli

import (
	"fmt"
	"os"

	"resumake/internal/cv"

	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Compare two CV files field by field",
	Long: `Diff flattens two CV YAML files into field paths and reports
what was added, removed and changed. List entries are addressed by their
title, name or label, e.g. experience[Staff Engineer].bullets[0].`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldYAML, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}
	newYAML, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[1], err)
	}

	report, err := cv.Diff(oldYAML, newYAML)
	if err != nil {
		return err
	}

	if report.Empty() {
		fmt.Println("No differences.")
		return nil
	}

	for _, entry := range report.Added {
		fmt.Printf("+ %s: %s\n", entry.Path, entry.Value)
	}
	for _, entry := range report.Removed {
		fmt.Printf("- %s: %s\n", entry.Path, entry.Value)
	}
	for _, change := range report.Changed {
		fmt.Printf("~ %s: %s -> %s\n", change.Path, change.Old, change.New)
	}
	return nil
}
