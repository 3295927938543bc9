package cli

import (
	"fmt"
	"os"

	"resumake/internal/cv"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the CV source file",
	Long: `Validate parses the CV source and reports every field-level
problem at once. The exit code is non-zero when the document is invalid.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())

	data, err := os.ReadFile(cfg.App.Source)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", cfg.App.Source, err)
	}

	problems := cv.Check(data)
	if len(problems) == 0 {
		fmt.Printf("%s is valid\n", cfg.App.Source)
		return nil
	}

	fmt.Fprintf(os.Stderr, "%s has %d problem(s):\n", cfg.App.Source, len(problems))
	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", p.Path, p.Message)
	}
	return fmt.Errorf("validation failed with %d problem(s)", len(problems))
}
