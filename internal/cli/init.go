package cli

import (
	"fmt"

	"resumake/internal/scaffold"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Scaffold a new CV project",
	Long: `Init creates a starter cv.yaml, a .resumake.yaml configuration,
a .gitignore and the assets/ and output/ directories. Existing files are
left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	result, err := scaffold.Init(dir)
	if err != nil {
		return err
	}

	for _, name := range result.Created {
		fmt.Printf("created %s\n", name)
	}
	for _, name := range result.Skipped {
		fmt.Printf("skipped %s (already exists)\n", name)
	}
	fmt.Println("\nEdit cv.yaml, then run 'resumake build'.")
	return nil
}
