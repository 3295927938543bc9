package cli

import (
	"fmt"
	"os"
	"strings"

	"resumake/internal/assets"
	"resumake/internal/cv"
	"resumake/internal/export"
	"resumake/internal/theme"

	"github.com/spf13/cobra"
)

var exportFlags struct {
	format string
	output string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the CV in a plain format",
	Long: `Export renders the CV into one of the plain formats: html,
markdown, json, ats (plain text for applicant tracking systems) or
jsonresume. The result goes to stdout unless -o is given.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "markdown", "Output format")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "Output file path (default: stdout)")

	_ = exportCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return export.DefaultRegistry.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	doc, err := cv.Load(cfg.App.Source)
	if err != nil {
		return err
	}

	th, err := theme.Resolve(cfg.App.Theme)
	if err != nil {
		return err
	}

	exporter, err := export.DefaultRegistry.Lookup(exportFlags.format)
	if err != nil {
		return fmt.Errorf("%w (supported: %s)", err, strings.Join(export.DefaultRegistry.Formats(), ", "))
	}

	data, warnings, err := exporter.Export(doc, export.Options{
		Theme:  th,
		Lang:   cfg.App.Lang,
		Assets: assets.NewResolver(cfg.App.AssetsDir),
	})
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		logger.LogWarning(warning)
	}

	if exportFlags.output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := writeArtifact(exportFlags.output, data); err != nil {
		return err
	}
	logger.Info("Export written", "path", exportFlags.output, "format", exportFlags.format)
	fmt.Printf("Exported %s (%d bytes)\n", exportFlags.output, len(data))
	return nil
}
