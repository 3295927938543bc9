package cli

import (
	"fmt"
	"os"

	"resumake/internal/ai"
	"resumake/internal/cv"
	"resumake/internal/jsonresume"
	"resumake/internal/linkedin"

	"github.com/spf13/cobra"
)

var importFlags struct {
	from   string
	output string
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a CV from another format",
	Long: `Import converts an external CV into the source YAML format.
Supported inputs are JSON Resume documents (schema-validated) and
LinkedIn profile exports as plain text, which are structured with the
configured LLM provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFlags.from, "from", "jsonresume", "Input format: jsonresume or linkedin")
	importCmd.Flags().StringVarP(&importFlags.output, "output", "o", "cv.yaml", "Output file path")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}

	var doc *cv.Document
	switch importFlags.from {
	case "jsonresume":
		doc, err = jsonresume.Parse(data)
		if err != nil {
			return err
		}
	case "linkedin":
		provider, err := ai.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := provider.Close(); err != nil {
				logger.Debug("Provider close failed", "error", err.Error())
			}
		}()

		imported, tokenUsage, err := linkedin.Import(cmd.Context(), provider, string(data))
		if err != nil {
			return err
		}
		logTokenUsage(logger, tokenUsage)
		doc = imported
	default:
		return fmt.Errorf("unsupported import format %q (jsonresume or linkedin)", importFlags.from)
	}

	yamlData, err := cv.ToYAML(doc)
	if err != nil {
		return err
	}
	if err := writeArtifact(importFlags.output, yamlData); err != nil {
		return err
	}

	logger.Info("CV imported", "from", importFlags.from, "path", importFlags.output)
	fmt.Printf("Imported CV written to %s\n", importFlags.output)
	return nil
}
