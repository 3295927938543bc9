package cli

import (
	"context"
	"fmt"

	"resumake/internal/ai"
	"resumake/internal/common"
	"resumake/internal/types"

	"github.com/spf13/cobra"
)

var suggestConfig common.CommandConfig

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Review the CV and propose improvements",
	Long: `Suggest reviews the CV with the configured LLM provider and
reports concrete text improvements: per-passage rewrites with reasons,
plus general advice.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	suggestCmd.Flags().StringVar(&suggestConfig.OutputFormat, "format", "text", "Output format: json, text, or markdown")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	provider, err := ai.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Close(); err != nil {
			logger.Debug("Provider close failed", "error", err.Error())
		}
	}()

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(input string, cmdCfg common.CommandConfig) {
		logger.Info("Starting CV review",
			"cv_chars", len(input),
			"output_format", cmdCfg.OutputFormat)
	}

	operation := func(ctx context.Context, cvYAML string) (types.SuggestReport, *types.TokenUsage, error) {
		return provider.Suggest(ctx, cvYAML)
	}

	return common.RunAICommand(
		cmd.Context(),
		logger,
		suggestConfig,
		[]string{cfg.App.Source},
		createInput,
		operation,
		logDetails,
	)
}
