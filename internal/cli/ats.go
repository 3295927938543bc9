package cli

import (
	"context"
	"fmt"

	"resumake/internal/ai"
	"resumake/internal/common"
	"resumake/internal/types"

	"github.com/spf13/cobra"
)

var atsConfig common.CommandConfig
var atsJob string

var atsCmd = &cobra.Command{
	Use:   "ats",
	Short: "Score the CV against a job description",
	Long: `Ats scores keyword coverage of the CV against a job description
the way an applicant tracking system would: a 0-100 score, matched and
missing keywords, and phrasing suggestions for the gaps.`,
	RunE: runATS,
}

func init() {
	atsCmd.Flags().StringVarP(&atsJob, "job", "j", "", "Job description file or URL (required)")
	atsCmd.Flags().StringVarP(&atsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	atsCmd.Flags().StringVar(&atsConfig.OutputFormat, "format", "text", "Output format: json, text, or markdown")
	_ = atsCmd.MarkFlagRequired("job")
}

func runATS(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	job, err := common.LoadJobDescription(cmd.Context(), atsJob, logger)
	if err != nil {
		return err
	}

	provider, err := ai.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Close(); err != nil {
			logger.Debug("Provider close failed", "error", err.Error())
		}
	}()

	createInput := func(contents []string) (types.ATSInput, error) {
		if len(contents) != 1 {
			return types.ATSInput{}, fmt.Errorf("expected 1 file, got %d", len(contents))
		}
		return types.ATSInput{
			CVYAML:         contents[0],
			JobDescription: job,
		}, nil
	}

	logDetails := func(input types.ATSInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting ATS scoring",
			"cv_chars", len(input.CVYAML),
			"job_chars", len(input.JobDescription),
			"output_format", cmdCfg.OutputFormat)
	}

	operation := func(ctx context.Context, input types.ATSInput) (types.ATSReport, *types.TokenUsage, error) {
		return provider.ScoreATS(ctx, input)
	}

	return common.RunAICommand(
		cmd.Context(),
		logger,
		atsConfig,
		[]string{cfg.App.Source},
		createInput,
		operation,
		logDetails,
	)
}
