package cli

import (
	"fmt"
	"path/filepath"

	"resumake/internal/ai"
	"resumake/internal/common"
	"resumake/internal/cv"
	"resumake/internal/letter"
	"resumake/internal/theme"

	"github.com/spf13/cobra"
)

var coverLetterFlags struct {
	job     string
	company string
}

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Draft a cover letter for a job description",
	Long: `Cover-letter drafts a letter connecting the CV to a job
description. The letter is written as YAML (recipient, subject, opening,
body, closing) for editing, and rendered as a styled DOCX alongside it.`,
	RunE: runCoverLetter,
}

func init() {
	coverLetterCmd.Flags().StringVarP(&coverLetterFlags.job, "job", "j", "", "Job description file or URL (required)")
	coverLetterCmd.Flags().StringVar(&coverLetterFlags.company, "company", "", "Addressee company name")
	_ = coverLetterCmd.MarkFlagRequired("job")
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	doc, err := cv.Load(cfg.App.Source)
	if err != nil {
		return err
	}

	job, err := common.LoadJobDescription(cmd.Context(), coverLetterFlags.job, logger)
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

	writer := letter.New(provider, logger)
	draft, usage, err := writer.Draft(cmd.Context(), doc, job, coverLetterFlags.company)
	if err != nil {
		return err
	}
	logTokenUsage(logger, usage)

	yamlPath := filepath.Join(cfg.App.OutputDir, "cover_letter.yaml")
	if err := letter.SaveYAML(draft, yamlPath); err != nil {
		return err
	}
	fmt.Printf("Letter YAML written to %s\n", yamlPath)

	th, err := theme.Resolve(cfg.App.Theme)
	if err != nil {
		return err
	}
	data, err := letter.Render(doc, draft, th, cfg.App.Lang)
	if err != nil {
		return err
	}

	docxPath := filepath.Join(cfg.App.OutputDir, letter.Filename(doc, cfg.App.Lang))
	if err := writeArtifact(docxPath, data); err != nil {
		return err
	}
	logger.Info("Cover letter built", "path", docxPath, "recipient", draft.Recipient)
	fmt.Printf("Built %s (%d bytes)\n", docxPath, len(data))
	return nil
}
