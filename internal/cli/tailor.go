package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/tabwriter"

	"resumake/internal/ai"
	"resumake/internal/common"
	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/types"

	"github.com/spf13/cobra"
)

var tailorFlags struct {
	job   string
	out   string
	batch string
}

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor the CV for a specific job description",
	Long: `Tailor reorders and rephrases the CV to foreground the content
most relevant to a job description. Nothing is invented; only emphasis
and wording change. The job description is read from a file or fetched
from an http(s) URL. With --batch, every .txt and .md file in a
directory is treated as a job description and a tailored CV is written
for each.`,
	RunE: runTailor,
}

func init() {
	tailorCmd.Flags().StringVarP(&tailorFlags.job, "job", "j", "", "Job description file or URL")
	tailorCmd.Flags().StringVar(&tailorFlags.out, "out", "", "Output file (default: cv_tailored.yaml in the output dir)")
	tailorCmd.Flags().StringVar(&tailorFlags.batch, "batch", "", "Directory of job description files to tailor against")
	tailorCmd.MarkFlagsMutuallyExclusive("job", "batch")
	tailorCmd.MarkFlagsOneRequired("job", "batch")
}

func runTailor(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	srcYAML, err := os.ReadFile(cfg.App.Source)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", cfg.App.Source, err)
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

	if tailorFlags.batch != "" {
		return runTailorBatch(cmd.Context(), provider, logger, cfg.App.OutputDir, string(srcYAML))
	}

	job, err := common.LoadJobDescription(cmd.Context(), tailorFlags.job, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting CV tailoring",
		"cv_chars", len(srcYAML),
		"job_chars", len(job))

	tailored, usage, err := tailorOne(cmd.Context(), provider, string(srcYAML), job)
	if err != nil {
		return err
	}
	logTokenUsage(logger, usage)

	outPath := tailorFlags.out
	if outPath == "" {
		outPath = filepath.Join(cfg.App.OutputDir, "cv_tailored.yaml")
	}
	if err := writeArtifact(outPath, []byte(tailored)); err != nil {
		return err
	}
	fmt.Printf("Tailored CV written to %s\n", outPath)
	return nil
}

// tailorOne runs one tailor operation and verifies the result is still a
// valid CV document.
func tailorOne(ctx context.Context, provider ai.Provider, cvYAML, job string) (string, *types.TokenUsage, error) {
	tailored, usage, err := provider.Tailor(ctx, types.TailorInput{
		CVYAML:         cvYAML,
		JobDescription: job,
	})
	if err != nil {
		return "", usage, err
	}

	if _, err := cv.Parse([]byte(tailored)); err != nil {
		return "", usage, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"provider returned an invalid CV document", err)
	}
	return tailored, usage, nil
}

// runTailorBatch tailors the CV against every job description in a
// directory and prints a summary table.
func runTailorBatch(ctx context.Context, provider ai.Provider, logger *errors.Logger, outputDir, cvYAML string) error {
	entries, err := os.ReadDir(tailorFlags.batch)
	if err != nil {
		return fmt.Errorf("cannot read batch directory %s: %w", tailorFlags.batch, err)
	}

	type row struct {
		job    string
		output string
		status string
	}
	var rows []row

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		jobPath := filepath.Join(tailorFlags.batch, entry.Name())
		job, err := common.LoadJobDescription(ctx, jobPath, logger)
		if err != nil {
			rows = append(rows, row{job: entry.Name(), status: "read failed: " + err.Error()})
			continue
		}

		tailored, usage, err := tailorOne(ctx, provider, cvYAML, job)
		if err != nil {
			logger.LogError(err, "Tailoring failed", "job", entry.Name())
			rows = append(rows, row{job: entry.Name(), status: "failed"})
			continue
		}
		logTokenUsage(logger, usage)

		outName := fmt.Sprintf("cv_tailored_%s.yaml", jobSlug(entry.Name()))
		outPath := filepath.Join(outputDir, outName)
		if err := writeArtifact(outPath, []byte(tailored)); err != nil {
			rows = append(rows, row{job: entry.Name(), status: "write failed: " + err.Error()})
			continue
		}
		rows = append(rows, row{job: entry.Name(), output: outName, status: "ok"})
	}

	if len(rows) == 0 {
		return fmt.Errorf("no .txt or .md job descriptions found in %s", tailorFlags.batch)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tOUTPUT\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.job, r.output, r.status)
	}
	return w.Flush()
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// jobSlug derives a filename-safe slug from a job description filename.
func jobSlug(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	slug := slugPattern.ReplaceAllString(strings.ToLower(base), "_")
	return strings.Trim(slug, "_")
}
