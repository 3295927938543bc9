package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resumake/internal/ai"
	"resumake/internal/assets"
	"resumake/internal/common"
	"resumake/internal/config"
	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/pdf"
	"resumake/internal/render"
	"resumake/internal/theme"
	"resumake/internal/translate"
	"resumake/internal/types"
	"resumake/internal/utils"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the CV as a DOCX document",
	Long: `Build reads the CV source YAML, applies the selected theme and
language, and writes a native DOCX document into the output directory.
With --pdf a PDF is produced as well via a headless Chromium render of
the themed HTML. With --watch the document is rebuilt whenever the
source file changes.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("theme", "t", "", "Theme name or theme file path (default from config)")
	buildCmd.Flags().StringP("lang", "l", "", "Output language code, translated via LLM when not \"en\"")
	buildCmd.Flags().Bool("pdf", false, "Also produce a PDF")
	buildCmd.Flags().BoolP("watch", "w", false, "Rebuild whenever the CV source changes")
	buildCmd.Flags().Bool("open", false, "Open the generated document")
}

// applyBuildFlags overrides the loaded config with explicitly set flags.
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if v, err := flags.GetString("theme"); err == nil && flags.Changed("theme") {
		cfg.App.Theme = v
	}
	if v, err := flags.GetString("lang"); err == nil && flags.Changed("lang") {
		cfg.App.Lang = v
	}
	if v, err := flags.GetBool("pdf"); err == nil && flags.Changed("pdf") {
		cfg.App.PDF = v
	}
	if v, err := flags.GetBool("watch"); err == nil && flags.Changed("watch") {
		cfg.App.Watch = v
	}
	if v, err := flags.GetBool("open"); err == nil && flags.Changed("open") {
		cfg.App.Open = v
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	applyBuildFlags(cmd, cfg)

	if err := buildOnce(cmd.Context(), cfg, logger); err != nil {
		if !cfg.App.Watch {
			return err
		}
		// In watch mode a broken build is reported and retried on the
		// next change.
		logger.LogError(err, "Build failed")
	}

	if !cfg.App.Watch {
		return nil
	}
	return watchAndRebuild(cmd.Context(), cfg, logger)
}

// buildOnce runs the full pipeline: parse, translate, render, write.
func buildOnce(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	doc, err := cv.Load(cfg.App.Source)
	if err != nil {
		return err
	}

	th, err := theme.Resolve(cfg.App.Theme)
	if err != nil {
		return err
	}

	doc, err = translateForBuild(ctx, cfg, logger, doc)
	if err != nil {
		return err
	}

	resolver := assets.NewResolver(cfg.App.AssetsDir)
	opts := render.Options{Lang: cfg.App.Lang, Assets: resolver}

	data, warnings, err := render.BuildDocx(doc, th, opts)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		logger.LogWarning(warning)
	}

	outPath := filepath.Join(cfg.App.OutputDir, docxFilename(doc, cfg.App.Lang))
	if err := writeArtifact(outPath, data); err != nil {
		return err
	}
	logger.Info("Document built", "path", outPath, "theme", th.Name, "lang", cfg.App.Lang)
	fmt.Printf("Built %s (%d bytes)\n", outPath, len(data))

	if cfg.App.PDF {
		if err := buildPDF(ctx, cfg, logger, doc, th, opts, outPath); err != nil {
			return err
		}
	}

	if cfg.App.Open {
		if err := utils.OpenFile(outPath); err != nil {
			logger.LogError(err, "Failed to open document")
		}
	}
	return nil
}

// translateForBuild translates the document when a non-English language
// is configured. Without a provider the translation cache still serves.
func translateForBuild(ctx context.Context, cfg *config.Config, logger *errors.Logger, doc *cv.Document) (*cv.Document, error) {
	if cfg.App.Lang == "" || strings.EqualFold(cfg.App.Lang, "en") {
		return doc, nil
	}

	var provider translate.Provider
	if p, err := ai.New(ctx, cfg, logger); err == nil {
		provider = p
		defer func() {
			if err := p.Close(); err != nil {
				logger.Debug("Provider close failed", "error", err.Error())
			}
		}()
	} else {
		logger.Debug("No LLM provider, relying on translation cache", "error", err.Error())
	}

	translator := translate.New(provider, cfg.App.OutputDir, logger)
	translated, usage, err := translator.Translate(ctx, doc, cfg.App.Lang, false)
	if err != nil {
		return nil, err
	}
	logTokenUsage(logger, usage)
	return translated, nil
}

// buildPDF renders themed HTML and prints it to PDF next to the DOCX.
func buildPDF(ctx context.Context, cfg *config.Config, logger *errors.Logger, doc *cv.Document, th *theme.Theme, opts render.Options, docxPath string) error {
	engine, err := pdf.New(cfg.App.PDFEngine)
	if err != nil {
		return err
	}
	if engine == nil {
		logger.Info("PDF engine disabled, skipping PDF")
		return nil
	}

	html, warnings, err := render.BuildHTML(doc, th, opts)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		logger.LogWarning(warning)
	}

	data, err := engine.Render(ctx, string(html))
	if err != nil {
		return err
	}

	pdfPath := strings.TrimSuffix(docxPath, filepath.Ext(docxPath)) + ".pdf"
	if err := writeArtifact(pdfPath, data); err != nil {
		return err
	}
	logger.Info("PDF built", "path", pdfPath)
	fmt.Printf("Built %s (%d bytes)\n", pdfPath, len(data))
	return nil
}

// watchAndRebuild reruns the build on every source change until the
// context is cancelled.
func watchAndRebuild(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	rebuild := func(path string) {
		logger.Info("Source changed, rebuilding", "path", path)
		if err := buildOnce(ctx, cfg, logger); err != nil {
			logger.LogError(err, "Rebuild failed")
		}
	}

	watcher, err := common.NewFileWatcher([]string{cfg.App.Source}, 300*time.Millisecond, rebuild, logger)
	if err != nil {
		return err
	}
	watcher.Start(ctx)
	defer func() {
		if err := watcher.Stop(); err != nil {
			logger.LogError(err, "Failed to stop watcher")
		}
	}()

	fmt.Printf("Watching %s for changes, Ctrl-C to stop\n", cfg.App.Source)
	<-ctx.Done()
	return nil
}

// writeArtifact writes a generated file, creating the output directory.
func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot create output directory %s", filepath.Dir(path)), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot write %s", path), err)
	}
	return nil
}

// docxFilename names the artifact after the CV owner and language.
func docxFilename(doc *cv.Document, lang string) string {
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf("%s_CV_%s.docx", doc.Slug(), strings.ToUpper(lang))
}

// logTokenUsage reports LLM token consumption at info level.
func logTokenUsage(logger *errors.Logger, usage *types.TokenUsage) {
	if usage != nil {
		logger.Info("AI token usage",
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens)
	}
}
