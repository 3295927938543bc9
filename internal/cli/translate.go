package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"resumake/internal/ai"
	"resumake/internal/cv"
	"resumake/internal/translate"

	"github.com/spf13/cobra"
)

var translateFlags struct {
	lang    string
	noCache bool
	output  string
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate the CV into another language",
	Long: `Translate uses the configured LLM provider to translate the
free-text fields of the CV while leaving keys, names, technical terms,
URLs and dates untouched. Results are cached by content hash; repeated
runs with an unchanged source skip the provider. Without a provider a
previous cached translation still serves.`,
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringVarP(&translateFlags.lang, "lang", "l", "", "Target language code (required)")
	translateCmd.Flags().BoolVar(&translateFlags.noCache, "no-cache", false, "Ignore the cache and translate afresh")
	translateCmd.Flags().StringVarP(&translateFlags.output, "output", "o", "", "Output file path (default: output dir)")
	_ = translateCmd.MarkFlagRequired("lang")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	doc, err := cv.Load(cfg.App.Source)
	if err != nil {
		return err
	}

	var provider translate.Provider
	if p, err := ai.New(cmd.Context(), cfg, logger); err == nil {
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
	translated, usage, err := translator.Translate(cmd.Context(), doc, translateFlags.lang, translateFlags.noCache)
	if err != nil {
		return err
	}
	logTokenUsage(logger, usage)

	data, err := cv.ToYAML(translated)
	if err != nil {
		return err
	}

	outPath := translateFlags.output
	if outPath == "" {
		outPath = filepath.Join(cfg.App.OutputDir,
			fmt.Sprintf("cv_%s.yaml", strings.ToLower(translateFlags.lang)))
	}
	if err := writeArtifact(outPath, data); err != nil {
		return err
	}

	logger.Info("Translation written", "path", outPath, "lang", translateFlags.lang)
	fmt.Printf("Translated CV written to %s\n", outPath)
	return nil
}
