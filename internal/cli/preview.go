package cli

import (
	"fmt"
	"path/filepath"

	"resumake/internal/assets"
	"resumake/internal/cv"
	"resumake/internal/render"
	"resumake/internal/server"
	"resumake/internal/theme"
	"resumake/internal/utils"

	"github.com/spf13/cobra"
)

var previewLive bool

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the CV as themed HTML and open it",
	Long: `Preview renders the CV as themed HTML into the output directory
and opens it in the default browser. With --live the HTML is served over
HTTP instead and reloads automatically when the source changes.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewLive, "live", false, "Serve the preview with live reload")
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if previewLive {
		srv := server.NewServer(cfg, Version, nil, logger)
		fmt.Printf("Live preview at http://%s:%s/api/preview\n", cfg.Server.Host, cfg.Server.Port)
		return srv.Start()
	}

	doc, err := cv.Load(cfg.App.Source)
	if err != nil {
		return err
	}
	th, err := theme.Resolve(cfg.App.Theme)
	if err != nil {
		return err
	}

	html, warnings, err := render.BuildHTML(doc, th, render.Options{
		Lang:   cfg.App.Lang,
		Assets: assets.NewResolver(cfg.App.AssetsDir),
	})
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		logger.LogWarning(warning)
	}

	outPath := filepath.Join(cfg.App.OutputDir, doc.Slug()+"_preview.html")
	if err := writeArtifact(outPath, html); err != nil {
		return err
	}
	fmt.Printf("Preview written to %s\n", outPath)

	if err := utils.OpenFile(outPath); err != nil {
		logger.LogError(err, "Failed to open preview")
	}
	return nil
}
