package cli

import (
	stderrors "errors"
	"fmt"

	"resumake/internal/ai"
	"resumake/internal/config"
	"resumake/internal/errors"
	"resumake/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web editor",
	Long: `Serve starts a local web editor for the CV: a browser UI with a
YAML editor, themed live preview, DOCX builds, exports and the AI
operations. The editor binds to localhost by default; configure TLS and
API keys before exposing it further.

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled or server
- Use --cert-file and --key-file for TLS certificates`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
}

// applyServeFlags overrides the loaded config with explicitly set flags.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if v, err := flags.GetString("port"); err == nil && flags.Changed("port") {
		cfg.Server.Port = v
	}
	if v, err := flags.GetString("host"); err == nil && flags.Changed("host") {
		cfg.Server.Host = v
	}
	if v, err := flags.GetString("tls-mode"); err == nil && flags.Changed("tls-mode") {
		cfg.Server.TLS.Mode = v
	}
	if v, err := flags.GetString("cert-file"); err == nil && flags.Changed("cert-file") {
		cfg.Server.TLS.CertFile = v
	}
	if v, err := flags.GetString("key-file"); err == nil && flags.Changed("key-file") {
		cfg.Server.TLS.KeyFile = v
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	applyServeFlags(cmd, cfg)

	// Validate TLS configuration after applying overrides
	tempConfig := &config.Config{Server: cfg.Server}
	if err := tempConfig.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	// The editor works without a provider; AI endpoints answer 503.
	provider, err := ai.New(cmd.Context(), cfg, logger)
	if err != nil {
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeMissingAPIKey {
			return err
		}
		logger.Info("No LLM provider configured, AI endpoints disabled")
		provider = nil
	} else {
		defer func() {
			if err := provider.Close(); err != nil {
				logger.Debug("Provider close failed", "error", err.Error())
			}
		}()
	}

	return server.NewServer(cfg, Version, provider, logger).Start()
}
