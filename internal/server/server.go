// Package server implements the local web editor: a JSON API over the CV
// document, themed previews with live reload, and the AI operations,
// served to an embedded single-page UI.
package server

import (
	"net/http"

	"resumake/internal/ai"
	"resumake/internal/assets"
	"resumake/internal/common"
	"resumake/internal/config"
	resumakeErrors "resumake/internal/errors"
	"resumake/internal/observability"
)

// ErrorResponse is the JSON error envelope for every API endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration and shared state for the editor server.
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// LLM provider; nil when no API key is configured. Document
	// endpoints work without it, AI endpoints return 503.
	Provider ai.Provider

	// API Authentication. Empty map means open access.
	APIKeys map[string]bool

	// Request size limit in bytes, 0 disables the limit.
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	// Logger
	Logger *resumakeErrors.Logger

	assets  *assets.Resolver
	hub     *sseHub
	obs     *observability.ObservabilityManager
	metrics *observability.Metrics
	watcher *common.FileWatcher
}

// NewServer creates a Server from the loaded configuration.
func NewServer(cfg *config.Config, version string, provider ai.Provider, logger *resumakeErrors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.Server.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *LimiterManager
	if cfg.Server.RateLimit.Enabled {
		rateLimiter = NewLimiterManager(
			cfg.Server.RateLimit.RequestsPerMin,
			cfg.Server.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		AppConfig:      cfg,
		Provider:       provider,
		APIKeys:        apiKeyMap,
		MaxRequestSize: cfg.Server.MaxBodyBytes,
		RateLimit:      &cfg.Server.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		assets:         assets.NewResolver(cfg.App.AssetsDir),
		hub:            newSSEHub(),
	}
}

// sourcePath is the CV file the editor reads and writes.
func (s *Server) sourcePath() string { return s.AppConfig.App.Source }

// outputDir holds generated artifacts served by /api/download.
func (s *Server) outputDir() string { return s.AppConfig.App.OutputDir }

// providerName reports the active LLM provider for the status endpoint.
func (s *Server) providerName() string {
	if s.Provider == nil {
		return "none"
	}
	return s.Provider.Name()
}

// requireProvider writes a 503 when no LLM provider is configured.
func (s *Server) requireProvider(w http.ResponseWriter) bool {
	if s.Provider == nil {
		writeErrorResponse(w, "No LLM provider configured",
			"Set ANTHROPIC_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY and restart", http.StatusServiceUnavailable)
		return false
	}
	return true
}
