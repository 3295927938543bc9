// Package config loads resumake configuration from defaults, an optional
// .resumake.yaml file and RESUMAKE_* environment variables, in that order of
// increasing precedence. AI API keys additionally resolve from Vault (when
// enabled) and from the conventional per-provider environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`

	vaultAIKeys map[string]string // provider -> key, set by ApplyVaultSecrets
}

// AppConfig holds the CLI-facing defaults. Command flags override these at
// resolution time (flag > config > built-in default).
type AppConfig struct {
	Source    string `mapstructure:"source"`    // CV source YAML path
	OutputDir string `mapstructure:"outputDir"` // generated artifacts
	AssetsDir string `mapstructure:"assetsDir"` // user asset search root
	Theme     string `mapstructure:"theme"`     // builtin name or theme file path
	Lang      string `mapstructure:"lang"`      // output language code
	PDF       bool   `mapstructure:"pdf"`       // also produce a PDF
	PDFEngine string `mapstructure:"pdfEngine"` // "chromium" or "none"
	Open      bool   `mapstructure:"open"`      // open generated files
	Watch     bool   `mapstructure:"watch"`     // rebuild on source change
	LogLevel  string `mapstructure:"logLevel"`
}

// AIConfig holds LLM provider configuration. Provider selection order:
// explicit provider setting, then the first of ANTHROPIC_API_KEY,
// OPENAI_API_KEY, GEMINI_API_KEY present in the environment.
type AIConfig struct {
	Provider       string               `mapstructure:"provider"` // "", "auto", "anthropic", "openai", "gemini"
	Model          string               `mapstructure:"model"`    // empty selects the provider default
	APIKey         string               `mapstructure:"apiKey"`
	BaseURL        string               `mapstructure:"baseURL"` // OpenAI-compatible endpoint override
	Timeout        time.Duration        `mapstructure:"timeout"`
	MaxRetries     int                  `mapstructure:"maxRetries"`
	Temperature    float32              `mapstructure:"temperature"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
	Prompts        PromptOverrides      `mapstructure:"prompts"`
}

// CircuitBreakerConfig represents circuit breaker configuration.
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds web editor server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
	MaxBodyBytes int64         `mapstructure:"maxBodyBytes"`

	// API Authentication. Empty means open access (localhost editing).
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	TLS       TLSConfig       `mapstructure:"tls"`
}

// TLSConfig holds TLS configuration for non-local exposure of the editor.
type TLSConfig struct {
	Mode       string `mapstructure:"mode"`     // "disabled" or "server"
	CertFile   string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile    string `mapstructure:"keyFile"`  // Server private key file (PEM)
	MinVersion string `mapstructure:"minVersion"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"` // key per API key instead of per IP
	Window         time.Duration `mapstructure:"window"`
}

// ObservabilityConfig holds tracing/metrics configuration (serve mode).
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	Console         ConsoleConfig     `mapstructure:"console"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console exporter configuration.
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds the Prometheus sidecar configuration.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration.
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration.
type HealthCheckConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	AICheckLimit time.Duration `mapstructure:"aiCheckLimit"`
}

// LoadConfig loads configuration from defaults, .resumake.yaml and the
// environment. The config file is optional; its absence is not an error.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(".resumake")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "resumake"))
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()

	if err := config.loadPromptFiles(); err != nil {
		return nil, fmt.Errorf("failed to load prompt overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyFallbacks fills values that have environment conventions outside the
// RESUMAKE_ prefix.
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyOpenAIEnvFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks reads editor API keys from the environment when
// the config file carries none.
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) > 0 {
		return
	}
	apiKeysEnv := os.Getenv("RESUMAKE_SERVER_APIKEYS")
	if apiKeysEnv == "" {
		return
	}
	c.Server.APIKeys = strings.Split(apiKeysEnv, ",")
	for i, key := range c.Server.APIKeys {
		c.Server.APIKeys[i] = strings.TrimSpace(key)
	}
}

// applyOpenAIEnvFallbacks honors the conventional OpenAI-compatible endpoint
// variables so self-hosted gateways work without a config file.
func (c *Config) applyOpenAIEnvFallbacks() {
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if c.AI.Model == "" && c.ResolveAIProvider() == ProviderOpenAI {
		c.AI.Model = os.Getenv("OPENAI_MODEL")
	}
}

// applyTLSDefaults applies default TLS configuration values.
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != TLSModeDisabled {
		c.Server.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability values.
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID.
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// AI provider names. The empty string means "no provider configured".
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// providerKeyEnv maps providers to their conventional API key variables, in
// auto-detection order.
var providerKeyEnv = []struct {
	Name string
	Env  string
}{
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderGemini, "GEMINI_API_KEY"},
}

// ResolveAIProvider returns the provider to use: the explicit setting when
// present, otherwise the first provider with an API key in the environment
// or in Vault-applied secrets. Returns "" when no provider is available.
func (c *Config) ResolveAIProvider() string {
	if c.AI.Provider != "" && c.AI.Provider != "auto" {
		return c.AI.Provider
	}
	for _, p := range providerKeyEnv {
		if os.Getenv(p.Env) != "" || c.vaultAIKeys[p.Name] != "" {
			return p.Name
		}
	}
	return ""
}

// AIAPIKey returns the API key for the given provider: file-configured key
// first, then Vault-applied secrets, then the provider's environment
// variable.
func (c *Config) AIAPIKey(provider string) string {
	if c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	if key := c.vaultAIKeys[provider]; key != "" {
		return key
	}
	for _, p := range providerKeyEnv {
		if p.Name == provider {
			return os.Getenv(p.Env)
		}
	}
	return ""
}

// Valid log levels.
var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks if the configuration is valid. AI API keys are not
// required here: document commands work without a provider, and AI commands
// report the missing key with guidance when invoked.
func (c *Config) Validate() error {
	if !validLogLevels[c.App.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", c.App.LogLevel)
	}
	if c.App.Source == "" {
		return fmt.Errorf("source path is required")
	}
	if c.App.Lang == "" {
		return fmt.Errorf("language code is required")
	}
	switch c.App.PDFEngine {
	case "chromium", "none":
	default:
		return fmt.Errorf("invalid pdf engine: %s (must be 'chromium' or 'none')", c.App.PDFEngine)
	}

	switch c.AI.Provider {
	case "", "auto", ProviderAnthropic, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("invalid AI provider: %s (must be 'anthropic', 'openai', 'gemini', or 'auto')", c.AI.Provider)
	}
	if c.AI.APIKey != "" && (c.AI.Provider == "" || c.AI.Provider == "auto") {
		return fmt.Errorf("ai.apiKey is set but ai.provider is not; name the provider the key belongs to")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("AI maxRetries must not be negative")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI temperature must be between 0 and 2")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RequestsPerMin <= 0 {
			return fmt.Errorf("rate limit requestsPerMin must be positive when enabled")
		}
		if c.Server.RateLimit.BurstCapacity <= 0 {
			return fmt.Errorf("rate limit burstCapacity must be positive when enabled")
		}
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}
