package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values. Registering a key also
// makes it visible to AutomaticEnv.
func setDefaults(v *viper.Viper) {
	// App Configuration
	v.SetDefault("app.source", "cv.yaml")
	v.SetDefault("app.outputDir", "output")
	v.SetDefault("app.assetsDir", "assets")
	v.SetDefault("app.theme", "")
	v.SetDefault("app.lang", "en")
	v.SetDefault("app.pdf", false)
	v.SetDefault("app.pdfEngine", "chromium")
	v.SetDefault("app.open", false)
	v.SetDefault("app.watch", false)
	v.SetDefault("app.logLevel", "info")

	// AI Configuration
	v.SetDefault("ai.provider", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.baseURL", "")
	v.SetDefault("ai.timeout", 120*time.Second)
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.3) // Low temperature for consistency

	// Circuit Breaker Configuration
	v.SetDefault("ai.circuitBreaker.enabled", true)
	v.SetDefault("ai.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("ai.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.circuitBreaker.failureThreshold", 0.6)

	// Prompt overrides (empty selects the builtin prompt)
	for _, op := range []string{"translate", "tailor", "coverLetter", "suggest", "ats", "bio", "linkedin"} {
		v.SetDefault("ai.prompts."+op+".text", "")
		v.SetDefault("ai.prompts."+op+".file", "")
	}

	// Server Configuration. Loopback host: the editor is a local tool.
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8642")
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 0) // SSE streams stay open indefinitely
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxBodyBytes", int64(5*1024*1024))

	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})

	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", true)
	v.SetDefault("server.rateLimit.requestsPerMin", 120)
	v.SetDefault("server.rateLimit.burstCapacity", 30)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", TLSModeDisabled) // disabled, server
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.minVersion", "")

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.aiKeys", "")
	v.SetDefault("vault.secrets.serverKeys", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "resumake")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9464")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiCheckLimit", 10*time.Second)
}
