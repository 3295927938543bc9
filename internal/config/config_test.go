package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearProviderEnv blanks every provider key variable so detection tests
// start from a known state.
func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "RESUMAKE_SERVER_APIKEYS"} {
		t.Setenv(env, "")
	}
}

// isolateConfigFiles points the working directory and HOME at empty temp
// dirs so no real .resumake.yaml leaks into the test.
func isolateConfigFiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	clearProviderEnv(t)
	isolateConfigFiles(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.App.Source != "cv.yaml" {
		t.Errorf("App.Source = %q, want %q", cfg.App.Source, "cv.yaml")
	}
	if cfg.App.OutputDir != "output" {
		t.Errorf("App.OutputDir = %q, want %q", cfg.App.OutputDir, "output")
	}
	if cfg.App.Lang != "en" {
		t.Errorf("App.Lang = %q, want %q", cfg.App.Lang, "en")
	}
	if cfg.App.PDFEngine != "chromium" {
		t.Errorf("App.PDFEngine = %q, want %q", cfg.App.PDFEngine, "chromium")
	}
	if cfg.AI.Timeout != 120*time.Second {
		t.Errorf("AI.Timeout = %v, want %v", cfg.AI.Timeout, 120*time.Second)
	}
	if !cfg.AI.CircuitBreaker.Enabled {
		t.Error("AI.CircuitBreaker.Enabled = false, want true")
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != "8642" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8642")
	}
	if cfg.Server.TLS.Mode != TLSModeDisabled {
		t.Errorf("Server.TLS.Mode = %q, want %q", cfg.Server.TLS.Mode, TLSModeDisabled)
	}
	if cfg.Vault.Enabled {
		t.Error("Vault.Enabled = true, want false")
	}
	if cfg.Observability.Enabled {
		t.Error("Observability.Enabled = true, want false")
	}
	if cfg.Observability.ServiceInstance == "" {
		t.Error("Observability.ServiceInstance should be auto-generated")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearProviderEnv(t)
	dir := isolateConfigFiles(t)

	content := `app:
  theme: modern
  lang: de
  pdf: true
ai:
  provider: anthropic
  temperature: 0.5
server:
  port: "9000"
`
	if err := os.WriteFile(filepath.Join(dir, ".resumake.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.App.Theme != "modern" {
		t.Errorf("App.Theme = %q, want %q", cfg.App.Theme, "modern")
	}
	if cfg.App.Lang != "de" {
		t.Errorf("App.Lang = %q, want %q", cfg.App.Lang, "de")
	}
	if !cfg.App.PDF {
		t.Error("App.PDF = false, want true")
	}
	if cfg.AI.Provider != ProviderAnthropic {
		t.Errorf("AI.Provider = %q, want %q", cfg.AI.Provider, ProviderAnthropic)
	}
	if cfg.AI.Temperature != 0.5 {
		t.Errorf("AI.Temperature = %v, want 0.5", cfg.AI.Temperature)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "9000")
	}
	// Unset keys keep their defaults.
	if cfg.App.Source != "cv.yaml" {
		t.Errorf("App.Source = %q, want default %q", cfg.App.Source, "cv.yaml")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	clearProviderEnv(t)
	isolateConfigFiles(t)

	t.Setenv("RESUMAKE_APP_LANG", "fr")
	t.Setenv("RESUMAKE_APP_LOGLEVEL", "debug")
	t.Setenv("RESUMAKE_SERVER_PORT", "7777")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.App.Lang != "fr" {
		t.Errorf("App.Lang = %q, want %q", cfg.App.Lang, "fr")
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("App.LogLevel = %q, want %q", cfg.App.LogLevel, "debug")
	}
	if cfg.Server.Port != "7777" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "7777")
	}
}

func TestServerAPIKeysFromEnv(t *testing.T) {
	clearProviderEnv(t)
	isolateConfigFiles(t)

	t.Setenv("RESUMAKE_SERVER_APIKEYS", "key-one, key-two ,key-three")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := []string{"key-one", "key-two", "key-three"}
	if len(cfg.Server.APIKeys) != len(want) {
		t.Fatalf("Server.APIKeys = %v, want %v", cfg.Server.APIKeys, want)
	}
	for i, key := range want {
		if cfg.Server.APIKeys[i] != key {
			t.Errorf("Server.APIKeys[%d] = %q, want %q", i, cfg.Server.APIKeys[i], key)
		}
	}
}

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Source:    "cv.yaml",
			OutputDir: "output",
			AssetsDir: "assets",
			Lang:      "en",
			PDFEngine: "chromium",
			LogLevel:  "info",
		},
		AI: AIConfig{
			Timeout:     60 * time.Second,
			MaxRetries:  3,
			Temperature: 0.3,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8642",
			TLS:  TLSConfig{Mode: TLSModeDisabled},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.App.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "empty source",
			mutate:  func(c *Config) { c.App.Source = "" },
			wantErr: true,
		},
		{
			name:    "empty lang",
			mutate:  func(c *Config) { c.App.Lang = "" },
			wantErr: true,
		},
		{
			name:    "invalid pdf engine",
			mutate:  func(c *Config) { c.App.PDFEngine = "weasyprint" },
			wantErr: true,
		},
		{
			name:    "pdf engine none",
			mutate:  func(c *Config) { c.App.PDFEngine = "none" },
			wantErr: false,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.AI.Provider = "cohere" },
			wantErr: true,
		},
		{
			name:    "auto provider",
			mutate:  func(c *Config) { c.AI.Provider = "auto" },
			wantErr: false,
		},
		{
			name:    "api key without provider",
			mutate:  func(c *Config) { c.AI.APIKey = "sk-test" },
			wantErr: true,
		},
		{
			name: "api key with provider",
			mutate: func(c *Config) {
				c.AI.APIKey = "sk-test"
				c.AI.Provider = ProviderOpenAI
			},
			wantErr: false,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.AI.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.AI.MaxRetries = -1 },
			wantErr: true,
		},
		{
			name:    "temperature too high",
			mutate:  func(c *Config) { c.AI.Temperature = 2.5 },
			wantErr: true,
		},
		{
			name:    "empty server port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name: "rate limit enabled without rate",
			mutate: func(c *Config) {
				c.Server.RateLimit.Enabled = true
				c.Server.RateLimit.RequestsPerMin = 0
			},
			wantErr: true,
		},
		{
			name: "rate limit enabled valid",
			mutate: func(c *Config) {
				c.Server.RateLimit.Enabled = true
				c.Server.RateLimit.RequestsPerMin = 60
				c.Server.RateLimit.BurstCapacity = 10
			},
			wantErr: false,
		},
		{
			name:    "tls server mode without cert",
			mutate:  func(c *Config) { c.Server.TLS.Mode = TLSModeServer },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveAIProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      map[string]string
		vault    map[string]string
		want     string
	}{
		{
			name:     "explicit provider wins",
			provider: ProviderGemini,
			env:      map[string]string{"ANTHROPIC_API_KEY": "a"},
			want:     ProviderGemini,
		},
		{
			name: "anthropic detected first",
			env:  map[string]string{"ANTHROPIC_API_KEY": "a", "OPENAI_API_KEY": "o"},
			want: ProviderAnthropic,
		},
		{
			name: "openai detected second",
			env:  map[string]string{"OPENAI_API_KEY": "o", "GEMINI_API_KEY": "g"},
			want: ProviderOpenAI,
		},
		{
			name: "gemini detected last",
			env:  map[string]string{"GEMINI_API_KEY": "g"},
			want: ProviderGemini,
		},
		{
			name:     "auto behaves like empty",
			provider: "auto",
			env:      map[string]string{"OPENAI_API_KEY": "o"},
			want:     ProviderOpenAI,
		},
		{
			name:  "vault key detected",
			vault: map[string]string{ProviderOpenAI: "vault-key"},
			want:  ProviderOpenAI,
		},
		{
			name: "no provider available",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearProviderEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := validConfig()
			cfg.AI.Provider = tt.provider
			cfg.vaultAIKeys = tt.vault
			if got := cfg.ResolveAIProvider(); got != tt.want {
				t.Errorf("ResolveAIProvider() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAIAPIKey(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "env-openai")

	cfg := validConfig()

	if got := cfg.AIAPIKey(ProviderOpenAI); got != "env-openai" {
		t.Errorf("AIAPIKey(openai) = %q, want env value", got)
	}
	if got := cfg.AIAPIKey(ProviderAnthropic); got != "" {
		t.Errorf("AIAPIKey(anthropic) = %q, want empty", got)
	}

	cfg.vaultAIKeys = map[string]string{ProviderOpenAI: "vault-openai"}
	if got := cfg.AIAPIKey(ProviderOpenAI); got != "vault-openai" {
		t.Errorf("AIAPIKey(openai) = %q, want vault value over env", got)
	}

	cfg.AI.APIKey = "config-key"
	if got := cfg.AIAPIKey(ProviderOpenAI); got != "config-key" {
		t.Errorf("AIAPIKey(openai) = %q, want configured key over vault", got)
	}
}

func TestPromptSettingResolve(t *testing.T) {
	empty := PromptSetting{}
	if got := empty.Resolve(); got != "" {
		t.Errorf("empty Resolve() = %q, want empty", got)
	}

	inline := PromptSetting{Text: "  custom prompt  "}
	if got := inline.Resolve(); got != "custom prompt" {
		t.Errorf("inline Resolve() = %q, want trimmed text", got)
	}

	filePreferred := PromptSetting{Text: "inline", loaded: "from file"}
	if got := filePreferred.Resolve(); got != "from file" {
		t.Errorf("Resolve() = %q, want file content to win", got)
	}
}

func TestLoadPromptFiles(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "tailor.txt")
	if err := os.WriteFile(good, []byte("  tailor override\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("   \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("loads and trims file content", func(t *testing.T) {
		cfg := validConfig()
		cfg.AI.Prompts.Tailor.File = good
		if err := cfg.loadPromptFiles(); err != nil {
			t.Fatalf("loadPromptFiles() error = %v", err)
		}
		if got := cfg.AI.Prompts.Tailor.Resolve(); got != "tailor override" {
			t.Errorf("Resolve() = %q, want %q", got, "tailor override")
		}
	})

	t.Run("missing file reported", func(t *testing.T) {
		cfg := validConfig()
		cfg.AI.Prompts.Suggest.File = filepath.Join(dir, "missing.txt")
		if err := cfg.loadPromptFiles(); err == nil {
			t.Error("loadPromptFiles() expected error for missing file")
		}
	})

	t.Run("empty file reported", func(t *testing.T) {
		cfg := validConfig()
		cfg.AI.Prompts.ATS.File = empty
		if err := cfg.loadPromptFiles(); err == nil {
			t.Error("loadPromptFiles() expected error for empty file")
		}
	})

	t.Run("directory reported", func(t *testing.T) {
		cfg := validConfig()
		cfg.AI.Prompts.Bio.File = dir
		if err := cfg.loadPromptFiles(); err == nil {
			t.Error("loadPromptFiles() expected error for directory")
		}
	})
}
