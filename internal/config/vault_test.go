package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("NewVaultClient() error = %v", err)
	}
	if client != nil {
		t.Error("NewVaultClient() = non-nil for disabled config")
	}
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("direct token", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "hvs.direct"})
		if err != nil {
			t.Fatalf("resolveVaultToken() error = %v", err)
		}
		if token != "hvs.direct" {
			t.Errorf("token = %q, want %q", token, "hvs.direct")
		}
	})

	t.Run("token file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		if err := os.WriteFile(path, []byte("  hvs.fromfile\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		token, err := resolveVaultToken(VaultConfig{TokenFile: path})
		if err != nil {
			t.Fatalf("resolveVaultToken() error = %v", err)
		}
		if token != "hvs.fromfile" {
			t.Errorf("token = %q, want trimmed file content", token)
		}
	})

	t.Run("direct token wins over file", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "hvs.direct", TokenFile: "/nonexistent"})
		if err != nil {
			t.Fatalf("resolveVaultToken() error = %v", err)
		}
		if token != "hvs.direct" {
			t.Errorf("token = %q, want direct token", token)
		}
	})

	t.Run("missing token file", func(t *testing.T) {
		if _, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token"}); err == nil {
			t.Error("resolveVaultToken() expected error for missing file")
		}
	})

	t.Run("no token at all", func(t *testing.T) {
		if _, err := resolveVaultToken(VaultConfig{}); err == nil {
			t.Error("resolveVaultToken() expected error for empty token")
		}
	})
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    int64
		wantErr bool
	}{
		{name: "int64", raw: int64(7), want: 7},
		{name: "float64 from JSON", raw: float64(3), want: 3},
		{name: "numeric string", raw: "12", want: 12},
		{name: "bad string", raw: "twelve", wantErr: true},
		{name: "unexpected type", raw: []string{"1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.raw, "secret/data/test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVersionValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseVersionValue() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret("sk-abcdefghijkl"); got != "sk-a****ijkl" {
		t.Errorf("maskSecret(long) = %q", got)
	}
	if got := maskSecret("short"); got != "****" {
		t.Errorf("maskSecret(short) = %q, want fully masked", got)
	}
	if got := maskSecret(""); got != "" {
		t.Errorf("maskSecret(empty) = %q, want empty", got)
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := validConfig()
	if err := ApplyVaultSecrets(cfg, nil); err != nil {
		t.Errorf("ApplyVaultSecrets() error = %v for disabled vault", err)
	}
	if cfg.vaultAIKeys != nil {
		t.Error("ApplyVaultSecrets() populated keys with vault disabled")
	}
}

func TestGetSecretV2NilClient(t *testing.T) {
	var vc *VaultClient
	if _, err := vc.GetSecretV2("secret/data/test"); err == nil {
		t.Error("GetSecretV2() on nil client expected error")
	}
}
