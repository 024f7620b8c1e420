package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmagro/soldev/internal/cluster"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SOLDEV_TEST_RPC", "https://rpc.example.com/?api-key=secret")

	path := writeFile(t, dir, "config.yaml", `
url: ${SOLDEV_TEST_RPC}
commitment: finalized
timeout: 5s
max_retries: 1
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.URL != "https://rpc.example.com/?api-key=secret" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Commitment != "finalized" {
		t.Errorf("Commitment = %q", cfg.Commitment)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.FallbackURL() != cfg.URL {
		t.Errorf("FallbackURL() = %q", cfg.FallbackURL())
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Commitment != DefaultCommitment || cfg.Timeout != DefaultTimeout || cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.FallbackURL() != DefaultURL {
		t.Errorf("FallbackURL() = %q, want %q", cfg.FallbackURL(), DefaultURL)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want not exist", err)
	}
}

func TestLoadSolanaCLIFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, filepath.Join(".config", "solana", "cli", "config.yml"), `
json_rpc_url: "https://api.devnet.solana.com"
websocket_url: ""
keypair_path: /home/user/.config/solana/id.json
commitment: confirmed
`)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.FallbackURL(); got != "https://api.devnet.solana.com" {
		t.Errorf("FallbackURL() = %q", got)
	}
	if got := cfg.KeypairPath(); got != "/home/user/.config/solana/id.json" {
		t.Errorf("KeypairPath() = %q", got)
	}

	ref, err := cluster.ParseFlag("", cfg.FallbackURL())
	if err != nil {
		t.Fatalf("ParseFlag() error = %v", err)
	}
	if ref.Cluster != cluster.Devnet {
		t.Errorf("cluster = %q, want devnet", ref.Cluster)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults applied", Config{}, false},
		{"moniker url", Config{URL: "devnet"}, false},
		{"bad moniker", Config{URL: "mainnet-alpha"}, true},
		{"bad commitment", Config{Commitment: "max"}, true},
		{"negative retries", Config{MaxRetries: -1}, true},
		{"negative timeout", Config{Timeout: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SOLDEV_TEST_KEY", "from-process")
	path := writeFile(t, dir, ".env", "# comment\nSOLDEV_TEST_KEY=\"from-dotenv\"\n")

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := os.Getenv("SOLDEV_TEST_KEY"); got != "from-dotenv" {
		t.Errorf("SOLDEV_TEST_KEY = %q", got)
	}

	if err := LoadEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("LoadEnv(missing) error = %v", err)
	}
}
