// Package config loads soldev settings from a YAML file, a .env file and the
// Solana CLI configuration.
//
// A Config is built once per command and passed down explicitly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dmagro/soldev/internal/cluster"
)

const (
	DefaultURL        = "mainnet-beta"
	DefaultCommitment = "confirmed"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3

	DefaultBackoffInitial = 100 * time.Millisecond
	DefaultBackoffMax     = 2 * time.Second
)

// Config is the root of config.yaml.
type Config struct {
	URL            string        `yaml:"url"`             // moniker or RPC url, ${VAR} is expanded
	Commitment     string        `yaml:"commitment"`      // processed, confirmed or finalized
	Timeout        time.Duration `yaml:"timeout"`         // per request attempt
	MaxRetries     int           `yaml:"max_retries"`     // 0 disables retries
	BackoffInitial time.Duration `yaml:"backoff_initial"` // first retry delay, doubled per attempt
	BackoffMax     time.Duration `yaml:"backoff_max"`     // retry delay cap
	SolanaConfig   string        `yaml:"solana_config"`   // Solana CLI config.yml, for json_rpc_url
	Locale         string        `yaml:"locale"`          // number locale, overrides LANG

	// Read from SolanaConfig during Load.
	solanaCLIURL     string
	solanaCLIKeypair string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Commitment: DefaultCommitment,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,

		BackoffInitial: DefaultBackoffInitial,
		BackoffMax:     DefaultBackoffMax,
	}
}

// DefaultPath is ~/.config/soldev/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "soldev", "config.yaml")
	}
	return filepath.Join(home, ".config", "soldev", "config.yaml")
}

// Validate applies defaults and rejects invalid values. Suspicious but usable
// values are logged as warnings.
func (c *Config) Validate(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if c.Commitment == "" {
		c.Commitment = DefaultCommitment
	}
	switch c.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("commitment %q is invalid (expected processed, confirmed or finalized)", c.Commitment)
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0")
	}
	if c.BackoffInitial == 0 {
		c.BackoffInitial = DefaultBackoffInitial
	}
	if c.BackoffMax == 0 {
		c.BackoffMax = DefaultBackoffMax
	}
	if c.BackoffInitial < 0 || c.BackoffMax < c.BackoffInitial {
		return fmt.Errorf("backoff_initial must be > 0 and <= backoff_max")
	}

	const low = 500 * time.Millisecond
	const high = 2 * time.Minute
	if c.Timeout < low {
		logger.Warn("timeout is very low; requests may fail under normal network jitter", zap.Duration("timeout", c.Timeout))
	}
	if c.Timeout > high {
		logger.Warn("timeout is very high; failures may take a long time to surface", zap.Duration("timeout", c.Timeout))
	}

	if c.URL != "" {
		if _, err := cluster.ParseFlag(c.URL, ""); err != nil {
			return fmt.Errorf("url: %w", err)
		}
	}

	return nil
}

// FallbackURL is the RPC target used when no --url flag is given: the config
// url, then the Solana CLI json_rpc_url, then mainnet-beta.
func (c *Config) FallbackURL() string {
	switch {
	case c.URL != "":
		return c.URL
	case c.solanaCLIURL != "":
		return c.solanaCLIURL
	default:
		return DefaultURL
	}
}

// KeypairPath is the Solana CLI keypair_path, empty when there is no CLI config.
func (c *Config) KeypairPath() string {
	return c.solanaCLIKeypair
}

// Load reads the YAML file at path, expanding ${VAR} references first.
//
// A .env file in the working directory is loaded before expansion and its
// values override the process environment. When path is empty the default
// location is used and a missing file yields Default(); an explicit path that
// does not exist is an error.
func Load(path string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := LoadEnv(".env"); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		logger.Debug("loaded config", zap.String("path", path))
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		logger.Debug("no config file, using defaults", zap.String("path", path))
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cliPath := cfg.SolanaConfig
	if cliPath == "" {
		cliPath = DefaultSolanaCLIPath()
	}
	cli, err := LoadSolanaCLI(cliPath)
	switch {
	case err == nil:
		cfg.solanaCLIKeypair = cli.KeypairPath
		if cfg.URL == "" {
			cfg.solanaCLIURL = cli.JSONRPCURL
			logger.Debug("using Solana CLI rpc url", zap.String("path", cliPath), zap.String("url", cli.JSONRPCURL))
		}
	case !errors.Is(err, fs.ErrNotExist):
		logger.Warn("ignoring Solana CLI config", zap.String("path", cliPath), zap.Error(err))
	}

	if err := cfg.Validate(logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads KEY=VALUE pairs from path into the process environment,
// overriding existing values. A missing file is not an error.
func LoadEnv(path string) error {
	err := godotenv.Overload(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}
