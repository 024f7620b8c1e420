package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SolanaCLI is the subset of the Solana CLI config.yml soldev reads.
type SolanaCLI struct {
	JSONRPCURL    string            `yaml:"json_rpc_url"`
	WebsocketURL  string            `yaml:"websocket_url"`
	KeypairPath   string            `yaml:"keypair_path"`
	AddressLabels map[string]string `yaml:"address_labels"`
	Commitment    string            `yaml:"commitment"`
}

// DefaultSolanaCLIPath is ~/.config/solana/cli/config.yml.
func DefaultSolanaCLIPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "solana", "cli", "config.yml")
	}
	return filepath.Join(home, ".config", "solana", "cli", "config.yml")
}

func LoadSolanaCLI(path string) (*SolanaCLI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cli SolanaCLI
	if err := yaml.Unmarshal(data, &cli); err != nil {
		return nil, fmt.Errorf("failed to parse solana config: %w", err)
	}
	return &cli, nil
}
