package cluster

// Genesis hashes of the public clusters.
const (
	MainnetBetaGenesisHash = "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d"
	DevnetGenesisHash      = "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG"
	TestnetGenesisHash     = "4uhcVJyU9pJkvQyS88uRDiswHXSCkY3zQawwpjk2NsNY"
)

// FromGenesisHash maps a genesis hash to its cluster. Every hash that is not
// one of the three public clusters is reported as Localhost; a test validator
// generates a fresh genesis on every reset so it cannot be matched exactly.
func FromGenesisHash(hash string) Cluster {
	switch hash {
	case MainnetBetaGenesisHash:
		return MainnetBeta
	case DevnetGenesisHash:
		return Devnet
	case TestnetGenesisHash:
		return Testnet
	default:
		return Localhost
	}
}

// IsKnownGenesisHash reports whether hash belongs to one of the public clusters.
func IsKnownGenesisHash(hash string) bool {
	switch hash {
	case MainnetBetaGenesisHash, DevnetGenesisHash, TestnetGenesisHash:
		return true
	}
	return false
}
