// Package cluster maps free-form user input (monikers, abbreviations, RPC URLs,
// genesis hashes) to one of the four canonical Solana clusters and back to a
// concrete RPC endpoint.
//
// Everything in this package is a pure function over strings and URLs. Callers
// resolve user input once at the CLI boundary into a Ref and pass the Ref down;
// nothing below the boundary should look at the raw string again.
package cluster

import (
	"errors"
	"net/url"
)

// Cluster is a canonical cluster identity.
type Cluster string

const (
	MainnetBeta Cluster = "mainnet-beta"
	Devnet      Cluster = "devnet"
	Testnet     Cluster = "testnet"
	Localhost   Cluster = "localhost"
)

// All lists the canonical clusters in display order.
var All = []Cluster{MainnetBeta, Devnet, Testnet, Localhost}

// Resolution failures. All of them are user-input errors and are recoverable.
var (
	ErrInvalidClusterInput = errors.New("invalid cluster moniker")
	ErrUnparseableURL      = errors.New("unable to parse RPC url")
	ErrUnknownHost         = errors.New("unable to determine cluster from RPC url")
	ErrURLNotAllowed       = errors.New("RPC url not allowed, please provide a moniker")
)

var defaultEndpoints = map[Cluster]string{
	MainnetBeta: "https://api.mainnet-beta.solana.com",
	Devnet:      "https://api.devnet.solana.com",
	Testnet:     "https://api.testnet.solana.com",
	Localhost:   "http://127.0.0.1:8899",
}

// DefaultEndpoint returns the fixed public RPC endpoint for c.
// Unknown values fall back to the localhost endpoint.
func DefaultEndpoint(c Cluster) *url.URL {
	raw, ok := defaultEndpoints[c]
	if !ok {
		raw = defaultEndpoints[Localhost]
	}
	u, _ := url.Parse(raw)
	return u
}

// Valid reports whether c is one of the four canonical clusters.
func (c Cluster) Valid() bool {
	_, ok := defaultEndpoints[c]
	return ok
}

func (c Cluster) String() string { return string(c) }

// Ref is the resolved form of an RPC flag: either a known cluster (Cluster set,
// Endpoint pointing at the endpoint to use) or a custom endpoint (Cluster empty).
type Ref struct {
	Cluster  Cluster
	Endpoint *url.URL
}

// MonikerRef returns a Ref for c using its default public endpoint.
func MonikerRef(c Cluster) Ref {
	return Ref{Cluster: c, Endpoint: DefaultEndpoint(c)}
}

// IsCustom reports whether the ref points at an endpoint that matched no known cluster.
func (r Ref) IsCustom() bool { return r.Cluster == "" }

// URL returns the endpoint as a string, falling back to the cluster default.
func (r Ref) URL() string {
	if r.Endpoint != nil {
		return r.Endpoint.String()
	}
	if r.Cluster != "" {
		return DefaultEndpoint(r.Cluster).String()
	}
	return ""
}

// String renders the moniker, or the endpoint for custom refs.
func (r Ref) String() string {
	if r.IsCustom() {
		return r.URL()
	}
	return string(r.Cluster)
}
