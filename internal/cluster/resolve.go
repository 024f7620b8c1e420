package cluster

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`(?i)^(https?|wss?)://`)

// LooksLikeURL reports whether input should be treated as an RPC url rather than a moniker.
func LooksLikeURL(input string) bool {
	return urlPattern.MatchString(strings.TrimSpace(input))
}

// Resolve maps input to a Ref.
//
// Absolute http(s)/ws(s) urls are returned verbatim as custom endpoints when
// allowURL is true (an empty path is normalized to "/"). Anything else is
// treated as a case-insensitive moniker:
//
//	m, mainnet, mainnet-beta     -> mainnet-beta
//	d, devnet                    -> devnet
//	t, testnet                   -> testnet
//	l, local, localnet, localhost -> localhost
func Resolve(input string, allowURL bool) (Ref, error) {
	input = strings.TrimSpace(input)

	if LooksLikeURL(input) {
		if !allowURL {
			return Ref{}, ErrURLNotAllowed
		}
		u, err := parseEndpoint(input)
		if err != nil {
			return Ref{}, err
		}
		return Ref{Endpoint: u}, nil
	}

	c, err := ParseMoniker(input)
	if err != nil {
		return Ref{}, err
	}
	return MonikerRef(c), nil
}

// ResolveURL is Resolve for an already-parsed url.
func ResolveURL(u *url.URL, allowURL bool) (Ref, error) {
	if u == nil {
		return Ref{}, fmt.Errorf("%w: empty url", ErrUnparseableURL)
	}
	return Resolve(u.String(), allowURL)
}

// ParseMoniker matches a moniker or its abbreviation against the known clusters.
func ParseMoniker(input string) (Cluster, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "m", "mainnet", "mainnet-beta":
		return MainnetBeta, nil
	case "d", "devnet":
		return Devnet, nil
	case "t", "testnet":
		return Testnet, nil
	case "l", "local", "localnet", "localhost":
		return Localhost, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidClusterInput, input)
}

// ClassifyURL determines the cluster of a known public or local RPC url by hostname.
func ClassifyURL(raw string) (Cluster, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrUnparseableURL, raw)
	}

	switch strings.ToLower(u.Hostname()) {
	case "api.devnet.solana.com":
		return Devnet, nil
	case "api.testnet.solana.com":
		return Testnet, nil
	case "api.mainnet-beta.solana.com":
		return MainnetBeta, nil
	case "localhost", "127.0.0.1", "0.0.0.0":
		return Localhost, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownHost, u.Hostname())
}

// ParseFlag resolves the value of a --url flag. An empty input uses fallback,
// which may itself be a moniker or a url. Urls are classified by hostname when
// possible so that explorer links and cluster-specific output stay accurate;
// an unrecognized host stays a custom endpoint and is never aliased to a
// public cluster.
func ParseFlag(input, fallback string) (Ref, error) {
	if strings.TrimSpace(input) == "" {
		input = fallback
	}
	if strings.TrimSpace(input) == "" {
		return Ref{}, fmt.Errorf("%w: no url or moniker provided", ErrInvalidClusterInput)
	}

	ref, err := Resolve(input, true)
	if err != nil {
		return Ref{}, err
	}
	if ref.IsCustom() {
		if c, err := ClassifyURL(ref.Endpoint.String()); err == nil {
			ref.Cluster = c
		}
	}
	return ref, nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnparseableURL, raw)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}
