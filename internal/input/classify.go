// Package input decides what a single free-form CLI argument refers to.
package input

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/dmagro/soldev/internal/explorer"
	"github.com/dmagro/soldev/internal/numfmt"
)

var (
	ErrUnsupportedHost = errors.New("unsupported explorer host")
	ErrUnsupportedPath = errors.New("unsupported explorer path")
	ErrUnrecognized    = errors.New("input is not an address, signature or block number")
)

type Kind int

const (
	Address Kind = iota
	Signature
	Block
)

func (k Kind) String() string {
	switch k {
	case Address:
		return "address"
	case Signature:
		return "signature"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

// Target is the entity to inspect. Block is set only for Kind Block.
type Target struct {
	Kind  Kind
	Value string
	Block uint64
}

type Classification struct {
	Target Target
	// ClusterOverride is the cluster moniker or custom RPC url carried by an
	// explorer link. Empty for bare input.
	ClusterOverride string
}

var explorerURLPattern = regexp.MustCompile(`(?i)^https?://`)

// Classify inspects raw and returns the entity it names. Explorer links are
// unpacked into their entity and cluster; bare input is tried as an address,
// then a signature, then a block number written with loc's grouping.
func Classify(raw string, loc numfmt.Locale) (Classification, error) {
	raw = strings.TrimSpace(raw)

	if explorerURLPattern.MatchString(raw) {
		return fromExplorerURL(raw)
	}

	if _, err := solana.PublicKeyFromBase58(raw); err == nil {
		return Classification{Target: Target{Kind: Address, Value: raw}}, nil
	}
	if _, err := solana.SignatureFromBase58(raw); err == nil {
		return Classification{Target: Target{Kind: Signature, Value: raw}}, nil
	}
	if n, err := loc.ParseInt(raw); err == nil && n >= 0 {
		return Classification{Target: blockTarget(uint64(n))}, nil
	}

	return Classification{}, fmt.Errorf("%w: %q", ErrUnrecognized, raw)
}

func blockTarget(slot uint64) Target {
	return Target{Kind: Block, Value: strconv.FormatUint(slot, 10), Block: slot}
}

func fromExplorerURL(raw string) (Classification, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrUnsupportedHost, err)
	}
	if !strings.EqualFold(u.Hostname(), explorer.Host) {
		return Classification{}, fmt.Errorf("%w: %s", ErrUnsupportedHost, u.Hostname())
	}

	c := Classification{ClusterOverride: clusterParam(u.Query())}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) != 2 || segments[1] == "" {
		return Classification{}, fmt.Errorf("%w: %s", ErrUnsupportedPath, u.Path)
	}
	value := segments[1]

	switch segments[0] {
	case "address":
		c.Target = Target{Kind: Address, Value: value}
	case "tx", "transaction":
		c.Target = Target{Kind: Signature, Value: value}
	case "block":
		slot, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return Classification{}, fmt.Errorf("%w: invalid block %q", ErrUnsupportedPath, value)
		}
		c.Target = blockTarget(slot)
	default:
		return Classification{}, fmt.Errorf("%w: %s", ErrUnsupportedPath, u.Path)
	}

	return c, nil
}

func clusterParam(q url.Values) string {
	switch cluster := q.Get("cluster"); cluster {
	case "":
		return "mainnet"
	case "custom":
		if custom := q.Get("customUrl"); custom != "" {
			return custom
		}
		return "localhost"
	default:
		return cluster
	}
}
