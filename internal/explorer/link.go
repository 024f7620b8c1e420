// Package explorer builds links into the public Solana block explorer.
package explorer

import (
	"net/url"
	"strconv"

	"github.com/dmagro/soldev/internal/cluster"
)

// Host is the explorer hostname links are built against and parsed from.
const Host = "explorer.solana.com"

// EntityKind selects the explorer page.
type EntityKind int

const (
	Address EntityKind = iota
	Transaction
	Block
)

func (k EntityKind) String() string {
	switch k {
	case Address:
		return "address"
	case Transaction:
		return "transaction"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

func (k EntityKind) path() string {
	switch k {
	case Transaction:
		return "/tx/"
	case Block:
		return "/block/"
	default:
		return "/address/"
	}
}

// Entity is the thing being linked to.
type Entity struct {
	Kind  EntityKind
	Value string
}

// BuildLink returns the explorer url for e on the cluster described by ref.
//
// Mainnet is the explorer default and gets no query parameters. Devnet and
// testnet are selected by moniker. The explorer has no localhost cluster, so
// localhost and any custom endpoint are passed as cluster=custom with the
// endpoint in customUrl.
func BuildLink(e Entity, ref cluster.Ref) *url.URL {
	u := &url.URL{
		Scheme: "https",
		Host:   Host,
		Path:   e.Kind.path() + e.Value,
	}

	q := url.Values{}
	switch {
	case ref.IsCustom(), ref.Cluster == cluster.Localhost:
		q.Set("cluster", "custom")
		q.Set("customUrl", ref.URL())
	case ref.Cluster == cluster.Devnet, ref.Cluster == cluster.Testnet:
		q.Set("cluster", string(ref.Cluster))
	}
	u.RawQuery = q.Encode()

	return u
}

func AddressLink(address string, ref cluster.Ref) string {
	return BuildLink(Entity{Kind: Address, Value: address}, ref).String()
}

func TransactionLink(signature string, ref cluster.Ref) string {
	return BuildLink(Entity{Kind: Transaction, Value: signature}, ref).String()
}

func BlockLink(slot uint64, ref cluster.Ref) string {
	return BuildLink(Entity{Kind: Block, Value: strconv.FormatUint(slot, 10)}, ref).String()
}
