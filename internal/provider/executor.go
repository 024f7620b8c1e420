// Package provider runs the same operation against several clusters at once.
//
// Commands such as balance query every cluster, report each one separately,
// and keep going when one of them is unreachable.
package provider

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmagro/soldev/internal/cluster"
)

// Result wraps one cluster's response. Latency covers the whole call,
// retries included.
type Result[T any] struct {
	Ref     cluster.Ref
	Index   int
	Value   T
	Err     error
	Latency time.Duration
}

// ExecuteAll runs fn concurrently for each ref and collects results in ref
// order, not completion order.
//
// It never fails fast: every ref is attempted and its error recorded in the
// matching Result. Cancelling ctx still reaches fn.
func ExecuteAll[T any](
	ctx context.Context,
	refs []cluster.Ref,
	fn func(ctx context.Context, ref cluster.Ref) (T, error),
) []Result[T] {
	results := make([]Result[T], len(refs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			start := time.Now()
			val, err := fn(gctx, ref)
			latency := time.Since(start)

			mu.Lock()
			results[i] = Result[T]{
				Ref:     ref,
				Index:   i,
				Value:   val,
				Err:     err,
				Latency: latency,
			}
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// PublicClusters returns refs for every canonical cluster on its default endpoint.
func PublicClusters() []cluster.Ref {
	refs := make([]cluster.Ref, 0, len(cluster.All))
	for _, c := range cluster.All {
		refs = append(refs, cluster.MonikerRef(c))
	}
	return refs
}
