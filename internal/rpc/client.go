// Package rpc fetches accounts, transactions and blocks from a Solana JSON-RPC
// node and converts them into chain values.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"

	"github.com/dmagro/soldev/internal/cluster"
)

// ErrNotFound means the node has no such account, transaction or block.
var ErrNotFound = errors.New("not found")

// Node error codes for slots without a block.
const (
	codeBlockNotAvailable    = -32004
	codeSlotSkipped          = -32007
	codeLongTermStorageSlot  = -32009
	codeBlockStatusNotYetSet = -32014
)

type ClientConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	Commitment     string
	Logger         *zap.Logger
}

type Client struct {
	ref        cluster.Ref
	rpc        *solanarpc.Client
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	backoffMax time.Duration
	commitment solanarpc.CommitmentType
	logger     *zap.Logger
}

func NewClient(ref cluster.Ref, cfg ClientConfig) *Client {
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = 100 * time.Millisecond
	}
	if cfg.BackoffMax < cfg.BackoffInitial {
		cfg.BackoffMax = cfg.BackoffInitial
	}
	if cfg.Commitment == "" {
		cfg.Commitment = string(solanarpc.CommitmentConfirmed)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Client{
		ref:        ref,
		rpc:        solanarpc.New(ref.URL()),
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.BackoffInitial,
		backoffMax: cfg.BackoffMax,
		commitment: solanarpc.CommitmentType(cfg.Commitment),
		logger:     cfg.Logger.With(zap.String("cluster", ref.String())),
	}
}

func (c *Client) Ref() cluster.Ref { return c.ref }

// call runs fn with exponential backoff retry. Each attempt gets its own
// timeout. Not-found results and context cancellation are returned immediately.
func (c *Client) call(ctx context.Context, method string, fn func(ctx context.Context, cl *solanarpc.Client) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		err := c.attempt(ctx, fn)
		latency := time.Since(start)

		if err == nil {
			c.logger.Debug("rpc call", zap.String("method", method), zap.Duration("latency", latency), zap.Int("attempt", attempt+1))
			return nil
		}
		if isNotFound(err) {
			return ErrNotFound
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
		c.logger.Debug("rpc call failed", zap.String("method", method), zap.Int("attempt", attempt+1), zap.Error(err))

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoffFor(attempt)):
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", method, c.maxRetries+1, lastErr)
}

func (c *Client) attempt(ctx context.Context, fn func(ctx context.Context, cl *solanarpc.Client) error) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return fn(ctx, c.rpc)
}

// backoffFor doubles the initial delay per attempt: 100ms, 200ms, 400ms... up to backoffMax.
func (c *Client) backoffFor(attempt int) time.Duration {
	d := c.backoff
	for i := 0; i < attempt && d < c.backoffMax; i++ {
		d *= 2
	}
	if d > c.backoffMax {
		d = c.backoffMax
	}
	return d
}

func isNotFound(err error) bool {
	if errors.Is(err, solanarpc.ErrNotFound) || errors.Is(err, ErrNotFound) {
		return true
	}
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeBlockNotAvailable, codeSlotSkipped, codeLongTermStorageSlot, codeBlockStatusNotYetSet:
			return true
		}
	}
	return false
}
