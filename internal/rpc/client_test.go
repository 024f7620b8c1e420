package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/soldev/internal/chain"
	"github.com/dmagro/soldev/internal/cluster"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handlerFunc returns either a result, an rpc error, or an HTTP status to fail with.
type handlerFunc func(params []json.RawMessage) (result any, rerr *rpcError, status int)

type fakeNode struct {
	server *httptest.Server
	calls  map[string]*atomic.Int32
}

func newFakeNode(t *testing.T, handlers map[string]handlerFunc) *fakeNode {
	t.Helper()
	n := &fakeNode{calls: make(map[string]*atomic.Int32)}
	for method := range handlers {
		n.calls[method] = &atomic.Int32{}
	}

	n.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h, ok := handlers[req.Method]
		if !ok {
			http.Error(w, "unexpected method "+req.Method, http.StatusNotImplemented)
			return
		}
		n.calls[req.Method].Add(1)

		result, rerr, status := h(req.Params)
		if status != 0 {
			http.Error(w, "unavailable", status)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rerr != nil {
			resp["error"] = rerr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(n.server.Close)
	return n
}

func (n *fakeNode) client(t *testing.T, maxRetries int) *Client {
	t.Helper()
	u, err := url.Parse(n.server.URL)
	require.NoError(t, err)
	return NewClient(cluster.Ref{Endpoint: u}, ClientConfig{
		Timeout:        2 * time.Second,
		MaxRetries:     maxRetries,
		BackoffInitial: time.Millisecond,
		BackoffMax:     5 * time.Millisecond,
	})
}

func (n *fakeNode) count(method string) int {
	return int(n.calls[method].Load())
}

var (
	payer    = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	receiver = solana.MustPublicKeyFromBase58("HN7cABqLq46Es1jh92dQQisAq662SmxELLLsHHe4YWrH")
	lookup   = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	testSig  = solana.MustSignatureFromBase58("5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW")
)

func encodedTransfer(t *testing.T) []string {
	t.Helper()
	tx := solana.Transaction{
		Signatures: []solana.Signature{testSig},
		Message: solana.Message{
			Header: solana.MessageHeader{NumRequiredSignatures: 1, NumReadonlyUnsignedAccounts: 2},
			AccountKeys: solana.PublicKeySlice{
				payer, receiver, solana.SystemProgramID, chain.ComputeBudgetProgramID,
			},
			Instructions: []solana.CompiledInstruction{
				{ProgramIDIndex: 3, Data: solana.Base58{3, 0x10, 0x27, 0, 0, 0, 0, 0, 0}},
				{ProgramIDIndex: 2, Accounts: []uint16{0, 1}, Data: solana.Base58{2, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}},
			},
		},
	}
	b, err := tx.MarshalBinary()
	require.NoError(t, err)
	return []string{base64.StdEncoding.EncodeToString(b), "base64"}
}

func txMeta(err any) map[string]any {
	return map[string]any{
		"err":                  err,
		"fee":                  5000,
		"preBalances":          []uint64{},
		"postBalances":         []uint64{},
		"logMessages":          []string{"Program 11111111111111111111111111111111 invoke [1]", "Program 11111111111111111111111111111111 success"},
		"computeUnitsConsumed": 450,
		"loadedAddresses": map[string]any{
			"writable": []string{lookup.String()},
			"readonly": []string{},
		},
	}
}

func TestGetAccountInfo(t *testing.T) {
	node := newFakeNode(t, map[string]handlerFunc{
		"getAccountInfo": func([]json.RawMessage) (any, *rpcError, int) {
			return map[string]any{
				"context": map[string]any{"slot": 1},
				"value": map[string]any{
					"lamports":   1_500_000_000,
					"owner":      solana.SystemProgramID.String(),
					"data":       []string{"AQID", "base64"},
					"executable": false,
					"rentEpoch":  0,
					"space":      3,
				},
			}, nil, 0
		},
	})

	info, err := node.client(t, 0).GetAccountInfo(context.Background(), receiver)
	require.NoError(t, err)
	assert.Equal(t, receiver, info.Address)
	assert.Equal(t, solana.SystemProgramID, info.Owner)
	assert.Equal(t, uint64(1_500_000_000), info.Lamports)
	assert.Equal(t, []byte{1, 2, 3}, info.Data)
	assert.Equal(t, uint64(3), info.Space())
}

func TestGetAccountInfoNotFoundIsNotRetried(t *testing.T) {
	node := newFakeNode(t, map[string]handlerFunc{
		"getAccountInfo": func([]json.RawMessage) (any, *rpcError, int) {
			return map[string]any{"context": map[string]any{"slot": 1}, "value": nil}, nil, 0
		},
	})

	_, err := node.client(t, 3).GetAccountInfo(context.Background(), receiver)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, node.count("getAccountInfo"))
}

func TestGetTransaction(t *testing.T) {
	enc := encodedTransfer(t)
	node := newFakeNode(t, map[string]handlerFunc{
		"getTransaction": func([]json.RawMessage) (any, *rpcError, int) {
			return map[string]any{
				"slot":        250_000_000,
				"blockTime":   1_700_000_000,
				"version":     "legacy",
				"transaction": enc,
				"meta":        txMeta(map[string]any{"InstructionError": []any{1, map[string]any{"Custom": 1}}}),
			}, nil, 0
		},
	})

	tx, err := node.client(t, 0).GetTransaction(context.Background(), testSig)
	require.NoError(t, err)

	assert.Equal(t, testSig, tx.Signature)
	assert.Equal(t, uint64(250_000_000), tx.Slot)
	require.NotNil(t, tx.BlockTime)
	assert.Equal(t, int64(1_700_000_000), tx.BlockTime.Unix())
	assert.Equal(t, chain.LegacyVersion, tx.Version)

	assert.Equal(t, uint8(1), tx.Message.Header.NumRequiredSignatures)
	assert.Len(t, tx.Message.AccountKeys, 4)
	require.Len(t, tx.Message.Instructions, 2)
	assert.Equal(t, uint16(3), tx.Message.Instructions[0].ProgramIDIndex)

	require.NotNil(t, tx.Meta)
	assert.Equal(t, uint64(5000), tx.Meta.Fee)
	require.NotNil(t, tx.Meta.ComputeUnitsConsumed)
	assert.Equal(t, uint64(450), *tx.Meta.ComputeUnitsConsumed)
	assert.Equal(t, []solana.PublicKey{lookup}, tx.Meta.LoadedAddresses.Writable)
	assert.Len(t, tx.Meta.LogMessages, 2)

	index, _, ok := tx.Meta.Err.InstructionError()
	require.True(t, ok)
	assert.Equal(t, 1, index)
}

func TestGetTransactionNotFound(t *testing.T) {
	node := newFakeNode(t, map[string]handlerFunc{
		"getTransaction": func([]json.RawMessage) (any, *rpcError, int) {
			return nil, nil, 0
		},
	})

	_, err := node.client(t, 2).GetTransaction(context.Background(), testSig)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, node.count("getTransaction"))
}

func TestSkippedSlotIsNotFound(t *testing.T) {
	node := newFakeNode(t, map[string]handlerFunc{
		"getBlock": func([]json.RawMessage) (any, *rpcError, int) {
			return nil, &rpcError{Code: codeSlotSkipped, Message: "Slot 5 was skipped"}, 0
		},
	})

	_, err := node.client(t, 2).GetBlock(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, node.count("getBlock"))
}

func TestRetryThenSucceed(t *testing.T) {
	var attempts atomic.Int32
	node := newFakeNode(t, map[string]handlerFunc{
		"getGenesisHash": func([]json.RawMessage) (any, *rpcError, int) {
			if attempts.Add(1) == 1 {
				return nil, nil, http.StatusServiceUnavailable
			}
			return cluster.DevnetGenesisHash, nil, 0
		},
	})

	hash, err := node.client(t, 2).GetGenesisHash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cluster.DevnetGenesisHash, hash)
	assert.Equal(t, 2, node.count("getGenesisHash"))
}

func TestRetriesExhausted(t *testing.T) {
	node := newFakeNode(t, map[string]handlerFunc{
		"getGenesisHash": func([]json.RawMessage) (any, *rpcError, int) {
			return nil, nil, http.StatusServiceUnavailable
		},
	})

	_, err := node.client(t, 2).GetGenesisHash(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Equal(t, 3, node.count("getGenesisHash"))
}

func TestGetBlockWithLeader(t *testing.T) {
	enc := encodedTransfer(t)
	node := newFakeNode(t, map[string]handlerFunc{
		"getBlock": func([]json.RawMessage) (any, *rpcError, int) {
			return map[string]any{
				"blockhash":         cluster.DevnetGenesisHash,
				"previousBlockhash": cluster.MainnetBetaGenesisHash,
				"parentSlot":        99,
				"blockTime":         1_700_000_000,
				"blockHeight":       90,
				"transactions": []any{
					map[string]any{"transaction": enc, "meta": txMeta(nil), "version": "legacy"},
				},
			}, nil, 0
		},
		"getSlotLeaders": func([]json.RawMessage) (any, *rpcError, int) {
			return []string{payer.String()}, nil, 0
		},
	})

	block, leader, err := node.client(t, 0).GetBlockWithLeader(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, payer, leader)
	assert.Equal(t, uint64(100), block.Slot)
	assert.Equal(t, cluster.DevnetGenesisHash, block.Blockhash)
	assert.Equal(t, cluster.MainnetBetaGenesisHash, block.PreviousBlockhash)
	assert.Equal(t, uint64(99), block.ParentSlot)
	require.NotNil(t, block.BlockHeight)
	assert.Equal(t, uint64(90), *block.BlockHeight)
	require.Len(t, block.Transactions, 1)
	assert.Equal(t, testSig, block.Transactions[0].Signature)
	assert.False(t, block.Transactions[0].Failed())
}

func TestGetBlockWithLeaderPropagatesError(t *testing.T) {
	node := newFakeNode(t, map[string]handlerFunc{
		"getBlock": func([]json.RawMessage) (any, *rpcError, int) {
			return nil, &rpcError{Code: codeLongTermStorageSlot, Message: "missing"}, 0
		},
		"getSlotLeaders": func([]json.RawMessage) (any, *rpcError, int) {
			return []string{payer.String()}, nil, 0
		},
	})

	_, _, err := node.client(t, 0).GetBlockWithLeader(context.Background(), 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackoffFor(t *testing.T) {
	c := NewClient(cluster.MonikerRef(cluster.Localhost), ClientConfig{
		BackoffInitial: 100 * time.Millisecond,
		BackoffMax:     time.Second,
	})
	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}
	for attempt, w := range want {
		assert.Equal(t, w, c.backoffFor(attempt), "attempt %d", attempt)
	}
}

func TestClientPoolReusesClients(t *testing.T) {
	pool := NewClientPool(ClientConfig{})
	a := pool.GetOrCreate(cluster.MonikerRef(cluster.Devnet))
	b := pool.GetOrCreate(cluster.MonikerRef(cluster.Devnet))
	c := pool.GetOrCreate(cluster.MonikerRef(cluster.Testnet))

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, pool.Len())
}

func TestGetBalance(t *testing.T) {
	node := newFakeNode(t, map[string]handlerFunc{
		"getBalance": func(params []json.RawMessage) (any, *rpcError, int) {
			var address string
			if err := json.Unmarshal(params[0], &address); err != nil || address != payer.String() {
				return nil, &rpcError{Code: -32602, Message: "Invalid param"}, 0
			}
			return map[string]any{
				"context": map[string]any{"slot": 1},
				"value":   1_500_000_000,
			}, nil, 0
		},
	})

	lamports, err := node.client(t, 0).GetBalance(context.Background(), payer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000_000), lamports)
}

func TestHistoryCommitment(t *testing.T) {
	u, _ := url.Parse("http://127.0.0.1:8899")
	processed := NewClient(cluster.Ref{Endpoint: u}, ClientConfig{Commitment: "processed"})
	assert.Equal(t, "confirmed", string(processed.historyCommitment()))

	finalized := NewClient(cluster.Ref{Endpoint: u}, ClientConfig{Commitment: "finalized"})
	assert.Equal(t, "finalized", string(finalized.historyCommitment()))
}
