package rpc

import (
	"sync"

	"github.com/dmagro/soldev/internal/cluster"
)

// ClientPool reuses clients per endpoint url so fan-out commands do not build
// a new HTTP transport for every call. Safe for concurrent use.
type ClientPool struct {
	cfg     ClientConfig
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewClientPool(cfg ClientConfig) *ClientPool {
	return &ClientPool{
		cfg:     cfg,
		clients: make(map[string]*Client),
	}
}

// GetOrCreate returns the client for ref's endpoint, creating it on first use.
func (p *ClientPool) GetOrCreate(ref cluster.Ref) *Client {
	key := ref.URL()

	p.mu.RLock()
	if client, ok := p.clients[key]; ok {
		p.mu.RUnlock()
		return client
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// another goroutine may have created it while we waited for the lock
	if client, ok := p.clients[key]; ok {
		return client
	}

	client := NewClient(ref, p.cfg)
	p.clients[key] = client
	return client
}

func (p *ClientPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}
