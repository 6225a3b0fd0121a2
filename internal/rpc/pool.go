package rpc

import "sync"

// ClientPool reuses clients keyed by provider name, so every dashboard session
// shares one HTTP client per provider.
type ClientPool struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewClientPool() *ClientPool {
	return &ClientPool{
		clients: make(map[string]*Client),
	}
}

// GetOrCreate returns the pooled client for cfg.Name, creating it on first use.
func (p *ClientPool) GetOrCreate(cfg ClientConfig) *Client {
	p.mu.RLock()
	if client, exists := p.clients[cfg.Name]; exists {
		p.mu.RUnlock()
		return client
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another goroutine may have created it while we waited for the lock.
	if client, exists := p.clients[cfg.Name]; exists {
		return client
	}

	client := NewClient(cfg)
	p.clients[cfg.Name] = client
	return client
}

// Get returns the pooled client for name, or nil.
func (p *ClientPool) Get(name string) *Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clients[name]
}
