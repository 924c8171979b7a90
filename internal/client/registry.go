package client

import (
	"fmt"
	"sync"

	"remedy/internal/codeaction"
)

// Registry tracks the clients attached to the current document and hands
// them to the engine as providers.
type Registry struct {
	mu      sync.RWMutex
	seq     int
	clients []*Client
}

func NewRegistry() *Registry {
	return &Registry{}
}

// NextID mints a provider id for a server about to be attached.
func (r *Registry) NextID(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("%s-%d", name, r.seq)
}

// Add attaches a client.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = append(r.clients, c)
}

// Remove detaches a client by id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.clients {
		if c.ID() == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return
		}
	}
}

// Providers returns the attached clients as engine providers.
func (r *Registry) Providers() []codeaction.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]codeaction.Provider, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

// Lookup finds an attached client by id.
func (r *Registry) Lookup(id string) (codeaction.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Clients returns the concrete attached clients, for lifecycle handling.
func (r *Registry) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Client(nil), r.clients...)
}
