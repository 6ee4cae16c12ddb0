package gateway

import "sync"

// ConnectionRegistry : живые соединения по пользователю, у одного пользователя их может быть несколько
type ConnectionRegistry interface {
	Add(userID string, client *Client)
	Remove(userID string, client *Client)
	Connections(userID string) []*Client
	Count() int
}

type MemoryRegistry struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{clients: make(map[string]map[*Client]struct{})}
}

func (r *MemoryRegistry) Add(userID string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.clients[userID]
	if !ok {
		set = make(map[*Client]struct{})
		r.clients[userID] = set
	}
	set[client] = struct{}{}
}

func (r *MemoryRegistry) Remove(userID string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.clients[userID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(r.clients, userID)
	}
}

func (r *MemoryRegistry) Connections(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.clients[userID]
	result := make([]*Client, 0, len(set))
	for client := range set {
		result = append(result, client)
	}
	return result
}

func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, set := range r.clients {
		total += len(set)
	}
	return total
}
