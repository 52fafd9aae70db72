package pollclient

import "sync"

// Cache keeps decoded list responses keyed by request path.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]ListResponse
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]ListResponse)}
}

func (c *Cache) Get(key string) (ListResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.entries[key]
	if !ok {
		return ListResponse{}, false
	}
	return cloneList(resp), true
}

func (c *Cache) Set(key string, resp ListResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cloneList(resp)
}

// Invalidate drops one entry so the next read goes to the server.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// cloneList copies the page so callers never share slices with a cached entry.
func cloneList(resp ListResponse) ListResponse {
	out := resp
	out.Data = make([]Poll, len(resp.Data))
	for i, poll := range resp.Data {
		poll.Choices = append([]Choice(nil), poll.Choices...)
		for j := range poll.Choices {
			poll.Choices[j].Votes = append([]Vote{}, poll.Choices[j].Votes...)
		}
		if poll.ExpiresAt != nil {
			t := *poll.ExpiresAt
			poll.ExpiresAt = &t
		}
		out.Data[i] = poll
	}
	return out
}
