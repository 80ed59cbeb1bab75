package linkshort

import "sync"

// Counter counts handled requests per route name.
type Counter struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]uint64)}
}

// Increment adds one to the count for name.
func (c *Counter) Increment(name string) {
	c.mu.Lock()
	c.counts[name]++
	c.mu.Unlock()
}

// Snapshot returns a copy of all counts. Names that were never incremented
// are not included.
func (c *Counter) Snapshot() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]uint64, len(c.counts))
	for name, n := range c.counts {
		out[name] = n
	}
	return out
}
