package lock

import (
	"context"
	"sync"
)

// Memory locks keys within one process.
type Memory struct {
	mu      sync.Mutex
	held    map[string]struct{}
	changed chan struct{}
}

func NewMemory() *Memory {
	return &Memory{held: make(map[string]struct{}), changed: make(chan struct{})}
}

// Lock blocks until every key is free, then takes them all at once.
func (m *Memory) Lock(ctx context.Context, keys []string) (func(), error) {
	keys = uniq(keys)
	for {
		m.mu.Lock()
		if m.free(keys) {
			for _, k := range keys {
				m.held[k] = struct{}{}
			}
			m.mu.Unlock()
			var once sync.Once
			return func() { once.Do(func() { m.release(keys) }) }, nil
		}
		wait := m.changed
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wait:
		}
	}
}

// Held reports how many keys are currently locked.
func (m *Memory) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.held)
}

func (m *Memory) free(keys []string) bool {
	for _, k := range keys {
		if _, ok := m.held[k]; ok {
			return false
		}
	}
	return true
}

func (m *Memory) release(keys []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.held, k)
	}
	close(m.changed)
	m.changed = make(chan struct{})
}

func uniq(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
