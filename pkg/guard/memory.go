package guard

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process guard for single-node deployments and tests.
type Memory struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		held: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (m *Memory) Acquire(_ context.Context, key string, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	if expiry, ok := m.held[key]; ok && now.Before(expiry) {
		return false, nil
	}

	m.held[key] = now.Add(window)

	m.sweep(now)

	return true, nil
}

// sweep drops expired keys so the map does not grow without bound.
func (m *Memory) sweep(now time.Time) {
	if len(m.held) < 1024 {
		return
	}

	for key, expiry := range m.held {
		if now.After(expiry) {
			delete(m.held, key)
		}
	}
}
