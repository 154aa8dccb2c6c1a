package store

import (
	"context"
	"sync"

	"github.com/byterings/gprofile/internal/profile"
)

// MemoryBackend keeps the state in memory. SaveErr, when set, is returned by
// every Save without changing the stored state.
type MemoryBackend struct {
	mu      sync.Mutex
	state   profile.State
	SaveErr error
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{state: profile.NewState()}
}

func (m *MemoryBackend) Load(context.Context) (profile.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

func (m *MemoryBackend) Save(_ context.Context, state profile.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.state = state.Clone()
	return nil
}
