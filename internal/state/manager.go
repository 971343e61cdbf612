package state

import (
	"context"
	"sync"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
)

// MemoryCheckpoint keeps day digests for the lifetime of the process
type MemoryCheckpoint struct {
	digests map[string]string
	mu      sync.RWMutex
}

// NewMemoryCheckpoint creates an empty in-memory checkpoint store
func NewMemoryCheckpoint() *MemoryCheckpoint {
	return &MemoryCheckpoint{
		digests: make(map[string]string),
	}
}

// Digest gets the stored digest for a day
func (m *MemoryCheckpoint) Digest(_ context.Context, date string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	digest, exists := m.digests[date]
	return digest, exists
}

// SetDigest sets the digest for a day
func (m *MemoryCheckpoint) SetDigest(_ context.Context, date, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digests[date] = digest
	return nil
}

// Clear forgets the digest for a day
func (m *MemoryCheckpoint) Clear(date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.digests, date)
}

var _ domain.Checkpoint = (*MemoryCheckpoint)(nil)
