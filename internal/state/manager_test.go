package state

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCheckpoint(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCheckpoint()

	_, ok := m.Digest(ctx, "2025-07-01")
	assert.False(t, ok)

	require.NoError(t, m.SetDigest(ctx, "2025-07-01", "abc"))
	got, ok := m.Digest(ctx, "2025-07-01")
	assert.True(t, ok)
	assert.Equal(t, "abc", got)

	m.Clear("2025-07-01")
	_, ok = m.Digest(ctx, "2025-07-01")
	assert.False(t, ok)
}

func TestMemoryCheckpointConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCheckpoint()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.SetDigest(ctx, "2025-07-01", "same")
			m.Digest(ctx, "2025-07-01")
		}()
	}
	wg.Wait()

	got, ok := m.Digest(ctx, "2025-07-01")
	assert.True(t, ok)
	assert.Equal(t, "same", got)
}

func TestDigestKey(t *testing.T) {
	assert.Equal(t, "journal:day:2025-07-01:digest", digestKey("2025-07-01"))
}

func TestNewRedisCheckpointUnreachable(t *testing.T) {
	_, err := NewRedisCheckpoint("127.0.0.1", "1")
	assert.Error(t, err)
}
