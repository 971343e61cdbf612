package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
	"github.com/vladimiradmaev/journal-timeline/internal/logger"
)

// digestTTL bounds how long an untouched day is remembered
const digestTTL = 30 * 24 * time.Hour

// RedisCheckpoint keeps day digests in Redis so reruns survive restarts
type RedisCheckpoint struct {
	client *redis.Client
}

// NewRedisCheckpoint connects to Redis and verifies the connection
func NewRedisCheckpoint(redisHost, redisPort string) (*RedisCheckpoint, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password:     "", // no password
		DB:           0,  // default DB
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCheckpoint{
		client: client,
	}, nil
}

func digestKey(date string) string {
	return fmt.Sprintf("journal:day:%s:digest", date)
}

// Digest gets the stored digest for a day. Lookup failures count as a miss
func (m *RedisCheckpoint) Digest(ctx context.Context, date string) (string, bool) {
	result := m.client.Get(ctx, digestKey(date))
	if errors.Is(result.Err(), redis.Nil) {
		return "", false
	}
	if result.Err() != nil {
		logger.Warn("Checkpoint lookup failed", "date", date, "error", result.Err())
		return "", false
	}
	return result.Val(), true
}

// SetDigest stores the digest for a day
func (m *RedisCheckpoint) SetDigest(ctx context.Context, date, digest string) error {
	if err := m.client.Set(ctx, digestKey(date), digest, digestTTL).Err(); err != nil {
		return apperrors.NewStorageError(err, "CHECKPOINT_FAILED", "Failed to store day checkpoint").
			WithContext("date", date)
	}
	return nil
}

// Close closes the Redis connection
func (m *RedisCheckpoint) Close() error {
	return m.client.Close()
}

var _ domain.Checkpoint = (*RedisCheckpoint)(nil)
