package monthcache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client подмножество redis.Cmdable, которое использует кэш
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// Metrics учёт попаданий в кэш
type Metrics interface {
	IncAvailabilityCache(hit bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
