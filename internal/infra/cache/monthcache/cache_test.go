package monthcache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/internal/availability"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

type memoryRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryRedis) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return redis.NewStringResult("", m.failGet)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

type countingMetrics struct {
	hits, misses int
}

func (m *countingMetrics) IncAvailabilityCache(hit bool) {
	if hit {
		m.hits++
		return
	}
	m.misses++
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

func sampleDays() []availability.DayAvailability {
	return []availability.DayAvailability{
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Status: domain.DayPast},
		{Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Status: domain.DayAvailable},
	}
}

func sampleKey() Key {
	return Key{
		EstablishmentID: 7,
		ServiceID:       3,
		Year:            2025,
		Month:           time.March,
		Today:           time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCache_SetThenGet(t *testing.T) {
	rdb := newMemoryRedis()
	m := &countingMetrics{}
	c := New(rdb, 30*time.Second, m, nopLogger{})
	ctx := context.Background()

	_, ok := c.Get(ctx, sampleKey())
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, sampleKey(), sampleDays()))

	days, ok := c.Get(ctx, sampleKey())
	require.True(t, ok)
	require.Len(t, days, 2)
	assert.True(t, days[1].Date.Equal(sampleDays()[1].Date))
	assert.Equal(t, domain.DayAvailable, days[1].Status)

	assert.Equal(t, 1, m.hits)
	assert.Equal(t, 1, m.misses)
	assert.Equal(t, 30*time.Second, rdb.ttls["availability:month:7:v0:3:2025-03:2025-03-01"])
}

func TestCache_InvalidateDropsAllMonthsOfEstablishment(t *testing.T) {
	rdb := newMemoryRedis()
	c := New(rdb, 0, &countingMetrics{}, nopLogger{})
	ctx := context.Background()

	other := sampleKey()
	other.EstablishmentID = 8

	require.NoError(t, c.Set(ctx, sampleKey(), sampleDays()))
	require.NoError(t, c.Set(ctx, other, sampleDays()))

	require.NoError(t, c.Invalidate(ctx, 7))

	_, ok := c.Get(ctx, sampleKey())
	assert.False(t, ok)

	_, ok = c.Get(ctx, other)
	assert.True(t, ok)
}

func TestCache_TodayIsPartOfKey(t *testing.T) {
	c := New(newMemoryRedis(), 0, &countingMetrics{}, nopLogger{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleKey(), sampleDays()))

	tomorrow := sampleKey()
	tomorrow.Today = tomorrow.Today.AddDate(0, 0, 1)
	_, ok := c.Get(ctx, tomorrow)
	assert.False(t, ok)
}

func TestCache_RedisErrorIsAMiss(t *testing.T) {
	rdb := newMemoryRedis()
	rdb.failGet = errors.New("connection refused")
	m := &countingMetrics{}
	c := New(rdb, 0, m, nopLogger{})

	_, ok := c.Get(context.Background(), sampleKey())
	assert.False(t, ok)
	assert.Equal(t, 1, m.misses)
}
