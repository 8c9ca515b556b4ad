// Package monthcache кэширует месячный календарь доступности в Redis.
//
// Ключ содержит версию заведения: любая запись или отмена увеличивает версию,
// и все закэшированные месяцы этого заведения перестают читаться без SCAN/DEL.
package monthcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emer5om/horaly-pro-sub000/internal/availability"
	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

const keyPrefix = "availability:month"

// Key идентифицирует один закэшированный месяц.
// Today входит в ключ: статус past зависит от текущей даты заведения.
type Key struct {
	EstablishmentID int64
	ServiceID       int64
	Year            int
	Month           time.Month
	Today           time.Time
}

type entry struct {
	Date   string           `json:"date"`
	Status domain.DayStatus `json:"status"`
}

// Cache кэш месячного календаря
type Cache struct {
	rdb     Client
	ttl     time.Duration
	metrics Metrics
	logger  Logger
}

// New создает кэш. ttl <= 0 означает 60 секунд.
func New(rdb Client, ttl time.Duration, metrics Metrics, logger Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl, metrics: metrics, logger: logger}
}

// Get возвращает месяц из кэша. Промах и ошибка Redis оба дают ok=false:
// кэш никогда не ломает чтение доступности.
func (c *Cache) Get(ctx context.Context, key Key) ([]availability.DayAvailability, bool) {
	redisKey, err := c.key(ctx, key)
	if err != nil {
		c.logger.Warn("monthcache: get version for establishment id=%d: %v", key.EstablishmentID, err)
		c.metrics.IncAvailabilityCache(false)
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, redisKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("monthcache: get %s: %v", redisKey, err)
		}
		c.metrics.IncAvailabilityCache(false)
		return nil, false
	}

	days, err := decode(raw, key.Today.Location())
	if err != nil {
		c.logger.Warn("monthcache: decode %s: %v", redisKey, err)
		c.metrics.IncAvailabilityCache(false)
		return nil, false
	}

	c.metrics.IncAvailabilityCache(true)
	return days, true
}

// Set сохраняет месяц с TTL
func (c *Cache) Set(ctx context.Context, key Key, days []availability.DayAvailability) error {
	redisKey, err := c.key(ctx, key)
	if err != nil {
		return err
	}

	entries := make([]entry, 0, len(days))
	for _, d := range days {
		entries = append(entries, entry{Date: d.Date.Format(domain.DateFormat), Status: d.Status})
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("monthcache: encode: %w", err)
	}

	if err := c.rdb.Set(ctx, redisKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("monthcache: set %s: %w", redisKey, err)
	}
	return nil
}

// Invalidate сбрасывает все месяцы заведения
func (c *Cache) Invalidate(ctx context.Context, establishmentID int64) error {
	if err := c.rdb.Incr(ctx, versionKey(establishmentID)).Err(); err != nil {
		return fmt.Errorf("monthcache: invalidate establishment id=%d: %w", establishmentID, err)
	}
	return nil
}

func (c *Cache) key(ctx context.Context, key Key) (string, error) {
	version, err := c.rdb.Get(ctx, versionKey(key.EstablishmentID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}

	return fmt.Sprintf("%s:%d:v%d:%d:%04d-%02d:%s",
		keyPrefix,
		key.EstablishmentID,
		version,
		key.ServiceID,
		key.Year,
		int(key.Month),
		key.Today.Format(domain.DateFormat),
	), nil
}

func versionKey(establishmentID int64) string {
	return fmt.Sprintf("%s:%d:version", keyPrefix, establishmentID)
}

func decode(raw []byte, loc *time.Location) ([]availability.DayAvailability, error) {
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	days := make([]availability.DayAvailability, 0, len(entries))
	for _, e := range entries {
		date, err := time.ParseInLocation(domain.DateFormat, e.Date, loc)
		if err != nil {
			return nil, err
		}
		days = append(days, availability.DayAvailability{Date: date, Status: e.Status})
	}
	return days, nil
}
