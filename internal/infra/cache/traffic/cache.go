package traffic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

const keyPrefix = "smartqueue:traffic"

// ErrCache возвращается при ошибках обращения к Redis
var ErrCache = errors.New("traffic.cache: redis error")

// Cache кеш почасового трафика в Redis
type Cache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewCache создает кеш с заданным TTL
func NewCache(rdb redis.Cmdable, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get возвращает закешированный трафик за окно [from, to]. ok=false при промахе
func (c *Cache) Get(ctx context.Context, from, to time.Time) ([]domain.HourCount, bool, error) {
	raw, err := c.rdb.Get(ctx, key(from, to)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get: %v", ErrCache, err)
	}

	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("%w: Get - decode: %v", ErrCache, err)
	}

	traffic := make([]domain.HourCount, len(entries))
	for i, e := range entries {
		traffic[i] = domain.HourCount{Hour: e.Hour, Count: e.Count}
	}
	return traffic, true, nil
}

// Set сохраняет трафик за окно [from, to]
func (c *Cache) Set(ctx context.Context, from, to time.Time, traffic []domain.HourCount) error {
	entries := make([]entry, len(traffic))
	for i, hc := range traffic {
		entries[i] = entry{Hour: hc.Hour, Count: hc.Count}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: Set - encode: %v", ErrCache, err)
	}

	if err := c.rdb.Set(ctx, key(from, to), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set: %v", ErrCache, err)
	}
	return nil
}

type entry struct {
	Hour  int `json:"h"`
	Count int `json:"c"`
}

func key(from, to time.Time) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, from.Format(domain.DateFormat), to.Format(domain.DateFormat))
}
