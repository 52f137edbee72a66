package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
)

// UnitCache caches normalized registry units in Redis. Best effort:
// cache errors are logged and ignored so a Redis outage never blocks a fetch.
type UnitCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUnitCache creates a registry unit cache on top of the shared client
func NewUnitCache(ttl time.Duration) *UnitCache {
	return &UnitCache{
		client: GetClient(),
		ttl:    ttl,
	}
}

func unitKey(orgNumber string) string {
	return fmt.Sprintf("brreg:enhet:%s", orgNumber)
}

// GetUnit returns a cached unit, or (nil, false) on miss or cache failure
func (c *UnitCache) GetUnit(ctx context.Context, orgNumber string) (*brreg.Unit, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, unitKey(orgNumber)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("Registry cache read failed", map[string]interface{}{
			"org_number": orgNumber,
			"error":      err.Error(),
		})
		return nil, false
	}

	var unit brreg.Unit
	if err := json.Unmarshal(data, &unit); err != nil {
		logger.Warn("Registry cache entry is corrupt, ignoring", map[string]interface{}{
			"org_number": orgNumber,
		})
		return nil, false
	}
	return &unit, true
}

// SetUnit stores a unit with the configured TTL
func (c *UnitCache) SetUnit(ctx context.Context, orgNumber string, unit *brreg.Unit) {
	if c.client == nil || unit == nil {
		return
	}

	data, err := json.Marshal(unit)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, unitKey(orgNumber), data, c.ttl).Err(); err != nil {
		logger.Warn("Registry cache write failed", map[string]interface{}{
			"org_number": orgNumber,
			"error":      err.Error(),
		})
	}
}
