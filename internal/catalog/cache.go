package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const sportsVersionKey = "catalog:sports:version"

type SportLister interface {
	ListSports(locale string) ([]LocalizedItem, error)
}

// SportCache is a read-through cache for the localized sports list. Keys carry
// a version counter so one INCR invalidates every locale at once. A nil Redis
// client, or any Redis error, falls through to Source.
type SportCache struct {
	Redis  *redis.Client
	TTL    time.Duration
	Source SportLister
}

func (c *SportCache) key(ctx context.Context, locale string) (string, error) {
	v, err := c.Redis.Get(ctx, sportsVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("catalog:sports:v%d:%s", v, locale), nil
}

// Sports returns the list and whether it came from the cache.
func (c *SportCache) Sports(ctx context.Context, locale string) ([]LocalizedItem, bool, error) {
	if c.Redis == nil {
		items, err := c.Source.ListSports(locale)
		return items, false, err
	}

	key, err := c.key(ctx, locale)
	if err == nil {
		if bs, err := c.Redis.Get(ctx, key).Bytes(); err == nil {
			var items []LocalizedItem
			if json.Unmarshal(bs, &items) == nil {
				return items, true, nil
			}
		}
	}

	items, err := c.Source.ListSports(locale)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		ttl := c.TTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		if bs, err := json.Marshal(items); err == nil {
			if err := c.Redis.Set(ctx, key, bs, ttl).Err(); err != nil {
				log.Printf("catalog: cache set %s: %v", key, err)
			}
		}
	}
	return items, false, nil
}

// Invalidate drops every cached locale by bumping the version.
func (c *SportCache) Invalidate(ctx context.Context) {
	if c.Redis == nil {
		return
	}
	if err := c.Redis.Incr(ctx, sportsVersionKey).Err(); err != nil {
		log.Printf("catalog: invalidate sports cache: %v", err)
	}
}
