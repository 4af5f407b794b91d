package lookup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	gocacheStore "github.com/eko/gocache/lib/v4/store"
	redisStore "github.com/eko/gocache/store/redis/v4"

	"github.com/txcheck/txcheck/pkg/redis_client"
)

const cacheTTL = time.Hour

// Cached is a read-through decorator over another lookup bundle, keeping
// JSON-encoded entries in redis. Prior file attributes are never cached:
// the revision comparator must always see the latest accepted files.
type Cached struct {
	inner Services
	cache *cache.Cache[string]
}

// NewCached wraps the bundle with the process-wide redis client.
func NewCached(inner Services) *Cached {
	store := redisStore.NewRedis(redis_client.Client, gocacheStore.WithExpiration(cacheTTL))

	return &Cached{
		inner: inner,
		cache: cache.New[string](store),
	}
}

func (c *Cached) Services() Services {
	return Services{StopPoints: c, Scotland: c, PriorAttributes: c.inner.PriorAttributes}
}

func (c *Cached) Get(ctx context.Context, atcoCodes []string) (map[string]*StopPointRecord, []string, error) {
	found := map[string]*StopPointRecord{}
	var uncached []string

	for _, code := range atcoCodes {
		encoded, err := c.cache.Get(ctx, "txcheck/naptan/"+code)
		if err != nil || encoded == "" {
			uncached = append(uncached, code)
			continue
		}

		record := &StopPointRecord{}
		if err := json.Unmarshal([]byte(encoded), record); err != nil {
			uncached = append(uncached, code)
			continue
		}

		found[code] = record
	}

	if len(uncached) == 0 {
		return found, nil, nil
	}

	fetched, missing, err := c.inner.StopPoints.Get(ctx, uncached)
	if err != nil {
		return nil, nil, err
	}

	for code, record := range fetched {
		found[code] = record

		if encoded, err := json.Marshal(record); err == nil {
			c.cache.Set(ctx, "txcheck/naptan/"+code, string(encoded))
		}
	}

	return found, missing, nil
}

func (c *Cached) InScotland(ctx context.Context, serviceRef string) (bool, error) {
	key := "txcheck/scotland/" + serviceRef

	if cached, err := c.cache.Get(ctx, key); err == nil && cached != "" {
		return cached == "true", nil
	}

	inScotland, err := c.inner.Scotland.InScotland(ctx, serviceRef)
	if err != nil {
		return false, err
	}

	value := "false"
	if inScotland {
		value = "true"
	}
	c.cache.Set(ctx, key, value)

	return inScotland, nil
}
