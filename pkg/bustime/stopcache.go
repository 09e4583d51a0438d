package bustime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/buswatch/buswatch/pkg/redis_client"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
)

// StopCache is an optional cross-request cache of single-stop lookups.
// Static stop records change on the order of schedule picks, so a long
// expiry is fine. Backed by Redis so it stays safe under concurrent
// requests.
type StopCache struct {
	cache *cache.Cache[string]
}

// NewStopCache requires redis_client.Connect to have succeeded first.
func NewStopCache() *StopCache {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(12*time.Hour))

	return &StopCache{
		cache: cache.New[string](redisStore),
	}
}

func (s *StopCache) Get(ctx context.Context, stopID string) (*StopReference, bool) {
	cacheValue, err := s.cache.Get(ctx, cacheKey(stopID))
	if err != nil {
		return nil, false
	}

	var stop StopReference
	if err := json.Unmarshal([]byte(cacheValue), &stop); err != nil {
		return nil, false
	}

	return &stop, true
}

func (s *StopCache) Set(ctx context.Context, stopID string, stop *StopReference) {
	stopJSON, err := json.Marshal(stop)
	if err != nil {
		return
	}

	s.cache.Set(ctx, cacheKey(stopID), string(stopJSON))
}

func cacheKey(stopID string) string {
	return "buswatch:stop:" + stopID
}
