// Package cache provides an optional Redis-backed cache for raw API
// responses.
//
// Neither the Steam storefront nor SteamSpy sends cache headers, so entries
// live for a fixed, configurable TTL instead of honoring upstream expiry.
// The cache exists for one scenario above all: a resumed run re-fetches the
// last in-flight batch (the documented at-least-once overlap), and with the
// cache enabled those repeat requests are served locally instead of hitting
// the rate-limited APIs again.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, 24*time.Hour)
//
//	key := cache.Key{
//		Endpoint: "https://store.steampowered.com/api/appdetails",
//		Query:    url.Values{"appids": []string{"570"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API, then manager.Set(ctx, key, cache.NewEntry(body, ttl))
//	}
//
// # Metrics
//
//   - steamharvest_cache_hits_total - Responses served from Redis
//   - steamharvest_cache_misses_total - Requests that went to the network
//   - steamharvest_cache_errors_total{operation} - Cache operation errors
//
// The cache is strictly best-effort: every error degrades to a direct
// request, never to a failed fetch.
package cache
