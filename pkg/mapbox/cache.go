package mapbox

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	cacheSize = 512
	cacheTTL  = 5 * time.Minute
)

// responseCache holds raw response bodies keyed by request URL. Retrieve
// and geocode responses change rarely; a short TTL keeps repeat searches
// from re-billing identical provider calls.
type responseCache struct {
	lru *expirable.LRU[string, []byte]
}

func newResponseCache() *responseCache {
	return &responseCache{
		lru: expirable.NewLRU[string, []byte](cacheSize, nil, cacheTTL),
	}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	return c.lru.Get(key)
}

func (c *responseCache) set(key string, body []byte) {
	c.lru.Add(key, body)
}
