// Package brokercache caches the per-broker ApiVersions negotiation
// result so repeated connections to the same broker can skip a round
// trip. It layers an in-memory, TTL-bounded hot tier over an optional
// durable Badger tier, the same split the rest of this client's storage
// concerns use.
package brokercache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/rizkyandriawan/kafkaclient/internal/protocol"
)

// Cache serves cached ApiVersions results keyed by broker endpoint
// string ("host:port"). Reads check the hot tier first, then fall back
// to the durable tier (if enabled) and backfill the hot tier on a hit.
type Cache struct {
	hot     *ristretto.Cache[string, []protocol.ApiVersion]
	hotTTL  time.Duration
	durable *durableTier // nil when the durable tier is disabled
}

// Options configures Open.
type Options struct {
	// DataDir holds the durable tier's Badger files and lock file. A
	// blank DataDir disables the durable tier: only the hot tier runs.
	DataDir    string
	HotTTL     time.Duration
	GCInterval time.Duration
}

// Open builds a Cache. With a non-empty DataDir it also opens (and
// exclusively locks) the durable tier; callers must Close the returned
// Cache to release that lock.
func Open(opts Options) (*Cache, error) {
	hot, err := ristretto.NewCache(&ristretto.Config[string, []protocol.ApiVersion]{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	c := &Cache{hot: hot, hotTTL: opts.HotTTL}

	if opts.DataDir != "" {
		d, err := openDurableTier(opts.DataDir, opts.GCInterval)
		if err != nil {
			hot.Close()
			return nil, err
		}
		c.durable = d
	}

	return c, nil
}

// Get returns the cached ApiVersions for endpoint, checking the hot tier
// first and the durable tier (if any) on a miss.
func (c *Cache) Get(endpoint string) ([]protocol.ApiVersion, bool) {
	if v, ok := c.hot.Get(endpoint); ok {
		return v, true
	}

	if c.durable == nil {
		return nil, false
	}
	v, ok, err := c.durable.get(endpoint)
	if err != nil || !ok {
		return nil, false
	}
	c.hot.SetWithTTL(endpoint, v, int64(len(v)), c.hotTTL)
	return v, true
}

// Put stores versions for endpoint in the hot tier and, if enabled, the
// durable tier.
func (c *Cache) Put(endpoint string, versions []protocol.ApiVersion) {
	c.hot.SetWithTTL(endpoint, versions, int64(len(versions)), c.hotTTL)
	if c.durable != nil {
		_ = c.durable.put(endpoint, versions)
	}
}

// RunGC reclaims space in the durable tier's value log. No-op when the
// durable tier is disabled.
func (c *Cache) RunGC() error {
	if c.durable == nil {
		return nil
	}
	return c.durable.runGC()
}

// Close releases both tiers, including the durable tier's directory
// lock.
func (c *Cache) Close() error {
	c.hot.Close()
	if c.durable == nil {
		return nil
	}
	return c.durable.close()
}
