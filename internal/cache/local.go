package cache

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jellydator/ttlcache/v3"

	"listing-radar/internal/aggregate"
	"listing-radar/internal/filter"
)

// LocalCache is the in-process Cache used when redis is not reachable. State
// is lost on restart.
type LocalCache struct {
	sessions   *ttlcache.Cache[string, filter.Spec]
	views      *ttlcache.Cache[string, aggregate.Views]
	ingests    *ttlcache.Cache[string, struct{}]
	generation atomic.Int64
	ingestMu   sync.Mutex
}

func NewLocalCache() *LocalCache {
	c := &LocalCache{
		sessions: ttlcache.New(
			ttlcache.WithTTL[string, filter.Spec](sessionTTL),
		),
		views: ttlcache.New(
			ttlcache.WithTTL[string, aggregate.Views](viewsTTL),
			ttlcache.WithDisableTouchOnHit[string, aggregate.Views](),
		),
		ingests: ttlcache.New(
			ttlcache.WithTTL[string, struct{}](ingestLimit),
			ttlcache.WithDisableTouchOnHit[string, struct{}](),
		),
	}

	go c.sessions.Start()
	go c.views.Start()
	go c.ingests.Start()
	return c
}

func (c *LocalCache) Close() {
	c.sessions.Stop()
	c.views.Stop()
	c.ingests.Stop()
}

func (c *LocalCache) SaveSession(key string, spec filter.Spec) error {
	c.sessions.Set(key, spec, ttlcache.DefaultTTL)
	return nil
}

func (c *LocalCache) LoadSession(key string) (filter.Spec, bool) {
	item := c.sessions.Get(key)
	if item == nil {
		return filter.Spec{}, false
	}
	return item.Value(), true
}

func (c *LocalCache) CacheViews(spec filter.Spec, views aggregate.Views) error {
	c.views.Set(c.viewsKey(spec), views, ttlcache.DefaultTTL)
	return nil
}

func (c *LocalCache) GetCachedViews(spec filter.Spec) (aggregate.Views, bool) {
	item := c.views.Get(c.viewsKey(spec))
	if item == nil {
		return aggregate.Views{}, false
	}
	return item.Value(), true
}

func (c *LocalCache) Invalidate() error {
	c.generation.Add(1)
	c.views.DeleteAll()
	return nil
}

func (c *LocalCache) CanIngest(source string) bool {
	c.ingestMu.Lock()
	defer c.ingestMu.Unlock()

	if c.ingests.Has(source) {
		return false
	}
	c.ingests.Set(source, struct{}{}, ttlcache.DefaultTTL)
	return true
}

func (c *LocalCache) viewsKey(spec filter.Spec) string {
	return fmt.Sprintf("%d:%s", c.generation.Load(), spec.Key())
}

var _ Cache = (*LocalCache)(nil)
