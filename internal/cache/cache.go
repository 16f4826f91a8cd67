package cache

import (
	"time"

	"github.com/sirupsen/logrus"

	"listing-radar/internal/aggregate"
	"listing-radar/internal/filter"
)

const (
	viewsTTL    = 10 * time.Minute
	sessionTTL  = 30 * 24 * time.Hour
	ingestLimit = 5 * time.Minute
)

// Cache keeps per-user filter sessions and computed views. Views are keyed by
// spec and by a data generation that Invalidate bumps after new listings are
// stored.
type Cache interface {
	SaveSession(key string, spec filter.Spec) error
	LoadSession(key string) (filter.Spec, bool)
	CacheViews(spec filter.Spec, views aggregate.Views) error
	GetCachedViews(spec filter.Spec) (aggregate.Views, bool)
	Invalidate() error
	CanIngest(source string) bool
}

// Connect returns a redis-backed cache, or an in-process one when redis does
// not answer.
func Connect(addr string, logger *logrus.Logger) Cache {
	redisCache := NewRedisCache(addr)
	if err := redisCache.Ping(); err != nil {
		logger.WithError(err).WithField("addr", addr).Warn("Redis is unavailable, using in-process cache")
		return NewLocalCache()
	}
	logger.WithField("addr", addr).Info("Redis connected")
	return redisCache
}
