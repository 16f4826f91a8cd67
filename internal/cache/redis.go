package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"listing-radar/internal/aggregate"
	"listing-radar/internal/filter"
)

const generationKey = "views:generation"

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})

	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (r *RedisCache) Ping() error {
	return r.client.Ping(r.ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) SaveSession(key string, spec filter.Spec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, "session:"+key, data, sessionTTL).Err()
}

func (r *RedisCache) LoadSession(key string) (filter.Spec, bool) {
	var spec filter.Spec
	if !r.getJSON("session:"+key, &spec) {
		return filter.Spec{}, false
	}
	return spec, true
}

func (r *RedisCache) CacheViews(spec filter.Spec, views aggregate.Views) error {
	data, err := json.Marshal(views)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, r.viewsKey(spec), data, viewsTTL).Err()
}

func (r *RedisCache) GetCachedViews(spec filter.Spec) (aggregate.Views, bool) {
	var views aggregate.Views
	if !r.getJSON(r.viewsKey(spec), &views) {
		return aggregate.Views{}, false
	}
	return views, true
}

func (r *RedisCache) Invalidate() error {
	return r.client.Incr(r.ctx, generationKey).Err()
}

// CanIngest allows one ingest per source per five minutes.
func (r *RedisCache) CanIngest(source string) bool {
	key := fmt.Sprintf("rate_limit:%s", source)
	count := r.client.Incr(r.ctx, key).Val()
	if count == 1 {
		r.client.Expire(r.ctx, key, ingestLimit)
	}
	return count == 1
}

func (r *RedisCache) viewsKey(spec filter.Spec) string {
	gen, err := r.client.Get(r.ctx, generationKey).Int64()
	if err != nil {
		gen = 0
	}
	return fmt.Sprintf("views:%d:%s", gen, spec.Key())
}

func (r *RedisCache) getJSON(key string, v any) bool {
	data, err := r.client.Get(r.ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		return false
	}

	return json.Unmarshal(data, v) == nil
}

var _ Cache = (*RedisCache)(nil)
