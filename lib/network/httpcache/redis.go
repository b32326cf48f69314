package httpcache

import (
	"time"

	redisCache "github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack"
)

// RedisCacheAdapter shares cached pages across node processes through a
// redis ring, with msgpack-encoded values.
type RedisCacheAdapter struct {
	codec *redisCache.Codec
}

type RedisRingOptions redis.RingOptions

func NewRedisCacheAdapter(opt *RedisRingOptions) *RedisCacheAdapter {
	ringOpt := redis.RingOptions(*opt)

	return &RedisCacheAdapter{
		codec: &redisCache.Codec{
			Redis:     redis.NewRing(&ringOpt),
			Marshal:   msgpack.Marshal,
			Unmarshal: msgpack.Unmarshal,
		},
	}
}

func (r *RedisCacheAdapter) Get(key string) (*Response, bool) {
	var resp Response
	if err := r.codec.Get(key, &resp); err != nil {
		return nil, false
	}

	return &resp, true
}

func (r *RedisCacheAdapter) Set(key string, resp *Response, expire time.Time) {
	var ttl time.Duration
	if !expire.IsZero() {
		ttl = time.Until(expire)
	}

	r.codec.Set(&redisCache.Item{
		Key:        key,
		Object:     resp,
		Expiration: ttl,
	})
}

func (r *RedisCacheAdapter) Remove(key string) {
	r.codec.Delete(key)
}
