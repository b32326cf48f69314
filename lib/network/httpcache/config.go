package httpcache

import (
	"errors"

	"maatnet.io/maat/lib/common"
)

// NewAdapter builds the cache backend the config names; an empty name
// means caching is off and both return values are nil.
func NewAdapter(cfg common.Config) (Adapter, error) {
	switch cfg.HTTPCacheAdapter {
	case "":
		return nil, nil
	case common.HTTPCacheMemoryAdapterName:
		size := cfg.HTTPCachePoolSize
		adapter := NewMemCacheAdapter(size)
		return adapter, nil
	case common.HTTPCacheRedisAdapterName:
		opt := &RedisRingOptions{
			Addrs: cfg.HTTPCacheRedisAddrs,
		}
		adapter := NewRedisCacheAdapter(opt)
		return adapter, nil
	default:
		return nil, errors.New("http cache adapter not found")
	}
}
