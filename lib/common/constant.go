package common

import (
	"time"

	"github.com/ulule/limiter"
)

const (
	// DefaultOperationTimeGap is the widest distance between an operation's
	// `Created` time and the local clock that is still accepted.
	DefaultOperationTimeGap time.Duration = time.Hour

	// HTTPCachePoolSize is the number of responses the in-memory http cache
	// keeps before evicting.
	HTTPCachePoolSize int = 10000

	// HTTPCacheAdapter names accepted by the `--http-cache-adapter` flag.
	HTTPCacheMemoryAdapterName string = "mem"
	HTTPCacheRedisAdapterName  string = "redis"
)

var (
	// RateLimitAPI is the default rate applied to the public api router.
	RateLimitAPI limiter.Rate = limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  100,
	}
)
