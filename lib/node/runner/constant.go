package runner

import (
	"time"
)

var (
	// HTTPCacheProposalsExpire bounds the staleness of the cached proposals
	// list. The list is the only endpoint whose response is cached; every
	// other resource is read straight from storage on each request.
	HTTPCacheProposalsExpire time.Duration = 10 * time.Second
)
