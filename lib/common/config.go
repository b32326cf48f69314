package common

import (
	"fmt"
	"time"

	"github.com/ulule/limiter"
)

//
// Config carries the node-wide knobs that are not derivable from storage:
// the network id every operation signature is scoped to, the acceptable
// envelope time window and the settings of the outer HTTP surface.
//
type Config struct {
	NetworkID []byte

	// OperationTimeGap is the maximum distance between an operation's
	// `Created` time and the local clock before it is rejected.
	OperationTimeGap time.Duration

	RateLimitRuleAPI RateLimitRule

	HTTPCacheAdapter    string
	HTTPCachePoolSize   int
	HTTPCacheRedisAddrs map[string]string

	JSONRPCEndpoint *Endpoint
}

func NewConfig(networkID []byte) Config {
	p := Config{}

	p.NetworkID = networkID
	p.OperationTimeGap = DefaultOperationTimeGap

	p.RateLimitRuleAPI = NewRateLimitRule(RateLimitAPI)

	p.HTTPCachePoolSize = HTTPCachePoolSize

	return p
}

// RateLimitRule is the default limit plus per-client exceptions keyed by ip
// address.
type RateLimitRule struct {
	Default     limiter.Rate
	ByIPAddress map[string]limiter.Rate
}

func NewRateLimitRule(rate limiter.Rate) RateLimitRule {
	return RateLimitRule{
		Default:     rate,
		ByIPAddress: map[string]limiter.Rate{},
	}
}

func (r RateLimitRule) IsZero() bool {
	return r.Default.Limit == 0 && len(r.ByIPAddress) == 0
}

// FormatRateLimitRate renders a rate in the notation the rate-limit flags
// accept, e.g. `100-M`.
func FormatRateLimitRate(rate limiter.Rate) string {
	if len(rate.Formatted) > 0 {
		return rate.Formatted
	}

	var period string
	switch rate.Period {
	case time.Second:
		period = "S"
	case time.Minute:
		period = "M"
	case time.Hour:
		period = "H"
	default:
		return fmt.Sprintf("%d-%s", rate.Limit, rate.Period)
	}

	return fmt.Sprintf("%d-%s", rate.Limit, period)
}
