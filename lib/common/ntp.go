package common

import (
	"time"

	"github.com/beevik/ntp"
	"github.com/pkg/errors"
)

const DefaultNTPHost = "pool.ntp.org"

// MaxClockOffset is the largest local clock drift tolerated at node start;
// proposal and vote timestamps come from this clock.
var MaxClockOffset = 1 * time.Minute

func CheckClockOffset(host string) (time.Duration, error) {
	if len(host) < 1 {
		host = DefaultNTPHost
	}

	r, err := ntp.Query(host)
	if err != nil {
		return 0, errors.Wrapf(err, "ntp query to '%s' failed", host)
	}
	if err := r.Validate(); err != nil {
		return 0, errors.Wrap(err, "ntp response is not valid")
	}

	offset := r.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > MaxClockOffset {
		return r.ClockOffset, errors.Errorf("local clock is off by %s; the limit is %s", r.ClockOffset, MaxClockOffset)
	}

	return r.ClockOffset, nil
}
