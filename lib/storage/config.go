package storage

import (
	"net/url"
	"strings"

	"maatnet.io/maat/lib/errors"
)

// Config points the backend at its physical location; `memory://` keeps
// everything in process, `file:///path` opens a leveldb directory.
type Config url.URL

func NewConfigFromString(s string) (config *Config, err error) {
	var u *url.URL
	if u, err = url.Parse(s); err != nil {
		err = errors.InvalidStorageConfig.Clone().SetData("error", err.Error())
		return
	}
	u.Scheme = strings.ToLower(u.Scheme)

	switch u.Scheme {
	case "memory", "file":
	default:
		err = errors.InvalidStorageConfig.Clone().SetData("scheme", u.Scheme)
		return
	}

	config = (*Config)(u)
	return
}

func (c *Config) String() string {
	return (*url.URL)(c).String()
}
