package network

import (
	"fmt"
	"strings"
	"time"

	"maatnet.io/maat/lib/common"
)

// HTTP2NetworkConfig carries the listener settings parsed off the bind
// endpoint.
type HTTP2NetworkConfig struct {
	NodeName string
	Endpoint *common.Endpoint
	Addr     string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	TLSCertFile string
	TLSKeyFile  string
}

// NewHTTP2NetworkConfigFromEndpoint reads the server knobs from the
// endpoint's query string: `ReadTimeout`, `ReadHeaderTimeout`,
// `WriteTimeout`, `IdleTimeout`, `TLSCertFile` and `TLSKeyFile`.
func NewHTTP2NetworkConfigFromEndpoint(nodeName string, endpoint *common.Endpoint) (*HTTP2NetworkConfig, error) {
	query := endpoint.Query()

	config := &HTTP2NetworkConfig{
		NodeName:    nodeName,
		Endpoint:    endpoint,
		Addr:        endpoint.Host,
		TLSCertFile: query.Get("TLSCertFile"),
		TLSKeyFile:  query.Get("TLSKeyFile"),
	}

	for _, knob := range []struct {
		name   string
		target *time.Duration
	}{
		{"ReadTimeout", &config.ReadTimeout},
		{"ReadHeaderTimeout", &config.ReadHeaderTimeout},
		{"WriteTimeout", &config.WriteTimeout},
		{"IdleTimeout", &config.IdleTimeout},
	} {
		d, err := time.ParseDuration(common.GetUrlQuery(query, knob.name, "0s"))
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid '%s'", knob.name)
		}
		*knob.target = d
	}

	if strings.EqualFold(endpoint.Scheme, "https") && !config.IsHTTPS() {
		return nil, fmt.Errorf("https needs both `TLSCertFile` and `TLSKeyFile`")
	}

	return config, nil
}

func (config HTTP2NetworkConfig) IsHTTPS() bool {
	return config.TLSCertFile != "" && config.TLSKeyFile != ""
}

func (config HTTP2NetworkConfig) String() string {
	return string(common.MustMarshalJSON(config))
}
