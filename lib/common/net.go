package common

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var DefaultEndpointPort = 12345

// Endpoint is a url with the node conventions baked in: scheme required,
// port defaulted, host normalized. Extra settings ride in the query string.
type Endpoint url.URL

func NewEndpointFromURL(u *url.URL) *Endpoint {
	return (*Endpoint)(u)
}

func NewEndpointFromString(s string) (*Endpoint, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	return NewEndpointFromURL(u), nil
}

// String keeps only scheme, host and path; settings passed through the query
// string stay out of the printable form.
func (e *Endpoint) String() string {
	return (&url.URL{
		Scheme: e.Scheme,
		Host:   e.Host,
		Path:   e.Path,
	}).String()
}

func (e *Endpoint) Query() url.Values {
	return (*url.URL)(e).Query()
}

func (e *Endpoint) UnmarshalJSON(b []byte) error {
	s := string(b)
	parsed, err := ParseEndpoint(s[1 : len(s)-1])
	if err != nil {
		return err
	}

	*e = *parsed
	return nil
}

func (e *Endpoint) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(e.String())), nil
}

// ParseEndpoint normalizes an endpoint string: the scheme is mandatory, a
// missing port becomes `DefaultEndpointPort`, empty and loopback hosts
// become localhost, the host is lowercased. `memory://` urls only get the
// scheme check.
func ParseEndpoint(endpoint string) (*Endpoint, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" {
		return nil, errors.New("missing scheme")
	}

	if parsed.Scheme != "memory" {
		if parsed.Port() == "" {
			parsed.Host = fmt.Sprintf("%s:%d", parsed.Host, DefaultEndpointPort)
		}

		port, err := strconv.ParseInt(parsed.Port(), 10, 64)
		if err != nil {
			return nil, err
		}
		if port < 1 {
			return nil, errors.New("invalid port")
		}

		if parsed.Hostname() == "" || strings.HasPrefix(parsed.Host, "127.0.") {
			parsed.Host = fmt.Sprintf("localhost:%s", parsed.Port())
		}
	}

	parsed.Host = strings.ToLower(parsed.Host)

	return (*Endpoint)(parsed), nil
}
