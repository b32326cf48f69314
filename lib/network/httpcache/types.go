package httpcache

import (
	"net/http"
	"time"
)

// Adapter stores cached responses under opaque keys. Implementations
// decide eviction; the client only ever asks, stores and removes.
type Adapter interface {
	Get(key string) (*Response, bool)
	Set(key string, response *Response, expiration time.Time)
	Remove(key string)
}

// Response is a cached page: the body, status and headers it was served
// with, plus when it stops being valid. A zero `Expiration` never expires.
type Response struct {
	Value      []byte
	StatusCode int
	Header     http.Header
	Expiration time.Time
}
