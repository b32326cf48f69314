package httpcache

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"

	"maatnet.io/maat/lib/common"
)

// Client keeps whole responses keyed by canonicalized request URL. Requests
// outside the configured methods pass through untouched, and error
// responses are only kept when their status code has a registered ttl.
type Client struct {
	adapter     Adapter
	ttl         time.Duration
	methods     map[string]bool
	statusCodes map[int]time.Duration
	logger      logging.Logger
}

type ClientOption func(c *Client) error

func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		methods:     map[string]bool{"GET": true},
		statusCodes: map[int]time.Duration{},
		logger:      common.NopLogger(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.adapter == nil {
		return nil, errors.New("cache client adapter is nil")
	}

	return c, nil
}

func WithAdapter(a Adapter) ClientOption {
	return func(c *Client) error {
		c.adapter = a
		return nil
	}
}

func WithExpire(ttl time.Duration) ClientOption {
	return func(c *Client) error {
		c.ttl = ttl
		return nil
	}
}

func WithMethods(methods ...string) ClientOption {
	return func(c *Client) error {
		for _, m := range methods {
			c.methods[m] = true
		}
		return nil
	}
}

func WithStatusCode(code int, ttl time.Duration) ClientOption {
	return func(c *Client) error {
		c.statusCodes[code] = ttl
		return nil
	}
}

func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !c.serve(next, w, r) {
			c.logger.Debug("request not cacheable", "url", r.URL.String())
			next.ServeHTTP(w, r)
		}
	})
}

func (c *Client) WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc {
	wrapped := c.Middleware(http.HandlerFunc(handlerFunc))
	return func(w http.ResponseWriter, r *http.Request) {
		wrapped.ServeHTTP(w, r)
	}
}

// serve answers from the cache, or records the downstream response and
// stores it. It reports false when the request method is not cached at all.
func (c *Client) serve(next http.Handler, w http.ResponseWriter, r *http.Request) bool {
	if !c.methods[r.Method] {
		return false
	}

	canonicalQuery(r.URL)
	key := r.URL.String()

	if cached, ok := c.adapter.Get(key); ok {
		if cached.Expiration.IsZero() || cached.Expiration.After(time.Now()) {
			writeResponse(w, cached.StatusCode, cached.Header, cached.Value)
			c.logger.Debug("cache hit", "url", key)
			return true
		}
		// stale; rebuild below
		c.adapter.Remove(key)
	}

	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, r)

	result := rec.Result()
	body := rec.Body.Bytes()

	if expireAt, ok := c.expiryFor(result.StatusCode); ok {
		c.adapter.Set(key, &Response{
			Value:      body,
			StatusCode: result.StatusCode,
			Header:     result.Header,
			Expiration: expireAt,
		}, expireAt)
		c.logger.Debug("response cached", "url", key, "code", result.StatusCode, "expire", expireAt)
	}

	writeResponse(w, result.StatusCode, result.Header, body)
	return true
}

// expiryFor decides whether a response with this status code is stored, and
// until when. A zero deadline means it never expires.
func (c *Client) expiryFor(code int) (time.Time, bool) {
	if ttl, ok := c.statusCodes[code]; ok {
		return deadline(ttl), true
	}
	if code < 400 {
		return deadline(c.ttl), true
	}

	return time.Time{}, false
}

func deadline(ttl time.Duration) time.Time {
	if ttl == 0 {
		return time.Time{}
	}

	return time.Now().Add(ttl)
}

func writeResponse(w http.ResponseWriter, code int, header http.Header, body []byte) {
	for k, v := range header {
		w.Header().Set(k, strings.Join(v, ","))
	}
	w.WriteHeader(code)
	w.Write(body)
}

// canonicalQuery sorts multi-valued query params so two spellings of the
// same request share one cache key.
func canonicalQuery(u *url.URL) {
	params := u.Query()
	for _, p := range params {
		sort.Strings(p)
	}
	u.RawQuery = params.Encode()
}
