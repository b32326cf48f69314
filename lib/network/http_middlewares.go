package network

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/middleware/stdlib"
	"github.com/ulule/limiter/drivers/store/memory"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/metrics"
	"maatnet.io/maat/lib/network/httputils"
)

func RecoverMiddleware(logger logging.Logger) mux.MiddlewareFunc {
	if logger == nil {
		logger = log
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rc := recover(); rc != nil {
					err, ok := rc.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", rc)
					}
					logger.Error("recover a panic", "err", err, "stack", string(debug.Stack()))
					httputils.WriteJSONError(w, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware tags every request with an id so the log lines of one
// request can be tied together. A client-supplied `X-Request-Id` is kept.
func RequestIDMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if len(id) < 1 {
				id = uuid.New().String()
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			next.ServeHTTP(w, r)
		})
	}
}

// MetricsMiddleware measures every request of the router it is attached to.
// The endpoint label is the matched route template, not the raw url, so the
// label cardinality stays bounded.
func MetricsMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			endpoint := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					endpoint = tpl
				}
			}

			sw := &statusWriter{ResponseWriter: w}
			began := time.Now()
			next.ServeHTTP(sw, r)

			status := strconv.Itoa(sw.Status())
			metrics.API.ObserveRequest(endpoint, r.Method, status, time.Since(began).Seconds())
			if sw.Status() >= 400 {
				metrics.API.IncRequestErrors(endpoint, r.Method, status)
			}
		})
	}
}

// statusWriter remembers the status code written by the handler. It keeps
// implementing http.Flusher so the event stream handlers still work behind
// the middleware.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// RateLimitMiddleware throttles clients by remote ip address; the rule's
// `ByIPAddress` entries override the default rate per client. A zero rule
// disables throttling.
func RateLimitMiddleware(logger logging.Logger, rule common.RateLimitRule) mux.MiddlewareFunc {
	if logger == nil {
		logger = log
	}

	var defaultMiddleware *stdlib.Middleware
	if rule.Default.Limit > 0 {
		defaultMiddleware = stdlib.NewMiddleware(limiter.New(memory.NewStore(), rule.Default))
	}

	byIPAddress := map[string]*stdlib.Middleware{}
	for ip, rate := range rule.ByIPAddress {
		byIPAddress[ip] = stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			middleware := defaultMiddleware

			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				if m, found := byIPAddress[host]; found {
					middleware = m
				}
			} else {
				logger.Debug("failed to split remote address", "remote", r.RemoteAddr, "err", err)
			}

			if middleware == nil {
				next.ServeHTTP(w, r)
				return
			}

			middleware.Handler(next).ServeHTTP(w, r)
		})
	}
}
