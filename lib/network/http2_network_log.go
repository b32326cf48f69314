package network

import (
	"net/http"

	logging "github.com/inconshreveable/log15"

	"maatnet.io/maat/lib/common"
)

// HTTP2ErrorLog15Writer funnels net/http's internal error log into log15.
type HTTP2ErrorLog15Writer struct {
	l logging.Logger
}

func (w HTTP2ErrorLog15Writer) Write(b []byte) (int, error) {
	w.l.Error("error", "error", string(b))
	return 0, nil
}

// loggingResponseWriter records status and size while delegating to the
// wrapped writer. Flush is forwarded so event streams keep working behind
// the logger.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *loggingResponseWriter) WriteHeader(status int) {
	w.ResponseWriter.WriteHeader(status)
	w.status = status
}

func (w *loggingResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// HTTP2Log15Handler logs one line when a request arrives and a second one
// once its response is written. Loosely follows gorilla/handlers' logging
// handler.
type HTTP2Log15Handler struct {
	log     logging.Logger
	handler http.Handler
}

// HeaderKeyFiltered lists request headers kept out of the request log line;
// they are logged through dedicated keys already.
var HeaderKeyFiltered = []string{
	"Content-Length",
	"Content-Type",
	"Accept",
	"Accept-Encoding",
	"User-Agent",
}

func (l HTTP2Log15Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid := common.GenerateUUID()

	l.log.Debug(
		"request",
		"content-length", r.ContentLength,
		"content-type", r.Header.Get("Content-Type"),
		"headers", filteredHeader(r.Header),
		"host", r.Host,
		"id", uid,
		"method", r.Method,
		"proto", r.Proto,
		"referer", r.Referer(),
		"remote", r.RemoteAddr,
		"uri", requestURI(r),
		"user-agent", r.UserAgent(),
	)

	writer := &loggingResponseWriter{ResponseWriter: w}
	l.handler.ServeHTTP(writer, r)

	l.log.Debug(
		"response",
		"id", uid,
		"status", writer.status,
		"size", writer.size,
	)
}

func requestURI(r *http.Request) string {
	uri := r.RequestURI
	if r.ProtoMajor == 2 && r.Method == "CONNECT" {
		uri = r.Host
	}
	if uri == "" {
		uri = r.URL.RequestURI()
	}
	return uri
}

func filteredHeader(h http.Header) http.Header {
	out := http.Header{}
	for key, value := range h {
		if _, found := common.InStringArray(HeaderKeyFiltered, key); found {
			continue
		}
		out[key] = value
	}
	return out
}
