package network

import (
	goLog "log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"golang.org/x/net/http2"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/errors"
)

const (
	RouterNameAPI    = "api"
	RouterNameMetric = "metric"
	RouterNameDebug  = "debug"
)

// Url path prefixes mirror the router names one to one.
const (
	UrlPathPrefixAPI    = "/" + RouterNameAPI
	UrlPathPrefixMetric = "/" + RouterNameMetric
	UrlPathPrefixDebug  = "/" + RouterNameDebug
)

var namedRouters = []struct {
	name   string
	prefix string
}{
	{RouterNameAPI, UrlPathPrefixAPI},
	{RouterNameMetric, UrlPathPrefixMetric},
	{RouterNameDebug, UrlPathPrefixDebug},
}

// HTTP2Network is the outward HTTP surface of the node. Handlers land on one
// of the named subrouters so middlewares can be scoped per surface.
type HTTP2Network struct {
	tlsCertFile string
	tlsKeyFile  string

	server    *http.Server
	router    *mux.Router
	rootRoute *mux.Route

	ready bool

	routers map[string]*mux.Router

	config *HTTP2NetworkConfig
	log    logging.Logger
}

func NewHTTP2Network(config *HTTP2NetworkConfig) *HTTP2Network {
	httpLog := log.New(logging.Ctx{"module": "http", "node": config.NodeName})

	server := &http.Server{
		Addr:              config.Addr,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		ErrorLog:          goLog.New(HTTP2ErrorLog15Writer{httpLog}, "", 0),
	}
	server.SetKeepAlivesEnabled(true)
	http2.ConfigureServer(server, &http2.Server{IdleTimeout: config.IdleTimeout})

	hn := &HTTP2Network{
		tlsCertFile: config.TLSCertFile,
		tlsKeyFile:  config.TLSKeyFile,
		server:      server,
		router:      mux.NewRouter(),
		routers:     map[string]*mux.Router{},
		config:      config,
		log:         httpLog,
	}
	for _, nr := range namedRouters {
		hn.routers[nr.name] = hn.router.PathPrefix(nr.prefix).Subrouter()
	}
	hn.mountRootRoute()

	return hn
}

func (hn *HTTP2Network) Endpoint() *common.Endpoint {
	return hn.config.Endpoint
}

// The root route answers 503 until `Ready` flips the flag; the route itself
// stays registered so `AddHandler("/", ...)` can claim it later.
func (hn *HTTP2Network) mountRootRoute() {
	hn.rootRoute = hn.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !hn.ready {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})

	hn.server.Handler = HTTP2Log15Handler{log: hn.log, handler: hn.router}
}

// AddMiddleware attaches mws to the named subrouter, or to the base router
// when routerName is empty.
func (hn *HTTP2Network) AddMiddleware(routerName string, mws ...mux.MiddlewareFunc) error {
	target := hn.router
	if routerName != "" {
		sub, ok := hn.routers[routerName]
		if !ok {
			return errors.HTTPRouterNotFound
		}
		target = sub
	}

	for _, mw := range mws {
		target.Use(mw)
	}
	return nil
}

// AddHandler registers handler under pattern. Patterns under a named prefix
// land on that subrouter; a trailing `*` registers a path prefix instead of
// an exact path; "" and "/" claim the root route.
func (hn *HTTP2Network) AddHandler(pattern string, handler http.HandlerFunc) *mux.Route {
	for _, nr := range namedRouters {
		if !strings.HasPrefix(pattern, nr.prefix) {
			continue
		}

		sub := hn.routers[nr.name]
		rest := pattern[len(nr.prefix):]
		if strings.HasSuffix(rest, "*") {
			return sub.PathPrefix(strings.TrimSuffix(rest, "*")).Handler(handler)
		}
		return sub.HandleFunc(rest, handler)
	}

	if pattern == "" || pattern == "/" {
		return hn.rootRoute.Handler(handler)
	}
	return hn.router.HandleFunc(pattern, handler)
}

func (hn *HTTP2Network) Ready() error {
	hn.ready = true
	return nil
}

// IsReady probes the root route; anything but a 200 means the node is still
// holding requests off.
func (hn *HTTP2Network) IsReady() bool {
	client, err := common.NewHTTP2Client(50*time.Millisecond, 50*time.Millisecond, false)
	if err != nil {
		return false
	}
	defer client.Close()

	resp, err := client.Get(hn.Endpoint().String(), nil)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (hn *HTTP2Network) Start() error {
	var err error
	if strings.EqualFold(hn.config.Endpoint.Scheme, "http") {
		err = hn.server.ListenAndServe()
	} else {
		err = hn.server.ListenAndServeTLS(hn.tlsCertFile, hn.tlsKeyFile)
	}
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (hn *HTTP2Network) Stop() {
	hn.server.Close()
}
