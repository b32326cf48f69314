// NodeRunner ties one process's pieces together: the local node identity,
// the http server, the storage and the governance ledger. Unit tests treat
// one NodeRunner as one node.
package runner

import (
	"net/http"
	"net/http/pprof"
	"time"

	ghandlers "github.com/gorilla/handlers"
	logging "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/ledger"
	"maatnet.io/maat/lib/network"
	"maatnet.io/maat/lib/network/httpcache"
	"maatnet.io/maat/lib/node"
	"maatnet.io/maat/lib/node/runner/api"
	"maatnet.io/maat/lib/storage"
)

type NodeRunner struct {
	localNode *node.LocalNode
	network   *network.HTTP2Network
	storage   *storage.LevelDBBackend
	ledger    *ledger.Ledger
	cache     *httpcache.Client

	log logging.Logger

	Conf     common.Config
	nodeInfo node.NodeInfo
}

func NewNodeRunner(
	localNode *node.LocalNode,
	n *network.HTTP2Network,
	st *storage.LevelDBBackend,
	lg *ledger.Ledger,
	conf common.Config,
) (*NodeRunner, error) {
	nr := &NodeRunner{
		localNode: localNode,
		network:   n,
		storage:   st,
		ledger:    lg,
		log:       log.New(logging.Ctx{"node": localNode.Alias()}),
		Conf:      conf,
	}
	nr.localNode.SetBooting()

	// the ledger refuses to open over un-genesis'd storage, so the
	// administrator is always there by now
	admin, err := lg.Administrator()
	if err != nil {
		return nil, err
	}
	nr.log.Debug("administrator found", "address", admin)

	adapter, err := httpcache.NewAdapter(conf)
	if err != nil {
		return nil, err
	}
	if adapter != nil {
		nr.cache, err = httpcache.NewClient(
			httpcache.WithAdapter(adapter),
			httpcache.WithExpire(HTTPCacheProposalsExpire),
			httpcache.WithLogger(nr.log),
		)
		if err != nil {
			return nil, err
		}
		nr.log.Debug("http cache enabled", "adapter", conf.HTTPCacheAdapter)
	}

	nr.nodeInfo = NewNodeInfo(nr)

	return nr, nil
}

// Ready mounts all middlewares and handlers and opens the ready gate; after
// this the server answers with real responses instead of 503.
func (nr *NodeRunner) Ready() {
	rateLimit := network.RateLimitMiddleware(nr.log, nr.Conf.RateLimitRuleAPI)
	for _, routerName := range []string{network.RouterNameAPI, network.RouterNameMetric, network.RouterNameDebug} {
		if err := nr.network.AddMiddleware(routerName, rateLimit); err != nil {
			nr.log.Error("failed to install rate limit middleware", "router", routerName, "err", err)
			return
		}
	}

	if err := nr.network.AddMiddleware(network.RouterNameAPI, network.MetricsMiddleware()); err != nil {
		nr.log.Error("failed to install metrics middleware", "err", err)
		return
	}

	// middlewares on the base router reach every sub router
	if err := nr.network.AddMiddleware("", network.RecoverMiddleware(nr.log), network.RequestIDMiddleware()); err != nil {
		nr.log.Error("failed to install base middlewares", "err", err)
		return
	}

	cors := ghandlers.CORS(
		ghandlers.AllowedOrigins([]string{"*"}),
		ghandlers.AllowedMethods([]string{"GET", "POST"}),
		ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control", "Access-Control"}),
	)
	if err := nr.network.AddMiddleware(network.RouterNameAPI, cors); err != nil {
		nr.log.Error("failed to install cors middleware", "err", err)
		return
	}

	nr.network.AddHandler(network.UrlPathPrefixMetric, promhttp.Handler().ServeHTTP)

	apiHandler := api.NewNetworkHandlerAPI(
		nr.localNode,
		nr.storage,
		nr.ledger,
		network.UrlPathPrefixAPI,
		nr.Conf,
		nr.nodeInfo,
	)

	get := func(pattern string, h http.HandlerFunc) {
		nr.network.AddHandler(apiHandler.HandlerURLPattern(pattern), h).Methods("GET", "OPTIONS")
	}
	post := func(pattern string, h http.HandlerFunc) {
		nr.network.AddHandler(apiHandler.HandlerURLPattern(pattern), h).
			Methods("POST", "OPTIONS").
			MatcherFunc(common.PostAndJSONMatcher)
	}

	proposals := http.HandlerFunc(apiHandler.GetProposalsHandler)
	if nr.cache != nil {
		proposals = nr.cache.WrapHandlerFunc(apiHandler.GetProposalsHandler)
	}

	get(api.GetProposalsHandlerPattern, proposals)
	get(api.GetProposalHandlerPattern, apiHandler.GetProposalHandler)
	get(api.GetProposalVotesHandlerPattern, apiHandler.GetVotesByProposalHandler)
	get(api.GetProposalVoteHandlerPattern, apiHandler.GetVoteByVoterHandler)
	get(api.GetProposalTallyHandlerPattern, apiHandler.GetProposalTallyHandler)
	get(api.GetAdministratorHandlerPattern, apiHandler.GetAdministratorHandler)
	post(api.PostOperationsPattern, apiHandler.PostOperationsHandler)
	post(api.PostSubscribePattern, apiHandler.PostSubscribeHandler)

	if DebugPProf {
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/cmdline", pprof.Cmdline)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/profile", pprof.Profile)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/symbol", pprof.Symbol)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/trace", pprof.Trace)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/*", pprof.Index)
	}

	nr.network.AddHandler(api.GetNodeInfoPattern, apiHandler.GetNodeInfoHandler).Methods("GET")

	nr.network.Ready()
}

func (nr *NodeRunner) Start() error {
	nr.log.Debug("NodeRunner started")
	nr.Ready()

	go nr.watchReady()

	if nr.Conf.JSONRPCEndpoint != nil {
		js := newJSONRPCServer(nr.Conf.JSONRPCEndpoint, nr.storage)
		go func() {
			if err := js.Start(); err != nil {
				nr.log.Error("failed to run jsonrpc server", "err", err)
			}
		}()
		nr.log.Debug("jsonrpc server started", "bind", nr.Conf.JSONRPCEndpoint)
	}

	return nr.network.Start()
}

func (nr *NodeRunner) Stop() {
	nr.localNode.SetTerminating()
	nr.network.Stop()
}

// watchReady flips the node to RUNNING once the network answers requests.
func (nr *NodeRunner) watchReady() {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if nr.network.IsReady() {
			break
		}
	}

	nr.localNode.SetRunning()
	nr.log.Debug("current node is ready")
}

func (nr *NodeRunner) Node() *node.LocalNode {
	return nr.localNode
}

func (nr *NodeRunner) NetworkID() []byte {
	return nr.Conf.NetworkID
}

func (nr *NodeRunner) Network() *network.HTTP2Network {
	return nr.network
}

func (nr *NodeRunner) Ledger() *ledger.Ledger {
	return nr.ledger
}

func (nr *NodeRunner) Storage() *storage.LevelDBBackend {
	return nr.storage
}

func (nr *NodeRunner) Log() logging.Logger {
	return nr.log
}

func (nr *NodeRunner) NodeInfo() node.NodeInfo {
	return nr.nodeInfo
}
