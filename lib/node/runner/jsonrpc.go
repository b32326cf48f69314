package runner

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/rpc"
	jsonrpc "github.com/gorilla/rpc/json"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/storage"
)

// maxGetIteratorLimit caps one DB.GetIterator page.
const maxGetIteratorLimit uint64 = 10000

type (
	DBEchoArgs   string
	DBEchoResult string

	DBHasArgs   string
	DBHasResult bool

	DBGetArgs   string
	DBGetResult storage.IterItem
)

type GetIteratorOptions struct {
	Reverse bool
	Cursor  []byte
	Limit   uint64
}

type DBGetIteratorArgs struct {
	Prefix  string
	Options GetIteratorOptions
}

type DBGetIteratorResult struct {
	Limit uint64
	Items []storage.IterItem
}

// dbService is the `DB` namespace of the debug rpc endpoint: raw reads over
// the node's storage, no writes.
type dbService struct {
	st *storage.LevelDBBackend
}

func (d *dbService) Echo(r *http.Request, args *DBEchoArgs, result *DBEchoResult) error {
	*result = DBEchoResult(string(*args))
	return nil
}

func (d *dbService) Has(r *http.Request, args *DBHasArgs, result *DBHasResult) error {
	found, err := d.st.Has(string(*args))
	if err != nil {
		return err
	}

	*result = DBHasResult(found)
	return nil
}

func (d *dbService) Get(r *http.Request, args *DBGetArgs, result *DBGetResult) error {
	value, err := d.st.GetRaw(string(*args))
	if err != nil {
		return err
	}

	*result = DBGetResult{Key: []byte(*args), Value: value}
	return nil
}

func (d *dbService) GetIterator(r *http.Request, args *DBGetIteratorArgs, result *DBGetIteratorResult) error {
	limit := args.Options.Limit
	if limit > maxGetIteratorLimit {
		limit = maxGetIteratorLimit
	}

	next, closeFunc := d.st.GetIterator(args.Prefix, storage.ListOptions{
		Reverse: args.Options.Reverse,
		Cursor:  args.Options.Cursor,
		Limit:   limit,
	})
	defer closeFunc()

	items := []storage.IterItem{}
	for {
		item, hasNext := next()
		if !hasNext {
			break
		}

		// the iterator reuses its buffers between steps
		items = append(items, item.Clone())
	}

	result.Items = items
	result.Limit = limit

	return nil
}

type jsonrpcServer struct {
	endpoint *common.Endpoint
	st       *storage.LevelDBBackend
}

func newJSONRPCServer(endpoint *common.Endpoint, st *storage.LevelDBBackend) *jsonrpcServer {
	return &jsonrpcServer{
		endpoint: endpoint,
		st:       st,
	}
}

// corsRPCServer lets browser debug tools call the rpc endpoint cross-origin.
type corsRPCServer struct {
	*rpc.Server
}

func (s *corsRPCServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set(
		"Access-Control-Allow-Headers",
		"Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization",
	)

	if r.Method == "OPTIONS" {
		return
	}

	s.Server.ServeHTTP(w, r)
}

func (j *jsonrpcServer) Ready() *mux.Router {
	server := &corsRPCServer{Server: rpc.NewServer()}
	server.RegisterCodec(jsonrpc.NewCodec(), "application/json")
	server.RegisterCodec(jsonrpc.NewCodec(), "application/json;charset=UTF-8")
	server.RegisterService(&dbService{st: j.st}, "DB")

	path := j.endpoint.Path
	if len(path) < 1 {
		path = "/"
	}

	router := mux.NewRouter()
	router.Handle(path, server)

	return router
}

func (j *jsonrpcServer) Start() error {
	router := j.Ready()

	var err error
	if strings.ToLower(j.endpoint.Scheme) == "http" {
		err = http.ListenAndServe(j.endpoint.Host, router)
	} else {
		certFile := j.endpoint.Query().Get("TLSCertFile")
		keyFile := j.endpoint.Query().Get("TLSKeyFile")
		err = http.ListenAndServeTLS(j.endpoint.Host, certFile, keyFile, router)
	}

	if err == http.ErrServerClosed {
		return nil
	}

	return err
}
