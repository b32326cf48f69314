package cmd

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http2"

	logging "github.com/inconshreveable/log15"
	"github.com/mattn/go-isatty"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
	"maatnet.io/maat/lib/ledger"
	"maatnet.io/maat/lib/metrics"
	"maatnet.io/maat/lib/network"
	"maatnet.io/maat/lib/node"
	"maatnet.io/maat/lib/node/runner"
	"maatnet.io/maat/lib/storage"

	cmdcommon "maatnet.io/maat/cmd/maat/common"
)

const defaultNetwork string = "https"
const defaultPort int = 12345
const defaultHost string = "0.0.0.0"
const defaultLogLevel logging.Lvl = logging.LvlInfo

var (
	flagKPSecretSeed string = common.GetENVValue("MAAT_SECRET_SEED", "")
	flagNetworkID    string = common.GetENVValue("MAAT_NETWORK_ID", "")
	flagLogLevel     string = common.GetENVValue("MAAT_LOG_LEVEL", defaultLogLevel.String())
	flagLogFormat    string = common.GetENVValue("MAAT_LOG_FORMAT", "")
	flagLogOutput    string = common.GetENVValue("MAAT_LOG_OUTPUT", "")
	flagVerbose      bool   = common.GetENVValue("MAAT_VERBOSE", "0") == "1"
	flagBindURL      string = common.GetENVValue(
		"MAAT_ENDPOINT",
		fmt.Sprintf("%s://%s:%d", defaultNetwork, defaultHost, defaultPort),
	)
	flagPublishURL          string = common.GetENVValue("MAAT_PUBLISH", "")
	flagStorageConfigString string
	flagJSONRPCBindURL      string = common.GetENVValue("MAAT_JSONRPC_BIND", "http://127.0.0.1:54321/jsonrpc")
	flagTLSCertFile         string = common.GetENVValue("MAAT_TLS_CERT", "maat.crt")
	flagTLSKeyFile          string = common.GetENVValue("MAAT_TLS_KEY", "maat.key")
	flagHTTPCacheAdapter    string = common.GetENVValue("MAAT_HTTP_CACHE_ADAPTER", "")
	flagHTTPCacheRedisAddrs string = common.GetENVValue("MAAT_HTTP_CACHE_REDIS_ADDRS", "")
	flagHTTPCachePoolSize   int
	flagRateLimitAPI        cmdcommon.ListFlags
	flagMetrics             bool   = common.GetENVValue("MAAT_METRICS", "1") == "1"
	flagSkipNTPCheck        bool   = common.GetENVValue("MAAT_SKIP_NTP_CHECK", "0") == "1"
	flagNTPServer           string = common.GetENVValue("MAAT_NTP_SERVER", common.DefaultNTPHost)
)

var (
	nodeCmd *cobra.Command

	kp                  *keypair.Full
	bindEndpoint        *common.Endpoint
	publishEndpoint     *common.Endpoint
	jsonrpcEndpoint     *common.Endpoint
	storageConfig       *storage.Config
	rateLimitRuleAPI    common.RateLimitRule
	httpCacheRedisAddrs map[string]string
	logLevel            logging.Lvl
	log                 logging.Logger
)

func init() {
	var err error
	var flagGenesis string

	nodeCmd = &cobra.Command{
		Use:   "node",
		Short: "Run maat node",
		Run: func(c *cobra.Command, args []string) {
			// If `--genesis` was provided, perform `maat genesis` before
			// starting the node. This allows one-step startup from scratch,
			// quite useful for testing
			if len(flagGenesis) != 0 {
				flagName, err := MakeGenesisLedger(flagGenesis, flagNetworkID, flagStorageConfigString)
				if len(flagName) != 0 || err != nil {
					cmdcommon.PrintFlagsError(c, flagName, err)
				}
			}

			parseFlagsNode()

			runNode()
			return
		},
	}

	// storage
	var currentDirectory string
	if currentDirectory, err = os.Getwd(); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	flagStorageConfigString = common.GetENVValue("MAAT_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	if flagHTTPCachePoolSize, err = strconv.Atoi(
		common.GetENVValue("MAAT_HTTP_CACHE_POOL_SIZE", strconv.Itoa(common.HTTPCachePoolSize)),
	); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-pool-size", err)
	}

	nodeCmd.Flags().StringVar(&flagGenesis, "genesis", flagGenesis, "performs the 'genesis' command before running node. Syntax: <public address>")
	nodeCmd.Flags().StringVar(&flagKPSecretSeed, "secret-seed", flagKPSecretSeed, "secret seed of this node")
	nodeCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	nodeCmd.Flags().StringVar(&flagBindURL, "endpoint", flagBindURL, "endpoint uri of this node to listen on")
	nodeCmd.Flags().StringVar(&flagPublishURL, "publish", flagPublishURL, "endpoint uri to announce; defaults to --endpoint")
	nodeCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	nodeCmd.Flags().StringVar(&flagJSONRPCBindURL, "jsonrpc-bind", flagJSONRPCBindURL, "jsonrpc bind endpoint uri; an empty value disables jsonrpc")
	nodeCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file")
	nodeCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file")
	nodeCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	nodeCmd.Flags().StringVar(&flagLogFormat, "log-format", flagLogFormat, "log format, {terminal, json}")
	nodeCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	nodeCmd.Flags().BoolVar(&flagVerbose, "verbose", flagVerbose, "verbose")
	nodeCmd.Flags().StringVar(&flagHTTPCacheAdapter, "http-cache-adapter", flagHTTPCacheAdapter, "http cache adapter: {mem, redis}")
	nodeCmd.Flags().StringVar(&flagHTTPCacheRedisAddrs, "http-cache-redis-addrs", flagHTTPCacheRedisAddrs, "http cache redis addresses: ex) 'server1=localhost:6379 server2=localhost:6380'")
	nodeCmd.Flags().IntVar(&flagHTTPCachePoolSize, "http-cache-pool-size", flagHTTPCachePoolSize, "http cache pool size")
	nodeCmd.Flags().Var(&flagRateLimitAPI, "rate-limit-api", fmt.Sprintf("rate limit for %s: [<ip>=]<limit>-<period>, ex) '10-S' '3.3.3.3=1000-M'", network.RouterNameAPI))
	nodeCmd.Flags().BoolVar(&flagMetrics, "metrics", flagMetrics, "publish prometheus metrics")
	nodeCmd.Flags().BoolVar(&flagSkipNTPCheck, "skip-ntp-check", flagSkipNTPCheck, "skip the clock offset check at startup")
	nodeCmd.Flags().StringVar(&flagNTPServer, "ntp-server", flagNTPServer, "ntp server the clock offset is checked against")

	rootCmd.AddCommand(nodeCmd)
}

func parseFlagRateLimit(l cmdcommon.ListFlags, defaultRate limiter.Rate) (rule common.RateLimitRule, err error) {
	if len(l) < 1 {
		rule = common.NewRateLimitRule(defaultRate)
		return
	}

	var givenRate limiter.Rate

	byIPAddress := map[string]limiter.Rate{}
	for _, s := range l {
		sl := strings.SplitN(s, "=", 2)

		var ip, r string
		if len(sl) < 2 {
			r = s
		} else {
			ip = sl[0]
			r = sl[1]
		}

		if len(ip) > 0 && net.ParseIP(ip) == nil {
			err = fmt.Errorf("invalid ip address: '%s'", ip)
			return
		}

		var rate limiter.Rate
		if rate, err = limiter.NewRateFromFormatted(strings.ToUpper(r)); err != nil {
			return
		}

		if len(ip) > 0 {
			byIPAddress[ip] = rate
		} else {
			givenRate = rate
		}
	}

	if givenRate.Period < 1 {
		givenRate = defaultRate
	}

	rule = common.NewRateLimitRule(givenRate)
	rule.ByIPAddress = byIPAddress

	return
}

func parseFlagsNode() {
	var err error

	if len(flagNetworkID) < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--network-id", errors.New("--network-id must be given"))
	}
	if len(flagKPSecretSeed) < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--secret-seed", errors.New("must be given"))
	}

	var parsedKP keypair.KP
	parsedKP, err = keypair.Parse(flagKPSecretSeed)
	if err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--secret-seed", err)
	} else {
		kp = parsedKP.(*keypair.Full)
	}

	if p, err := common.ParseEndpoint(flagBindURL); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--endpoint", err)
	} else {
		bindEndpoint = p
		flagBindURL = bindEndpoint.String()
	}

	if len(flagPublishURL) > 0 {
		if p, err := common.ParseEndpoint(flagPublishURL); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--publish", err)
		} else {
			publishEndpoint = p
			flagPublishURL = publishEndpoint.String()
		}
	}

	queries := bindEndpoint.Query()
	if strings.ToLower(bindEndpoint.Scheme) == "https" {
		if _, err = os.Stat(flagTLSCertFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(nodeCmd, "--tls-cert", err)
		}
		if _, err = os.Stat(flagTLSKeyFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(nodeCmd, "--tls-key", err)
		}

		queries.Add("TLSCertFile", flagTLSCertFile)
		queries.Add("TLSKeyFile", flagTLSKeyFile)
	}
	queries.Add("IdleTimeout", "3s")
	queries.Add("NodeName", node.MakeAlias(kp.Address()))
	bindEndpoint.RawQuery = queries.Encode()

	if storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}

	if len(flagJSONRPCBindURL) > 0 {
		if jsonrpcEndpoint, err = common.ParseEndpoint(flagJSONRPCBindURL); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--jsonrpc-bind", err)
		}
	}

	if rateLimitRuleAPI, err = parseFlagRateLimit(flagRateLimitAPI, common.RateLimitAPI); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--rate-limit-api", err)
	}

	switch flagHTTPCacheAdapter {
	case "", common.HTTPCacheMemoryAdapterName, common.HTTPCacheRedisAdapterName:
	default:
		cmdcommon.PrintFlagsError(
			nodeCmd,
			"--http-cache-adapter",
			fmt.Errorf("unknown http cache adapter: '%s'", flagHTTPCacheAdapter),
		)
	}

	httpCacheRedisAddrs = map[string]string{}
	for _, s := range strings.Fields(flagHTTPCacheRedisAddrs) {
		sl := strings.SplitN(s, "=", 2)
		if len(sl) != 2 {
			cmdcommon.PrintFlagsError(
				nodeCmd,
				"--http-cache-redis-addrs",
				fmt.Errorf("expected <name>=<host>:<port>: '%s'", s),
			)
		}
		httpCacheRedisAddrs[sl[0]] = sl[1]
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--log-level", err)
	}

	var logFormat logging.Format
	switch flagLogFormat {
	case "":
		if isatty.IsTerminal(os.Stdout.Fd()) && len(flagLogOutput) < 1 {
			logFormat = logging.TerminalFormat()
		} else {
			logFormat = common.JsonFormatEx(false, true)
		}
	case "terminal":
		logFormat = logging.TerminalFormat()
	case "json":
		logFormat = common.JsonFormatEx(false, true)
	default:
		cmdcommon.PrintFlagsError(nodeCmd, "--log-format", fmt.Errorf("'%s' is not supported", flagLogFormat))
	}

	logHandler := logging.StreamHandler(os.Stdout, logFormat)

	if len(flagLogOutput) < 1 {
		flagLogOutput = "<stdout>"
	} else {
		if logHandler, err = logging.FileHandler(flagLogOutput, logFormat); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--log-output", err)
		}
	}

	logHandler = logging.CallerFileHandler(logHandler)

	log = logging.New("module", "main")
	log.SetHandler(logging.LvlFilterHandler(logLevel, logHandler))
	common.SetLogging(logLevel, logHandler)
	network.SetLogging(logLevel, logHandler)
	ledger.SetLogging(logLevel, logHandler)
	runner.SetLogging(logLevel, logHandler)

	log.Info("Starting Maat")

	if !flagSkipNTPCheck {
		var offset time.Duration
		if offset, err = common.CheckClockOffset(flagNTPServer); err != nil {
			cmdcommon.PrintError(nodeCmd, err)
		}
		log.Info("ntp clock offset", "server", flagNTPServer, "offset", offset)
	}

	if flagMetrics {
		metrics.InitPrometheusMetrics()
		metrics.SetVersion()
	}

	// print flags
	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tnetwork-id", flagNetworkID)
	parsedFlags = append(parsedFlags, "\n\tendpoint", flagBindURL)
	parsedFlags = append(parsedFlags, "\n\tpublish", flagPublishURL)
	parsedFlags = append(parsedFlags, "\n\tstorage", flagStorageConfigString)
	parsedFlags = append(parsedFlags, "\n\tjsonrpc-bind", flagJSONRPCBindURL)
	parsedFlags = append(parsedFlags, "\n\ttls-cert", flagTLSCertFile)
	parsedFlags = append(parsedFlags, "\n\ttls-key", flagTLSKeyFile)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)
	parsedFlags = append(parsedFlags, "\n\tlog-format", flagLogFormat)
	parsedFlags = append(parsedFlags, "\n\tlog-output", flagLogOutput)
	parsedFlags = append(parsedFlags, "\n\thttp-cache-adapter", flagHTTPCacheAdapter)
	parsedFlags = append(parsedFlags, "\n\thttp-cache-pool-size", flagHTTPCachePoolSize)
	parsedFlags = append(parsedFlags, "\n\trate-limit-api", rateLimitRuleAPI)
	parsedFlags = append(parsedFlags, "\n\tmetrics", flagMetrics)

	log.Debug("parsed flags:", parsedFlags...)

	if flagVerbose {
		http2.VerboseLogs = true
	}
}

func runNode() {
	// create current Node
	localNode, err := node.NewLocalNode(kp, bindEndpoint, "")
	if err != nil {
		log.Crit("failed to launch main node", "error", err)
		os.Exit(1)
	}
	if publishEndpoint != nil {
		localNode.SetPublishEndpoint(publishEndpoint)
	}

	// create network
	networkConfig, err := network.NewHTTP2NetworkConfigFromEndpoint(localNode.Alias(), bindEndpoint)
	if err != nil {
		log.Crit("failed to create network", "error", err)
		os.Exit(1)
	}
	nt := network.NewHTTP2Network(networkConfig)

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		log.Crit("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	lg, err := ledger.NewLedger(st)
	if err != nil {
		log.Crit("failed to open the ledger; was the network initialized with 'maat genesis'?", "error", err)
		os.Exit(1)
	}

	conf := common.NewConfig([]byte(flagNetworkID))
	conf.RateLimitRuleAPI = rateLimitRuleAPI
	conf.HTTPCacheAdapter = flagHTTPCacheAdapter
	conf.HTTPCachePoolSize = flagHTTPCachePoolSize
	conf.HTTPCacheRedisAddrs = httpCacheRedisAddrs
	conf.JSONRPCEndpoint = jsonrpcEndpoint

	// Execution group.
	var g run.Group
	{
		nr, err := runner.NewNodeRunner(localNode, nt, st, lg, conf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		g.Add(func() error {
			if err := nr.Start(); err != nil {
				log.Crit("failed to start node", "error", err)
				return err
			}
			return nil
		}, func(error) {
			nr.Stop()
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return cmdcommon.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
