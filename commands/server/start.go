package server

import (
	"flag"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/vestnet/vest/errors"
)

const (
	flagBind     = "bind"
	flagDebug    = "debug"
	flagLogLevel = "log_level"
	flagDB       = "db"
	flagMetrics  = "metrics"
)

// parseFlags applies the start flags on top of the file configuration.
func parseFlags(conf Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&conf.Bind, flagBind, conf.Bind, "address server listens on")
	startFlags.BoolVar(&conf.Debug, flagDebug, conf.Debug, "call stack returned on error")
	startFlags.StringVar(&conf.LogLevel, flagLogLevel, conf.LogLevel, "log level: debug, info, error or none")
	startFlags.StringVar(&conf.DBBackend, flagDB, conf.DBBackend, "database backend, goleveldb or memdb")
	startFlags.StringVar(&conf.MetricsAddr, flagMetrics, conf.MetricsAddr, "address prometheus metrics are served on")
	if err := startFlags.Parse(args); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	return conf, conf.Validate()
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, conf Config) (abci.Application, error)

// StartCmd initializes the application, and runs the ABCI server until
// the process receives a termination signal.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	n, err := startNode(gen, logger, home, args)
	if err != nil {
		return err
	}
	// TrapSignal exits the process once the callback returns.
	cmn.TrapSignal(logger, n.Stop)
	n.Wait()
	return nil
}

// node groups the services started by StartCmd.
type node struct {
	abci    cmn.Service
	metrics *http.Server
	once    sync.Once
	done    chan struct{}
}

// startNode loads the configuration, creates the application and starts
// serving it.
func startNode(gen AppGenerator, logger log.Logger, home string, args []string) (*node, error) {
	conf, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}
	conf, err = parseFlags(conf, args)
	if err != nil {
		return nil, err
	}
	logger, err = FilterLogger(logger, conf)
	if err != nil {
		return nil, err
	}

	app, err := gen(home, logger, conf)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind, "db", conf.DBBackend)

	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return nil, errors.Wrap(err, "create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrap(err, "start server")
	}

	n := &node{abci: svr, done: make(chan struct{})}
	if conf.MetricsAddr != "" {
		n.metrics = serveMetrics(conf.MetricsAddr, logger)
	}
	return n, nil
}

// Stop shuts down all services and releases Wait. It is safe to call more
// than once.
func (n *node) Stop() {
	n.once.Do(func() {
		n.abci.Stop()
		if n.metrics != nil {
			n.metrics.Close()
		}
		close(n.done)
	})
}

// Wait blocks until Stop is called.
func (n *node) Wait() {
	<-n.done
}

// serveMetrics exposes the default prometheus registry over http.
func serveMetrics(addr string, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", "err", err)
		}
	}()
	logger.Info("Serving metrics", "addr", addr)
	return srv
}
