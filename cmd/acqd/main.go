// Command acqd is the acquisition daemon: it loads an acquisition.yaml,
// exposes the runtime over gRPC for remote operators, and serves Prometheus
// metrics, following the gRPC-server-plus-/metrics-mux shape of
// ollama-proxy's cmd/proxy daemon.
package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/scopeacq/acquire/acqconfig"
	"github.com/scopeacq/acquire/acqlog"
	"github.com/scopeacq/acquire/rpc"
	"github.com/scopeacq/acquire/runtime"

	_ "github.com/scopeacq/acquire/drivers/nullstore"
	_ "github.com/scopeacq/acquire/drivers/rawstore"
	_ "github.com/scopeacq/acquire/drivers/simcam"
	_ "github.com/scopeacq/acquire/drivers/tiffjsonstore"
	_ "github.com/scopeacq/acquire/drivers/tiffstore"
)

var (
	configPath = flag.String("config", "acquisition.yaml", "Path to the acquisition YAML document")
	grpcAddr   = flag.String("grpc-addr", ":7701", "gRPC listen address")
	metricsAddr = flag.String("metrics-addr", ":7702", "Prometheus /metrics listen address")
	production = flag.Bool("production", false, "Use JSON (production) logging instead of console")
)

func main() {
	flag.Parse()

	logger, err := acqlog.New(*production, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "acqd: build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := acqconfig.Load(*configPath)
	if err != nil {
		logger.Error("failed to load acquisition config", zap.Error(err), zap.String("path", *configPath))
		os.Exit(1)
	}

	rt := runtime.New(logger)
	if err := rt.Init(len(cfg.Streams)); err != nil {
		logger.Error("failed to initialize runtime", zap.Error(err))
		os.Exit(1)
	}

	if len(cfg.Streams) > 0 {
		requested, err := cfg.ToRuntimeProperties()
		if err != nil {
			logger.Error("invalid acquisition config", zap.Error(err))
			os.Exit(1)
		}
		if err := rt.Configure(&requested); err != nil {
			logger.Error("initial Configure failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("configured from startup document", zap.Int("streams", len(cfg.Streams)))
	}

	grpcServer := grpc.NewServer()
	rpc.RegisterAcquisitionServer(grpcServer, rpc.NewServer(rt, logger))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", *grpcAddr)
	if err != nil {
		logger.Error("failed to listen on gRPC address", zap.String("address", *grpcAddr), zap.Error(err))
		os.Exit(1)
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("address", *grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("metrics server listening", zap.String("address", *metricsAddr))
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigChan {
		if sig == syscall.SIGHUP {
			logger.Info("received SIGHUP, reloading acquisition config")
			newCfg, err := acqconfig.Load(*configPath)
			if err != nil {
				logger.Error("failed to reload config", zap.Error(err))
				continue
			}
			requested, err := newCfg.ToRuntimeProperties()
			if err != nil {
				logger.Error("invalid reloaded config", zap.Error(err))
				continue
			}
			if err := rt.Configure(&requested); err != nil {
				logger.Error("reload Configure failed", zap.Error(err))
			}
			continue
		}

		logger.Info("shutting down", zap.String("signal", sig.String()))
		grpcServer.GracefulStop()
		if err := rt.Shutdown(); err != nil {
			logger.Error("runtime shutdown reported errors", zap.Error(err))
		}
		return
	}
}
