package main

import (
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE:  runStart,
	}
	cmd.Flags().String(flagBind, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().Bool(flagDebug, false, "call stack returned on error")
	cmd.Flags().String(flagMetrics, ":26661", "address of the prometheus endpoint, empty to disable")
	return cmd
}

func runStart(cmd *cobra.Command, args []string) error {
	home, err := cmd.Flags().GetString(flagHome)
	if err != nil {
		return err
	}
	addr, err := cmd.Flags().GetString(flagBind)
	if err != nil {
		return err
	}
	debug, err := cmd.Flags().GetBool(flagDebug)
	if err != nil {
		return err
	}
	metricsAddr, err := cmd.Flags().GetString(flagMetrics)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	var metrics *app.Metrics
	if metricsAddr != "" {
		metrics = app.NewMetrics(prometheus.DefaultRegisterer)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("Starting metrics endpoint", "bind", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error("Metrics endpoint failed", "err", err)
			}
		}()
	}

	application, err := app.GenerateApp(filepath.Join(home, "data"), logger, metrics, debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", application)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "start server: %s", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	logger.Info("Stopping ABCI app", "signal", s.String())
	return svr.Stop()
}
