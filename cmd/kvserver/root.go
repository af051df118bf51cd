package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sabouaram/rdiskv/config"
	"github.com/sabouaram/rdiskv/engine"
	"github.com/sabouaram/rdiskv/logger"
	"github.com/sabouaram/rdiskv/metrics"
	"github.com/sabouaram/rdiskv/server"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "kvserver",
	Short:        "A single-node in-memory key-value server.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
}

// Execute runs the root command; callers treat any returned error as a
// reason to exit non-zero.
func Execute() error {
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, cfg.ParsedLogLevel())
	coll := metrics.NewCollector()

	eng := engine.New(cfg.ChannelCapacity, engine.WithLogger(log), engine.WithMetrics(coll))
	srv := server.New(cfg.ListenAddr, eng, log, coll)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startMetricsServer(ctx, cfg.MetricsAddr, coll, log)
	watchConfig(cfgFile, log)

	log.WithFields(logger.Fields{"addr": cfg.ListenAddr}).Info("kvserver starting")
	return srv.Run(ctx)
}

func startMetricsServer(ctx context.Context, addr string, coll *metrics.Collector, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", coll.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", err)
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
}

func watchConfig(path string, log logger.Logger) {
	if path == "" {
		return
	}
	errs, err := config.Watch(path, func(cfg config.Config) {
		log.SetLevel(cfg.ParsedLogLevel())
		log.Info("configuration reloaded")
	})
	if err != nil {
		log.Error("config watch not started", err)
		return
	}
	go func() {
		for e := range errs {
			log.Error("config reload rejected", e)
		}
	}()
}
