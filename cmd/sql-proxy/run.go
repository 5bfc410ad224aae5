package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apiserver "github.com/streamops/flink-sql-proxy/internal/api_server"
	"github.com/streamops/flink-sql-proxy/internal/cache"
	"github.com/streamops/flink-sql-proxy/internal/config"
	"github.com/streamops/flink-sql-proxy/internal/events"
	"github.com/streamops/flink-sql-proxy/internal/flink"
	"github.com/streamops/flink-sql-proxy/internal/service"
	"github.com/streamops/flink-sql-proxy/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sql proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}
		if logLevel != "" {
			cfg.Service.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			zap.S().Fatalw("validating configuration", "error", err)
		}

		logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel))
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Named("sql-proxy").Infof("Starting Flink SQL proxy targeting %s", cfg.Flink.RestURL)
		defer zap.S().Named("sql-proxy").Info("Flink SQL proxy stopped")

		client := flink.NewClient(cfg.Flink.RestURL, cfg.Flink.ApplicationName,
			flink.WithTimeout(cfg.HTTPTimeout()))
		defer client.Close()

		resolverOpts := []flink.ResolverOption{}
		if cfg.Flink.JobID != "" {
			resolverOpts = append(resolverOpts, flink.WithPinnedJob(cfg.Flink.JobID))
		}
		if cfg.Flink.JarPath != "" {
			resolverOpts = append(resolverOpts, flink.WithLauncher(cfg.Flink.JarPath, cfg.Flink.EntryClass, cfg.Flink.ProgramArgs))
		}
		resolver := flink.NewResolver(client, resolverOpts...)

		dispatcherOpts := []flink.DispatcherOption{
			flink.WithDispatchTimeout(cfg.HTTPTimeout()),
		}
		if cfg.Flink.StatementEndpoint != "" {
			dispatcherOpts = append(dispatcherOpts, flink.WithStatementEndpoint(cfg.Flink.StatementEndpoint))
		}
		if cfg.Flink.LogsBaseURL != "" {
			dispatcherOpts = append(dispatcherOpts, flink.WithLogsBaseURL(cfg.Flink.LogsBaseURL))
		}
		dispatcher := flink.NewDispatcher(client, dispatcherOpts...)
		defer dispatcher.Close()

		producerOpts := []events.ProducerOptions{}
		if cfg.Service.EventsTopic != "" {
			producerOpts = append(producerOpts, events.WithOutputTopic(cfg.Service.EventsTopic))
		}
		producer := events.NewEventProducer(&events.StdoutWriter{}, producerOpts...)
		defer func() { _ = producer.Close() }()

		statementService := service.NewStatementService(resolver, dispatcher, producer)
		idempotencyCache := cache.NewIdempotencyCache(cfg.IdempotencyTTL())

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				return err
			}
			server := apiserver.New(cfg, statementService, idempotencyCache, listener)
			return server.Run(groupCtx)
		})
		group.Go(func() error {
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				return err
			}
			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			return metricsServer.Run(groupCtx)
		})

		return group.Wait()
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
