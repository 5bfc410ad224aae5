package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/streamops/flink-sql-proxy/internal/auth"
	"github.com/streamops/flink-sql-proxy/internal/cache"
	"github.com/streamops/flink-sql-proxy/internal/config"
	"github.com/streamops/flink-sql-proxy/internal/handlers"
	"github.com/streamops/flink-sql-proxy/internal/service"
	"github.com/streamops/flink-sql-proxy/pkg/metrics"
	"github.com/streamops/flink-sql-proxy/pkg/middleware"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	service  *service.StatementService
	cache    *cache.IdempotencyCache
	listener net.Listener
}

// New returns a new instance of the sql proxy server.
func New(
	cfg *config.Config,
	statementService *service.StatementService,
	idempotencyCache *cache.IdempotencyCache,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		service:  statementService,
		cache:    idempotencyCache,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.AuthToken)
	if err != nil {
		return err
	}

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	h := handlers.NewStatementHandler(s.service, s.cache, s.cfg.Service.StderrTruncateBytes)
	handlers.RegisterApi(router, h, authenticator)

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
