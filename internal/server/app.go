// Package server wires the Q&A backend together: configuration, logging,
// the question store, services, the gRPC endpoint and the metrics endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/rush/internal/logging"
	"github.com/dmitrijs2005/rush/internal/server/auth"
	"github.com/dmitrijs2005/rush/internal/server/config"
	"github.com/dmitrijs2005/rush/internal/server/metrics"
	"github.com/dmitrijs2005/rush/internal/server/seed"
	"github.com/dmitrijs2005/rush/internal/server/services"
	"github.com/dmitrijs2005/rush/internal/server/storage"
	"github.com/dmitrijs2005/rush/internal/server/storage/memory"
	"github.com/dmitrijs2005/rush/internal/server/storage/postgres"

	gs "github.com/dmitrijs2005/rush/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

var (
	openPostgres = postgres.Open
	newS3Getter  = func(ctx context.Context, o seed.S3Options) (seed.ObjectGetter, error) {
		return seed.NewS3Client(ctx, o)
	}
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repo    storage.Repository
	grpc    *gs.Server
	metrics *http.Server
}

// NewApp builds every component from c. The returned error is fatal:
// a missing secret, an unreachable database, a failed migration or an
// unreadable seed dataset all abort startup.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	tokens, err := auth.NewTokenService(c.SecretKey)
	if err != nil {
		return nil, err
	}

	src, err := seedSource(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("seed source error: %w", err)
	}

	collector := metrics.NewCollector("rush")

	store, err := newRepository(ctx, c, src)
	if err != nil {
		return nil, err
	}
	repo := storage.Instrumented(store, collector)

	srv := gs.NewServer(c.GRPCAddress, logger,
		services.NewAccountService(repo, tokens, logger),
		services.NewQuestionService(repo, logger),
		services.NewAnswerService(repo, nil, logger),
		collector,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	logger.Info(ctx, "app initialized", "db_type", c.DBType, "grpc_address", c.GRPCAddress)

	return &App{
		config:  c,
		logger:  logger,
		repo:    repo,
		grpc:    srv,
		metrics: &http.Server{Addr: c.MetricsAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
	}, nil
}

func seedSource(ctx context.Context, c *config.Config) (seed.Source, error) {
	if c.Seed.Bucket == "" {
		return seed.Embedded(), nil
	}

	client, err := newS3Getter(ctx, seed.S3Options{
		Region:    c.Seed.Region,
		Endpoint:  c.Seed.Endpoint,
		AccessKey: c.Seed.AccessKey,
		SecretKey: c.Seed.SecretKey,
	})
	if err != nil {
		return nil, err
	}
	return seed.NewS3Source(client, c.Seed.Bucket, c.Seed.Key), nil
}

func newRepository(ctx context.Context, c *config.Config, src seed.Source) (storage.Repository, error) {
	questions, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed load error: %w", err)
	}

	switch c.DBType {
	case config.DBTypeMemory:
		return memory.New(questions...), nil
	case config.DBTypePostgres:
		store, err := openPostgres(ctx, c.DatabaseDSN(), c.DBMaxOpenConns)
		if err != nil {
			return nil, err
		}
		if err := store.Seed(ctx, questions); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed error: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown db type %q", c.DBType)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.grpc.SetServing()
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.metrics.Shutdown(shutdownCtx); err != nil {
			app.logger.Warn(ctx, "metrics server shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.metrics.Addr)
	if err := app.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "metrics server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// stops both endpoints and closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startMetricsServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repo.Close(); err != nil {
		app.logger.Error(context.Background(), "store close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
