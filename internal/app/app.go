package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/queuego/internal/clock"
	"github.com/kirinyoku/queuego/internal/config"
	"github.com/kirinyoku/queuego/internal/notify"
	"github.com/kirinyoku/queuego/internal/postgres"
	"github.com/kirinyoku/queuego/internal/redis"
	"github.com/kirinyoku/queuego/internal/repository"
	"github.com/kirinyoku/queuego/internal/repository/memory"
	postgresrepo "github.com/kirinyoku/queuego/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/queuego/internal/repository/redis"
	"github.com/kirinyoku/queuego/internal/service"
	"github.com/kirinyoku/queuego/internal/service/stores"
	"github.com/kirinyoku/queuego/internal/telemetry"
	httpgin "github.com/kirinyoku/queuego/internal/transport/http/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const serviceName = "queuego"

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server

	pool        *pgxpool.Pool
	rdb         *goredis.Client
	cache       *redisrepo.Cache
	pubsub      *redisrepo.QueuePubSub
	asynqClient *asynq.Client
	worker      *notify.Worker

	shutdownOTel func(context.Context) error
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx := context.Background()
	a := &App{cfg: cfg, logger: logger}

	a.shutdownOTel = telemetry.Setup(ctx, serviceName, telemetry.Config{
		Endpoint: cfg.Telemetry.Endpoint,
		Insecure: cfg.Telemetry.Insecure,
	}, logger)

	// Initialize storage
	var store repository.Store
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store = memory.New()
	default:
		dsn := postgres.DSN(
			cfg.Postgres.User,
			cfg.Postgres.Password,
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.Name,
			cfg.Postgres.SSLMode,
		)

		pool, err := postgres.New(ctx, postgres.Config{
			DSN:      dsn,
			MaxConns: cfg.Postgres.MaxConns,
			AppName:  serviceName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		a.pool = pool

		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}

		store = postgresrepo.NewStore(pool)
	}

	// Initialize Redis-backed collaborators
	var (
		limiter *redisrepo.SlidingWindowLimiter
		idem    *redisrepo.IdempotencyStore
	)

	redisCfg := redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	if cfg.Redis.Enabled() {
		rdb, err := redis.New(ctx, redisCfg)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.rdb = rdb

		a.cache = redisrepo.New(rdb)
		a.pubsub = redisrepo.NewQueuePubSub(rdb)
		limiter = redisrepo.NewSlidingWindowLimiter(rdb, "tickets", cfg.RateLimit.Tickets, cfg.RateLimit.Window)
		idem = redisrepo.NewIdempotencyStore(rdb, cfg.Cache.IdempotencyTTL)
	}

	// Initialize notifications
	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.Notify.WhatsApp.Enabled() {
		sender = notify.NewWhatsAppSender(notify.WhatsAppConfig{
			PhoneID: cfg.Notify.WhatsApp.PhoneID,
			Token:   cfg.Notify.WhatsApp.Token,
			To:      cfg.Notify.WhatsApp.To,
		}, &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		})
	}

	var emitter notify.Emitter
	if cfg.Notify.Driver == config.NotifyDriverAsynq {
		a.asynqClient = asynq.NewClient(redisCfg.AsynqOpt())
		emitter = notify.NewTaskEmitter(a.asynqClient)
		a.worker = notify.NewWorker(redisCfg.AsynqOpt(), sender, logger, notify.WorkerConfig{
			Concurrency: cfg.Notify.Concurrency,
		})
	} else {
		emitter = notify.NewInlineEmitter(sender)
	}

	// Initialize services
	services := service.NewServices(
		store,
		a.cache,
		a.pubsub,
		limiter,
		emitter,
		clock.Real(),
		logger,
		service.Config{
			Stores: stores.Config{DetailsTTL: cfg.Cache.StoreDetailsTTL},
		},
	)

	// Initialize Gin router
	router := httpgin.NewRouter(services, idem, []byte(cfg.Auth.JWTSecret), logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer a.close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	// Notification worker
	if a.worker != nil {
		g.Go(func() error {
			return a.worker.Run(gCtx)
		})
	}

	// Changes made by other instances drop our cached store details too.
	if a.pubsub != nil && a.cache != nil {
		g.Go(func() error {
			err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, storeID int64) {
				if err := a.cache.InvalidateStore(ctx, storeID); err != nil {
					a.logger.Warn("store cache invalidation failed",
						slog.Int64("store_id", storeID),
						slog.Any("error", err),
					)
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

func (a *App) close() {
	if a.asynqClient != nil {
		_ = a.asynqClient.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdownOTel(ctx); err != nil {
			a.logger.Warn("otel shutdown", slog.Any("error", err))
		}
	}
}
