package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/memstore"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/storage"
	"github.com/spec-kit/helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	dependencies := map[string]handlers.Pinger{}
	var repos service.Repositories
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = service.Repositories{
			Users:         repository.NewUserRepository(pool),
			Tickets:       repository.NewTicketRepository(pool),
			Messages:      repository.NewMessageRepository(pool),
			Notifications: repository.NewNotificationRepository(pool),
		}
		dependencies["postgres"] = pg
	} else {
		logger.Warn("running in demo mode; data is kept in memory only")
		store := memstore.New()
		repos = service.Repositories{
			Users:         store.Users(),
			Tickets:       store.Tickets(),
			Messages:      store.Messages(),
			Notifications: store.Notifications(),
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	var revocations auth.RevocationStore = auth.NoopRevocationStore{}
	if redis.Enabled() {
		revocations = auth.NewRedisRevocationStore(redis.Client)
		dependencies["redis"] = redis
	}

	blobs, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to open attachment storage", zap.Error(err))
	}
	defer blobs.Close() //nolint:errcheck

	authorizer, err := auth.NewAuthorizer()
	if err != nil {
		logger.Fatal("failed to load authorization policy", zap.Error(err))
	}

	sessions := auth.NewSessions(
		auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()),
		revocations,
		repos.Users,
		logger.Named("sessions"),
	)

	var sink events.EventHandler
	var notifier *worker.NotificationWorker
	if cfg.Notification.WebhookURL != "" {
		deliverer := worker.NewWebhookDeliverer(cfg.Notification.WebhookURL, cfg.Notification.WebhookTimeout())
		notifier = worker.NewNotificationWorker(deliverer, cfg.Notification.QueueSize, logger.Named("worker"))
		notifier.Start(ctx)
		sink = notifier.Enqueue
	}

	services := service.New(repos, service.Options{
		Sessions:   sessions,
		Authorizer: authorizer,
		Dispatcher: events.NewInMemoryDispatcher(logger.Named("events")),
		Sink:       sink,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})

	metrics := observability.NewMetrics(cfg.App.Name)
	app := httptransport.NewServer(httptransport.ServerDependencies{
		App:          cfg.App,
		Auth:         cfg.Auth,
		Services:     services,
		Sessions:     sessions,
		Storage:      cfg.Storage,
		Blobs:        blobs,
		Dependencies: dependencies,
		Metrics:      metrics,
		Logger:       logger,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	if notifier != nil {
		notifier.Wait()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
