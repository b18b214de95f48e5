// Command gateway serves the QuoteMate SPA's API: sessions, role guards,
// project context and the proxied backend workflows.
//
//	@title			QuoteMate Gateway API
//	@version		1.0
//	@description	Session, access-control and workflow gateway in front of the QuoteMate backend.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	_ "github.com/quotemate/gateway/docs"
	"github.com/quotemate/gateway/internal/api"
	"github.com/quotemate/gateway/internal/api/metrics"
	"github.com/quotemate/gateway/internal/api/middleware"
	"github.com/quotemate/gateway/internal/core/ports"
	"github.com/quotemate/gateway/internal/core/service"
	"github.com/quotemate/gateway/internal/infrastructure/backend"
	"github.com/quotemate/gateway/internal/infrastructure/cache"
	"github.com/quotemate/gateway/internal/infrastructure/db/memory"
	"github.com/quotemate/gateway/internal/infrastructure/db/mongo"
	"github.com/quotemate/gateway/internal/infrastructure/db/redis"
	"github.com/quotemate/gateway/internal/infrastructure/http/handlers"
	"github.com/quotemate/gateway/internal/infrastructure/queue"
	"github.com/quotemate/gateway/internal/pkg/config"
	"github.com/quotemate/gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "quotemate-gateway",
	})

	checks := map[string]handlers.Check{}

	// --- Session storage ---
	var (
		sessions    ports.SessionStore
		submissions ports.SubmissionGuard
	)
	switch cfg.Session.Store {
	case "memory":
		log.Warn().Msg("using in-process session storage; sessions are lost on restart")
		sessions = memory.NewSessionStore(cfg.Session.DurableTTL, cfg.Session.EphemeralTTL)
		submissions = memory.NewInFlightGuard(0)
	default:
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)
		sessions = redis.NewSessionStore(rdb, cfg.Session.DurableTTL, cfg.Session.EphemeralTTL)
		submissions = redis.NewInFlightGuard(rdb, 0)
		checks["redis"] = handlers.RedisCheck(rdb)
	}

	// --- Call log and demo accounts ---
	var (
		calls    ports.CallRepository
		accounts ports.AccountRepository
		recorder *queue.CallRecorder
	)
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer disconnectMongo(client, log)
		checks["mongo"] = handlers.MongoCheck(db)

		callRepo := mongo.NewCallRepository(db)
		if err := callRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure call log indexes")
		}
		calls = callRepo

		recorder = queue.NewCallRecorder(0, callRepo, logger.Component("call-recorder"))
		recorder.OnDrop(metrics.CallLogDroppedTotal.Inc)

		if cfg.DemoMode {
			accountRepo := mongo.NewAccountRepository(db)
			if err := service.SeedDemoAccounts(ctx, accountRepo, service.DefaultDemoSeeds, 0); err != nil {
				return err
			}
			accounts = accountRepo
			log.Info().Int("accounts", len(service.DefaultDemoSeeds)).Msg("demo accounts seeded")
		}
	} else {
		log.Warn().Msg("MONGO_URI not set; call history is disabled")
	}

	// --- Backend and services ---
	client := backend.New(backend.Config{
		BaseURL:  cfg.Backend.BaseURL(),
		Env:      cfg.Backend.Env,
		Timeout:  cfg.Backend.Timeout,
		Observer: metrics.ObserveBackend,
	}, logger.Component("backend"))

	var callRecorder ports.CallRecorder
	if recorder != nil {
		callRecorder = recorder
	}

	lim, err := middleware.NewLimiter(cfg.LoginRate)
	if err != nil {
		return fmt.Errorf("LOGIN_RATE: %w", err)
	}

	e := api.NewRouter(api.Deps{
		Auth:           service.NewAuthService(sessions, service.NewTokenMinter(cfg.Session.Secret), logger.Component("auth")),
		Authenticator:  service.NewAuthenticator(client, accounts, logger.Component("auth")),
		Projects:       service.NewProjectContexts(cache.NewProjectScratch(cfg.Scratch.Size, cfg.Scratch.TTL)),
		Matches:        service.NewMatchService(client, logger.Component("match")),
		Calls:          service.NewCallService(client, callRecorder, calls, logger.Component("call")),
		Retell:         client,
		Uploads:        service.NewUploadService(client, logger.Component("upload")),
		Directory:      service.NewDirectoryService(),
		Submissions:    submissions,
		LoginLimiter:   lim,
		Checks:         checks,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if recorder != nil {
		recorder.Start()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.Backend.BaseURL()).
			Str("session_store", cfg.Session.Store).
			Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// The recorder outlives Shutdown so calls finishing during it are kept.
	err = g.Wait()
	if recorder != nil {
		recorder.Close()
		recorder.Wait()
	}
	log.Info().Msg("gateway stopped")
	return err
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}

func disconnectMongo(client *gomongo.Client, log zerolog.Logger) {
	if err := mongo.Disconnect(client, 5*time.Second); err != nil {
		log.Error().Err(err).Send()
	}
}
