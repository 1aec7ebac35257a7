package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"chaletbook/internal/app/checkout"
	"chaletbook/internal/app/draftstore"
	"chaletbook/internal/app/search"
	"chaletbook/internal/app/stay"
	"chaletbook/internal/infra/backend"
	"chaletbook/internal/infra/broker/kafka"
	"chaletbook/internal/infra/config"
	ginserver "chaletbook/internal/infra/http/gin"
	"chaletbook/internal/infra/obs"
	"chaletbook/internal/infra/storage/memory"
	mongostore "chaletbook/internal/infra/storage/mongo"
	redisstore "chaletbook/internal/infra/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.checks,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "session_store", cfg.SessionStore)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	checks   []obs.ReadyCheck
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var kv draftstore.KV
	var checks []obs.ReadyCheck
	switch cfg.SessionStore {
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		cleanups = append(cleanups, func() { _ = client.Close() })
		kv = redisstore.NewSessionStore(client, cfg.SessionTTL)
		checks = append(checks, obs.ReadyCheck{
			Name:  "session_store",
			Check: func() error { return client.Ping(context.Background()).Err() },
		})
	default:
		store := memory.NewSessionStore(cfg.SessionTTL)
		cleanups = append(cleanups, store.Close)
		kv = store
	}

	var idem checkout.IdempotencyStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	if cfg.MongoURI != "" {
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			cleanup()
			return application{}, nil, err
		}
		cleanups = append(cleanups, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		})
		idem = mongostore.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		checks = append(checks, obs.ReadyCheck{
			Name: "idempotency_store",
			Check: func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return client.Ping(pingCtx)
			},
		})
	}

	var events checkout.ReceiptPublisher = checkout.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			cleanup()
			return application{}, nil, err
		}
		cleanups = append(cleanups, func() { _ = producer.Close() })
		events = kafka.ReceiptPublisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}
	}

	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, logger)
	bookingDrafts := draftstore.NewBookingDrafts(kv, logger)
	filterDrafts := draftstore.NewFilterDrafts(kv, logger)

	staySvc := stay.NewService(client, kv, bookingDrafts, logger)
	searchSvc := search.NewService(client, filterDrafts, cfg.FilterDebounce, cfg.SessionTTL, logger)
	cleanups = append(cleanups, searchSvc.Close)
	submitter := checkout.NewSubmitter(bookingDrafts, client, idem, events, logger)

	handlers := ginserver.Handlers{
		Session: ginserver.SessionHandler{
			KV:        kv,
			OnDestroy: searchSvc.Drop,
		},
		Stay: ginserver.StayHandler{
			Service: staySvc,
			Drafts:  bookingDrafts,
		},
		Search: ginserver.SearchHandler{
			Service: searchSvc,
		},
		Checkout: ginserver.CheckoutHandler{
			Submitter: submitter,
		},
	}
	return application{handlers: handlers, checks: checks}, cleanup, nil
}
