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

	"hostcal/internal/app/commands"
	blocksapp "hostcal/internal/app/handlers/blocks"
	feedsapp "hostcal/internal/app/handlers/feeds"
	timelineapp "hostcal/internal/app/handlers/timeline"
	"hostcal/internal/app/middleware"
	appoutbox "hostcal/internal/app/outbox"
	"hostcal/internal/app/queries"
	"hostcal/internal/app/uow"
	"hostcal/internal/infra/broker/kafka"
	"hostcal/internal/infra/config"
	mongostore "hostcal/internal/infra/db/mongo"
	icalfeeds "hostcal/internal/infra/feeds"
	ginserver "hostcal/internal/infra/http/gin"
	"hostcal/internal/infra/obs"
	outboxinfra "hostcal/internal/infra/outbox"
	"hostcal/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.StorageMode = "memory"
		cfg.WindowDaysDefault = 31
		cfg.FeedFetchTimeout = 15 * time.Second
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready(ctx),
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *outboxinfra.Worker
	mongo    *mongostore.Client
	producer *kafka.Producer
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		uowFactory  uow.UoWFactory
		outboxStore appoutbox.Outbox
		claimStore  outboxinfra.ClaimStore
		idStore     middleware.IdempotencyStore
		app         application
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		app.mongo = client
		repo := mongostore.NewOccupancyRepository(client.DB, logger)
		uowFactory = mongostore.Factory{DB: client.DB, Repo: repo}
		store := outboxinfra.NewStore(client.DB)
		outboxStore = store
		claimStore = store
		idStore = mongostore.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
	default:
		store := memory.NewOccupancyStore()
		uowFactory = memory.Factory{Store: store}
		outboxStore = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
		logger.Info("using in-memory storage", "mode", cfg.StorageMode)
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, blocksapp.CreateBlockCommand{}.Key(), &blocksapp.CreateBlockHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, blocksapp.DeleteBlockCommand{}.Key(), &blocksapp.DeleteBlockHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, blocksapp.UpdateNotesCommand{}.Key(), &blocksapp.UpdateNotesHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, blocksapp.CancelBookingCommand{}.Key(), &blocksapp.CancelBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, feedsapp.SyncFeedCommand{}.Key(), &feedsapp.SyncFeedHandler{
		UoWFactory: uowFactory,
		Importer:   icalfeeds.NewICalImporter(cfg.FeedFetchTimeout),
		Guard:      feedsapp.NewGuard(),
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, timelineapp.GetTimelineQuery{}.Key(), &timelineapp.GetTimelineHandler{
		UoWFactory: uowFactory,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	if len(cfg.KafkaBrokers) > 0 && claimStore != nil {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, err
		}
		app.producer = producer
		app.worker = &outboxinfra.Worker{
			Store:       claimStore,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
	}

	app.handlers = ginserver.Handlers{
		Timeline: ginserver.TimelineHandler{Queries: queryBusWithMiddleware},
		Block:    ginserver.BlockHandler{Commands: commandBusWithMiddleware},
		Feed:     ginserver.FeedHandler{Commands: commandBusWithMiddleware},
	}
	return app, nil
}

func (a application) ready(ctx context.Context) func() error {
	return func() error {
		if a.mongo == nil {
			return nil
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return a.mongo.Ping(pingCtx)
	}
}

func (a application) close(logger *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Error("kafka producer close failed", "error", err)
		}
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
