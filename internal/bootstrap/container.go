package bootstrap

import (
	"context"
	"log"

	"pc-autobuild-be/internal/config"
	"pc-autobuild-be/internal/controller"
	"pc-autobuild-be/internal/handler"
	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/internal/repository/implementation"
	"pc-autobuild-be/internal/repository/memory"
	"pc-autobuild-be/internal/service"
	"pc-autobuild-be/internal/websocket"
	"pc-autobuild-be/pkg/autobuild/allocator"
	"pc-autobuild-be/pkg/autobuild/builder"
	"pc-autobuild-be/pkg/autobuild/compat"
	"pc-autobuild-be/pkg/autobuild/diversify"
	"pc-autobuild-be/pkg/autobuild/pool"
	"pc-autobuild-be/pkg/autobuild/retry"
	"pc-autobuild-be/pkg/autobuild/session"
	"pc-autobuild-be/pkg/intent"
	"pc-autobuild-be/pkg/intent/llmextract"
	"pc-autobuild-be/pkg/intent/ner"
	"pc-autobuild-be/pkg/livefeed"
	"pc-autobuild-be/pkg/llm/factory"

	pktNats "pc-autobuild-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AutobuildController controller.IAutobuildController

	// Background Services (Exposed for main.go to run)
	ConsumerService   service.IConsumerService
	BuildEventService *service.BuildEventService

	// WebSockets
	BuildFeedHandler *handler.BuildFeedHandler
	WebSocketHub     *websocket.Hub

	Logger logger.ILogger

	bus     *livefeed.Bus
	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	tuning := cfg.Resolver.Tuning

	// 2. Graph store
	partRepo := implementation.NewPartRepository(db, cfg.Resolver.NameMatchMinRank, cfg.Resolver.PoolLimit)
	graph := implementation.NewRetryingGraphStore(partRepo, cfg.Resolver.StoreRetries, cfg.Resolver.StoreRetryInterval, sysLogger)

	// 3. Event Bus
	bus := livefeed.NewBus(livefeed.NewGoChannel())

	// NATS
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, cfg.App.EventRetention)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
		}
	}

	feed := livefeed.Fanout{bus}
	if natsPub != nil {
		feed = append(feed, livefeed.NewClusterPublisher(natsPub))
	}

	// Redis
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
	}

	// WebSocket Hub
	feedLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)
	wsHub := websocket.NewHub(rdb, feedLogger)

	// 4. Resolver
	checker := compat.NewChecker(graph)
	controllerRetry := retry.NewController(
		allocator.New(graph, tuning),
		pool.NewProvider(graph),
		builder.New(checker, tuning.SearchStepLimit),
		tuning,
	)
	diversifier := diversify.New(controllerRetry, feed, tuning.DiversifyAttempts, sysLogger,
		diversify.WithVerifier(checker))

	sessionRepo := memory.NewSessionRepository(tuning.SessionTTL, tuning.SessionSweep, sysLogger)
	sessions := session.NewManager(sessionRepo)

	interpreter := intent.NewInterpreter(newExtractor(cfg.Intent, sysLogger))

	// 5. Services
	autobuildService := service.NewAutobuildService(
		interpreter,
		sessions,
		diversifier,
		controllerRetry,
		cfg.Resolver.ResolveTimeout,
		sysLogger,
	)
	consumerService := service.NewConsumerService(bus, wsHub, feedLogger)

	var buildEvents *service.BuildEventService
	if natsSub != nil {
		buildEvents = service.NewBuildEventService(natsSub, logger.NewIsolatedLogger("logs/build_audit.log"))
	}

	return &Container{
		AutobuildController: controller.NewAutobuildController(autobuildService),
		ConsumerService:     consumerService,
		BuildEventService:   buildEvents,
		BuildFeedHandler:    handler.NewBuildFeedHandler(wsHub, feedLogger),
		WebSocketHub:        wsHub,
		Logger:              sysLogger,

		bus:     bus,
		natsPub: natsPub,
		natsSub: natsSub,
		rdb:     rdb,
	}
}

func newExtractor(cfg config.IntentConfig, sysLogger logger.ILogger) intent.Extractor {
	if cfg.Provider != "llm" {
		sysLogger.Info("Bootstrap", "Using NER intent extractor", map[string]interface{}{"url": cfg.NerURL})
		return ner.NewClient(cfg.NerURL, cfg.Timeout, cfg.NerMaxRetries)
	}

	provider, err := factory.NewLLMProvider("ollama", cfg.LLMModel, cfg.OllamaBaseURL, cfg.Timeout)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	sysLogger.Info("Bootstrap", "Using LLM intent extractor", map[string]interface{}{"model": cfg.LLMModel})
	return llmextract.New(provider)
}

// Start launches the hub and the background consumers. They stop with ctx.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}
	if c.BuildEventService != nil {
		if err := c.BuildEventService.Start(ctx); err != nil {
			c.Logger.Warn("Bootstrap", "Build audit subscription failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// Close releases broker connections. Call after the context given to Start
// is cancelled.
func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.bus.Close()
}
