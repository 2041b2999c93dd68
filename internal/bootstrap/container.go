package bootstrap

import (
	"context"
	"log"

	"pdf-extractor/internal/config"
	"pdf-extractor/internal/controller"
	"pdf-extractor/internal/handler"
	"pdf-extractor/internal/pkg/logger"
	"pdf-extractor/internal/repository/memory"
	"pdf-extractor/internal/service"
	"pdf-extractor/internal/websocket"
	"pdf-extractor/pkg/extraction"
	pktNats "pdf-extractor/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ExtractionController controller.IExtractionController

	// Background Services (Exposed for main.go to run)
	RelayService service.IRelayService
	AuditService *service.AuditService

	// WebSockets
	SessionSocketHandler *handler.SessionSocketHandler
	WebSocketHub         *websocket.Hub

	Sessions *memory.SessionRepository
	Logger   logger.ILogger

	closers []func()
}

// NewContainer wires every dependency. Optional infrastructure (NATS, Redis)
// is skipped with a warning when it is not configured or unreachable.
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	extractor, err := extraction.NewClient(cfg.Extraction.URL, extraction.WithTimeout(cfg.Extraction.Timeout))
	if err != nil {
		return nil, err
	}
	sysLogger.Info("Bootstrap", "Extraction endpoint configured", map[string]interface{}{
		"url":     extractor.Endpoint(),
		"timeout": cfg.Extraction.Timeout.String(),
	})

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := service.NewStateBus(watermillLogger)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure
	var eventPublisher service.EventPublisher
	if cfg.Infra.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Infra.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.Infra.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			c.AuditService = service.NewAuditService(natsSub, sysLogger)
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.Infra.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.Infra.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.Infra.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	c.Sessions = memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.CleanupInterval)
	publisherService := service.NewPublisherService(cfg.Infra.StateTopic, pubSub)
	extractionService := service.NewExtractionService(
		c.Sessions,
		extractor,
		publisherService,
		eventPublisher,
		cfg.Session,
		sysLogger,
	)
	c.RelayService = service.NewRelayService(pubSub, cfg.Infra.StateTopic, wsHub, wsLogger)

	// 5. Controllers & Handlers
	c.ExtractionController = controller.NewExtractionController(extractionService, cfg.Session.Secret)
	c.SessionSocketHandler = handler.NewSessionSocketHandler(extractionService, wsHub, cfg.Session.Secret, wsLogger)
	c.WebSocketHub = wsHub

	return c, nil
}

// Close releases infrastructure connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
