package bootstrap

import (
	"context"
	"log"

	"ai-helpdesk-be/internal/config"
	"ai-helpdesk-be/internal/controller"
	"ai-helpdesk-be/internal/handler"
	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/internal/repository/unitofwork"
	"ai-helpdesk-be/internal/service"
	"ai-helpdesk-be/internal/websocket"
	"ai-helpdesk-be/pkg/embedding"
	llmOllama "ai-helpdesk-be/pkg/llm/ollama"

	pktNats "ai-helpdesk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController  controller.IChatbotController
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Shared logger for server middleware
	Logger logger.ILogger

	// Readiness probes for the health endpoint
	DB         *gorm.DB
	NatsReady  bool
	RedisReady bool
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus (in-process, for the indexing pipeline)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	// Repeated questions skip the embedding round-trip.
	embeddingProvider = embedding.NewCachingProvider(embeddingProvider)

	llmProvider := llmOllama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
	log.Printf("[INFO] Using LLM: %s", cfg.Ai.LLMModel)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	documentService := service.NewDocumentService(uowFactory, publisherService)
	chatbotService := service.NewChatbotService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		natsPub,
		cfg.Ai.SearchThreshold,
	)

	var notificationService *service.NotificationService
	if natsSub != nil {
		notificationService = service.NewNotificationService(natsSub, wsHub, wsLogger)
		go notificationService.Start()
	} else {
		sysLogger.Warn("bootstrap", "NATS unavailable; indexing notifications disabled", nil)
	}

	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		ChatbotController:  controller.NewChatbotController(chatbotService),
		DocumentController: controller.NewDocumentController(documentService),

		ConsumerService:     consumerService,
		NotificationService: notificationService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		Logger: sysLogger,

		DB:         db,
		NatsReady:  natsPub != nil && natsSub != nil,
		RedisReady: rdb != nil,
	}
}
