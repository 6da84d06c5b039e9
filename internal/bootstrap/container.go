package bootstrap

import (
	"context"
	"log"

	"smart-fridge-be/internal/config"
	"smart-fridge-be/internal/controller"
	"smart-fridge-be/internal/dto"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/repository/contract"
	"smart-fridge-be/internal/repository/memory"
	"smart-fridge-be/internal/repository/redisstore"
	"smart-fridge-be/internal/repository/unitofwork"
	"smart-fridge-be/internal/service"
	"smart-fridge-be/pkg/guardrail"
	"smart-fridge-be/pkg/llm"
	"smart-fridge-be/pkg/llm/factory"
	pktNats "smart-fridge-be/pkg/nats"
	"smart-fridge-be/pkg/sensor"
	"smart-fridge-be/pkg/vision"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger   logger.ILogger
	AiLogger logger.ILogger
	Holder   *sensor.Holder

	// Controllers
	StatusController       controller.IStatusController
	UploadController       controller.IUploadController
	ItemController         controller.IItemController
	ChatController         controller.IChatController
	NotificationController controller.INotificationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func() error
}

// Providers are the external collaborators. NewContainer builds them from config;
// tests pass fakes to Assemble.
type Providers struct {
	LLM       llm.LLMProvider
	Vision    vision.Analyzer
	Guardrail guardrail.Classifier
	Sessions  contract.SessionRepository
	Mirror    service.EventMirror // optional
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	aiLogger := logger.NewIsolatedLogger(cfg.App.AiLogFilePath)

	var closers []func() error
	var providers Providers

	// LLM
	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Type:          cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OpenAIKey:     cfg.Keys.OpenAI,
		HuggingFace:   cfg.Keys.HuggingFace,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	providers.LLM = llmProvider
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Vision
	switch cfg.Ai.VisionProvider {
	case "gemini":
		providers.Vision = vision.NewGeminiAnalyzer(cfg.Keys.GoogleGemini, "", cfg.Ai.VisionModel, cfg.Ai.VisionTimeout, aiLogger)
	default:
		providers.Vision = vision.NewOpenAIAnalyzer(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.VisionModel, cfg.Ai.VisionTimeout, aiLogger)
	}
	log.Printf("[INFO] Using Vision Provider: %s", cfg.Ai.VisionProvider)

	// Guardrail
	providers.Guardrail = guardrail.NewHeuristicClassifier()
	switch cfg.Guardrail.Provider {
	case "gcp":
		detector, err := guardrail.NewCloudVisionDetector(context.Background(), cfg.Ai.VisionTimeout)
		if err != nil {
			log.Printf("[WARN] Cloud Vision unavailable, using heuristic guardrail: %v", err)
			break
		}
		closers = append(closers, detector.Close)
		providers.Guardrail = guardrail.NewLabelClassifier(detector, sysLogger)
	case "huggingface":
		detector := guardrail.NewHuggingFaceDetector("", cfg.Keys.HuggingFace, cfg.Ai.VisionTimeout)
		providers.Guardrail = guardrail.NewLabelClassifier(detector, sysLogger)
	}
	log.Printf("[INFO] Using Guardrail: %s (threshold %.2f)", cfg.Guardrail.Provider, cfg.Guardrail.Threshold)

	// Sessions
	providers.Sessions = memory.NewSessionRepository(cfg.Session.TTL)
	if cfg.Session.Store == "redis" {
		opt, err := redis.ParseURL(cfg.Session.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.Session.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis, keeping sessions in memory: %v", err)
			rdb.Close()
		} else {
			providers.Sessions = redisstore.NewSessionRepository(rdb, cfg.Session.TTL)
			closers = append(closers, rdb.Close)
		}
	}

	// NATS mirror
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			providers.Mirror = natsPub
			closers = append(closers, func() error {
				natsPub.Close()
				return nil
			})
		}
	}

	c := Assemble(db, cfg, providers, sysLogger, aiLogger)
	c.closers = append(c.closers, closers...)
	return c
}

// Assemble wires services and controllers around the given providers.
func Assemble(db *gorm.DB, cfg *config.Config, p Providers, sysLogger, aiLogger logger.ILogger) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	holder := sensor.NewHolder()

	// Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub, p.Mirror, sysLogger)
	inventoryService := service.NewInventoryService(uowFactory, sysLogger)
	notificationService := service.NewNotificationService(uowFactory, cfg.Events.NotificationLimit, p.Mirror, sysLogger)
	analysisService := service.NewFridgeAnalysisService(p.LLM, cfg.Ai.ChatTimeout, aiLogger)

	uploadService := service.NewUploadService(
		holder,
		p.Guardrail,
		p.Vision,
		inventoryService,
		publisherService,
		cfg.Guardrail.Threshold,
		sysLogger,
	)
	chatService := service.NewChatService(
		inventoryService,
		p.Sessions,
		p.LLM,
		holder,
		service.ChatOptions{
			Timeout:      cfg.Ai.ChatTimeout,
			MaxTokens:    cfg.Ai.ChatMaxTokens,
			HistoryLimit: cfg.Ai.ChatHistoryLimit,
		},
		sysLogger,
		aiLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Events.Topic,
		notificationService,
		inventoryService,
		analysisService,
		holder,
		sysLogger,
	)

	info := dto.ServerInfo{
		Name:        cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		Features:    []string{"vision", "guardrail", "inventory", "chat", "notifications", "expiry"},
	}

	return &Container{
		Logger:   sysLogger,
		AiLogger: aiLogger,
		Holder:   holder,

		StatusController:       controller.NewStatusController(info, holder),
		UploadController:       controller.NewUploadController(uploadService),
		ItemController:         controller.NewItemController(inventoryService),
		ChatController:         controller.NewChatController(chatService),
		NotificationController: controller.NewNotificationController(notificationService),

		ConsumerService: consumerService,

		closers: []func() error{pubSub.Close},
	}
}

// Close releases the bus and any external clients, returning the first error.
func (c *Container) Close() error {
	var first error
	for _, closer := range c.closers {
		if err := closer(); err != nil && first == nil {
			first = err
		}
	}
	// Syncing a console core fails on some terminals; it is not worth reporting.
	_ = c.Logger.Sync()
	_ = c.AiLogger.Sync()
	return first
}
