package bootstrap

import (
	"context"
	"fmt"

	"hr-helpdesk-be/internal/config"
	"hr-helpdesk-be/internal/controller"
	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/internal/pkg/mailer"
	"hr-helpdesk-be/internal/repository/cache"
	"hr-helpdesk-be/internal/repository/implementation"
	"hr-helpdesk-be/internal/repository/memory"
	"hr-helpdesk-be/internal/repository/unitofwork"
	"hr-helpdesk-be/internal/service"
	"hr-helpdesk-be/pkg/dialog"
	"hr-helpdesk-be/pkg/events"
	"hr-helpdesk-be/pkg/i18n"
	"hr-helpdesk-be/pkg/language"
	"hr-helpdesk-be/pkg/llm/factory"
	pktNats "hr-helpdesk-be/pkg/nats"
	"hr-helpdesk-be/pkg/rag"
	"hr-helpdesk-be/pkg/rag/escalation"
	"hr-helpdesk-be/pkg/rag/prompt"
	"hr-helpdesk-be/pkg/store"
	"hr-helpdesk-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	ChatbotController controller.IChatbotController

	// Background services, run by main.
	ConsumerService service.IConsumerService
	IndexManager    *vectorindex.Manager

	Logger logger.ILogger

	closers []func()
}

// Close releases pools and connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c.Logger = sysLogger
	catalog := i18n.Default()

	// 1. Retrieval stack
	gateway, err := NewEmbeddingGateway(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	pipeline, err := NewIngestionPipeline(cfg, sysLogger)
	if err != nil {
		return nil, fmt.Errorf("ingestion pipeline: %w", err)
	}
	c.closers = append(c.closers, pipeline.Release)

	index, err := NewVectorIndex(cfg, db)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.IndexManager = NewIndexManager(cfg, index, pipeline, gateway, false, sysLogger)

	llmProvider, err := factory.NewLLMProvider(factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   cfg.Keys.OpenAI,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	sysLogger.Info("bootstrap", "LLM provider selected", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	retriever := rag.NewRetriever(gateway, c.IndexManager, cfg.Rag.TopK)
	generator := rag.NewGenerator(
		retriever,
		llmProvider,
		prompt.NewBuilder(cfg.Rag.MaxContextChars, ""),
		catalog,
		rag.WithTemperature(cfg.Rag.Temperature),
		rag.WithMaxTokens(cfg.Rag.MaxTokens),
		rag.WithLogger(sysLogger),
	)
	policy := escalation.NewPolicy(cfg.Rag.Threshold, catalog)
	translator := language.NewLLMTranslator(llmProvider, sysLogger)

	// 2. Sessions and the guided dialog
	sessions, err := newSessionStore(cfg, sysLogger)
	if err != nil {
		c.Close()
		return nil, err
	}
	if closer, ok := sessions.(interface{ Close() error }); ok {
		c.closers = append(c.closers, func() { _ = closer.Close() })
	}
	uowFactory := unitofwork.NewRepositoryFactory(db)
	machine := dialog.NewMachine(sessions, implementation.NewDirectoryRepository(db), catalog, sysLogger)

	// 3. Escalation events
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var mirror events.Publisher
	var natsSub service.EventSubscriber
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("bootstrap", "NATS publisher unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			mirror = natsPub
			c.closers = append(c.closers, natsPub.Close)

			// the durable consumer only makes sense when events reach the stream
			sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL, sysLogger)
			if err != nil {
				sysLogger.Warn("bootstrap", "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
			} else {
				natsSub = sub
				c.closers = append(c.closers, sub.Close)
			}
		}
	}
	bus := events.NewBus(pubSub, cfg.Events.EscalationTopic, mirror, sysLogger)

	mailLogger := logger.NewIsolatedLogger(cfg.App.EscalationLogPath)
	c.closers = append(c.closers, func() { _ = mailLogger.Sync() })

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			mailLogger,
		)
	}
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		bus.Topic(),
		natsSub,
		emailService,
		cfg.SMTP.HRInbox,
		mailLogger,
	)

	// 4. Service and controller
	var pinger service.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	chatbotService := service.NewChatbotService(service.ChatbotDeps{
		UowFactory:    uowFactory,
		Sessions:      sessions,
		Dialog:        machine,
		Answerer:      generator,
		Policy:        policy,
		Translator:    translator,
		Publisher:     bus,
		Catalog:       catalog,
		DB:            pinger,
		Index:         c.IndexManager,
		IndexLanguage: cfg.Rag.IndexLanguage,
		Logger:        sysLogger,
	})
	c.ChatbotController = controller.NewChatbotController(chatbotService, sysLogger)

	return c, nil
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.OpenAIBaseURL
}

func newSessionStore(cfg *config.Config, log logger.ILogger) (store.SessionStore, error) {
	switch cfg.Session.Backend {
	case "memory", "":
		return memory.NewSessionRepository(cfg.Session.TTL), nil
	case "redis":
		opt, err := redis.ParseURL(cfg.Session.RedisURL)
		if err != nil {
			log.Warn("bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{
				"error": err.Error(),
			})
			opt = &redis.Options{Addr: cfg.Session.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		return &closingSessionStore{SessionRepository: cache.NewSessionRepository(rdb, cfg.Session.TTL), client: rdb}, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

type closingSessionStore struct {
	*cache.SessionRepository
	client *redis.Client
}

func (s *closingSessionStore) Close() error { return s.client.Close() }
