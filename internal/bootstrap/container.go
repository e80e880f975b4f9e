package bootstrap

import (
	"context"

	"legalaid-intake-be/internal/config"
	"legalaid-intake-be/internal/controller"
	"legalaid-intake-be/internal/handler"
	"legalaid-intake-be/internal/pkg/logger"
	"legalaid-intake-be/internal/pkg/mailer"
	"legalaid-intake-be/internal/pkg/serverutils"
	"legalaid-intake-be/internal/repository/kvstore"
	"legalaid-intake-be/internal/repository/memory"
	"legalaid-intake-be/internal/repository/unitofwork"
	"legalaid-intake-be/internal/service"
	"legalaid-intake-be/internal/websocket"
	"legalaid-intake-be/pkg/legalapi"
	pktNats "legalaid-intake-be/pkg/nats"
	"legalaid-intake-be/pkg/wizard"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DraftPurger is implemented by draft backends without native expiry.
type DraftPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Container struct {
	Logger logger.ILogger

	// Controllers
	WizardController     controller.IWizardController
	TemplateController   controller.ITemplateController
	DashboardController  controller.IDashboardController
	SubmissionController controller.ISubmissionController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	DashboardService service.IDashboardService
	DraftPurger      DraftPurger

	// WebSockets
	DashboardWsHandler *handler.DashboardWsHandler
	WebSocketHub       *websocket.Hub

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	c.Logger = sysLogger

	var emailService mailer.IEmailService
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
		)
	} else {
		sysLogger.Warn("Bootstrap", "SMTP not configured, receipts disabled", nil)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	var eventSubscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to connect to NATS subscriber", map[string]interface{}{"error": err.Error()})
	} else {
		eventSubscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		sysLogger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WSLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 4. Wizard
	draftKV := c.draftBackend(cfg, db, rdb, sysLogger)
	registry := wizard.MustLoadRegistry()
	apiClient := legalapi.NewClient(legalapi.Config{
		BaseURL:     cfg.LegalAPI.BaseURL,
		Token:       cfg.LegalAPI.Token,
		Timeout:     cfg.LegalAPI.Timeout,
		TemplateTTL: cfg.LegalAPI.TemplateTTL,
	})
	coordinator := wizard.NewCoordinator(apiClient, registry, sysLogger)
	drafts := wizard.NewDraftStore(draftKV, sysLogger)
	sessionRepo := memory.NewSessionRepository(cfg.App.SessionTTL)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Events.SubmissionTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Events.SubmissionTopic,
		uowFactory,
		emailService,
		eventPublisher,
		sysLogger,
	)
	c.DashboardService = service.NewDashboardService(
		eventSubscriber,
		cfg.Events.CaseSubject,
		cfg.Events.DashboardDurable,
		uowFactory,
		c.WebSocketHub,
		wsLogger,
	)

	wizardService := service.NewWizardService(registry, sessionRepo, drafts, coordinator, publisherService, sysLogger)
	templateService := service.NewTemplateService(apiClient)
	submissionService := service.NewSubmissionService(uowFactory)

	// 6. Controllers
	auth := serverutils.NewJwtMiddleware(cfg.App.JWTSecret)
	c.WizardController = controller.NewWizardController(wizardService, auth)
	c.TemplateController = controller.NewTemplateController(templateService, auth)
	c.DashboardController = controller.NewDashboardController(c.DashboardService, auth)
	c.SubmissionController = controller.NewSubmissionController(submissionService, auth)
	c.DashboardWsHandler = handler.NewDashboardWsHandler(c.WebSocketHub, cfg.App.JWTSecret, wsLogger)

	return c
}

// draftBackend picks the key-value store drafts are written to.
func (c *Container) draftBackend(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log logger.ILogger) wizard.KeyValueStore {
	switch cfg.Drafts.Store {
	case config.DraftStoreRedis:
		return kvstore.NewRedisStore(rdb, cfg.Drafts.TTL)
	case config.DraftStorePostgres:
		store := kvstore.NewPostgresStore(db, cfg.Drafts.TTL)
		c.DraftPurger = store
		return store
	case config.DraftStoreSQLite:
		store, err := kvstore.OpenSQLiteStore(cfg.Drafts.SQLitePath, cfg.Drafts.TTL)
		if err != nil {
			log.Error("Bootstrap", "Failed to open SQLite draft store", map[string]interface{}{"path": cfg.Drafts.SQLitePath, "error": err.Error()})
			break
		}
		c.closers = append(c.closers, func() { _ = store.Close() })
		return store
	case config.DraftStoreMemory:
		return kvstore.NewMemoryStore(cfg.Drafts.TTL)
	default:
		log.Warn("Bootstrap", "Unknown draft store, using memory", map[string]interface{}{"store": cfg.Drafts.Store})
	}
	return kvstore.NewMemoryStore(cfg.Drafts.TTL)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
