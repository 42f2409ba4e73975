package bootstrap

import (
	"context"
	"log"

	"ai-hub-be/internal/config"
	"ai-hub-be/internal/controller"
	"ai-hub-be/internal/pkg/logger"
	"ai-hub-be/internal/repository/contract"
	"ai-hub-be/internal/repository/implementation"
	"ai-hub-be/internal/repository/memory"
	"ai-hub-be/internal/service"
	"ai-hub-be/internal/store"
	"ai-hub-be/internal/websocket"
	"ai-hub-be/pkg/database"
	"ai-hub-be/pkg/graph"
	"ai-hub-be/pkg/knowledge"
	"ai-hub-be/pkg/llm/factory"
	"ai-hub-be/pkg/msauth"

	"ai-hub-be/internal/eventbus"
	pktNats "ai-hub-be/pkg/nats"

	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ChatController       controller.IChatController
	AttachmentController controller.IAttachmentController
	KnowledgeController  controller.IKnowledgeController
	DeletionController   controller.IDeletionController
	StateController      controller.IStateController

	// Exposed for the server and main to run
	StateService service.StateService
	WebSocketHub *websocket.Hub
	Bus          *eventbus.Bus
	Logger       logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Durable state backend
	stateRepo := newStateRepository(cfg, sysLogger)

	sessionStore := store.NewSessionStore()
	stateService := service.NewStateService(sessionStore, stateRepo, sysLogger)
	stateService.Load(context.Background())

	// In-process event bus and websocket fan-out
	bus := eventbus.NewBus(sysLogger)
	wsHub := websocket.NewHub(bus, sysLogger)

	// Completion backend
	llmProvider, err := factory.NewCompletionProvider(cfg.Ai, cfg.Keys.GoogleGemini)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize completion provider: %v", err)
	}
	log.Printf("[INFO] Using completion provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// Document source (optional)
	var drive *graph.Client
	tokens, err := msauth.NewClientCredentialsProvider(
		cfg.Msal.ClientID,
		cfg.Msal.ClientSecret,
		cfg.Msal.TenantID,
		graph.DefaultScope,
	)
	if err != nil {
		log.Printf("[WARN] Document source disabled: %v", err)
	} else {
		drive = graph.NewClient(tokens)
	}

	// Outward NATS events (optional)
	var outward service.OutwardPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		outward = natsPub
	}

	// Knowledge short-circuit: the resolver talks HTTP to the catalog
	// endpoint so a hosted catalog can replace the built-in one without a
	// redeploy.
	catalog := knowledge.DefaultCatalog()
	resolver := knowledge.NewResolver(cfg.Knowledge.EndpointURL, sysLogger)

	staging := memory.NewAttachmentRepository()

	attachmentService := service.NewAttachmentService(staging, drive, sysLogger)
	knowledgeService := service.NewKnowledgeService(sessionStore, stateService, bus, drive, sysLogger)
	chatService := service.NewChatService(
		sessionStore,
		stateService,
		staging,
		resolver,
		llmProvider,
		bus,
		outward,
		sysLogger,
	)

	return &Container{
		ChatController:       controller.NewChatController(chatService),
		AttachmentController: controller.NewAttachmentController(attachmentService),
		KnowledgeController:  controller.NewKnowledgeController(knowledgeService, catalog),
		DeletionController:   controller.NewDeletionController(chatService),
		StateController:      controller.NewStateController(stateService),

		StateService: stateService,
		WebSocketHub: wsHub,
		Bus:          bus,
		Logger:       sysLogger,
	}
}

// newStateRepository selects the durable backend from config. Anything it
// cannot reach falls back to the in-process store so the hub still boots.
func newStateRepository(cfg *config.Config, log logger.ILogger) contract.StateRepository {
	switch cfg.State.Backend {
	case "redis":
		opt, err := redis.ParseURL(cfg.State.RedisURL)
		if err != nil {
			log.Warn("bootstrap", "invalid redis url, falling back to memory state", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewStateRepository()
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("bootstrap", "redis unreachable, falling back to memory state", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewStateRepository()
		}
		return implementation.NewStateRepositoryRedis(rdb, cfg.State.Key)

	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.State.PostgresConnection)
		if err != nil {
			log.Warn("bootstrap", "postgres unreachable, falling back to memory state", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewStateRepository()
		}
		return implementation.NewStateRepositoryGorm(db, cfg.State.Key)

	default:
		return memory.NewStateRepository()
	}
}
