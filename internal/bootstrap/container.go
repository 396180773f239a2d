package bootstrap

import (
	"context"
	"log"
	"time"

	"webnotes-be/internal/config"
	"webnotes-be/internal/controller"
	"webnotes-be/internal/handler"
	"webnotes-be/internal/pkg/logger"
	"webnotes-be/internal/repository/unitofwork"
	"webnotes-be/internal/scheduler"
	"webnotes-be/internal/service"
	"webnotes-be/internal/websocket"
	"webnotes-be/pkg/embedding"
	"webnotes-be/pkg/embedding/jina"
	"webnotes-be/pkg/llm"
	ollamallm "webnotes-be/pkg/llm/ollama"
	"webnotes-be/pkg/summarize"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController     controller.INoteController
	CaptureController  controller.ICaptureController
	ReminderController controller.IReminderController

	// Background services (exposed for main.go to run)
	RepairService     service.IRepairService
	ReminderScheduler *scheduler.ReminderScheduler

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers. The embedding provider loads lazily on first use: a
	// cold Ollama install must not block startup, and the first search that
	// needs the model pays for its warmup exactly once.
	embeddingProvider := embedding.NewLazy(func(ctx context.Context) (embedding.Provider, error) {
		if cfg.Ai.EmbeddingProvider == "jina" {
			log.Printf("[INFO] Using Embedding Provider: JINA AI")
			return jina.NewJinaProvider(cfg.Ai.JinaApiKey), nil
		}
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel), nil
	})

	var llmProvider llm.Provider = ollamallm.NewProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaLLMModel)
	summarizer := summarize.New(llmProvider)

	// 4. WebSocket hub + notifications
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	notificationService := service.NewNotificationService(uowFactory, wsHub, sysLogger)

	// 5. Scheduler, then the services that arm it
	reminderScheduler := scheduler.NewReminderScheduler(uowFactory, notificationService, sysLogger)

	viewService := service.NewViewService(
		uowFactory,
		embeddingProvider,
		summarizer,
		sysLogger,
		cfg.Search.NoteLimit,
		cfg.Search.ContentLimit,
		time.Duration(cfg.Search.DebounceMillis)*time.Millisecond,
		nil,
	)

	publisherService := service.NewPublisherService(cfg.Ai.RepairTopic, pubSub)
	repairService := service.NewRepairService(
		pubSub,
		cfg.Ai.RepairTopic,
		uowFactory,
		embeddingProvider,
		viewService,
		sysLogger,
	)

	noteService := service.NewNoteService(
		uowFactory,
		publisherService,
		embeddingProvider,
		reminderScheduler,
		viewService,
		sysLogger,
	)
	captureService := service.NewCaptureService(
		uowFactory,
		publisherService,
		embeddingProvider,
		reminderScheduler,
		viewService,
		sysLogger,
	)
	reminderService := service.NewReminderService(uowFactory, reminderScheduler, viewService)

	// 6. Controllers
	noteController := controller.NewNoteController(noteService, viewService)
	captureController := controller.NewCaptureController(captureService)
	reminderController := controller.NewReminderController(reminderService)
	notificationHandler := handler.NewNotificationHandler(notificationService, wsHub, sysLogger)

	return &Container{
		NoteController:      noteController,
		CaptureController:   captureController,
		ReminderController:  reminderController,
		RepairService:       repairService,
		ReminderScheduler:   reminderScheduler,
		NotificationHandler: notificationHandler,
		WebSocketHub:        wsHub,
		Logger:              sysLogger,
	}
}
