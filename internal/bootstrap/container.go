package bootstrap

import (
	"context"
	"log"
	"time"

	"paper-digest-be/internal/config"
	"paper-digest-be/internal/controller"
	"paper-digest-be/internal/pkg/logger"
	"paper-digest-be/internal/pkg/serverutils"
	"paper-digest-be/internal/repository/implementation"
	"paper-digest-be/internal/repository/memory"
	"paper-digest-be/internal/service"
	"paper-digest-be/pkg/arxiv"
	"paper-digest-be/pkg/embedding"
	"paper-digest-be/pkg/events"
	"paper-digest-be/pkg/index"
	"paper-digest-be/pkg/llm/factory"
	pktNats "paper-digest-be/pkg/nats"
	"paper-digest-be/pkg/pipeline"
	"paper-digest-be/pkg/ratelimit"
	"paper-digest-be/pkg/synthesizer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PaperController controller.IPaperController
	AdminController controller.IAdminController

	// Background services, run by main.go
	WorkerService service.IWorkerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, "")
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

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
	}

	// 5. Repositories
	jobRepo := memory.NewJobRepository()
	embeddingRepo := implementation.NewPaperEmbeddingRepository(db)
	analyticsRepo := implementation.NewJobAnalyticsRepository(db)

	// 6. Pipeline
	arxivClient := arxiv.NewClient()
	indexer := index.NewIndexer(embeddingProvider, embeddingRepo, cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap)
	indexer.MinSimilarity = cfg.Pipeline.MinSimilarity
	synth := synthesizer.NewSynthesizer(cfg.Pipeline.ThreadMarker, cfg.Pipeline.LongPostHeader)
	stageSet := pipeline.NewStageSet(arxivClient, indexer, llmProvider, synth, cfg.App.DownloadDir)
	stageSet.TopK = cfg.Pipeline.RetrievalTopK
	engine := pipeline.NewEngine(stageSet.Stages(), jobRepo, sysLogger)

	// 7. Services
	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	if eventPublisher != nil {
		engine.OnStageCompleted = func(jobId uuid.UUID, stage string, seconds float64) {
			if err := eventPublisher.Publish(context.Background(), events.NewStageCompletedEvent(jobId.String(), stage, seconds)); err != nil {
				sysLogger.Warn("pipeline", "Failed to publish stage event", map[string]interface{}{
					"job_id": jobId.String(),
					"stage":  stage,
					"error":  err.Error(),
				})
			}
		}
	}

	publisherService := service.NewPublisherService(cfg.Keys.ProcessJobTopic, pubSub)
	paperService := service.NewPaperService(jobRepo, publisherService, eventPublisher, sysLogger)
	workerService := service.NewWorkerService(
		pubSub,
		cfg.Keys.ProcessJobTopic,
		jobRepo,
		engine,
		indexer,
		analyticsRepo,
		eventPublisher,
		sysLogger,
	)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	adminService := service.NewAdminService(indexer, sysLogger)

	// 8. Rate limiting
	var rateLimiter fiber.Handler
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewLimiter(
			ratelimit.NewRedisWindowStore(rdb),
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			cfg.RateLimit.Quota,
		)
		rateLimiter = serverutils.RateLimitMiddleware(limiter, sysLogger)
	} else {
		rateLimiter = func(ctx *fiber.Ctx) error { return ctx.Next() }
	}

	// 9. Controllers
	return &Container{
		PaperController: controller.NewPaperController(paperService, rateLimiter, cfg.App.UploadDir),
		AdminController: controller.NewAdminController(adminService, analyticsService),
		WorkerService:   workerService,
		Logger:          sysLogger,
	}
}
