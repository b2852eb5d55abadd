package main

// @title           documentor API
// @version         1.0
// @description     Upload PDFs and chat with them. Answers are grounded in the pages retrieved from each document's vector namespace and streamed as plain text.

// @contact.name   Custodia Labs
// @contact.url    https://github.com/custodia-labs/documentor/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/documentor/internal/adapters/driven/ai"
	"github.com/custodia-labs/documentor/internal/adapters/driven/auth"
	"github.com/custodia-labs/documentor/internal/adapters/driven/kafka"
	"github.com/custodia-labs/documentor/internal/adapters/driven/loader"
	"github.com/custodia-labs/documentor/internal/adapters/driven/memory"
	"github.com/custodia-labs/documentor/internal/adapters/driven/minio"
	"github.com/custodia-labs/documentor/internal/adapters/driven/postgres"
	"github.com/custodia-labs/documentor/internal/adapters/driven/qdrant"
	postgresqueue "github.com/custodia-labs/documentor/internal/adapters/driven/queue/postgres"
	redisqueue "github.com/custodia-labs/documentor/internal/adapters/driven/queue/redis"
	redisadapter "github.com/custodia-labs/documentor/internal/adapters/driven/redis"
	"github.com/custodia-labs/documentor/internal/adapters/driving/http"
	"github.com/custodia-labs/documentor/internal/config"
	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
	"github.com/custodia-labs/documentor/internal/core/services"
	"github.com/custodia-labs/documentor/internal/runtime"
	"github.com/custodia-labs/documentor/internal/worker"
)

var version = "dev"

func main() {
	configPath := flag.String("config", config.DefaultConfigFile, "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath, config.DefaultEnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "documentor: %v\n", err)
		os.Exit(1)
	}
	// Positional mode wins over RUN_MODE and the file.
	if flag.NArg() > 0 {
		cfg.RunMode = flag.Arg(0)
	}

	logger := cfg.Logging.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("documentor stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("documentor starting", "version", version, "mode", cfg.RunMode)

	// ===== PostgreSQL =====
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime.Std(),
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime.Std(),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	logger.Info("postgres connected and schema initialized")

	// ===== Redis (optional) =====
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()
		logger.Info("redis connected")
	}

	// ===== Object storage =====
	blobs, err := minio.New(minio.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("create blob store: %w", err)
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		logger.Warn("storage bucket check failed, uploads may not work", "error", err)
	}

	// ===== Vector index =====
	var index driven.VectorIndex
	switch cfg.Vector.Backend {
	case config.VectorBackendMemory:
		index = memory.NewIndex()
		logger.Warn("using in-memory vector index, vectors are lost on restart")
	default:
		qdrantIndex := qdrant.New(qdrant.Config{
			URL:        cfg.Vector.URL,
			APIKey:     cfg.Vector.APIKey,
			Collection: cfg.Vector.Collection,
		})
		if err := qdrantIndex.EnsureCollection(ctx, cfg.Embedding.Dimensions); err != nil {
			logger.Warn("qdrant collection check failed, retrieval may not work", "error", err)
		}
		index = qdrantIndex
	}

	// ===== Events =====
	var events driven.EventPublisher = kafka.NopPublisher{}
	if len(cfg.Events.Brokers) > 0 {
		publisher := kafka.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		defer func() { _ = publisher.Close() }()
		events = publisher
	}

	// ===== Queue, lock and entitlements (redis when available, else postgres) =====
	userStore := postgres.NewUserStore(db)
	var entitlements driven.EntitlementProvider = userStore

	var (
		taskQueue   driven.TaskQueue
		lock        driven.DistributedLock
		redisPinger http.Pinger
		queueName   = "postgres"
	)
	if redisClient != nil {
		q, err := redisqueue.NewQueue(ctx, redisClient, fmt.Sprintf("worker-%d", os.Getpid()))
		if err != nil {
			return fmt.Errorf("create task queue: %w", err)
		}
		taskQueue = q
		redisLock := redisadapter.NewLock(redisClient)
		lock = redisLock
		redisPinger = redisLock
		entitlements = redisadapter.NewEntitlementCache(redisClient, userStore, cfg.Redis.EntitlementTTL.Std(), logger)
		queueName = "redis"
	} else {
		taskQueue = postgresqueue.NewQueue(db.DB)
		lock = postgres.NewAdvisoryLock(db)
	}
	defer func() { _ = taskQueue.Close() }()

	// ===== AI services =====
	runtimeConfig := domain.NewRuntimeConfig(queueName, cfg.Vector.Backend)
	runtimeServices := runtime.NewServices(runtimeConfig)
	defer func() { _ = runtimeServices.Close() }()

	aiFactory := ai.NewFactory()
	embedder, err := aiFactory.CreateEmbeddingService(&cfg.Embedding)
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}
	if err := runtimeServices.ValidateAndSetEmbedding(ctx, embedder); err != nil {
		logger.Warn("embedding service unavailable, ingestion will fail", "error", err)
	}
	llm, err := aiFactory.CreateLLMService(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("create llm service: %w", err)
	}
	if err := runtimeServices.ValidateAndSetLLM(ctx, llm); err != nil {
		logger.Warn("llm service unavailable, chat will fail", "error", err)
	}

	logger.Info("runtime config",
		"queue_backend", runtimeConfig.QueueBackend,
		"vector_backend", runtimeConfig.VectorBackend,
		"can_ingest", runtimeConfig.CanIngest(),
		"can_answer", runtimeConfig.CanAnswer())

	// ===== Services =====
	documentStore := postgres.NewDocumentStore(db)
	messageStore := postgres.NewMessageStore(db)
	quota := services.NewQuotaEnforcer(cfg.Plans.DomainPlans())

	documentService := services.NewDocumentService(services.DocumentConfig{
		Documents:    documentStore,
		Blobs:        blobs,
		Index:        index,
		Queue:        taskQueue,
		Entitlements: entitlements,
		Quota:        quota,
		URLExpiry:    cfg.Storage.URLExpiry.Std(),
		Logger:       logger,
	})
	indexer := services.NewIndexer(services.IndexerConfig{
		Services:    runtimeServices,
		Index:       index,
		BatchSize:   cfg.Ingestion.EmbedBatchSize,
		Concurrency: cfg.Ingestion.EmbedConcurrency,
		Logger:      logger,
	})
	ingestionService := services.NewIngestionService(services.IngestionConfig{
		Documents: documentStore,
		Loader: loader.NewPDFLoader(loader.Config{
			MaxBytes: cfg.Ingestion.MaxDownloadSize.Bytes(),
			Logger:   logger,
		}),
		Quota:      quota,
		Indexer:    indexer,
		Index:      index,
		Lock:       lock,
		Events:     events,
		LockTTL:    cfg.Ingestion.LockTTL.Std(),
		StaleAfter: cfg.Ingestion.StaleAfter.Std(),
		Logger:     logger,
	})
	chatService := services.NewChatService(services.ChatConfig{
		Documents: documentStore,
		Messages:  messageStore,
		Engine: services.NewAnswerEngine(services.AnswerEngineConfig{
			Services:     runtimeServices,
			Index:        index,
			TopK:         cfg.Chat.TopK,
			HistoryTurns: cfg.Chat.HistoryTurns,
			Temperature:  cfg.Chat.Temperature,
			Logger:       logger,
		}),
		Logger: logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	if cfg.RunMode == config.RunModeWorker || cfg.RunMode == config.RunModeAll {
		w := worker.NewWorker(worker.WorkerConfig{
			TaskQueue:      taskQueue,
			Ingestion:      ingestionService,
			Entitlements:   entitlements,
			Logger:         logger,
			Concurrency:    cfg.Worker.Concurrency,
			DequeueTimeout: cfg.Worker.DequeueTimeout,
			SweepInterval:  cfg.Worker.SweepInterval.Std(),
		})
		g.Go(func() error {
			if err := w.Start(gctx); err != nil {
				return fmt.Errorf("start worker: %w", err)
			}
			<-gctx.Done()
			w.Stop()
			logger.Info("worker stopped")
			return nil
		})
	}

	if cfg.RunMode == config.RunModeAPI || cfg.RunMode == config.RunModeAll {
		authAdapter, err := auth.NewAdapter(cfg.Auth.Secret)
		if err != nil {
			return fmt.Errorf("create auth adapter: %w", err)
		}
		authService := services.NewAuthService(userStore, entitlements, authAdapter, quota)

		server := http.NewServer(http.Config{
			Host:            cfg.Server.Host,
			Port:            cfg.Server.Port,
			Version:         version,
			AllowedOrigins:  cfg.Server.AllowedOrigins,
			MaxUploadBytes:  cfg.Server.MaxUploadSize.Bytes(),
			ShutdownTimeout: cfg.Server.ShutdownAfter.Std(),
			Logger:          logger,
		}, http.Services{
			Auth:      authService,
			Documents: documentService,
			Chat:      chatService,
			Webhooks:  authAdapter,
		}, db, redisPinger)
		g.Go(func() error { return server.Start(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("documentor stopped")
	return nil
}
