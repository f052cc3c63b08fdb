package main

// @title           Portico API
// @version         1.0
// @description     Retrieval-augmented answering service for portfolio sites.
// @description     Visitors ask questions; answers stream back over SSE,
// @description     grounded in the owner's uploaded documents.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/portico-labs/portico/internal/adapters/driven/ai"
	"github.com/portico-labs/portico/internal/adapters/driven/auth"
	"github.com/portico-labs/portico/internal/adapters/driven/memory"
	"github.com/portico-labs/portico/internal/adapters/driven/postgres"
	redisadapter "github.com/portico-labs/portico/internal/adapters/driven/redis"
	"github.com/portico-labs/portico/internal/adapters/driving/http"
	"github.com/portico-labs/portico/internal/core/ports/driven"
	"github.com/portico-labs/portico/internal/core/ports/driving"
	"github.com/portico-labs/portico/internal/core/services"
	"github.com/portico-labs/portico/internal/worker"
)

var version = "dev"

func main() {
	// Local development convenience; absent .env is not an error
	_ = godotenv.Load()

	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "all")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	log.Printf("portico %s starting in %s mode", version, mode)

	// Configuration from environment
	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		log.Fatal("OPENAI_API_KEY is required")
	}
	embeddingModel := getEnv("EMBEDDING_MODEL", "")
	chatModel := getEnv("CHAT_MODEL", "")
	openAIBaseURL := getEnv("OPENAI_BASE_URL", "")
	jwtSecret := getEnv("JWT_SECRET", "development-secret-change-in-production")
	adminKey := getEnv("ADMIN_KEY", "")
	persona := getEnv("PERSONA", "")
	port := getEnvInt("PORT", 8080)
	topK := getEnvInt("RETRIEVAL_TOP_K", 0)
	maxChunkLen := getEnvInt("MAX_CHUNK_LEN", 0)
	databaseURL := getEnv("DATABASE_URL", "")
	redisURL := getEnv("REDIS_URL", "")

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== AI providers =====
	embedding, err := ai.NewOpenAIEmbedding(openAIKey, embeddingModel, openAIBaseURL)
	if err != nil {
		log.Fatalf("Failed to create embedding client: %v", err)
	}
	defer embedding.Close()

	generation, err := ai.NewOpenAIChat(openAIKey, chatModel, openAIBaseURL)
	if err != nil {
		log.Fatalf("Failed to create chat client: %v", err)
	}
	defer generation.Close()

	// ===== PostgreSQL (optional) =====
	var db *postgres.DB
	if databaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		dbConfig := postgres.Config{
			URL:             databaseURL,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300)) * time.Second,
			ConnMaxIdleTime: time.Duration(getEnvInt("DB_CONN_MAX_IDLE_SEC", 60)) * time.Second,
		}
		db, err = postgres.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("PostgreSQL connected and schema initialized")
	}

	// ===== Redis (optional) =====
	var redisClient *redis.Client
	if redisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Vector store (pgvector if available, otherwise in-memory) =====
	var vectorStore driven.VectorStore
	if db != nil {
		vectorStore = postgres.NewVectorStore(db, embedding)
		log.Println("Using pgvector vector store")
	} else {
		vectorStore = memory.NewVectorStore(embedding)
		log.Println("Using in-memory vector store (chunks do not survive restarts)")
	}

	// ===== Document ledger (postgres > redis > memory) =====
	var documentStore driven.DocumentStore
	switch {
	case db != nil:
		documentStore = postgres.NewDocumentStore(db)
		log.Println("Using PostgreSQL document ledger")
	case redisClient != nil:
		documentStore = redisadapter.NewDocumentStore(redisClient)
		log.Println("Using Redis document ledger")
	default:
		documentStore = memory.NewDocumentStore()
		log.Println("Using in-memory document ledger")
	}

	// ===== Task queue (Redis if available, otherwise in-process) =====
	var taskQueue driven.TaskQueue
	if redisClient != nil {
		taskQueue, err = redisadapter.NewQueue(redisClient, fmt.Sprintf("worker-%d", os.Getpid()))
		if err != nil {
			log.Fatalf("Failed to create task queue: %v", err)
		}
		log.Println("Using Redis task queue")
	} else {
		taskQueue = memory.NewTaskQueue()
		log.Println("Using in-process task queue")
	}
	defer taskQueue.Close()

	// ===== Auth =====
	authAdapter := auth.NewAdapter(jwtSecret)
	adminKeyHash := ""
	if adminKey != "" {
		adminKeyHash, err = authAdapter.HashKey(adminKey)
		if err != nil {
			log.Fatalf("Failed to hash admin key: %v", err)
		}
	} else {
		log.Println("Warning: ADMIN_KEY not set, document management endpoints are disabled")
	}

	// ===== Services =====
	logger := slog.Default()
	retriever := services.NewRetriever(embedding, vectorStore)
	answerService := services.NewAnswerService(retriever, generation, services.AnswerConfig{
		Persona: persona,
		TopK:    topK,
	}, logger)
	ingestService := services.NewIngestService(documentStore, vectorStore, maxChunkLen, logger)
	authService := services.NewAuthService(authAdapter, adminKeyHash, services.DefaultTokenTTL)

	log.Printf("Models: embedding=%s chat=%s", embedding.Model(), generation.Model())

	var dbPinger http.Pinger
	if db != nil {
		dbPinger = db
	}

	switch mode {
	case "api":
		runAPI(port, answerService, ingestService, authService, taskQueue, dbPinger, embedding)

	case "worker":
		runWorkerMode(ctx, taskQueue, ingestService)

	case "all":
		go runWorkerMode(ctx, taskQueue, ingestService)
		runAPI(port, answerService, ingestService, authService, taskQueue, dbPinger, embedding)

	default:
		log.Fatalf("Unknown mode: %s (use: api, worker, or all)", mode)
	}
}

func runAPI(
	port int,
	answerService driving.AnswerService,
	ingestService driving.IngestService,
	authService driving.AuthService,
	taskQueue driven.TaskQueue,
	db http.Pinger,
	embedding driven.EmbeddingService,
) {
	cfg := http.DefaultConfig()
	cfg.Port = port
	cfg.Version = version

	server := http.NewServer(cfg, answerService, ingestService, authService, taskQueue, db, embedding)

	log.Printf("API server starting on :%d", port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runWorkerMode starts the background re-ingestion worker.
func runWorkerMode(ctx context.Context, taskQueue driven.TaskQueue, ingestService driving.IngestService) {
	log.Println("Starting worker mode...")

	w := worker.New(worker.Config{
		TaskQueue:      taskQueue,
		Ingest:         ingestService,
		Logger:         slog.Default(),
		Concurrency:    getEnvInt("WORKER_CONCURRENCY", 1),
		DequeueTimeout: getEnvInt("WORKER_DEQUEUE_TIMEOUT", 5),
	})

	if err := w.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Worker started, processing tasks...")

	<-ctx.Done()

	log.Println("Stopping worker...")
	w.Stop()
	log.Println("Worker stopped")
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
