// @title           Policy RAG API
// @version         1.0
// @description     Grounded question answering over a versioned policy corpus, with incremental synchronization
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/PolicyRAG/internal/bot"
	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/corpus/fetcher"
	"github.com/akolanti/PolicyRAG/internal/data/store"
	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
	"github.com/akolanti/PolicyRAG/internal/domain/docModel"
	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
	"github.com/akolanti/PolicyRAG/internal/handlers"
	"github.com/akolanti/PolicyRAG/internal/job"
	"github.com/akolanti/PolicyRAG/internal/mcpserver"
	"github.com/akolanti/PolicyRAG/internal/memory"
	"github.com/akolanti/PolicyRAG/internal/rag"
	"github.com/akolanti/PolicyRAG/internal/rag/answer"
	"github.com/akolanti/PolicyRAG/internal/rag/embedding"
	"github.com/akolanti/PolicyRAG/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/PolicyRAG/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/PolicyRAG/internal/rag/llm"
	"github.com/akolanti/PolicyRAG/internal/rag/llm/gemini"
	"github.com/akolanti/PolicyRAG/internal/rag/llm/openaiLLM"
	"github.com/akolanti/PolicyRAG/internal/rag/retrieval"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/PolicyRAG/internal/server"
	"github.com/akolanti/PolicyRAG/internal/syncer"
	"github.com/akolanti/PolicyRAG/internal/worker"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered task channel
	taskChannel := make(chan job.SyncTask, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//stores - all fall back to in-memory copies if redis is offline
	var jobStore syncModel.SyncJobStore
	var docStore docModel.DocumentStore
	var convStore chatModel.ConversationStore

	redisJobStore := store.GetRedisSyncJobStore(serviceContext)
	redisDocStore := store.GetRedisDocumentStore(serviceContext)
	redisConvStore := store.GetRedisConversationStore(serviceContext)
	if redisJobStore == nil || redisDocStore == nil || redisConvStore == nil {
		logger.Error("Redis stores are offline")
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			return
		}
		jobStore = store.InitInMemorySyncJobStore()
		docStore = store.InitInMemoryDocumentStore()
		convStore = store.InitInMemoryConversationStore()
	} else {
		jobStore = redisJobStore
		docStore = redisDocStore
		convStore = redisConvStore
	}

	serviceConfig := job.ServiceConfig{
		TaskChannel:       taskChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	vectorIndex := qdrantDB.GetQuadrantClient(serviceContext)
	embeddingService, llmProvider := initModelProviders(serviceContext)

	if vectorIndex == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorIndex", vectorIndex != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	contentFetcher := fetcher.GetGithubFetcher(serviceContext)
	if contentFetcher == nil {
		logger.Warn("Corpus repository is not configured, sync endpoints will fail until it is")
	}

	memoryManager := memory.NewManager(convStore, llmProvider)
	retriever := retrieval.NewEngine(embeddingService, vectorIndex)
	composer := answer.NewComposer(llmProvider)
	ragService := rag.NewService(memoryManager, retriever, composer, vectorIndex)

	syncEngine := syncer.NewEngine(contentFetcher, embeddingService, vectorIndex, docStore, jobStore)

	handlers.InitHandlers(service, syncEngine, ragService)
	bot.InitBot(ragService, bot.GetHTTPTransport())

	//init worker pool
	worker.InitServices(service, syncEngine)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//expose the retrieval pipeline to MCP clients as well
	if os.Getenv("MCP_LISTEN_ADDR") != "" {
		go mcpserver.Serve(serviceContext, os.Getenv("MCP_LISTEN_ADDR"), ragService, retriever)
	}

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func initModelProviders(ctx context.Context) (embedding.Embedder, llm.Provider) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = config.LLMProvider
	}

	if provider == "openai" {
		return openaiEmbedding.GetOpenAIEmbeddingClient(ctx, config.OpenAIEmbeddingModel),
			openaiLLM.GetOpenAIClient(ctx, config.OpenAIModelName)
	}
	return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey),
		gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GoogleEmbeddingAPIKey)
}
