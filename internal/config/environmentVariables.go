package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//auth
	NoAuthBypass = false
	AuthToken    = ""
	//webhook HMAC shared secret, env WEBHOOK_SECRET overrides
	WebhookSecret          = ""
	WebhookSignatureHeader = "X-Hub-Signature-256"

	//chunker
	ChunkMaxSize = 800
	ChunkOverlap = 80

	//classifier
	DenylistNameFragment = "readme"

	//retrieval
	SearchPoolSize          uint64  = 6
	EvidenceScoreThreshold  float32 = 0.80
	DiversificationLambda   float64 = 0.7
	CacheSimilarityCutoff   float32 = 0.97
	MaxCitedSources                 = 3
	QueryLanguageAutoDetect         = true

	//conversation memory
	SummaryTriggerMessageCount = 10
	SummaryTriggerCharCount    = 4000
	MemoryTokenBudget          = 1200
	RecentTurnsInPrompt        = 5
	//rough chars-per-token estimate used for the budget walk
	CharsPerTokenEstimate = 4

	//sync engine
	SyncConcurrency  = 5
	EmbedBatchSize   = 100
	EmbeddingDBName  = "policy-chunks"
	AnswerCacheName  = "answer-cache"
	DefaultSyncRef   = "main"
	ContentURLPrefix = "" //env CONTENT_URL_PREFIX overrides; prepended to paths for source links

	//corpus repository, env CORPUS_OWNER / CORPUS_REPO override
	CorpusOwner = ""
	CorpusRepo  = ""

	//TODO:this will differ based on the request and provider
	EmbeddingOutputDimensionality int32 = 1536

	MaxWorkerCount            int64 = 4
	MinWorkerCount            int64 = 1
	RequestsPerNewWorkerCount int64 = 10
	IdleWorkerTimeout               = 1 * time.Minute
	SyncJobTimeout                  = 10 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second

	//llm - "gemini" or "openai", env LLM_PROVIDER overrides
	LLMProvider          = "gemini"
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	//low temperature keeps the answer pinned to the evidence block
	ModelTemperature float32 = 0.1

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//chat transport, env BOT_SEND_URL / BOT_TOKEN override
	BotSendURL = ""
	BotToken   = ""

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisDocumentStore     = 0
	RedisSyncJobStore      = 1
	RedisConversationStore = 2

	//redis timeouts
	RedisSyncJobStoreTTL      = 24 * time.Hour
	RedisConversationStoreTTL = 24 * time.Hour
)

// secrets come from the environment, never from this file
var (
	GoogleEmbeddingAPIKey = os.Getenv("GEMINI_API_KEY")
)

// TrackedExtensions are the corpus file types the classifier keeps.
var TrackedExtensions = []string{".md", ".txt", ".pdf", ".docx"}

// DenylistDirNames excludes build output directories from sync.
// Hidden dot-directories are excluded unconditionally by the classifier.
var DenylistDirNames = []string{"build", "dist", "out", "node_modules"}
