package rag

import (
	"context"
	"time"

	"github.com/akolanti/PolicyRAG/internal/adapter/utils"
	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
	"github.com/akolanti/PolicyRAG/internal/memory"
	"github.com/akolanti/PolicyRAG/internal/metrics"
	"github.com/akolanti/PolicyRAG/internal/rag/answer"
	"github.com/akolanti/PolicyRAG/internal/rag/retrieval"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------
Service (interface) is the public contract the handlers and the bot call.
service (private struct) holds the wired collaborators - memory, retrieval,
composer, vector index. Handlers never see those directly, so tests swap
them for mocks without touching the call sites.
*/

// AskResult is the finished outcome of one question.
type AskResult struct {
	Answer     string
	Sources    []string
	Sufficient bool
	Cached     bool
	TopScore   float32
}

type Service interface {
	Ask(ctx context.Context, chatId string, question string) (AskResult, error)
	ResetChat(ctx context.Context, chatId string) error
}

type service struct {
	memory    memory.Manager
	retriever retrieval.Searcher
	composer  *answer.Composer
	index     vectorDB.VectorIndex
	logger    *logger_i.Logger
}

// NewService constructor
func NewService(mem memory.Manager, retriever retrieval.Searcher, composer *answer.Composer, index vectorDB.VectorIndex) Service {
	return &service{
		memory:    mem,
		retriever: retriever,
		composer:  composer,
		index:     index,
		logger:    logger_i.NewLogger("RAG Service :"),
	}
}

// Ask runs the full answer pipeline: persist the user turn, assemble memory,
// consult the semantic cache, retrieve and gate evidence, compose, persist
// the assistant turn. The user message is stored before retrieval starts so
// a pipeline failure never loses the question.
func (s *service) Ask(ctx context.Context, chatId string, question string) (AskResult, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chatId", chatId)

	processContext, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	conv, err := s.memory.EnsureSession(processContext, chatId, question)
	if err != nil {
		return AskResult{}, err
	}

	userMsg := chatModel.Message{ChatId: chatId, Role: chatModel.RoleUser, Text: question}
	if err := s.memory.Append(processContext, userMsg); err != nil {
		return AskResult{}, err
	}

	mem, err := s.memory.BuildContext(processContext, chatId, config.MemoryTokenBudget)
	if err != nil {
		inMethodLogger.Error("Memory assembly failed, continuing without context", "error", err)
		mem = chatModel.MemoryContext{}
	}

	retrieved, err := s.retriever.Retrieve(processContext, question, conv.Language)
	if err != nil {
		return AskResult{}, err
	}

	// a cached answer was composed without this chat's context, so it is
	// only safe to reuse when the chat carries none
	contextFree := mem.Summary == "" && len(mem.Recent) <= 1
	if contextFree && len(retrieved.QueryVector) > 0 {
		if cached, found := s.executeCacheCheckStep(processContext, retrieved.QueryVector); found {
			inMethodLogger.Debug("Semantic cache hit")
			metrics.IncrementAnswers("cached")
			s.persistAssistantTurn(ctx, chatId, cached, nil, retrieved.TopScore)
			return AskResult{Answer: cached, Sufficient: true, Cached: true, TopScore: retrieved.TopScore}, nil
		}
	}

	if !retrieved.Sufficient {
		inMethodLogger.Info("Evidence gate closed", "topScore", retrieved.TopScore)
		metrics.IncrementAnswers("no_evidence")
		noEvidence := answer.NoEvidenceMessage(conv.Language)
		s.persistAssistantTurn(ctx, chatId, noEvidence, nil, retrieved.TopScore)
		return AskResult{Answer: noEvidence, TopScore: retrieved.TopScore}, nil
	}

	composed, sources, err := s.executeComposeStep(processContext, question, mem, retrieved.Evidence)
	if err != nil {
		return AskResult{}, err
	}
	metrics.IncrementAnswers("answered")

	if contextFree {
		// background cache save, same fire-and-forget shape as the lookup
		vector := retrieved.QueryVector
		go func() {
			if err := s.index.SaveToCache(context.WithoutCancel(ctx), utils.GetNewUUID(), vector, composed); err != nil {
				s.logger.Error("Failed to save to cache", "error", err)
			}
		}()
	}

	s.persistAssistantTurn(ctx, chatId, composed, sources, retrieved.TopScore)
	return AskResult{Answer: composed, Sources: sources, Sufficient: true, TopScore: retrieved.TopScore}, nil
}

func (s *service) ResetChat(ctx context.Context, chatId string) error {
	return s.memory.Reset(ctx, chatId)
}
