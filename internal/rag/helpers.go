package rag

import (
	"context"
	"time"

	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
	"github.com/akolanti/PolicyRAG/internal/metrics"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
)

func (s *service) executeCacheCheckStep(ctx context.Context, queryVector []float32) (string, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	ans, found, _ := s.index.GetCachedAnswer(ctx, queryVector)
	return ans, found
}

func (s *service) executeComposeStep(ctx context.Context, question string, mem chatModel.MemoryContext, evidence []vectorDB.ScoredChunk) (string, []string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.composer.Compose(ctx, question, mem, evidence)
}

// persistAssistantTurn stores the finished answer. Persistence failures are
// logged, not surfaced - the user already has the answer in hand.
func (s *service) persistAssistantTurn(ctx context.Context, chatId string, text string, sources []string, score float32) {
	msg := chatModel.Message{
		ChatId:  chatId,
		Role:    chatModel.RoleAssistant,
		Text:    text,
		Sources: sources,
		Score:   score,
	}
	if err := s.memory.Append(context.WithoutCancel(ctx), msg); err != nil {
		s.logger.Error("Failed to persist assistant turn", "chatId", chatId, "error", err)
	}
}
