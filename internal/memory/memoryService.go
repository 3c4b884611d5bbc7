package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/corpus"
	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
	"github.com/akolanti/PolicyRAG/internal/rag/llm"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

const summaryInstruction = "You maintain a running synopsis of a support conversation. " +
	"Condense the previous synopsis and the new turns into 5 to 8 short lines. " +
	"Keep decisions, named policies, open questions and user preferences. " +
	"Write the synopsis in the language the conversation is held in. " +
	"Output only the synopsis."

// Manager owns the conversational state of a chat: session records, the
// append-only message log, the rolling summary and the token-budgeted
// context handed to the answer assembler.
type Manager interface {
	EnsureSession(ctx context.Context, chatId string, queryText string) (chatModel.Conversation, error)
	Append(ctx context.Context, msg chatModel.Message) error
	BuildContext(ctx context.Context, chatId string, tokenBudget int) (chatModel.MemoryContext, error)
	Reset(ctx context.Context, chatId string) error
}

type service struct {
	store chatModel.ConversationStore
	model llm.Provider

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	logger *logger_i.Logger
}

func NewManager(store chatModel.ConversationStore, model llm.Provider) Manager {
	return &service{
		store:  store,
		model:  model,
		locks:  make(map[string]*sync.Mutex),
		logger: logger_i.NewLogger("Memory"),
	}
}

// chatLock serializes mutations per chat so concurrent requests for the
// same session cannot interleave counter updates or double-summarize.
func (s *service) chatLock(chatId string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[chatId]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[chatId] = lock
	}
	return lock
}

func (s *service) EnsureSession(ctx context.Context, chatId string, queryText string) (chatModel.Conversation, error) {
	lock := s.chatLock(chatId)
	lock.Lock()
	defer lock.Unlock()

	conv, found := s.store.GetConversation(ctx, chatId)
	if !found {
		conv = chatModel.Conversation{ChatId: chatId}
	}
	if queryText != "" {
		conv.Language = corpus.DetectLanguage(queryText)
	}
	conv.LastActivity = time.Now().UTC()

	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return chatModel.Conversation{}, err
	}
	return conv, nil
}

func (s *service) Append(ctx context.Context, msg chatModel.Message) error {
	lock := s.chatLock(msg.ChatId)
	lock.Lock()
	defer lock.Unlock()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if msg.CreatedTime.IsZero() {
		msg.CreatedTime = time.Now().UTC()
	}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return err
	}

	conv, found := s.store.GetConversation(ctx, msg.ChatId)
	if !found {
		conv = chatModel.Conversation{ChatId: msg.ChatId}
	}
	conv.MessageCount++
	conv.MessagesSinceSummary++
	conv.LastActivity = time.Now().UTC()

	if s.shouldSummarize(ctx, conv) {
		if err := s.refreshSummary(ctx, &conv); err != nil {
			// the counter keeps growing, so the next turn retries
			log.Error("Summary refresh failed, keeping previous synopsis", "chatId", msg.ChatId, "error", err)
		}
	}

	return s.store.SaveConversation(ctx, conv)
}

func (s *service) shouldSummarize(ctx context.Context, conv chatModel.Conversation) bool {
	if conv.MessagesSinceSummary >= config.SummaryTriggerMessageCount {
		return true
	}
	// the char trigger looks at the most recent N messages regardless of when
	// the last summary ran, so a few very long turns re-trigger early
	recent, err := s.store.RecentMessages(ctx, conv.ChatId, config.SummaryTriggerMessageCount)
	if err != nil {
		return false
	}
	chars := 0
	for _, m := range recent {
		chars += len(m.Text)
	}
	return chars >= config.SummaryTriggerCharCount
}

func (s *service) refreshSummary(ctx context.Context, conv *chatModel.Conversation) error {
	if s.model == nil {
		return fmt.Errorf("no summarization model configured")
	}

	pending, err := s.store.RecentMessages(ctx, conv.ChatId, conv.MessagesSinceSummary)
	if err != nil {
		return err
	}

	var b strings.Builder
	if conv.Summary != "" {
		b.WriteString("Previous synopsis:\n")
		b.WriteString(conv.Summary)
		b.WriteString("\n\n")
	}
	b.WriteString("New turns:\n")
	for _, m := range pending {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}

	synopsis, err := s.model.Complete(ctx, summaryInstruction, b.String())
	if err != nil {
		return err
	}
	synopsis = strings.TrimSpace(synopsis)
	if synopsis == "" {
		return fmt.Errorf("model returned an empty synopsis")
	}

	conv.Summary = synopsis
	conv.MessagesSinceSummary = 0
	return nil
}

// BuildContext assembles the prompt memory under the token budget. The
// summary is charged first; recent turns are then admitted newest to oldest
// and a message that does not fit whole is dropped whole.
func (s *service) BuildContext(ctx context.Context, chatId string, tokenBudget int) (chatModel.MemoryContext, error) {
	mc := chatModel.MemoryContext{}

	conv, found := s.store.GetConversation(ctx, chatId)
	if !found {
		return mc, nil
	}

	budget := tokenBudget
	if conv.Summary != "" {
		cost := EstimateTokens(conv.Summary)
		if cost <= budget {
			mc.Summary = conv.Summary
			mc.TokenEstimate += cost
			budget -= cost
		}
	}

	recent, err := s.store.RecentMessages(ctx, chatId, config.RecentTurnsInPrompt*2)
	if err != nil {
		return mc, err
	}

	// newest first for admission, then restored to chronological order
	admitted := make([]chatModel.Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		cost := EstimateTokens(recent[i].Text)
		if cost > budget {
			break
		}
		admitted = append(admitted, recent[i])
		mc.TokenEstimate += cost
		budget -= cost
	}
	for i, j := 0, len(admitted)-1; i < j; i, j = i+1, j-1 {
		admitted[i], admitted[j] = admitted[j], admitted[i]
	}
	mc.Recent = admitted
	return mc, nil
}

// Reset clears the message log and the synopsis but keeps the session
// record itself, so the chat retains its identity and language.
func (s *service) Reset(ctx context.Context, chatId string) error {
	lock := s.chatLock(chatId)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.ClearMessages(ctx, chatId); err != nil {
		return err
	}

	conv, found := s.store.GetConversation(ctx, chatId)
	if !found {
		return nil
	}
	conv.Summary = ""
	conv.MessageCount = 0
	conv.MessagesSinceSummary = 0
	conv.LastActivity = time.Now().UTC()
	return s.store.SaveConversation(ctx, conv)
}

// EstimateTokens approximates the token cost of a text as len/4. The
// estimate only needs to be stable and monotone for budgeting.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + config.CharsPerTokenEstimate - 1) / config.CharsPerTokenEstimate
}
