package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/data/redisStore"
	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

const (
	convKeyPrefix = "conv:"
	msgsKeyPrefix = "msgs:"
)

type RedisConversationStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisConversationStore(ctx context.Context) *RedisConversationStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisConversationStore)
	if inner == nil {
		return nil
	}
	return &RedisConversationStore{
		store:  inner,
		logger: logger_i.NewLogger("ConversationStore"),
	}
}

func (s *RedisConversationStore) GetConversation(ctx context.Context, chatId string) (chatModel.Conversation, bool) {
	var conv chatModel.Conversation
	val, err := s.store.Get(ctx, convKeyPrefix+chatId)
	if s.store.IsNil(err) {
		return conv, false
	} else if err != nil {
		s.logger.Error("Failed to get conversation", "chat Id", chatId, "error", err)
		return conv, false
	}

	if err = json.Unmarshal([]byte(val), &conv); err != nil {
		s.logger.Error("Failed to unmarshal conversation", "chat Id", chatId, "error", err)
		return conv, false
	}
	return conv, true
}

func (s *RedisConversationStore) SaveConversation(ctx context.Context, conv chatModel.Conversation) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", conv.ChatId)
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	err = s.store.Set(ctx, convKeyPrefix+conv.ChatId, data, config.RedisConversationStoreTTL)
	if err != nil {
		log.Error("error saving conversation", "error:", err)
	}
	return err
}

func (s *RedisConversationStore) AppendMessage(ctx context.Context, msg chatModel.Message) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", msg.ChatId)
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	key := msgsKeyPrefix + msg.ChatId
	if err = s.store.ListPush(ctx, key, data); err != nil {
		log.Error("error appending message", "error:", err)
		return err
	}
	//keep the message log on the same clock as the conversation record
	return s.store.Expire(ctx, key, config.RedisConversationStoreTTL)
}

func (s *RedisConversationStore) RecentMessages(ctx context.Context, chatId string, n int) ([]chatModel.Message, error) {
	raw, err := s.store.ListTail(ctx, msgsKeyPrefix+chatId, int64(n))
	if err != nil {
		return nil, err
	}

	messages := make([]chatModel.Message, 0, len(raw))
	for _, entry := range raw {
		var msg chatModel.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			s.logger.Error("Skipping unreadable message entry", "chat Id", chatId, "error", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisConversationStore) ClearMessages(ctx context.Context, chatId string) error {
	return s.store.Del(ctx, msgsKeyPrefix+chatId)
}

func TestConversationStore(store *redisStore.Store) *RedisConversationStore {
	return &RedisConversationStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
