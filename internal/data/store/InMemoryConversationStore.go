package store

import (
	"context"
	"sync"

	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
)

type InMemoryConversationStore struct {
	mu      *sync.RWMutex
	convMap map[string]chatModel.Conversation
	msgMap  map[string][]chatModel.Message
}

func InitInMemoryConversationStore() *InMemoryConversationStore {
	return &InMemoryConversationStore{
		mu:      new(sync.RWMutex),
		convMap: make(map[string]chatModel.Conversation),
		msgMap:  make(map[string][]chatModel.Message),
	}
}

func (store *InMemoryConversationStore) GetConversation(ctx context.Context, chatId string) (chatModel.Conversation, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	conv, found := store.convMap[chatId]
	return conv, found
}

func (store *InMemoryConversationStore) SaveConversation(ctx context.Context, conv chatModel.Conversation) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.convMap[conv.ChatId] = conv
	return nil
}

func (store *InMemoryConversationStore) AppendMessage(ctx context.Context, msg chatModel.Message) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.msgMap[msg.ChatId] = append(store.msgMap[msg.ChatId], msg)
	return nil
}

func (store *InMemoryConversationStore) RecentMessages(ctx context.Context, chatId string, n int) ([]chatModel.Message, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	all := store.msgMap[chatId]
	if len(all) <= n {
		return append([]chatModel.Message{}, all...), nil
	}
	return append([]chatModel.Message{}, all[len(all)-n:]...), nil
}

func (store *InMemoryConversationStore) ClearMessages(ctx context.Context, chatId string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.msgMap, chatId)
	return nil
}
