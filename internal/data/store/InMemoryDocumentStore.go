package store

import (
	"context"
	"sync"

	"github.com/akolanti/PolicyRAG/internal/domain/docModel"
)

type InMemoryDocumentStore struct {
	mu        *sync.RWMutex
	docMap    map[string]docModel.Document
	watermark *docModel.RepoWatermark
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		mu:     new(sync.RWMutex),
		docMap: make(map[string]docModel.Document),
	}
}

func (store *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.docMap[doc.Id] = doc
	return nil
}

func (store *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	doc, found := store.docMap[id]
	return doc, found
}

func (store *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.docMap, id)
	return nil
}

func (store *InMemoryDocumentStore) GetWatermark(ctx context.Context) (docModel.RepoWatermark, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	if store.watermark == nil {
		return docModel.RepoWatermark{}, false
	}
	return *store.watermark, true
}

func (store *InMemoryDocumentStore) SaveWatermark(ctx context.Context, mark docModel.RepoWatermark) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.watermark = &mark
	return nil
}
