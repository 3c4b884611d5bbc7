package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/data/redisStore"
	"github.com/akolanti/PolicyRAG/internal/domain/docModel"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

const (
	docKeyPrefix = "doc:"
	watermarkKey = "watermark"
)

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc Id", doc.Id)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	//documents have no TTL - they live until the path is removed from the corpus
	err = s.store.Set(ctx, docKeyPrefix+doc.Id, data, 0)
	if err == nil {
		log.Debug("Saved document", "path", doc.Path)
	}
	return err
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	var doc docModel.Document
	val, err := s.store.Get(ctx, docKeyPrefix+id)
	if s.store.IsNil(err) {
		return doc, false
	} else if err != nil {
		s.logger.Error("Failed to get document", "doc Id", id, "error", err)
		return doc, false
	}

	if err = json.Unmarshal([]byte(val), &doc); err != nil {
		s.logger.Error("Failed to unmarshal document", "doc Id", id, "error", err)
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	err := s.store.Del(ctx, docKeyPrefix+id)
	if err != nil {
		s.logger.Error("Error deleting document", "doc Id", id, "error", err)
		return err
	}
	s.logger.Debug("Document deleted", "doc Id", id)
	return nil
}

func (s *RedisDocumentStore) GetWatermark(ctx context.Context) (docModel.RepoWatermark, bool) {
	var mark docModel.RepoWatermark
	val, err := s.store.Get(ctx, watermarkKey)
	if s.store.IsNil(err) || err != nil {
		return mark, false
	}
	if err = json.Unmarshal([]byte(val), &mark); err != nil {
		return mark, false
	}
	return mark, true
}

func (s *RedisDocumentStore) SaveWatermark(ctx context.Context, mark docModel.RepoWatermark) error {
	data, err := json.Marshal(mark)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, watermarkKey, data, 0)
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
