package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/data/redisStore"
	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

type RedisSyncJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSyncJobStore(ctx context.Context) *RedisSyncJobStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisSyncJobStore)
	if inner == nil {
		return nil
	}
	return &RedisSyncJobStore{
		store:  inner,
		logger: logger_i.NewLogger("SyncJobStore"),
	}
}

func (s *RedisSyncJobStore) SaveJob(ctx context.Context, job syncModel.SyncJob) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", job.Id)
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, job.Id, data, config.RedisSyncJobStoreTTL)
	if err == nil {
		log.Debug("Saved sync job", "status", job.Status)
	}
	return err
}

func (s *RedisSyncJobStore) GetJob(ctx context.Context, jobId string) (syncModel.SyncJob, bool) {
	var job syncModel.SyncJob
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", jobId)
	val, err := s.store.Get(ctx, jobId)
	if s.store.IsNil(err) {
		return job, false
	} else if err != nil {
		return job, false
	}

	if err = json.Unmarshal([]byte(val), &job); err != nil {
		log.Error("Failed to unmarshal sync job", "error", err)
		return job, false
	}
	return job, true
}

func (s *RedisSyncJobStore) DeleteJob(ctx context.Context, jobId string) {
	err := s.store.Del(ctx, jobId)
	if err != nil {
		s.logger.Error("Error deleting sync job from Redis", "jobId", jobId)
		return
	}
	s.logger.Debug("Sync job deleted from Redis", "jobId:", jobId)
}

func TestSyncJobStore(store *redisStore.Store) *RedisSyncJobStore {
	return &RedisSyncJobStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
