package store

import (
	"context"
	"sync"

	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem Store")

type InMemorySyncJobStore struct {
	jobMutex *sync.RWMutex
	jobMap   map[string]syncModel.SyncJob
}

func InitInMemorySyncJobStore() *InMemorySyncJobStore {
	return &InMemorySyncJobStore{
		jobMutex: new(sync.RWMutex),
		jobMap:   make(map[string]syncModel.SyncJob),
	}
}

func (store *InMemorySyncJobStore) SaveJob(ctx context.Context, job syncModel.SyncJob) error {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	store.jobMap[job.Id] = job
	return nil
}

func (store *InMemorySyncJobStore) GetJob(ctx context.Context, jobId string) (syncModel.SyncJob, bool) {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()
	result, found := store.jobMap[jobId]
	return result, found
}

func (store *InMemorySyncJobStore) DeleteJob(ctx context.Context, jobId string) {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	delete(store.jobMap, jobId)
}
