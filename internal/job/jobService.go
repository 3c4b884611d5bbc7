package job

import (
	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
)

// SyncTask is one unit of background work for the worker pool. The SyncJob
// audit record is already persisted as PENDING before the task enqueues, so
// status polling works even while the task waits in the channel.
type SyncTask struct {
	Job     syncModel.SyncJob
	TraceId string

	// incremental payload
	Changes []syncModel.ChangeEntry

	// full-resync payload
	Ref   string
	Force bool
}

type Service struct {
	TaskChannel       chan SyncTask
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          syncModel.SyncJobStore
}

type ServiceConfig struct {
	TaskChannel       chan SyncTask
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          syncModel.SyncJobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		TaskChannel:       cfg.TaskChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
	}
}
