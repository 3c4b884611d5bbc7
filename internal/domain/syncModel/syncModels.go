package syncModel

import (
	"context"
	"time"
)

type JobStatus string
type TriggerType string
type ChangeStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"

	TriggerIncremental TriggerType = "incremental"
	TriggerFull        TriggerType = "full"

	ChangeAdded    ChangeStatus = "added"
	ChangeModified ChangeStatus = "modified"
	ChangeRemoved  ChangeStatus = "removed"
)

// ChangeEntry is one path in a change notification.
type ChangeEntry struct {
	Path   string       `json:"path"`
	Status ChangeStatus `json:"status"`
}

// SyncJob is the read-only audit trail of one sync run. It is not a
// transaction coordinator: counters are checkpoints, not commitments.
type SyncJob struct {
	Id             string      `json:"id"`
	Trigger        TriggerType `json:"trigger"`
	Status         JobStatus   `json:"status"`
	Revision       string      `json:"revision"`
	FilesTotal     int         `json:"files_total"`
	FilesProcessed int         `json:"files_processed"`
	FilesFailed    int         `json:"files_failed"`
	ChunksCreated  int         `json:"chunks_created"`
	ChunksUpdated  int         `json:"chunks_updated"`
	ChunksDeleted  int         `json:"chunks_deleted"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        time.Time   `json:"end_time,omitempty"`
	ErrorMessage   string      `json:"error_message,omitempty"`
}

// Terminal reports whether the job reached a final state.
// pending -> running -> {completed, failed}; terminal states are final.
func (j SyncJob) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

type SyncJobStore interface {
	GetJob(ctx context.Context, jobId string) (SyncJob, bool)
	SaveJob(ctx context.Context, job SyncJob) error
	DeleteJob(ctx context.Context, jobId string)
}
