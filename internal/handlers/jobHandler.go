package handlers

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
	"github.com/akolanti/PolicyRAG/internal/job"
	"github.com/akolanti/PolicyRAG/internal/metrics"
	"github.com/akolanti/PolicyRAG/internal/rag"
	"github.com/akolanti/PolicyRAG/internal/syncer"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

var (
	handlerInstance *SyncDispatch //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

// SyncDispatch bridges the request path and the background job path: it
// persists the PENDING job record, enqueues the task and signals the pool.
type SyncDispatch struct {
	service    *job.Service
	engine     syncer.Engine
	ragService rag.Service
}

func InitHandlers(jobService *job.Service, engine syncer.Engine, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &SyncDispatch{service: jobService, engine: engine, ragService: ragService}

		logJH = logger_i.NewLogger("SyncDispatch")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting handlers")
	})

}

// EnqueueIncremental persists and queues an incremental sync run.
// The returned id is immediately pollable via the status endpoint.
func EnqueueIncremental(traceId string, revision string, changes []syncModel.ChangeEntry) (string, error) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)

	syncJob, err := handlerInstance.engine.PrepareJob(ctxC, syncModel.TriggerIncremental, revision)
	if err != nil {
		return "", err
	}

	handlerInstance.pushTask(job.SyncTask{Job: syncJob, TraceId: traceId, Changes: changes})
	return syncJob.Id, nil
}

// EnqueueFull persists and queues a full corpus resync.
func EnqueueFull(traceId string, ref string, force bool) (string, error) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)

	syncJob, err := handlerInstance.engine.PrepareJob(ctxC, syncModel.TriggerFull, ref)
	if err != nil {
		return "", err
	}

	handlerInstance.pushTask(job.SyncTask{Job: syncJob, TraceId: traceId, Ref: ref, Force: force})
	return syncJob.Id, nil
}

func GetSyncJob(id string, traceId string) (result syncModel.SyncJob, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *SyncDispatch) pushTask(task job.SyncTask) {

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.TaskChannel <- task //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Queued sync job", "job id", task.Job.Id, "trigger", task.Job.Trigger)

	//sync runs involve batch embedding - an external system call that might
	//take a while - so every queued sync task nudges the dispatcher, and
	//every Nth request does too; idle workers retire on their own
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || task.Job.Trigger == syncModel.TriggerFull {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
