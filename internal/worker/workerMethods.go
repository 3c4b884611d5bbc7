package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
	"github.com/akolanti/PolicyRAG/internal/job"
	"github.com/akolanti/PolicyRAG/internal/metrics"
)

// executeTask runs one sync job to its terminal state. The engine owns the
// job record from here on; the worker only provides the execution context.
func executeTask(task job.SyncTask) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(task.Job.Trigger), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, task.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.SyncJobTimeout)
	defer cancel()
	logger.Debug("Processing sync job:", "job Id:", task.Job.Id, "trigger", task.Job.Trigger)

	switch task.Job.Trigger {
	case syncModel.TriggerFull:
		_syncEngine.RunFull(ctx, task.Job, task.Ref, task.Force)
	default:
		_syncEngine.RunIncremental(ctx, task.Job, task.Changes)
	}
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}
