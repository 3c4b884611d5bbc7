package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

// HttpStatusRecorder wraps a ResponseWriter so the middleware can label
// http_requests_total with the status the handler actually wrote.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var evidenceGateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "evidence_gate_total",
	Help: "Retrieval passes labelled by gate outcome",
}, []string{"outcome"})

var syncJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sync_jobs_total",
	Help: "Finished sync jobs labelled by trigger and final status",
}, []string{"trigger", "status"})

var chunkMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chunk_mutations_total",
	Help: "Vector index chunk writes labelled by operation",
}, []string{"op"})

var answersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "answers_total",
	Help: "Answered questions labelled by outcome",
}, []string{"outcome"})

func IncrementEvidenceGate(outcome string) {
	evidenceGateTotal.WithLabelValues(outcome).Inc()
}

func IncrementSyncJobs(trigger string, status string) {
	syncJobsTotal.WithLabelValues(trigger, status).Inc()
}

func AddChunkMutations(op string, count int) {
	chunkMutationsTotal.WithLabelValues(op).Add(float64(count))
}

func IncrementAnswers(outcome string) {
	answersTotal.WithLabelValues(outcome).Inc()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent in ProcessRequest.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	//dependencyLatency.WithLabelValues(label).Observe(time.Since(timeElapsed).Seconds())
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
