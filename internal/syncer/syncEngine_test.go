package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/akolanti/PolicyRAG/internal/corpus"
	"github.com/akolanti/PolicyRAG/internal/data/store"
	"github.com/akolanti/PolicyRAG/internal/domain/docModel"
	"github.com/akolanti/PolicyRAG/internal/domain/errModel"
	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
	"github.com/prometheus/client_golang/prometheus"
)

type fakeFetcher struct {
	files    map[string]string
	failures map[string]error
}

func (f *fakeFetcher) GetFile(ctx context.Context, path string, revision string) ([]byte, error) {
	if err, ok := f.failures[path]; ok {
		return nil, err
	}
	content, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return []byte(content), nil
}

func (f *fakeFetcher) ListFiles(ctx context.Context, revision string) ([]string, error) {
	paths := make([]string, 0, len(f.files))
	for p := range f.files {
		paths = append(paths, p)
	}
	return paths, nil
}

func (f *fakeFetcher) SourceURL(path string, revision string) string {
	return "https://example.com/" + path
}

type fakeEmbedder struct{}

func (fakeEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{0.1}, nil
}

func (fakeEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHugeDataSet bool) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	for i := range chunks {
		vectors[i] = []float32{0.1}
	}
	return vectors, nil
}

// recordingIndex tracks live point counts per document so lifecycle tests
// can assert stale points never survive a re-index.
type recordingIndex struct {
	mu      sync.Mutex
	points  map[string]int
	upserts int
}

func newRecordingIndex() *recordingIndex {
	return &recordingIndex{points: make(map[string]int)}
}

func (r *recordingIndex) Search(ctx context.Context, vector []float32, k uint64, language string) ([]vectorDB.ScoredChunk, error) {
	return nil, nil
}

func (r *recordingIndex) UpsertChunks(ctx context.Context, doc docModel.Document, sourceURL string, chunks []docModel.DocChunk, vectors [][]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points[doc.Id] = len(chunks)
	r.upserts++
	return nil
}

func (r *recordingIndex) DeleteByDocument(ctx context.Context, docId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.points, docId)
	return nil
}

func (r *recordingIndex) GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error) {
	return "", false, nil
}

func (r *recordingIndex) SaveToCache(ctx context.Context, id string, vector []float32, answer string) error {
	return nil
}

type harness struct {
	engine Engine
	docs   *store.InMemoryDocumentStore
	jobs   *store.InMemorySyncJobStore
	index  *recordingIndex
	source *fakeFetcher
}

func newHarness(files map[string]string) *harness {
	h := &harness{
		docs:   store.InitInMemoryDocumentStore(),
		jobs:   store.InitInMemorySyncJobStore(),
		index:  newRecordingIndex(),
		source: &fakeFetcher{files: files, failures: map[string]error{}},
	}
	h.engine = NewEngine(h.source, fakeEmbedder{}, h.index, h.docs, h.jobs)
	return h
}

func (h *harness) prepare(t *testing.T, trigger syncModel.TriggerType, revision string) syncModel.SyncJob {
	t.Helper()
	job, err := h.engine.PrepareJob(context.Background(), trigger, revision)
	if err != nil {
		t.Fatalf("prepare job: %v", err)
	}
	return job
}

func (h *harness) jobState(t *testing.T, id string) syncModel.SyncJob {
	t.Helper()
	job, found := h.jobs.GetJob(context.Background(), id)
	if !found {
		t.Fatalf("job %s missing", id)
	}
	return job
}

func TestFullResyncIdempotent(t *testing.T) {
	h := newHarness(map[string]string{
		"policies/vacation.md": "# Vacation\n\nEmployees accrue 25 days per year.",
		"policies/sick.md":     "# Sick leave\n\nA doctor's note is required after 3 days.",
	})
	ctx := context.Background()

	first := h.prepare(t, syncModel.TriggerFull, "rev1")
	h.engine.RunFull(ctx, first, "rev1", false)

	state := h.jobState(t, first.Id)
	if state.Status != syncModel.JobStatusCompleted {
		t.Fatalf("first run status %s", state.Status)
	}
	if state.FilesProcessed != 2 {
		t.Fatalf("first run processed %d files", state.FilesProcessed)
	}

	second := h.prepare(t, syncModel.TriggerFull, "rev1")
	h.engine.RunFull(ctx, second, "rev1", false)

	state = h.jobState(t, second.Id)
	if state.Status != syncModel.JobStatusCompleted {
		t.Fatalf("second run status %s", state.Status)
	}
	if state.FilesProcessed != 0 || state.FilesTotal != 0 {
		t.Fatalf("second run at the same revision must process zero files, got %d/%d", state.FilesProcessed, state.FilesTotal)
	}
}

func TestFullResyncForceReprocessesUnchangedRevision(t *testing.T) {
	h := newHarness(map[string]string{"policies/a.md": "# A\n\nshort policy"})
	ctx := context.Background()

	h.engine.RunFull(ctx, h.prepare(t, syncModel.TriggerFull, "rev1"), "rev1", false)

	forced := h.prepare(t, syncModel.TriggerFull, "rev1")
	h.engine.RunFull(ctx, forced, "rev1", true)

	state := h.jobState(t, forced.Id)
	if state.FilesTotal != 1 {
		t.Fatalf("force must bypass the watermark, got %d files", state.FilesTotal)
	}
}

func TestShrinkingDocumentLeavesNoOrphans(t *testing.T) {
	long := "# Doc\n\n"
	for i := 0; i < 5; i++ {
		for j := 0; j < 40; j++ {
			long += "policy text sentence. "
		}
		long += "\n\n"
	}
	h := newHarness(map[string]string{"policies/big.md": long})
	ctx := context.Background()

	h.engine.RunIncremental(ctx, h.prepare(t, syncModel.TriggerIncremental, "rev1"),
		[]syncModel.ChangeEntry{{Path: "policies/big.md", Status: syncModel.ChangeAdded}})

	docId := corpus.DocumentId("policies/big.md")
	before, found := h.docs.GetDocument(ctx, docId)
	if !found || before.ChunkCount < 2 {
		t.Fatalf("setup needs a multi-chunk document, got %d chunks", before.ChunkCount)
	}

	h.source.files["policies/big.md"] = "# Doc\n\nnow tiny"
	job := h.prepare(t, syncModel.TriggerIncremental, "rev2")
	h.engine.RunIncremental(ctx, job,
		[]syncModel.ChangeEntry{{Path: "policies/big.md", Status: syncModel.ChangeModified}})

	h.index.mu.Lock()
	live := h.index.points[docId]
	h.index.mu.Unlock()
	if live != 1 {
		t.Fatalf("expected exactly the new chunk set in the index, got %d points", live)
	}

	state := h.jobState(t, job.Id)
	if state.ChunksDeleted != before.ChunkCount-1 {
		t.Fatalf("shrinkage not counted: deleted %d, want %d", state.ChunksDeleted, before.ChunkCount-1)
	}
}

func TestPerFileFailureDoesNotAbortRun(t *testing.T) {
	h := newHarness(map[string]string{
		"policies/good.md": "# Good\n\nreadable policy",
		"policies/bad.md":  "# Bad\n\nnever fetched",
	})
	h.source.failures["policies/bad.md"] = errors.New("rate limited")
	ctx := context.Background()

	job := h.prepare(t, syncModel.TriggerIncremental, "rev1")
	h.engine.RunIncremental(ctx, job, []syncModel.ChangeEntry{
		{Path: "policies/good.md", Status: syncModel.ChangeAdded},
		{Path: "policies/bad.md", Status: syncModel.ChangeAdded},
	})

	state := h.jobState(t, job.Id)
	if state.Status != syncModel.JobStatusCompleted {
		t.Fatalf("one bad file must not fail the job, status %s", state.Status)
	}
	if state.FilesProcessed != 1 || state.FilesFailed != 1 {
		t.Fatalf("processed/failed = %d/%d, want 1/1", state.FilesProcessed, state.FilesFailed)
	}
}

func TestUnchangedContentSkipsReindex(t *testing.T) {
	h := newHarness(map[string]string{"policies/a.md": "# A\n\nstable text"})
	ctx := context.Background()

	h.engine.RunIncremental(ctx, h.prepare(t, syncModel.TriggerIncremental, "rev1"),
		[]syncModel.ChangeEntry{{Path: "policies/a.md", Status: syncModel.ChangeAdded}})
	if h.index.upserts != 1 {
		t.Fatalf("expected one upsert, got %d", h.index.upserts)
	}

	// webhook redelivery at a new revision with identical content
	h.engine.RunIncremental(ctx, h.prepare(t, syncModel.TriggerIncremental, "rev2"),
		[]syncModel.ChangeEntry{{Path: "policies/a.md", Status: syncModel.ChangeModified}})
	if h.index.upserts != 1 {
		t.Fatalf("unchanged content must not be re-embedded, got %d upserts", h.index.upserts)
	}

	doc, _ := h.docs.GetDocument(ctx, corpus.DocumentId("policies/a.md"))
	if doc.Revision != "rev2" {
		t.Fatalf("revision must still advance on redelivery, got %s", doc.Revision)
	}
}

func TestRemovedPathDeletesDocumentAndPoints(t *testing.T) {
	h := newHarness(map[string]string{"policies/a.md": "# A\n\nto be removed"})
	ctx := context.Background()

	h.engine.RunIncremental(ctx, h.prepare(t, syncModel.TriggerIncremental, "rev1"),
		[]syncModel.ChangeEntry{{Path: "policies/a.md", Status: syncModel.ChangeAdded}})

	job := h.prepare(t, syncModel.TriggerIncremental, "rev2")
	h.engine.RunIncremental(ctx, job,
		[]syncModel.ChangeEntry{{Path: "policies/a.md", Status: syncModel.ChangeRemoved}})

	docId := corpus.DocumentId("policies/a.md")
	if _, found := h.docs.GetDocument(ctx, docId); found {
		t.Fatal("document record must be gone after removal")
	}
	h.index.mu.Lock()
	live := h.index.points[docId]
	h.index.mu.Unlock()
	if live != 0 {
		t.Fatalf("points must be gone after removal, got %d", live)
	}

	state := h.jobState(t, job.Id)
	if state.ChunksDeleted == 0 {
		t.Fatal("removal must count deleted chunks")
	}
}

func TestPartialFailureRetriedWithoutForce(t *testing.T) {
	h := newHarness(map[string]string{
		"policies/good.md": "# Good\n\nreadable policy",
		"policies/bad.md":  "# Bad\n\neventually readable",
	})
	h.source.failures["policies/bad.md"] = errors.New("rate limited")
	ctx := context.Background()

	first := h.prepare(t, syncModel.TriggerFull, "rev1")
	h.engine.RunFull(ctx, first, "rev1", false)

	state := h.jobState(t, first.Id)
	if state.FilesProcessed != 1 || state.FilesFailed != 1 {
		t.Fatalf("processed/failed = %d/%d, want 1/1", state.FilesProcessed, state.FilesFailed)
	}

	// the transient failure clears; the next unforced run at the same
	// revision must re-list the corpus instead of short-circuiting
	delete(h.source.failures, "policies/bad.md")
	second := h.prepare(t, syncModel.TriggerFull, "rev1")
	h.engine.RunFull(ctx, second, "rev1", false)

	state = h.jobState(t, second.Id)
	if state.FilesTotal != 2 {
		t.Fatalf("retry must re-list the corpus, got %d files", state.FilesTotal)
	}
	if state.FilesFailed != 0 {
		t.Fatalf("retry failed %d files", state.FilesFailed)
	}
	if _, found := h.docs.GetDocument(ctx, corpus.DocumentId("policies/bad.md")); !found {
		t.Fatal("previously failed file must be indexed on the retry")
	}

	// only the clean run stamps the watermark, so a third run is a no-op
	third := h.prepare(t, syncModel.TriggerFull, "rev1")
	h.engine.RunFull(ctx, third, "rev1", false)
	if state = h.jobState(t, third.Id); state.FilesTotal != 0 {
		t.Fatalf("clean run must advance the watermark, got %d files", state.FilesTotal)
	}
}

func chunkMutationCount(t *testing.T, op string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "chunk_mutations_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "op" && label.GetValue() == op {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRemovalOnlyRunCountsDeletedChunks(t *testing.T) {
	h := newHarness(map[string]string{"policies/a.md": "# A\n\nto be removed"})
	ctx := context.Background()

	h.engine.RunIncremental(ctx, h.prepare(t, syncModel.TriggerIncremental, "rev1"),
		[]syncModel.ChangeEntry{{Path: "policies/a.md", Status: syncModel.ChangeAdded}})

	before := chunkMutationCount(t, "deleted")
	job := h.prepare(t, syncModel.TriggerIncremental, "rev2")
	h.engine.RunIncremental(ctx, job,
		[]syncModel.ChangeEntry{{Path: "policies/a.md", Status: syncModel.ChangeRemoved}})

	state := h.jobState(t, job.Id)
	if state.ChunksDeleted == 0 {
		t.Fatal("removal must count deleted chunks on the job")
	}
	if got := chunkMutationCount(t, "deleted") - before; got != float64(state.ChunksDeleted) {
		t.Fatalf("chunk_mutations_total{op=deleted} grew by %v, want %d", got, state.ChunksDeleted)
	}
}

type failingJobStore struct{}

func (failingJobStore) GetJob(ctx context.Context, jobId string) (syncModel.SyncJob, bool) {
	return syncModel.SyncJob{}, false
}
func (failingJobStore) SaveJob(ctx context.Context, job syncModel.SyncJob) error {
	return errors.New("store down")
}
func (failingJobStore) DeleteJob(ctx context.Context, jobId string) {}

func TestPrepareJobSetupFailure(t *testing.T) {
	e := NewEngine(&fakeFetcher{}, fakeEmbedder{}, newRecordingIndex(), store.InitInMemoryDocumentStore(), failingJobStore{})
	_, err := e.PrepareJob(context.Background(), syncModel.TriggerFull, "rev1")
	if !errors.Is(err, errModel.ErrJobSetup) {
		t.Fatalf("expected a job-setup error, got %v", err)
	}
}
