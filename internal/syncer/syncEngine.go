package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/PolicyRAG/internal/adapter/utils"
	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/corpus"
	"github.com/akolanti/PolicyRAG/internal/corpus/fetcher"
	"github.com/akolanti/PolicyRAG/internal/domain/docModel"
	"github.com/akolanti/PolicyRAG/internal/domain/errModel"
	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
	"github.com/akolanti/PolicyRAG/internal/metrics"
	"github.com/akolanti/PolicyRAG/internal/rag/embedding"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

// Engine drives both sync paths. PrepareJob runs on the request path and
// must stay cheap; RunIncremental and RunFull execute on the background
// worker and own the job record until it is terminal.
type Engine interface {
	PrepareJob(ctx context.Context, trigger syncModel.TriggerType, revision string) (syncModel.SyncJob, error)
	RunIncremental(ctx context.Context, job syncModel.SyncJob, changes []syncModel.ChangeEntry)
	RunFull(ctx context.Context, job syncModel.SyncJob, ref string, force bool)
}

type engine struct {
	fetcher  fetcher.ContentFetcher
	embedder embedding.Embedder
	index    vectorDB.VectorIndex
	docs     docModel.DocumentStore
	jobs     syncModel.SyncJobStore
	logger   *logger_i.Logger
}

func NewEngine(f fetcher.ContentFetcher, em embedding.Embedder, index vectorDB.VectorIndex, docs docModel.DocumentStore, jobs syncModel.SyncJobStore) Engine {
	return &engine{
		fetcher:  f,
		embedder: em,
		index:    index,
		docs:     docs,
		jobs:     jobs,
		logger:   logger_i.NewLogger("Sync Engine"),
	}
}

func (e *engine) PrepareJob(ctx context.Context, trigger syncModel.TriggerType, revision string) (syncModel.SyncJob, error) {
	job := syncModel.SyncJob{
		Id:        utils.GetNewUUID(),
		Trigger:   trigger,
		Status:    syncModel.JobStatusPending,
		Revision:  revision,
		StartTime: time.Now().UTC(),
	}
	if err := e.jobs.SaveJob(ctx, job); err != nil {
		return syncModel.SyncJob{}, errModel.Tag(errModel.ErrJobSetup, err)
	}
	return job, nil
}

func (e *engine) RunIncremental(ctx context.Context, job syncModel.SyncJob, changes []syncModel.ChangeEntry) {
	log := e.logger.With("jobId", job.Id, "revision", job.Revision)

	filtered := corpus.FilterChanges(changes)
	job.Status = syncModel.JobStatusRunning
	job.FilesTotal = len(filtered)
	if err := e.jobs.SaveJob(ctx, job); err != nil {
		log.Error("Cannot mark job running", "error", err)
		e.failJob(ctx, job, errModel.Tag(errModel.ErrJobSetup, err))
		return
	}

	log.Info("Incremental sync started", "files", len(filtered))

	upserts := make([]string, 0, len(filtered))
	for _, change := range filtered {
		if change.Status == syncModel.ChangeRemoved {
			e.removeDocument(ctx, &job, change.Path, log)
			continue
		}
		upserts = append(upserts, change.Path)
	}

	e.processFiles(ctx, &job, upserts, log)
	e.finishJob(ctx, &job, log)
}

func (e *engine) RunFull(ctx context.Context, job syncModel.SyncJob, ref string, force bool) {
	log := e.logger.With("jobId", job.Id, "ref", ref)

	if !force {
		if mark, found := e.docs.GetWatermark(ctx); found && mark.LastSyncedRevision == ref {
			log.Info("Corpus already synced at this revision, nothing to do")
			job.Status = syncModel.JobStatusRunning
			e.finishJob(ctx, &job, log)
			return
		}
	}

	listing, err := e.fetcher.ListFiles(ctx, ref)
	if err != nil {
		log.Error("Corpus listing failed", "error", err)
		e.failJob(ctx, job, errModel.Tag(errModel.ErrFetch, err))
		return
	}

	paths := corpus.FilterListing(listing)
	job.Status = syncModel.JobStatusRunning
	job.FilesTotal = len(paths)
	if err := e.jobs.SaveJob(ctx, job); err != nil {
		log.Error("Cannot mark job running", "error", err)
		e.failJob(ctx, job, errModel.Tag(errModel.ErrJobSetup, err))
		return
	}

	log.Info("Full resync started", "files", len(paths), "force", force)
	e.processFiles(ctx, &job, paths, log)

	// the watermark only advances after a clean run; a partial run must stay
	// retryable, so the next unforced resync at this ref re-lists the corpus
	// and the unchanged files skip cheaply on their content hash
	if job.FilesFailed == 0 {
		mark := docModel.RepoWatermark{
			LastSyncedRevision: ref,
			FilesTotal:         job.FilesTotal,
			FilesProcessed:     job.FilesProcessed,
			SyncedTime:         time.Now().UTC(),
		}
		if err := e.docs.SaveWatermark(ctx, mark); err != nil {
			log.Error("Cannot save watermark", "error", err)
		}
	} else {
		log.Warn("Watermark not advanced, failed files stay eligible for retry", "failed", job.FilesFailed)
	}

	e.finishJob(ctx, &job, log)
}

// processFiles fans the per-file work out over a bounded pool. Failures are
// absorbed per file; the batch never aborts early.
func (e *engine) processFiles(ctx context.Context, job *syncModel.SyncJob, paths []string, log *logger_i.Logger) {
	if len(paths) == 0 {
		return
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, config.SyncConcurrency)

	for _, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(p string) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome, err := e.processFile(ctx, job.Revision, p)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("File skipped", "path", p, "error", err)
				job.FilesFailed++
				return
			}
			job.FilesProcessed++
			job.ChunksCreated += outcome.created
			job.ChunksUpdated += outcome.updated
			job.ChunksDeleted += outcome.deleted
		}(path)
	}
	wg.Wait()
}

type fileOutcome struct {
	created int
	updated int
	deleted int
}

func (e *engine) processFile(ctx context.Context, revision string, path string) (fileOutcome, error) {
	content, err := e.fetcher.GetFile(ctx, path, revision)
	if err != nil {
		return fileOutcome{}, errModel.Tag(errModel.ErrFetch, err)
	}

	text, err := corpus.ExtractText(path, content)
	if err != nil {
		return fileOutcome{}, errModel.Tag(errModel.ErrFetch, err)
	}

	docId := corpus.DocumentId(path)
	hash := corpus.ContentHash(text)

	existing, found := e.docs.GetDocument(ctx, docId)
	if found && existing.ContentHash == hash {
		// same content, possibly re-delivered at a new revision
		if existing.Revision != revision {
			existing.Revision = revision
			existing.UpdatedTime = time.Now().UTC()
			if err := e.docs.SaveDocument(ctx, existing); err != nil {
				return fileOutcome{}, err
			}
		}
		return fileOutcome{}, nil
	}

	pieces := corpus.SplitText(text, config.ChunkMaxSize, config.ChunkOverlap)
	if len(pieces) == 0 {
		return fileOutcome{}, fmt.Errorf("no extractable text in %s", path)
	}

	language := corpus.DetectLanguage(text)
	title := corpus.ExtractTitle(text)

	doc := docModel.Document{
		Id:          docId,
		Path:        path,
		Revision:    revision,
		ContentHash: hash,
		Language:    language,
		Title:       title,
		Active:      true,
		ChunkCount:  len(pieces),
		UpdatedTime: time.Now().UTC(),
	}

	chunks := make([]docModel.DocChunk, len(pieces))
	texts := make([]string, len(pieces))
	for i, piece := range pieces {
		chunks[i] = docModel.DocChunk{
			DocId:    docId,
			PointId:  corpus.PointId(path, i),
			Seq:      i,
			Text:     piece,
			TextHash: corpus.ContentHash(piece),
			Language: language,
			Title:    title,
		}
		texts[i] = piece
	}

	vectors, err := e.embedder.BatchEmbedding(ctx, texts, len(texts) > config.EmbedBatchSize)
	if err != nil {
		return fileOutcome{}, errModel.Tag(errModel.ErrEmbedding, err)
	}

	// stale points must go before the new set lands, otherwise a shrinking
	// document leaves orphans past the new chunk count
	if found {
		if err := e.index.DeleteByDocument(ctx, docId); err != nil {
			return fileOutcome{}, errModel.Tag(errModel.ErrIndex, err)
		}
	}
	if err := e.index.UpsertChunks(ctx, doc, e.fetcher.SourceURL(path, revision), chunks, vectors); err != nil {
		return fileOutcome{}, errModel.Tag(errModel.ErrIndex, err)
	}

	if err := e.docs.SaveDocument(ctx, doc); err != nil {
		return fileOutcome{}, err
	}

	outcome := fileOutcome{}
	if found {
		outcome.updated = len(chunks)
		if existing.ChunkCount > len(chunks) {
			outcome.deleted = existing.ChunkCount - len(chunks)
		}
	} else {
		outcome.created = len(chunks)
	}
	return outcome, nil
}

func (e *engine) removeDocument(ctx context.Context, job *syncModel.SyncJob, path string, log *logger_i.Logger) {
	docId := corpus.DocumentId(path)

	existing, found := e.docs.GetDocument(ctx, docId)
	if !found {
		job.FilesProcessed++
		return
	}

	if err := e.index.DeleteByDocument(ctx, docId); err != nil {
		log.Error("Point cleanup failed", "path", path, "error", err)
		job.FilesFailed++
		return
	}
	if err := e.docs.DeleteDocument(ctx, docId); err != nil {
		log.Error("Document delete failed", "path", path, "error", err)
		job.FilesFailed++
		return
	}
	job.FilesProcessed++
	job.ChunksDeleted += existing.ChunkCount
}

func (e *engine) finishJob(ctx context.Context, job *syncModel.SyncJob, log *logger_i.Logger) {
	job.Status = syncModel.JobStatusCompleted
	job.EndTime = time.Now().UTC()
	if err := e.jobs.SaveJob(ctx, *job); err != nil {
		log.Error("Cannot save terminal job state", "error", err)
	}
	metrics.IncrementSyncJobs(string(job.Trigger), string(job.Status))
	metrics.AddChunkMutations("created", job.ChunksCreated)
	metrics.AddChunkMutations("updated", job.ChunksUpdated)
	metrics.AddChunkMutations("deleted", job.ChunksDeleted)
	log.Info("Sync finished", "processed", job.FilesProcessed, "failed", job.FilesFailed,
		"created", job.ChunksCreated, "updated", job.ChunksUpdated, "deleted", job.ChunksDeleted)
}

func (e *engine) failJob(ctx context.Context, job syncModel.SyncJob, err error) {
	job.Status = syncModel.JobStatusFailed
	job.EndTime = time.Now().UTC()
	job.ErrorMessage = err.Error()
	if saveErr := e.jobs.SaveJob(ctx, job); saveErr != nil {
		e.logger.Error("Cannot mark job failed", "jobId", job.Id, "error", saveErr)
	}
	metrics.IncrementSyncJobs(string(job.Trigger), string(job.Status))
}
