package vectorDB

import (
	"context"

	"github.com/akolanti/PolicyRAG/internal/domain/docModel"
)

// ScoredChunk is one similarity-search hit with its denormalized payload.
type ScoredChunk struct {
	PointId   string
	Score     float32
	Text      string
	Title     string
	Path      string
	SourceURL string
	DocId     string
	Language  string
	Seq       int
}

// VectorIndex is the narrow capability interface the sync and retrieval
// engines depend on. Point lifecycle is slaved to chunk lifecycle: callers
// must DeleteByDocument before (or rely on deterministic point ids while)
// writing a document's new chunk set, so stale points never survive an update.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, k uint64, language string) ([]ScoredChunk, error)

	UpsertChunks(ctx context.Context, doc docModel.Document, sourceURL string, chunks []docModel.DocChunk, vectors [][]float32) error
	DeleteByDocument(ctx context.Context, docId string) error

	GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, id string, vector []float32, answer string) error
}
