package docModel

import (
	"context"
	"time"
)

// Document is one tracked corpus file. Id is the stable uuid-v5 hash of the
// corpus path, so re-indexing the same path always lands on the same record.
type Document struct {
	Id          string    `json:"id"`
	Path        string    `json:"path"`
	Revision    string    `json:"revision"`
	ContentHash string    `json:"content_hash"`
	Language    string    `json:"language"`
	Title       string    `json:"title"`
	Active      bool      `json:"active"`
	ChunkCount  int       `json:"chunk_count"`
	UpdatedTime time.Time `json:"updated_time"`
}

// DocChunk is one bounded slice of a Document. Identity is (DocId, Seq);
// PointId is the deterministic vector point id derived from path and sequence.
type DocChunk struct {
	DocId    string `json:"doc_id"`
	PointId  string `json:"point_id"`
	Seq      int    `json:"seq"`
	Text     string `json:"text"`
	TextHash string `json:"text_hash"`
	Language string `json:"language"`
	Title    string `json:"title"`
}

// RepoWatermark records the last revision a full resync completed at.
type RepoWatermark struct {
	LastSyncedRevision string    `json:"last_synced_revision"`
	FilesTotal         int       `json:"files_total"`
	FilesProcessed     int       `json:"files_processed"`
	SyncedTime         time.Time `json:"synced_time"`
}

type DocumentStore interface {
	GetDocument(ctx context.Context, id string) (Document, bool)
	SaveDocument(ctx context.Context, doc Document) error
	DeleteDocument(ctx context.Context, id string) error
	GetWatermark(ctx context.Context) (RepoWatermark, bool)
	SaveWatermark(ctx context.Context, mark RepoWatermark) error
}
