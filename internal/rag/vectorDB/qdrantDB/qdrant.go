package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/domain/docModel"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.EmbeddingDBName

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQuadrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			quadrantInstance = res
			initCacheCollection(ctx, quadrantInstance)
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
	}

	err = createCollection(context.Background(), client, collectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Search(ctx context.Context, vectorFloat []float32, k uint64, language string) ([]vectorDB.ScoredChunk, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	query := &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(k),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if language != "" {
		query.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("language", language),
			},
		}
	}

	result, err := db.QObj.Query(ctx, query)
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	hits := make([]vectorDB.ScoredChunk, 0, len(result))
	for _, hit := range result {
		hits = append(hits, vectorDB.ScoredChunk{
			PointId:   hit.Payload["point_id"].GetStringValue(),
			Score:     hit.Score,
			Text:      hit.Payload["content"].GetStringValue(),
			Title:     hit.Payload["title"].GetStringValue(),
			Path:      hit.Payload["path"].GetStringValue(),
			SourceURL: hit.Payload["source_url"].GetStringValue(),
			DocId:     hit.Payload["doc_id"].GetStringValue(),
			Language:  hit.Payload["language"].GetStringValue(),
			Seq:       int(hit.Payload["seq"].GetIntegerValue()),
		})
	}

	loggr.Debug("Search finished", "hits", len(hits))
	return hits, nil
}

// UpsertChunks writes a document's full chunk/point set. Point ids are
// deterministic (path+seq), so re-indexing the same path overwrites the old
// points in place; the caller still deletes the document's previous set first
// to drop points past the new chunk count.
func (db *ClientHolder) UpsertChunks(ctx context.Context, doc docModel.Document, sourceURL string, chunks []docModel.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.PointId),
			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"point_id":     chunk.PointId,
				"content":      chunk.Text,
				"doc_id":       chunk.DocId,
				"path":         doc.Path,
				"revision":     doc.Revision,
				"language":     chunk.Language,
				"content_hash": doc.ContentHash,
				"title":        chunk.Title,
				"source_url":   sourceURL,
				"seq":          chunk.Seq,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil
}

// DeleteByDocument removes every point belonging to a document id. Used on
// document removal and before re-index so a shrinking chunk count cannot
// leave orphaned points behind.
func (db *ClientHolder) DeleteByDocument(ctx context.Context, docId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("doc_id", docId),
			},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete by document failed: %w", err)
	}
	return nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {

		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension, //TODO:this shouldnt be hardcoded
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}
