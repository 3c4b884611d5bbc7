package retrieval

import (
	"context"
	"testing"

	"github.com/akolanti/PolicyRAG/internal/domain/docModel"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
)

type fakeEmbedder struct {
	calls  int
	vector []float32
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	f.calls++
	return f.vector, nil
}

func (f *fakeEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHugeDataSet bool) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	for i := range chunks {
		vectors[i] = f.vector
	}
	return vectors, nil
}

type fakeIndex struct {
	hits []vectorDB.ScoredChunk
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, k uint64, language string) ([]vectorDB.ScoredChunk, error) {
	return f.hits, nil
}

func (f *fakeIndex) UpsertChunks(ctx context.Context, doc docModel.Document, sourceURL string, chunks []docModel.DocChunk, vectors [][]float32) error {
	return nil
}

func (f *fakeIndex) DeleteByDocument(ctx context.Context, docId string) error {
	return nil
}

func (f *fakeIndex) GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error) {
	return "", false, nil
}

func (f *fakeIndex) SaveToCache(ctx context.Context, id string, vector []float32, answer string) error {
	return nil
}

func chunk(id string, score float32, title string, text string) vectorDB.ScoredChunk {
	return vectorDB.ScoredChunk{PointId: id, Score: score, Title: title, Text: text}
}

func newTestEngine(em *fakeEmbedder, idx *fakeIndex) Searcher {
	return NewEngine(em, idx)
}

func TestGateRejectsBelowThreshold(t *testing.T) {
	em := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	idx := &fakeIndex{hits: []vectorDB.ScoredChunk{
		chunk("a", 0.75, "Vacation", "vacation policy text"),
		chunk("b", 0.60, "Remote", "remote work text"),
	}}
	e := newTestEngine(em, idx)

	result, err := e.Retrieve(context.Background(), "how many vacation days", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sufficient {
		t.Fatal("score 0.75 must not pass the 0.80 gate")
	}
	if len(result.Evidence) != 0 {
		t.Fatalf("insufficient result must carry no evidence, got %d", len(result.Evidence))
	}
	if result.TopScore != 0.75 {
		t.Fatalf("expected top score 0.75, got %v", result.TopScore)
	}
}

func TestGateAcceptsExactThreshold(t *testing.T) {
	em := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	idx := &fakeIndex{hits: []vectorDB.ScoredChunk{
		chunk("a", 0.80, "Vacation", "vacation policy text"),
	}}
	e := newTestEngine(em, idx)

	result, err := e.Retrieve(context.Background(), "how many vacation days", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Sufficient {
		t.Fatal("score exactly at the threshold must pass the gate")
	}
	if len(result.Evidence) != 1 {
		t.Fatalf("expected 1 evidence chunk, got %d", len(result.Evidence))
	}
}

func TestEmptyQuerySkipsEmbedding(t *testing.T) {
	em := &fakeEmbedder{vector: []float32{0.1}}
	e := newTestEngine(em, &fakeIndex{})

	result, err := e.Retrieve(context.Background(), "   \n\t ", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sufficient {
		t.Fatal("blank query must not produce evidence")
	}
	if em.calls != 0 {
		t.Fatalf("blank query must not reach the embedder, got %d calls", em.calls)
	}
}

func TestDiversifyKeepsTopHitFirst(t *testing.T) {
	hits := []vectorDB.ScoredChunk{
		chunk("b", 0.85, "Expenses", "expense reimbursement rules for travel"),
		chunk("a", 0.92, "Vacation", "vacation accrual for full time employees"),
		chunk("c", 0.82, "Sick leave", "sick leave certification requirements"),
	}
	ordered := diversify(hits, 0.7)
	if ordered[0].PointId != "a" {
		t.Fatalf("best scored hit must stay first, got %s", ordered[0].PointId)
	}
	if len(ordered) != len(hits) {
		t.Fatalf("diversification must not drop candidates: %d != %d", len(ordered), len(hits))
	}
}

func TestDiversifyDemotesNearDuplicate(t *testing.T) {
	hits := []vectorDB.ScoredChunk{
		chunk("a", 0.90, "Remote work", "remote work is allowed for all employees after probation"),
		chunk("dup", 0.89, "Remote work", "remote work is allowed for all employees after probation period"),
		chunk("c", 0.84, "Equipment", "company issued laptops must be returned on departure"),
	}
	ordered := diversify(hits, 0.7)
	if ordered[0].PointId != "a" {
		t.Fatalf("expected a first, got %s", ordered[0].PointId)
	}
	if ordered[1].PointId != "c" {
		t.Fatalf("near duplicate should be demoted below the distinct chunk, got %s second", ordered[1].PointId)
	}
	if ordered[2].PointId != "dup" {
		t.Fatalf("expected dup last, got %s", ordered[2].PointId)
	}
}
