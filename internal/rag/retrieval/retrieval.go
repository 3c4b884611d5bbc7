package retrieval

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/domain/errModel"
	"github.com/akolanti/PolicyRAG/internal/metrics"
	"github.com/akolanti/PolicyRAG/internal/rag/embedding"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

// Result is the gated output of one retrieval pass. When Sufficient is
// false the caller must answer with the canonical no-evidence message and
// must not invoke the completion model.
type Result struct {
	Sufficient  bool
	TopScore    float32
	Evidence    []vectorDB.ScoredChunk
	QueryVector []float32
}

type Searcher interface {
	Retrieve(ctx context.Context, query string, language string) (Result, error)
}

type engine struct {
	embedder  embedding.Embedder
	index     vectorDB.VectorIndex
	poolSize  uint64
	threshold float32
	lambda    float64
	logger    *logger_i.Logger
}

// NewEngine constructor
func NewEngine(em embedding.Embedder, index vectorDB.VectorIndex) Searcher {
	return &engine{
		embedder:  em,
		index:     index,
		poolSize:  config.SearchPoolSize,
		threshold: config.EvidenceScoreThreshold,
		lambda:    config.DiversificationLambda,
		logger:    logger_i.NewLogger("Retrieval"),
	}
}

func (e *engine) Retrieve(ctx context.Context, query string, language string) (Result, error) {
	log := e.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	normalized := strings.Join(strings.Fields(query), " ")
	if normalized == "" {
		return Result{}, nil
	}

	vector, err := e.embedder.GetEmbedding(ctx, normalized)
	if err != nil {
		return Result{}, errModel.Tag(errModel.ErrEmbedding, err)
	}

	hits, err := e.index.Search(ctx, vector, e.poolSize, language)
	if err != nil {
		return Result{}, errModel.Tag(errModel.ErrIndex, err)
	}
	if len(hits) == 0 {
		log.Debug("No candidates returned")
		metrics.IncrementEvidenceGate("empty")
		return Result{QueryVector: vector}, nil
	}

	// hits arrive sorted by score, but the gate reads the true max anyway
	topScore := hits[0].Score
	for _, hit := range hits {
		if hit.Score > topScore {
			topScore = hit.Score
		}
	}

	result := Result{
		TopScore:    topScore,
		Sufficient:  topScore >= e.threshold, //boundary score passes
		QueryVector: vector,
	}

	if !result.Sufficient {
		log.Debug("Evidence gate closed", "topScore", topScore, "threshold", e.threshold)
		metrics.IncrementEvidenceGate("insufficient")
		return result, nil
	}

	metrics.IncrementEvidenceGate("sufficient")
	result.Evidence = diversify(hits, e.lambda)
	return result, nil
}
