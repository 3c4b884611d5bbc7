package openaiEmbedding

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/rag/embedding"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	api   openai.Client
	model string
}

func GetOpenAIEmbeddingClient(ctx context.Context, modelName string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")

		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			logger.Error("OPENAI_API_KEY is not set")
			return
		}
		embeddingClient = &client{
			api:   openai.NewClient(option.WithAPIKey(key)),
			model: modelName,
		}
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{api: embeddingClient.api, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("no embedding data returned from API")
	}
	return vectors[0], nil
}

// BatchEmbedding embeds all chunks in one request. OpenAI has no separate
// batch-job path for the corpus sizes we handle, so isHugeDataSet is ignored.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string, _ bool) ([][]float32, error) {
	return c.embed(ctx, chunks)
}

func (c *client) embed(ctx context.Context, inputs []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, err
	}

	results := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		vector := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vector[i] = float32(v)
		}
		results[item.Index] = vector
	}
	return results, nil
}
