package openaiLLM

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/domain/errModel"
	"github.com/akolanti/PolicyRAG/internal/rag/llm"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

type llmClient struct {
	api       openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(ctx context.Context, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")

		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			logger.Error("OPENAI_API_KEY is not set")
			return
		}
		openaiClient = &llmClient{
			api:       openai.NewClient(option.WithAPIKey(key)),
			modelName: modelName,
		}
		logger.Info("OpenAI client created", "model", modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return &llmClient{api: openaiClient.api, modelName: openaiClient.modelName}
}

func (c *llmClient) Complete(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, openai.SystemMessage(systemInstruction))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.modelName),
		Messages:    messages,
		Temperature: openai.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		log.Error("OpenAI completion failed", "error", err)
		return "", errModel.Tag(errModel.ErrModel, err)
	}
	if len(resp.Choices) == 0 {
		return "", errModel.Tag(errModel.ErrModel, errors.New("no choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}
