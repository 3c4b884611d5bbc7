package rag_test

import (
	"context"

	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
	"github.com/akolanti/PolicyRAG/internal/domain/docModel"
	"github.com/akolanti/PolicyRAG/internal/rag/retrieval"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
)

// MockIndex implements vectorDB.VectorIndex
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnSearch           func(ctx context.Context, vector []float32, k uint64, language string) ([]vectorDB.ScoredChunk, error)
	OnGetCachedAnswer  func(ctx context.Context, queryVector []float32) (string, bool, error)
	OnSaveToCache      func(ctx context.Context, id string, vector []float32, answer string) error
	OnUpsertChunks     func(ctx context.Context, doc docModel.Document, sourceURL string, chunks []docModel.DocChunk, vectors [][]float32) error
	OnDeleteByDocument func(ctx context.Context, docId string) error
}

func (m *MockIndex) Search(ctx context.Context, v []float32, k uint64, language string) ([]vectorDB.ScoredChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, v, k, language)
	}
	return nil, nil
}

func (m *MockIndex) GetCachedAnswer(ctx context.Context, v []float32) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, v)
	}
	return "", false, nil
}

func (m *MockIndex) SaveToCache(ctx context.Context, id string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, id, v, a)
	}
	return nil
}

func (m *MockIndex) UpsertChunks(ctx context.Context, doc docModel.Document, sourceURL string, chunks []docModel.DocChunk, vectors [][]float32) error {
	if m.OnUpsertChunks != nil {
		return m.OnUpsertChunks(ctx, doc, sourceURL, chunks, vectors)
	}
	return nil
}

func (m *MockIndex) DeleteByDocument(ctx context.Context, docId string) error {
	if m.OnDeleteByDocument != nil {
		return m.OnDeleteByDocument(ctx, docId)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks, isHuge)
	}
	// Return dummy vectors matching chunk size
	return make([][]float32, len(chunks)), nil
}

// MockLLM implements llm.Provider and counts completions so gate tests can
// assert the model was never reached.
type MockLLM struct {
	Calls      int
	OnComplete func(ctx context.Context, systemInstruction string, prompt string) (string, error)
}

func (m *MockLLM) Complete(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	m.Calls++
	if m.OnComplete != nil {
		return m.OnComplete(ctx, systemInstruction, prompt)
	}
	return "mocked llm response", nil
}

// MockRetriever implements retrieval.Searcher
type MockRetriever struct {
	OnRetrieve func(ctx context.Context, query string, language string) (retrieval.Result, error)
}

func (m *MockRetriever) Retrieve(ctx context.Context, query string, language string) (retrieval.Result, error) {
	if m.OnRetrieve != nil {
		return m.OnRetrieve(ctx, query, language)
	}
	return retrieval.Result{}, nil
}

// MockMemory implements memory.Manager
type MockMemory struct {
	Appended   []chatModel.Message
	ResetCalls int

	OnEnsureSession func(ctx context.Context, chatId string, queryText string) (chatModel.Conversation, error)
	OnBuildContext  func(ctx context.Context, chatId string, tokenBudget int) (chatModel.MemoryContext, error)
	OnAppend        func(ctx context.Context, msg chatModel.Message) error
}

func (m *MockMemory) EnsureSession(ctx context.Context, chatId string, queryText string) (chatModel.Conversation, error) {
	if m.OnEnsureSession != nil {
		return m.OnEnsureSession(ctx, chatId, queryText)
	}
	return chatModel.Conversation{ChatId: chatId, Language: "en"}, nil
}

func (m *MockMemory) Append(ctx context.Context, msg chatModel.Message) error {
	m.Appended = append(m.Appended, msg)
	if m.OnAppend != nil {
		return m.OnAppend(ctx, msg)
	}
	return nil
}

func (m *MockMemory) BuildContext(ctx context.Context, chatId string, tokenBudget int) (chatModel.MemoryContext, error) {
	if m.OnBuildContext != nil {
		return m.OnBuildContext(ctx, chatId, tokenBudget)
	}
	return chatModel.MemoryContext{}, nil
}

func (m *MockMemory) Reset(ctx context.Context, chatId string) error {
	m.ResetCalls++
	return nil
}
