package mcpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/PolicyRAG/internal/adapter/utils"
	"github.com/akolanti/PolicyRAG/internal/rag"
	"github.com/akolanti/PolicyRAG/internal/rag/retrieval"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

const version = "1.0.0"

// Serve exposes the retrieval pipeline to MCP clients over streamable HTTP.
// Blocks until the context is cancelled.
func Serve(ctx context.Context, addr string, ragService rag.Service, retriever retrieval.Searcher) {
	logger := logger_i.NewLogger("MCP")

	impl := &mcp.Implementation{
		Name:    "policyrag",
		Version: version,
	}
	srv := mcp.NewServer(impl, nil)

	t := &tools{ragService: ragService, retriever: retriever}
	t.register(srv)

	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return srv
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	logger.Info("MCP server is listening at", "address", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("MCP server crashed", "error", err)
	}
}

type tools struct {
	ragService rag.Service
	retriever  retrieval.Searcher
}

// SearchInput is the input schema for the search_policies tool.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"the question or phrase to search the policy corpus for"`
	Language string `json:"language,omitempty" jsonschema:"optional language filter, e.g. en or ru"`
}

// SearchOutput is the output schema for the search_policies tool.
type SearchOutput struct {
	Sufficient bool          `json:"sufficient"`
	TopScore   float32       `json:"top_score"`
	Results    []ChunkOutput `json:"results"`
}

// ChunkOutput is a single scored evidence excerpt.
type ChunkOutput struct {
	Title     string  `json:"title"`
	Path      string  `json:"path"`
	SourceURL string  `json:"source_url,omitempty"`
	Score     float32 `json:"score"`
	Text      string  `json:"text"`
}

// AskInput is the input schema for the ask_policy tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the policy question to answer"`
	ChatId   string `json:"chat_id,omitempty" jsonschema:"optional chat id to continue a conversation"`
}

// AskOutput is the output schema for the ask_policy tool.
type AskOutput struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources,omitempty"`
	Sufficient bool     `json:"sufficient"`
}

func (t *tools) register(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_policies",
		Description: "Search the policy corpus and return gated, diversified evidence excerpts",
	}, t.handleSearch)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "ask_policy",
		Description: "Answer a question grounded in the policy corpus, with source attribution",
	}, t.handleAsk)
}

func (t *tools) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	result, err := t.retriever.Retrieve(ctx, input.Query, input.Language)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Sufficient: result.Sufficient,
		TopScore:   result.TopScore,
		Results:    make([]ChunkOutput, len(result.Evidence)),
	}
	for i, hit := range result.Evidence {
		output.Results[i] = ChunkOutput{
			Title:     hit.Title,
			Path:      hit.Path,
			SourceURL: hit.SourceURL,
			Score:     hit.Score,
			Text:      hit.Text,
		}
	}
	return nil, output, nil
}

func (t *tools) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	chatId := input.ChatId
	if chatId == "" {
		chatId = utils.GetNewUUID()
	}

	result, err := t.ragService.Ask(ctx, chatId, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:     result.Answer,
		Sources:    result.Sources,
		Sufficient: result.Sufficient,
	}, nil
}
