package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query         string  `json:"query" jsonschema:"the search query to find wiki chunks"`
	TopK          int     `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	Mode          string  `json:"mode,omitempty" jsonschema:"retrieval mode: semantic or hybrid (default hybrid)"`
	KeywordWeight float64 `json:"keyword_weight,omitempty" jsonschema:"hybrid keyword weight between 0 and 1 (default 0.5)"`
	ContentType   string  `json:"content_type,omitempty" jsonschema:"restrict results to one content type: text, table, table_row, or image"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	ChunkNumber   int     `json:"chunk_number"`
	ContentType   string  `json:"content_type"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	SemanticScore float64 `json:"semantic_score"`
	KeywordScore  float64 `json:"keyword_score"`
}

// HybridSearchInput is the input schema for the hybrid_search tool. It
// mirrors SearchInput minus the mode, which is always hybrid.
type HybridSearchInput struct {
	Query         string  `json:"query" jsonschema:"the search query to find wiki chunks"`
	TopK          int     `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	KeywordWeight float64 `json:"keyword_weight,omitempty" jsonschema:"keyword weight between 0 and 1 (default 0.5)"`
	ContentType   string  `json:"content_type,omitempty" jsonschema:"restrict results to one content type: text, table, table_row, or image"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the wiki corpus"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of source chunks to retrieve (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is the provenance of one retrieved chunk.
type SourceOutput struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	ChunkNumber int     `json:"chunk_number"`
	ContentType string  `json:"content_type"`
	Score       float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the nanofab wiki corpus for relevant chunks",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hybrid_search",
		Description: "Search the nanofab wiki corpus with blended keyword and semantic ranking",
	}, s.handleHybridSearch)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question using the nanofab wiki corpus, with sources",
		}, s.handleAsk)
	}
}

// searchOptions converts tool input into retrieval options, applying the
// corpus defaults for unset fields.
func searchOptions(topK int, mode string, weight float64, contentType string) (domain.SearchOptions, error) {
	opts := domain.DefaultSearchOptions()

	if topK > 0 {
		opts.TopK = topK
	}
	if mode != "" {
		m := domain.SearchMode(mode)
		if !m.IsValid() {
			return opts, fmt.Errorf("invalid mode %q (use semantic or hybrid)", mode)
		}
		opts.Mode = m
	}
	if weight > 0 {
		if weight > 1 {
			return opts, fmt.Errorf("keyword weight must be in [0,1], got %g", weight)
		}
		opts.KeywordWeight = weight
	}
	if contentType != "" {
		ct := domain.ContentType(contentType)
		if !ct.IsValid() {
			return opts, fmt.Errorf("invalid content type %q", contentType)
		}
		opts.ContentType = ct
	}

	return opts, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts, err := searchOptions(input.TopK, input.Mode, input.KeywordWeight, input.ContentType)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output, err := s.runSearch(ctx, input.Query, opts)
	return nil, output, err
}

// handleHybridSearch handles the hybrid_search tool invocation. It is
// the search tool pinned to hybrid mode.
func (s *Server) handleHybridSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HybridSearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts, err := searchOptions(input.TopK, string(domain.SearchModeHybrid), input.KeywordWeight, input.ContentType)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output, err := s.runSearch(ctx, input.Query, opts)
	return nil, output, err
}

// runSearch executes a retrieval and shapes the results for tool output.
func (s *Server) runSearch(ctx context.Context, query string, opts domain.SearchOptions) (SearchOutput, error) {
	results, err := s.ports.Search.Search(ctx, query, opts)
	if err != nil {
		return SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			URL:           results[i].Chunk.URL,
			Title:         results[i].Chunk.Title,
			ChunkNumber:   results[i].Chunk.ChunkNumber,
			ContentType:   results[i].Chunk.ContentType.String(),
			Content:       results[i].Chunk.Content,
			Score:         results[i].Score,
			SemanticScore: results[i].SemanticScore,
			KeywordScore:  results[i].KeywordScore,
		}
	}

	return output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts, err := searchOptions(input.TopK, "", 0, "")
	if err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Answer.Answer(ctx, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i, src := range answer.Sources {
		output.Sources[i] = SourceOutput{
			URL:         src.URL,
			Title:       src.Title,
			ChunkNumber: src.ChunkNumber,
			ContentType: src.ContentType.String(),
			Score:       src.Score,
		}
	}

	return nil, output, nil
}
