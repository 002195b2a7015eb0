package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/conahgpt/internal/core/services"
)

// defaultSearchLimit caps search results when the caller gives no limit.
const defaultSearchLimit = 10

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the Drive documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
	Outcome   string   `json:"outcome"`
	Degraded  bool     `json:"degraded,omitempty"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to rank document chunks against"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single ranked chunk.
type SearchResultOutput struct {
	Source   string  `json:"source"`
	Link     string  `json:"link,omitempty"`
	Location string  `json:"location"`
	Section  string  `json:"section,omitempty"`
	Score    float64 `json:"score"`
	Content  string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the documents in the configured Drive folder",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Rank document chunks against a query without generating an answer",
	}, s.handleSearch)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	ans, err := s.ports.Answer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	citations := ans.Citations
	if citations == nil {
		citations = []string{}
	}

	return nil, AskOutput{
		Answer:    ans.Text,
		Citations: citations,
		Outcome:   string(ans.Outcome),
		Degraded:  ans.Degraded,
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.ports.Answer.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		c := results[i].Chunk
		output.Results[i] = SearchResultOutput{
			Source:   c.SourceName,
			Link:     c.SourceLink,
			Location: services.LocatorPhrase(c.Locator),
			Section:  c.Section,
			Score:    results[i].Score,
			Content:  c.Text,
		}
	}

	return nil, output, nil
}
