package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query          string   `json:"query" jsonschema:"the natural language query"`
	Limit          int      `json:"limit,omitempty" jsonschema:"maximum number of results to return"`
	ScoreThreshold *float32 `json:"score_threshold,omitempty" jsonschema:"minimum cosine similarity between 0 and 1; omit for the configured default, 0 disables filtering"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Query   string                 `json:"query"`
	Results []RetrieveResultOutput `json:"results"`
	Count   int                    `json:"count"`
}

// RetrieveResultOutput represents a single retrieved chunk.
type RetrieveResultOutput struct {
	ID       int64   `json:"id"`
	Score    float32 `json:"score"`
	Content  string  `json:"content"`
	Source   string  `json:"source"`
	Category string  `json:"category"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the indexed passages most similar to a query",
	}, s.handleRetrieve)
}

// handleRetrieve handles the retrieve tool invocation.
// An unset limit or threshold falls back to the configured default. An
// explicit threshold of 0 returns every candidate.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	opts := domain.RetrievalOptions{
		Limit:          input.Limit,
		ScoreThreshold: s.ports.Defaults.ScoreThreshold,
	}
	if input.ScoreThreshold != nil {
		opts.ScoreThreshold = *input.ScoreThreshold
	}

	retrieval, err := s.ports.Retrieval.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Query:   retrieval.Query,
		Results: make([]RetrieveResultOutput, len(retrieval.Results)),
		Count:   retrieval.Len(),
	}

	for i, r := range retrieval.Results {
		output.Results[i] = RetrieveResultOutput{
			ID:       r.ID,
			Score:    r.Score,
			Content:  r.Payload.Content,
			Source:   r.Payload.Source,
			Category: r.Payload.Category.String(),
		}
	}

	return nil, output, nil
}
