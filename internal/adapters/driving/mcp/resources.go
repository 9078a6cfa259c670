package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for ragchat resources.
const uriScheme = "ragchat://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus/stats",
		Name:        "corpus-stats",
		Description: "Statistics about the loaded wiki chunk corpus",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// handleStatsResource returns corpus statistics as JSON.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Corpus == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	stats, err := s.ports.Corpus.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting corpus stats: %w", err)
	}

	type statsInfo struct {
		TotalChunks    int            `json:"total_chunks"`
		EmbeddedChunks int            `json:"embedded_chunks"`
		ByContentType  map[string]int `json:"by_content_type"`
	}

	info := statsInfo{
		TotalChunks:    stats.TotalChunks,
		EmbeddedChunks: stats.EmbeddedChunks,
		ByContentType:  make(map[string]int, len(stats.ByContentType)),
	}
	for ct, count := range stats.ByContentType {
		info.ByContentType[ct.String()] = count
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
