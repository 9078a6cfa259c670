package mcp

import (
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides corpus retrieval.
	Search driving.SearchService

	// Answer generates grounded answers. Optional; without it the ask
	// tool is not registered.
	Answer driving.AnswerService

	// Corpus provides corpus statistics. Optional.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Answer and Corpus are optional
	return nil
}
