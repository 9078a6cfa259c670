package mcp

import (
	"context"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

// mockSearchService is a test double for driving.SearchService.
type mockSearchService struct {
	results   []domain.ScoredChunk
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredChunk, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockAnswerService is a test double for driving.AnswerService.
type mockAnswerService struct {
	answer domain.Answer
	err    error
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, _ domain.SearchOptions) (domain.Answer, error) {
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return m.answer, nil
}

// mockCorpusService is a test double for driving.CorpusService.
type mockCorpusService struct {
	stats domain.CorpusStats
	err   error
}

func (m *mockCorpusService) LoadCSV(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockCorpusService) EmbedMissing(_ context.Context) (int, error) {
	return 0, m.err
}

func (m *mockCorpusService) Stats(_ context.Context) (domain.CorpusStats, error) {
	if m.err != nil {
		return domain.CorpusStats{}, m.err
	}
	return m.stats, nil
}
