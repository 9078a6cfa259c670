package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driving"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// answerSystemPrompt grounds the model in the retrieved wiki context.
const answerSystemPrompt = `You are a helpful AI assistant specializing in nanofabrication and laboratory processes. Use the provided context to answer the user's question accurately and comprehensively.

Guidelines:
- Base your answer primarily on the provided context
- The context may include different types of information: text descriptions, table data, and technical specifications
- When referencing table data, mention specific values and parameters when relevant
- If the context doesn't contain enough information, say so
- Include relevant technical details from the context
- Be clear and concise
- When referencing information, you can mention it comes from the provided sources`

// Generation settings tuned for factual grounding over creativity.
const (
	answerTemperature = 0.1
	answerMaxTokens   = 4000
)

// AnswerService retrieves relevant chunks and generates grounded answers.
type AnswerService struct {
	search    driving.SearchService
	llm       driven.LLMService
	formatter *Formatter
}

// NewAnswerService creates an answer service. The llm parameter is
// optional; without it, Answer fails with domain.ErrLLMUnavailable.
func NewAnswerService(search driving.SearchService, llm driven.LLMService, formatter *Formatter) *AnswerService {
	return &AnswerService{
		search:    search,
		llm:       llm,
		formatter: formatter,
	}
}

// Answer retrieves relevant chunks and generates a response grounded in
// them. When retrieval finds nothing, the answer is a fixed no-information
// message with no sources.
func (s *AnswerService) Answer(
	ctx context.Context, question string, opts domain.SearchOptions,
) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if s.llm == nil {
		return domain.Answer{}, domain.ErrLLMUnavailable
	}

	results, err := s.search.Search(ctx, question, opts)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("retrieve context: %w", err)
	}
	if len(results) == 0 {
		logger.Debug("No chunks retrieved, returning no-information answer")
		return domain.Answer{Text: NoInformationAnswer}, nil
	}

	context := s.formatter.BuildContext(results)
	sources := s.formatter.SourceRecords(results)
	logger.Debug("Generating answer from %d sources (%d context bytes)", len(results), len(context))

	messages := []driven.ChatMessage{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", context, question)},
	}
	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		// Sources survive a generation failure so callers can still show
		// what was retrieved.
		return domain.Answer{Sources: sources}, fmt.Errorf("generate answer: %w", err)
	}

	return domain.Answer{Text: text, Sources: sources}, nil
}
