// Package cli implements the command-line interface for ragchat.
// Commands receive their services through the Set* injection functions
// before Execute is called.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driving"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/services"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected services. Commands check for nil and fail with a clear
// message rather than panicking.
var (
	searchService   driving.SearchService
	answerService   driving.AnswerService
	corpusService   driving.CorpusService
	settingsService driving.SettingsService
	formatter       *services.Formatter

	// Provider validation hooks, wired from the AI factory so the
	// settings commands can ping a provider after configuring it.
	validateEmbedding func(domain.EmbeddingSettings) error
	validateLLM       func(domain.LLMSettings) error
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Retrieval-augmented chatbot for the UCSB nanofab wiki",
	Long: `ragchat answers questions about nanofabrication processes using a
scraped wiki corpus. Chunks are embedded and retrieved by semantic or
hybrid similarity, then an LLM generates answers grounded in the
retrieved sources.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetSearchService injects the retrieval service.
func SetSearchService(s driving.SearchService) {
	searchService = s
}

// SetAnswerService injects the answer generation service.
func SetAnswerService(s driving.AnswerService) {
	answerService = s
}

// SetCorpusService injects the corpus management service.
func SetCorpusService(s driving.CorpusService) {
	corpusService = s
}

// SetSettingsService injects the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetFormatter injects the result formatter.
func SetFormatter(f *services.Formatter) {
	formatter = f
}

// SetProviderValidators injects the provider connectivity checks used by
// the settings commands.
func SetProviderValidators(embedding func(domain.EmbeddingSettings) error, llm func(domain.LLMSettings) error) {
	validateEmbedding = embedding
	validateLLM = llm
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
