package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

var (
	searchTopK        int
	searchMode        string
	searchWeight      float64
	searchContentType string
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the wiki corpus",
	Long: `Retrieves the most relevant corpus chunks for a query.
Hybrid mode blends keyword overlap with embedding similarity; semantic
mode ranks by embedding similarity alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "", "retrieval mode: semantic or hybrid")
	searchCmd.Flags().Float64VarP(&searchWeight, "keyword-weight", "w", -1, "hybrid keyword weight in [0,1]")
	searchCmd.Flags().StringVarP(&searchContentType, "type", "t", "", "restrict to a content type: text, table, table_row, image")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchOptions builds retrieval options from configured settings plus
// command flags. Flags override settings; unset flags keep defaults.
func searchOptions() (domain.SearchOptions, error) {
	opts := domain.DefaultSearchOptions()

	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return opts, fmt.Errorf("load settings: %w", err)
		}
		if settings.Retrieval.Mode.IsValid() {
			opts.Mode = settings.Retrieval.Mode
		}
		if settings.Retrieval.TopK > 0 {
			opts.TopK = settings.Retrieval.TopK
		}
		opts.KeywordWeight = settings.Retrieval.KeywordWeight
	}

	if searchTopK > 0 {
		opts.TopK = searchTopK
	}
	if searchMode != "" {
		mode := domain.SearchMode(searchMode)
		if !mode.IsValid() {
			return opts, fmt.Errorf("invalid mode %q (use semantic or hybrid)", searchMode)
		}
		opts.Mode = mode
	}
	if searchWeight >= 0 {
		if searchWeight > 1 {
			return opts, fmt.Errorf("keyword weight must be in [0,1], got %g", searchWeight)
		}
		opts.KeywordWeight = searchWeight
	}
	if searchContentType != "" {
		ct := domain.ContentType(searchContentType)
		if !ct.IsValid() {
			return opts, fmt.Errorf("invalid content type %q", searchContentType)
		}
		opts.ContentType = ct
	}

	return opts, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts, err := searchOptions()
	if err != nil {
		return err
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchResults(cmd, results)
}

// searchResultJSON is the JSON output shape for one result.
type searchResultJSON struct {
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	ChunkNumber   int     `json:"chunk_number"`
	ContentType   string  `json:"content_type"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	SemanticScore float64 `json:"semantic_score"`
	KeywordScore  float64 `json:"keyword_score"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredChunk) error {
	out := make([]searchResultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, searchResultJSON{
			URL:           r.Chunk.URL,
			Title:         r.Chunk.Title,
			ChunkNumber:   r.Chunk.ChunkNumber,
			ContentType:   r.Chunk.ContentType.String(),
			Content:       r.Chunk.Content,
			Score:         r.Score,
			SemanticScore: r.SemanticScore,
			KeywordScore:  r.KeywordScore,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchResults(cmd *cobra.Command, results []domain.ScoredChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, r := range results {
		cmd.Println(formatter.FormatResult(i, r))
		cmd.Println()
	}

	return nil
}
