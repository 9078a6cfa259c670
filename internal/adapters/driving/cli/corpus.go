package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the chunk corpus",
	Long:  `Commands for loading, embedding, and inspecting the wiki chunk corpus.`,
}

var corpusLoadCmd = &cobra.Command{
	Use:   "load [csv-file]",
	Short: "Load chunks from a scraped-corpus CSV export",
	Long: `Loads wiki chunks from a CSV export into the corpus store.
Existing chunks with the same URL and chunk number are updated in place,
so reloading a refreshed export is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpusLoad,
}

var corpusEmbedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Generate embeddings for chunks that lack one",
	Long: `Generates and stores embeddings for every chunk without one, using
the configured embedding provider. Requests are batched and rate
limited.`,
	RunE: runCorpusEmbed,
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE:  runCorpusStats,
}

func init() {
	corpusCmd.AddCommand(corpusLoadCmd)
	corpusCmd.AddCommand(corpusEmbedCmd)
	corpusCmd.AddCommand(corpusStatsCmd)
	rootCmd.AddCommand(corpusCmd)
}

func runCorpusLoad(cmd *cobra.Command, args []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	count, err := corpusService.LoadCSV(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	cmd.Printf("Loaded %d chunks from %s\n", count, args[0])
	return nil
}

func runCorpusEmbed(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	count, err := corpusService.EmbedMissing(cmd.Context())
	if err != nil {
		return fmt.Errorf("embed failed: %w", err)
	}

	if count == 0 {
		cmd.Println("All chunks already have embeddings.")
		return nil
	}
	cmd.Printf("Embedded %d chunks\n", count)
	return nil
}

func runCorpusStats(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	stats, err := corpusService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Println("Corpus Statistics")
	cmd.Println("=================")
	cmd.Printf("  Total chunks:    %d\n", stats.TotalChunks)
	cmd.Printf("  Embedded chunks: %d\n", stats.EmbeddedChunks)

	if len(stats.ByContentType) > 0 {
		cmd.Println("  By content type:")
		types := make([]domain.ContentType, 0, len(stats.ByContentType))
		for ct := range stats.ByContentType {
			types = append(types, ct)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, ct := range types {
			_, icon := formatter.DisplayType(ct)
			cmd.Printf("    %s %-10s %d\n", icon, ct, stats.ByContentType[ct])
		}
	}

	return nil
}
