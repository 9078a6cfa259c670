package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question and get a grounded answer",
	Long: `Retrieves relevant corpus chunks for the question and generates an
answer grounded in them using the configured LLM provider. Sources are
listed so answers can be traced back to wiki pages.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of source chunks (0 = configured default)")
	askCmd.Flags().StringVarP(&searchMode, "mode", "m", "", "retrieval mode: semantic or hybrid")
	askCmd.Flags().BoolVar(&askShowSources, "sources", true, "list sources after the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answerService == nil {
		return errors.New("answer service not configured")
	}

	opts, err := searchOptions()
	if err != nil {
		return err
	}

	answer, err := answerService.Answer(cmd.Context(), question, opts)
	if err != nil {
		// Retrieval succeeded but generation failed; show what was found.
		if len(answer.Sources) > 0 {
			cmd.PrintErrf("Answer generation failed: %v\n\n", err)
			printSources(cmd, answer.Sources)
			return nil
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)

	if askShowSources && len(answer.Sources) > 0 {
		cmd.Println()
		printSources(cmd, answer.Sources)
	}

	return nil
}

func printSources(cmd *cobra.Command, sources []domain.SourceRecord) {
	cmd.Println("Sources:")
	for i, src := range sources {
		_, icon := formatter.DisplayType(src.ContentType)
		cmd.Printf("  %d. %s %s (chunk %d, score %.3f)\n", i+1, icon, src.Title, src.ChunkNumber, src.Score)
		cmd.Printf("     %s\n", src.URL)
	}
}
