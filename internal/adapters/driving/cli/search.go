package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/services"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// searchPreviewWords is the snippet length shown per result.
const searchPreviewWords = 20

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Rank document passages against a query",
	Long: `Ranks the cached passages against the query with the configured ranker
and prints the best match per document. The model is not called.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(cmd.Context(), a)

	results, err := a.Answer.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

type searchResultJSON struct {
	Source   string  `json:"source"`
	Link     string  `json:"link,omitempty"`
	Location string  `json:"location"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RankedChunk) error {
	out := make([]searchResultJSON, len(results))
	for i := range results {
		c := results[i].Chunk
		out[i] = searchResultJSON{
			Source:   c.SourceName,
			Link:     c.SourceLink,
			Location: services.LocatorPhrase(c.Locator),
			Score:    results[i].Score,
			Text:     c.Text,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RankedChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		c := results[i].Chunk
		// Format: [N] Source, location (Score)
		cmd.Printf("  [%d] %s, %s (%.2f)\n", i+1, c.SourceName, services.LocatorPhrase(c.Locator), results[i].Score)
		if c.Section != "" {
			cmd.Printf("      Section: %s\n", c.Section)
		}
		if preview, more := text.FirstWords(c.Text, searchPreviewWords); preview != "" {
			if more {
				preview += "..."
			}
			cmd.Printf("      %s\n", preview)
		}
		cmd.Println()
	}

	return nil
}
