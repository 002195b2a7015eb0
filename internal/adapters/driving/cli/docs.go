package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

var (
	docsRefresh bool
	docsJSON    bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List the documents ConahGPT can answer from",
	Long: `Reads the configured Drive folder and lists every supported file with
the number of passages it produced. Files that could not be fully read are
reported at the end.`,
	Args: cobra.NoArgs,
	RunE: runDocs,
}

func init() {
	docsCmd.Flags().BoolVar(&docsRefresh, "refresh", false, "re-read the folder even if the cache is fresh")
	docsCmd.Flags().BoolVar(&docsJSON, "json", false, "output the listing as JSON")
	rootCmd.AddCommand(docsCmd)
}

// docSummary is one row of the docs listing.
type docSummary struct {
	Name   string          `json:"name"`
	Type   domain.FileType `json:"type"`
	Link   string          `json:"link,omitempty"`
	Chunks int             `json:"chunks"`
}

// summariseDocs groups snapshot chunks per source file, sorted by name.
func summariseDocs(snap *domain.Snapshot) []docSummary {
	byID := make(map[string]*docSummary)
	var order []string
	for i := range snap.Chunks {
		c := snap.Chunks[i]
		d, ok := byID[c.SourceID]
		if !ok {
			d = &docSummary{Name: c.SourceName, Type: c.SourceType, Link: c.SourceLink}
			byID[c.SourceID] = d
			order = append(order, c.SourceID)
		}
		d.Chunks++
	}

	out := make([]docSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func runDocs(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(cmd.Context(), a)

	var snap *domain.Snapshot
	if docsRefresh {
		snap, err = a.Chunks.Refresh(cmd.Context())
	} else {
		snap, err = a.Chunks.Snapshot(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("reading documents: %w", err)
	}

	docs := summariseDocs(snap)

	if docsJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No readable documents found.")
	}
	for _, d := range docs {
		cmd.Printf("  %-40s %-7s %4d chunks\n", d.Name, d.Type, d.Chunks)
	}
	cmd.Println()
	cmd.Printf("%d files listed, %d with content, %d chunks\n", snap.Files, len(docs), snap.Len())

	if len(snap.Failures) > 0 {
		cmd.Println()
		cmd.Println("Read problems:")
		for _, f := range snap.Failures {
			kind := "failed"
			if f.Partial {
				kind = "partial"
			}
			cmd.Printf("  %s (%s): %v\n", f.File.Name, kind, f.Err)
		}
	}
	return nil
}
