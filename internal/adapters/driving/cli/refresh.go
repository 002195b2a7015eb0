package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-read the Drive folder",
	Long: `Re-crawls the configured Drive folder and rebuilds the passage cache,
then reports how many files and passages were read.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(cmd.Context(), a)

	cmd.Println("Reading Drive folder...")

	snap, err := refreshWithProgress(cmd.Context(), cmd, a.Chunks)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	cmd.Printf("Read %d files into %d passages", snap.Files, snap.Len())
	if n := len(snap.Failures); n > 0 {
		cmd.Printf(" (%d files with read problems)", n)
	}
	cmd.Println()
	return nil
}

// refreshWithProgress runs the refresh while printing elapsed time.
func refreshWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	chunks driving.ChunkProvider,
) (*domain.Snapshot, error) {
	type result struct {
		snap *domain.Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := chunks.Refresh(ctx)
		done <- result{snap, err}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	started := time.Now()
	ticked := false
	for {
		select {
		case r := <-done:
			if ticked {
				cmd.Println()
			}
			return r.snap, r.err
		case <-ticker.C:
			cmd.Printf("\rStill reading... %s", time.Since(started).Truncate(time.Second))
			ticked = true
		}
	}
}
