package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Index == nil {
				return errors.New("index service not configured")
			}

			stats, err := app.Index.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("stats failed: %w", err)
			}

			if asJSON {
				data, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal stats: %w", err)
				}
				cmd.Println(string(data))
				return nil
			}

			cmd.Printf("Index version:        %s\n", stats.IndexVersion)
			cmd.Printf("Posts:                %d\n", stats.Posts)
			cmd.Printf("Posts without chunks: %d\n", stats.PostsWithoutChunks)
			cmd.Printf("Chunks:               %d\n", stats.Chunks)
			t := stats.ChunkTokenStats
			cmd.Printf("Chunk tokens:         min %d, max %d, mean %.2f, p95 %d\n", t.Min, t.Max, t.Mean, t.P95)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output stats as JSON")
	return cmd
}
