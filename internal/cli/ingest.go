package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LorenzoPeve/rag-reddit/internal/indexer"
)

func newTopCmd(app *App) *cobra.Command {
	opts := indexer.RunOptions{}

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Ingest the top posts of a time window",
		Long: `Fetches the top posts of the subreddit for a time window and ingests
new or changed posts. Unchanged posts are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Ingester == nil {
				return errors.New("ingester not configured")
			}
			if opts.Subreddit == "" {
				opts.Subreddit = app.Subreddit
			}

			cmd.Printf("Ingesting top posts of the %s from r/%s...\n", opts.Window, opts.Subreddit)
			stats, err := app.Ingester.Run(cmd.Context(), opts)
			printRunStats(cmd, stats)
			if err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Subreddit, "subreddit", "r", "", "subreddit to ingest (defaults to SUBREDDIT)")
	cmd.Flags().StringVarP(&opts.Window, "window", "t", "month", "time window: hour, day, week, month, year or all")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 100, "posts per page")
	cmd.Flags().IntVarP(&opts.Pages, "pages", "p", 1, "number of pages to walk")
	return cmd
}

func newBackfillCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Re-ingest stored posts that have no chunks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Ingester == nil {
				return errors.New("ingester not configured")
			}

			cmd.Println("Backfilling posts without chunks...")
			stats, err := app.Ingester.Backfill(cmd.Context())
			printRunStats(cmd, stats)
			if err != nil {
				return fmt.Errorf("backfill failed: %w", err)
			}
			return nil
		},
	}
}

func newRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Ingest the month and year top posts, then backfill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Index == nil {
				return errors.New("index service not configured")
			}

			cmd.Println("Refreshing index...")
			stats, err := app.Index.Refresh(cmd.Context())
			printRunStats(cmd, stats)
			if err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}
			return nil
		},
	}
}

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check [post-id...]",
		Short: "Report whether stored posts changed on the forum",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Detector == nil {
				return errors.New("change detector not configured")
			}

			var failed int
			for _, id := range args {
				modified, err := app.Detector.IsModified(cmd.Context(), id)
				switch {
				case err != nil:
					failed++
					cmd.Printf("%s: error: %v\n", id, err)
				case modified:
					cmd.Printf("%s: modified\n", id)
				default:
					cmd.Printf("%s: unchanged\n", id)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d posts could not be checked", failed, len(args))
			}
			return nil
		},
	}
}

func printRunStats(cmd *cobra.Command, s indexer.RunStats) {
	cmd.Printf("Fetched %d, inserted %d, replaced %d, unchanged %d, skipped %d, failed %d\n",
		s.Fetched, s.Inserted, s.Replaced, s.Unchanged, s.Skipped, s.Failed)
}
