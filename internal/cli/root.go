// Package cli implements the ingestion command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/LorenzoPeve/rag-reddit/internal/service"
)

// ChangeDetector reports whether a stored post differs from its live version.
type ChangeDetector interface {
	IsModified(ctx context.Context, postID string) (bool, error)
}

// App holds the services the commands run against.
type App struct {
	Subreddit string
	Ingester  service.Ingester
	Index     service.IndexService
	Detector  ChangeDetector
	Chat      service.ChatService
	Lookup    service.LookupService
}

// NewRootCommand builds the command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "ingest",
		Short: "Keep the forum index in sync and query it",
		Long: `Ingests top posts of a subreddit into the local index (sqlite + Qdrant)
and answers questions from it.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newTopCmd(app),
		newBackfillCmd(app),
		newRefreshCmd(app),
		newCheckCmd(app),
		newStatsCmd(app),
		newAskCmd(app),
	)
	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context, app *App) error {
	return NewRootCommand(app).ExecuteContext(ctx)
}
