package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LorenzoPeve/rag-reddit/internal/rag"
	"github.com/LorenzoPeve/rag-reddit/internal/service"
)

func newAskCmd(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question from the indexed posts",
		Long: `Streams a grounded answer, then lists the cited posts with their links.
With --strict the command fails when the answer does not follow the
citation format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Chat == nil {
				return errors.New("chat service not configured")
			}
			ctx := cmd.Context()

			stream, err := app.Chat.StreamAnswer(ctx, service.ChatRequest{Message: strings.Join(args, " ")})
			if err != nil {
				return fmt.Errorf("ask failed: %w", err)
			}
			defer func() {
				_ = stream.Close()
			}()

			out := cmd.OutOrStdout()
			var text strings.Builder
			for stream.Next() {
				text.WriteString(stream.Text())
				_, _ = fmt.Fprint(out, stream.Text())
			}
			_, _ = fmt.Fprintln(out)
			if err := stream.Err(); err != nil {
				return fmt.Errorf("answer failed: %w", err)
			}

			if stream.Truncated() {
				cmd.PrintErrln("warning: answer was cut off at the output token limit")
			}

			answer := rag.ParseAnswer(text.String())
			if err := answer.Validate(); err != nil {
				if strict && !answer.IsFallback() {
					return fmt.Errorf("malformed answer: %w", err)
				}
				cmd.PrintErrf("warning: %v\n", err)
			}

			if len(answer.Citations) == 0 || app.Lookup == nil {
				return nil
			}
			ids := make([]string, 0, len(answer.Citations))
			for _, c := range answer.Citations {
				ids = append(ids, c.PostID)
			}
			urls, err := app.Lookup.FindURLs(ctx, ids)
			if err != nil {
				return fmt.Errorf("failed to resolve citations: %w", err)
			}

			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, "Sources:")
			for _, c := range answer.Citations {
				url, ok := urls[c.PostID]
				if !ok {
					url = "(not indexed)"
				}
				_, _ = fmt.Fprintf(out, "[%d] %s - %s\n", c.Number, c.Title, url)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the answer breaks the citation format")
	return cmd
}
