package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"deckhand/internal/lookup"
	"deckhand/internal/transport"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <title>",
	Short: "Resolve and render one card from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		st, engine, err := openStack(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		console := transport.NewConsole(os.Stdout)
		resolver := lookup.NewResolver(st, console, lookup.ResolverOptions{
			CandidateLimit: cfg.Store.CandidateLimit,
			ChoiceTimeout:  cfg.ChoiceTimeout(),
		})
		pipe := lookup.NewPipeline(resolver, engine, console)

		// Ambiguous queries prompt on stdout; stdin lines answer the
		// prompt. Piped invocations with no stdin input simply time out
		// to Cancelled.
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				console.Offer(scanner.Text())
			}
		}()

		query := strings.TrimSpace(strings.Join(args, " "))
		if err := pipe.Run(ctx, consoleChannel, query); err != nil {
			return err
		}
		pipe.Wait()
		return nil
	},
}
