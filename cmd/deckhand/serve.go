package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"deckhand/internal/lookup"
	"deckhand/internal/transport"
)

// consoleChannel is the single chat channel the console transport serves.
const consoleChannel = "console"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the lookup bot on a console chat surface",
	Long: `Reads chat lines from stdin. A line containing [[title]] triggers a card
lookup; while a disambiguation prompt is live, a line holding an option
number or an exact title answers it. Ctrl+C (or closing stdin) shuts down
after in-flight renders finish.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

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

		fmt.Println("deckhand ready; mention a card as [[title]]")

		// The stdin reader stays a plain goroutine: Scan cannot be
		// interrupted, so joining it on shutdown would hang. Process exit
		// reaps it.
		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-ctx.Done():
					return
				}
			}
		}()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case line, ok := <-lines:
					if !ok {
						return nil
					}
					if console.Offer(line) {
						continue
					}
					query, ok := lookup.ExtractQuery(line)
					if !ok {
						continue
					}
					// Each lookup is its own task: disambiguation can
					// suspend for minutes and must not stall the reader.
					g.Go(func() error {
						if err := pipe.Run(gctx, consoleChannel, query); err != nil {
							logger.Error("lookup failed",
								zap.String("query", query), zap.Error(err))
						}
						return nil
					})
				}
			}
		})

		err = g.Wait()
		pipe.Wait()
		logger.Info("shut down")
		return err
	},
}
