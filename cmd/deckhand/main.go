// deckhand looks up cards by title and renders them with per-game scripts.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deckhand/internal/config"
	"deckhand/internal/logging"
	"deckhand/internal/script"
	"deckhand/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE, shared by all commands.
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "deckhand",
	Short: "deckhand - card lookup and render bot",
	Long: `deckhand answers "[[title]]" card lookups: it resolves a title prefix to
exactly one stored card, walks the user through disambiguation when several
cards match, and renders the card with that game's script.

Cards live in a SQLite database (see "deckhand import"); render scripts are
interpreted Go files, one per game, each exposing
"func embed(payload string) (map[string]interface{}, error)".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.Init(logging.Options{
			Debug: verbose || cfg.Logging.Debug,
			JSON:  cfg.Logging.JSON,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "deckhand.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
}

// openStack opens the card store and loads the script set, then checks the
// startup invariant: every game present in the store has a render script.
// A card whose game has no script would fail at lookup time in front of a
// user; better to refuse to start.
func openStack(ctx context.Context) (*store.CardStore, *script.Engine, error) {
	st, err := store.Open(cfg.Store.Path, store.Options{MaxConns: cfg.Store.MaxConnections})
	if err != nil {
		return nil, nil, err
	}
	engine, err := script.LoadAll(cfg.Scripts.Dir, script.Options{Timeout: cfg.ScriptTimeout()})
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	games, err := st.Games(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	for _, game := range games {
		if !engine.Has(game) {
			st.Close()
			return nil, nil, fmt.Errorf("store has cards for game %q but %s has no script for it", game, cfg.Scripts.Dir)
		}
	}
	logger.Info("stack ready",
		zap.Strings("store_games", games),
		zap.Strings("scripts", engine.Games()))
	return st, engine, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
