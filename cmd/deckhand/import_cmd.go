package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deckhand/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <game> <file-or-dir>",
	Short: "Load card data for one game into the store",
	Long: `Reads card JSON and replaces the given game's rows in the cards database.
The argument is either one JSON file or a directory of pack files; each file
holds an array of card objects, and each object must carry a "title" string.
The full object is stored as the card's opaque payload for the game's render
script. Files in a directory import in name order, which fixes the insertion
order used for tie-breaking.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		game, path := args[0], args[1]
		ctx := context.Background()

		recs, err := readCards(path)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return fmt.Errorf("no cards found in %s", path)
		}

		st, err := store.Open(cfg.Store.Path, store.Options{
			MaxConns: cfg.Store.MaxConnections,
			Create:   true,
		})
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Init(ctx); err != nil {
			return err
		}
		if err := st.ReplaceGame(ctx, game, recs); err != nil {
			return err
		}
		logger.Info("import complete",
			zap.String("game", game), zap.Int("cards", len(recs)))
		fmt.Printf("imported %d cards for %s\n", len(recs), game)
		return nil
	},
}

// readCards loads card records from one JSON file or every *.json file in a
// directory, in file-name order.
func readCards(path string) ([]store.CardRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return readCardFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var recs []store.CardRecord
	for _, name := range names {
		fileRecs, err := readCardFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		recs = append(recs, fileRecs...)
	}
	return recs, nil
}

func readCardFile(path string) ([]store.CardRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cards []map[string]interface{}
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("%s: expected an array of card objects: %w", path, err)
	}

	recs := make([]store.CardRecord, 0, len(cards))
	for i, card := range cards {
		title, ok := card["title"].(string)
		if !ok || title == "" {
			return nil, fmt.Errorf("%s: card %d has no title", path, i)
		}
		payload, err := json.Marshal(card)
		if err != nil {
			return nil, fmt.Errorf("%s: card %q: %w", path, title, err)
		}
		recs = append(recs, store.CardRecord{Title: title, Payload: string(payload)})
	}
	return recs, nil
}
