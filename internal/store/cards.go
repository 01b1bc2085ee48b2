// Package store implements the persistent card store on SQLite.
//
// One row per card: (id, game, title, card). The id column is the insertion
// order and is the only deterministic tie-break available when several rows
// share a title, so every query that picks a single row orders by id.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"deckhand/internal/logging"
)

// ErrNotFound reports that no row matched an exact-title lookup.
var ErrNotFound = errors.New("card not found")

// CardRecord is one stored card. Payload is opaque JSON text owned by the
// game's render script; the store never inspects it.
type CardRecord struct {
	Game    string
	Title   string
	Payload string
}

// Options tunes the store connection.
type Options struct {
	// MaxConns caps the shared connection pool.
	MaxConns int

	// Create allows opening a path that does not exist yet. Used by
	// `deckhand import`; serving always requires a populated database.
	Create bool
}

// CardStore is a handle on the cards database, safe for concurrent use.
type CardStore struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens the cards database at path. Unless opts.Create is set, a
// missing file is an error: an empty store means a misconfigured deployment,
// not an empty card pool.
func Open(path string, opts Options) (*CardStore, error) {
	log := logging.Named("store")

	if !opts.Create && path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("cards database %s: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	maxConns := opts.MaxConns
	if maxConns <= 0 {
		maxConns = 5
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("failed to set sqlite journal_mode=WAL", zap.Error(err))
	}

	log.Debug("opened cards database",
		zap.String("path", path), zap.Int("max_conns", maxConns))
	return &CardStore{db: db, log: log}, nil
}

// Close releases the connection pool.
func (s *CardStore) Close() error {
	return s.db.Close()
}

// Init creates the cards table if it does not exist. Serving never calls
// this; it exists for `deckhand import` and for tests.
func (s *CardStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY,
			game TEXT NOT NULL,
			title TEXT NOT NULL,
			card TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %w", err)
	}
	return nil
}

// escapeLike neutralizes LIKE wildcards in user-supplied query text so a
// query of "50%" matches titles starting with "50%" rather than "50".
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// FindByPrefix returns up to limit cards whose title starts with prefix, in
// insertion order. Matching uses SQLite LIKE, so it is case-insensitive for
// ASCII; that collation choice is deliberate and pinned by tests.
func (s *CardStore) FindByPrefix(ctx context.Context, prefix string, limit int) ([]CardRecord, error) {
	pattern := escapeLike(prefix) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT game, title, card FROM cards WHERE title LIKE ? ESCAPE '\' ORDER BY id LIMIT ?`,
		pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("prefix query %q: %w", prefix, err)
	}
	defer rows.Close()

	var out []CardRecord
	for rows.Next() {
		var rec CardRecord
		if err := rows.Scan(&rec.Game, &rec.Title, &rec.Payload); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prefix query %q: %w", prefix, err)
	}
	return out, nil
}

// FindExact returns the canonical card for a title: the lowest-id row whose
// title is byte-equal. ErrNotFound when nothing matches.
func (s *CardStore) FindExact(ctx context.Context, title string) (CardRecord, error) {
	var rec CardRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT game, title, card FROM cards WHERE title = ? ORDER BY id LIMIT 1`,
		title).Scan(&rec.Game, &rec.Title, &rec.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return CardRecord{}, fmt.Errorf("title %q: %w", title, ErrNotFound)
	}
	if err != nil {
		return CardRecord{}, fmt.Errorf("exact query %q: %w", title, err)
	}
	return rec, nil
}

// Games returns the distinct game identifiers present in the store, used at
// startup to check that every game has a render script.
func (s *CardStore) Games(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT game FROM cards ORDER BY game`)
	if err != nil {
		return nil, fmt.Errorf("games query: %w", err)
	}
	defer rows.Close()

	var games []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("games query: %w", err)
	}
	return games, nil
}

// ReplaceGame atomically swaps all cards for one game with recs, preserving
// the order of recs as insertion order.
func (s *CardStore) ReplaceGame(ctx context.Context, game string, recs []CardRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE game = ?`, game); err != nil {
		return fmt.Errorf("clear game %q: %w", game, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cards (game, title, card) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx, game, rec.Title, rec.Payload); err != nil {
			return fmt.Errorf("insert %q: %w", rec.Title, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	s.log.Info("replaced game cards", zap.String("game", game), zap.Int("count", len(recs)))
	return nil
}

// Insert appends a single card. Test and tooling helper.
func (s *CardStore) Insert(ctx context.Context, rec CardRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cards (game, title, card) VALUES (?, ?, ?)`,
		rec.Game, rec.Title, rec.Payload)
	if err != nil {
		return fmt.Errorf("insert %q: %w", rec.Title, err)
	}
	return nil
}
