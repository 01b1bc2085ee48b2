// Package lookup resolves free-text card queries to single records and
// orchestrates the render pipeline around them.
package lookup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"deckhand/internal/logging"
	"deckhand/internal/store"
	"deckhand/internal/transport"
)

// selectPrompt is the text shown above a disambiguation choice list.
const selectPrompt = "Please select the card you're looking for"

// Store is the slice of the card store the resolver needs.
type Store interface {
	FindByPrefix(ctx context.Context, prefix string, limit int) ([]store.CardRecord, error)
	FindExact(ctx context.Context, title string) (store.CardRecord, error)
}

// Outcome classifies a resolution.
type Outcome int

const (
	// Found means exactly one record was chosen.
	Found Outcome = iota
	// NotFound means no stored title matches the query.
	NotFound
	// Cancelled means disambiguation ended without a selection: timeout or
	// a transport fault. The user has already been told what they need to
	// know (or cannot be reached at all), so callers stay silent.
	Cancelled
)

// Resolution is the result of resolving one query.
type Resolution struct {
	Outcome Outcome
	Record  store.CardRecord
}

// ResolverOptions tunes a Resolver.
type ResolverOptions struct {
	// CandidateLimit bounds the prefix query. Default 10.
	CandidateLimit int

	// ChoiceTimeout bounds the interactive disambiguation wait. Default 180s.
	ChoiceTimeout time.Duration
}

// Resolver turns a query into zero or one card records, running the
// interactive disambiguation protocol when the prefix is ambiguous.
type Resolver struct {
	store     Store
	messenger transport.Messenger
	limit     int
	timeout   time.Duration
	log       *zap.Logger
}

// NewResolver builds a Resolver over the given collaborators.
func NewResolver(st Store, m transport.Messenger, opts ResolverOptions) *Resolver {
	limit := opts.CandidateLimit
	if limit <= 0 {
		limit = 10
	}
	timeout := opts.ChoiceTimeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	return &Resolver{
		store:     st,
		messenger: m,
		limit:     limit,
		timeout:   timeout,
		log:       logging.Named("resolver"),
	}
}

// Resolve maps query to a single record. Prefix matching inherits SQLite
// LIKE collation from the store (ASCII case-insensitive). The returned error
// is non-nil only for store failures; disambiguation timeouts and transport
// faults resolve to Cancelled and are logged here.
func (r *Resolver) Resolve(ctx context.Context, channel, query string) (Resolution, error) {
	candidates, err := r.store.FindByPrefix(ctx, query, r.limit)
	if err != nil {
		return Resolution{}, fmt.Errorf("prefix lookup: %w", err)
	}

	switch len(candidates) {
	case 0:
		return Resolution{Outcome: NotFound}, nil
	case 1:
		return Resolution{Outcome: Found, Record: candidates[0]}, nil
	}

	titles := distinctTitles(candidates)
	if len(titles) == 1 {
		// Several printings of one card are a single logical match; the
		// lowest-insertion-order row is the canonical one.
		return r.pick(ctx, titles[0])
	}

	return r.disambiguate(ctx, channel, titles)
}

// disambiguate runs the interactive protocol: one option per distinct title,
// a bounded wait, and a final exact lookup on the selected label.
func (r *Resolver) disambiguate(ctx context.Context, channel string, titles []string) (Resolution, error) {
	prompt, err := r.messenger.PresentChoices(ctx, channel, selectPrompt, titles)
	if err != nil {
		r.log.Error("failed to present disambiguation prompt", zap.Error(err))
		return Resolution{Outcome: Cancelled}, nil
	}

	label, ok, err := prompt.AwaitSelection(ctx, r.timeout)
	if err != nil {
		r.log.Error("failed awaiting disambiguation selection", zap.Error(err))
		if werr := prompt.Withdraw(ctx); werr != nil {
			r.log.Debug("failed to withdraw prompt", zap.Error(werr))
		}
		return Resolution{Outcome: Cancelled}, nil
	}
	if !ok {
		r.log.Info("disambiguation timed out", zap.String("channel", channel))
		if rerr := prompt.ReplaceWithText(ctx, "Timed out"); rerr != nil {
			r.log.Error("failed to replace prompt with timeout notice", zap.Error(rerr))
		}
		return Resolution{Outcome: Cancelled}, nil
	}

	if werr := prompt.Withdraw(ctx); werr != nil {
		r.log.Debug("failed to withdraw prompt", zap.Error(werr))
	}
	r.log.Info("disambiguation selected", zap.String("title", label))
	return r.pick(ctx, label)
}

// pick fetches the canonical record for a title: lowest insertion order.
func (r *Resolver) pick(ctx context.Context, title string) (Resolution, error) {
	rec, err := r.store.FindExact(ctx, title)
	if err != nil {
		return Resolution{}, fmt.Errorf("exact lookup: %w", err)
	}
	return Resolution{Outcome: Found, Record: rec}, nil
}

// distinctTitles returns the unique titles among candidates, keeping each
// title's first appearance in storage order so option lists are stable.
func distinctTitles(candidates []store.CardRecord) []string {
	seen := make(map[string]struct{}, len(candidates))
	var titles []string
	for _, c := range candidates {
		if _, ok := seen[c.Title]; ok {
			continue
		}
		seen[c.Title] = struct{}{}
		titles = append(titles, c.Title)
	}
	return titles
}
