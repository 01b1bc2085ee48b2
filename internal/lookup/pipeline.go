package lookup

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"deckhand/internal/logging"
	"deckhand/internal/render"
	"deckhand/internal/script"
	"deckhand/internal/transport"
)

// Engine is the slice of the script engine the pipeline needs.
type Engine interface {
	Invoke(ctx context.Context, game, fn, payload string) (map[string]interface{}, error)
}

// Pipeline drives one query from resolution through script rendering to
// delivery. Rendering runs detached: Run returns as soon as the record is
// chosen, and the document lands whenever the script finishes.
type Pipeline struct {
	resolver  *Resolver
	engine    Engine
	messenger transport.Messenger
	log       *zap.Logger
	tasks     sync.WaitGroup
}

// NewPipeline builds a Pipeline.
func NewPipeline(r *Resolver, e Engine, m transport.Messenger) *Pipeline {
	return &Pipeline{
		resolver:  r,
		engine:    e,
		messenger: m,
		log:       logging.Named("pipeline"),
	}
}

// Run resolves query and, when a record is found, detaches a render task for
// it. The returned error covers the synchronous stage only (store failure,
// not-found notice delivery); render and conversion errors are contained in
// the detached task and logged there.
func (p *Pipeline) Run(ctx context.Context, channel, query string) error {
	res, err := p.resolver.Resolve(ctx, channel, query)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", query, err)
	}

	switch res.Outcome {
	case NotFound:
		notice := fmt.Sprintf("%s not found", query)
		if err := p.messenger.SendNotice(ctx, channel, notice); err != nil {
			return fmt.Errorf("deliver not-found notice: %w", err)
		}
		return nil
	case Cancelled:
		// The resolver already informed the user (or could not reach them).
		return nil
	}

	rec := res.Record
	p.log.Info("rendering card",
		zap.String("game", rec.Game), zap.String("title", rec.Title))

	// Detached so a slow script cannot hold this lookup's caller open. The
	// task survives the triggering request; only the engine's own timeout
	// bounds it.
	p.tasks.Add(1)
	go func() {
		defer p.tasks.Done()
		p.renderAndDeliver(context.WithoutCancel(ctx), channel, rec.Game, rec.Title, rec.Payload)
	}()
	return nil
}

// renderAndDeliver is the detached tail of a run. Every failure is logged
// and ends this task only.
func (p *Pipeline) renderAndDeliver(ctx context.Context, channel, game, title, payload string) {
	out, err := p.engine.Invoke(ctx, game, script.RenderFunc, payload)
	if err != nil {
		p.log.Error("render script failed",
			zap.String("game", game), zap.String("title", title), zap.Error(err))
		return
	}
	doc, err := render.Convert(out)
	if err != nil {
		p.log.Error("render output rejected",
			zap.String("game", game), zap.String("title", title), zap.Error(err))
		return
	}
	if err := p.messenger.SendDocument(ctx, channel, doc); err != nil {
		p.log.Error("failed to deliver document",
			zap.String("title", title), zap.Error(err))
		return
	}
}

// Wait blocks until all detached render tasks have finished. Called on
// shutdown so process exit does not race in-flight deliveries.
func (p *Pipeline) Wait() {
	p.tasks.Wait()
}

// inlinePattern captures the first [[title]] span in a chat message.
// Non-greedy, so "[[a]] and [[b]]" captures "a"; later spans are ignored.
var inlinePattern = regexp.MustCompile(`\[\[(.*?)\]\]`)

// ExtractQuery pulls the lookup query out of an inbound chat message. The
// captured title is whitespace-trimmed with case preserved; a span that trims
// to nothing is no trigger at all.
func ExtractQuery(text string) (string, bool) {
	m := inlinePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	query := strings.TrimSpace(m[1])
	if query == "" {
		return "", false
	}
	return query, true
}
