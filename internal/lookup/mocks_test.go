package lookup

import (
	"context"
	"errors"
	"sync"
	"time"

	"deckhand/internal/render"
	"deckhand/internal/store"
	"deckhand/internal/transport"
)

// fakeMessenger records everything delivered and answers disambiguation
// prompts with a scripted outcome.
type fakeMessenger struct {
	mu      sync.Mutex
	notices []string
	docs    []render.Document
	prompts []*fakePrompt

	presentErr error
	sendDocErr error

	// Scripted prompt outcome.
	selection   string
	selectionOK bool
	awaitErr    error
}

func (m *fakeMessenger) SendNotice(_ context.Context, _, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, text)
	return nil
}

func (m *fakeMessenger) PresentChoices(_ context.Context, _, _ string, options []string) (transport.ChoicePrompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.presentErr != nil {
		return nil, m.presentErr
	}
	p := &fakePrompt{
		options:   append([]string(nil), options...),
		selection: m.selection,
		ok:        m.selectionOK,
		err:       m.awaitErr,
	}
	m.prompts = append(m.prompts, p)
	return p, nil
}

func (m *fakeMessenger) SendDocument(_ context.Context, _ string, doc render.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendDocErr != nil {
		return m.sendDocErr
	}
	m.docs = append(m.docs, doc)
	return nil
}

func (m *fakeMessenger) delivered() ([]string, []render.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.notices...), append([]render.Document(nil), m.docs...)
}

type fakePrompt struct {
	options   []string
	selection string
	ok        bool
	err       error

	mu        sync.Mutex
	withdrawn bool
	replaced  string
}

func (p *fakePrompt) AwaitSelection(_ context.Context, _ time.Duration) (string, bool, error) {
	return p.selection, p.ok, p.err
}

func (p *fakePrompt) Withdraw(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.withdrawn = true
	return nil
}

func (p *fakePrompt) ReplaceWithText(_ context.Context, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replaced = text
	return nil
}

// fakeEngine maps game ids to canned render functions.
type fakeEngine struct {
	fns map[string]func(payload string) (map[string]interface{}, error)
}

func (e *fakeEngine) Invoke(_ context.Context, game, _ string, payload string) (map[string]interface{}, error) {
	fn, ok := e.fns[game]
	if !ok {
		return nil, errors.New("no script loaded for game")
	}
	return fn(payload)
}

// failStore errors on every query, for the store-failure path.
type failStore struct{ err error }

func (s failStore) FindByPrefix(context.Context, string, int) ([]store.CardRecord, error) {
	return nil, s.err
}

func (s failStore) FindExact(context.Context, string) (store.CardRecord, error) {
	return store.CardRecord{}, s.err
}
