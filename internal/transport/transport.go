// Package transport defines the narrow delivery surface the lookup pipeline
// talks to. The chat network itself (gateway, widgets, connection care) is
// someone else's problem; deckhand only needs to send notices, documents,
// and one kind of interactive prompt.
package transport

import (
	"context"
	"time"

	"deckhand/internal/render"
)

// Messenger delivers pipeline output to one chat surface.
type Messenger interface {
	// SendNotice delivers a plain text message.
	SendNotice(ctx context.Context, channel, text string) error

	// PresentChoices shows an interactive prompt with one selectable option
	// per label and returns a handle for awaiting the outcome.
	PresentChoices(ctx context.Context, channel, prompt string, options []string) (ChoicePrompt, error)

	// SendDocument delivers a rendered card document.
	SendDocument(ctx context.Context, channel string, doc render.Document) error
}

// ChoicePrompt is one live interactive prompt. It resolves exactly once:
// by selection, by timeout, or by being withdrawn or replaced.
type ChoicePrompt interface {
	// AwaitSelection blocks until an option is selected or the timeout
	// elapses. ok is false on timeout. A transport fault while waiting is
	// returned as err.
	AwaitSelection(ctx context.Context, timeout time.Duration) (label string, ok bool, err error)

	// Withdraw removes the prompt from the chat surface.
	Withdraw(ctx context.Context) error

	// ReplaceWithText swaps the prompt for a plain text message.
	ReplaceWithText(ctx context.Context, text string) error
}
