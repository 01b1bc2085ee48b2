package transport

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deckhand/internal/logging"
	"deckhand/internal/render"
)

// Console is a line-oriented Messenger for running deckhand against a local
// terminal instead of a chat network. The owner of stdin (the serve loop)
// feeds every input line through Offer; when a prompt is live, the line is
// consumed as a selection attempt.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	pending *consolePrompt
	log     *zap.Logger
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, log: logging.Named("console")}
}

// SendNotice prints a plain notice line.
func (c *Console) SendNotice(_ context.Context, channel, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "[%s] %s\n", channel, text)
	return err
}

// PresentChoices prints a numbered option list and registers the prompt as
// the selection target for subsequent input lines.
func (c *Console) PresentChoices(_ context.Context, channel, prompt string, options []string) (ChoicePrompt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// One live prompt per console; a superseded prompt loses its input
	// feed and resolves by timeout.
	p := &consolePrompt{
		console: c,
		token:   uuid.NewString(),
		channel: channel,
		options: options,
		ch:      make(chan string, 1),
	}
	c.pending = p

	if _, err := fmt.Fprintf(c.out, "[%s] %s\n", channel, prompt); err != nil {
		return nil, err
	}
	for i, opt := range options {
		if _, err := fmt.Fprintf(c.out, "  %d) %s\n", i+1, opt); err != nil {
			return nil, err
		}
	}
	c.log.Debug("presented choices",
		zap.String("token", p.token), zap.Int("options", len(options)))
	return p, nil
}

// SendDocument prints the document in a readable block format.
func (c *Console) SendDocument(_ context.Context, channel string, doc render.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", channel)
	if doc.Title != nil {
		fmt.Fprintf(&b, "  == %s ==\n", *doc.Title)
	}
	if doc.URL != nil {
		fmt.Fprintf(&b, "  url: %s\n", *doc.URL)
	}
	if doc.Thumbnail != nil {
		fmt.Fprintf(&b, "  thumbnail: %s\n", *doc.Thumbnail)
	}
	if doc.Field != nil {
		fmt.Fprintf(&b, "  %s\n", doc.Field.Header)
		for _, line := range strings.Split(doc.Field.Body, "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	if doc.Footer != nil {
		fmt.Fprintf(&b, "  -- %s\n", *doc.Footer)
	}
	if doc.Color != nil {
		fmt.Fprintf(&b, "  color: #%06x\n", *doc.Color)
	}
	_, err := io.WriteString(c.out, b.String())
	return err
}

// Offer routes an input line to the live prompt, if any. It reports whether
// the line was consumed as a selection; unconsumed lines are ordinary chat
// input. A line selects by option number ("2") or by exact label.
func (c *Console) Offer(line string) bool {
	c.mu.Lock()
	p := c.pending
	c.mu.Unlock()
	if p == nil {
		return false
	}

	line = strings.TrimSpace(line)
	label, ok := p.match(line)
	if !ok {
		return false
	}
	select {
	case p.ch <- label:
	default:
		// Prompt already resolved; drop the duplicate selection.
	}
	return true
}

func (c *Console) clearPending(p *consolePrompt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == p {
		c.pending = nil
	}
}

type consolePrompt struct {
	console *Console
	token   string
	channel string
	options []string
	ch      chan string
	once    sync.Once
}

func (p *consolePrompt) match(line string) (string, bool) {
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(p.options) {
		return p.options[n-1], true
	}
	for _, opt := range p.options {
		if line == opt {
			return opt, true
		}
	}
	return "", false
}

func (p *consolePrompt) close() {
	p.once.Do(func() { p.console.clearPending(p) })
}

// AwaitSelection waits for a routed selection, the timeout, or ctx.
func (p *consolePrompt) AwaitSelection(ctx context.Context, timeout time.Duration) (string, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	defer p.close()

	select {
	case label := <-p.ch:
		return label, true, nil
	case <-timer.C:
		return "", false, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// Withdraw removes the prompt. On a terminal the printed lines stay; the
// prompt just stops accepting selections.
func (p *consolePrompt) Withdraw(_ context.Context) error {
	p.close()
	return nil
}

// ReplaceWithText withdraws the prompt and prints text in its place.
func (p *consolePrompt) ReplaceWithText(ctx context.Context, text string) error {
	p.close()
	return p.console.SendNotice(ctx, p.channel, text)
}
