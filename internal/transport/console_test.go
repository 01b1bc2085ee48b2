package transport

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckhand/internal/render"
)

// syncBuffer lets the console write from the pipeline goroutine while the
// test reads.
type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestSendNotice(t *testing.T) {
	var buf syncBuffer
	c := NewConsole(&buf)

	require.NoError(t, c.SendNotice(context.Background(), "general", "Wyldside not found"))
	assert.Equal(t, "[general] Wyldside not found\n", buf.String())
}

func TestSendDocument(t *testing.T) {
	var buf syncBuffer
	c := NewConsole(&buf)

	title := "Wyldside"
	footer := "Anarch • Core Set #16"
	err := c.SendDocument(context.Background(), "general", render.Document{
		Title:  &title,
		Footer: &footer,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "== Wyldside ==")
	assert.Contains(t, out, "-- Anarch • Core Set #16")
}

func TestPromptSelectionByNumber(t *testing.T) {
	var buf syncBuffer
	c := NewConsole(&buf)

	p, err := c.PresentChoices(context.Background(), "general",
		"Please select the card you're looking for",
		[]string{"Sure Gamble", "Sure Gamble (Alt Art)"})
	require.NoError(t, err)

	go func() {
		// Noise lines are not consumed; the numbered selection is.
		assert.False(t, c.Offer("hello there"))
		assert.True(t, c.Offer("2"))
	}()

	label, ok, err := p.AwaitSelection(context.Background(), time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sure Gamble (Alt Art)", label)
	assert.Contains(t, buf.String(), "1) Sure Gamble\n")
}

func TestPromptSelectionByLabel(t *testing.T) {
	var buf syncBuffer
	c := NewConsole(&buf)

	p, err := c.PresentChoices(context.Background(), "general", "pick one",
		[]string{"Wyldside", "Wyrm"})
	require.NoError(t, err)

	go c.Offer("Wyrm")

	label, ok, err := p.AwaitSelection(context.Background(), time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Wyrm", label)
}

func TestPromptTimeout(t *testing.T) {
	var buf syncBuffer
	c := NewConsole(&buf)

	p, err := c.PresentChoices(context.Background(), "general", "pick one",
		[]string{"Wyldside", "Wyrm"})
	require.NoError(t, err)

	_, ok, err := p.AwaitSelection(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)

	// After resolution the prompt no longer consumes input.
	assert.False(t, c.Offer("1"))
}

func TestReplaceWithText(t *testing.T) {
	var buf syncBuffer
	c := NewConsole(&buf)

	p, err := c.PresentChoices(context.Background(), "general", "pick one",
		[]string{"Wyldside"})
	require.NoError(t, err)

	require.NoError(t, p.ReplaceWithText(context.Background(), "Timed out"))
	assert.Contains(t, buf.String(), "[general] Timed out\n")
	assert.False(t, c.Offer("1"))
}
