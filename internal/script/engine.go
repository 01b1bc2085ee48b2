// Package script loads per-game render scripts and runs them in sandboxed
// yaegi interpreters.
//
// One script file per game lives in the scripts directory; the file base
// name is the game identifier ("games/netrunner.go" renders game
// "netrunner"). A script is ordinary Go source, declared `package main`,
// interpreted rather than compiled, with access to an allowlisted slice of
// the standard library plus the "cardutil" host helpers. Each script must
// define
//
//	func embed(payload string) (map[string]interface{}, error)
//
// which receives the card's JSON payload and returns the document fields.
//
// The validated sources are shared read-only for the process lifetime.
// Every invocation gets a fresh interpreter, so no script-side state leaks
// between invocations.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"go.uber.org/zap"

	"deckhand/internal/logging"
)

// RenderFunc is the conventional name every game script must expose.
const RenderFunc = "embed"

// renderFn is the required signature of the exposed function.
type renderFn = func(string) (map[string]interface{}, error)

// Options tunes the engine.
type Options struct {
	// Timeout bounds one invocation. Zero means unbounded; a stuck script
	// then occupies its goroutine until it returns on its own.
	Timeout time.Duration
}

// Engine holds the validated render scripts. Safe for concurrent use; the
// engine itself is never mutated after LoadAll.
type Engine struct {
	scripts map[string]*gameScript
	timeout time.Duration
	log     *zap.Logger
}

type gameScript struct {
	game string
	path string
	src  string
}

// LoadAll reads every .go file in dir, compile-checks it in a throwaway
// interpreter, and verifies it exposes the render function with the right
// signature. Any failure is a *LoadError: the caller must not serve traffic
// with a partially loaded script set.
func LoadAll(dir string, opts Options) (*Engine, error) {
	log := logging.Named("script")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("script directory %s: %w", dir, err)
	}

	e := &Engine{
		scripts: make(map[string]*gameScript),
		timeout: opts.Timeout,
		log:     log,
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{File: path, Diag: err.Error()}
		}
		game := strings.TrimSuffix(entry.Name(), ".go")
		gs := &gameScript{game: game, path: path, src: string(src)}
		if err := gs.validate(); err != nil {
			return nil, err
		}
		e.scripts[game] = gs
		log.Info("loaded game script", zap.String("game", game), zap.String("path", path))
	}
	return e, nil
}

// validate evaluates the source once and checks the render function exists
// with the expected signature. The interpreter is discarded afterwards.
func (gs *gameScript) validate() error {
	i := newInterp()
	if _, err := i.Eval(gs.src); err != nil {
		return &LoadError{File: gs.path, Diag: err.Error()}
	}
	v, err := i.Eval(RenderFunc)
	if err != nil {
		return &LoadError{File: gs.path, Diag: fmt.Sprintf("missing %s function: %v", RenderFunc, err)}
	}
	if _, ok := v.Interface().(renderFn); !ok {
		return &LoadError{
			File: gs.path,
			Diag: fmt.Sprintf("%s has signature %T, want func(string) (map[string]interface{}, error)", RenderFunc, v.Interface()),
		}
	}
	return nil
}

func newInterp() *interp.Interpreter {
	i := interp.New(interp.Options{})
	// Use cannot fail for plain symbol tables.
	_ = i.Use(restrictedStdlib())
	_ = i.Use(hostExports)
	return i
}

// Games returns the loaded game identifiers, sorted.
func (e *Engine) Games() []string {
	games := make([]string, 0, len(e.scripts))
	for g := range e.scripts {
		games = append(games, g)
	}
	sort.Strings(games)
	return games
}

// Has reports whether a script is loaded for game.
func (e *Engine) Has(game string) bool {
	_, ok := e.scripts[game]
	return ok
}

// Invoke runs fn in the given game's script with payload as its argument and
// returns the script's loosely-typed output. The call runs on its own
// goroutine in a fresh interpreter; Invoke blocks the calling task only, and
// returns early when ctx is done or the engine timeout elapses. Every
// failure shape comes back as a *RuntimeError; a panicking script never
// panics the host.
func (e *Engine) Invoke(ctx context.Context, game, fn, payload string) (map[string]interface{}, error) {
	gs, ok := e.scripts[game]
	if !ok {
		return nil, &RuntimeError{Game: game, Fn: fn, Err: errors.New("no script loaded for game")}
	}
	e.log.Debug("invoking render script", zap.String("game", game), zap.String("fn", fn))

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type result struct {
		out map[string]interface{}
		err error
	}
	resCh := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resCh <- result{err: fmt.Errorf("script panicked: %v", r)}
			}
		}()
		out, err := gs.call(fn, payload)
		resCh <- result{out: out, err: err}
	}()

	select {
	case res := <-resCh:
		if res.err != nil {
			return nil, &RuntimeError{Game: game, Fn: fn, Err: res.err}
		}
		return res.out, nil
	case <-ctx.Done():
		// The interpreter goroutine cannot be stopped; it is abandoned and
		// finishes (or not) on its own.
		return nil, &RuntimeError{Game: game, Fn: fn, Err: ctx.Err()}
	}
}

// call evaluates the shared source in a fresh interpreter and applies fn.
func (gs *gameScript) call(fn, payload string) (map[string]interface{}, error) {
	i := newInterp()
	if _, err := i.Eval(gs.src); err != nil {
		return nil, fmt.Errorf("evaluating script: %w", err)
	}
	v, err := i.Eval(fn)
	if err != nil {
		return nil, fmt.Errorf("function %q not found: %w", fn, err)
	}
	render, ok := v.Interface().(renderFn)
	if !ok {
		return nil, fmt.Errorf("function %q has signature %T, want func(string) (map[string]interface{}, error)", fn, v.Interface())
	}
	out, err := render(payload)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}
	return out, nil
}
