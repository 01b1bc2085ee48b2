package script

import "fmt"

// LoadError reports a script that failed to compile or validate at startup.
// The host refuses to serve with a partially loaded script set, so callers
// treat this as fatal.
type LoadError struct {
	File string
	Diag string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("script %s: %s", e.File, e.Diag)
}

// RuntimeError reports a failed invocation: unknown game, missing function,
// wrong signature, an error or panic inside the script, or a timeout. It
// ends that invocation only; the host and sibling invocations are unaffected.
type RuntimeError struct {
	Game string
	Fn   string
	Err  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("script %s.%s: %v", e.Game, e.Fn, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }
