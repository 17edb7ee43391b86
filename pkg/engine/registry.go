package engine

import (
	"sort"
	"strings"
)

// Result is what a command handler returns for the current line.
type Result int

const (
	// Continue means the step completed synchronously; the executor
	// advances to the next line (unless the handler moved the cursor).
	Continue Result = iota

	// Pause means the handler registered a wait with the resolver; the
	// thread suspends and the cursor advances when the wait resolves, so
	// the line is not re-executed.
	Pause
)

// Handler executes one script line. Side effects go through the
// capability API on the Context; errors terminate only the calling
// thread.
type Handler func(ctx *Context) (Result, error)

// Registry is the name-to-handler dispatch table. Dispatch is
// case-insensitive and the namespace is flat across all command groups.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry. Engine construction fills it
// with the builtin command set.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register installs a handler, replacing any previous one of the same
// name.
func (r *Registry) Register(name string, h Handler) {
	r.handlers[strings.ToLower(name)] = h
}

// Resolve returns the handler for a command name, or nil. Unresolved
// names are handled by the executor as logged no-ops so legacy content
// referencing unimplemented commands cannot crash a running game.
func (r *Registry) Resolve(name string) Handler {
	return r.handlers[strings.ToLower(name)]
}

// Names lists registered command names, sorted. Used by the validator.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
