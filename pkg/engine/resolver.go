package engine

import (
	"log/slog"
	"time"

	"github.com/jwebster45206/script-engine/pkg/script"
)

// WaitKind is the closed set of events a command handler can suspend on.
type WaitKind int

const (
	WaitDialogClosed WaitKind = iota
	WaitSelectionMade
	WaitMultiSelectDone
	WaitMovementDone
	WaitTimerElapsed
	WaitCondition
)

func (k WaitKind) String() string {
	switch k {
	case WaitDialogClosed:
		return "dialog_closed"
	case WaitSelectionMade:
		return "selection_made"
	case WaitMultiSelectDone:
		return "multi_select_done"
	case WaitMovementDone:
		return "movement_done"
	case WaitTimerElapsed:
		return "timer_elapsed"
	case WaitCondition:
		return "condition"
	}
	return "unknown"
}

// pendingWait ties a suspended thread to the event that resumes it. The
// cursor snapshot lets the resolver advance past the suspended line on
// resume without re-executing it.
type pendingWait struct {
	kind      WaitKind
	state     *ScriptState
	script    *script.ScriptData
	line      int
	deadline  time.Duration      // timer waits, against the engine clock
	pred      func() bool        // condition waits
	onResolve func(value string) // runs before the thread resumes
}

// Resolver bridges "wait until game event E occurs" requests into the
// stepwise scheduler. Event waits are fulfilled by the host calling
// Resolve when the real-world event happens; timer and condition waits
// are polled once per tick. Nothing here blocks.
type Resolver struct {
	logger *slog.Logger
	queues map[WaitKind][]*pendingWait
	polled []*pendingWait
}

// NewResolver creates an empty resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		logger: logger,
		queues: make(map[WaitKind][]*pendingWait),
	}
}

// Resolve fulfills exactly one pending wait of the given kind, FIFO when
// several are outstanding. It reports whether a wait was resumed.
func (r *Resolver) Resolve(kind WaitKind, value string) bool {
	queue := r.queues[kind]
	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]
		r.queues[kind] = queue
		if w.state.Status != StatusWaiting {
			// Thread was cancelled after registering; drop silently.
			continue
		}
		r.resume(w, value)
		return true
	}
	r.logger.Debug("Resolve with no pending wait", "kind", kind.String())
	return false
}

// Poll checks timer and condition waits against the engine clock. Called
// once per tick by the engine before stepping threads.
func (r *Resolver) Poll(now time.Duration) {
	remaining := r.polled[:0]
	for _, w := range r.polled {
		if w.state.Status != StatusWaiting {
			continue
		}
		done := false
		switch w.kind {
		case WaitTimerElapsed:
			done = now >= w.deadline
		case WaitCondition:
			done = w.pred()
		}
		if done {
			r.resume(w, "")
		} else {
			remaining = append(remaining, w)
		}
	}
	r.polled = remaining
}

// resume runs the wait's resolution callback, advances the cursor past
// the suspended line if the handler left it there, and marks the thread
// runnable again.
func (r *Resolver) resume(w *pendingWait, value string) {
	if w.onResolve != nil {
		w.onResolve(value)
	}
	if w.state.Script == w.script && w.state.Line == w.line {
		w.state.Line++
	}
	w.state.Status = StatusRunning
}

// Cancel drops every wait owned by a thread without resolving it. No
// handler code runs for a cancelled wait.
func (r *Resolver) Cancel(st *ScriptState) {
	for kind, queue := range r.queues {
		kept := queue[:0]
		for _, w := range queue {
			if w.state != st {
				kept = append(kept, w)
			}
		}
		r.queues[kind] = kept
	}
	kept := r.polled[:0]
	for _, w := range r.polled {
		if w.state != st {
			kept = append(kept, w)
		}
	}
	r.polled = kept
}

// CancelAll drops every pending wait. Used on map unload and
// return-to-title so nothing fires into a torn-down world.
func (r *Resolver) CancelAll() {
	r.queues = make(map[WaitKind][]*pendingWait)
	r.polled = nil
}

// PendingCount returns the number of outstanding waits, for tests and
// the runner's status pane.
func (r *Resolver) PendingCount() int {
	n := len(r.polled)
	for _, queue := range r.queues {
		n += len(queue)
	}
	return n
}

func (r *Resolver) add(w *pendingWait) {
	w.state.Status = StatusWaiting
	switch w.kind {
	case WaitTimerElapsed, WaitCondition:
		r.polled = append(r.polled, w)
	default:
		r.queues[w.kind] = append(r.queues[w.kind], w)
	}
}
