package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/script-engine/pkg/script"
	"github.com/jwebster45206/script-engine/pkg/vars"
)

// defaultMaxOpsPerTick bounds how many consecutive non-blocking opcodes
// one thread may drain in a single tick, so a tight Goto loop cannot
// starve the render loop.
const defaultMaxOpsPerTick = 512

// Engine owns every running script thread and steps them cooperatively
// from the host game loop. All execution happens inside Update on the
// host's goroutine; there is no preemption and no real parallelism.
type Engine struct {
	logger   *slog.Logger
	registry *Registry
	resolver *Resolver
	loader   *script.Loader
	vars     *vars.Store
	world    World

	clock         time.Duration
	main          *ScriptState
	parallel      []*ScriptState
	maxOpsPerTick int
}

// Options configures a new Engine. Zero fields get working defaults;
// World defaults to NopWorld.
type Options struct {
	Logger        *slog.Logger
	Loader        *script.Loader
	Vars          *vars.Store
	World         World
	MaxOpsPerTick int
}

// New creates an engine with the builtin command set registered.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Loader == nil {
		opts.Loader = script.NewLoader("", opts.Logger)
	}
	if opts.Vars == nil {
		opts.Vars = vars.New()
	}
	if opts.World == nil {
		opts.World = NopWorld{}
	}
	if opts.MaxOpsPerTick <= 0 {
		opts.MaxOpsPerTick = defaultMaxOpsPerTick
	}

	e := &Engine{
		logger:        opts.Logger,
		registry:      NewRegistry(),
		resolver:      NewResolver(opts.Logger),
		loader:        opts.Loader,
		vars:          opts.Vars,
		world:         opts.World,
		maxOpsPerTick: opts.MaxOpsPerTick,
	}
	registerBuiltins(e.registry)
	return e
}

// Registry exposes the dispatch table so hosts can add game-specific
// commands.
func (e *Engine) Registry() *Registry { return e.registry }

// Resolver exposes the wait registry; the host calls Resolve on it when
// dialogs close, selections are made and movement finishes.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// Vars returns the shared variable store.
func (e *Engine) Vars() *vars.Store { return e.vars }

// Clock returns accumulated simulated time.
func (e *Engine) Clock() time.Duration { return e.clock }

// RunScriptFile loads a script file and starts it as the main thread,
// replacing any previous main thread.
func (e *Engine) RunScriptFile(fileName string, belong string) (*ScriptState, error) {
	data, err := e.loader.Load(fileName)
	if err != nil {
		return nil, fmt.Errorf("run script: %w", err)
	}
	return e.RunData(data, belong), nil
}

// RunData starts pre-parsed script data as the main thread.
func (e *Engine) RunData(data *script.ScriptData, belong string) *ScriptState {
	if e.main != nil && e.main.Active() {
		e.terminate(e.main)
	}
	e.main = NewScriptState(data, belong)
	e.logger.Debug("Main script started", "thread", e.main.ID, "script", data.FileName, "belong", belong)
	return e.main
}

// SpawnParallel starts an independent background thread against a script
// file. The thread does not join any call stack; delay postpones its
// first step by simulated time.
func (e *Engine) SpawnParallel(fileName string, delay time.Duration) (*ScriptState, error) {
	data, err := e.loader.Load(fileName)
	if err != nil {
		return nil, fmt.Errorf("run parallel script: %w", err)
	}
	return e.SpawnParallelData(data, delay), nil
}

// SpawnParallelData starts a background thread against pre-parsed data.
func (e *Engine) SpawnParallelData(data *script.ScriptData, delay time.Duration) *ScriptState {
	st := NewScriptState(data, "")
	st.startAt = e.clock + delay
	e.parallel = append(e.parallel, st)
	e.logger.Debug("Parallel script started", "thread", st.ID, "script", data.FileName, "delay", delay)
	return st
}

// Update advances the engine by one host tick: the simulated clock moves
// by elapsed, polled waits are checked, then every runnable thread
// drains opcodes up to the fairness bound. Threads spawned during a tick
// take their first step on the next one.
func (e *Engine) Update(elapsed time.Duration) {
	e.clock += elapsed
	e.resolver.Poll(e.clock)

	// Snapshot before stepping so threads spawned during this tick are
	// not stepped until the next one.
	threads := e.parallel
	if e.main != nil {
		e.stepThread(e.main)
	}
	for _, st := range threads {
		e.stepThread(st)
	}

	kept := e.parallel[:0]
	for _, st := range e.parallel {
		if st.Active() {
			kept = append(kept, st)
		}
	}
	e.parallel = kept
}

// Active reports whether any thread is running or waiting.
func (e *Engine) Active() bool {
	if e.main != nil && e.main.Active() {
		return true
	}
	for _, st := range e.parallel {
		if st.Active() {
			return true
		}
	}
	return false
}

// Main returns the main thread's state, or nil.
func (e *Engine) Main() *ScriptState { return e.main }

// ParallelCount returns the number of live background threads.
func (e *Engine) ParallelCount() int { return len(e.parallel) }

// CancelAll forcibly terminates every thread and drops every pending
// wait. Map transitions, save/load and return-to-title call this so no
// stale resumption can fire into a torn-down world.
func (e *Engine) CancelAll() {
	if e.main != nil {
		e.main.Status = StatusCompleted
	}
	for _, st := range e.parallel {
		st.Status = StatusCompleted
	}
	e.parallel = nil
	e.resolver.CancelAll()
	e.logger.Debug("All script threads cancelled")
}

// stepThread executes opcodes on one thread until it pauses, completes
// or exhausts the per-tick fairness bound.
func (e *Engine) stepThread(st *ScriptState) {
	if st.startAt > e.clock {
		return
	}
	for ops := 0; ops < e.maxOpsPerTick; ops++ {
		if st.Status != StatusRunning {
			return
		}
		if st.Line >= len(st.Script.Codes) {
			// Past the end: implicit Return, or done.
			e.popOrComplete(st)
			continue
		}

		code := &st.Script.Codes[st.Line]
		if code.IsLabel {
			st.Line++
			continue
		}

		handler := e.registry.Resolve(code.Name)
		if handler == nil {
			e.logger.Warn("Unknown command",
				"command", code.Name,
				"thread", st.ID,
				"script", st.FileName(),
				"line", code.LineNumber)
			st.Line++
			continue
		}

		st.moved = false
		fileName := st.FileName()
		res, err := handler(&Context{engine: e, state: st, code: code})
		if err != nil {
			// A handler fault terminates only this thread; siblings
			// keep running.
			e.logger.Error("Command handler failed",
				"command", code.Name,
				"thread", st.ID,
				"script", fileName,
				"line", code.LineNumber,
				"error", err)
			e.terminate(st)
			return
		}
		if res == Pause {
			return
		}
		// The handler's cursor wins over the default advance.
		if !st.moved {
			st.Line++
		}
	}
}

func (e *Engine) popOrComplete(st *ScriptState) {
	st.moved = true
	if n := len(st.CallStack); n > 0 {
		frame := st.CallStack[n-1]
		st.CallStack = st.CallStack[:n-1]
		st.Script = frame.Script
		st.Line = frame.Line + 1
		return
	}
	e.terminate(st)
}

func (e *Engine) terminate(st *ScriptState) {
	st.Status = StatusCompleted
	st.moved = true
	e.resolver.Cancel(st)
}
