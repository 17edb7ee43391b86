package engine

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jwebster45206/script-engine/pkg/script"
	"github.com/jwebster45206/script-engine/pkg/vars"
)

// Context is the helper contract handed to every command handler: resolved
// parameter access, the thread's state, cursor primitives, wait
// registration, the variable store and the capability API.
type Context struct {
	engine *Engine
	state  *ScriptState
	code   *script.ScriptCode
}

// Code returns the opcode being executed.
func (c *Context) Code() *script.ScriptCode { return c.code }

// State returns the executing thread's state.
func (c *Context) State() *ScriptState { return c.state }

// Vars returns the shared variable store.
func (c *Context) Vars() *vars.Store { return c.engine.vars }

// World returns the capability API.
func (c *Context) World() World { return c.engine.world }

// Logger returns a logger annotated with the executing thread and script
// position.
func (c *Context) Logger() *slog.Logger {
	return c.engine.logger.With("thread", c.state.ID, "script", c.state.FileName(), "line", c.code.LineNumber)
}

// ParamCount returns the number of arguments on the line.
func (c *Context) ParamCount() int { return len(c.code.Params) }

// RawParam returns the unresolved argument token at i, or "".
func (c *Context) RawParam(i int) string {
	if i < 0 || i >= len(c.code.Params) {
		return ""
	}
	return c.code.Params[i]
}

// Param resolves the argument at i: $var references read from the
// variable store, quoted literals are de-quoted, everything else passes
// through.
func (c *Context) Param(i int) string {
	return c.resolve(c.RawParam(i))
}

// IntParam resolves the argument at i as an integer; unset or
// non-numeric values read as zero.
func (c *Context) IntParam(i int) int {
	n, _ := strconv.Atoi(c.Param(i))
	return n
}

// ActorParam resolves an actor-name argument, defaulting to the thread's
// belong object when the argument is missing or empty.
func (c *Context) ActorParam(i int) string {
	if name := c.Param(i); name != "" {
		return name
	}
	return c.state.BelongObject
}

// Result returns the line's result token (the jump target of branching
// commands).
func (c *Context) Result() string { return c.code.Result }

// OutVar returns the variable name designated to receive a command's
// output: the trailing $identifier argument, without its dollar sign.
func (c *Context) OutVar() string {
	if n := len(c.code.Params); n > 0 {
		if last := c.code.Params[n-1]; strings.HasPrefix(last, "$") {
			return last[1:]
		}
	}
	return ""
}

func (c *Context) resolve(tok string) string {
	if strings.HasPrefix(tok, "$") {
		return c.engine.vars.Get(tok[1:])
	}
	return script.Unquote(tok)
}

// GotoLabel moves the cursor to a label in the current script. A missing
// label is logged and ignored rather than crashing the thread.
func (c *Context) GotoLabel(name string) {
	idx, ok := c.state.Script.LabelIndex(name)
	if !ok {
		c.Logger().Warn("Unresolved label", "label", name)
		return
	}
	c.state.Line = idx
	c.state.moved = true
}

// CallScript pushes the current position onto the call stack and makes
// the named script file active at line zero.
func (c *Context) CallScript(fileName string) error {
	data, err := c.engine.loader.Load(fileName)
	if err != nil {
		return err
	}
	c.state.CallStack = append(c.state.CallStack, Frame{Script: c.state.Script, Line: c.state.Line})
	c.state.Script = data
	c.state.Line = 0
	c.state.moved = true
	return nil
}

// Return pops the call stack and resumes at the line after the call
// site, or completes the thread when the stack is empty.
func (c *Context) Return() {
	c.engine.popOrComplete(c.state)
}

// EndScript terminates the thread regardless of call-stack depth.
func (c *Context) EndScript() {
	c.engine.terminate(c.state)
}

// SpawnParallel starts an independent script thread against the named
// file. It does not touch the caller's call stack or block the caller.
func (c *Context) SpawnParallel(fileName string, delay time.Duration) error {
	_, err := c.engine.SpawnParallel(fileName, delay)
	return err
}

// CancelAll tears down every script thread and pending wait, including
// the calling thread. Used by return-to-title style commands.
func (c *Context) CancelAll() {
	c.engine.CancelAll()
}

// WaitEvent suspends the thread until the host resolves an event of the
// given kind. onResolve, if non-nil, runs with the event's value just
// before the thread resumes; it never runs if the wait is cancelled.
func (c *Context) WaitEvent(kind WaitKind, onResolve func(value string)) Result {
	c.engine.resolver.add(&pendingWait{
		kind:      kind,
		state:     c.state,
		script:    c.state.Script,
		line:      c.state.Line,
		onResolve: onResolve,
	})
	return Pause
}

// WaitTimer suspends the thread until the engine clock has advanced by
// d. This is simulated tick time, never a real thread sleep.
func (c *Context) WaitTimer(d time.Duration) Result {
	c.engine.resolver.add(&pendingWait{
		kind:     WaitTimerElapsed,
		state:    c.state,
		script:   c.state.Script,
		line:     c.state.Line,
		deadline: c.engine.clock + d,
	})
	return Pause
}

// WaitCondition suspends the thread until pred reports true. The
// predicate is polled once per tick.
func (c *Context) WaitCondition(pred func() bool) Result {
	c.engine.resolver.add(&pendingWait{
		kind:   WaitCondition,
		state:  c.state,
		script: c.state.Script,
		line:   c.state.Line,
		pred:   pred,
	})
	return Pause
}
