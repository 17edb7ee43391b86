package engine

import (
	"time"

	"github.com/jwebster45206/script-engine/pkg/script"
)

func registerFlowCommands(r *Registry) {
	r.Register("If", cmdIf)
	r.Register("Goto", cmdGoto)
	r.Register("Return", cmdReturn)
	r.Register("RunScript", cmdRunScript)
	r.Register("RunParallelScript", cmdRunParallelScript)
	r.Register("Sleep", cmdSleep)
}

// If(cond):label jumps to the label when the condition holds, otherwise
// falls through to the next line. There is no implicit else.
func cmdIf(ctx *Context) (Result, error) {
	cond := script.Unquote(ctx.RawParam(0))
	ok, err := script.EvaluateCondition(cond, ctx.Vars())
	if err != nil {
		ctx.Logger().Warn("Bad condition", "condition", cond, "error", err)
		return Continue, nil
	}
	if ok {
		ctx.GotoLabel(ctx.Code().JumpTarget())
	}
	return Continue, nil
}

func cmdGoto(ctx *Context) (Result, error) {
	ctx.GotoLabel(ctx.Code().JumpTarget())
	return Continue, nil
}

func cmdReturn(ctx *Context) (Result, error) {
	ctx.Return()
	return Continue, nil
}

// RunScript(file) is a subroutine call: the caller is fully suspended
// until the callee returns, then resumes at the line after the call.
func cmdRunScript(ctx *Context) (Result, error) {
	file := ctx.Param(0)
	if err := ctx.CallScript(file); err != nil {
		// A callee that fails to load is skipped, not fatal; broken
		// content must not take down a running game.
		ctx.Logger().Warn("RunScript target failed to load", "file", file, "error", err)
	}
	return Continue, nil
}

// RunParallelScript(file, delayMs) spawns an independent thread. It does
// not push onto the caller's call stack and does not block the caller.
func cmdRunParallelScript(ctx *Context) (Result, error) {
	file := ctx.Param(0)
	delay := time.Duration(ctx.IntParam(1)) * time.Millisecond
	if err := ctx.SpawnParallel(file, delay); err != nil {
		ctx.Logger().Warn("RunParallelScript target failed to load", "file", file, "error", err)
	}
	return Continue, nil
}

// Sleep(ms) suspends on simulated tick time, never a real thread sleep.
func cmdSleep(ctx *Context) (Result, error) {
	ms := ctx.IntParam(0)
	if ms <= 0 {
		return Continue, nil
	}
	return ctx.WaitTimer(time.Duration(ms) * time.Millisecond), nil
}
