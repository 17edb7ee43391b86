package engine

import (
	"math/rand/v2"
	"strings"
)

func registerSystemCommands(r *Registry) {
	r.Register("Assign", cmdAssign)
	r.Register("Add", cmdAdd)
	r.Register("Random", cmdRandom)
	r.Register("DelVar", cmdDelVar)
	r.Register("EnableInput", cmdEnableInput)
	r.Register("DisableInput", cmdDisableInput)
	r.Register("EnableSave", cmdEnableSave)
	r.Register("DisableSave", cmdDisableSave)
	r.Register("ReturnToTitle", cmdReturnToTitle)
}

func varName(ctx *Context, i int) string {
	return strings.TrimPrefix(ctx.RawParam(i), "$")
}

// Assign($var, value) sets a variable. The value may itself be a $var
// reference or a quoted string.
func cmdAssign(ctx *Context) (Result, error) {
	name := varName(ctx, 0)
	if name == "" {
		ctx.Logger().Warn("Assign without a variable name")
		return Continue, nil
	}
	ctx.Vars().Set(name, ctx.Param(1))
	return Continue, nil
}

// Add($var, delta) increments an integer variable.
func cmdAdd(ctx *Context) (Result, error) {
	name := varName(ctx, 0)
	if name == "" {
		ctx.Logger().Warn("Add without a variable name")
		return Continue, nil
	}
	ctx.Vars().Add(name, ctx.IntParam(1))
	return Continue, nil
}

// Random($var, min, max) stores a uniform integer in [min, max].
func cmdRandom(ctx *Context) (Result, error) {
	name := varName(ctx, 0)
	if name == "" {
		ctx.Logger().Warn("Random without a variable name")
		return Continue, nil
	}
	lo, hi := ctx.IntParam(1), ctx.IntParam(2)
	if hi < lo {
		lo, hi = hi, lo
	}
	ctx.Vars().SetInt(name, lo+rand.IntN(hi-lo+1))
	return Continue, nil
}

func cmdDelVar(ctx *Context) (Result, error) {
	ctx.Vars().Delete(varName(ctx, 0))
	return Continue, nil
}

func cmdEnableInput(ctx *Context) (Result, error) {
	ctx.World().Screen().EnableInput(true)
	return Continue, nil
}

func cmdDisableInput(ctx *Context) (Result, error) {
	ctx.World().Screen().EnableInput(false)
	return Continue, nil
}

func cmdEnableSave(ctx *Context) (Result, error) {
	ctx.World().Screen().EnableSave(true)
	return Continue, nil
}

func cmdDisableSave(ctx *Context) (Result, error) {
	ctx.World().Screen().EnableSave(false)
	return Continue, nil
}

// ReturnToTitle tears down every script thread, including this one, so
// nothing resumes into the title screen.
func cmdReturnToTitle(ctx *Context) (Result, error) {
	ctx.CancelAll()
	return Continue, nil
}
