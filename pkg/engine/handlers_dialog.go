package engine

import (
	"strconv"

	"github.com/jwebster45206/script-engine/pkg/script"
)

func registerDialogCommands(r *Registry) {
	r.Register("Say", cmdSay)
	r.Register("Talk", cmdTalk)
	r.Register("ShowMessage", cmdShowMessage)
	r.Register("Choose", cmdChoose)
	r.Register("ChooseEx", cmdChooseEx)
	r.Register("ChooseMultiple", cmdChooseMultiple)
}

// Say(text[, portrait]) shows a dialog box and suspends until the player
// acknowledges it.
func cmdSay(ctx *Context) (Result, error) {
	ctx.World().Dialog().ShowDialog(ctx.IntParam(1), ctx.Param(0))
	return ctx.WaitEvent(WaitDialogClosed, nil), nil
}

// Talk(portrait, text) is the portrait-first legacy spelling of Say.
func cmdTalk(ctx *Context) (Result, error) {
	ctx.World().Dialog().ShowDialog(ctx.IntParam(0), ctx.Param(1))
	return ctx.WaitEvent(WaitDialogClosed, nil), nil
}

func cmdShowMessage(ctx *Context) (Result, error) {
	ctx.World().Dialog().ShowMessage(ctx.Param(0))
	return Continue, nil
}

// Choose(message, option..., $var) presents options and stores the chosen
// index into the trailing output variable.
func cmdChoose(ctx *Context) (Result, error) {
	out := ctx.OutVar()
	last := ctx.ParamCount()
	if out != "" {
		last--
	}
	var options []string
	for i := 1; i < last; i++ {
		options = append(options, ctx.Param(i))
	}
	if len(options) == 0 {
		ctx.Logger().Warn("Choose with no options")
		return Continue, nil
	}

	ctx.World().Dialog().ShowSelection(ctx.Param(0), options)
	store := ctx.Vars()
	return ctx.WaitEvent(WaitSelectionMade, func(value string) {
		if out != "" {
			store.Set(out, value)
		}
	}), nil
}

// ChooseEx(message, cond1, option1, cond2, option2, ..., $var) shows only
// the options whose condition holds and stores the chosen option's
// original ordinal. With no visible options the output variable is set to
// -1 and execution continues.
func cmdChooseEx(ctx *Context) (Result, error) {
	out := ctx.OutVar()
	last := ctx.ParamCount()
	if out != "" {
		last--
	}

	var options []string
	var ordinals []int
	ord := 0
	for i := 1; i < last-1; i += 2 {
		cond := script.Unquote(ctx.RawParam(i))
		ok, err := script.EvaluateCondition(cond, ctx.Vars())
		if err != nil {
			ctx.Logger().Warn("Bad choice condition", "condition", cond, "error", err)
		} else if ok {
			options = append(options, ctx.Param(i+1))
			ordinals = append(ordinals, ord)
		}
		ord++
	}

	store := ctx.Vars()
	if len(options) == 0 {
		if out != "" {
			store.Set(out, "-1")
		}
		return Continue, nil
	}

	ctx.World().Dialog().ShowSelection(ctx.Param(0), options)
	return ctx.WaitEvent(WaitSelectionMade, func(value string) {
		if out == "" {
			return
		}
		idx, err := strconv.Atoi(value)
		if err != nil || idx < 0 || idx >= len(ordinals) {
			store.Set(out, "-1")
			return
		}
		store.SetInt(out, ordinals[idx])
	}), nil
}

// ChooseMultiple(message, option..., $var) lets the player pick several
// options; the output variable receives a comma-separated index list.
func cmdChooseMultiple(ctx *Context) (Result, error) {
	out := ctx.OutVar()
	last := ctx.ParamCount()
	if out != "" {
		last--
	}
	var options []string
	for i := 1; i < last; i++ {
		options = append(options, ctx.Param(i))
	}
	if len(options) == 0 {
		ctx.Logger().Warn("ChooseMultiple with no options")
		return Continue, nil
	}

	ctx.World().Dialog().ShowMultiSelect(ctx.Param(0), options)
	store := ctx.Vars()
	return ctx.WaitEvent(WaitMultiSelectDone, func(value string) {
		if out != "" {
			store.Set(out, value)
		}
	}), nil
}
