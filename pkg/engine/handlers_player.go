package engine

func registerPlayerCommands(r *Registry) {
	r.Register("SetPlayerPos", cmdSetPlayerPos)
	r.Register("SetPlayerDir", cmdSetPlayerDir)
	r.Register("PlayerGoto", cmdPlayerGoto)
	r.Register("PlayerRunTo", cmdPlayerRunTo)
	r.Register("AddLife", cmdAddLife)
	r.Register("AddMana", cmdAddMana)
	r.Register("AddThew", cmdAddThew)
	r.Register("AddExp", cmdAddExp)
	r.Register("FullLife", cmdFullLife)
}

func cmdSetPlayerPos(ctx *Context) (Result, error) {
	ctx.World().Player().SetPos(ctx.IntParam(0), ctx.IntParam(1))
	return Continue, nil
}

func cmdSetPlayerDir(ctx *Context) (Result, error) {
	ctx.World().Player().SetDir(ctx.IntParam(0))
	return Continue, nil
}

// PlayerGoto(x, y) walks the player and suspends until the movement
// finishes.
func cmdPlayerGoto(ctx *Context) (Result, error) {
	ctx.World().Player().WalkTo(ctx.IntParam(0), ctx.IntParam(1))
	return ctx.WaitEvent(WaitMovementDone, nil), nil
}

func cmdPlayerRunTo(ctx *Context) (Result, error) {
	ctx.World().Player().RunTo(ctx.IntParam(0), ctx.IntParam(1))
	return ctx.WaitEvent(WaitMovementDone, nil), nil
}

func cmdAddLife(ctx *Context) (Result, error) {
	ctx.World().Player().AddLife(ctx.IntParam(0))
	return Continue, nil
}

func cmdAddMana(ctx *Context) (Result, error) {
	ctx.World().Player().AddMana(ctx.IntParam(0))
	return Continue, nil
}

func cmdAddThew(ctx *Context) (Result, error) {
	ctx.World().Player().AddThew(ctx.IntParam(0))
	return Continue, nil
}

func cmdAddExp(ctx *Context) (Result, error) {
	ctx.World().Player().AddExp(ctx.IntParam(0))
	return Continue, nil
}

func cmdFullLife(ctx *Context) (Result, error) {
	ctx.World().Player().FullLife()
	return Continue, nil
}
