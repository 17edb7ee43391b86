package engine

func registerObjectCommands(r *Registry) {
	r.Register("AddObj", cmdAddObj)
	r.Register("DelObj", cmdDelObj)
	r.Register("OpenBox", cmdOpenBox)
	r.Register("CloseBox", cmdCloseBox)
	r.Register("SetTrap", cmdSetTrap)
	r.Register("ClearTrap", cmdClearTrap)
	r.Register("LoadMap", cmdLoadMap)
}

func cmdAddObj(ctx *Context) (Result, error) {
	ctx.World().Map().AddObject(ctx.Param(0), ctx.IntParam(1), ctx.IntParam(2))
	return Continue, nil
}

func cmdDelObj(ctx *Context) (Result, error) {
	ctx.World().Map().DeleteObject(ctx.ActorParam(0))
	return Continue, nil
}

// OpenBox([name]) plays the container's opening animation and suspends
// until it finishes. With no name it opens the belong object.
func cmdOpenBox(ctx *Context) (Result, error) {
	ctx.World().Map().OpenBox(ctx.ActorParam(0))
	return ctx.WaitEvent(WaitMovementDone, nil), nil
}

func cmdCloseBox(ctx *Context) (Result, error) {
	ctx.World().Map().CloseBox(ctx.ActorParam(0))
	return Continue, nil
}

// SetTrap(x, y, scriptFile) arms a tile trap that runs the given script
// when stepped on.
func cmdSetTrap(ctx *Context) (Result, error) {
	ctx.World().Map().SetTrap(ctx.IntParam(0), ctx.IntParam(1), ctx.Param(2))
	return Continue, nil
}

func cmdClearTrap(ctx *Context) (Result, error) {
	ctx.World().Map().ClearTrap(ctx.IntParam(0), ctx.IntParam(1))
	return Continue, nil
}

// LoadMap(mapFile) asks the host to switch maps. The host is responsible
// for cancelling script threads as part of the transition; the command
// itself keeps executing so a cutscene can position actors after the
// load.
func cmdLoadMap(ctx *Context) (Result, error) {
	ctx.World().Map().LoadMap(ctx.Param(0))
	return Continue, nil
}
