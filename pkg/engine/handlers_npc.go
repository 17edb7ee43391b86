package engine

func registerNPCCommands(r *Registry) {
	r.Register("AddNpc", cmdAddNpc)
	r.Register("DelNpc", cmdDelNpc)
	r.Register("SetNpcPos", cmdSetNpcPos)
	r.Register("SetNpcDir", cmdSetNpcDir)
	r.Register("NpcGoto", cmdNpcGoto)
	r.Register("SetNpcRelation", cmdSetNpcRelation)
	r.Register("SetNpcAction", cmdSetNpcAction)
	r.Register("FollowPlayer", cmdFollowPlayer)
}

func cmdAddNpc(ctx *Context) (Result, error) {
	ctx.World().NPC().Add(ctx.Param(0), ctx.IntParam(1), ctx.IntParam(2))
	return Continue, nil
}

// DelNpc([name]) removes an NPC; with no name it removes the NPC that
// triggered this script.
func cmdDelNpc(ctx *Context) (Result, error) {
	ctx.World().NPC().Delete(ctx.ActorParam(0))
	return Continue, nil
}

func cmdSetNpcPos(ctx *Context) (Result, error) {
	ctx.World().NPC().SetPos(ctx.ActorParam(0), ctx.IntParam(1), ctx.IntParam(2))
	return Continue, nil
}

func cmdSetNpcDir(ctx *Context) (Result, error) {
	ctx.World().NPC().SetDir(ctx.ActorParam(0), ctx.IntParam(1))
	return Continue, nil
}

// NpcGoto(name, x, y) walks an NPC and suspends until the movement
// finishes. An empty name targets the belong object.
func cmdNpcGoto(ctx *Context) (Result, error) {
	ctx.World().NPC().WalkTo(ctx.ActorParam(0), ctx.IntParam(1), ctx.IntParam(2))
	return ctx.WaitEvent(WaitMovementDone, nil), nil
}

func cmdSetNpcRelation(ctx *Context) (Result, error) {
	ctx.World().NPC().SetRelation(ctx.ActorParam(0), ctx.IntParam(1))
	return Continue, nil
}

func cmdSetNpcAction(ctx *Context) (Result, error) {
	ctx.World().NPC().SetAction(ctx.ActorParam(0), ctx.Param(1))
	return Continue, nil
}

func cmdFollowPlayer(ctx *Context) (Result, error) {
	ctx.World().NPC().FollowPlayer(ctx.ActorParam(0), ctx.IntParam(1) != 0)
	return Continue, nil
}
