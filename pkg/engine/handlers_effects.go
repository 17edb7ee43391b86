package engine

func registerEffectCommands(r *Registry) {
	r.Register("MoveScreen", cmdMoveScreen)
	r.Register("SetMapPos", cmdSetMapPos)
	r.Register("CameraFollow", cmdCameraFollow)
	r.Register("FadeIn", cmdFadeIn)
	r.Register("FadeOut", cmdFadeOut)
	r.Register("PlayMusic", cmdPlayMusic)
	r.Register("StopMusic", cmdStopMusic)
	r.Register("PlaySound", cmdPlaySound)
	r.Register("PlayMovie", cmdPlayMovie)
	r.Register("ShowSnow", cmdShowSnow)
}

// MoveScreen(x, y) pans the camera and suspends until the pan completes.
func cmdMoveScreen(ctx *Context) (Result, error) {
	ctx.World().Camera().MoveTo(ctx.IntParam(0), ctx.IntParam(1))
	return ctx.WaitEvent(WaitMovementDone, nil), nil
}

func cmdSetMapPos(ctx *Context) (Result, error) {
	ctx.World().Camera().SetPos(ctx.IntParam(0), ctx.IntParam(1))
	return Continue, nil
}

func cmdCameraFollow(ctx *Context) (Result, error) {
	ctx.World().Camera().FollowPlayer()
	return Continue, nil
}

func cmdFadeIn(ctx *Context) (Result, error) {
	ctx.World().Screen().FadeIn()
	return ctx.WaitEvent(WaitMovementDone, nil), nil
}

func cmdFadeOut(ctx *Context) (Result, error) {
	ctx.World().Screen().FadeOut()
	return ctx.WaitEvent(WaitMovementDone, nil), nil
}

func cmdPlayMusic(ctx *Context) (Result, error) {
	ctx.World().Audio().PlayMusic(ctx.Param(0))
	return Continue, nil
}

func cmdStopMusic(ctx *Context) (Result, error) {
	ctx.World().Audio().StopMusic()
	return Continue, nil
}

func cmdPlaySound(ctx *Context) (Result, error) {
	ctx.World().Audio().PlaySound(ctx.Param(0))
	return Continue, nil
}

// PlayMovie(file) runs a video and suspends until it ends or the player
// skips it.
func cmdPlayMovie(ctx *Context) (Result, error) {
	ctx.World().Screen().PlayVideo(ctx.Param(0))
	return ctx.WaitEvent(WaitDialogClosed, nil), nil
}

func cmdShowSnow(ctx *Context) (Result, error) {
	ctx.World().Screen().ShowSnow(ctx.IntParam(0) != 0)
	return Continue, nil
}
