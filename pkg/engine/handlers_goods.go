package engine

func registerGoodsCommands(r *Registry) {
	r.Register("AddGoods", cmdAddGoods)
	r.Register("DelGoods", cmdDelGoods)
	r.Register("AddMagic", cmdAddMagic)
	r.Register("DelMagic", cmdDelMagic)
	r.Register("AddMoney", cmdAddMoney)
	r.Register("GetMoney", cmdGetMoney)
	r.Register("BuyGoods", cmdBuyGoods)
}

func cmdAddGoods(ctx *Context) (Result, error) {
	count := ctx.IntParam(1)
	if count == 0 {
		count = 1
	}
	ctx.World().Inventory().AddGoods(ctx.Param(0), count)
	return Continue, nil
}

func cmdDelGoods(ctx *Context) (Result, error) {
	count := ctx.IntParam(1)
	if count == 0 {
		count = 1
	}
	ctx.World().Inventory().DeleteGoods(ctx.ActorParam(0), count)
	return Continue, nil
}

func cmdAddMagic(ctx *Context) (Result, error) {
	ctx.World().Inventory().AddMagic(ctx.Param(0))
	return Continue, nil
}

func cmdDelMagic(ctx *Context) (Result, error) {
	ctx.World().Inventory().DeleteMagic(ctx.Param(0))
	return Continue, nil
}

func cmdAddMoney(ctx *Context) (Result, error) {
	ctx.World().Inventory().AddMoney(ctx.IntParam(0))
	return Continue, nil
}

// GetMoney($var) reads the player's money into a variable.
func cmdGetMoney(ctx *Context) (Result, error) {
	out := ctx.OutVar()
	if out == "" {
		ctx.Logger().Warn("GetMoney without an output variable")
		return Continue, nil
	}
	ctx.Vars().SetInt(out, ctx.World().Inventory().Money())
	return Continue, nil
}

// BuyGoods(listFile) opens a shop and suspends until it is dismissed.
func cmdBuyGoods(ctx *Context) (Result, error) {
	ctx.World().Dialog().OpenShop(ctx.Param(0))
	return ctx.WaitEvent(WaitDialogClosed, nil), nil
}
