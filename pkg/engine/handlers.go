package engine

// registerBuiltins installs the stock command set. Handlers are grouped
// by domain but share one flat, case-insensitive namespace.
func registerBuiltins(r *Registry) {
	registerFlowCommands(r)
	registerDialogCommands(r)
	registerPlayerCommands(r)
	registerNPCCommands(r)
	registerGoodsCommands(r)
	registerObjectCommands(r)
	registerEffectCommands(r)
	registerSystemCommands(r)
}
