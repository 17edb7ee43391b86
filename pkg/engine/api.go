package engine

// The capability API is the boundary between the script engine and the
// game. Command handlers call these interfaces for every gameplay effect;
// the engine never touches rendering or audio directly. Operations whose
// in-world effect takes multiple frames (walking, fades, dialogs) return
// immediately and signal completion through the Resolver's event channel.

// DialogAPI presents dialog boxes and choices to the player.
type DialogAPI interface {
	// ShowDialog opens a dialog box. Completion is observed as a
	// WaitDialogClosed event when the player acknowledges it.
	ShowDialog(portrait int, text string)

	// ShowSelection presents options. Completion is a WaitSelectionMade
	// event whose value is the chosen option's index, as a decimal string.
	ShowSelection(message string, options []string)

	// ShowMultiSelect presents options the player may pick several of.
	// Completion is a WaitMultiSelectDone event whose value is a
	// comma-separated list of chosen indices.
	ShowMultiSelect(message string, options []string)

	// ShowMessage displays transient text with no acknowledgement.
	ShowMessage(text string)

	// OpenShop opens a buy screen from a goods list file. Completion is a
	// WaitDialogClosed event when the shop is dismissed.
	OpenShop(listFile string)
}

// PlayerAPI controls the player character.
type PlayerAPI interface {
	SetPos(x, y int)
	SetDir(dir int)
	// WalkTo and RunTo start movement; completion is WaitMovementDone.
	WalkTo(x, y int)
	RunTo(x, y int)
	AddLife(amount int)
	AddMana(amount int)
	AddThew(amount int)
	AddExp(amount int)
	FullLife()
}

// NPCAPI controls non-player characters by name.
type NPCAPI interface {
	Add(iniFile string, x, y int)
	Delete(name string)
	SetPos(name string, x, y int)
	SetDir(name string, dir int)
	// WalkTo starts movement; completion is WaitMovementDone.
	WalkTo(name string, x, y int)
	SetRelation(name string, relation int)
	SetAction(name string, action string)
	FollowPlayer(name string, follow bool)
}

// InventoryAPI manages goods, magic and money.
type InventoryAPI interface {
	AddGoods(name string, count int)
	DeleteGoods(name string, count int)
	AddMagic(name string)
	DeleteMagic(name string)
	AddMoney(amount int)
	Money() int
}

// MapAPI loads maps and manipulates map objects and traps.
type MapAPI interface {
	LoadMap(mapFile string)
	AddObject(iniFile string, x, y int)
	DeleteObject(name string)
	// OpenBox plays a container-opening animation; completion is
	// WaitMovementDone.
	OpenBox(name string)
	CloseBox(name string)
	SetTrap(x, y int, scriptFile string)
	ClearTrap(x, y int)
}

// CameraAPI pans and positions the view.
type CameraAPI interface {
	// MoveTo pans the camera; completion is WaitMovementDone.
	MoveTo(x, y int)
	SetPos(x, y int)
	FollowPlayer()
}

// AudioAPI plays music and sound effects. All fire-and-forget.
type AudioAPI interface {
	PlayMusic(name string)
	StopMusic()
	PlaySound(name string)
}

// ScreenAPI drives full-screen effects.
type ScreenAPI interface {
	// FadeIn and FadeOut run over several frames; completion is
	// WaitMovementDone.
	FadeIn()
	FadeOut()
	// PlayVideo runs a movie; completion is WaitDialogClosed when it ends
	// or is skipped.
	PlayVideo(file string)
	ShowSnow(on bool)
	EnableInput(on bool)
	EnableSave(on bool)
}

// World aggregates the capability groups a host must provide.
type World interface {
	Dialog() DialogAPI
	Player() PlayerAPI
	NPC() NPCAPI
	Inventory() InventoryAPI
	Map() MapAPI
	Camera() CameraAPI
	Audio() AudioAPI
	Screen() ScreenAPI
}

// NopWorld implements World with no-ops. Useful for the validator and as
// an embedding base for hosts that only implement part of the API.
type NopWorld struct{}

var _ World = (*NopWorld)(nil)

func (NopWorld) Dialog() DialogAPI       { return nopDialog{} }
func (NopWorld) Player() PlayerAPI       { return nopPlayer{} }
func (NopWorld) NPC() NPCAPI             { return nopNPC{} }
func (NopWorld) Inventory() InventoryAPI { return nopInventory{} }
func (NopWorld) Map() MapAPI             { return nopMap{} }
func (NopWorld) Camera() CameraAPI       { return nopCamera{} }
func (NopWorld) Audio() AudioAPI         { return nopAudio{} }
func (NopWorld) Screen() ScreenAPI       { return nopScreen{} }

type nopDialog struct{}

func (nopDialog) ShowDialog(int, string)           {}
func (nopDialog) ShowSelection(string, []string)   {}
func (nopDialog) ShowMultiSelect(string, []string) {}
func (nopDialog) ShowMessage(string)               {}
func (nopDialog) OpenShop(string)                  {}

type nopPlayer struct{}

func (nopPlayer) SetPos(int, int) {}
func (nopPlayer) SetDir(int)      {}
func (nopPlayer) WalkTo(int, int) {}
func (nopPlayer) RunTo(int, int)  {}
func (nopPlayer) AddLife(int)     {}
func (nopPlayer) AddMana(int)     {}
func (nopPlayer) AddThew(int)     {}
func (nopPlayer) AddExp(int)      {}
func (nopPlayer) FullLife()       {}

type nopNPC struct{}

func (nopNPC) Add(string, int, int)      {}
func (nopNPC) Delete(string)             {}
func (nopNPC) SetPos(string, int, int)   {}
func (nopNPC) SetDir(string, int)        {}
func (nopNPC) WalkTo(string, int, int)   {}
func (nopNPC) SetRelation(string, int)   {}
func (nopNPC) SetAction(string, string)  {}
func (nopNPC) FollowPlayer(string, bool) {}

type nopInventory struct{}

func (nopInventory) AddGoods(string, int)               {}
func (nopInventory) DeleteGoods(string, int)            {}
func (nopInventory) AddMagic(string)                    {}
func (nopInventory) DeleteMagic(string)                 {}
func (nopInventory) AddMoney(int)                       {}
func (nopInventory) Money() int                         { return 0 }

type nopMap struct{}

func (nopMap) LoadMap(string)             {}
func (nopMap) AddObject(string, int, int) {}
func (nopMap) DeleteObject(string)        {}
func (nopMap) OpenBox(string)             {}
func (nopMap) CloseBox(string)            {}
func (nopMap) SetTrap(int, int, string)   {}
func (nopMap) ClearTrap(int, int)         {}

type nopCamera struct{}

func (nopCamera) MoveTo(int, int) {}
func (nopCamera) SetPos(int, int) {}
func (nopCamera) FollowPlayer()   {}

type nopAudio struct{}

func (nopAudio) PlayMusic(string) {}
func (nopAudio) StopMusic()       {}
func (nopAudio) PlaySound(string) {}

type nopScreen struct{}

func (nopScreen) FadeIn()          {}
func (nopScreen) FadeOut()         {}
func (nopScreen) PlayVideo(string) {}
func (nopScreen) ShowSnow(bool)    {}
func (nopScreen) EnableInput(bool) {}
func (nopScreen) EnableSave(bool)  {}
