package main

import (
	"fmt"
	"time"

	"github.com/jwebster45206/script-engine/pkg/engine"
)

// Simulated completion delays for timed effects. A real host resolves
// these when the underlying animation actually finishes.
const (
	moveDelay  = 400 * time.Millisecond
	fadeDelay  = 300 * time.Millisecond
	videoDelay = 800 * time.Millisecond
)

// consoleWorld implements the capability API for the terminal runner.
// Dialogs and selections complete on real key presses; animated effects
// (movement, camera pans, fades, video) auto-complete after a short
// simulated delay so scripts keep flowing.
type consoleWorld struct {
	resolver *engine.Resolver
	clock    func() time.Duration

	lines []string // transcript shown in the viewport

	dialogOpen  bool
	options     []string
	multiSelect bool
	cursor      int
	chosen      map[int]bool

	money   int
	pending []timedEffect
}

type timedEffect struct {
	kind engine.WaitKind
	due  time.Duration
}

var _ engine.World = (*consoleWorld)(nil)

func newConsoleWorld() *consoleWorld {
	return &consoleWorld{chosen: make(map[int]bool)}
}

func (w *consoleWorld) Dialog() engine.DialogAPI       { return (*conDialog)(w) }
func (w *consoleWorld) Player() engine.PlayerAPI       { return (*conPlayer)(w) }
func (w *consoleWorld) NPC() engine.NPCAPI             { return (*conNPC)(w) }
func (w *consoleWorld) Inventory() engine.InventoryAPI { return (*conInventory)(w) }
func (w *consoleWorld) Map() engine.MapAPI             { return (*conMap)(w) }
func (w *consoleWorld) Camera() engine.CameraAPI       { return (*conCamera)(w) }
func (w *consoleWorld) Audio() engine.AudioAPI         { return (*conAudio)(w) }
func (w *consoleWorld) Screen() engine.ScreenAPI       { return (*conScreen)(w) }

func (w *consoleWorld) logf(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func (w *consoleWorld) schedule(kind engine.WaitKind, delay time.Duration) {
	w.pending = append(w.pending, timedEffect{kind: kind, due: w.clock() + delay})
}

// tick resolves timed effects that have come due.
func (w *consoleWorld) tick(now time.Duration) {
	remaining := w.pending[:0]
	for _, eff := range w.pending {
		if now >= eff.due {
			w.resolver.Resolve(eff.kind, "")
		} else {
			remaining = append(remaining, eff)
		}
	}
	w.pending = remaining
}

type conDialog consoleWorld

func (d *conDialog) ShowDialog(portrait int, text string) {
	w := (*consoleWorld)(d)
	w.dialogOpen = true
	if portrait > 0 {
		w.logf("[portrait %d] %s", portrait, text)
	} else {
		w.logf("%s", text)
	}
}

func (d *conDialog) ShowSelection(message string, options []string) {
	w := (*consoleWorld)(d)
	w.logf("%s", message)
	w.options = options
	w.multiSelect = false
	w.cursor = 0
}

func (d *conDialog) ShowMultiSelect(message string, options []string) {
	w := (*consoleWorld)(d)
	w.logf("%s", message)
	w.options = options
	w.multiSelect = true
	w.cursor = 0
	w.chosen = make(map[int]bool)
}

func (d *conDialog) ShowMessage(text string) { (*consoleWorld)(d).logf("* %s", text) }

func (d *conDialog) OpenShop(listFile string) {
	w := (*consoleWorld)(d)
	w.logf("* shop opens: %s (enter to leave)", listFile)
	w.dialogOpen = true
}

type conPlayer consoleWorld

func (p *conPlayer) SetPos(x, y int) { (*consoleWorld)(p).logf("* player appears at (%d,%d)", x, y) }
func (p *conPlayer) SetDir(dir int)  { (*consoleWorld)(p).logf("* player faces %d", dir) }

func (p *conPlayer) WalkTo(x, y int) {
	w := (*consoleWorld)(p)
	w.logf("* player walks to (%d,%d)...", x, y)
	w.schedule(engine.WaitMovementDone, moveDelay)
}

func (p *conPlayer) RunTo(x, y int) {
	w := (*consoleWorld)(p)
	w.logf("* player runs to (%d,%d)...", x, y)
	w.schedule(engine.WaitMovementDone, moveDelay)
}

func (p *conPlayer) AddLife(amount int) { (*consoleWorld)(p).logf("* life %+d", amount) }
func (p *conPlayer) AddMana(amount int) { (*consoleWorld)(p).logf("* mana %+d", amount) }
func (p *conPlayer) AddThew(amount int) { (*consoleWorld)(p).logf("* thew %+d", amount) }
func (p *conPlayer) AddExp(amount int)  { (*consoleWorld)(p).logf("* exp %+d", amount) }
func (p *conPlayer) FullLife()          { (*consoleWorld)(p).logf("* fully healed") }

type conNPC consoleWorld

func (n *conNPC) Add(iniFile string, x, y int) {
	(*consoleWorld)(n).logf("* npc %s enters at (%d,%d)", iniFile, x, y)
}

func (n *conNPC) Delete(name string)           { (*consoleWorld)(n).logf("* npc %s leaves", name) }
func (n *conNPC) SetPos(name string, x, y int) {}
func (n *conNPC) SetDir(name string, dir int)  {}

func (n *conNPC) WalkTo(name string, x, y int) {
	w := (*consoleWorld)(n)
	w.logf("* npc %s walks to (%d,%d)...", name, x, y)
	w.schedule(engine.WaitMovementDone, moveDelay)
}

func (n *conNPC) SetRelation(name string, relation int) {
	(*consoleWorld)(n).logf("* npc %s relation=%d", name, relation)
}

func (n *conNPC) SetAction(name string, action string) {
	(*consoleWorld)(n).logf("* npc %s does %s", name, action)
}

func (n *conNPC) FollowPlayer(name string, follow bool) {
	w := (*consoleWorld)(n)
	if follow {
		w.logf("* npc %s starts following", name)
	} else {
		w.logf("* npc %s stops following", name)
	}
}

type conInventory consoleWorld

func (i *conInventory) AddGoods(name string, count int) {
	(*consoleWorld)(i).logf("* got %s x%d", name, count)
}

func (i *conInventory) DeleteGoods(name string, count int) {
	(*consoleWorld)(i).logf("* lost %s x%d", name, count)
}

func (i *conInventory) AddMagic(name string)    { (*consoleWorld)(i).logf("* learned %s", name) }
func (i *conInventory) DeleteMagic(name string) { (*consoleWorld)(i).logf("* forgot %s", name) }

func (i *conInventory) AddMoney(amount int) {
	w := (*consoleWorld)(i)
	w.money += amount
	w.logf("* money %+d (now %d)", amount, w.money)
}

func (i *conInventory) Money() int { return (*consoleWorld)(i).money }

type conMap consoleWorld

func (m *conMap) LoadMap(mapFile string) { (*consoleWorld)(m).logf("* map: %s", mapFile) }

func (m *conMap) AddObject(iniFile string, x, y int) {
	(*consoleWorld)(m).logf("* object %s at (%d,%d)", iniFile, x, y)
}

func (m *conMap) DeleteObject(name string) { (*consoleWorld)(m).logf("* object %s removed", name) }

func (m *conMap) OpenBox(name string) {
	w := (*consoleWorld)(m)
	w.logf("* %s creaks open...", name)
	w.schedule(engine.WaitMovementDone, moveDelay)
}

func (m *conMap) CloseBox(name string) { (*consoleWorld)(m).logf("* %s closes", name) }

func (m *conMap) SetTrap(x, y int, scriptFile string) {
	(*consoleWorld)(m).logf("* trap armed at (%d,%d) -> %s", x, y, scriptFile)
}

func (m *conMap) ClearTrap(x, y int) { (*consoleWorld)(m).logf("* trap cleared at (%d,%d)", x, y) }

type conCamera consoleWorld

func (c *conCamera) MoveTo(x, y int) {
	w := (*consoleWorld)(c)
	w.logf("* camera pans to (%d,%d)...", x, y)
	w.schedule(engine.WaitMovementDone, moveDelay)
}

func (c *conCamera) SetPos(x, y int) {}
func (c *conCamera) FollowPlayer()   {}

type conAudio consoleWorld

func (a *conAudio) PlayMusic(name string) { (*consoleWorld)(a).logf("* music: %s", name) }
func (a *conAudio) StopMusic()            { (*consoleWorld)(a).logf("* music stops") }
func (a *conAudio) PlaySound(name string) { (*consoleWorld)(a).logf("* sfx: %s", name) }

type conScreen consoleWorld

func (s *conScreen) FadeIn() {
	w := (*consoleWorld)(s)
	w.logf("* fade in...")
	w.schedule(engine.WaitMovementDone, fadeDelay)
}

func (s *conScreen) FadeOut() {
	w := (*consoleWorld)(s)
	w.logf("* fade out...")
	w.schedule(engine.WaitMovementDone, fadeDelay)
}

func (s *conScreen) PlayVideo(file string) {
	w := (*consoleWorld)(s)
	w.logf("* video: %s", file)
	w.schedule(engine.WaitDialogClosed, videoDelay)
}

func (s *conScreen) ShowSnow(on bool)    { (*consoleWorld)(s).logf("* snow: %v", on) }
func (s *conScreen) EnableInput(on bool) { (*consoleWorld)(s).logf("* input enabled: %v", on) }
func (s *conScreen) EnableSave(on bool)  { (*consoleWorld)(s).logf("* save enabled: %v", on) }
