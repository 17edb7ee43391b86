package engine

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/script-engine/pkg/script"
)

const tick = 33 * time.Millisecond

// recordWorld records capability calls so tests can assert on command
// side effects. Unimplemented groups fall back to the embedded NopWorld.
type recordWorld struct {
	NopWorld
	dialogs    []string
	selections [][]string
	messages   []string
	shops      []string
	moneyAdded int
	goodsAdded map[string]int
	npcDeleted []string
	npcWalked  []string
}

func newRecordWorld() *recordWorld {
	return &recordWorld{goodsAdded: make(map[string]int)}
}

func (w *recordWorld) Dialog() DialogAPI       { return w }
func (w *recordWorld) Inventory() InventoryAPI { return w }
func (w *recordWorld) NPC() NPCAPI             { return w }

func (w *recordWorld) ShowDialog(_ int, text string) { w.dialogs = append(w.dialogs, text) }
func (w *recordWorld) ShowSelection(_ string, options []string) {
	w.selections = append(w.selections, options)
}
func (w *recordWorld) ShowMultiSelect(_ string, options []string) {
	w.selections = append(w.selections, options)
}
func (w *recordWorld) ShowMessage(text string) { w.messages = append(w.messages, text) }
func (w *recordWorld) OpenShop(file string)    { w.shops = append(w.shops, file) }

func (w *recordWorld) AddGoods(name string, count int) { w.goodsAdded[name] += count }
func (w *recordWorld) DeleteGoods(string, int)         {}
func (w *recordWorld) AddMagic(string)                 {}
func (w *recordWorld) DeleteMagic(string)              {}
func (w *recordWorld) AddMoney(amount int)             { w.moneyAdded += amount }
func (w *recordWorld) Money() int                      { return w.moneyAdded }

func (w *recordWorld) Add(string, int, int)    {}
func (w *recordWorld) Delete(name string)      { w.npcDeleted = append(w.npcDeleted, name) }
func (w *recordWorld) SetPos(string, int, int) {}
func (w *recordWorld) SetDir(string, int)      {}
func (w *recordWorld) WalkTo(name string, x, y int) {
	w.npcWalked = append(w.npcWalked, fmt.Sprintf("%s:%d,%d", name, x, y))
}
func (w *recordWorld) SetRelation(string, int)   {}
func (w *recordWorld) SetAction(string, string)  {}
func (w *recordWorld) FollowPlayer(string, bool) {}

func newTestEngine(t *testing.T, files map[string]string, world World) *Engine {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write script %s: %v", name, err)
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Options{
		Logger: logger,
		Loader: script.NewLoader(dir, logger),
		World:  world,
	})
}

// run ticks the engine until the main thread completes or maxTicks pass.
func run(t *testing.T, e *Engine, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if !e.Active() {
			return
		}
		e.Update(tick)
	}
}

// The branch scenario from the dialog content set: with $x=1 the If jumps
// over AddMoney, so the player's money is unchanged.
func TestEngine_IfSkipsOverBranch(t *testing.T) {
	files := map[string]string{
		"main.txt": "Say(\"Hello\")\nIf($x==1):skip\nAddMoney(10)\nLabel:skip\nReturn",
	}

	tests := []struct {
		name      string
		x         string
		wantMoney int
	}{
		{name: "condition true skips AddMoney", x: "1", wantMoney: 0},
		{name: "condition false falls through", x: "0", wantMoney: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := newRecordWorld()
			e := newTestEngine(t, files, world)
			e.Vars().Set("x", tt.x)

			if _, err := e.RunScriptFile("main.txt", ""); err != nil {
				t.Fatalf("RunScriptFile failed: %v", err)
			}

			e.Update(tick)
			if e.Main().Status != StatusWaiting {
				t.Fatalf("Expected main thread waiting on dialog, got %v", e.Main().Status)
			}
			if len(world.dialogs) != 1 || world.dialogs[0] != "Hello" {
				t.Fatalf("Expected one dialog %q, got %v", "Hello", world.dialogs)
			}

			e.Resolver().Resolve(WaitDialogClosed, "")
			run(t, e, 10)

			if e.Main().Status != StatusCompleted {
				t.Errorf("Expected main thread completed, got %v", e.Main().Status)
			}
			if world.moneyAdded != tt.wantMoney {
				t.Errorf("Expected money %d, got %d", tt.wantMoney, world.moneyAdded)
			}
		})
	}
}

// RunScript(A) from B at line k resumes B exactly at line k+1 after A
// returns.
func TestEngine_RunScriptReturn(t *testing.T) {
	files := map[string]string{
		"b.txt": "Assign($trace, \"b1\")\nRunScript(\"a.txt\")\nAssign($trace, \"b2\")",
		"a.txt": "Assign($inA, 1)\nReturn\nAssign($trace, \"unreachable\")",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("b.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	run(t, e, 10)

	if e.Main().Status != StatusCompleted {
		t.Fatalf("Expected completion, got %v", e.Main().Status)
	}
	if e.Vars().GetInt("inA") != 1 {
		t.Errorf("Expected callee to run")
	}
	if got := e.Vars().Get("trace"); got != "b2" {
		t.Errorf("Expected caller to resume after the call site, trace=%q", got)
	}
	if len(e.Main().CallStack) != 0 {
		t.Errorf("Expected empty call stack, got %d frames", len(e.Main().CallStack))
	}
}

// A callee that runs past its end without Return is an implicit Return.
func TestEngine_ImplicitReturnAtEnd(t *testing.T) {
	files := map[string]string{
		"b.txt": "RunScript(\"a.txt\")\nAssign($after, 1)",
		"a.txt": "Assign($inA, 1)",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("b.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	run(t, e, 10)

	if e.Vars().GetInt("after") != 1 {
		t.Errorf("Expected caller to resume after implicit return")
	}
}

func TestEngine_GotoLoop(t *testing.T) {
	files := map[string]string{
		"loop.txt": "Label:top\nAdd($n, 1)\nIf($n < 3):top\nReturn",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("loop.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	run(t, e, 10)

	if got := e.Vars().GetInt("n"); got != 3 {
		t.Errorf("Expected n=3 after loop, got %d", got)
	}
}

// Sleep suspends on simulated tick time and resumes on the next line
// without re-executing the Sleep.
func TestEngine_Sleep(t *testing.T) {
	files := map[string]string{
		"sleep.txt": "Sleep(500)\nAdd($woke, 1)\nReturn",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("sleep.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}

	// First tick executes Sleep and suspends the thread.
	e.Update(100 * time.Millisecond)
	if e.Main().Status != StatusWaiting {
		t.Fatalf("Expected waiting status, got %v", e.Main().Status)
	}

	// Four more ticks: 400ms of simulated time, still asleep.
	for i := 0; i < 4; i++ {
		e.Update(100 * time.Millisecond)
	}
	if e.Vars().GetInt("woke") != 0 {
		t.Fatalf("Expected thread still asleep 400ms after Sleep")
	}

	// The 500ms boundary wakes it.
	e.Update(100 * time.Millisecond)
	if e.Vars().GetInt("woke") != 1 {
		t.Errorf("Expected woke=1 after 500ms, got %d", e.Vars().GetInt("woke"))
	}
	if e.Resolver().PendingCount() != 0 {
		t.Errorf("Expected no pending waits, got %d", e.Resolver().PendingCount())
	}
	if e.Main().Status != StatusCompleted {
		t.Errorf("Expected completion, got %v", e.Main().Status)
	}
}

// Parallel scripts do not join the caller's call stack and do not block
// the caller; writes are visible to siblings only across ticks.
func TestEngine_ParallelScripts(t *testing.T) {
	files := map[string]string{
		"main.txt": "RunParallelScript(\"bg.txt\")\nAssign($mainDone, 1)\nSleep(200)\nReturn",
		"bg.txt":   "Add($bg, 1)\nSleep(50)\nAdd($bg, 1)\nReturn",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}

	e.Update(tick)
	// The caller ran to its Sleep in the same tick; the background thread
	// takes its first step on the next tick.
	if e.Vars().GetInt("mainDone") != 1 {
		t.Fatalf("Expected caller not to block on RunParallelScript")
	}
	if e.Vars().GetInt("bg") != 0 {
		t.Fatalf("Expected background thread to start on the next tick")
	}
	if e.ParallelCount() != 1 {
		t.Fatalf("Expected 1 parallel thread, got %d", e.ParallelCount())
	}

	run(t, e, 20)
	if e.Vars().GetInt("bg") != 2 {
		t.Errorf("Expected bg=2, got %d", e.Vars().GetInt("bg"))
	}
	if e.ParallelCount() != 0 {
		t.Errorf("Expected parallel thread pruned after completion")
	}
}

func TestEngine_ParallelStartDelay(t *testing.T) {
	files := map[string]string{
		"main.txt": "RunParallelScript(\"bg.txt\", 300)\nSleep(1000)\nReturn",
		"bg.txt":   "Assign($bgRan, 1)",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		e.Update(100 * time.Millisecond)
	}
	if e.Vars().GetInt("bgRan") != 0 {
		t.Fatalf("Expected delayed thread not to run before its delay")
	}

	for i := 0; i < 3; i++ {
		e.Update(100 * time.Millisecond)
	}
	if e.Vars().GetInt("bgRan") != 1 {
		t.Errorf("Expected delayed thread to run after 300ms")
	}
}

// A handler fault terminates only the offending thread; siblings keep
// running.
func TestEngine_HandlerFaultIsolated(t *testing.T) {
	files := map[string]string{
		"main.txt": "RunParallelScript(\"bad.txt\")\nSleep(100)\nAssign($mainOK, 1)\nReturn",
		"bad.txt":  "Boom()\nAssign($afterBoom, 1)",
	}
	e := newTestEngine(t, files, NopWorld{})
	e.Registry().Register("Boom", func(*Context) (Result, error) {
		return Continue, fmt.Errorf("scripted failure")
	})

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	run(t, e, 20)

	if e.Vars().GetInt("afterBoom") != 0 {
		t.Errorf("Expected faulting thread to stop at the bad line")
	}
	if e.Vars().GetInt("mainOK") != 1 {
		t.Errorf("Expected sibling thread to be unaffected by the fault")
	}
}

// Unknown commands are logged no-ops: the line is skipped, not fatal.
func TestEngine_UnknownCommandSkipped(t *testing.T) {
	files := map[string]string{
		"main.txt": "FrobTheWidget(1, 2)\nAssign($ok, 1)\nReturn",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	run(t, e, 10)

	if e.Vars().GetInt("ok") != 1 {
		t.Errorf("Expected execution to continue past unknown command")
	}
}

// A Goto to a missing label logs and falls through instead of crashing.
func TestEngine_UnresolvedLabelSkipped(t *testing.T) {
	files := map[string]string{
		"main.txt": "Goto(nowhere)\nAssign($ok, 1)\nReturn",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	run(t, e, 10)

	if e.Vars().GetInt("ok") != 1 {
		t.Errorf("Expected execution to continue past unresolved label")
	}
	if e.Main().Status != StatusCompleted {
		t.Errorf("Expected completion, got %v", e.Main().Status)
	}
}

// A tight Goto loop cannot starve the host: Update returns once the
// fairness bound is hit, leaving the thread runnable for the next tick.
func TestEngine_FairnessBound(t *testing.T) {
	files := map[string]string{
		"spin.txt": "Label:top\nAdd($spins, 1)\nGoto(top)",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("spin.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}

	e.Update(tick)
	if e.Main().Status != StatusRunning {
		t.Errorf("Expected thread still runnable after bounded tick, got %v", e.Main().Status)
	}
	first := e.Vars().GetInt("spins")
	if first == 0 {
		t.Fatalf("Expected some iterations in the first tick")
	}

	e.Update(tick)
	if e.Vars().GetInt("spins") <= first {
		t.Errorf("Expected the loop to make progress on the next tick")
	}
}

// Cancelling mid-wait drops the resolver registration; a later event
// must not fire into the dead thread.
func TestEngine_CancelDuringWait(t *testing.T) {
	files := map[string]string{
		"main.txt": "Choose(\"Pick one\", \"A\", \"B\", $picked)\nAssign($after, 1)\nReturn",
	}
	world := newRecordWorld()
	e := newTestEngine(t, files, world)

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	e.Update(tick)

	if e.Main().Status != StatusWaiting {
		t.Fatalf("Expected waiting on selection, got %v", e.Main().Status)
	}
	if e.Resolver().PendingCount() != 1 {
		t.Fatalf("Expected 1 pending wait, got %d", e.Resolver().PendingCount())
	}

	// Simulated map unload.
	e.CancelAll()

	if e.Resolver().PendingCount() != 0 {
		t.Errorf("Expected no dangling resolver registration, got %d", e.Resolver().PendingCount())
	}
	if e.Resolver().Resolve(WaitSelectionMade, "0") {
		t.Errorf("Expected stale Resolve to find no wait")
	}
	if _, ok := e.Vars().GetVar("picked"); ok {
		t.Errorf("Expected no handler code to run after cancellation")
	}
	if e.Vars().GetInt("after") != 0 {
		t.Errorf("Expected no resumption after cancellation")
	}

	run(t, e, 5)
	if e.Active() {
		t.Errorf("Expected engine idle after CancelAll")
	}
}

// Waits of one kind resolve FIFO across threads.
func TestEngine_FIFOResolution(t *testing.T) {
	files := map[string]string{
		"main.txt": "Say(\"first\")\nAssign($mainSaid, 1)\nReturn",
		"bg.txt":   "Say(\"second\")\nAssign($bgSaid, 1)\nReturn",
	}
	world := newRecordWorld()
	e := newTestEngine(t, files, world)

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	if _, err := e.SpawnParallel("bg.txt", 0); err != nil {
		t.Fatalf("SpawnParallel failed: %v", err)
	}

	e.Update(tick)
	e.Update(tick)
	if e.Resolver().PendingCount() != 2 {
		t.Fatalf("Expected both threads waiting, got %d", e.Resolver().PendingCount())
	}

	e.Resolver().Resolve(WaitDialogClosed, "")
	e.Update(tick)
	if e.Vars().GetInt("mainSaid") != 1 || e.Vars().GetInt("bgSaid") != 0 {
		t.Errorf("Expected first-registered wait to resolve first")
	}

	e.Resolver().Resolve(WaitDialogClosed, "")
	e.Update(tick)
	if e.Vars().GetInt("bgSaid") != 1 {
		t.Errorf("Expected second wait to resolve on the next event")
	}
}

// ChooseMultiple suspends on the multi-select event; the resolved value
// is the comma-separated index list, stored verbatim in the output
// variable.
func TestEngine_ChooseMultipleStoresIndexList(t *testing.T) {
	files := map[string]string{
		"main.txt": "ChooseMultiple(\"Pick any\", \"A\", \"B\", \"C\", $picked)\nAssign($after, 1)\nReturn",
	}
	world := newRecordWorld()
	e := newTestEngine(t, files, world)

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	e.Update(tick)

	if e.Main().Status != StatusWaiting {
		t.Fatalf("Expected waiting on multi-select, got %v", e.Main().Status)
	}
	if len(world.selections) != 1 || len(world.selections[0]) != 3 {
		t.Fatalf("Expected three options shown, got %v", world.selections)
	}
	if e.Vars().GetInt("after") != 0 {
		t.Fatalf("Expected no resumption before the selection completes")
	}

	if !e.Resolver().Resolve(WaitMultiSelectDone, "0,2") {
		t.Fatalf("Expected a pending multi-select wait")
	}
	run(t, e, 5)

	if got := e.Vars().Get("picked"); got != "0,2" {
		t.Errorf("Expected picked=%q, got %q", "0,2", got)
	}
	if e.Vars().GetInt("after") != 1 {
		t.Errorf("Expected resumption after multi-select")
	}
	if e.Main().Status != StatusCompleted {
		t.Errorf("Expected completion, got %v", e.Main().Status)
	}
}

// A predicate wait stays suspended while the condition is false and
// resumes on the first tick it reports true.
func TestEngine_ConditionWaitResumesOnPoll(t *testing.T) {
	files := map[string]string{
		"main.txt": "AwaitSignal\nAssign($after, 1)\nReturn",
	}
	e := newTestEngine(t, files, NopWorld{})
	e.Registry().Register("AwaitSignal", func(ctx *Context) (Result, error) {
		store := ctx.Vars()
		return ctx.WaitCondition(func() bool { return store.GetInt("signal") == 1 }), nil
	})

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}

	e.Update(tick)
	if e.Main().Status != StatusWaiting {
		t.Fatalf("Expected waiting on predicate, got %v", e.Main().Status)
	}
	if e.Resolver().PendingCount() != 1 {
		t.Fatalf("Expected 1 pending wait, got %d", e.Resolver().PendingCount())
	}

	for i := 0; i < 3; i++ {
		e.Update(tick)
	}
	if e.Vars().GetInt("after") != 0 {
		t.Fatalf("Expected thread still suspended while the predicate is false")
	}

	e.Vars().SetInt("signal", 1)
	e.Update(tick)
	if e.Vars().GetInt("after") != 1 {
		t.Errorf("Expected resumption on the tick the predicate turns true")
	}
	if e.Resolver().PendingCount() != 0 {
		t.Errorf("Expected no pending waits, got %d", e.Resolver().PendingCount())
	}
	if e.Main().Status != StatusCompleted {
		t.Errorf("Expected completion, got %v", e.Main().Status)
	}
}

func TestEngine_BelongObjectDefault(t *testing.T) {
	files := map[string]string{
		"die.txt": "DelNpc()\nReturn",
	}
	world := newRecordWorld()
	e := newTestEngine(t, files, world)

	if _, err := e.RunScriptFile("die.txt", "guard01"); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	run(t, e, 5)

	if len(world.npcDeleted) != 1 || world.npcDeleted[0] != "guard01" {
		t.Errorf("Expected DelNpc to default to the belong object, got %v", world.npcDeleted)
	}
}

// Engine log lines about a thread carry its ID, so interleaved logs from
// parallel scripts can be told apart.
func TestEngine_LogsCarryThreadID(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.txt"), []byte("FrobTheWidget()\nReturn"), 0o644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	e := New(Options{
		Logger: logger,
		Loader: script.NewLoader(dir, logger),
		World:  NopWorld{},
	})

	st, err := e.RunScriptFile("main.txt", "")
	if err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	run(t, e, 5)

	if !strings.Contains(buf.String(), st.ID.String()) {
		t.Errorf("Expected unknown-command warning to carry thread ID %s, logs: %s", st.ID, buf.String())
	}
}

func TestEngine_ReturnToTitleSelfCancel(t *testing.T) {
	files := map[string]string{
		"main.txt": "Assign($before, 1)\nReturnToTitle\nAssign($after, 1)",
	}
	e := newTestEngine(t, files, NopWorld{})

	if _, err := e.RunScriptFile("main.txt", ""); err != nil {
		t.Fatalf("RunScriptFile failed: %v", err)
	}
	run(t, e, 5)

	if e.Vars().GetInt("before") != 1 {
		t.Errorf("Expected lines before ReturnToTitle to run")
	}
	if e.Vars().GetInt("after") != 0 {
		t.Errorf("Expected no execution after ReturnToTitle")
	}
	if e.Active() {
		t.Errorf("Expected engine idle after ReturnToTitle")
	}
}
