package main

import (
	"strings"
	"testing"

	"github.com/milk9111/topdown/geom"
	"github.com/milk9111/topdown/prefabs"
	"github.com/milk9111/topdown/save"
	"github.com/milk9111/topdown/script"
	"github.com/milk9111/topdown/tilemap"
)

// newTestGame wires a Game by hand so tests skip the save file, file
// watchers, and clipboard that NewGame sets up.
func newTestGame(t *testing.T, roomName string) *Game {
	t.Helper()

	spec := &prefabs.GameSpec{
		Title:     "test",
		StartRoom: roomName,
		SpawnName: "Spawn",
		SaveSlot:  1,
		Layers:    testLayers(),
	}
	room, err := NewRoom(roomName, spec.Layers)
	if err != nil {
		t.Fatalf("NewRoom(%q): %v", roomName, err)
	}
	input := NewInput()
	player, err := NewPlayer(testPlayerSpec(), input)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	player.SetWorld(room.World(), spec.Layers.Walls)
	if pos, ok := room.Spawn(spec.SpawnName); ok {
		player.SetCenter(pos)
	}

	camera := NewCamera(baseWidth, baseHeight)
	camera.SetWorldBounds(room.Size())
	camera.SnapTo(player.Center())

	g := &Game{
		spec:       spec,
		input:      input,
		player:     player,
		room:       room,
		camera:     camera,
		transition: NewTransition(),
		saves:      save.NewManager(nil),
		inside:     map[int]*tilemap.Object{},
	}
	g.transition.OnStart = g.enterRoom
	g.scripts = script.NewRuntime(prefabs.LoadScript, script.Host{
		PlayerPos: func() (float64, float64) {
			c := g.player.Center()
			return c.X, c.Y
		},
		Warp: func(room string, x, y float64) {
			g.warpTo = &geom.Vec2{X: x, Y: y}
			g.transition.Enter(room, "")
		},
		SetFlag: g.saves.SetFlag,
		Flag:    g.saves.Flag,
		Message: g.say,
	})
	return g
}

func finishTransition(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; g.transition.Active; i++ {
		if i > 100 {
			t.Fatalf("transition never finished")
		}
		g.transition.Update()
	}
}

func TestGameExitTriggerStartsTransition(t *testing.T) {
	g := newTestGame(t, "hall")

	g.player.SetCenter(geom.Vec2{X: 352, Y: 20})
	g.updateTriggers()

	if !g.transition.Active {
		t.Fatalf("standing on the north exit did not start a transition")
	}
	if g.transition.Target != "corridor" || g.transition.Spawn != "From_South" {
		t.Fatalf("transition = %q/%q, want corridor/From_South", g.transition.Target, g.transition.Spawn)
	}

	finishTransition(t, g)

	if g.room.Name() != "corridor" {
		t.Fatalf("room = %q, want %q", g.room.Name(), "corridor")
	}
	if want := (geom.Vec2{X: 336, Y: 304}); g.player.Center() != want {
		t.Fatalf("player center = %v, want %v", g.player.Center(), want)
	}
	if len(g.inside) != 0 {
		t.Fatalf("trigger memory not cleared on room change: %d entries", len(g.inside))
	}
	if want := (geom.Vec2{X: -128, Y: 24}); g.camera.TopLeft() != want {
		t.Errorf("camera = %v, want %v", g.camera.TopLeft(), want)
	}

	st := g.saves.State()
	if st.Room != "corridor" || st.X != 336 || st.Y != 304 {
		t.Errorf("checkpoint = %q (%g, %g), want corridor (336, 304)", st.Room, st.X, st.Y)
	}
}

func TestGameTriggerEnterExitScripts(t *testing.T) {
	g := newTestGame(t, "hall")

	g.player.SetCenter(geom.Vec2{X: 192, Y: 192})
	g.updateTriggers()
	if g.message != "checkpoint reached" {
		t.Fatalf("message = %q, want %q", g.message, "checkpoint reached")
	}
	if !g.saves.Flag("checkpoint") {
		t.Fatalf("checkpoint flag not set")
	}
	if len(g.inside) != 1 {
		t.Fatalf("inside = %d triggers, want 1", len(g.inside))
	}

	// staying inside must not re-fire the enter script
	g.message = ""
	g.updateTriggers()
	if g.message != "" {
		t.Fatalf("enter script re-fired while standing still: %q", g.message)
	}

	// step off, then back on: per-script state survives the exit
	g.player.SetCenter(geom.Vec2{X: 96, Y: 192})
	g.updateTriggers()
	if len(g.inside) != 0 {
		t.Fatalf("exit not detected, still inside %d triggers", len(g.inside))
	}

	g.player.SetCenter(geom.Vec2{X: 192, Y: 192})
	g.updateTriggers()
	if g.message != "" {
		t.Fatalf("one-time message replayed on re-entry: %q", g.message)
	}
	if !g.saves.Flag("checkpoint") {
		t.Fatalf("checkpoint flag lost across re-entry")
	}
}

func TestGameInteractPrompt(t *testing.T) {
	g := newTestGame(t, "corridor")

	// in reach of the key, no press: prompt only
	g.player.SetCenter(geom.Vec2{X: 104, Y: 130})
	g.updateInteract()
	if g.prompt != "Key" {
		t.Fatalf("prompt = %q, want %q", g.prompt, "Key")
	}
	if g.message != "" || g.saves.Flag("cellar_key") {
		t.Fatalf("interact ran without the key press")
	}

	// stepping out of reach clears the prompt
	g.player.SetCenter(geom.Vec2{X: 200, Y: 200})
	g.updateInteract()
	if g.prompt != "" {
		t.Fatalf("prompt = %q after walking away, want empty", g.prompt)
	}
}

func TestGameInteractRunsScript(t *testing.T) {
	g := newTestGame(t, "corridor")

	g.player.SetCenter(geom.Vec2{X: 104, Y: 130})
	g.input.InteractPressed = true
	g.updateInteract()

	if g.message != "picked up a rusty key" {
		t.Fatalf("message = %q, want %q", g.message, "picked up a rusty key")
	}
	if !g.saves.Flag("cellar_key") {
		t.Fatalf("cellar_key flag not set")
	}

	g.updateInteract()
	if g.message != "nothing else here" {
		t.Fatalf("second interact message = %q, want %q", g.message, "nothing else here")
	}

	// without the press the prompt stays but the script does not run
	g.input.InteractPressed = false
	g.message = ""
	g.updateInteract()
	if g.message != "" {
		t.Fatalf("interact fired without the key press: %q", g.message)
	}
	if g.prompt != "Key" {
		t.Fatalf("prompt = %q, want %q", g.prompt, "Key")
	}
}

func TestGameInteractOutOfRange(t *testing.T) {
	g := newTestGame(t, "corridor")

	g.player.SetCenter(geom.Vec2{X: 200, Y: 200})
	g.input.InteractPressed = true
	g.updateInteract()

	if g.message != "" {
		t.Fatalf("interacted with something out of range: %q", g.message)
	}
	if g.prompt != "" {
		t.Fatalf("prompt = %q out of range, want empty", g.prompt)
	}
	if g.saves.Flag("cellar_key") {
		t.Fatalf("picked up the key from across the room")
	}
}

func TestGameSecretDoorWarp(t *testing.T) {
	g := newTestGame(t, "corridor")

	// without the key the door only talks
	g.player.SetCenter(geom.Vec2{X: 192, Y: 56})
	g.updateTriggers()
	if g.transition.Active {
		t.Fatalf("warped without the key")
	}
	if g.message != "the door is locked" {
		t.Fatalf("message = %q, want %q", g.message, "the door is locked")
	}

	// leave the doorway, grab the key, come back
	g.player.SetCenter(geom.Vec2{X: 192, Y: 120})
	g.updateTriggers()
	g.saves.SetFlag("cellar_key", true)

	g.player.SetCenter(geom.Vec2{X: 192, Y: 56})
	g.updateTriggers()
	if !g.transition.Active || g.transition.Target != "cellar" {
		t.Fatalf("door did not warp: active=%v target=%q", g.transition.Active, g.transition.Target)
	}
	if g.warpTo == nil || (*g.warpTo != geom.Vec2{X: 176, Y: 176}) {
		t.Fatalf("warpTo = %v, want (176, 176)", g.warpTo)
	}

	finishTransition(t, g)

	if g.room.Name() != "cellar" {
		t.Fatalf("room = %q, want %q", g.room.Name(), "cellar")
	}
	if want := (geom.Vec2{X: 176, Y: 176}); g.player.Center() != want {
		t.Fatalf("player center = %v, want %v", g.player.Center(), want)
	}
	if g.warpTo != nil {
		t.Fatalf("warpTo not cleared after the jump")
	}
	if st := g.saves.State(); st.Room != "cellar" {
		t.Errorf("checkpoint room = %q, want %q", st.Room, "cellar")
	}
}

func TestGameReloadRoomKeepsPosition(t *testing.T) {
	g := newTestGame(t, "hall")

	g.player.SetCenter(geom.Vec2{X: 192, Y: 192})
	g.updateTriggers()
	if len(g.inside) != 1 {
		t.Fatalf("inside = %d triggers, want 1", len(g.inside))
	}

	old := g.room
	g.reloadRoom()

	if g.room == old {
		t.Fatalf("reload kept the old room")
	}
	if want := (geom.Vec2{X: 192, Y: 192}); g.player.Center() != want {
		t.Fatalf("player center = %v, want %v after reload", g.player.Center(), want)
	}
	if len(g.inside) != 0 {
		t.Fatalf("trigger memory survived the reload")
	}
	if g.player.world != g.room.World() {
		t.Fatalf("player still points at the old room's world")
	}
}

func TestGameCollisionReport(t *testing.T) {
	g := newTestGame(t, "hall")
	g.player.SetCenter(geom.Vec2{X: 352, Y: 20})

	report := g.collisionReport()
	for _, want := range []string{
		"room hall player (352.0, 20.0)",
		`trigger "Exit_North"`,
		"wall tile rectangle",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestGameSayTimer(t *testing.T) {
	g := newTestGame(t, "hall")
	g.say("hello")
	if g.message != "hello" || g.messageFrames != 180 {
		t.Fatalf("say() = %q for %d frames, want hello for 180", g.message, g.messageFrames)
	}
}
