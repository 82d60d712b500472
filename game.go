package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/topdown/geom"
	"github.com/milk9111/topdown/prefabs"
	"github.com/milk9111/topdown/save"
	"github.com/milk9111/topdown/script"
	"github.com/milk9111/topdown/tilemap"
	"github.com/quasilyte/gdata/v2"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 640
	baseHeight = 360
)

type Game struct {
	frames int
	debug  bool
	paused bool

	spec   *prefabs.GameSpec
	input  *Input
	player *Player
	room   *Room
	camera *Camera

	transition *Transition
	pauseUI    *ebitenui.UI
	scripts    *script.Runtime
	saves      *save.Manager

	specWatch *prefabs.Watcher
	mapWatch  *tilemap.Watcher

	// triggers the player is currently inside, keyed by object ID
	inside map[int]*tilemap.Object
	// name of the interactable currently in reach, for the HUD prompt
	prompt string
	// pending warp destination set by scripts, consumed on room entry
	warpTo *geom.Vec2

	message       string
	messageFrames int
	clipboardOK   bool
}

func NewGame(roomName string, debug bool) (*Game, error) {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		return nil, err
	}
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, err
	}

	data, err := gdata.Open(gdata.Config{AppName: "topdown"})
	if err != nil {
		log.Printf("save data unavailable: %v", err)
	}
	saves := save.NewManager(data)
	if err := saves.Load(spec.SaveSlot); err != nil {
		log.Printf("load slot %d: %v", spec.SaveSlot, err)
	}

	// -room beats the save file, the save file beats game.yaml
	st := saves.State()
	start := roomName
	if start == "" {
		start = st.Room
	}
	if start == "" {
		start = spec.StartRoom
	}

	room, err := NewRoom(start, spec.Layers)
	if err != nil {
		return nil, err
	}

	input := NewInput()
	player, err := NewPlayer(playerSpec, input)
	if err != nil {
		return nil, err
	}
	player.SetWorld(room.World(), spec.Layers.Walls)
	if roomName == "" && st.Room == start && (st.X != 0 || st.Y != 0) {
		player.SetCenter(geom.Vec2{X: st.X, Y: st.Y})
	} else if pos, ok := room.Spawn(spec.SpawnName); ok {
		player.SetCenter(pos)
	}

	camera := NewCamera(baseWidth, baseHeight)
	camera.SetWorldBounds(room.Size())
	camera.SnapTo(player.Center())

	g := &Game{
		debug:      debug,
		spec:       spec,
		input:      input,
		player:     player,
		room:       room,
		camera:     camera,
		transition: NewTransition(),
		saves:      saves,
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

	if w, err := prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts")); err != nil {
		log.Printf("prefab watch disabled: %v", err)
	} else {
		g.specWatch = w
	}
	if w, err := tilemap.NewWatcher("rooms"); err != nil {
		log.Printf("room watch disabled: %v", err)
	} else {
		g.mapWatch = w
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	return g, nil
}

// Title is the window title from game.yaml.
func (g *Game) Title() string {
	if g.spec.Title == "" {
		return "topdown"
	}
	return g.spec.Title
}

func (g *Game) Update() error {
	g.frames++
	g.input.Update()

	if g.transition.Update() {
		return nil
	}

	if g.input.PausePressed {
		g.paused = !g.paused
		if g.paused && g.pauseUI == nil {
			g.pauseUI = NewPauseUI(g)
		}
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if g.input.DebugPressed {
		g.debug = !g.debug
	}
	if g.input.ReloadPressed {
		g.reloadAll()
	}
	if g.input.CopyPressed {
		g.copyReport()
	}
	g.drainWatchers()

	g.player.Update()
	g.camera.Update(g.player.Center())
	g.updateTriggers()
	g.updateInteract()

	if g.messageFrames > 0 {
		g.messageFrames--
	}
	return nil
}

// updateTriggers fires enter and exit events for the trigger layer.
// Overlap uses the same inclusive test as every other query, so a
// trigger fires the moment the player touches its edge.
func (g *Game) updateTriggers() {
	w := g.room.World()
	hits := w.CollidingObjects(g.player.comp, g.player.pos, g.spec.Layers.Triggers, "", geom.Vec2{})

	cur := make(map[int]struct{}, len(hits))
	for _, o := range hits {
		cur[o.ID] = struct{}{}
	}
	for id, o := range g.inside {
		if _, ok := cur[id]; ok {
			continue
		}
		delete(g.inside, id)
		if name := o.Properties.String("on_enter"); name != "" {
			if err := g.scripts.RunExit(name, o.Name); err != nil {
				log.Printf("trigger %s: %v", o.Name, err)
			}
		}
	}

	for _, o := range hits {
		if _, ok := g.inside[o.ID]; ok {
			continue
		}
		g.inside[o.ID] = o

		if target := o.Properties.String("target"); target != "" {
			g.transition.Enter(target, o.Properties.String("spawn"))
			return
		}
		if name := o.Properties.String("on_enter"); name != "" {
			if err := g.scripts.RunEnter(name, o.Name); err != nil {
				log.Printf("trigger %s: %v", o.Name, err)
			}
			if g.transition.Active {
				// the script warped us
				return
			}
		}
	}
}

// updateInteract keeps the HUD prompt pointed at the first scriptable
// object in reach and runs its on_interact script when the key fires.
func (g *Game) updateInteract() {
	g.prompt = ""
	w := g.room.World()
	near := w.ObjectsNear(g.player.Center(), g.player.interactRange, g.spec.Layers.Objects, geom.Vec2{})

	var hit *tilemap.Object
	for _, o := range near {
		if o.Properties.String("on_interact") != "" {
			hit = o
			break
		}
	}
	if hit == nil {
		return
	}
	g.prompt = hit.Name

	if !g.input.InteractPressed {
		return
	}
	if err := g.scripts.RunEnter(hit.Properties.String("on_interact"), hit.Name); err != nil {
		log.Printf("interact %s: %v", hit.Name, err)
	}
}

// enterRoom swaps rooms in the middle of a transition, while the
// screen is fully black.
func (g *Game) enterRoom(target, spawn string) {
	room, err := NewRoom(target, g.spec.Layers)
	if err != nil {
		log.Printf("enter room %s: %v", target, err)
		g.warpTo = nil
		return
	}

	g.room = room
	g.player.SetWorld(room.World(), g.spec.Layers.Walls)
	clear(g.inside)

	if g.warpTo != nil {
		g.player.SetCenter(*g.warpTo)
		g.warpTo = nil
	} else {
		pos, ok := room.Spawn(spawn)
		if !ok {
			pos, ok = room.Spawn(g.spec.SpawnName)
		}
		if ok {
			g.player.SetCenter(pos)
		}
	}

	g.camera.SetWorldBounds(room.Size())
	g.camera.SnapTo(g.player.Center())

	c := g.player.Center()
	g.saves.SetCheckpoint(target, c.X, c.Y)
	if err := g.saves.Save(g.spec.SaveSlot); err != nil {
		log.Printf("save slot %d: %v", g.spec.SaveSlot, err)
	}
}

// reloadAll rebuilds everything that can be edited at runtime: specs,
// scripts, and the current room.
func (g *Game) reloadAll() {
	g.scripts.InvalidateAll()
	if spec, err := prefabs.LoadGameSpec(); err != nil {
		log.Printf("reload game.yaml: %v", err)
	} else {
		g.spec = spec
	}
	if spec, err := prefabs.LoadPlayerSpec(); err != nil {
		log.Printf("reload player.yaml: %v", err)
	} else if err := g.player.Reconfigure(spec); err != nil {
		log.Printf("reload player.yaml: %v", err)
	}
	g.reloadRoom()
}

// reloadRoom re-reads the current room from disk, keeping the player
// where they are.
func (g *Game) reloadRoom() {
	room, err := NewRoom(g.room.Name(), g.spec.Layers)
	if err != nil {
		log.Printf("reload room %s: %v", g.room.Name(), err)
		return
	}
	g.room = room
	g.player.SetWorld(room.World(), g.spec.Layers.Walls)
	clear(g.inside)
	g.camera.SetWorldBounds(room.Size())
	log.Printf("reloaded room %s", room.Name())
}

// drainWatchers applies pending file events without blocking the
// update loop.
func (g *Game) drainWatchers() {
	if g.specWatch != nil {
	specs:
		for {
			select {
			case path, ok := <-g.specWatch.Events:
				if !ok {
					g.specWatch = nil
					break specs
				}
				g.reloadPrefab(path)
			case err, ok := <-g.specWatch.Errors:
				if !ok {
					g.specWatch = nil
					break specs
				}
				log.Printf("prefab watch: %v", err)
			default:
				break specs
			}
		}
	}
	if g.mapWatch != nil {
	maps:
		for {
			select {
			case path, ok := <-g.mapWatch.Events:
				if !ok {
					g.mapWatch = nil
					break maps
				}
				g.reloadMap(path)
			case err, ok := <-g.mapWatch.Errors:
				if !ok {
					g.mapWatch = nil
					break maps
				}
				log.Printf("room watch: %v", err)
			default:
				break maps
			}
		}
	}
}

func (g *Game) reloadPrefab(path string) {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, ".tengo"):
		g.scripts.Invalidate(base)
		log.Printf("reloaded script %s", base)
	case base == "player.yaml":
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			log.Printf("reload player.yaml: %v", err)
			return
		}
		if err := g.player.Reconfigure(spec); err != nil {
			log.Printf("reload player.yaml: %v", err)
			return
		}
		log.Printf("reloaded player.yaml")
	case base == "game.yaml":
		spec, err := prefabs.LoadGameSpec()
		if err != nil {
			log.Printf("reload game.yaml: %v", err)
			return
		}
		g.spec = spec
		log.Printf("reloaded game.yaml")
	}
}

func (g *Game) reloadMap(path string) {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	if name != strings.TrimSuffix(g.room.Name(), ".json") {
		return
	}
	g.reloadRoom()
}

func (g *Game) say(text string) {
	g.message = text
	g.messageFrames = 180
}

func (g *Game) Draw(screen *ebiten.Image) {
	cam := g.camera.TopLeft()
	g.room.Draw(screen, cam)
	g.player.Draw(screen, cam)

	if g.debug {
		g.drawDebug(screen, cam)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))
	if g.messageFrames > 0 && g.message != "" {
		ebitenutil.DebugPrintAt(screen, g.message, 8, baseHeight-20)
	} else if g.prompt != "" {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("[E] %s", g.prompt), 8, baseHeight-20)
	}

	g.transition.Draw(screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
