package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/topdown/collision"
	"github.com/milk9111/topdown/geom"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

// drawDebug overlays the collision geometry of the current room.
func (g *Game) drawDebug(screen *ebiten.Image, cam geom.Vec2) {
	w := g.room.World()
	offset := cam.Mul(-1)
	view := geom.Rect{Width: baseWidth, Height: baseHeight}

	w.DrawTileLayer(screen, g.spec.Layers.Walls, offset, view, colornames.Orangered)
	w.DrawLayer(screen, g.spec.Layers.Triggers, offset, colornames.Gold)
	w.DrawLayer(screen, g.spec.Layers.Objects, offset, colornames.Deepskyblue)

	clr := g.player.comp.Color
	if clr == nil {
		clr = colornames.Lime
	}
	collision.DrawShape(screen, g.player.comp.Shape, g.player.pos.Sub(cam), clr)

	c := g.player.Center()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("room: %s  center: (%.1f, %.1f)  cached: %d", g.room.Name(), c.X, c.Y, w.Cache().Len()), 0, 20)
}

// copyReport puts a plain-text dump of the player's current collision
// contacts on the clipboard.
func (g *Game) copyReport() {
	if !g.clipboardOK {
		log.Printf("clipboard unavailable")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.collisionReport()))
	log.Printf("copied collision report")
}

func (g *Game) collisionReport() string {
	var b strings.Builder
	w := g.room.World()
	c := g.player.Center()
	fmt.Fprintf(&b, "room %s player (%.1f, %.1f)\n", g.room.Name(), c.X, c.Y)

	for _, o := range w.CollidingTileObjects(g.player.comp, g.player.pos, g.spec.Layers.Walls, geom.Vec2{}) {
		fmt.Fprintf(&b, "wall tile %s\n", o.Kind())
	}
	for _, o := range w.CollidingObjects(g.player.comp, g.player.pos, g.spec.Layers.Triggers, "", geom.Vec2{}) {
		fmt.Fprintf(&b, "trigger %q #%d %s\n", o.Name, o.ID, o.Kind())
	}
	for _, o := range w.ObjectsNear(c, g.player.interactRange, g.spec.Layers.Objects, geom.Vec2{}) {
		fmt.Fprintf(&b, "near %q #%d %s\n", o.Name, o.ID, o.Kind())
	}
	return b.String()
}
