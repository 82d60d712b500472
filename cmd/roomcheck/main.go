// roomcheck validates the embedded rooms without opening a window:
// every exit must point at a loadable room and an existing spawn,
// every scripted property at a loadable script, and every spawn point
// must leave the player's collider clear of the walls.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/topdown/collision"
	"github.com/milk9111/topdown/geom"
	"github.com/milk9111/topdown/prefabs"
	"github.com/milk9111/topdown/rooms"
	"github.com/milk9111/topdown/tilemap"
)

func main() {
	verbose := flag.Bool("v", false, "print passing checks too")
	flag.Parse()

	game, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Fatal(err)
	}
	player, err := prefabs.LoadPlayerSpec()
	if err != nil {
		log.Fatal(err)
	}
	comp, err := playerComponent(player)
	if err != nil {
		log.Fatal(err)
	}

	c := &checker{layers: game.Layers, comp: comp, verbose: *verbose}
	names := rooms.Names()
	for _, name := range names {
		c.checkRoom(name)
	}

	if c.failed > 0 {
		fmt.Printf("%d problem(s) across %d room(s)\n", c.failed, len(names))
		os.Exit(1)
	}
	fmt.Printf("%d room(s) ok\n", len(names))
}

func playerComponent(spec *prefabs.PlayerSpec) (*collision.Component, error) {
	var (
		shape collision.Shape
		err   error
	)
	switch spec.Collider.Shape {
	case "circle":
		shape, err = collision.NewCircle(spec.Collider.Radius)
	case "rectangle", "":
		shape, err = collision.NewRectangle(spec.Collider.Width, spec.Collider.Height)
	default:
		return nil, fmt.Errorf("unknown collider shape %q", spec.Collider.Shape)
	}
	if err != nil {
		return nil, err
	}
	shape = shape.WithOffset(geom.Vec2{X: spec.Collider.OffsetX, Y: spec.Collider.OffsetY})
	return collision.NewComponent(shape), nil
}

type checker struct {
	layers  prefabs.LayersSpec
	comp    *collision.Component
	verbose bool
	failed  int
}

func (c *checker) fail(room, format string, args ...any) {
	c.failed++
	fmt.Printf("FAIL %s: %s\n", room, fmt.Sprintf(format, args...))
}

func (c *checker) pass(room, format string, args ...any) {
	if c.verbose {
		fmt.Printf("  ok %s: %s\n", room, fmt.Sprintf(format, args...))
	}
}

func (c *checker) checkRoom(name string) {
	m, err := rooms.Load(name)
	if err != nil {
		c.fail(name, "load: %v", err)
		return
	}
	w := collision.NewWorld(m)

	if l := m.Layer(c.layers.Triggers); l != nil {
		for _, o := range l.Objects {
			if target := o.Properties.String("target"); target != "" {
				c.checkExit(name, o, target)
			}
			if s := o.Properties.String("on_enter"); s != "" {
				c.checkScript(name, o.Name, s)
			}
		}
	}
	if l := m.Layer(c.layers.Objects); l != nil {
		for _, o := range l.Objects {
			if s := o.Properties.String("on_interact"); s != "" {
				c.checkScript(name, o.Name, s)
			}
			if o.Kind() == tilemap.KindPoint {
				c.checkSpawn(name, w, o)
			}
		}
	}
}

func (c *checker) checkExit(room string, o *tilemap.Object, target string) {
	tm, err := rooms.Load(target)
	if err != nil {
		c.fail(room, "exit %q: target room %q: %v", o.Name, target, err)
		return
	}
	spawn := o.Properties.String("spawn")
	if spawn != "" && findObject(tm, spawn) == nil {
		c.fail(room, "exit %q: spawn %q not found in %q", o.Name, spawn, target)
		return
	}
	c.pass(room, "exit %q -> %s/%s", o.Name, target, spawn)
}

func (c *checker) checkScript(room, obj, script string) {
	if _, err := prefabs.LoadScript(script); err != nil {
		c.fail(room, "object %q: script %q: %v", obj, script, err)
		return
	}
	c.pass(room, "object %q runs %s", obj, script)
}

// checkSpawn drops the player's collider centered on the point and
// requires it clear of every wall tile shape.
func (c *checker) checkSpawn(room string, w *collision.World, o *tilemap.Object) {
	center := geom.Vec2{X: o.X, Y: o.Y}
	pos := center.Sub(c.comp.Shape.Center(geom.Vec2{}))
	if hits := w.CollidingTileObjects(c.comp, pos, c.layers.Walls, geom.Vec2{}); len(hits) > 0 {
		c.fail(room, "spawn %q at (%g, %g) overlaps %d wall shape(s)", o.Name, o.X, o.Y, len(hits))
		return
	}
	c.pass(room, "spawn %q clear at (%g, %g)", o.Name, o.X, o.Y)
}

func findObject(m *tilemap.Map, name string) *tilemap.Object {
	for _, l := range m.Layers {
		if l.Type != tilemap.LayerTypeObject {
			continue
		}
		for _, o := range l.Objects {
			if o != nil && o.Name == name {
				return o
			}
		}
	}
	return nil
}
