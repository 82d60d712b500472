package main

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/topdown/collision"
	"github.com/milk9111/topdown/geom"
	"github.com/milk9111/topdown/prefabs"
	"golang.org/x/image/colornames"
)

// Player is the body the input moves around the room. Movement is
// blocked by the walls layer; a blocked diagonal falls back to its
// horizontal then vertical component so the player slides along walls
// instead of sticking to them.
type Player struct {
	pos           geom.Vec2
	speed         float64
	interactRange float64
	comp          *collision.Component
	input         *Input
	world         *collision.World
	walls         string

	img *ebiten.Image
	// renderW/renderH control the drawn body size. The body wraps the
	// collider symmetrically and is independent from it.
	renderW float64
	renderH float64
}

func NewPlayer(spec *prefabs.PlayerSpec, input *Input) (*Player, error) {
	shape, err := shapeFromSpec(spec.Collider)
	if err != nil {
		return nil, err
	}

	comp := collision.NewComponent(shape)
	comp.Debug = spec.Debug.Enabled
	if spec.Debug.Color != nil {
		comp.Color = spec.Debug.Color
	}

	w, h := renderSize(shape)
	return &Player{
		speed:         spec.MoveSpeed,
		interactRange: spec.InteractRange,
		comp:          comp,
		input:         input,
		renderW:       w,
		renderH:       h,
	}, nil
}

// SetWorld points the player at the current room's collision world.
func (p *Player) SetWorld(w *collision.World, walls string) {
	p.world = w
	p.walls = walls
}

// SetCenter places the collider's center at target.
func (p *Player) SetCenter(target geom.Vec2) {
	p.pos = target.Sub(p.comp.Shape.Center(geom.Vec2{}))
}

// Center is the collider's center in world pixels.
func (p *Player) Center() geom.Vec2 {
	return p.comp.Shape.Center(p.pos)
}

func (p *Player) Position() geom.Vec2 {
	return p.pos
}

// Reconfigure applies a reloaded player spec in place, keeping the
// collider centered where it was.
func (p *Player) Reconfigure(spec *prefabs.PlayerSpec) error {
	shape, err := shapeFromSpec(spec.Collider)
	if err != nil {
		return err
	}

	center := p.Center()
	p.comp.Shape = shape
	p.comp.Debug = spec.Debug.Enabled
	if spec.Debug.Color != nil {
		p.comp.Color = spec.Debug.Color
	}
	p.speed = spec.MoveSpeed
	p.interactRange = spec.InteractRange
	p.renderW, p.renderH = renderSize(shape)
	p.img = nil
	p.SetCenter(center)
	return nil
}

// Update applies input movement against the walls layer. Diagonal
// movement is normalized so it isn't faster than moving straight.
func (p *Player) Update() {
	dx := p.input.MoveX * p.speed
	dy := p.input.MoveY * p.speed
	if dx != 0 && dy != 0 {
		dx /= math.Sqrt2
		dy /= math.Sqrt2
	}
	if dx == 0 && dy == 0 {
		return
	}

	for _, d := range [3]geom.Vec2{{X: dx, Y: dy}, {X: dx}, {Y: dy}} {
		if d.X == 0 && d.Y == 0 {
			continue
		}
		next := p.pos.Add(d)
		if !p.blocked(next) {
			p.pos = next
			return
		}
	}
}

// blocked reports whether the collider at pos hits any wall shape.
func (p *Player) blocked(pos geom.Vec2) bool {
	return len(p.world.CollidingTileObjects(p.comp, pos, p.walls, geom.Vec2{})) > 0
}

func (p *Player) Draw(screen *ebiten.Image, cam geom.Vec2) {
	if p.img == nil {
		p.img = ebiten.NewImage(int(p.renderW), int(p.renderH))
		p.img.Fill(colornames.Crimson)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(p.pos.X-cam.X, p.pos.Y-cam.Y)
	screen.DrawImage(p.img, op)

	p.comp.Draw(screen, p.pos.Sub(cam))
}

// shapeFromSpec builds the collision shape a collider spec declares.
func shapeFromSpec(cs prefabs.ColliderSpec) (collision.Shape, error) {
	var (
		shape collision.Shape
		err   error
	)
	switch cs.Shape {
	case "circle":
		shape, err = collision.NewCircle(cs.Radius)
	case "rectangle", "":
		shape, err = collision.NewRectangle(cs.Width, cs.Height)
	default:
		return collision.Shape{}, fmt.Errorf("unknown collider shape %q", cs.Shape)
	}
	if err != nil {
		return collision.Shape{}, err
	}
	return shape.WithOffset(geom.Vec2{X: cs.OffsetX, Y: cs.OffsetY}), nil
}

// renderSize wraps the collider bounds symmetrically around the
// position, falling back to the bare bounds when the offset is zero
// or negative.
func renderSize(s collision.Shape) (float64, float64) {
	b := s.Bounds(geom.Vec2{})
	w := b.X*2 + b.Width
	h := b.Y*2 + b.Height
	if w <= 0 || h <= 0 {
		return b.Width, b.Height
	}
	return w, h
}
