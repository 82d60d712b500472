package main

import (
	"math"

	"github.com/milk9111/topdown/geom"
)

// Camera keeps the view centered on a world point, clamped to the
// current room. Rooms smaller than the view are centered instead.
type Camera struct {
	pos     geom.Vec2 // view center in world pixels
	screenW float64
	screenH float64

	// smoothing factor (0..1). higher -> faster follow.
	smooth float64
	// room size in pixels, 0 means unbounded
	world geom.Vec2
}

func NewCamera(screenW, screenH float64) *Camera {
	return &Camera{
		pos:     geom.Vec2{X: screenW / 2, Y: screenH / 2},
		screenW: screenW,
		screenH: screenH,
		smooth:  0.15,
	}
}

// SetWorldBounds sets the room pixel size used for clamping.
func (c *Camera) SetWorldBounds(size geom.Vec2) {
	c.world = size
}

// Update moves the camera toward the target world coordinate. Call
// from the fixed-rate update loop to get consistent smoothing.
func (c *Camera) Update(target geom.Vec2) {
	if c.smooth <= 0 {
		c.pos = target
	} else {
		c.pos.X += (target.X - c.pos.X) * c.smooth
		c.pos.Y += (target.Y - c.pos.Y) * c.smooth
	}
	c.settle()
}

// SnapTo immediately centers the view on the given world coordinate.
// Use after a room load so the first frame is already constrained to
// the room bounds.
func (c *Camera) SnapTo(target geom.Vec2) {
	c.pos = target
	c.settle()
}

// TopLeft returns the world-space top-left of the current view.
func (c *Camera) TopLeft() geom.Vec2 {
	return geom.Vec2{X: c.pos.X - c.screenW/2, Y: c.pos.Y - c.screenH/2}
}

// settle snaps the center to whole pixels and clamps it to the world
// bounds.
func (c *Camera) settle() {
	c.pos.X = math.Round(c.pos.X)
	c.pos.Y = math.Round(c.pos.Y)

	halfW := c.screenW / 2
	halfH := c.screenH / 2
	if c.world.X > 0 {
		if c.world.X < c.screenW {
			// room narrower than the view: center on the room
			c.pos.X = c.world.X / 2
		} else {
			c.pos.X = min(max(c.pos.X, halfW), c.world.X-halfW)
		}
	}
	if c.world.Y > 0 {
		if c.world.Y < c.screenH {
			c.pos.Y = c.world.Y / 2
		} else {
			c.pos.Y = min(max(c.pos.Y, halfH), c.world.Y-halfH)
		}
	}
}
