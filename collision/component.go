package collision

import (
	"image/color"

	"github.com/milk9111/topdown/geom"
	"golang.org/x/image/colornames"
)

// Component attaches collision geometry to an entity. An entity owns
// at most one Component for its lifetime; entities without one simply
// never collide.
type Component struct {
	Shape Shape
	// Debug enables outline rendering for this component.
	Debug bool
	// Color is the outline color used when Debug is set.
	Color color.Color
}

func NewComponent(shape Shape) *Component {
	return &Component{
		Shape: shape,
		Color: colornames.Lime,
	}
}

// Intersects reports whether the two components overlap at the given
// world positions. Either side may be nil, which never collides.
func (c *Component) Intersects(pos geom.Vec2, other *Component, otherPos geom.Vec2) bool {
	if c == nil || other == nil {
		return false
	}
	return c.Shape.Intersects(pos, other.Shape, otherPos)
}

// Bounds returns the component's bounding box at pos, or a zero rect
// for a nil component.
func (c *Component) Bounds(pos geom.Vec2) geom.Rect {
	if c == nil {
		return geom.Rect{}
	}
	return c.Shape.Bounds(pos)
}
