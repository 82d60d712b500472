package collision

import (
	"fmt"
	"math"

	"github.com/milk9111/topdown/geom"
)

// Kind identifies the concrete geometry of a Shape.
type Kind int

const (
	Rectangle Kind = iota
	Circle
)

func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Circle:
		return "circle"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Shape is collision geometry relative to an owning entity's anchor.
// It carries no world position of its own; every test takes the anchor
// the shape should be evaluated at. A rectangle's offset is its
// top-left corner, a circle's offset is its center.
type Shape struct {
	kind   Kind
	w, h   float64
	r      float64
	offset geom.Vec2
}

// NewRectangle builds a rectangle shape. Width and height must be
// non-negative; a zero-area rectangle only collides with coincident
// geometry.
func NewRectangle(w, h float64) (Shape, error) {
	if w < 0 || h < 0 {
		return Shape{}, fmt.Errorf("collision: rectangle size %gx%g must be non-negative", w, h)
	}
	return Shape{kind: Rectangle, w: w, h: h}, nil
}

// NewCircle builds a circle shape. The radius must be non-negative; a
// zero-radius circle behaves as a point.
func NewCircle(r float64) (Shape, error) {
	if r < 0 {
		return Shape{}, fmt.Errorf("collision: circle radius %g must be non-negative", r)
	}
	return Shape{kind: Circle, r: r}, nil
}

// WithOffset returns a copy of s positioned at off relative to the
// owning entity's anchor.
func (s Shape) WithOffset(off geom.Vec2) Shape {
	s.offset = off
	return s
}

func (s Shape) Kind() Kind {
	return s.kind
}

func (s Shape) Offset() geom.Vec2 {
	return s.offset
}

// Size returns the rectangle's width and height. For circles both
// values are the diameter.
func (s Shape) Size() (w, h float64) {
	if s.kind == Circle {
		return s.r * 2, s.r * 2
	}
	return s.w, s.h
}

func (s Shape) Radius() float64 {
	return s.r
}

// Center returns the shape's center when evaluated at anchor.
func (s Shape) Center(anchor geom.Vec2) geom.Vec2 {
	switch s.kind {
	case Circle:
		return anchor.Add(s.offset)
	default:
		return geom.Vec2{
			X: anchor.X + s.offset.X + s.w/2,
			Y: anchor.Y + s.offset.Y + s.h/2,
		}
	}
}

// Bounds returns the axis-aligned bounding box of s at anchor. Circle
// extents are rounded up to whole pixels, so the box may be slightly
// larger than the circle itself; exact tests always use the true
// radius.
func (s Shape) Bounds(anchor geom.Vec2) geom.Rect {
	switch s.kind {
	case Circle:
		ext := math.Ceil(s.r)
		c := s.Center(anchor)
		return geom.Rect{X: c.X - ext, Y: c.Y - ext, Width: ext * 2, Height: ext * 2}
	default:
		return s.rect(anchor)
	}
}

// Intersects reports whether s at anchor overlaps other at
// otherAnchor. Touching counts as overlap for every kind pair, and
// the result is symmetric.
func (s Shape) Intersects(anchor geom.Vec2, other Shape, otherAnchor geom.Vec2) bool {
	switch {
	case s.kind == Rectangle && other.kind == Rectangle:
		return s.rect(anchor).Intersects(other.rect(otherAnchor))
	case s.kind == Circle && other.kind == Circle:
		sum := s.r + other.r
		return s.Center(anchor).DistanceSq(other.Center(otherAnchor)) <= sum*sum
	case s.kind == Rectangle && other.kind == Circle:
		return circleTouchesRect(other.Center(otherAnchor), other.r, s.rect(anchor))
	default:
		return circleTouchesRect(s.Center(anchor), s.r, other.rect(otherAnchor))
	}
}

// IntersectsRect is the rectangle-only specialization used by the
// broad phase.
func (s Shape) IntersectsRect(anchor geom.Vec2, r geom.Rect) bool {
	switch s.kind {
	case Circle:
		return circleTouchesRect(s.Center(anchor), s.r, r)
	default:
		return s.rect(anchor).Intersects(r)
	}
}

// IntersectsSegment reports whether segment ab touches s at anchor.
func (s Shape) IntersectsSegment(anchor, a, b geom.Vec2) bool {
	switch s.kind {
	case Circle:
		c := s.Center(anchor)
		return geom.ClosestPointOnSegment(a, b, c).DistanceSq(c) <= s.r*s.r
	default:
		return geom.SegmentIntersectsRect(a, b, s.rect(anchor))
	}
}

// ContainsPoint reports whether p lies inside s at anchor, boundary
// included.
func (s Shape) ContainsPoint(anchor, p geom.Vec2) bool {
	switch s.kind {
	case Circle:
		return s.Center(anchor).DistanceSq(p) <= s.r*s.r
	default:
		return s.rect(anchor).Contains(p)
	}
}

func (s Shape) rect(anchor geom.Vec2) geom.Rect {
	return geom.Rect{
		X:      anchor.X + s.offset.X,
		Y:      anchor.Y + s.offset.Y,
		Width:  s.w,
		Height: s.h,
	}
}

// circleTouchesRect clamps the circle's center into the rect and
// compares the squared distance against the squared radius.
func circleTouchesRect(center geom.Vec2, radius float64, r geom.Rect) bool {
	return r.ClosestPoint(center).DistanceSq(center) <= radius*radius
}
