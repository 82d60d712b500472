package collision

import (
	"math"

	"github.com/milk9111/topdown/geom"
	"github.com/milk9111/topdown/tilemap"
)

const (
	// ellipseRoundTolerance is how far apart an ellipse's axes may be,
	// in pixels, while still resolving to a circle.
	ellipseRoundTolerance = 1.0
	// pointRadius is the collision radius given to point objects.
	pointRadius = 1.0
)

// Resolved is the collision view of one map object. Most kinds reduce
// to a single Shape in layer-local space; polylines keep their
// vertices and are tested segment by segment.
type Resolved struct {
	Shape    Shape
	Polyline []geom.Vec2

	polyBounds geom.Rect
}

// Bounds returns the resolved geometry's bounding box with the layer
// anchored at anchor.
func (r Resolved) Bounds(anchor geom.Vec2) geom.Rect {
	if len(r.Polyline) > 0 {
		return r.polyBounds.Translate(anchor)
	}
	return r.Shape.Bounds(anchor)
}

// Center returns the representative point used for distance queries.
func (r Resolved) Center(anchor geom.Vec2) geom.Vec2 {
	if len(r.Polyline) > 0 {
		return r.polyBounds.Translate(anchor).Center()
	}
	return r.Shape.Center(anchor)
}

// Intersects reports whether the resolved geometry, with its layer
// anchored at anchor, touches s evaluated at shapeAnchor.
func (r Resolved) Intersects(anchor geom.Vec2, s Shape, shapeAnchor geom.Vec2) bool {
	switch len(r.Polyline) {
	case 0:
		return r.Shape.Intersects(anchor, s, shapeAnchor)
	case 1:
		return s.ContainsPoint(shapeAnchor, anchor.Add(r.Polyline[0]))
	default:
		for i := 0; i+1 < len(r.Polyline); i++ {
			a := anchor.Add(r.Polyline[i])
			b := anchor.Add(r.Polyline[i+1])
			if s.IntersectsSegment(shapeAnchor, a, b) {
				return true
			}
		}
		return false
	}
}

// Cache memoizes object-to-shape resolution, keyed by the object's
// map-unique ID. Resolution is deterministic, so a cached value stays
// valid until the underlying object is edited; edits must be followed
// by an explicit Invalidate call, the cache never expires entries on
// its own.
type Cache struct {
	entries map[int]cacheEntry
}

type cacheEntry struct {
	layer    string
	resolved Resolved
}

func NewCache() *Cache {
	return &Cache{entries: make(map[int]cacheEntry)}
}

// Resolve returns the collision geometry for obj, building and
// memoizing it on first use. The layer name is recorded for
// InvalidateLayer.
func (c *Cache) Resolve(layer string, obj *tilemap.Object) Resolved {
	if obj == nil {
		return Resolved{}
	}
	if e, ok := c.entries[obj.ID]; ok {
		return e.resolved
	}
	r := resolveObject(obj)
	c.entries[obj.ID] = cacheEntry{layer: layer, resolved: r}
	return r
}

// Invalidate drops the cached resolution for obj, forcing a rebuild on
// the next Resolve.
func (c *Cache) Invalidate(obj *tilemap.Object) {
	if obj == nil {
		return
	}
	delete(c.entries, obj.ID)
}

// InvalidateLayer drops every entry resolved under the named layer.
func (c *Cache) InvalidateLayer(layer string) {
	for id, e := range c.entries {
		if e.layer == layer {
			delete(c.entries, id)
		}
	}
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	clear(c.entries)
}

// Len reports the number of cached resolutions.
func (c *Cache) Len() int {
	return len(c.entries)
}

// resolveObject maps a declared object onto collision geometry:
//
//	rectangle            -> rectangle at its box
//	ellipse, w ~ h       -> circle of the averaged radius
//	ellipse, lopsided    -> bounding rectangle
//	point                -> unit-radius circle
//	polygon              -> bounding rectangle of its vertices
//	polyline             -> per-segment tests
//	tile, text, unknown  -> rectangle at the declared box
//
// Lopsided ellipses and polygons keep their historical rectangle
// approximation; callers relying on it would break if these suddenly
// became exact.
func resolveObject(o *tilemap.Object) Resolved {
	pos := geom.Vec2{X: o.X, Y: o.Y}

	switch o.Kind() {
	case tilemap.KindEllipse:
		if math.Abs(o.Width-o.Height) <= ellipseRoundTolerance {
			return Resolved{Shape: Shape{
				kind:   Circle,
				r:      (o.Width + o.Height) / 4,
				offset: geom.Vec2{X: o.X + o.Width/2, Y: o.Y + o.Height/2},
			}}
		}
		return Resolved{Shape: boxShape(pos, o.Width, o.Height)}

	case tilemap.KindPoint:
		return Resolved{Shape: Shape{kind: Circle, r: pointRadius, offset: pos}}

	case tilemap.KindPolygon:
		bounds := pointBounds(o.Polygon)
		return Resolved{Shape: boxShape(pos.Add(bounds.Min()), bounds.Width, bounds.Height)}

	case tilemap.KindPolyline:
		verts := make([]geom.Vec2, len(o.Polyline))
		for i, p := range o.Polyline {
			verts[i] = pos.Add(geom.Vec2{X: p.X, Y: p.Y})
		}
		return Resolved{
			Polyline:   verts,
			polyBounds: pointBounds(o.Polyline).Translate(pos),
		}

	default:
		return Resolved{Shape: boxShape(pos, o.Width, o.Height)}
	}
}

// boxShape builds a rectangle shape directly. Malformed map sizes
// clamp to zero instead of erroring; the data is advisory.
func boxShape(pos geom.Vec2, w, h float64) Shape {
	return Shape{kind: Rectangle, w: math.Max(w, 0), h: math.Max(h, 0), offset: pos}
}

// pointBounds is the tight bounding box of a vertex list, in the
// owning object's local space.
func pointBounds(pts []tilemap.Point) geom.Rect {
	if len(pts) == 0 {
		return geom.Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
