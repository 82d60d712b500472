package collision

import (
	"math"

	"github.com/milk9111/topdown/geom"
	"github.com/milk9111/topdown/tilemap"
)

const (
	indexMaxItems = 8
	indexMaxDepth = 5
)

// World answers named-object collision queries against one loaded
// map. It owns the shape cache and optional per-layer spatial indexes;
// a room swap builds a fresh World rather than mutating this one.
//
// World is not safe for concurrent use. The game update loop is its
// only caller.
type World struct {
	m     *tilemap.Map
	cache *Cache
	index map[string]*Quadtree[*tilemap.Object]

	// tile collision templates are shared between placements, so they
	// are memoized by pointer rather than through the ID cache.
	tileResolved map[*tilemap.Object]Resolved
}

func NewWorld(m *tilemap.Map) *World {
	return &World{
		m:            m,
		cache:        NewCache(),
		index:        make(map[string]*Quadtree[*tilemap.Object]),
		tileResolved: make(map[*tilemap.Object]Resolved),
	}
}

func (w *World) Map() *tilemap.Map {
	return w.m
}

func (w *World) Cache() *Cache {
	return w.cache
}

// IndexLayer builds a quadtree over the named object layer so queries
// against it skip objects far from the entity. Layers left unindexed
// are scanned linearly; results are identical either way.
func (w *World) IndexLayer(name string) {
	if w == nil {
		return
	}
	l := w.m.Layer(name)
	if l == nil || l.Type != tilemap.LayerTypeObject {
		return
	}

	qt := NewQuadtree[*tilemap.Object](
		geom.Rect{Width: w.m.PixelWidth(), Height: w.m.PixelHeight()},
		indexMaxItems,
		indexMaxDepth,
	)
	for _, o := range l.Objects {
		if o == nil {
			continue
		}
		r := w.cache.Resolve(l.Name, o)
		qt.Insert(o, r.Bounds(geom.Vec2{}))
	}
	w.index[name] = qt
}

// FirstCollidingObject returns the first object of the named layer
// that the component overlaps at pos, in the layer's declaration
// order, or nil. A non-empty name restricts the search to objects
// with that exact name. offset anchors the layer in world space. A
// nil component never collides.
func (w *World) FirstCollidingObject(c *Component, pos geom.Vec2, layer, name string, offset geom.Vec2) *tilemap.Object {
	var first *tilemap.Object
	w.eachCollidingObject(c, pos, layer, name, offset, func(o *tilemap.Object) bool {
		first = o
		return false
	})
	return first
}

// CollidingObjects returns every object of the named layer the
// component overlaps at pos, in declaration order. Its first element
// always agrees with FirstCollidingObject under the same arguments.
func (w *World) CollidingObjects(c *Component, pos geom.Vec2, layer, name string, offset geom.Vec2) []*tilemap.Object {
	var out []*tilemap.Object
	w.eachCollidingObject(c, pos, layer, name, offset, func(o *tilemap.Object) bool {
		out = append(out, o)
		return true
	})
	return out
}

// eachCollidingObject runs the cheap-to-expensive test pipeline over
// the layer's objects in declaration order: name filter, bounding-box
// rejection, exact shape test. An index, when present, only prunes the
// candidate set; iteration order stays the layer's own.
func (w *World) eachCollidingObject(c *Component, pos geom.Vec2, layer, name string, offset geom.Vec2, fn func(*tilemap.Object) bool) {
	if w == nil || c == nil {
		return
	}
	l := w.m.Layer(layer)
	if l == nil || l.Type != tilemap.LayerTypeObject {
		return
	}
	offset = offset.Add(geom.Vec2{X: l.OffsetX, Y: l.OffsetY})

	entityBounds := c.Shape.Bounds(pos)

	var candidates map[int]struct{}
	if qt, ok := w.index[layer]; ok {
		local := entityBounds.Translate(offset.Mul(-1))
		hits := qt.Query(local, nil)
		candidates = make(map[int]struct{}, len(hits))
		for _, o := range hits {
			candidates[o.ID] = struct{}{}
		}
	}

	for _, o := range l.Objects {
		if o == nil {
			continue
		}
		if candidates != nil {
			if _, ok := candidates[o.ID]; !ok {
				continue
			}
		}
		if name != "" && o.Name != name {
			continue
		}
		r := w.cache.Resolve(l.Name, o)
		if !entityBounds.Intersects(r.Bounds(offset)) {
			continue
		}
		if !r.Intersects(offset, c.Shape, pos) {
			continue
		}
		if !fn(o) {
			return
		}
	}
}

// ObjectsNear returns objects of the named layer whose resolved
// center lies within radius of center, in declaration order. offset
// anchors the layer in world space.
func (w *World) ObjectsNear(center geom.Vec2, radius float64, layer string, offset geom.Vec2) []*tilemap.Object {
	if w == nil || radius < 0 {
		return nil
	}
	l := w.m.Layer(layer)
	if l == nil || l.Type != tilemap.LayerTypeObject {
		return nil
	}
	offset = offset.Add(geom.Vec2{X: l.OffsetX, Y: l.OffsetY})

	var candidates map[int]struct{}
	if qt, ok := w.index[layer]; ok {
		local := center.Sub(offset)
		hits := qt.QueryCircle(local, radius, func(o *tilemap.Object) geom.Vec2 {
			return w.cache.Resolve(l.Name, o).Center(geom.Vec2{})
		}, nil)
		candidates = make(map[int]struct{}, len(hits))
		for _, o := range hits {
			candidates[o.ID] = struct{}{}
		}
	}

	radiusSq := radius * radius
	var out []*tilemap.Object
	for _, o := range l.Objects {
		if o == nil {
			continue
		}
		if candidates != nil {
			if _, ok := candidates[o.ID]; !ok {
				continue
			}
		}
		r := w.cache.Resolve(l.Name, o)
		if r.Center(offset).DistanceSq(center) <= radiusSq {
			out = append(out, o)
		}
	}
	return out
}

// CollidingTileObjects tests the component against the per-tile
// collision shapes of the named tile layer. Each returned object is a
// tileset template; its world position is the tile it was matched at.
func (w *World) CollidingTileObjects(c *Component, pos geom.Vec2, layer string, offset geom.Vec2) []*tilemap.Object {
	if w == nil || c == nil {
		return nil
	}
	l := w.m.Layer(layer)
	if l == nil || l.Type != tilemap.LayerTypeTile {
		return nil
	}
	offset = offset.Add(geom.Vec2{X: l.OffsetX, Y: l.OffsetY})

	b := c.Shape.Bounds(pos)
	tw := float64(w.m.TileWidth)
	th := float64(w.m.TileHeight)

	// pad by one tile around the bounds, like the entity could slide
	// into a neighbor this frame
	minX := int(math.Floor((b.X-offset.X)/tw)) - 1
	minY := int(math.Floor((b.Y-offset.Y)/th)) - 1
	maxX := int(math.Floor((b.X+b.Width-offset.X)/tw)) + 1
	maxY := int(math.Floor((b.Y+b.Height-offset.Y)/th)) + 1

	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, l.Width-1)
	maxY = min(maxY, l.Height-1)

	var out []*tilemap.Object
	for ty := minY; ty <= maxY; ty++ {
		for tx := minX; tx <= maxX; tx++ {
			objs := w.m.TileObjectsAt(layer, tx, ty)
			if len(objs) == 0 {
				continue
			}
			anchor := geom.Vec2{
				X: offset.X + float64(tx)*tw,
				Y: offset.Y + float64(ty)*th,
			}
			for _, o := range objs {
				if o == nil {
					continue
				}
				r := w.resolveTileTemplate(o)
				if !b.Intersects(r.Bounds(anchor)) {
					continue
				}
				if r.Intersects(anchor, c.Shape, pos) {
					out = append(out, o)
				}
			}
		}
	}
	return out
}

func (w *World) resolveTileTemplate(o *tilemap.Object) Resolved {
	if r, ok := w.tileResolved[o]; ok {
		return r
	}
	r := resolveObject(o)
	w.tileResolved[o] = r
	return r
}
