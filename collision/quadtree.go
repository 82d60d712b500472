package collision

import "github.com/milk9111/topdown/geom"

type entry[T any] struct {
	value  T
	bounds geom.Rect
}

// Quadtree is a depth-limited spatial index over items with
// axis-aligned bounds. Items straddling a quadrant boundary are stored
// in every overlapping child, so queries can return the same item more
// than once; callers needing set semantics deduplicate themselves.
type Quadtree[T any] struct {
	bounds   geom.Rect
	maxItems int
	maxDepth int
	depth    int
	entries  []entry[T]
	children *[4]Quadtree[T]
}

// NewQuadtree builds an empty tree covering bounds. A leaf splits once
// it holds more than maxItems entries, until maxDepth levels below the
// root; leaves at maxDepth grow without limit.
func NewQuadtree[T any](bounds geom.Rect, maxItems, maxDepth int) *Quadtree[T] {
	if maxItems < 1 {
		maxItems = 1
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Quadtree[T]{bounds: bounds, maxItems: maxItems, maxDepth: maxDepth}
}

// Bounds returns the area the tree covers.
func (q *Quadtree[T]) Bounds() geom.Rect {
	return q.bounds
}

// Insert stores v under the given bounds. Items that do not touch the
// tree's bounds are dropped silently.
func (q *Quadtree[T]) Insert(v T, bounds geom.Rect) {
	if !q.bounds.Intersects(bounds) {
		return
	}
	q.insert(entry[T]{value: v, bounds: bounds})
}

func (q *Quadtree[T]) insert(e entry[T]) {
	if q.children != nil {
		for i := range q.children {
			if q.children[i].bounds.Intersects(e.bounds) {
				q.children[i].insert(e)
			}
		}
		return
	}

	q.entries = append(q.entries, e)
	if len(q.entries) > q.maxItems && q.depth < q.maxDepth {
		q.subdivide()
	}
}

// subdivide splits the leaf into four quadrants and pushes every held
// entry into each child it overlaps.
func (q *Quadtree[T]) subdivide() {
	var kids [4]Quadtree[T]
	for i := range kids {
		kids[i] = Quadtree[T]{
			bounds:   q.bounds.Quadrant(i),
			maxItems: q.maxItems,
			maxDepth: q.maxDepth,
			depth:    q.depth + 1,
		}
	}
	q.children = &kids

	entries := q.entries
	q.entries = nil
	for _, e := range entries {
		for i := range q.children {
			if q.children[i].bounds.Intersects(e.bounds) {
				q.children[i].insert(e)
			}
		}
	}
}

// Query appends to out every stored value whose bounds touch area and
// returns the result. Values stored in several quadrants appear once
// per quadrant.
func (q *Quadtree[T]) Query(area geom.Rect, out []T) []T {
	if !q.bounds.Intersects(area) {
		return out
	}
	if q.children != nil {
		for i := range q.children {
			out = q.children[i].Query(area, out)
		}
		return out
	}
	for _, e := range q.entries {
		if e.bounds.Intersects(area) {
			out = append(out, e.value)
		}
	}
	return out
}

// QueryCircle appends values whose representative point lies within
// radius of center. The broad phase walks the circle's bounding
// square, the narrow phase compares squared distances. When at is nil
// the center of each entry's stored bounds is used as its point.
func (q *Quadtree[T]) QueryCircle(center geom.Vec2, radius float64, at func(T) geom.Vec2, out []T) []T {
	square := geom.Rect{
		X:      center.X - radius,
		Y:      center.Y - radius,
		Width:  radius * 2,
		Height: radius * 2,
	}
	return q.queryCircle(square, center, radius*radius, at, out)
}

func (q *Quadtree[T]) queryCircle(square geom.Rect, center geom.Vec2, radiusSq float64, at func(T) geom.Vec2, out []T) []T {
	if !q.bounds.Intersects(square) {
		return out
	}
	if q.children != nil {
		for i := range q.children {
			out = q.children[i].queryCircle(square, center, radiusSq, at, out)
		}
		return out
	}
	for _, e := range q.entries {
		if !e.bounds.Intersects(square) {
			continue
		}
		p := e.bounds.Center()
		if at != nil {
			p = at(e.value)
		}
		if p.DistanceSq(center) <= radiusSq {
			out = append(out, e.value)
		}
	}
	return out
}

// Clear drops every entry and all children, resetting the tree to a
// single empty leaf.
func (q *Quadtree[T]) Clear() {
	q.entries = nil
	q.children = nil
}

// Len reports the number of stored entries, counting an item once per
// leaf that holds it.
func (q *Quadtree[T]) Len() int {
	n := len(q.entries)
	if q.children != nil {
		for i := range q.children {
			n += q.children[i].Len()
		}
	}
	return n
}
