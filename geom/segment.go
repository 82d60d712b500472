package geom

// ClosestPointOnSegment returns the point on segment ab nearest to p.
func ClosestPointOnSegment(a, b, p Vec2) Vec2 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = clamp(t, 0, 1)
	return a.Add(ab.Mul(t))
}

// SegmentIntersectsRect reports whether segment ab touches or crosses
// r. Grazing an edge counts.
func SegmentIntersectsRect(a, b Vec2, r Rect) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	tl := Vec2{X: r.X, Y: r.Y}
	tr := Vec2{X: r.X + r.Width, Y: r.Y}
	bl := Vec2{X: r.X, Y: r.Y + r.Height}
	br := Vec2{X: r.X + r.Width, Y: r.Y + r.Height}
	return SegmentsIntersect(a, b, tl, tr) ||
		SegmentsIntersect(a, b, tr, br) ||
		SegmentsIntersect(a, b, br, bl) ||
		SegmentsIntersect(a, b, bl, tl)
}

// SegmentsIntersect reports whether segments ab and cd share at least
// one point, endpoints included.
func SegmentsIntersect(a, b, c, d Vec2) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// collinear or endpoint-touching cases
	if d1 == 0 && onSegment(c, d, a) {
		return true
	}
	if d2 == 0 && onSegment(c, d, b) {
		return true
	}
	if d3 == 0 && onSegment(a, b, c) {
		return true
	}
	if d4 == 0 && onSegment(a, b, d) {
		return true
	}
	return false
}

// cross is the z component of (b-a) x (p-a).
func cross(a, b, p Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// onSegment assumes p is collinear with ab and checks it lies between them.
func onSegment(a, b, p Vec2) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}
