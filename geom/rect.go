package geom

// Rect is an axis-aligned rectangle. X,Y is the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (r Rect) Min() Vec2 {
	return Vec2{X: r.X, Y: r.Y}
}

func (r Rect) Max() Vec2 {
	return Vec2{X: r.X + r.Width, Y: r.Y + r.Height}
}

func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Translate returns r moved by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, Width: r.Width, Height: r.Height}
}

// Intersects reports whether r and other overlap. Edges count: two
// rects that merely touch are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Contains reports whether p lies inside r, boundary included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ContainsRect reports whether other lies entirely inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.X+other.Width <= r.X+r.Width &&
		other.Y >= r.Y && other.Y+other.Height <= r.Y+r.Height
}

// Quadrant returns one of r's four equal quarters:
// 0 top-left, 1 top-right, 2 bottom-left, 3 bottom-right.
func (r Rect) Quadrant(i int) Rect {
	hw := r.Width / 2
	hh := r.Height / 2
	q := Rect{X: r.X, Y: r.Y, Width: hw, Height: hh}
	if i&1 != 0 {
		q.X += hw
	}
	if i&2 != 0 {
		q.Y += hh
	}
	return q
}

// ClosestPoint returns the point inside r nearest to p. For points
// already inside, that is p itself.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: clamp(p.X, r.X, r.X+r.Width),
		Y: clamp(p.Y, r.Y, r.Y+r.Height),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
