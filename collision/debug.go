package collision

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/topdown/geom"
	"github.com/milk9111/topdown/tilemap"
	"golang.org/x/image/colornames"
)

// DrawShape strokes the outline of s at anchor onto dst.
func DrawShape(dst *ebiten.Image, s Shape, anchor geom.Vec2, clr color.Color) {
	if dst == nil {
		return
	}
	switch s.kind {
	case Circle:
		c := s.Center(anchor)
		vector.StrokeCircle(dst, float32(c.X), float32(c.Y), float32(s.r), 1, clr, false)
	default:
		r := s.rect(anchor)
		vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, clr, false)
	}
}

// DrawResolved strokes resolved geometry with its layer anchored at
// anchor. Polylines draw their actual segments, not the bounding box.
func DrawResolved(dst *ebiten.Image, r Resolved, anchor geom.Vec2, clr color.Color) {
	if dst == nil {
		return
	}
	if len(r.Polyline) > 1 {
		for i := 0; i+1 < len(r.Polyline); i++ {
			a := anchor.Add(r.Polyline[i])
			b := anchor.Add(r.Polyline[i+1])
			vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, clr, false)
		}
		return
	}
	DrawShape(dst, r.Shape, anchor, clr)
}

// Draw renders the component's outline at pos when Debug is set.
func (c *Component) Draw(dst *ebiten.Image, pos geom.Vec2) {
	if c == nil || !c.Debug {
		return
	}
	clr := c.Color
	if clr == nil {
		clr = colornames.Lime
	}
	DrawShape(dst, c.Shape, pos, clr)
}

// DrawLayer outlines every object of the named object layer.
func (w *World) DrawLayer(dst *ebiten.Image, layer string, offset geom.Vec2, clr color.Color) {
	if w == nil || dst == nil {
		return
	}
	l := w.m.Layer(layer)
	if l == nil || l.Type != tilemap.LayerTypeObject {
		return
	}
	offset = offset.Add(geom.Vec2{X: l.OffsetX, Y: l.OffsetY})
	for _, o := range l.Objects {
		if o == nil {
			continue
		}
		DrawResolved(dst, w.cache.Resolve(l.Name, o), offset, clr)
	}
}

// DrawTileLayer outlines the per-tile collision shapes of a tile
// layer, restricted to tiles overlapping view.
func (w *World) DrawTileLayer(dst *ebiten.Image, layer string, offset geom.Vec2, view geom.Rect, clr color.Color) {
	if w == nil || dst == nil {
		return
	}
	l := w.m.Layer(layer)
	if l == nil || l.Type != tilemap.LayerTypeTile {
		return
	}
	offset = offset.Add(geom.Vec2{X: l.OffsetX, Y: l.OffsetY})

	tw := float64(w.m.TileWidth)
	th := float64(w.m.TileHeight)
	minX := max(int((view.X-offset.X)/tw), 0)
	minY := max(int((view.Y-offset.Y)/th), 0)
	maxX := min(int((view.X+view.Width-offset.X)/tw), l.Width-1)
	maxY := min(int((view.Y+view.Height-offset.Y)/th), l.Height-1)

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
				DrawResolved(dst, w.resolveTileTemplate(o), anchor, clr)
			}
		}
	}
}
