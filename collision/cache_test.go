package collision

import (
	"slices"
	"testing"

	"github.com/milk9111/topdown/geom"
	"github.com/milk9111/topdown/tilemap"
)

func TestResolveShapeTable(t *testing.T) {
	cases := []struct {
		name       string
		obj        *tilemap.Object
		wantKind   Kind
		wantOffset geom.Vec2
		wantSize   [2]float64
	}{
		{
			name:       "rectangle",
			obj:        &tilemap.Object{ID: 1, X: 320, Y: 0, Width: 64, Height: 32},
			wantKind:   Rectangle,
			wantOffset: geom.Vec2{X: 320, Y: 0},
			wantSize:   [2]float64{64, 32},
		},
		{
			name:       "round_ellipse_becomes_circle",
			obj:        &tilemap.Object{ID: 2, X: 10, Y: 20, Width: 30, Height: 30, Ellipse: true},
			wantKind:   Circle,
			wantOffset: geom.Vec2{X: 25, Y: 35},
			wantSize:   [2]float64{30, 30},
		},
		{
			name:       "ellipse_within_tolerance_becomes_circle",
			obj:        &tilemap.Object{ID: 3, X: 0, Y: 0, Width: 30, Height: 31, Ellipse: true},
			wantKind:   Circle,
			wantOffset: geom.Vec2{X: 15, Y: 15.5},
			wantSize:   [2]float64{30.5, 30.5},
		},
		{
			name:       "lopsided_ellipse_keeps_box_approximation",
			obj:        &tilemap.Object{ID: 4, X: 0, Y: 0, Width: 60, Height: 20, Ellipse: true},
			wantKind:   Rectangle,
			wantOffset: geom.Vec2{},
			wantSize:   [2]float64{60, 20},
		},
		{
			name:       "point_becomes_unit_circle",
			obj:        &tilemap.Object{ID: 5, X: 5, Y: 6, Point: true},
			wantKind:   Circle,
			wantOffset: geom.Vec2{X: 5, Y: 6},
			wantSize:   [2]float64{2, 2},
		},
		{
			name: "polygon_becomes_vertex_box",
			obj: &tilemap.Object{ID: 6, X: 100, Y: 100, Polygon: []tilemap.Point{
				{X: 0, Y: 0}, {X: 10, Y: -5}, {X: 20, Y: 10},
			}},
			wantKind:   Rectangle,
			wantOffset: geom.Vec2{X: 100, Y: 95},
			wantSize:   [2]float64{20, 15},
		},
		{
			name:       "tile_object_uses_declared_box",
			obj:        &tilemap.Object{ID: 7, X: 64, Y: 32, Width: 32, Height: 32, GID: 9},
			wantKind:   Rectangle,
			wantOffset: geom.Vec2{X: 64, Y: 32},
			wantSize:   [2]float64{32, 32},
		},
		{
			name:       "text_object_uses_declared_box",
			obj:        &tilemap.Object{ID: 8, X: 4, Y: 8, Width: 120, Height: 16, Text: &tilemap.Text{Text: "hello"}},
			wantKind:   Rectangle,
			wantOffset: geom.Vec2{X: 4, Y: 8},
			wantSize:   [2]float64{120, 16},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := NewCache().Resolve("Objects", c.obj)
			if len(r.Polyline) != 0 {
				t.Fatalf("unexpected polyline resolution: %v", r.Polyline)
			}
			if got := r.Shape.Kind(); got != c.wantKind {
				t.Fatalf("kind = %v, want %v", got, c.wantKind)
			}
			if got := r.Shape.Offset(); got != c.wantOffset {
				t.Fatalf("offset = %v, want %v", got, c.wantOffset)
			}
			w, h := r.Shape.Size()
			if w != c.wantSize[0] || h != c.wantSize[1] {
				t.Fatalf("size = %gx%g, want %gx%g", w, h, c.wantSize[0], c.wantSize[1])
			}
		})
	}
}

func TestResolvePolyline(t *testing.T) {
	cache := NewCache()
	obj := &tilemap.Object{ID: 10, X: 10, Y: 10, Polyline: []tilemap.Point{
		{X: 0, Y: 0}, {X: 40, Y: 0},
	}}

	r := cache.Resolve("Objects", obj)
	wantVerts := []geom.Vec2{{X: 10, Y: 10}, {X: 50, Y: 10}}
	if !slices.Equal(r.Polyline, wantVerts) {
		t.Fatalf("polyline = %v, want %v", r.Polyline, wantVerts)
	}

	probe := mustCircle(t, 5)
	cases := []struct {
		name string
		at   geom.Vec2
		want bool
	}{
		{"circle_near_segment", geom.Vec2{X: 30, Y: 14}, true},
		{"circle_touching_segment", geom.Vec2{X: 30, Y: 15}, true},
		{"circle_past_segment", geom.Vec2{X: 30, Y: 15.5}, false},
		{"circle_beyond_endpoint", geom.Vec2{X: 60, Y: 10}, false},
		{"circle_wrapping_endpoint", geom.Vec2{X: 53, Y: 10}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := r.Intersects(geom.Vec2{}, probe, c.at); got != c.want {
				t.Fatalf("Intersects at %v = %v, want %v", c.at, got, c.want)
			}
		})
	}

	t.Run("rect_probe_crossing", func(t *testing.T) {
		box := mustRect(t, 10, 10)
		if !r.Intersects(geom.Vec2{}, box, geom.Vec2{X: 20, Y: 5}) {
			t.Fatalf("rect spanning the segment should intersect")
		}
		if r.Intersects(geom.Vec2{}, box, geom.Vec2{X: 20, Y: 20.5}) {
			t.Fatalf("rect below the segment should not intersect")
		}
	})
}

func TestCacheIdempotentUntilInvalidated(t *testing.T) {
	cache := NewCache()
	obj := &tilemap.Object{ID: 42, X: 10, Y: 10, Width: 20, Height: 20}

	first := cache.Resolve("Objects", obj)
	second := cache.Resolve("Objects", obj)
	if first.Shape != second.Shape {
		t.Fatalf("repeated Resolve returned different shapes: %v vs %v", first.Shape, second.Shape)
	}

	// the cache must not notice external edits on its own
	obj.Width = 50
	stale := cache.Resolve("Objects", obj)
	if stale.Shape != first.Shape {
		t.Fatalf("Resolve rebuilt without Invalidate: %v", stale.Shape)
	}

	cache.Invalidate(obj)
	fresh := cache.Resolve("Objects", obj)
	if w, _ := fresh.Shape.Size(); w != 50 {
		t.Fatalf("post-invalidate width = %g, want 50", w)
	}
}

func TestCacheInvalidateLayerScope(t *testing.T) {
	cache := NewCache()
	a := &tilemap.Object{ID: 1, Width: 10, Height: 10}
	b := &tilemap.Object{ID: 2, Width: 10, Height: 10}
	cache.Resolve("Triggers", a)
	cache.Resolve("Walls", b)

	a.Width = 99
	b.Width = 99
	cache.InvalidateLayer("Triggers")

	if w, _ := cache.Resolve("Triggers", a).Shape.Size(); w != 99 {
		t.Fatalf("invalidated layer should re-resolve, got width %g", w)
	}
	if w, _ := cache.Resolve("Walls", b).Shape.Size(); w != 10 {
		t.Fatalf("untouched layer should stay cached, got width %g", w)
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	cache := NewCache()
	objs := []*tilemap.Object{
		{ID: 1, Width: 5, Height: 5},
		{ID: 2, Width: 5, Height: 5},
		{ID: 3, Width: 5, Height: 5},
	}
	for _, o := range objs {
		cache.Resolve("Objects", o)
	}
	if n := cache.Len(); n != 3 {
		t.Fatalf("Len = %d, want 3", n)
	}

	cache.InvalidateAll()
	if n := cache.Len(); n != 0 {
		t.Fatalf("Len = %d after InvalidateAll, want 0", n)
	}

	objs[0].Height = 77
	if _, h := cache.Resolve("Objects", objs[0]).Shape.Size(); h != 77 {
		t.Fatalf("resolve after InvalidateAll should see new geometry, got %g", h)
	}
}
