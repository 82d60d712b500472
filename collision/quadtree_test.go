package collision

import (
	"math/rand"
	"testing"

	"github.com/milk9111/topdown/geom"
)

func collect(items []int) map[int]int {
	m := make(map[int]int, len(items))
	for _, v := range items {
		m[v]++
	}
	return m
}

func TestQuadtreeQueryFindsInsertedItems(t *testing.T) {
	cases := []struct {
		name   string
		bounds geom.Rect
		area   geom.Rect
		want   bool
	}{
		{"fully_inside_area", geom.NewRect(10, 10, 5, 5), geom.NewRect(0, 0, 20, 20), true},
		{"partial_overlap", geom.NewRect(18, 18, 10, 10), geom.NewRect(0, 0, 20, 20), true},
		{"touching_area_edge", geom.NewRect(20, 0, 5, 5), geom.NewRect(0, 0, 20, 20), true},
		{"outside_area", geom.NewRect(50, 50, 5, 5), geom.NewRect(0, 0, 20, 20), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			qt := NewQuadtree[int](geom.NewRect(0, 0, 100, 100), 4, 4)
			qt.Insert(1, c.bounds)
			got := qt.Query(c.area, nil)
			found := len(got) > 0
			if found != c.want {
				t.Fatalf("Query found=%v, want %v", found, c.want)
			}
		})
	}
}

func TestQuadtreeDropsOutOfBoundsItems(t *testing.T) {
	qt := NewQuadtree[int](geom.NewRect(0, 0, 100, 100), 4, 4)
	qt.Insert(1, geom.NewRect(200, 200, 10, 10))
	if n := qt.Len(); n != 0 {
		t.Fatalf("Len = %d after out-of-bounds insert, want 0", n)
	}
	if got := qt.Query(geom.NewRect(0, 0, 300, 300), nil); len(got) != 0 {
		t.Fatalf("Query returned %v for dropped item, want none", got)
	}
}

func TestQuadtreeSubdividesAtCapacity(t *testing.T) {
	// all five sit in the top-left quadrant, clear of every split line,
	// so the capacity overflow subdivides without duplicating anything
	qt := NewQuadtree[int](geom.NewRect(0, 0, 100, 100), 4, 4)
	bounds := []geom.Rect{
		geom.NewRect(1, 1, 2, 2),
		geom.NewRect(30, 1, 2, 2),
		geom.NewRect(1, 30, 2, 2),
		geom.NewRect(30, 30, 2, 2),
		geom.NewRect(10, 10, 2, 2),
	}
	for i, b := range bounds {
		qt.Insert(i, b)
	}

	if n := qt.Len(); n != 5 {
		t.Fatalf("Len = %d, want 5 (no duplication for non-straddling items)", n)
	}

	got := collect(qt.Query(geom.NewRect(0, 0, 50, 50), nil))
	for i := range bounds {
		if got[i] == 0 {
			t.Fatalf("item %d missing after subdivision: %v", i, got)
		}
	}
}

func TestQuadtreeStraddlingItemInAllOverlappingChildren(t *testing.T) {
	qt := NewQuadtree[int](geom.NewRect(0, 0, 100, 100), 1, 4)
	// sits on the center point, overlapping all four quadrants
	qt.Insert(99, geom.NewRect(45, 45, 10, 10))
	// force a split
	qt.Insert(1, geom.NewRect(1, 1, 2, 2))

	// one query area per quadrant, each overlapping the straddler
	for i, area := range []geom.Rect{
		geom.NewRect(44, 44, 4, 4),
		geom.NewRect(51, 44, 3, 3),
		geom.NewRect(44, 51, 3, 3),
		geom.NewRect(51, 51, 3, 3),
	} {
		if got := collect(qt.Query(area, nil)); got[99] == 0 {
			t.Fatalf("straddling item missing from quadrant query %d (%v): %v", i, area, got)
		}
	}

	if n := qt.Len(); n != 5 {
		t.Fatalf("Len = %d, want 5 (straddler counted once per quadrant plus the splitter)", n)
	}
}

func TestQuadtreeMaxDepthAcceptsOverflow(t *testing.T) {
	qt := NewQuadtree[int](geom.NewRect(0, 0, 100, 100), 2, 0)
	for i := 0; i < 50; i++ {
		qt.Insert(i, geom.NewRect(float64(i), float64(i), 1, 1))
	}
	if n := qt.Len(); n != 50 {
		t.Fatalf("Len = %d at depth limit, want 50", n)
	}
	got := collect(qt.Query(geom.NewRect(0, 0, 100, 100), nil))
	if len(got) != 50 {
		t.Fatalf("Query returned %d distinct items, want 50", len(got))
	}
}

func TestQuadtreeClear(t *testing.T) {
	qt := NewQuadtree[int](geom.NewRect(0, 0, 100, 100), 2, 4)
	for i := 0; i < 20; i++ {
		qt.Insert(i, geom.NewRect(float64(i*4), float64(i*4), 3, 3))
	}
	qt.Clear()
	if n := qt.Len(); n != 0 {
		t.Fatalf("Len = %d after Clear, want 0", n)
	}
	if got := qt.Query(geom.NewRect(0, 0, 100, 100), nil); len(got) != 0 {
		t.Fatalf("Query returned %v after Clear, want none", got)
	}
}

func TestQuadtreeNoFalseNegativesRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	qt := NewQuadtree[int](geom.NewRect(0, 0, 1000, 1000), 6, 5)

	bounds := make([]geom.Rect, 200)
	for i := range bounds {
		bounds[i] = geom.NewRect(rng.Float64()*950, rng.Float64()*950, rng.Float64()*50, rng.Float64()*50)
		qt.Insert(i, bounds[i])
	}

	for q := 0; q < 50; q++ {
		area := geom.NewRect(rng.Float64()*900, rng.Float64()*900, rng.Float64()*100, rng.Float64()*100)
		got := collect(qt.Query(area, nil))
		for i, b := range bounds {
			if b.Intersects(area) && got[i] == 0 {
				t.Fatalf("query %v missed item %d with bounds %v", area, i, b)
			}
		}
	}
}

func TestQuadtreeQueryCircle(t *testing.T) {
	qt := NewQuadtree[int](geom.NewRect(0, 0, 200, 200), 4, 4)
	qt.Insert(1, geom.NewRect(95, 95, 10, 10))   // center (100,100)
	qt.Insert(2, geom.NewRect(145, 95, 10, 10))  // center (150,100), distance 50
	qt.Insert(3, geom.NewRect(135, 135, 10, 10)) // center (140,140), inside square but outside circle

	t.Run("default_accessor_uses_bounds_center", func(t *testing.T) {
		got := collect(qt.QueryCircle(geom.Vec2{X: 100, Y: 100}, 50, nil, nil))
		if got[1] == 0 || got[2] == 0 {
			t.Fatalf("expected items 1 and 2 within radius, got %v", got)
		}
		// (140,140) is 56.6 away but inside the 50-radius bounding square
		if got[3] != 0 {
			t.Fatalf("item 3 should fail the distance check, got %v", got)
		}
	})

	t.Run("custom_accessor", func(t *testing.T) {
		positions := map[int]geom.Vec2{
			1: {X: 0, Y: 0},
			2: {X: 150, Y: 100},
			3: {X: 140, Y: 140},
		}
		got := collect(qt.QueryCircle(geom.Vec2{X: 150, Y: 100}, 1, func(v int) geom.Vec2 {
			return positions[v]
		}, nil))
		if len(got) != 1 || got[2] == 0 {
			t.Fatalf("expected only item 2 at its accessor position, got %v", got)
		}
	})
}

func BenchmarkQuadtreeInsert(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	bounds := make([]geom.Rect, 1024)
	for i := range bounds {
		bounds[i] = geom.NewRect(rng.Float64()*2000, rng.Float64()*2000, 16, 16)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		qt := NewQuadtree[int](geom.NewRect(0, 0, 2048, 2048), 8, 6)
		for j, r := range bounds {
			qt.Insert(j, r)
		}
	}
}

func BenchmarkQuadtreeQuery(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	qt := NewQuadtree[int](geom.NewRect(0, 0, 2048, 2048), 8, 6)
	for i := 0; i < 1024; i++ {
		qt.Insert(i, geom.NewRect(rng.Float64()*2000, rng.Float64()*2000, 16, 16))
	}
	area := geom.NewRect(512, 512, 64, 64)
	var out []int

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = qt.Query(area, out[:0])
	}
}
