package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/topdown/collision"
	"github.com/milk9111/topdown/geom"
	"github.com/milk9111/topdown/prefabs"
	"github.com/milk9111/topdown/rooms"
	"github.com/milk9111/topdown/tilemap"
)

// Room is one loaded map plus its collision world. Tile layers render
// as flat colored tiles using each layer's "color" property.
type Room struct {
	name   string
	m      *tilemap.Map
	world  *collision.World
	layers prefabs.LayersSpec

	// per-layer tile images keyed by layer ID, built on first draw
	tileImgs map[int]*ebiten.Image
}

func NewRoom(name string, layers prefabs.LayersSpec) (*Room, error) {
	m, err := rooms.Load(name)
	if err != nil {
		return nil, err
	}

	world := collision.NewWorld(m)
	world.IndexLayer(layers.Triggers)
	world.IndexLayer(layers.Objects)

	return &Room{
		name:   name,
		m:      m,
		world:  world,
		layers: layers,
	}, nil
}

func (r *Room) Name() string { return r.name }

func (r *Room) Map() *tilemap.Map { return r.m }

func (r *Room) World() *collision.World { return r.world }

// Size is the room's pixel dimensions.
func (r *Room) Size() geom.Vec2 {
	return geom.Vec2{X: r.m.PixelWidth(), Y: r.m.PixelHeight()}
}

// Spawn returns the world position of the named object, searching
// object layers in file order. Point objects return their position,
// anything else the center of its resolved shape.
func (r *Room) Spawn(name string) (geom.Vec2, bool) {
	if name == "" {
		return geom.Vec2{}, false
	}
	for _, l := range r.m.Layers {
		if l.Type != tilemap.LayerTypeObject {
			continue
		}
		for _, o := range l.Objects {
			if o == nil || o.Name != name {
				continue
			}
			offset := geom.Vec2{X: l.OffsetX, Y: l.OffsetY}
			if o.Kind() == tilemap.KindPoint {
				return geom.Vec2{X: o.X, Y: o.Y}.Add(offset), true
			}
			return r.world.Cache().Resolve(l.Name, o).Center(offset), true
		}
	}
	return geom.Vec2{}, false
}

// Draw renders the tile layers in file order, clipped to the view.
func (r *Room) Draw(screen *ebiten.Image, cam geom.Vec2) {
	if r.tileImgs == nil {
		r.buildTileImages()
	}

	tw := float64(r.m.TileWidth)
	th := float64(r.m.TileHeight)
	b := screen.Bounds()

	for _, l := range r.m.Layers {
		if l.Type != tilemap.LayerTypeTile || !l.Visible {
			continue
		}
		img := r.tileImgs[l.ID]
		if img == nil {
			continue
		}
		off := geom.Vec2{X: l.OffsetX - cam.X, Y: l.OffsetY - cam.Y}
		minX := max(int(-off.X/tw), 0)
		minY := max(int(-off.Y/th), 0)
		maxX := min(int((float64(b.Dx())-off.X)/tw), l.Width-1)
		maxY := min(int((float64(b.Dy())-off.Y)/th), l.Height-1)
		for ty := minY; ty <= maxY; ty++ {
			for tx := minX; tx <= maxX; tx++ {
				if l.TileAt(tx, ty) == 0 {
					continue
				}
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(off.X+float64(tx)*tw, off.Y+float64(ty)*th)
				screen.DrawImage(img, op)
			}
		}
	}
}

func (r *Room) buildTileImages() {
	r.tileImgs = map[int]*ebiten.Image{}
	for _, l := range r.m.Layers {
		if l.Type != tilemap.LayerTypeTile {
			continue
		}
		img := ebiten.NewImage(r.m.TileWidth, r.m.TileHeight)
		img.Fill(parseHexColor(l.Properties.String("color")))
		r.tileImgs[l.ID] = img
	}
}

// parseHexColor parses a color in the form #rrggbb. Returns the
// fallback tile color if the parse fails.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8 = 0x3c, 0x78, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
