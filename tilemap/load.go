package tilemap

import (
	"encoding/json"
	"fmt"
	"os"
)

// Tiled sets these high bits on a gid when a placed tile is flipped.
// Collision ignores orientation, so they are stripped at load time.
const (
	flipHorizontal = 0x80000000
	flipVertical   = 0x40000000
	flipDiagonal   = 0x20000000
	flipMask       = flipHorizontal | flipVertical | flipDiagonal
)

// Load reads and parses a Tiled JSON map from path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tilemap: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tilemap: %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a Tiled JSON export and normalizes it for querying:
// flip bits are stripped from tile data, tile objects are re-anchored
// to their top-left corner, and the layer and tileset lookup tables
// are built.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("tilemap: parse: %w", err)
	}

	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("tilemap: invalid map dimensions: %dx%d", m.Width, m.Height)
	}
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil, fmt.Errorf("tilemap: invalid tile size: %dx%d", m.TileWidth, m.TileHeight)
	}

	m.byName = make(map[string]*Layer, len(m.Layers))
	for _, l := range m.Layers {
		if l == nil {
			continue
		}
		if _, ok := m.byName[l.Name]; !ok {
			m.byName[l.Name] = l
		}

		switch l.Type {
		case LayerTypeTile:
			for i, gid := range l.Data {
				l.Data[i] = gid &^ flipMask
			}
		case LayerTypeObject:
			for _, o := range l.Objects {
				// Tiled anchors placed tile objects at their
				// bottom-left corner; everything else is top-left.
				if o != nil && o.GID != 0 {
					o.GID &^= flipMask
					o.Y -= o.Height
				}
			}
		}
	}

	m.tileShapes = make(map[uint32][]*Object)
	for _, ts := range m.Tilesets {
		if ts == nil {
			continue
		}
		for _, t := range ts.Tiles {
			if t.ObjectGroup == nil || len(t.ObjectGroup.Objects) == 0 {
				continue
			}
			m.tileShapes[ts.FirstGID+t.ID] = t.ObjectGroup.Objects
		}
	}

	return &m, nil
}
