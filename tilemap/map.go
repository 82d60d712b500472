package tilemap

// Layer type strings as they appear in Tiled JSON exports.
const (
	LayerTypeTile   = "tilelayer"
	LayerTypeObject = "objectgroup"
)

// Map is a parsed Tiled-style JSON map. Layers keep their file order,
// which is also the order queries iterate in.
type Map struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	TileWidth  int        `json:"tilewidth"`
	TileHeight int        `json:"tileheight"`
	Layers     []*Layer   `json:"layers"`
	Tilesets   []*Tileset `json:"tilesets"`
	Properties Properties `json:"properties"`

	byName     map[string]*Layer
	tileShapes map[uint32][]*Object
}

// Layer returns the first layer with the given name, or nil.
func (m *Map) Layer(name string) *Layer {
	if m == nil {
		return nil
	}
	return m.byName[name]
}

// PixelWidth is the map width in world pixels.
func (m *Map) PixelWidth() float64 {
	if m == nil {
		return 0
	}
	return float64(m.Width * m.TileWidth)
}

// PixelHeight is the map height in world pixels.
func (m *Map) PixelHeight() float64 {
	if m == nil {
		return 0
	}
	return float64(m.Height * m.TileHeight)
}

// TileObjectsAt returns the collision objects authored on the tile at
// tx,ty of the named tile layer. Coordinates outside the layer, empty
// cells, and tiles without collision shapes all return nil. The
// returned objects are templates in tile-local pixels; callers anchor
// them at the tile's world position.
func (m *Map) TileObjectsAt(layer string, tx, ty int) []*Object {
	if m == nil {
		return nil
	}
	gid := m.Layer(layer).TileAt(tx, ty)
	if gid == 0 {
		return nil
	}
	return m.tileShapes[gid]
}

// Layer is one tile or object layer. Tile layers carry Data, object
// layers carry Objects.
type Layer struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Data       []uint32   `json:"data"`
	Objects    []*Object  `json:"objects"`
	Visible    bool       `json:"visible"`
	OffsetX    float64    `json:"offsetx"`
	OffsetY    float64    `json:"offsety"`
	Properties Properties `json:"properties"`
}

// TileAt returns the tile gid at tx,ty, or 0 for empty cells and
// out-of-range coordinates.
func (l *Layer) TileAt(tx, ty int) uint32 {
	if l == nil || l.Type != LayerTypeTile {
		return 0
	}
	if tx < 0 || ty < 0 || tx >= l.Width || ty >= l.Height {
		return 0
	}
	idx := ty*l.Width + tx
	if idx >= len(l.Data) {
		return 0
	}
	return l.Data[idx]
}

// ObjectKind is the declared geometry of a map object.
type ObjectKind int

const (
	KindRectangle ObjectKind = iota
	KindEllipse
	KindPoint
	KindPolygon
	KindPolyline
	KindTile
	KindText
)

func (k ObjectKind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	case KindPoint:
		return "point"
	case KindPolygon:
		return "polygon"
	case KindPolyline:
		return "polyline"
	case KindTile:
		return "tile"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Object is one placed object from an object layer. Geometry is in
// layer-local pixels; ID is unique within the map and stable across
// reloads of the same file.
type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Rotation   float64    `json:"rotation"`
	Visible    bool       `json:"visible"`
	Ellipse    bool       `json:"ellipse"`
	Point      bool       `json:"point"`
	Polygon    []Point    `json:"polygon"`
	Polyline   []Point    `json:"polyline"`
	Text       *Text      `json:"text"`
	GID        uint32     `json:"gid"`
	Properties Properties `json:"properties"`
}

// Kind derives the object's declared kind from the populated fields.
func (o *Object) Kind() ObjectKind {
	switch {
	case o == nil:
		return KindRectangle
	case o.Point:
		return KindPoint
	case o.Ellipse:
		return KindEllipse
	case len(o.Polygon) > 0:
		return KindPolygon
	case len(o.Polyline) > 0:
		return KindPolyline
	case o.GID != 0:
		return KindTile
	case o.Text != nil:
		return KindText
	default:
		return KindRectangle
	}
}

// Point is one vertex of a polygon or polyline, relative to the
// owning object's position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Text holds the payload of a text object. Collision only cares about
// the object's box, the content is kept for tooling.
type Text struct {
	Text  string `json:"text"`
	Wrap  bool   `json:"wrap"`
	Color string `json:"color"`
}

// Property is one entry of a Tiled property bag.
type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type Properties []Property

// Get returns the raw value of the named property.
func (ps Properties) Get(name string) (any, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// String returns the named property as a string, or "" when absent or
// not a string.
func (ps Properties) String(name string) string {
	v, ok := ps.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Bool returns the named property as a bool, false when absent.
func (ps Properties) Bool(name string) bool {
	v, ok := ps.Get(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Float returns the named property as a float64, 0 when absent.
func (ps Properties) Float(name string) float64 {
	v, ok := ps.Get(name)
	if !ok {
		return 0
	}
	f, _ := v.(float64)
	return f
}

// Tileset is the subset of a Tiled tileset needed for collision:
// first gid mapping plus per-tile collision object groups.
type Tileset struct {
	FirstGID   uint32        `json:"firstgid"`
	Name       string        `json:"name"`
	TileWidth  int           `json:"tilewidth"`
	TileHeight int           `json:"tileheight"`
	TileCount  int           `json:"tilecount"`
	Columns    int           `json:"columns"`
	Tiles      []TilesetTile `json:"tiles"`
}

// TilesetTile carries the collision shapes authored on one tile in
// the tileset editor.
type TilesetTile struct {
	ID          uint32 `json:"id"`
	ObjectGroup *Layer `json:"objectgroup"`
}
