package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSpec reads a yaml prefab and decodes it into T. Disk copies
// under prefabs/ override the embedded defaults, so specs can be
// edited without rebuilding.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GameSpec is the top-level game configuration from game.yaml.
type GameSpec struct {
	Title     string     `yaml:"title"`
	StartRoom string     `yaml:"start_room"`
	SpawnName string     `yaml:"spawn_name"`
	SaveSlot  int        `yaml:"save_slot"`
	Layers    LayersSpec `yaml:"layers"`
}

// LayersSpec names the conventional map layers the game queries.
type LayersSpec struct {
	Walls    string `yaml:"walls"`
	Ground   string `yaml:"ground"`
	Triggers string `yaml:"triggers"`
	Objects  string `yaml:"objects"`
}

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec]("game.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// PlayerSpec configures the player from player.yaml.
type PlayerSpec struct {
	Name          string       `yaml:"name"`
	MoveSpeed     float64      `yaml:"move_speed"`
	InteractRange float64      `yaml:"interact_range"`
	Collider      ColliderSpec `yaml:"collider"`
	Debug         DebugSpec    `yaml:"debug"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ColliderSpec declares an entity's collision shape. Shape is
// "rectangle" or "circle"; rectangles read width and height, circles
// read radius. The offset shifts the shape from the entity position.
type ColliderSpec struct {
	Shape   string  `yaml:"shape"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Radius  float64 `yaml:"radius"`
	OffsetX float64 `yaml:"offsetX"`
	OffsetY float64 `yaml:"offsetY"`
}

type DebugSpec struct {
	Enabled bool       `yaml:"enabled"`
	Color   *YAMLColor `yaml:"color"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
