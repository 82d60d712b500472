package rooms

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/topdown/tilemap"
)

//go:embed *.json
var RoomsFS embed.FS

// Load parses the named room map. A copy on disk under rooms/
// overrides the embedded one, so maps can be edited in Tiled and
// reloaded without rebuilding.
func Load(name string) (*tilemap.Map, error) {
	clean := cleanName(name)

	data, err := os.ReadFile(filepath.Join("rooms", filepath.FromSlash(clean)))
	if err != nil {
		data, err = fs.ReadFile(RoomsFS, clean)
	}
	if err != nil {
		return nil, fmt.Errorf("rooms: read %s: %w", clean, err)
	}

	m, err := tilemap.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rooms: %s: %w", clean, err)
	}
	return m, nil
}

// Names lists the embedded rooms without their extension.
func Names() []string {
	entries, err := RoomsFS.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func cleanName(name string) string {
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "rooms/"); ok {
		s = after
	}
	if !strings.HasSuffix(s, ".json") {
		s += ".json"
	}
	return s
}
