package save

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// State is one save slot: where the player is and which story flags
// are set. An empty Room means a fresh game; the caller substitutes
// its configured starting room.
type State struct {
	Room  string          `yaml:"room"`
	X     float64         `yaml:"x"`
	Y     float64         `yaml:"y"`
	Flags map[string]bool `yaml:"flags,omitempty"`
}

func DefaultState() *State {
	return &State{Flags: map[string]bool{}}
}

const saveObject = "saves"

// Manager loads and stores save slots through gdata. A nil gdata
// manager puts it in degraded mode: state lives in memory only, Load
// resets to defaults and Save quietly does nothing.
type Manager struct {
	data  *gdata.Manager
	state *State
}

func NewManager(data *gdata.Manager) *Manager {
	return &Manager{
		data:  data,
		state: DefaultState(),
	}
}

// State returns the live game state. Mutations stick until the next
// Load; call Save to persist them.
func (m *Manager) State() *State {
	return m.state
}

// SlotExists reports whether the slot has been saved before. Degraded
// mode has no slots.
func (m *Manager) SlotExists(slot int) bool {
	if m == nil || m.data == nil {
		return false
	}
	return m.data.ObjectPropExists(saveObject, slotName(slot))
}

// Load replaces the live state with the slot's contents. A missing
// slot, or degraded mode, resets to the default state without error.
func (m *Manager) Load(slot int) error {
	if m == nil {
		return nil
	}
	if m.data == nil || !m.SlotExists(slot) {
		m.state = DefaultState()
		return nil
	}

	raw, err := m.data.LoadObjectProp(saveObject, slotName(slot))
	if err != nil {
		m.state = DefaultState()
		return fmt.Errorf("save: load slot %d: %w", slot, err)
	}

	var s State
	if err := yaml.Unmarshal(raw, &s); err != nil {
		m.state = DefaultState()
		return fmt.Errorf("save: decode slot %d: %w", slot, err)
	}
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	m.state = &s
	return nil
}

// Save writes the live state into the slot. Degraded mode reports
// success without persisting anything.
func (m *Manager) Save(slot int) error {
	if m == nil || m.data == nil {
		return nil
	}

	raw, err := yaml.Marshal(m.state)
	if err != nil {
		return fmt.Errorf("save: encode slot %d: %w", slot, err)
	}
	if err := m.data.SaveObjectProp(saveObject, slotName(slot), raw); err != nil {
		return fmt.Errorf("save: write slot %d: %w", slot, err)
	}
	return nil
}

// SetCheckpoint records the player's room and position.
func (m *Manager) SetCheckpoint(room string, x, y float64) {
	if m == nil || m.state == nil {
		return
	}
	m.state.Room = room
	m.state.X = x
	m.state.Y = y
}

// SetFlag sets or clears a story flag.
func (m *Manager) SetFlag(name string, value bool) {
	if m == nil || m.state == nil {
		return
	}
	if m.state.Flags == nil {
		m.state.Flags = map[string]bool{}
	}
	if value {
		m.state.Flags[name] = true
	} else {
		delete(m.state.Flags, name)
	}
}

// Flag reports whether a story flag is set.
func (m *Manager) Flag(name string) bool {
	if m == nil || m.state == nil {
		return false
	}
	return m.state.Flags[name]
}

func slotName(slot int) string {
	return fmt.Sprintf("slot%d", slot)
}
