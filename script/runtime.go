package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Loader returns the tengo source for a named script.
type Loader func(name string) ([]byte, error)

// Host is the table of game callbacks exposed to trigger scripts. Nil
// entries turn the matching script call into a no-op.
type Host struct {
	PlayerPos func() (x, y float64)
	Warp      func(room string, x, y float64)
	SetFlag   func(name string, value bool)
	Flag      func(name string) bool
	Message   func(text string)
}

// Runtime compiles and runs trigger scripts. A script defines
// on_enter(host, state, trigger) and on_exit(host, state, trigger);
// the runtime dispatches to one of them per call. Compiled scripts are
// cached by name and keep a per-script state map between runs.
//
// Runtime is not safe for concurrent use.
type Runtime struct {
	load  Loader
	host  Host
	cache map[string]*trigger
}

type trigger struct {
	compiled *tengo.Compiled
	state    *tengo.Map
}

const dispatchScript = `
if __phase == "enter" {
	on_enter(__host, __state, __trigger)
} else if __phase == "exit" {
	on_exit(__host, __state, __trigger)
}
`

func NewRuntime(load Loader, host Host) *Runtime {
	return &Runtime{
		load:  load,
		host:  host,
		cache: map[string]*trigger{},
	}
}

// RunEnter runs the named script's on_enter handler. triggerName is
// the map object that fired, handed to the script as its third
// argument.
func (r *Runtime) RunEnter(scriptName, triggerName string) error {
	return r.run("enter", scriptName, triggerName)
}

// RunExit runs the named script's on_exit handler.
func (r *Runtime) RunExit(scriptName, triggerName string) error {
	return r.run("exit", scriptName, triggerName)
}

// Invalidate drops the compiled script so the next run reloads its
// source. Per-script state is dropped with it.
func (r *Runtime) Invalidate(scriptName string) {
	if r == nil {
		return
	}
	delete(r.cache, scriptName)
}

// InvalidateAll drops every compiled script.
func (r *Runtime) InvalidateAll() {
	if r == nil {
		return
	}
	clear(r.cache)
}

func (r *Runtime) run(phase, scriptName, triggerName string) error {
	if r == nil {
		return fmt.Errorf("script: nil runtime")
	}
	tr, err := r.get(scriptName)
	if err != nil {
		return err
	}

	if err := tr.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := tr.compiled.Set("__host", r.hostMap()); err != nil {
		return err
	}
	if err := tr.compiled.Set("__state", tr.state); err != nil {
		return err
	}
	if err := tr.compiled.Set("__trigger", triggerName); err != nil {
		return err
	}
	if err := tr.compiled.Run(); err != nil {
		return fmt.Errorf("script: run %s %s: %w", scriptName, phase, err)
	}
	return nil
}

func (r *Runtime) get(name string) (*trigger, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("script: empty script name")
	}
	if tr, ok := r.cache[name]; ok {
		return tr, nil
	}
	if r.load == nil {
		return nil, fmt.Errorf("script: no loader configured")
	}

	src, err := r.load(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}

	s := tengo.NewScript(append(src, dispatchScript...))
	_ = s.Add("__phase", "")
	_ = s.Add("__host", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	_ = s.Add("__trigger", "")

	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	tr := &trigger{
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	r.cache[name] = tr
	return tr, nil
}

func (r *Runtime) hostMap() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["player_position"] = &tengo.UserFunction{Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var x, y float64
		if r.host.PlayerPos != nil {
			x, y = r.host.PlayerPos()
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}, nil
	}}

	values["warp"] = &tengo.UserFunction{Name: "warp", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if r.host.Warp == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		room := strings.TrimSpace(objectAsString(args[0]))
		if room == "" {
			return tengo.FalseValue, nil
		}
		var x, y float64
		if len(args) > 1 {
			x = objectAsFloat(args[1])
		}
		if len(args) > 2 {
			y = objectAsFloat(args[2])
		}
		r.host.Warp(room, x, y)
		return tengo.TrueValue, nil
	}}

	values["set_flag"] = &tengo.UserFunction{Name: "set_flag", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if r.host.SetFlag == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		value := true
		if len(args) > 1 {
			value = !args[1].IsFalsy()
		}
		r.host.SetFlag(name, value)
		return tengo.TrueValue, nil
	}}

	values["flag"] = &tengo.UserFunction{Name: "flag", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if r.host.Flag == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		if r.host.Flag(name) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["say"] = &tengo.UserFunction{Name: "say", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if r.host.Message == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		r.host.Message(objectAsString(args[0]))
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsFloat(obj tengo.Object) float64 {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value
	case *tengo.Int:
		return float64(v.Value)
	default:
		return 0
	}
}
