// Package scenario drives a world from tengo input scripts and runs
// scenario files headlessly.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/prefabs"
)

var (
	ErrNoInputFunc = errors.New("scenario: script defines no input function")
	ErrBadInput    = errors.New("scenario: bad input value")
)

const inputDispatchScript = `
__out := input(__tick, __time)
`

// Script is a compiled input script. It implements system.InputSource.
type Script struct {
	name     string
	compiled *tengo.Compiled
}

// LoadScript compiles a script file. A name that is not an existing path
// is looked up in the prefab scripts directory.
func LoadScript(name string) (*Script, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		src, err = prefabs.LoadScript(name)
	}
	if err != nil {
		return nil, fmt.Errorf("scenario: load script %s: %w", name, err)
	}
	return Compile(name, src)
}

// Compile checks that src defines a callable `input(tick, time)` and
// prepares it for per-tick calls. An optional `name` string global
// overrides the script name.
func Compile(name string, src []byte) (*Script, error) {
	probe := newScript(src)
	compiled, err := probe.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", name, err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("scenario: run %s: %w", name, err)
	}
	if !compiled.IsDefined("input") || !compiled.Get("input").Object().CanCall() {
		return nil, fmt.Errorf("scenario: %s: %w", name, ErrNoInputFunc)
	}
	if compiled.IsDefined("name") {
		if s := strings.TrimSpace(compiled.Get("name").String()); s != "" {
			name = s
		}
	}

	full := newScript([]byte(string(src) + "\n" + inputDispatchScript))
	compiled, err = full.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", name, err)
	}
	return &Script{name: name, compiled: compiled}, nil
}

func newScript(src []byte) *tengo.Script {
	script := tengo.NewScript(src)
	_ = script.Add("__tick", 0)
	_ = script.Add("__time", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script
}

func (s *Script) Name() string {
	return s.name
}

// Input runs the script's input function for one tick.
func (s *Script) Input(tick int, time float64) (component.Input, error) {
	if err := s.compiled.Set("__tick", tick); err != nil {
		return component.Input{}, err
	}
	if err := s.compiled.Set("__time", time); err != nil {
		return component.Input{}, err
	}
	if err := s.compiled.Run(); err != nil {
		return component.Input{}, fmt.Errorf("scenario: %s tick %d: %w", s.name, tick, err)
	}

	var values map[string]any
	switch out := s.compiled.Get("__out").Object().(type) {
	case *tengo.Map, *tengo.ImmutableMap:
		values = tengo.ToInterface(out).(map[string]any)
	case *tengo.Undefined:
	default:
		return component.Input{}, fmt.Errorf("scenario: %s tick %d: input returned %s: %w", s.name, tick, out.TypeName(), ErrBadInput)
	}
	in, err := decodeInput(values)
	if err != nil {
		return component.Input{}, fmt.Errorf("scenario: %s tick %d: %w", s.name, tick, err)
	}
	return in, nil
}

// Read implements system.InputSource using the world's tick and time.
func (s *Script) Read(w *ecs.World) (component.Input, error) {
	return s.Input(w.Tick(), w.Time())
}

func decodeInput(values map[string]any) (component.Input, error) {
	var (
		in             component.Input
		moveX, moveZ   float64
		pointX, pointZ float64
	)
	for key, v := range values {
		var err error
		switch key {
		case "move_x":
			moveX, err = asFloat(key, v)
		case "move_z":
			moveZ, err = asFloat(key, v)
		case "scroll":
			in.Scroll, err = asFloat(key, v)
		case "pointer_x":
			pointX, err = asFloat(key, v)
		case "pointer_z":
			pointZ, err = asFloat(key, v)
		case "jump":
			in.Jump, err = asBool(key, v)
		case "click":
			in.Click, err = asBool(key, v)
		case "hold":
			in.Hold, err = asBool(key, v)
		case "pointer_valid":
			in.PointerValid, err = asBool(key, v)
		case "drag":
			s, ok := v.(string)
			if !ok {
				return component.Input{}, fmt.Errorf("%w: drag is %T", ErrBadInput, v)
			}
			in.Drag, err = ParseDragEvent(s)
		default:
			err = fmt.Errorf("%w: unknown key %q", ErrBadInput, key)
		}
		if err != nil {
			return component.Input{}, err
		}
	}
	in.Move = mgl64.Vec2{moveX, moveZ}
	in.Pointer = mgl64.Vec3{pointX, 0, pointZ}
	return in, nil
}

func asFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s is %T", ErrBadInput, key, v)
}

func asBool(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %T", ErrBadInput, key, v)
	}
	return b, nil
}

// ParseDragEvent accepts the names DragEvent.String produces.
func ParseDragEvent(s string) (camera.DragEvent, error) {
	for _, ev := range []camera.DragEvent{camera.DragNone, camera.DragStart, camera.DragMove, camera.DragEnd, camera.DragCancel} {
		if ev.String() == s {
			return ev, nil
		}
	}
	if s == "" {
		return camera.DragNone, nil
	}
	return camera.DragNone, fmt.Errorf("%w: drag %q", ErrBadInput, s)
}
