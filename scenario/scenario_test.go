package scenario

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsScriptsWithoutInput(t *testing.T) {
	_, err := Compile("empty", []byte(`x := 1`))
	assert.ErrorIs(t, err, ErrNoInputFunc)

	_, err = Compile("not_func", []byte(`input := 3`))
	assert.ErrorIs(t, err, ErrNoInputFunc)

	_, err = Compile("broken", []byte(`input := func(`))
	assert.ErrorContains(t, err, "scenario: compile broken")
}

func TestScriptInputDecodesEveryKey(t *testing.T) {
	s, err := Compile("all", []byte(`
input := func(tick, time) {
	return {
		move_x: 1, move_z: -0.5, jump: true, click: true, hold: false,
		scroll: -1, drag: "move", pointer_x: 2, pointer_z: 3.5, pointer_valid: true
	}
}`))
	require.NoError(t, err)

	in, err := s.Input(0, 0)
	require.NoError(t, err)
	assert.Equal(t, component.Input{
		Move:         mgl64.Vec2{1, -0.5},
		Jump:         true,
		Click:        true,
		Scroll:       -1,
		Drag:         camera.DragMove,
		Pointer:      mgl64.Vec3{2, 0, 3.5},
		PointerValid: true,
	}, in)
}

func TestScriptInputSeesTickAndTime(t *testing.T) {
	s, err := Compile("clock", []byte(`
input := func(tick, time) {
	if tick == 3 && time > 1.0 {
		return {jump: true}
	}
}`))
	require.NoError(t, err)

	in, err := s.Input(2, 2)
	require.NoError(t, err)
	assert.Equal(t, component.Input{}, in)

	in, err = s.Input(3, 1.5)
	require.NoError(t, err)
	assert.True(t, in.Jump)
}

func TestScriptInputErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unknown_key", `input := func(tick, time) { return {fly: true} }`},
		{"wrong_type", `input := func(tick, time) { return {jump: 1} }`},
		{"bad_drag", `input := func(tick, time) { return {drag: "sideways"} }`},
		{"not_a_map", `input := func(tick, time) { return [1, 2] }`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := Compile(c.name, []byte(c.src))
			require.NoError(t, err)
			_, err = s.Input(0, 0)
			assert.ErrorIs(t, err, ErrBadInput)
		})
	}
}

func TestScriptNameGlobal(t *testing.T) {
	s, err := Compile("file.tengo", []byte(`name := "pretty"
input := func(tick, time) { return {} }`))
	require.NoError(t, err)
	assert.Equal(t, "pretty", s.Name())

	s, err = LoadScript("click_walk.tengo")
	require.NoError(t, err)
	assert.Equal(t, "click_walk.tengo", s.Name())
}

func TestScriptReadUsesWorldClock(t *testing.T) {
	s, err := Compile("clock", []byte(`input := func(tick, time) { return {scroll: tick} }`))
	require.NoError(t, err)

	w := ecs.NewWorld()
	w.Step(DefaultDT)
	w.Step(DefaultDT)
	in, err := s.Read(w)
	require.NoError(t, err)
	assert.Equal(t, 2.0, in.Scroll)
}

func TestParseDragEvent(t *testing.T) {
	for _, ev := range []camera.DragEvent{camera.DragNone, camera.DragStart, camera.DragMove, camera.DragEnd, camera.DragCancel} {
		got, err := ParseDragEvent(ev.String())
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}
	got, err := ParseDragEvent("")
	require.NoError(t, err)
	assert.Equal(t, camera.DragNone, got)
}

func TestSpecValidate(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
		ok   bool
	}{
		{"defaults", Spec{Script: "a.tengo", Ticks: 1}, true},
		{"no_script", Spec{Ticks: 1}, false},
		{"no_ticks", Spec{Script: "a.tengo"}, false},
		{"negative_dt", Spec{Script: "a.tengo", Ticks: 1, DT: -1}, false},
		{"bad_mode", Spec{Script: "a.tengo", Ticks: 1, Mode: "fly"}, false},
		{"bad_index", Spec{Script: "a.tengo", Ticks: 1, Index: "kd"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.spec.Validate()
			if !c.ok {
				assert.ErrorIs(t, err, prefabs.ErrInvalidSpec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultDT, c.spec.DT)
			assert.Equal(t, IndexPhysics, c.spec.Index)
			assert.Equal(t, "a.tengo", c.spec.Name)
		})
	}
}

func TestRunClickWalkArrives(t *testing.T) {
	spec, err := LoadSpec("click_walk.yaml")
	require.NoError(t, err)

	res, err := Run(context.Background(), spec, nil)
	require.NoError(t, err)
	assert.Equal(t, 300, res.Ticks)
	assert.Len(t, res.Enemies, 4)
	assert.GreaterOrEqual(t, res.Events[ecs.EventPlayerArrived], 1)
	assert.InDelta(t, 4, res.Player.Position.X(), 0.1)
	assert.InDelta(t, 3, res.Player.Position.Z(), 0.1)
}

func TestRunOrbitZoomDragsCamera(t *testing.T) {
	spec, err := LoadSpec("orbit_zoom.yaml")
	require.NoError(t, err)

	res, err := Run(context.Background(), spec, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Events[ecs.EventCameraModeChanged])
	assert.Equal(t, camera.Idle, res.Mode)
	assert.Greater(t, math.Abs(res.Camera.Yaw), 0.1)
	assert.Greater(t, res.Camera.Position.Y(), 8.0)
	assert.Len(t, res.Enemies, 8)
}

func TestRunAllKeepsOrder(t *testing.T) {
	specs, err := LoadAll()
	require.NoError(t, err)
	require.Len(t, specs, 3)

	results, err := RunAll(context.Background(), specs, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"click_walk", "orbit_zoom", "walk_square"}, []string{results[0].Name, results[1].Name, results[2].Name})
	assert.GreaterOrEqual(t, results[2].Events[ecs.EventPlayerJumped], 1)
}

func TestRunAllRepeatsDeterministically(t *testing.T) {
	spec, err := LoadSpec("click_walk.yaml")
	require.NoError(t, err)
	specs := []*Spec{spec, spec, spec, spec}

	results, err := RunAll(context.Background(), specs, nil)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, r := range results[1:] {
		assert.Equal(t, results[0].Player, r.Player)
		assert.Equal(t, results[0].Enemies, r.Enemies)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, &Spec{Script: "walk_square.tengo", Ticks: 10}, nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = RunAll(context.Background(), []*Spec{nil}, nil)
	assert.Error(t, err)
}

func TestResultNearestEnemy(t *testing.T) {
	r := Result{Player: component.Transform{Position: mgl64.Vec3{1, 5, 1}}}
	assert.Equal(t, -1.0, r.NearestEnemy())
	r.Enemies = []mgl64.Vec3{{4, 0, 5}, {1, 0, 3}}
	assert.InDelta(t, 2, r.NearestEnemy(), 1e-12)
}

func TestLoadScriptFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.tengo")
	require.NoError(t, os.WriteFile(path, []byte(`input := func(tick, time) { return {hold: true} }`), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	in, err := s.Input(0, 0)
	require.NoError(t, err)
	assert.True(t, in.Hold)

	_, err = LoadScript("missing.tengo")
	assert.ErrorContains(t, err, "scenario: load script missing.tengo")
}
