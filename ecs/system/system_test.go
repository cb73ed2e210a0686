package system

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/ecs/entity"
	"github.com/milk9111/topdown/prefabs"
	"github.com/milk9111/topdown/steering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

// scripted replays a fixed input per tick.
type scripted struct {
	inputs func(tick int) component.Input
}

func (s scripted) Read(w *ecs.World) (component.Input, error) {
	return s.inputs(w.Tick()), nil
}

func newWorld(t *testing.T, src InputSource, q NeighborQuery, mode component.ControlMode, enemies int) (*ecs.World, entity.Scene, *[]ecs.Event) {
	t.Helper()
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(0))
	var events []ecs.Event
	Install(w, src, q, nil, func(e ecs.Event) { events = append(events, e) })
	scene, err := entity.NewScene(w, entity.SceneOptions{Mode: &mode, Enemies: enemies})
	require.NoError(t, err)
	return w, scene, &events
}

func idle() InputSource {
	return scripted{inputs: func(int) component.Input { return component.Input{} }}
}

func transformOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Transform {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	return tr
}

func TestInputSystemCopiesToEveryInput(t *testing.T) {
	want := component.Input{Move: mgl64.Vec2{1, 0}, Scroll: 1, Drag: camera.DragMove}
	w := ecs.NewWorld()
	w.AddSystem(NewInputSystem(scripted{inputs: func(int) component.Input { return want }}, nil))
	a, b := ecs.CreateEntity(w), ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, a, component.InputComponent.Kind(), &component.Input{}))
	require.NoError(t, ecs.Add(w, b, component.InputComponent.Kind(), &component.Input{Jump: true}))

	w.Step(dt)
	for _, e := range []ecs.Entity{a, b} {
		got, ok := ecs.Get(w, e, component.InputComponent.Kind())
		require.True(t, ok)
		assert.Equal(t, want, *got)
	}
}

func TestInputSystemErrorClearsInput(t *testing.T) {
	w := ecs.NewWorld()
	failing := InputSourceFunc(func(*ecs.World) (component.Input, error) {
		return component.Input{Jump: true}, errors.New("boom")
	})
	w.AddSystem(NewInputSystem(failing, nil))
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{Click: true}))

	w.Step(dt)
	got, _ := ecs.Get(w, e, component.InputComponent.Kind())
	assert.Equal(t, component.Input{}, *got)
}

func TestEnemiesConvergeAndStop(t *testing.T) {
	w, scene, events := newWorld(t, idle(), PhysicsNeighbors{Mask: component.LayerEnemy}, component.ControlWASD, 6)
	spec, err := prefabs.LoadEnemySpec()
	require.NoError(t, err)

	prev := make(map[ecs.Entity]mgl64.Vec3)
	for _, e := range scene.Enemies {
		prev[e] = transformOf(t, w, e).Position
	}
	for i := 0; i < 600; i++ {
		w.Step(dt)
		for _, e := range scene.Enemies {
			pos := transformOf(t, w, e).Position
			step := pos.Sub(prev[e])
			require.LessOrEqual(t, step.Len(), spec.Steering.Speed*dt+1e-9)
			prev[e] = pos
		}
	}

	player := transformOf(t, w, scene.Player).Position
	stopped := 0
	for _, e := range scene.Enemies {
		pos := transformOf(t, w, e).Position
		d := planarDist(pos.Sub(player))
		assert.Less(t, d, spec.Spawn.Radius, "enemy %s should have approached", e)
		st, _ := ecs.Get(w, e, component.SteeringComponent.Kind())
		if !st.Moving {
			stopped++
		}
		assert.True(t, st.Target.Valid)
	}
	assert.Positive(t, stopped)

	found := false
	for _, evt := range *events {
		if evt.Type == ecs.EventEnemyStopped {
			found = true
		}
	}
	assert.True(t, found)
}

func planarDist(v mgl64.Vec3) float64 {
	return math.Hypot(v.X(), v.Z())
}

func TestNeighborQueriesAgree(t *testing.T) {
	wa, sa, _ := newWorld(t, idle(), PhysicsNeighbors{Mask: component.LayerEnemy}, component.ControlWASD, 12)
	wb, sb, _ := newWorld(t, idle(), NewIndexNeighbors(), component.ControlWASD, 12)
	require.Equal(t, len(sa.Enemies), len(sb.Enemies))

	for i := 0; i < 300; i++ {
		wa.Step(dt)
		wb.Step(dt)
	}
	for i := range sa.Enemies {
		pa := transformOf(t, wa, sa.Enemies[i])
		pb := transformOf(t, wb, sb.Enemies[i])
		assert.InDelta(t, pa.Position.X(), pb.Position.X(), 1e-9)
		assert.InDelta(t, pa.Position.Z(), pb.Position.Z(), 1e-9)
		assert.InDelta(t, pa.Heading, pb.Heading, 1e-9)
	}
}

func TestNeighborsExcludeSelf(t *testing.T) {
	w, scene, _ := newWorld(t, idle(), nil, component.ControlWASD, 2)
	a, b := scene.Enemies[0], scene.Enemies[1]
	ta, tb := transformOf(t, w, a), transformOf(t, w, b)
	ta.Position = mgl64.Vec3{0, 0, 5}
	tb.Position = mgl64.Vec3{0.5, 0, 5}
	tb.Heading = 1
	w.PhysicsWorld().Sync(a, ta.Position)
	w.PhysicsWorld().Sync(b, tb.Position)

	queries := map[string]NeighborQuery{
		"physics": PhysicsNeighbors{Mask: component.LayerEnemy},
		"index":   NewIndexNeighbors(),
	}
	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, q.Prepare(w))
			got, err := q.Neighbors(w, a, ta.Position, 1)
			require.NoError(t, err)
			assert.Equal(t, []steering.Neighbor{{Position: tb.Position, Heading: 1}}, got)
		})
	}
}

func TestCameraSeesSameTickPlayerPose(t *testing.T) {
	move := scripted{inputs: func(int) component.Input {
		return component.Input{Move: mgl64.Vec2{0, 1}}
	}}
	w, scene, _ := newWorld(t, move, nil, component.ControlWASD, 0)

	cam, ok := ecs.Get(w, scene.Camera, component.CameraComponent.Kind())
	require.True(t, ok)
	mirror := camera.NewRig(cam.Rig.Params(), transformOf(t, w, scene.Player).Position)

	for i := 0; i < 30; i++ {
		w.Step(dt)
		want := mirror.Tick(transformOf(t, w, scene.Player).Position, camera.Input{}, dt)
		assert.Equal(t, want, cam.Pose)
	}
	assert.Greater(t, transformOf(t, w, scene.Player).Position.Z(), 0.0)
	assert.Equal(t, cam.Pose.Position, transformOf(t, w, scene.Camera).Position)
}

func TestCameraDragEmitsModeEvents(t *testing.T) {
	src := scripted{inputs: func(tick int) component.Input {
		in := component.Input{Pointer: mgl64.Vec3{5, 0, 0}, PointerValid: true}
		switch tick {
		case 0:
			in.Drag = camera.DragStart
		case 1:
			in.Drag = camera.DragMove
			in.Pointer = mgl64.Vec3{0, 0, 5}
		case 2:
			in.Drag = camera.DragEnd
		}
		return in
	}}
	w, scene, events := newWorld(t, src, nil, component.ControlWASD, 0)

	w.Step(dt)
	cam, _ := ecs.Get(w, scene.Camera, component.CameraComponent.Kind())
	assert.Equal(t, camera.Dragging, cam.Rig.Mode())
	w.Step(dt)
	assert.Greater(t, cam.Pose.Yaw, 0.0)
	w.Step(dt)
	assert.Equal(t, camera.Idle, cam.Rig.Mode())

	var modes []any
	for _, evt := range *events {
		if evt.Type == ecs.EventCameraModeChanged {
			modes = append(modes, evt.Data)
		}
	}
	assert.Equal(t, []any{camera.Dragging, camera.Idle}, modes)
}

func TestClickPlayerArrives(t *testing.T) {
	target := mgl64.Vec3{2, 0, 1}
	src := scripted{inputs: func(tick int) component.Input {
		if tick == 0 {
			return component.Input{Click: true, Pointer: target, PointerValid: true}
		}
		return component.Input{}
	}}
	w, scene, events := newWorld(t, src, nil, component.ControlClick, 0)

	for i := 0; i < 120; i++ {
		w.Step(dt)
	}
	pos := transformOf(t, w, scene.Player).Position
	assert.InDelta(t, target.X(), pos.X(), 0.06)
	assert.InDelta(t, target.Z(), pos.Z(), 0.06)

	var arrived int
	for _, evt := range *events {
		if evt.Type == ecs.EventPlayerArrived {
			arrived++
		}
	}
	assert.Equal(t, 1, arrived)
}

func TestTopDownPlayerJumpsAndLands(t *testing.T) {
	src := scripted{inputs: func(tick int) component.Input {
		return component.Input{Jump: tick == 0}
	}}
	w, scene, events := newWorld(t, src, nil, component.ControlWASD, 0)

	peak := 0.0
	for i := 0; i < 180; i++ {
		w.Step(dt)
		peak = math.Max(peak, transformOf(t, w, scene.Player).Position.Y())
	}
	assert.Greater(t, peak, 0.5)
	assert.Equal(t, 0.0, transformOf(t, w, scene.Player).Position.Y())
	body, _ := ecs.Get(w, scene.Player, component.BodyComponent.Kind())
	assert.True(t, body.Grounded)

	require.NotEmpty(t, *events)
	jumps := 0
	for _, evt := range *events {
		if evt.Type == ecs.EventPlayerJumped {
			jumps++
		}
	}
	assert.Equal(t, 1, jumps)
}

func TestPhysicsSystemTracksBodies(t *testing.T) {
	w, scene, events := newWorld(t, idle(), nil, component.ControlWASD, 3)
	pw := w.PhysicsWorld()
	for _, e := range scene.Enemies {
		assert.True(t, pw.HasBody(e))
	}

	extra := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, extra, component.TransformComponent.Kind(), &component.Transform{Position: mgl64.Vec3{3, 0, 3}}))
	require.NoError(t, ecs.Add(w, extra, component.BodyComponent.Kind(), &component.Body{Radius: 0.25}))
	require.True(t, ecs.DestroyEntity(w, scene.Enemies[0]))

	w.Step(dt)
	assert.True(t, pw.HasBody(extra))
	assert.False(t, pw.HasBody(scene.Enemies[0]))

	var kinds []ecs.EventType
	for _, evt := range *events {
		kinds = append(kinds, evt.Type)
	}
	assert.Contains(t, kinds, ecs.EventBodyAdded)
	assert.Contains(t, kinds, ecs.EventBodyRemoved)
}

func TestNoPlayerSkipsCameraAndTargets(t *testing.T) {
	w, scene, _ := newWorld(t, idle(), nil, component.ControlWASD, 2)
	cam, _ := ecs.Get(w, scene.Camera, component.CameraComponent.Kind())
	before := cam.Pose
	require.True(t, ecs.DestroyEntity(w, scene.Player))

	enemyBefore := *transformOf(t, w, scene.Enemies[0])
	w.Step(dt)
	assert.Equal(t, before, cam.Pose)
	after := transformOf(t, w, scene.Enemies[0])
	assert.Equal(t, enemyBefore.Position, after.Position)
	st, _ := ecs.Get(w, scene.Enemies[0], component.SteeringComponent.Kind())
	assert.False(t, st.Target.Valid)
}
