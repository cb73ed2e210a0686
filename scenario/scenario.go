package scenario

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/ecs/entity"
	"github.com/milk9111/topdown/ecs/system"
	"github.com/milk9111/topdown/prefabs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	IndexPhysics = "cp"
	IndexRTree   = "rtree"

	DefaultDT = 1.0 / 60
)

// Spec is a scenario file: an input script played against a fresh scene
// for a fixed number of ticks.
type Spec struct {
	Name   string  `yaml:"name"`
	Script string  `yaml:"script"`
	Ticks  int     `yaml:"ticks"`
	DT     float64 `yaml:"dt"`
	Mode   string  `yaml:"mode"`
	// Enemies overrides the enemy prefab's spawn count.
	Enemies *int   `yaml:"enemies"`
	Index   string `yaml:"index"`
}

// LoadSpec reads and validates a scenario file.
func LoadSpec(name string) (*Spec, error) {
	data, err := prefabs.LoadScenario(name)
	if err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", name, err)
	}
	spec, err := prefabs.DecodeSpec[Spec](data)
	if err != nil {
		return nil, fmt.Errorf("scenario: unmarshal %s: %w", name, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", name, err)
	}
	return &spec, nil
}

// Validate fills defaults and rejects unusable values.
func (s *Spec) Validate() error {
	if s.Script == "" {
		return fmt.Errorf("%w: script is required", prefabs.ErrInvalidSpec)
	}
	if s.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be > 0", prefabs.ErrInvalidSpec)
	}
	if s.DT < 0 {
		return fmt.Errorf("%w: dt must be >= 0", prefabs.ErrInvalidSpec)
	}
	if s.DT == 0 {
		s.DT = DefaultDT
	}
	if _, err := component.ParseControlMode(s.Mode); err != nil {
		return fmt.Errorf("%w: %v", prefabs.ErrInvalidSpec, err)
	}
	switch s.Index {
	case "":
		s.Index = IndexPhysics
	case IndexPhysics, IndexRTree:
	default:
		return fmt.Errorf("%w: unknown index %q", prefabs.ErrInvalidSpec, s.Index)
	}
	if s.Name == "" {
		s.Name = s.Script
	}
	return nil
}

// Result is the state of a scenario after its last tick.
type Result struct {
	Name    string
	Ticks   int
	Time    float64
	Player  component.Transform
	Camera  camera.Pose
	Mode    camera.Mode
	Enemies []mgl64.Vec3
	Events  map[ecs.EventType]int
}

// NearestEnemy is the smallest ground distance from the player to an
// enemy, or -1 with no enemies.
func (r Result) NearestEnemy() float64 {
	best := -1.0
	for _, p := range r.Enemies {
		d := mgl64.Vec2{p.X() - r.Player.Position.X(), p.Z() - r.Player.Position.Z()}.Len()
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// NewQuery returns the neighbor query an index name selects.
func NewQuery(index string) (system.NeighborQuery, error) {
	switch index {
	case IndexPhysics, "":
		return system.PhysicsNeighbors{Mask: component.LayerEnemy}, nil
	case IndexRTree:
		return system.NewIndexNeighbors(), nil
	}
	return nil, fmt.Errorf("scenario: unknown index %q", index)
}

// Run plays spec to completion. It stops early with ctx's error when ctx
// is cancelled.
func Run(ctx context.Context, spec *Spec, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := spec.Validate(); err != nil {
		return Result{}, fmt.Errorf("scenario: %s: %w", spec.Name, err)
	}
	script, err := LoadScript(spec.Script)
	if err != nil {
		return Result{}, err
	}
	q, err := NewQuery(spec.Index)
	if err != nil {
		return Result{}, err
	}
	mode, _ := component.ParseControlMode(spec.Mode)
	enemies := -1
	if spec.Enemies != nil {
		enemies = *spec.Enemies
	}

	log = log.With(zap.String("scenario", spec.Name))
	res := Result{Name: spec.Name, Events: make(map[ecs.EventType]int)}

	w := ecs.NewWorld()
	w.SetLogger(log)
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(0))
	system.Install(w, script, q, log, func(e ecs.Event) { res.Events[e.Type]++ })
	scene, err := entity.NewScene(w, entity.SceneOptions{Mode: &mode, Enemies: enemies})
	if err != nil {
		return Result{}, fmt.Errorf("scenario: %s: %w", spec.Name, err)
	}

	log.Info("scenario start",
		zap.String("script", script.Name()),
		zap.Int("ticks", spec.Ticks),
		zap.Float64("dt", spec.DT),
		zap.String("index", spec.Index),
		zap.Stringer("mode", mode),
		zap.Int("enemies", len(scene.Enemies)))

	for i := 0; i < spec.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		w.Step(spec.DT)
	}

	res.Ticks = w.Tick()
	res.Time = w.Time()
	if t, ok := ecs.Get(w, scene.Player, component.TransformComponent.Kind()); ok {
		res.Player = *t
	}
	if cam, ok := ecs.Get(w, scene.Camera, component.CameraComponent.Kind()); ok {
		res.Camera = cam.Pose
		if cam.Rig != nil {
			res.Mode = cam.Rig.Mode()
		}
	}
	for _, e := range scene.Enemies {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			res.Enemies = append(res.Enemies, t.Position)
		}
	}

	log.Info("scenario done",
		zap.Int("ticks", res.Ticks),
		zap.Float64("nearest_enemy", res.NearestEnemy()),
		zap.Any("events", res.Events))
	return res, nil
}

// RunAll plays every spec concurrently. Results keep the order of specs.
// The first failure cancels the rest.
func RunAll(ctx context.Context, specs []*Spec, log *zap.Logger) ([]Result, error) {
	for _, spec := range specs {
		if spec == nil {
			return nil, errors.New("scenario: nil spec")
		}
	}
	results := make([]Result, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			res, err := Run(ctx, spec, log)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LoadAll loads every embedded scenario in name order.
func LoadAll() ([]*Spec, error) {
	names, err := prefabs.ScenarioNames()
	if err != nil {
		return nil, fmt.Errorf("scenario: list: %w", err)
	}
	sort.Strings(names)
	specs := make([]*Spec, 0, len(names))
	for _, name := range names {
		spec, err := LoadSpec(name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
