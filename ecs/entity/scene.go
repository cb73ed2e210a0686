package entity

import (
	"fmt"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/prefabs"
)

type SceneOptions struct {
	// Mode overrides the player prefab's control mode when set.
	Mode *component.ControlMode
	// Enemies overrides the enemy prefab's spawn count when >= 0.
	Enemies int
}

// Scene is the set of entities NewScene created.
type Scene struct {
	Player  ecs.Entity
	Camera  ecs.Entity
	Enemies []ecs.Entity
}

// NewScene builds the player, a ring of enemies and the follow camera from
// the loaded prefabs.
func NewScene(w *ecs.World, opts SceneOptions) (Scene, error) {
	var scene Scene

	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return scene, fmt.Errorf("scene: %w", err)
	}
	enemySpec, err := prefabs.LoadEnemySpec()
	if err != nil {
		return scene, fmt.Errorf("scene: %w", err)
	}
	cameraSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return scene, fmt.Errorf("scene: %w", err)
	}

	if opts.Mode != nil {
		playerSpec.Mode = opts.Mode.String()
	}
	if scene.Player, err = NewPlayerFromSpec(w, playerSpec); err != nil {
		return scene, fmt.Errorf("scene: %w", err)
	}
	if scene.Enemies, err = SpawnEnemies(w, enemySpec, opts.Enemies); err != nil {
		return scene, fmt.Errorf("scene: %w", err)
	}
	if scene.Camera, err = NewCamera(w, cameraSpec, playerSpec.Transform.Position()); err != nil {
		return scene, fmt.Errorf("scene: %w", err)
	}
	return scene, nil
}

// ApplyPrefab reloads the named prefab and pushes its parameters into the
// live entities built from it. Unknown names are ignored.
func ApplyPrefab(w *ecs.World, name string) error {
	switch name {
	case "camera.yaml":
		spec, err := prefabs.LoadCameraSpec()
		if err != nil {
			return err
		}
		ecs.ForEach(w, component.CameraComponent.Kind(), func(_ ecs.Entity, cam *component.Camera) {
			if cam.Rig != nil {
				cam.Rig.SetParams(spec.Rig)
			}
			cam.Lens.FovYDeg = spec.FovY
		})
	case "enemy.yaml":
		spec, err := prefabs.LoadEnemySpec()
		if err != nil {
			return err
		}
		ecs.ForEach(w, component.SteeringComponent.Kind(), func(_ ecs.Entity, s *component.Steering) {
			s.Params = spec.Steering
		})
	case "player.yaml":
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			return err
		}
		ecs.ForEach(w, component.PlayerComponent.Kind(), func(_ ecs.Entity, pl *component.Player) {
			if pl.TopDown != nil {
				pl.TopDown.Params = spec.TopDown
			}
			if pl.Click != nil {
				pl.Click.Params = spec.Click
			}
		})
	}
	return nil
}
