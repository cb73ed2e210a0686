package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/ecs/entity"
	"github.com/milk9111/topdown/ecs/system"
	"github.com/milk9111/topdown/prefabs"
	"github.com/milk9111/topdown/scenario"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type options struct {
	debug   bool
	mode    *component.ControlMode
	enemies int
	index   string
	watch   bool
}

type Game struct {
	frames int
	debug  bool
	log    *zap.Logger

	world *ecs.World
	scene entity.Scene
	input *deviceInput

	grid *prefabs.GridSpec
	face text.Face

	watcher *prefabs.Watcher

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
}

func NewGame(opts options, log *zap.Logger) (*Game, error) {
	q, err := scenario.NewQuery(opts.index)
	if err != nil {
		return nil, err
	}
	grid, err := prefabs.LoadGridSpec()
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug: opts.debug,
		log:   log,
		world: ecs.NewWorld(),
		input: &deviceInput{},
		grid:  grid,
		face:  text.NewGoXFace(basicfont.Face7x13),
	}
	g.world.SetLogger(log)
	g.world.SetPhysicsWorld(ecs.NewPhysicsWorld(0))
	system.Install(g.world, g.input, q, log, nil)

	g.scene, err = entity.NewScene(g.world, entity.SceneOptions{Mode: opts.mode, Enemies: opts.enemies})
	if err != nil {
		return nil, err
	}
	if cam, ok := ecs.Get(g.world, g.scene.Camera, component.CameraComponent.Kind()); ok {
		cam.Lens.Width, cam.Lens.Height = baseWidth, baseHeight
	}

	if opts.watch {
		g.watcher, err = prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			log.Warn("prefab watcher disabled", zap.String("dir", prefabs.Dir), zap.Error(err))
		}
	}

	g.pauseUI = NewPauseUI(g)
	log.Info("scene ready",
		zap.Int("enemies", len(g.scene.Enemies)),
		zap.String("index", opts.index),
		zap.Stringer("mode", g.playerMode()))
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit || inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		return ebiten.Termination
	}
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.toggleMode()
	}
	g.reloadPrefabs()

	g.world.Step(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) setPaused(paused bool) {
	if paused {
		g.input.cancel = true
	}
	g.paused = paused
}

func (g *Game) playerMode() component.ControlMode {
	if pl, ok := ecs.Get(g.world, g.scene.Player, component.PlayerComponent.Kind()); ok {
		return pl.Mode
	}
	return component.ControlWASD
}

func (g *Game) toggleMode() {
	next := component.ControlClick
	if g.playerMode() == component.ControlClick {
		next = component.ControlWASD
	}
	if err := entity.SetPlayerMode(g.world, g.scene.Player, next); err != nil {
		g.log.Warn("switch control mode", zap.Error(err))
		return
	}
	g.log.Info("control mode", zap.Stringer("mode", next))
}

// reloadPrefabs applies prefab edits reported by the watcher without
// blocking the frame.
func (g *Game) reloadPrefabs() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyPrefab(name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("prefab watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) applyPrefab(name string) {
	if name == "grid.yaml" {
		grid, err := prefabs.LoadGridSpec()
		if err != nil {
			g.log.Warn("reload prefab", zap.String("name", name), zap.Error(err))
			return
		}
		g.grid = grid
	} else if err := entity.ApplyPrefab(g.world, name); err != nil {
		g.log.Warn("reload prefab", zap.String("name", name), zap.Error(err))
		return
	}
	g.log.Info("prefab reloaded", zap.String("name", name))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	pose, lens, ok := g.cameraView()
	if ok {
		g.drawGrid(screen, pose, lens)
		g.drawAgents(screen, pose, lens)
		if g.debug {
			drawPhysics(screen, g.world.PhysicsWorld(), pose, lens)
		}
	}

	msg := fmt.Sprintf("FPS: %.2f  mode: %s (tab)  esc: pause", ebiten.ActualFPS(), g.playerMode())
	if g.debug {
		msg += fmt.Sprintf("\ntick: %d  time: %.2f  entities: %d", g.world.Tick(), g.world.Time(), len(ecs.Entities(g.world)))
		if ok {
			msg += fmt.Sprintf("\ncamera: (%.2f, %.2f, %.2f) yaw %.1f", pose.Position.X(), pose.Position.Y(), pose.Position.Z(), mgl64.RadToDeg(pose.Yaw))
		}
	}
	ebitenutil.DebugPrint(screen, msg)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
