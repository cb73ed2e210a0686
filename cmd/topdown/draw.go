package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/steering"
	"golang.org/x/image/colornames"
)

// lineSegments splits each grid line so parts behind the camera can be
// dropped without clipping.
const lineSegments = 8

var (
	backgroundColor = color.RGBA{R: 0x18, G: 0x18, B: 0x1c, A: 0xff}
	gridColor       = color.RGBA{R: 0x3a, G: 0x3a, B: 0x3a, A: 0xff}
	axisColor       = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}
)

func (g *Game) cameraView() (camera.Pose, camera.Lens, bool) {
	e, ok := ecs.First(g.world, component.CameraComponent.Kind())
	if !ok {
		return camera.Pose{}, camera.Lens{}, false
	}
	cam, _ := ecs.Get(g.world, e, component.CameraComponent.Kind())
	return cam.Pose, cam.Lens, true
}

// drawGrid draws ground lines every Spacing units out to +-Size, with the
// two axes highlighted and numbered.
func (g *Game) drawGrid(screen *ebiten.Image, pose camera.Pose, lens camera.Lens) {
	spec := g.grid
	if spec == nil || spec.Spacing <= 0 {
		return
	}
	lineColor, mainColor := color.Color(gridColor), color.Color(axisColor)
	if spec.Color != nil {
		lineColor = spec.Color
	}
	if spec.AxisColor != nil {
		mainColor = spec.AxisColor
	}

	n := int(math.Floor(spec.Size / spec.Spacing))
	extent := float64(n) * spec.Spacing
	for i := -n; i <= n; i++ {
		v := float64(i) * spec.Spacing
		c := lineColor
		if i == 0 {
			c = mainColor
		}
		drawGroundLine(screen, pose, lens, mgl64.Vec3{v, 0, -extent}, mgl64.Vec3{v, 0, extent}, c)
		drawGroundLine(screen, pose, lens, mgl64.Vec3{-extent, 0, v}, mgl64.Vec3{extent, 0, v}, c)

		if !spec.Labels || i == 0 || i%spec.LabelEvery != 0 {
			continue
		}
		g.drawLabel(screen, pose, lens, mgl64.Vec3{v, 0, 0}, fmt.Sprintf("%g", v), mainColor)
		g.drawLabel(screen, pose, lens, mgl64.Vec3{0, 0, v}, fmt.Sprintf("%g", v), mainColor)
	}
}

func drawGroundLine(screen *ebiten.Image, pose camera.Pose, lens camera.Lens, from, to mgl64.Vec3, c color.Color) {
	step := to.Sub(from).Mul(1.0 / lineSegments)
	prev := from
	px, py, pok := camera.WorldToScreen(pose, lens, prev)
	for i := 1; i <= lineSegments; i++ {
		next := from.Add(step.Mul(float64(i)))
		nx, ny, nok := camera.WorldToScreen(pose, lens, next)
		if pok && nok {
			vector.StrokeLine(screen, float32(px), float32(py), float32(nx), float32(ny), 1, c, true)
		}
		px, py, pok = nx, ny, nok
	}
}

func (g *Game) drawLabel(screen *ebiten.Image, pose camera.Pose, lens camera.Lens, at mgl64.Vec3, label string, c color.Color) {
	sx, sy, ok := camera.WorldToScreen(pose, lens, at)
	if !ok {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(sx+3, sy+3)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, label, g.face, op)
}

func (g *Game) drawAgents(screen *ebiten.Image, pose camera.Pose, lens camera.Lens) {
	ecs.ForEach2(g.world, component.SteeringComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, s *component.Steering, t *component.Transform) {
		c := colornames.Tomato
		if !s.Moving {
			c = colornames.Orange
		}
		drawAgent(screen, pose, lens, t, g.radius(e), c)
		if g.debug {
			strokeGroundCircle(screen, pose, lens, t.Position, s.Params.DetectionRadius, colornames.Dimgray)
		}
	})

	ecs.ForEach2(g.world, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pl *component.Player, t *component.Transform) {
		drawAgent(screen, pose, lens, t, g.radius(e), colornames.Royalblue)
		if pl.Mode == component.ControlClick && pl.Click != nil && pl.Click.State.MovePoint.Valid {
			strokeGroundCircle(screen, pose, lens, pl.Click.State.MovePoint.Position, 0.2, colornames.Lightgreen)
		}
		if g.debug && pl.Mode == component.ControlWASD {
			look := pl.LookTarget
			look[1] = t.Position.Y()
			drawSegment(screen, pose, lens, t.Position, look, colornames.Gold)
		}
	})
}

func (g *Game) radius(e ecs.Entity) float64 {
	if b, ok := ecs.Get(g.world, e, component.BodyComponent.Kind()); ok && b.Radius > 0 {
		return b.Radius
	}
	return 0.5
}

func drawAgent(screen *ebiten.Image, pose camera.Pose, lens camera.Lens, t *component.Transform, radius float64, c color.Color) {
	cx, cy, ok := camera.WorldToScreen(pose, lens, t.Position)
	if !ok {
		return
	}
	r := screenRadius(pose, lens, t.Position, radius, cx, cy)
	vector.FillCircle(screen, float32(cx), float32(cy), float32(r), c, true)
	drawSegment(screen, pose, lens, t.Position, t.Position.Add(steering.Forward(t.Heading).Mul(radius*1.6)), colornames.White)
}

func strokeGroundCircle(screen *ebiten.Image, pose camera.Pose, lens camera.Lens, center mgl64.Vec3, radius float64, c color.Color) {
	cx, cy, ok := camera.WorldToScreen(pose, lens, center)
	if !ok || radius <= 0 {
		return
	}
	r := screenRadius(pose, lens, center, radius, cx, cy)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), 1, c, true)
}

func drawSegment(screen *ebiten.Image, pose camera.Pose, lens camera.Lens, from, to mgl64.Vec3, c color.Color) {
	ax, ay, aok := camera.WorldToScreen(pose, lens, from)
	bx, by, bok := camera.WorldToScreen(pose, lens, to)
	if aok && bok {
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 2, c, true)
	}
}

// screenRadius approximates a ground radius in pixels by projecting a point
// to the camera's right.
func screenRadius(pose camera.Pose, lens camera.Lens, center mgl64.Vec3, radius, cx, cy float64) float64 {
	right := mgl64.Vec3{math.Cos(pose.Yaw), 0, -math.Sin(pose.Yaw)}
	ex, ey, ok := camera.WorldToScreen(pose, lens, center.Add(right.Mul(radius)))
	if !ok {
		return 2
	}
	return math.Max(2, math.Hypot(ex-cx, ey-cy))
}
