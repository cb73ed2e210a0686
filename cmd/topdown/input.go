package main

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// deviceInput polls keyboard and mouse once per step. The pointer is the
// ground point under the cursor as seen by the first camera.
type deviceInput struct {
	ground   camera.GroundPlane
	dragging bool
	// cancel ends an open drag on the next read.
	cancel bool
}

func (d *deviceInput) Read(w *ecs.World) (component.Input, error) {
	var in component.Input

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Move[0]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Move[0]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Move[1]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Move[1]--
	}
	in.Jump = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Click = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.Hold = ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	_, wy := ebiten.Wheel()
	in.Scroll = wy

	in.Drag = d.drag()
	in.Pointer, in.PointerValid = d.pointer(w)
	return in, nil
}

func (d *deviceInput) drag() camera.DragEvent {
	if d.cancel {
		d.cancel = false
		if d.dragging {
			d.dragging = false
			return camera.DragCancel
		}
	}
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		d.dragging = true
		return camera.DragStart
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle):
		if d.dragging {
			d.dragging = false
			return camera.DragEnd
		}
	case d.dragging:
		return camera.DragMove
	}
	return camera.DragNone
}

func (d *deviceInput) pointer(w *ecs.World) (mgl64.Vec3, bool) {
	e, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, false
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
	cx, cy := ebiten.CursorPosition()
	return d.ground.Raycast(camera.ScreenRay(cam.Pose, cam.Lens, float64(cx), float64(cy)))
}
