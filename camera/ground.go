package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/common"
)

type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// GroundPlane is a horizontal plane at height Y.
type GroundPlane struct {
	Y float64
}

// Raycast intersects r with the plane. ok is false when the ray is parallel
// to the plane or points away from it.
func (g GroundPlane) Raycast(r Ray) (mgl64.Vec3, bool) {
	dy := r.Direction.Y()
	if math.Abs(dy) < common.Epsilon {
		return mgl64.Vec3{}, false
	}
	t := (g.Y - r.Origin.Y()) / dy
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return r.At(t), true
}

// Lens describes a perspective projection for turning screen points into
// rays.
type Lens struct {
	FovYDeg       float64
	Width, Height float64
}

// ScreenRay returns the world ray through screen pixel (sx, sy) for a
// camera at pose. Screen y grows downward.
func ScreenRay(pose Pose, lens Lens, sx, sy float64) Ray {
	if lens.Width <= 0 || lens.Height <= 0 {
		return Ray{Origin: pose.Position, Direction: pose.Forward}
	}
	view, proj := matrices(pose, lens)
	win := mgl64.Vec3{sx / lens.Width, 1 - sy/lens.Height, 0}
	near, err := mgl64.UnProject(win, view, proj, 0, 0, 1, 1)
	if err != nil {
		return Ray{Origin: pose.Position, Direction: pose.Forward}
	}
	win[2] = 1
	far, err := mgl64.UnProject(win, view, proj, 0, 0, 1, 1)
	if err != nil {
		return Ray{Origin: pose.Position, Direction: pose.Forward}
	}
	return Ray{Origin: pose.Position, Direction: common.Normalize3(far.Sub(near))}
}

// WorldToScreen projects p to screen pixels for a camera at pose. ok is
// false for points at or behind the near plane.
func WorldToScreen(pose Pose, lens Lens, p mgl64.Vec3) (sx, sy float64, ok bool) {
	if lens.Width <= 0 || lens.Height <= 0 {
		return 0, 0, false
	}
	view, proj := matrices(pose, lens)
	if -view.Mul4x1(p.Vec4(1)).Z() <= nearPlane {
		return 0, 0, false
	}
	win := mgl64.Project(p, view, proj, 0, 0, 1, 1)
	return win.X() * lens.Width, (1 - win.Y()) * lens.Height, true
}

const (
	nearPlane = 0.05
	farPlane  = 500
)

// matrices builds the view and projection for pose. World space is
// left-handed (+X right when facing +Z), so the view's x axis is mirrored.
func matrices(pose Pose, lens Lens) (view, proj mgl64.Mat4) {
	q := mgl64.QuatRotate(pose.Yaw, mgl64.Vec3{0, 1, 0}).Mul(mgl64.QuatRotate(pose.Pitch, mgl64.Vec3{1, 0, 0}))
	forward, up := q.Rotate(mgl64.Vec3{0, 0, 1}), q.Rotate(mgl64.Vec3{0, 1, 0})
	view = mgl64.Scale3D(-1, 1, 1).Mul4(mgl64.LookAtV(pose.Position, pose.Position.Add(forward), up))
	proj = mgl64.Perspective(mgl64.DegToRad(lens.FovYDeg), lens.Width/lens.Height, nearPlane, farPlane)
	return view, proj
}
