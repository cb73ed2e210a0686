// Package camera implements a top-down follow camera rig with damped follow,
// scroll zoom and drag-to-orbit.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/common"
)

type DragEvent int

const (
	DragNone DragEvent = iota
	DragStart
	DragMove
	DragEnd
	DragCancel
)

func (e DragEvent) String() string {
	switch e {
	case DragStart:
		return "start"
	case DragMove:
		return "move"
	case DragEnd:
		return "end"
	case DragCancel:
		return "cancel"
	default:
		return "none"
	}
}

type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	if m == Dragging {
		return "dragging"
	}
	return "idle"
}

// Input is one tick of already-resolved camera input.
type Input struct {
	Scroll float64
	Drag   DragEvent
	// Pointer is the ground point under the cursor. It is ignored when
	// PointerValid is false and the last valid point is reused.
	Pointer      mgl64.Vec3
	PointerValid bool
}

// Pose is the camera transform produced for a tick. Angles are radians.
type Pose struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Forward  mgl64.Vec3
}

// State is everything a rig mutates between ticks.
type State struct {
	Base           mgl64.Vec3
	baseVelocity   mgl64.Vec3
	Offset         mgl64.Vec2
	offsetVelocity mgl64.Vec2

	Height         float64
	HeightTarget   float64
	Vertical       float64
	VerticalTarget float64

	Yaw     float64
	Pitch   float64
	Forward mgl64.Vec3

	Mode         Mode
	DragBearing  float64
	dragStall    float64
	lastPoint    mgl64.Vec3
	hasLastPoint bool

	// DragCarry is the part of the base offset at drag start that did not
	// fit in Offset. It stays on Base until the drag ends.
	DragCarry mgl64.Vec2
}

// Rig follows a single target.
type Rig struct {
	params Params
	state  State
}

// NewRig places a rig behind target without damping.
func NewRig(params Params, target mgl64.Vec3) *Rig {
	r := &Rig{params: params}
	r.Reset(target)
	return r
}

// Reset snaps the rig to target, discarding drag and damping state.
func (r *Rig) Reset(target mgl64.Vec3) {
	p := r.params
	s := State{
		Height:   p.PositionOffset.Y(),
		Vertical: p.PositionOffset.Z(),
		Yaw:      p.Yaw(),
		Pitch:    p.Pitch(),
	}
	s.HeightTarget = common.Clamp(s.Height, p.MinHeight, p.MaxHeight)
	s.VerticalTarget = common.Clamp(s.Vertical, p.MinVertical, p.MaxVertical)
	s.Forward = ForwardFromAngles(s.Pitch, s.Yaw)
	s.Base = r.followPoint(&s, target)
	r.state = s
}

func (r *Rig) Params() Params {
	return r.params
}

// SetParams swaps tuning values without resetting the pose. Targets are
// re-clamped to the new bounds.
func (r *Rig) SetParams(p Params) {
	r.params = p
	r.state.HeightTarget = common.Clamp(r.state.HeightTarget, p.MinHeight, p.MaxHeight)
	r.state.VerticalTarget = common.Clamp(r.state.VerticalTarget, p.MinVertical, p.MaxVertical)
}

func (r *Rig) State() State {
	return r.state
}

func (r *Rig) Mode() Mode {
	return r.state.Mode
}

// Pose returns the current camera pose without advancing the rig.
func (r *Rig) Pose() Pose {
	s := &r.state
	return Pose{
		Position: s.Base.Add(mgl64.Vec3{s.Offset.X(), 0, s.Offset.Y()}),
		Yaw:      s.Yaw,
		Pitch:    s.Pitch,
		Forward:  s.Forward,
	}
}

// Tick advances the rig by dt toward target. A non-positive dt skips the
// tick and returns the current pose.
func (r *Rig) Tick(target mgl64.Vec3, in Input, dt float64) Pose {
	if dt <= 0 {
		return r.Pose()
	}
	p := r.params
	s := &r.state

	r.zoom(in.Scroll)
	s.Height = common.Lerp(s.Height, s.HeightTarget, p.ZoomSpeed*dt)
	s.Vertical = common.Lerp(s.Vertical, s.VerticalTarget, p.ZoomSpeed*dt)

	point := r.pointer(target, in)
	r.drag(target, point, in.Drag, dt)

	if s.Mode == Idle {
		offsetTarget := common.ClampMagnitude2(common.XZ(point.Sub(target)), p.MaxOffset)
		s.Offset = common.SmoothDampVec2(s.Offset, offsetTarget, &s.offsetVelocity, p.OffsetDampTime, dt)
		s.Offset = common.ClampMagnitude2(s.Offset, p.MaxOffset)
		s.Base = common.SmoothDampVec3(s.Base, r.followPoint(s, target), &s.baseVelocity, p.CameraDampTime, dt)
	} else {
		s.Base = target.Sub(s.Forward.Mul(s.Height)).Add(mgl64.Vec3{s.DragCarry.X(), 0, s.DragCarry.Y()})
	}
	return r.Pose()
}

func (r *Rig) zoom(scroll float64) {
	if scroll == 0 {
		return
	}
	p := r.params
	s := &r.state
	diff := -p.ZoomPower
	if scroll < 0 {
		diff = p.ZoomPower
	}
	s.HeightTarget = common.Clamp(s.Height+diff, p.MinHeight, p.MaxHeight)
	s.VerticalTarget = common.Clamp(s.Vertical+diff, p.MinVertical, p.MaxVertical)
}

func (r *Rig) pointer(target mgl64.Vec3, in Input) mgl64.Vec3 {
	s := &r.state
	if in.PointerValid {
		s.lastPoint = in.Pointer
		s.hasLastPoint = true
		return in.Pointer
	}
	if s.hasLastPoint {
		return s.lastPoint
	}
	return target
}

func (r *Rig) drag(target, point mgl64.Vec3, ev DragEvent, dt float64) {
	p := r.params
	s := &r.state

	switch ev {
	case DragStart:
		if !p.Draggable || point.Sub(target).Len() <= p.DragStartDistance {
			return
		}
		anchor := target.Sub(s.Forward.Mul(s.Height))
		carried := mgl64.Vec2{
			s.Base.X() - anchor.X() + s.Offset.X(),
			s.Base.Z() - anchor.Z() + s.Offset.Y(),
		}
		s.Offset = common.ClampMagnitude2(carried, p.MaxOffset)
		s.DragCarry = carried.Sub(s.Offset)
		s.offsetVelocity = mgl64.Vec2{}
		s.baseVelocity = mgl64.Vec3{}
		s.DragBearing = Bearing(target, point)
		s.dragStall = 0
		s.Mode = Dragging
	case DragMove:
		if !p.Draggable || s.Mode != Dragging {
			return
		}
		if point.Sub(target).Len() <= p.DragMinMove {
			s.dragStall += dt
			if p.DragStallTimeout > 0 && s.dragStall > p.DragStallTimeout {
				s.Mode = Idle
			}
			return
		}
		s.dragStall = 0
		s.Yaw = OrbitYaw(s.Yaw, s.DragBearing, Bearing(target, point), p.MaxDragSpeed()*dt)
		s.Forward = ForwardFromAngles(s.Pitch, s.Yaw)
	case DragEnd, DragCancel:
		s.Mode = Idle
		s.DragCarry = mgl64.Vec2{}
	}
}

func (r *Rig) followPoint(s *State, target mgl64.Vec3) mgl64.Vec3 {
	anchor := mgl64.Vec3{
		target.X() + r.params.PositionOffset.X(),
		target.Y(),
		target.Z() + s.Vertical,
	}
	return anchor.Sub(s.Forward.Mul(s.Height))
}

// Bearing is the yaw of the ground-plane direction from -> to.
func Bearing(from, to mgl64.Vec3) float64 {
	return math.Atan2(to.X()-from.X(), to.Z()-from.Z())
}

// OrbitYaw turns yaw by the bearing change between the drag reference and
// the current pointer sample, limited to maxStep radians.
func OrbitYaw(yaw, refBearing, bearing, maxStep float64) float64 {
	return common.WrapAngle(common.MoveTowardsAngle(yaw, yaw+(refBearing-bearing), maxStep))
}

// ForwardFromAngles returns the view direction for a pitch (down from the
// horizon) and yaw.
func ForwardFromAngles(pitch, yaw float64) mgl64.Vec3 {
	q := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0}).Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0}))
	return q.Rotate(mgl64.Vec3{0, 0, 1})
}
