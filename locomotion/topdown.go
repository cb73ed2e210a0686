package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/common"
	"github.com/milk9111/topdown/steering"
)

const (
	snapStep  = math.Pi / 4
	turnLimit = math.Pi / 2
)

type TopDownParams struct {
	MoveSpeed              float64 `yaml:"move_speed"`
	JumpHeight             float64 `yaml:"jump_height"`
	Gravity                float64 `yaml:"gravity"`
	DampSmoothTimeRotation float64 `yaml:"damp_smooth_time_rotation"`
	DampSmoothTimeIK       float64 `yaml:"damp_smooth_time_ik"`
	AnimatorSmoothTime     float64 `yaml:"animator_smooth_time"`
	LookLimitDeg           float64 `yaml:"look_limit"`
	LookDistance           float64 `yaml:"look_distance"`
	HeadHeight             float64 `yaml:"head_height"`
	FallDistance           float64 `yaml:"fall_distance"`
}

func DefaultTopDownParams() TopDownParams {
	return TopDownParams{
		MoveSpeed:              5,
		JumpHeight:             4,
		Gravity:                10,
		DampSmoothTimeRotation: 0.25,
		DampSmoothTimeIK:       0.4,
		AnimatorSmoothTime:     0.15,
		LookLimitDeg:           60,
		LookDistance:           10,
		HeadHeight:             1.6,
		FallDistance:           0.2,
	}
}

type TopDownInput struct {
	// Move is the raw keyboard vector: x right, y forward.
	Move         mgl64.Vec2
	Jump         bool
	Pointer      mgl64.Vec3
	PointerValid bool
	CameraYaw    float64
	Grounded     bool
	// GroundDistance is the height above the ground while airborne.
	GroundDistance float64
}

type TopDownState struct {
	ForwardAngle        float64
	LookAngle           float64
	RotationAngle       float64
	TargetRotationAngle float64
	VerticalSpeed       float64
	Jumping             bool
	Falling             bool

	// carry is the horizontal step kept while airborne.
	carry           mgl64.Vec2
	angularVelocity float64
	AnimHorizontal  float64
	AnimVertical    float64
	animHVelocity   float64
	animVVelocity   float64
	LookDelta       float64
	lookVelocity    float64
}

type TopDownResult struct {
	Displacement   mgl64.Vec3
	Heading        float64
	AnimHorizontal float64
	AnimVertical   float64
	// Walking is true when keyboard input moved the character.
	Walking bool
	Jumped  bool
	Falling bool
	// LookTarget is where the head should look.
	LookTarget mgl64.Vec3
}

// TopDown is a WASD controller whose movement is relative to the camera
// yaw and whose body turns toward the pointer in 45 degree steps.
type TopDown struct {
	Params TopDownParams
	State  TopDownState
}

func NewTopDown(p TopDownParams) *TopDown {
	return &TopDown{
		Params: p,
		State: TopDownState{
			ForwardAngle:        math.Pi,
			LookAngle:           math.Pi,
			RotationAngle:       math.Pi,
			TargetRotationAngle: math.Pi,
		},
	}
}

func (c *TopDown) Step(pos mgl64.Vec3, in TopDownInput, dt float64) TopDownResult {
	s := &c.State
	p := c.Params
	if dt <= 0 {
		return c.result(pos, mgl64.Vec3{}, false, false)
	}

	walking, jumped := false, false
	if in.Grounded {
		s.VerticalSpeed = 0
		s.Jumping = false
		move := in.Move

		if in.Jump {
			move = mgl64.Vec2{}
			s.VerticalSpeed = p.JumpHeight
			s.Jumping = true
			jumped = true
		}
		s.Falling = false

		move = common.Normalize2(move)
		move = rotateByYaw(move, in.CameraYaw).Mul(p.MoveSpeed * dt)

		if move.Len() >= common.Epsilon {
			walking = true
			s.ForwardAngle = steering.YawOf(mgl64.Vec3{move.X(), 0, move.Y()})
			s.carry = move
		} else if !s.Jumping {
			s.carry = mgl64.Vec2{}
		}

		if in.PointerValid {
			s.LookAngle = bearing(pos, in.Pointer)
		}

		if walking {
			delta := common.DeltaAngle(s.LookAngle, s.ForwardAngle)
			diff := math.RoundToEven(delta/snapStep) * snapStep
			s.TargetRotationAngle = s.ForwardAngle - diff
			s.AnimHorizontal = common.SmoothDamp(s.AnimHorizontal, math.Round(math.Sin(diff)), &s.animHVelocity, p.AnimatorSmoothTime, dt)
			s.AnimVertical = common.SmoothDamp(s.AnimVertical, math.Round(math.Cos(diff)), &s.animVVelocity, p.AnimatorSmoothTime, dt)
		} else {
			delta := common.DeltaAngle(s.ForwardAngle, s.LookAngle)
			if delta < -turnLimit {
				s.ForwardAngle -= turnLimit
				s.TargetRotationAngle = s.ForwardAngle
			}
			if delta > turnLimit {
				s.ForwardAngle += turnLimit
				s.TargetRotationAngle = s.ForwardAngle
			}
			s.AnimHorizontal = common.SmoothDamp(s.AnimHorizontal, 0, &s.animHVelocity, p.AnimatorSmoothTime, dt)
			s.AnimVertical = common.SmoothDamp(s.AnimVertical, 0, &s.animVVelocity, p.AnimatorSmoothTime, dt)
		}

		if math.Abs(common.DeltaAngle(s.RotationAngle, s.TargetRotationAngle)) > 1e-6 {
			s.RotationAngle = common.SmoothDampAngle(s.RotationAngle, s.TargetRotationAngle, &s.angularVelocity, p.DampSmoothTimeRotation, dt)
		}
	} else {
		if in.PointerValid {
			s.LookAngle = bearing(pos, in.Pointer)
		}
		s.Jumping = true
		s.Falling = in.GroundDistance > p.FallDistance
	}

	disp := mgl64.Vec3{s.carry.X(), 0, s.carry.Y()}
	if in.Grounded && !s.Jumping {
		disp[1] = -p.Gravity * dt
	} else {
		disp[1] = s.VerticalSpeed * dt
	}
	s.VerticalSpeed -= p.Gravity * dt

	c.look(dt)
	return c.result(pos, disp, walking, jumped)
}

// look eases the head toward the pointer within the look limit.
func (c *TopDown) look(dt float64) {
	s := &c.State
	limit := mgl64.DegToRad(c.Params.LookLimitDeg)
	target := common.Clamp(common.DeltaAngle(s.RotationAngle, s.LookAngle), -limit, limit)
	s.LookDelta = common.SmoothDampAngle(s.LookDelta, target, &s.lookVelocity, c.Params.DampSmoothTimeIK, dt)
}

func (c *TopDown) result(pos, disp mgl64.Vec3, walking, jumped bool) TopDownResult {
	s := &c.State
	look := pos.Add(steering.Forward(s.RotationAngle + s.LookDelta).Mul(c.Params.LookDistance))
	look[1] = pos.Y() + c.Params.HeadHeight
	return TopDownResult{
		Displacement:   disp,
		Heading:        s.RotationAngle,
		AnimHorizontal: s.AnimHorizontal,
		AnimVertical:   s.AnimVertical,
		Walking:        walking,
		Jumped:         jumped,
		Falling:        s.Falling,
		LookTarget:     look,
	}
}

// rotateByYaw maps a screen-relative move (x right, y forward) onto the
// ground plane for a camera facing yaw.
func rotateByYaw(v mgl64.Vec2, yaw float64) mgl64.Vec2 {
	sin, cos := math.Sincos(yaw)
	return mgl64.Vec2{
		v.X()*cos + v.Y()*sin,
		-v.X()*sin + v.Y()*cos,
	}
}

func bearing(from, to mgl64.Vec3) float64 {
	return math.Atan2(to.X()-from.X(), to.Z()-from.Z())
}
