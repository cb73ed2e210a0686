// Package locomotion holds the player movement controllers: a click-to-move
// walker and a WASD top-down controller.
package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/common"
	"github.com/milk9111/topdown/steering"
)

type ClickParams struct {
	Speed         float64 `yaml:"speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	ArriveRadius  float64 `yaml:"arrive_radius"`
}

func DefaultClickParams() ClickParams {
	return ClickParams{Speed: 5, RotationSpeed: 10, ArriveRadius: 0.05}
}

type ClickInput struct {
	// Click is true while the move button is held.
	Click bool
	// Hold turns the player toward the pointer in place.
	Hold         bool
	Pointer      mgl64.Vec3
	PointerValid bool
}

type ClickState struct {
	MovePoint     steering.Target
	Direction     mgl64.Vec3
	TargetHeading float64
	Heading       float64
	SpeedBlend    float64
}

type ClickResult struct {
	Displacement mgl64.Vec3
	Heading      float64
	SpeedBlend   float64
	Moving       bool
}

// ClickToMove walks toward the last clicked ground point.
type ClickToMove struct {
	Params ClickParams
	State  ClickState
}

func NewClickToMove(p ClickParams, heading float64) *ClickToMove {
	return &ClickToMove{Params: p, State: ClickState{Heading: heading, TargetHeading: heading}}
}

func (c *ClickToMove) Step(pos mgl64.Vec3, in ClickInput, dt float64) ClickResult {
	s := &c.State
	if dt <= 0 {
		return ClickResult{Heading: s.Heading, SpeedBlend: s.SpeedBlend}
	}
	p := c.Params
	ground := common.Flatten(pos)

	switch {
	case in.Hold:
		s.MovePoint = steering.Target{}
		if in.PointerValid {
			if dir := common.Flatten(in.Pointer).Sub(ground); dir.Len() >= common.Epsilon {
				s.TargetHeading = steering.YawOf(dir)
				s.Heading = steering.TurnTowards(s.Heading, s.TargetHeading, p.RotationSpeed*dt)
			}
		}
	case in.Click && in.PointerValid:
		point := common.Flatten(in.Pointer)
		s.MovePoint = steering.TargetAt(point)
		s.Direction = point.Sub(ground)
		if s.Direction.Len() >= common.Epsilon {
			s.TargetHeading = steering.YawOf(s.Direction)
		}
	}

	remaining := 0.0
	if s.MovePoint.Valid {
		remaining = s.MovePoint.Position.Sub(ground).Len()
	}
	if !s.MovePoint.Valid || remaining <= p.ArriveRadius {
		s.MovePoint = steering.Target{}
		s.SpeedBlend = common.Lerp(s.SpeedBlend, 0, p.Speed*dt)
		return ClickResult{Heading: s.Heading, SpeedBlend: s.SpeedBlend}
	}

	step := p.Speed * dt
	disp := common.Normalize3(s.Direction).Mul(step)
	disp = common.ClampMagnitude3(disp, remaining)
	s.SpeedBlend = common.Lerp(s.SpeedBlend, 1, step)
	s.Heading = steering.TurnTowards(s.Heading, s.TargetHeading, p.RotationSpeed*dt)

	return ClickResult{Displacement: disp, Heading: s.Heading, SpeedBlend: s.SpeedBlend, Moving: true}
}
