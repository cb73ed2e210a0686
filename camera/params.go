package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Params tunes a Rig. Angles are in degrees here for readability in
// prefabs; the rig works in radians.
type Params struct {
	PositionOffset mgl64.Vec3 `yaml:"position_offset"`
	PitchDeg       float64    `yaml:"pitch"`
	YawDeg         float64    `yaml:"yaw"`

	CameraDampTime float64 `yaml:"camera_damp_time"`
	OffsetDampTime float64 `yaml:"offset_damp_time"`
	MaxOffset      float64 `yaml:"max_offset"`

	MinHeight   float64 `yaml:"min_height"`
	MaxHeight   float64 `yaml:"max_height"`
	MinVertical float64 `yaml:"min_vertical"`
	MaxVertical float64 `yaml:"max_vertical"`
	ZoomSpeed   float64 `yaml:"zoom_speed"`
	ZoomPower   float64 `yaml:"zoom_power"`

	Draggable         bool    `yaml:"draggable"`
	DragStartDistance float64 `yaml:"drag_start_distance"`
	DragMinMove       float64 `yaml:"drag_min_move"`
	MaxDragSpeedDeg   float64 `yaml:"max_drag_speed"`
	// DragStallTimeout leaves drag mode after this many seconds of moves
	// below DragMinMove. Zero disables it.
	DragStallTimeout float64 `yaml:"drag_stall_timeout"`
}

func DefaultParams() Params {
	return Params{
		PositionOffset:    mgl64.Vec3{0, 10, 0},
		PitchDeg:          45,
		CameraDampTime:    0.1,
		OffsetDampTime:    0.25,
		MaxOffset:         0.3,
		MinHeight:         3,
		MaxHeight:         15,
		MinVertical:       0.5,
		MaxVertical:       0.5,
		ZoomSpeed:         15,
		ZoomPower:         5,
		Draggable:         true,
		DragStartDistance: 3,
		DragMinMove:       0.25,
		MaxDragSpeedDeg:   360,
	}
}

func (p Params) Pitch() float64 {
	return mgl64.DegToRad(p.PitchDeg)
}

func (p Params) Yaw() float64 {
	return mgl64.DegToRad(p.YawDeg)
}

// MaxDragSpeed is the orbit speed limit in radians per second.
func (p Params) MaxDragSpeed() float64 {
	return mgl64.DegToRad(p.MaxDragSpeedDeg)
}
