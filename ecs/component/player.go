package component

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/locomotion"
)

type ControlMode int

const (
	ControlWASD ControlMode = iota
	ControlClick
)

func (m ControlMode) String() string {
	switch m {
	case ControlWASD:
		return "wasd"
	case ControlClick:
		return "click"
	default:
		return fmt.Sprintf("ControlMode(%d)", int(m))
	}
}

// ParseControlMode accepts "wasd" and "click".
func ParseControlMode(s string) (ControlMode, error) {
	switch s {
	case "wasd", "":
		return ControlWASD, nil
	case "click":
		return ControlClick, nil
	}
	return ControlWASD, fmt.Errorf("component: unknown control mode %q", s)
}

// Player holds whichever controller drives the entity plus the outputs an
// animation driver would read.
type Player struct {
	Mode    ControlMode
	TopDown *locomotion.TopDown
	Click   *locomotion.ClickToMove

	SpeedBlend     float64
	AnimHorizontal float64
	AnimVertical   float64
	Jumping        bool
	Falling        bool
	LookTarget     mgl64.Vec3
}

var PlayerComponent = NewComponent[Player]()
