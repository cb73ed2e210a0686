// Package steering moves a boid follower toward a target while keeping it
// apart from, aligned with and close to its neighbors.
package steering

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/common"
)

var up = mgl64.Vec3{0, 1, 0}

// Pose is a world position with a yaw heading in radians. Yaw 0 faces +Z and
// yaw pi/2 faces +X.
type Pose struct {
	Position mgl64.Vec3
	Heading  float64
}

// Agent is the per-tick state of one follower.
type Agent struct {
	Pose       Pose
	SpeedBlend float64
}

// Target is an optional seek destination.
type Target struct {
	Valid    bool
	Position mgl64.Vec3
}

// TargetAt returns a valid target at p.
func TargetAt(p mgl64.Vec3) Target {
	return Target{Valid: true, Position: p}
}

// Neighbor is a nearby agent as seen by the querying agent.
type Neighbor struct {
	Position mgl64.Vec3
	Heading  float64
}

type Params struct {
	Speed           float64 `yaml:"speed"`
	RotationSpeed   float64 `yaml:"rotation_speed"`
	StopDistance    float64 `yaml:"stop_distance"`
	DetectionRadius float64 `yaml:"detection_radius"`
}

// DefaultParams matches the enemy prefab defaults.
func DefaultParams() Params {
	return Params{
		Speed:           4,
		RotationSpeed:   8,
		StopDistance:    1.5,
		DetectionRadius: 1,
	}
}

type Result struct {
	// Displacement is the world-space move for this tick. Its length never
	// exceeds Speed*dt.
	Displacement mgl64.Vec3
	// DesiredHeading faces the raw seek direction, ignoring boid forces.
	DesiredHeading float64
	// Heading is the current heading turned toward DesiredHeading.
	Heading    float64
	SpeedBlend float64
	Moving     bool
}

// Step advances one agent by dt. A non-positive dt returns the agent's
// state unchanged.
func Step(agent Agent, target Target, neighbors []Neighbor, params Params, dt float64) Result {
	res := Result{
		DesiredHeading: agent.Pose.Heading,
		Heading:        agent.Pose.Heading,
		SpeedBlend:     agent.SpeedBlend,
	}
	if dt <= 0 {
		return res
	}

	blendRate := params.Speed * dt
	if !target.Valid {
		res.SpeedBlend = common.Lerp(agent.SpeedBlend, 0, blendRate)
		return res
	}

	pos := agent.Pose.Position
	seek := common.Flatten(target.Position.Sub(pos))
	distance := seek.Len()

	var force mgl64.Vec3
	if len(neighbors) > 0 {
		force = Separation(pos, neighbors).
			Add(Alignment(neighbors)).
			Add(Cohesion(pos, neighbors))
		force = common.Flatten(force)
	}

	if distance > params.StopDistance {
		dir := common.Normalize3(common.Normalize3(seek).Add(force))
		res.Displacement = dir.Mul(params.Speed * dt)
		res.SpeedBlend = common.Lerp(agent.SpeedBlend, 1, blendRate)
		res.Moving = true
	} else {
		res.SpeedBlend = common.Lerp(agent.SpeedBlend, 0, blendRate)
	}

	if distance >= common.Epsilon {
		res.DesiredHeading = YawOf(seek)
		res.Heading = TurnTowards(agent.Pose.Heading, res.DesiredHeading, params.RotationSpeed*dt)
	}
	return res
}

// Separation sums -dir/distance over neighbors, skipping coincident ones.
func Separation(pos mgl64.Vec3, neighbors []Neighbor) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, n := range neighbors {
		dir := n.Position.Sub(pos)
		d := dir.Len()
		if d < common.Epsilon {
			continue
		}
		away := dir.Mul(-1 / d)
		sum = sum.Add(away.Mul(1 / d))
	}
	return sum
}

// Alignment is the normalized sum of neighbor forward vectors.
func Alignment(neighbors []Neighbor) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, n := range neighbors {
		sum = sum.Add(Forward(n.Heading))
	}
	return common.Normalize3(sum)
}

// Cohesion points from pos toward the neighbors' centroid.
func Cohesion(pos mgl64.Vec3, neighbors []Neighbor) mgl64.Vec3 {
	if len(neighbors) == 0 {
		return mgl64.Vec3{}
	}
	var centroid mgl64.Vec3
	for _, n := range neighbors {
		centroid = centroid.Add(n.Position)
	}
	centroid = centroid.Mul(1 / float64(len(neighbors)))
	return common.Normalize3(centroid.Sub(pos))
}

// Forward returns the ground-plane unit vector for a yaw.
func Forward(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// YawOf returns the yaw facing along v on the ground plane.
func YawOf(v mgl64.Vec3) float64 {
	return math.Atan2(v.X(), v.Z())
}

// TurnTowards spherically interpolates a yaw toward target by factor t,
// clamped to [0, 1].
func TurnTowards(current, target, t float64) float64 {
	t = common.Clamp01(t)
	q1 := mgl64.QuatRotate(current, up)
	q2 := mgl64.QuatRotate(target, up)
	if q1.Dot(q2) < 0 {
		q2 = q2.Scale(-1)
	}
	q := mgl64.QuatSlerp(q1, q2, t)
	return YawOf(q.Rotate(mgl64.Vec3{0, 0, 1}))
}
