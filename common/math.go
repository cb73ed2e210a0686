package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// Lerp interpolates from a to b with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + Clamp01(t)*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Repeat wraps t into [0, length).
func Repeat(t, length float64) float64 {
	return Clamp(t-math.Floor(t/length)*length, 0, length)
}

// DeltaAngle returns the shortest signed difference target-current in
// radians, in (-pi, pi].
func DeltaAngle(current, target float64) float64 {
	d := Repeat(target-current, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// WrapAngle normalizes an angle to [0, 2pi).
func WrapAngle(a float64) float64 {
	return Repeat(a, 2*math.Pi)
}

func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	return current + math.Copysign(maxDelta, target-current)
}

// MoveTowardsAngle steps current toward target along the shortest arc by at
// most maxDelta radians.
func MoveTowardsAngle(current, target, maxDelta float64) float64 {
	d := DeltaAngle(current, target)
	if -maxDelta < d && d < maxDelta {
		return target
	}
	return MoveTowards(current, current+d, maxDelta)
}

// SmoothDamp is a critically damped spring toward target. velocity is
// carried between calls by the caller.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	omega, exp := dampTerms(smoothTime, dt)

	change := current - target
	originalTo := target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	out := target + (change+temp)*exp

	if (originalTo-current > 0) == (out > originalTo) {
		out = originalTo
		*velocity = 0
	}
	return out
}

// SmoothDampAngle is SmoothDamp along the shortest arc, in radians.
func SmoothDampAngle(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	target = current + DeltaAngle(current, target)
	return SmoothDamp(current, target, velocity, smoothTime, dt)
}

func SmoothDampVec2(current, target mgl64.Vec2, velocity *mgl64.Vec2, smoothTime, dt float64) mgl64.Vec2 {
	if dt <= 0 {
		return current
	}
	omega, exp := dampTerms(smoothTime, dt)

	change := current.Sub(target)
	originalTo := target
	temp := velocity.Add(change.Mul(omega)).Mul(dt)
	*velocity = velocity.Sub(temp.Mul(omega)).Mul(exp)
	out := target.Add(change.Add(temp).Mul(exp))

	if originalTo.Sub(current).Dot(out.Sub(originalTo)) > 0 {
		out = originalTo
		*velocity = mgl64.Vec2{}
	}
	return out
}

func SmoothDampVec3(current, target mgl64.Vec3, velocity *mgl64.Vec3, smoothTime, dt float64) mgl64.Vec3 {
	if dt <= 0 {
		return current
	}
	omega, exp := dampTerms(smoothTime, dt)

	change := current.Sub(target)
	originalTo := target
	temp := velocity.Add(change.Mul(omega)).Mul(dt)
	*velocity = velocity.Sub(temp.Mul(omega)).Mul(exp)
	out := target.Add(change.Add(temp).Mul(exp))

	if originalTo.Sub(current).Dot(out.Sub(originalTo)) > 0 {
		out = originalTo
		*velocity = mgl64.Vec3{}
	}
	return out
}

func dampTerms(smoothTime, dt float64) (omega, exp float64) {
	smoothTime = math.Max(0.0001, smoothTime)
	omega = 2 / smoothTime
	x := omega * dt
	exp = 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
	return omega, exp
}

// Normalize3 returns v scaled to unit length, or the zero vector when v is
// too short to have a direction.
func Normalize3(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

func Normalize2(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l < Epsilon {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / l)
}

func ClampMagnitude2(v mgl64.Vec2, max float64) mgl64.Vec2 {
	if l := v.Len(); l > max && l > 0 {
		return v.Mul(max / l)
	}
	return v
}

func ClampMagnitude3(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if l := v.Len(); l > max && l > 0 {
		return v.Mul(max / l)
	}
	return v
}

// Flatten drops the vertical component.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// XZ projects a world position onto the ground plane as a 2D vector.
func XZ(v mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{v.X(), v.Z()}
}
