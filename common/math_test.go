package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestLerpClampsFactor(t *testing.T) {
	cases := []struct {
		name    string
		a, b, t float64
		want    float64
	}{
		{"zero", 2, 4, 0, 2},
		{"half", 2, 4, 0.5, 3},
		{"one", 2, 4, 1, 4},
		{"above_one", 2, 4, 7, 4},
		{"negative", 2, 4, -1, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, Lerp(c.a, c.b, c.t), 1e-12)
		})
	}
}

func TestDeltaAngle(t *testing.T) {
	cases := []struct {
		name            string
		current, target float64
		want            float64
	}{
		{"same", 1, 1, 0},
		{"quarter", 0, math.Pi / 2, math.Pi / 2},
		{"wrap_forward", 350 * math.Pi / 180, 10 * math.Pi / 180, 20 * math.Pi / 180},
		{"wrap_backward", 10 * math.Pi / 180, 350 * math.Pi / 180, -20 * math.Pi / 180},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, DeltaAngle(c.current, c.target), 1e-9)
		})
	}
}

func TestMoveTowardsAngleLimitsStep(t *testing.T) {
	got := MoveTowardsAngle(0, math.Pi/2, 0.1)
	assert.InDelta(t, 0.1, got, 1e-12)

	got = MoveTowardsAngle(0, -math.Pi/2, 0.1)
	assert.InDelta(t, -0.1, got, 1e-12)

	got = MoveTowardsAngle(0, 0.05, 0.1)
	assert.InDelta(t, 0.05, got, 1e-12)
}

func TestSmoothDampConverges(t *testing.T) {
	v := 0.0
	x := 0.0
	for i := 0; i < 200; i++ {
		x = SmoothDamp(x, 10, &v, 0.1, 1.0/60)
		assert.LessOrEqual(t, x, 10.0)
	}
	assert.InDelta(t, 10, x, 1e-3)
}

func TestSmoothDampZeroDeltaIsIdentity(t *testing.T) {
	v := 3.0
	got := SmoothDamp(1, 5, &v, 0.2, 0)
	assert.Equal(t, 1.0, got)
	assert.Equal(t, 3.0, v)

	vel := mgl64.Vec3{1, 2, 3}
	p := SmoothDampVec3(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{4, 4, 4}, &vel, 0.2, 0)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, p)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, vel)
}

func TestSmoothDampVec2NoOvershoot(t *testing.T) {
	var vel mgl64.Vec2
	cur := mgl64.Vec2{}
	target := mgl64.Vec2{3, -4}
	for i := 0; i < 600; i++ {
		cur = SmoothDampVec2(cur, target, &vel, 0.25, 1.0/60)
		assert.LessOrEqual(t, cur.Len(), target.Len()+1e-9)
	}
	assert.InDelta(t, 3, cur.X(), 1e-3)
	assert.InDelta(t, -4, cur.Y(), 1e-3)
}

func TestSmoothDampAngleTakesShortArc(t *testing.T) {
	v := 0.0
	from := 350 * math.Pi / 180
	to := 10 * math.Pi / 180
	got := SmoothDampAngle(from, to, &v, 0.1, 1.0/60)
	assert.Greater(t, got, from)
}

func TestNormalizeZeroVector(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{}, Normalize3(mgl64.Vec3{}))
	assert.Equal(t, mgl64.Vec2{}, Normalize2(mgl64.Vec2{}))
	assert.InDelta(t, 1, Normalize3(mgl64.Vec3{0, 0, 7}).Len(), 1e-12)
}

func TestClampMagnitude(t *testing.T) {
	got := ClampMagnitude2(mgl64.Vec2{3, 4}, 1)
	assert.InDelta(t, 1, got.Len(), 1e-12)
	assert.InDelta(t, 0.6, got.X(), 1e-12)

	short := ClampMagnitude2(mgl64.Vec2{0.1, 0}, 1)
	assert.Equal(t, mgl64.Vec2{0.1, 0}, short)
}
