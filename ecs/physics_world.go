package ecs

import (
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/topdown/ecs/component"
)

// groundSkin is how far above the ground a body still counts as grounded.
const groundSkin = 1e-3

// cpMu serializes chipmunk body creation. cp numbers bodies from an
// unguarded package counter, so worlds built on different goroutines race.
var cpMu sync.Mutex

// PhysicsWorld owns the chipmunk space. Bodies are kinematic circles on the
// XZ plane (chipmunk X = world X, chipmunk Y = world Z); height is tracked
// against a flat ground plane.
type PhysicsWorld struct {
	space   *cp.Space
	groundY float64

	bodies map[Entity]*cp.Body
}

// NewPhysicsWorld creates an empty space with the ground at height groundY.
func NewPhysicsWorld(groundY float64) *PhysicsWorld {
	cpMu.Lock()
	space := cp.NewSpace()
	cpMu.Unlock()
	space.Iterations = 10
	return &PhysicsWorld{
		space:   space,
		groundY: groundY,
		bodies:  make(map[Entity]*cp.Body),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) GroundY() float64 {
	return pw.groundY
}

func toCP(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}

func filterFor(category, mask uint) cp.ShapeFilter {
	if category == 0 {
		category = 1
	}
	if mask == 0 {
		mask = cp.ALL_CATEGORIES
	}
	return cp.NewShapeFilter(cp.NO_GROUP, category, mask)
}

// EnsureBody registers a kinematic circle for e at pos if it has none yet
// and returns b with its runtime fields filled in.
func (pw *PhysicsWorld) EnsureBody(e Entity, pos mgl64.Vec3, b *component.Body) *component.Body {
	if pw == nil || b == nil || !e.Valid() {
		return b
	}
	if body, ok := pw.bodies[e]; ok {
		b.Body = body
		return b
	}
	radius := b.Radius
	if radius <= 0 {
		radius = 0.5
	}

	cpMu.Lock()
	body := cp.NewKinematicBody()
	cpMu.Unlock()
	body.SetPosition(toCP(pos))
	body.UserData = e
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFilter(filterFor(b.Category, b.Mask))
	shape.UserData = e

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	shape.CacheBB()
	pw.bodies[e] = body

	b.Body = body
	b.Shape = shape
	b.Grounded = pos.Y() <= pw.groundY+groundSkin
	return b
}

// RemoveBody drops the body registered for e.
func (pw *PhysicsWorld) RemoveBody(e Entity) bool {
	if pw == nil {
		return false
	}
	body, ok := pw.bodies[e]
	if !ok {
		return false
	}
	var shapes []*cp.Shape
	body.EachShape(func(s *cp.Shape) {
		shapes = append(shapes, s)
	})
	for _, s := range shapes {
		pw.space.RemoveShape(s)
	}
	pw.space.RemoveBody(body)
	delete(pw.bodies, e)
	return true
}

// HasBody reports whether e has a registered body.
func (pw *PhysicsWorld) HasBody(e Entity) bool {
	if pw == nil {
		return false
	}
	_, ok := pw.bodies[e]
	return ok
}

// BodyEntities returns the entities with registered bodies in ascending order.
func (pw *PhysicsWorld) BodyEntities() []Entity {
	out := make([]Entity, 0, len(pw.bodies))
	for e := range pw.bodies {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Move applies disp to pos, keeps the result on or above the ground and
// syncs the chipmunk body. Collisions are not resolved.
func (pw *PhysicsWorld) Move(e Entity, pos, disp mgl64.Vec3) (next mgl64.Vec3, grounded bool) {
	next = pos.Add(disp)
	if pw == nil {
		return next, false
	}
	if next.Y() <= pw.groundY+groundSkin {
		next[1] = pw.groundY
		grounded = true
	}
	pw.Sync(e, next)
	return next, grounded
}

// Sync moves the body of e to pos without integrating anything. Shape
// bounds are refreshed so Overlap sees the new position before the next Step.
func (pw *PhysicsWorld) Sync(e Entity, pos mgl64.Vec3) {
	if pw == nil {
		return
	}
	body, ok := pw.bodies[e]
	if !ok {
		return
	}
	body.SetPosition(toCP(pos))
	body.EachShape(func(s *cp.Shape) {
		s.CacheBB()
	})
}

// GroundDistance is the height of pos above the ground plane.
func (pw *PhysicsWorld) GroundDistance(pos mgl64.Vec3) float64 {
	if pw == nil {
		return pos.Y()
	}
	return pos.Y() - pw.groundY
}

// Overlap returns the entities whose shapes intersect the horizontal disc of
// radius around center and whose category is in mask. exclude is skipped.
// Results are in ascending entity order.
func (pw *PhysicsWorld) Overlap(center mgl64.Vec3, radius float64, mask uint, exclude Entity) []Entity {
	if pw == nil || radius < 0 {
		return nil
	}
	if mask == 0 {
		mask = cp.ALL_CATEGORIES
	}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask)
	c := toCP(center)

	var out []Entity
	for e, body := range pw.bodies {
		if e == exclude {
			continue
		}
		hit := false
		body.EachShape(func(shape *cp.Shape) {
			if hit || shape.Filter.Reject(filter) {
				return
			}
			hit = shape.PointQuery(c).Distance < radius
		})
		if hit {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Step advances the chipmunk space.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}
