package engine

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Category is a collision category bitmask.
type Category uint32

// CategoryAll matches every category.
const CategoryAll Category = 0xFFFFFFFF

// bodyCollisionType tags every shape so one handler sees all pairs.
const bodyCollisionType cp.CollisionType = 1

// Body is a physics body attached to a node, backed by a Chipmunk body and
// shape.
//
// CollisionMask selects the categories a dynamic body is physically pushed
// out of; ContactMask selects the categories that produce contact-begin
// notifications. A contact is reported when either body's ContactMask
// matches the other's Category. Sensor bodies report contacts but never push.
type Body struct {
	Shape         Shape
	Category      Category
	CollisionMask Category
	ContactMask   Category
	Sensor        bool

	body   *cp.Body
	shape  *cp.Shape
	filter cp.ShapeFilter
	node   *Node
}

func newBody(b *cp.Body, shape Shape) *Body {
	out := &Body{
		Shape:         shape,
		Category:      CategoryAll,
		CollisionMask: CategoryAll,
		body:          b,
	}
	out.shape = shape.attach(b)
	out.shape.UserData = out
	out.shape.SetCollisionType(bodyCollisionType)
	return out
}

// NewBody creates a dynamic body of unit mass that collides with everything
// and reports no contacts. Its rotation is locked.
func NewBody(shape Shape) *Body {
	return newBody(cp.NewBody(1, math.Inf(1)), shape)
}

// NewStaticBody creates a body that never moves under simulation. It follows
// its node when the node is moved.
func NewStaticBody(shape Shape) *Body {
	return newBody(cp.NewStaticBody(), shape)
}

// AreaMass returns the mass of shape at unit density, measuring area in
// square meters.
func AreaMass(shape Shape, pointsPerMeter float64) float64 {
	return shape.area() / (pointsPerMeter * pointsPerMeter)
}

// Node returns the node the body is attached to, or nil.
func (b *Body) Node() *Node {
	return b.node
}

// Dynamic reports whether the body moves under simulation.
func (b *Body) Dynamic() bool {
	return b.body.GetType() == cp.BODY_DYNAMIC
}

// Mass returns the body's mass. Static bodies have infinite mass.
func (b *Body) Mass() float64 {
	return b.body.Mass()
}

// SetMass sets the mass of a dynamic body.
// It panics for static bodies and for masses that are not positive and finite.
func (b *Body) SetMass(m float64) {
	if !b.Dynamic() {
		panic("engine: mass set on a static body")
	}
	if m <= 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		panic("engine: body mass must be positive and finite")
	}
	b.body.SetMass(m)
}

// Velocity returns the body's velocity in points per second.
func (b *Body) Velocity() Vec2 {
	return fromCP(b.body.Velocity())
}

// SetVelocity sets the velocity of a dynamic body. Static bodies ignore it.
func (b *Body) SetVelocity(v Vec2) {
	if !b.Dynamic() {
		return
	}
	b.body.SetVelocityVector(v.toCP())
}

// ApplyImpulse changes the velocity of a dynamic body by impulse / mass.
// Static bodies ignore impulses.
func (b *Body) ApplyImpulse(impulse Vec2) {
	if !b.Dynamic() {
		return
	}
	b.body.ApplyImpulseAtWorldPoint(impulse.toCP(), b.body.Position())
}
