package engine

import "github.com/jakecoffman/cp"

// Contact is a pair of bodies that began touching during a step.
type Contact struct {
	A, B *Body
}

// Involves reports whether either body belongs to one of the categories.
func (c Contact) Involves(cat Category) bool {
	return c.A.Category&cat != 0 || c.B.Category&cat != 0
}

// World simulates every body in its scene tree on a Chipmunk space.
type World struct {
	// Gravity in meters per second squared.
	Gravity Vec2
	// PointsPerMeter converts gravity into scene units.
	PointsPerMeter float64

	root     *Node
	space    *cp.Space
	attached []*Body // Bodies in the space, in scene order
	bodies   []*Body
	begun    []Contact
}

// NewWorld creates a world with an empty scene root.
func NewWorld(gravity Vec2, pointsPerMeter float64) *World {
	w := &World{
		Gravity:        gravity,
		PointsPerMeter: pointsPerMeter,
		root:           NewNode("scene"),
		space:          cp.NewSpace(),
	}

	handler := w.space.NewCollisionHandler(bodyCollisionType, bodyCollisionType)
	handler.BeginFunc = w.begin
	handler.PreSolveFunc = w.preSolve
	return w
}

// Root returns the scene root. Bodies are simulated only while attached to it.
func (w *World) Root() *Node {
	return w.root
}

// Step advances the simulation by dt seconds and returns the contacts that
// began during the step.
//
// Bodies attached under the root since the last step join the space, detached
// ones leave it, and every body is moved to its node first. Afterwards dynamic
// nodes take the positions the space integrated.
func (w *World) Step(dt float64) []Contact {
	w.sync()
	w.space.SetGravity(w.Gravity.Scale(w.PointsPerMeter).toCP())

	w.begun = nil
	w.space.Step(dt)

	for _, b := range w.bodies {
		if !b.Dynamic() {
			continue
		}
		var parent Vec2
		if p := b.node.Parent(); p != nil {
			parent = p.WorldPosition()
		}
		b.node.Position = fromCP(b.body.Position()).Sub(parent)
	}

	return w.begun
}

func (w *World) sync() {
	w.bodies = w.bodies[:0]
	w.root.Walk(func(n *Node) {
		if n.body != nil {
			w.bodies = append(w.bodies, n.body)
		}
	})

	current := make(map[*Body]bool, len(w.bodies))
	for _, b := range w.bodies {
		current[b] = true
	}
	inSpace := make(map[*Body]bool, len(w.attached))
	for _, b := range w.attached {
		if !current[b] {
			w.space.RemoveShape(b.shape)
			w.space.RemoveBody(b.body)
			continue
		}
		inSpace[b] = true
	}

	w.attached = w.attached[:0]
	for _, b := range w.bodies {
		if !inSpace[b] {
			w.space.AddBody(b.body)
			w.space.AddShape(b.shape)
		}
		w.attached = append(w.attached, b)

		b.shape.SetSensor(b.Sensor)
		filter := cp.NewShapeFilter(cp.NO_GROUP, uint(b.Category), uint(w.filterMask(b)))
		if filter != b.filter {
			b.shape.SetFilter(filter)
			b.filter = filter
		}

		pos := b.node.WorldPosition().toCP()
		if b.body.Position() != pos {
			b.body.SetPosition(pos)
			if !b.Dynamic() {
				w.space.ReindexShapesForBody(b.body)
			}
		}
	}
}

// filterMask widens b's own masks with the category of every body that
// collides with or listens for b. The space only pairs shapes whose filters
// accept each other.
func (w *World) filterMask(b *Body) Category {
	mask := b.CollisionMask | b.ContactMask
	for _, o := range w.bodies {
		if (o.CollisionMask|o.ContactMask)&b.Category != 0 {
			mask |= o.Category
		}
	}
	return mask
}

func (w *World) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arbiterBodies(arb)
	if a.ContactMask&b.Category != 0 || b.ContactMask&a.Category != 0 {
		w.begun = append(w.begun, Contact{A: a, B: b})
	}
	return true
}

// preSolve runs every step the shapes touch, so mask changes apply at once.
func (w *World) preSolve(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arbiterBodies(arb)
	return pushes(a, b) || pushes(b, a)
}

// pushes reports whether dynamic body a is pushed out of b.
func pushes(a, b *Body) bool {
	return a.Dynamic() && a.CollisionMask&b.Category != 0
}

func arbiterBodies(arb *cp.Arbiter) (*Body, *Body) {
	sa, sb := arb.Shapes()
	return sa.UserData.(*Body), sb.UserData.(*Body)
}
