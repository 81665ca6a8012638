package engine

import "github.com/jakecoffman/cp"

// ShapeKind identifies the geometry of a Shape.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// Shape is a collision shape centred on its node's position.
type Shape struct {
	Kind   ShapeKind
	Radius float64 // ShapeCircle
	Size   Vec2    // ShapeRect, full width and height
}

// Circle returns a circle shape of radius r.
func Circle(r float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: r}
}

// Rectangle returns an axis-aligned rectangle shape of size w×h.
func Rectangle(w, h float64) Shape {
	return Shape{Kind: ShapeRect, Size: V(w, h)}
}

// attach creates the Chipmunk shape for s on body.
func (s Shape) attach(body *cp.Body) *cp.Shape {
	if s.Kind == ShapeCircle {
		return cp.NewCircle(body, s.Radius, cp.Vector{})
	}
	return cp.NewBox(body, s.Size.X, s.Size.Y, 0)
}

// area returns the shape's area in square points.
func (s Shape) area() float64 {
	if s.Kind == ShapeCircle {
		return cp.AreaForCircle(0, s.Radius)
	}
	return s.Size.X * s.Size.Y
}
