// Package geometry holds the small set of 3-D predicates the hull construction
// is built on: oriented planes, sidedness, collinearity and coplanarity tests.
//
// Every predicate takes its tolerance explicitly. Nothing in this package keeps
// state, so all functions are safe for concurrent use.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// degenerateNormalLength is the length under which a triangle normal is
// considered zero (the triangle has no area).
const degenerateNormalLength = 1e-300

// Side classifies a point against an oriented plane.
type Side int

const (
	Below Side = iota - 1
	On
	Above
)

func (s Side) String() string {
	switch s {
	case Below:
		return "below"
	case On:
		return "on"
	case Above:
		return "above"
	}
	return "unknown"
}

// Plane is an oriented plane: the set of points p with Normal·p + D = 0.
// Normal has unit length, so Distance returns a signed Euclidean distance.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// NewPlane builds the plane through p0, p1, p2 oriented by the right-hand rule:
// Normal = (p1-p0) × (p2-p0), normalised.
//
// Returns false when the three points do not span a plane (zero-area triangle).
func NewPlane(p0, p1, p2 mgl64.Vec3) (Plane, bool) {
	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	length := normal.Len()
	if length < degenerateNormalLength || math.IsNaN(length) || math.IsInf(length, 0) {
		return Plane{}, false
	}
	normal = normal.Mul(1.0 / length)

	return Plane{Normal: normal, D: -normal.Dot(p0)}, true
}

// Valid reports whether the plane has a usable normal.
func (p Plane) Valid() bool {
	return p.Normal.Dot(p.Normal) > 0
}

// Distance returns the signed distance from point to the plane, positive on
// the side the normal points to. An invalid plane reports 0 for every point.
func (p Plane) Distance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Side classifies point with tolerance eps.
func (p Plane) Side(point mgl64.Vec3, eps float64) Side {
	d := p.Distance(point)
	switch {
	case d > eps:
		return Above
	case d < -eps:
		return Below
	}
	return On
}

// IsAbove reports whether point lies strictly outside the plane, beyond eps.
func (p Plane) IsAbove(point mgl64.Vec3, eps float64) bool {
	return p.Distance(point) > eps
}
