package actor

import (
	"math"

	"github.com/akmonengine/quickhull"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
	Support(direction mgl64.Vec3) mgl64.Vec3
	GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3
}

// ConvexHull is a collision shape wrapping the convex hull of a point cloud.
// Vertices stay in the local space of the input points.
type ConvexHull struct {
	Hull  *quickhull.Hull
	faces []quickhull.Face
	aabb  AABB
}

var _ ShapeInterface = (*ConvexHull)(nil)

// faceTolerance is the distance under which adjacent triangles are merged
// into one polygonal contact face.
const faceTolerance = 1e-9

// NewConvexHull builds the hull of points with the default configuration.
func NewConvexHull(points []mgl64.Vec3) (*ConvexHull, error) {
	return NewConvexHullWithConfig(points, quickhull.DefaultConfig())
}

// NewConvexHullWithConfig builds the hull of points with cfg.
func NewConvexHullWithConfig(points []mgl64.Vec3, cfg quickhull.Config) (*ConvexHull, error) {
	hull, err := quickhull.BuildWithConfig(points, cfg)
	if err != nil {
		return nil, err
	}

	return &ConvexHull{
		Hull:  hull,
		faces: hull.Faces(faceTolerance),
	}, nil
}

func (c *ConvexHull) ComputeAABB(transform Transform) {
	aabb := EmptyAABB()
	for _, v := range c.Hull.Vertices {
		aabb.Extend(transform.Apply(v))
	}
	c.aabb = aabb
}

func (c *ConvexHull) GetAABB() AABB {
	return c.aabb
}

// CenterOfMass returns the centroid of the solid in local space.
func (c *ConvexHull) CenterOfMass() mgl64.Vec3 {
	return c.Hull.Centroid()
}

func (c *ConvexHull) ComputeMass(density float64) float64 {
	return density * c.Hull.Volume()
}

// ComputeInertia returns the inertia tensor about the center of mass for a
// solid of uniform density and the given mass. The solid is split into one
// tetrahedron per facet, apexed at the centroid, and the second moments of
// each tetrahedron are summed exactly.
func (c *ConvexHull) ComputeInertia(mass float64) mgl64.Mat3 {
	center := c.Hull.Centroid()

	var moments [3][3]float64
	volume := 0.0
	for f := range c.Hull.Facets {
		tri := c.Hull.Triangle(f)
		a := tri[0].Sub(center)
		b := tri[1].Sub(center)
		d := tri[2].Sub(center)

		det := a.Dot(b.Cross(d))
		volume += det / 6

		// ∫ x xᵀ dV over the tetrahedron (0, a, b, d) is
		// det/120 * (a aᵀ + b bᵀ + d dᵀ + s sᵀ) with s = a + b + d.
		s := a.Add(b).Add(d)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				moments[i][j] += det / 120 * (a[i]*a[j] + b[i]*b[j] + d[i]*d[j] + s[i]*s[j])
			}
		}
	}
	if volume <= 0 {
		return mgl64.Mat3{}
	}

	scale := mass / volume
	trace := moments[0][0] + moments[1][1] + moments[2][2]

	// mgl64 matrices are column major.
	var inertia mgl64.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			value := -moments[i][j]
			if i == j {
				value += trace
			}
			inertia[j*3+i] = value * scale
		}
	}
	return inertia
}

// Support returns the hull vertex furthest along direction, in local space.
func (c *ConvexHull) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return c.Hull.Support(direction)
}

// GetContactFeature returns the vertices of the face whose outward normal is
// closest to direction, counter-clockwise around that normal, in local space.
func (c *ConvexHull) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	if len(c.faces) == 0 {
		return nil
	}
	if direction.Len() > 0 {
		direction = direction.Normalize()
	}

	best := 0
	bestDot := math.Inf(-1)
	for i, face := range c.faces {
		if d := face.Normal.Dot(direction); d > bestDot {
			best, bestDot = i, d
		}
	}

	face := c.faces[best]
	feature := make([]mgl64.Vec3, len(face.Vertices))
	for i, v := range face.Vertices {
		feature[i] = c.Hull.Vertices[v]
	}
	return feature
}
